package shared

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is one decoded JSON object from the backend or the local cache.
// Field lookups accept several aliases because backends disagree on naming.
type Record map[string]any

// lookup returns the first present, non-null value among keys.
func (r Record) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether any of keys is present and non-null.
func (r Record) Has(keys ...string) bool {
	_, ok := r.lookup(keys...)
	return ok
}

// String returns a textual field. Numbers are formatted without a fraction
// when integral, so numeric ids become "42".
func (r Record) String(keys ...string) string {
	v, ok := r.lookup(keys...)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// Float returns a numeric field. Numeric strings are accepted; anything else
// (including NaN and infinities) is an error. ok is false when absent.
func (r Record) Float(keys ...string) (f float64, ok bool, err error) {
	v, present := r.lookup(keys...)
	if !present {
		return 0, false, nil
	}
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case json.Number:
		f, err = val.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(val), 64)
	default:
		err = fmt.Errorf("not a number: %v", v)
	}
	if err != nil {
		return 0, true, fmt.Errorf("field %s: %w", keys[0], err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true, fmt.Errorf("field %s: not a finite number", keys[0])
	}
	return f, true, nil
}

// Int returns an integral field; fractional values are an error.
func (r Record) Int(keys ...string) (n int, ok bool, err error) {
	f, ok, err := r.Float(keys...)
	if !ok || err != nil {
		return 0, ok, err
	}
	if f != math.Trunc(f) {
		return 0, true, fmt.Errorf("field %s: not an integer", keys[0])
	}
	return int(f), true, nil
}

// Time parses RFC 3339, date-only, or unix-millisecond timestamps.
func (r Record) Time(keys ...string) (time.Time, bool) {
	v, ok := r.lookup(keys...)
	if !ok {
		return time.Time{}, false
	}
	switch val := v.(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, strings.TrimSpace(val)); err == nil {
				return t, true
			}
		}
	case float64:
		return time.UnixMilli(int64(val)).UTC(), true
	}
	return time.Time{}, false
}

// Records returns the nested list under one of keys, dropping non-object elements.
func (r Record) Records(keys ...string) ([]Record, bool) {
	v, ok := r.lookup(keys...)
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	return ToRecords(list), true
}

// Object returns the nested object under one of keys.
func (r Record) Object(keys ...string) (Record, bool) {
	v, ok := r.lookup(keys...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return Record(m), ok
}

// ToRecords keeps the object elements of list.
func ToRecords(list []any) []Record {
	out := make([]Record, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}
