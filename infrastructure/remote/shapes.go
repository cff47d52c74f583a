package remote

import (
	"bytes"
	"encoding/json"
	"strings"

	"storefront/domain/shared"
)

// shape names the response layouts the commerce backends are known to use.
type shape int

const (
	// shapeText is a non-JSON body or a bare JSON string.
	shapeText shape = iota
	// shapeArray is a top-level JSON array.
	shapeArray
	// shapeItems is an object wrapping its list in "items".
	shapeItems
	// shapeEnvelope is {success, data, error, code, message, request_id}.
	shapeEnvelope
	// shapeObject is any other JSON object.
	shapeObject
)

func (s shape) String() string {
	switch s {
	case shapeText:
		return "text"
	case shapeArray:
		return "array"
	case shapeItems:
		return "items"
	case shapeEnvelope:
		return "envelope"
	default:
		return "object"
	}
}

// payload is a classified response body. Exactly one of text, list, obj is
// meaningful, selected by kind. For envelopes, inner holds the classified data.
type payload struct {
	kind  shape
	text  string
	list  []any
	obj   shared.Record
	inner *payload
}

func classify(body []byte) payload {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return payload{kind: shapeText}
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return payload{kind: shapeText, text: string(trimmed)}
	}
	return classifyValue(v)
}

func classifyValue(v any) payload {
	switch val := v.(type) {
	case []any:
		return payload{kind: shapeArray, list: val}
	case map[string]any:
		rec := shared.Record(val)
		if _, ok := val["success"].(bool); ok {
			inner := classifyValue(val["data"])
			return payload{kind: shapeEnvelope, obj: rec, inner: &inner}
		}
		if items, ok := val["items"].([]any); ok {
			return payload{kind: shapeItems, obj: rec, list: items}
		}
		return payload{kind: shapeObject, obj: rec}
	case string:
		return payload{kind: shapeText, text: val}
	default:
		return payload{kind: shapeText}
	}
}

// data strips an envelope, if any.
func (p payload) data() payload {
	if p.kind == shapeEnvelope && p.inner != nil {
		return *p.inner
	}
	return p
}

// records normalises a list response. For plain objects, the first of keys
// holding a list is used.
func (p payload) records(keys ...string) []shared.Record {
	d := p.data()
	switch d.kind {
	case shapeArray, shapeItems:
		return shared.ToRecords(d.list)
	case shapeObject:
		if recs, ok := d.obj.Records(keys...); ok {
			return recs
		}
	}
	return nil
}

// object normalises a single-entity response: the first of keys holding an
// object, else the object itself.
func (p payload) object(keys ...string) (shared.Record, bool) {
	d := p.data()
	if d.kind != shapeObject && d.kind != shapeItems {
		return nil, false
	}
	if nested, ok := d.obj.Object(keys...); ok {
		return nested, true
	}
	return d.obj, true
}

// failed reports an envelope carrying success=false.
func (p payload) failed() bool {
	if p.kind != shapeEnvelope {
		return false
	}
	ok, _ := p.obj["success"].(bool)
	return !ok
}

// message extracts a human readable message for errors.
func (p payload) message() string {
	switch p.kind {
	case shapeText:
		return strings.TrimSpace(p.text)
	case shapeEnvelope, shapeObject, shapeItems:
		return p.obj.String("message", "error", "detail")
	}
	return ""
}

func (p payload) errorCode() string {
	if p.kind == shapeEnvelope {
		return p.obj.String("error")
	}
	if p.obj != nil {
		return p.obj.String("code", "error_code")
	}
	return ""
}

func (p payload) field() string {
	if p.obj == nil {
		return ""
	}
	return p.obj.String("field")
}
