package specification

import (
	"strings"

	"storefront/domain/catalog"

	"gorm.io/gorm"
)

// Translator converts catalogue filters to GORM queries
// DDD principle: Infrastructure layer handles framework-specific concerns
type Translator interface {
	// Translate converts a filter to a GORM scope over the products table
	Translate(f catalog.Filter) func(*gorm.DB) *gorm.DB
}

// GormTranslator implements Translator for GORM
type GormTranslator struct{}

// NewGormTranslator creates a new GORM translator
func NewGormTranslator() *GormTranslator {
	return &GormTranslator{}
}

// Translate applies the same rules as catalog.Filter.Apply: category
// (AllCategories disables it), case-insensitive name match, inclusive price
// bounds with MaxPrice <= 0 meaning unbounded, then the sort order.
func (t *GormTranslator) Translate(f catalog.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, scope := range []func(*gorm.DB) *gorm.DB{
			t.category(f.Category),
			t.query(f.Query),
			t.priceRange(f.MinPrice, f.MaxPrice),
			t.order(f.Sort),
		} {
			db = scope(db)
		}
		return db
	}
}

func (t *GormTranslator) category(category string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if category == "" || category == catalog.AllCategories {
			return db
		}
		return db.Where("category = ?", category)
	}
}

func (t *GormTranslator) query(q string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		q = strings.ToLower(strings.TrimSpace(q))
		if q == "" {
			return db
		}
		return db.Where("LOWER(name) LIKE ?", "%"+escapeLike(q)+"%")
	}
}

func (t *GormTranslator) priceRange(min, max float64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if min > 0 {
			db = db.Where("price >= ?", min)
		}
		if max > 0 {
			db = db.Where("price <= ?", max)
		}
		return db
	}
}

func (t *GormTranslator) order(sort catalog.SortOrder) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch sort {
		case catalog.SortByNameDesc:
			return db.Order("LOWER(name) DESC").Order("position")
		case catalog.SortByPriceLow:
			return db.Order("price ASC").Order("position")
		case catalog.SortByPriceHigh:
			return db.Order("price DESC").Order("position")
		default:
			return db.Order("LOWER(name) ASC").Order("position")
		}
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
