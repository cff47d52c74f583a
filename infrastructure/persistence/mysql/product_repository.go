package mysql

import (
	"context"
	"errors"

	"storefront/domain/catalog"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/mysql/po"
	"storefront/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

// ProductRepository MySQL/GORM implementation of the catalogue
type ProductRepository struct {
	db         *gorm.DB
	translator specification.Translator
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db, translator: specification.NewGormTranslator()}
}


func (r *ProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	var rows []po.ProductPO
	if err := getDB(ctx, r.db).Order("position").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

func (r *ProductRepository) Search(ctx context.Context, f catalog.Filter) ([]catalog.Product, error) {
	var rows []po.ProductPO
	if err := getDB(ctx, r.db).Scopes(r.translator.Translate(f)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toProducts(rows), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (catalog.Product, error) {
	var row po.ProductPO
	err := getDB(ctx, r.db).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return catalog.Product{}, shared.NewNotFoundError("product")
	}
	if err != nil {
		return catalog.Product{}, err
	}
	return row.ToDomain(), nil
}

// Save creates the product at the end of the catalogue, or updates it in place.
func (r *ProductRepository) Save(ctx context.Context, p catalog.Product) error {
	db := getDB(ctx, r.db)
	var existing po.ProductPO
	err := db.Select("id", "position").First(&existing, "id = ?", p.ID).Error
	switch {
	case err == nil:
		row := po.FromProductDomain(p, existing.Position)
		return db.Model(&po.ProductPO{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"name":           row.Name,
			"category":       row.Category,
			"price":          row.Price,
			"stock_quantity": row.StockQuantity,
			"image":          row.Image,
			"description":    row.Description,
		}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		var count int64
		if err := db.Model(&po.ProductPO{}).Count(&count).Error; err != nil {
			return err
		}
		return db.Create(po.FromProductDomain(p, int(count))).Error
	default:
		return err
	}
}

func toProducts(rows []po.ProductPO) []catalog.Product {
	out := make([]catalog.Product, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ catalog.Repository = (*ProductRepository)(nil)
