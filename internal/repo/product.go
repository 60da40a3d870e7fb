package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/kommerce/shop/internal/models"
)

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) FindProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Preload("Images").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductsByIDs returns the products keyed by id. IDs with no matching row
// are simply absent from the map.
func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	var products []models.Product
	if err := r.DB.WithContext(ctx).Preload("Images").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]models.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).Preload("Images").
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SaveProduct persists the product; replacedImages are the refs dropped by
// the update and are removed in the same transaction.
func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product, replacedImages []models.ProductImage) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, img := range replacedImages {
			if img.ID == 0 {
				continue
			}
			if err := tx.Delete(&models.ProductImage{}, img.ID).Error; err != nil {
				return err
			}
		}
		return tx.Save(p).Error
	})
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}
