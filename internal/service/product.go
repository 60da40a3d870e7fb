package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kommerce/shop/internal/logging"
	"github.com/kommerce/shop/internal/models"
	"github.com/kommerce/shop/internal/repo"
	"github.com/kommerce/shop/internal/service/search"
	"github.com/kommerce/shop/internal/transport"
)

// CatalogService owns product CRUD. Mutations keep the search index in sync;
// index failures are logged, the database row stays authoritative.
type CatalogService struct {
	Repo   *repo.GormRepo
	Search *search.Indexer
	Events EventPublisher
}

func (s *CatalogService) Create(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if req.Name == "" || req.Description == "" || req.Price == nil || req.Quantity == nil || req.Category == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if *req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if !models.ValidCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}
	if len(req.Images) == 0 {
		return nil, fmt.Errorf("%w: product image is required", ErrValidation)
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
		Category:    req.Category,
		Images:      imageModels(req.Images),
	}
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.index(ctx, product)
	l.Info("product created", "product_id", product.ID)
	publish(ctx, s.Events, TopicProductEvents, fmt.Sprint(product.ID), map[string]interface{}{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})
	return product, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product not found", ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) List(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	return s.Repo.ListProducts(ctx, offset, limit)
}

func (s *CatalogService) Update(ctx context.Context, id uint, req transport.UpdateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update", "product_id", id)

	product, err := s.Repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no product found with that ID", ErrNotFound)
		}
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
		product.Price = *req.Price
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.Category != nil {
		if !models.ValidCategory(*req.Category) {
			return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *req.Category)
		}
		product.Category = *req.Category
	}

	var replaced []models.ProductImage
	if len(req.Images) > 0 {
		replaced = product.Images
		product.Images = imageModels(req.Images)
	}

	if err := s.Repo.SaveProduct(ctx, product, replaced); err != nil {
		return nil, err
	}

	s.index(ctx, product)
	l.Info("product updated")
	publish(ctx, s.Events, TopicProductEvents, fmt.Sprint(product.ID), map[string]interface{}{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})
	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete", "product_id", id)

	if _, err := s.Repo.FindProductByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product not found", ErrNotFound)
		}
		return err
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			l.Error("search index delete failed", "error", err)
		}
	}
	l.Info("product deleted")
	publish(ctx, s.Events, TopicProductEvents, fmt.Sprint(id), map[string]interface{}{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}

func (s *CatalogService) index(ctx context.Context, product *models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexProduct(ctx, product); err != nil {
		logging.FromContext(ctx).Error("search index failed", "product_id", product.ID, "error", err)
	}
}

func imageModels(refs []transport.ImageRef) []models.ProductImage {
	out := make([]models.ProductImage, 0, len(refs))
	for _, ref := range refs {
		out = append(out, models.ProductImage{URL: ref.URL, PublicID: ref.PublicID})
	}
	return out
}
