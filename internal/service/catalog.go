package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/policy"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	// Search is optional; without it search runs against the database.
	Search search.Indexer
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	return p, nil
}

// ListProducts is the public listing; it always hides products that are out
// of stock, on top of whatever the caller filtered by.
func (s *CatalogService) ListProducts(ctx context.Context, f repo.ProductFilter, offset, limit int) (int64, []models.Product, error) {
	f.InStockOnly = true
	return s.Repo.ListProducts(ctx, f, offset, limit)
}

func (s *CatalogService) ProductInfo(ctx context.Context) (transport.ProductInfoResponse, error) {
	items, err := s.Repo.AllProducts(ctx)
	if err != nil {
		return transport.ProductInfoResponse{}, err
	}

	resp := transport.ProductInfoResponse{
		Products: transport.NewProductResponses(items),
		Count:    len(items),
	}
	if len(items) > 0 {
		top := items[0].Price
		for _, p := range items[1:] {
			top = decimal.Max(top, p.Price)
		}
		m := transport.Money(top)
		resp.MaxPrice = &m
	}
	return resp, nil
}

// SearchProducts asks the index first and falls back to a database substring
// search when no index is configured or the index call fails. Index hits are
// re-read from the database and keep the index's ranking.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	if s.Search != nil {
		total, ids, err := s.Search.Search(ctx, q, offset, limit)
		if err == nil {
			items, err := s.Repo.ProductsByIDs(ctx, ids)
			if err != nil {
				return 0, nil, err
			}
			return total, rank(items, ids), nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "reason", "falling back to database", "error", err)
	}
	return s.Repo.SearchProducts(ctx, q, offset, limit)
}

func rank(items []models.Product, ids []uint) []models.Product {
	byID := make(map[uint]models.Product, len(items))
	for _, p := range items {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(items))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *CatalogService) CreateProduct(ctx context.Context, who *policy.Principal, req transport.ProductRequest) (*models.Product, error) {
	if !policy.CanWriteProduct(who) {
		return nil, fmt.Errorf("%w: product write requires elevated role", ErrForbidden)
	}

	p := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := ValidateProduct(p); err != nil {
		return nil, err
	}

	created, err := s.Repo.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}

	s.productChanged(ctx, ProductCreated, *created)
	return created, nil
}

// ReplaceProduct overwrites every writable field.
func (s *CatalogService) ReplaceProduct(ctx context.Context, who *policy.Principal, id uint, req transport.ProductRequest) (*models.Product, error) {
	return s.modifyProduct(ctx, who, id, func(p *models.Product) {
		p.Name = req.Name
		p.Description = req.Description
		p.Price = req.Price
		p.Stock = req.Stock
	})
}

// PatchProduct only overwrites the fields present in req.
func (s *CatalogService) PatchProduct(ctx context.Context, who *policy.Principal, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	return s.modifyProduct(ctx, who, id, func(p *models.Product) {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.Stock != nil {
			p.Stock = *req.Stock
		}
	})
}

// modifyProduct is a read-modify-write guarded by the product version. A
// write that raced with another one reports ErrConflict.
func (s *CatalogService) modifyProduct(ctx context.Context, who *policy.Principal, id uint, apply func(*models.Product)) (*models.Product, error) {
	if !policy.CanWriteProduct(who) {
		return nil, fmt.Errorf("%w: product write requires elevated role", ErrForbidden)
	}

	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(p)
	if err := ValidateProduct(p); err != nil {
		return nil, err
	}

	updated, err := s.Repo.UpdateProduct(ctx, p)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrStaleVersion):
			return nil, fmt.Errorf("%w: product %d was modified concurrently", ErrConflict, id)
		case repo.IsNotFound(err):
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}

	s.productChanged(ctx, ProductUpdated, *updated)
	return updated, nil
}

// DeleteProduct also removes every order line that referenced the product.
func (s *CatalogService) DeleteProduct(ctx context.Context, who *policy.Principal, id uint) error {
	if !policy.CanWriteProduct(who) {
		return fmt.Errorf("%w: product write requires elevated role", ErrForbidden)
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return err
	}

	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_unindex_failed", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.ProductTopic, strconv.FormatUint(uint64(id), 10), ProductEvent{
		Type:      ProductDeleted,
		ProductID: id,
		At:        time.Now().UTC(),
	})
	return nil
}

func (s *CatalogService) productChanged(ctx context.Context, kind string, p models.Product) {
	if s.Search != nil {
		if err := s.Search.IndexProduct(ctx, p); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
		}
	}

	view := transport.NewProductResponse(p)
	publish(ctx, s.Events, events.ProductTopic, strconv.FormatUint(uint64(p.ID), 10), ProductEvent{
		Type:      kind,
		ProductID: p.ID,
		Product:   &view,
		At:        time.Now().UTC(),
	})
}
