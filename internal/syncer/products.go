package syncer

import (
	"context"
	"fmt"
	"log"

	"github.com/puestomx/go-kitchen-sync/internal/orders"
)

// ProductStore is the catalog surface of the remote repository.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]orders.Product, error)
	GetProduct(ctx context.Context, id string) (*orders.Product, error)
	CreateProduct(ctx context.Context, p orders.Product) (orders.Product, error)
	UpdateProduct(ctx context.Context, p orders.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// ListProducts mirrors the catalog into the cache on success and serves
// the mirror when the remote read fails.
func (s *Synchronizer) ListProducts(ctx context.Context) (list []orders.Product, fromCache bool, err error) {
	list, remoteErr := s.Products.ListProducts(ctx)
	if remoteErr == nil {
		if err := s.Cache.SaveProducts(ctx, list); err != nil {
			log.Printf("cache products snapshot: %v", err)
		}
		return list, false, nil
	}
	log.Printf("remote list products, serving cache: %v", remoteErr)

	list, err = s.Cache.Products(ctx)
	if err != nil {
		return nil, true, fmt.Errorf("remote and cache both failed: %w", remoteErr)
	}
	return list, true, nil
}

func (s *Synchronizer) GetProduct(ctx context.Context, id string) (*orders.Product, error) {
	return s.Products.GetProduct(ctx, id)
}

func (s *Synchronizer) CreateProduct(ctx context.Context, p orders.Product) (orders.Product, error) {
	created, err := s.Products.CreateProduct(ctx, p)
	if err != nil {
		return orders.Product{}, err
	}
	s.refreshProducts(ctx)
	return created, nil
}

func (s *Synchronizer) UpdateProduct(ctx context.Context, p orders.Product) error {
	if err := s.Products.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.refreshProducts(ctx)
	return nil
}

func (s *Synchronizer) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.refreshProducts(ctx)
	return nil
}

// refreshProducts keeps the mirror best-effort; a failed refresh only
// means a slightly staler fallback.
func (s *Synchronizer) refreshProducts(ctx context.Context) {
	list, err := s.Products.ListProducts(ctx)
	if err != nil {
		log.Printf("refresh products mirror: %v", err)
		return
	}
	if err := s.Cache.SaveProducts(ctx, list); err != nil {
		log.Printf("cache products snapshot: %v", err)
	}
}
