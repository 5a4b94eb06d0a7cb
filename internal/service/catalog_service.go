package service

import (
	"context"
	"errors"

	"quickbite/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type CatalogService struct {
	repository CatalogRepository
}

func NewCatalogService(repository CatalogRepository) *CatalogService {
	return &CatalogService{repository: repository}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repository.ListActiveProducts(ctx)
}

// GetProduct returns the product together with its option groups so the
// storefront can render the add-on picker in one round trip.
func (s *CatalogService) GetProduct(ctx context.Context, productID int) (*domain.Product, []domain.OptionGroup, error) {
	product, err := s.repository.GetProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, ErrProductNotFound
	}

	groups, err := s.repository.ListOptionGroups(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	return product, groups, nil
}
