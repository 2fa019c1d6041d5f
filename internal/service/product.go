package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/models"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/repository"
)

// ErrProductNotFound indicates no product matches the given id.
var ErrProductNotFound = errors.New("product not found")

// ProductService handles catalog CRUD.
type ProductService interface {
	Create(ctx context.Context, product *models.Product) error
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id string, patch *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) (*models.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new ProductService instance.
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	if product.Name == "" || product.Type == "" || product.Price == 0 {
		return ErrInvalidInput
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return fmt.Errorf("creating product: %w", err)
	}
	return nil
}

func (s *productService) List(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *productService) Update(ctx context.Context, id string, patch *models.Product) (*models.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("looking up product: %w", err)
	}

	if patch.Name != "" {
		product.Name = patch.Name
	}
	if patch.Type != "" {
		product.Type = patch.Type
	}
	if patch.CC != 0 {
		product.CC = patch.CC
	}
	if patch.Price != 0 {
		product.Price = patch.Price
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("looking up product: %w", err)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("deleting product: %w", err)
	}

	return product, nil
}
