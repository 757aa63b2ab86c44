package service

import (
	"context"
	"fmt"

	"github.com/tienda-labs/tienda/internal/model"
	"github.com/tienda-labs/tienda/internal/repository"
)

type CreateProductParams struct {
	Name  string
	Price float64
}

type UpdateProductParams struct {
	ID    int64
	Name  string
	Price float64
}

type ListProductsParams struct {
	Page int
	Size int
}

type ProductPage struct {
	Products []model.Product
	Page     int
	Size     int
	Total    int64
}

type CatalogService interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, params ListProductsParams) (ProductPage, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

func (s *catalogService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	product, err := s.productRepo.CreateProduct(ctx, repository.CreateProductParams{
		Name:  params.Name,
		Price: params.Price,
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository create product: %w", err)
	}

	return product, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	return product, nil
}

// UpdateProduct writes the requested values without an existence check and
// echoes them back, whether or not a row was touched.
func (s *catalogService) UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error) {
	product := model.Product{
		ID:    params.ID,
		Name:  params.Name,
		Price: params.Price,
	}
	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		return model.Product{}, fmt.Errorf("product repository update product: %w", err)
	}

	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("product repository delete product: %w", err)
	}

	return nil
}

// ListProducts runs the page query and the count as two independent
// statements. Total and page are not a consistent snapshot under concurrent
// writes.
func (s *catalogService) ListProducts(ctx context.Context, params ListProductsParams) (ProductPage, error) {
	products, err := s.productRepo.ListProducts(ctx, repository.ListProductsParams{
		Limit:  params.Size,
		Offset: (params.Page - 1) * params.Size,
	})
	if err != nil {
		return ProductPage{}, fmt.Errorf("product repository list products: %w", err)
	}

	total, err := s.productRepo.CountProducts(ctx)
	if err != nil {
		return ProductPage{}, fmt.Errorf("product repository count products: %w", err)
	}

	return ProductPage{
		Products: products,
		Page:     params.Page,
		Size:     params.Size,
		Total:    total,
	}, nil
}
