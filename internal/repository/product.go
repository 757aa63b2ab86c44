package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tienda-labs/tienda/internal/apperr"
	"github.com/tienda-labs/tienda/internal/model"
	"github.com/tienda-labs/tienda/internal/storage/db"
)

type CreateProductParams struct {
	Name  string
	Price float64
}

type ListProductsParams struct {
	Limit  int
	Offset int
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	UpdateProduct(ctx context.Context, product model.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	CountProducts(ctx context.Context) (int64, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	price, err := numericFromFloat(params.Price)
	if err != nil {
		return model.Product{}, fmt.Errorf("scan price: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, `
		INSERT INTO productos (nombre, precio)
		VALUES (@nombre, @precio)
		RETURNING id
	`, pgx.NamedArgs{
		"nombre": params.Name,
		"precio": price,
	}).Scan(&id); err != nil {
		return model.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return model.Product{
		ID:    id,
		Name:  params.Name,
		Price: params.Price,
	}, nil
}

func (r productRepository) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	var (
		product model.Product
		price   pgtype.Numeric
	)
	if err := r.db.QueryRow(ctx, `
		SELECT id, nombre, precio
		FROM productos
		WHERE id = @id
	`, pgx.NamedArgs{"id": id}).Scan(&product.ID, &product.Name, &price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, apperr.ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("query product: %w", err)
	}

	priceValue, err := price.Float64Value()
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price to float64: %w", err)
	}
	product.Price = priceValue.Float64

	return product, nil
}

// UpdateProduct writes the given values without checking that the row exists.
// Updating an absent identifier affects zero rows and is not an error.
func (r productRepository) UpdateProduct(ctx context.Context, product model.Product) error {
	price, err := numericFromFloat(product.Price)
	if err != nil {
		return fmt.Errorf("scan price: %w", err)
	}

	if _, err := r.db.Exec(ctx, `
		UPDATE productos
		SET nombre = @nombre, precio = @precio
		WHERE id = @id
	`, pgx.NamedArgs{
		"id":     product.ID,
		"nombre": product.Name,
		"precio": price,
	}); err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	return nil
}

// DeleteProduct removes the row if present. Prior absence is not distinguished.
func (r productRepository) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `
		DELETE FROM productos
		WHERE id = @id
	`, pgx.NamedArgs{"id": id}); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	return nil
}

func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, nombre, precio
		FROM productos
		LIMIT @limit OFFSET @offset
	`, pgx.NamedArgs{
		"limit":  params.Limit,
		"offset": params.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		var (
			product model.Product
			price   pgtype.Numeric
		)
		if err := rows.Scan(&product.ID, &product.Name, &price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}

		priceValue, err := price.Float64Value()
		if err != nil {
			return nil, fmt.Errorf("convert price to float64: %w", err)
		}
		product.Price = priceValue.Float64

		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (r productRepository) CountProducts(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM productos`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}

	return total, nil
}

func numericFromFloat(f float64) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(fmt.Sprintf("%f", f)); err != nil {
		return pgtype.Numeric{}, err
	}
	return n, nil
}
