package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tienda-labs/tienda/internal/apperr"
	"github.com/tienda-labs/tienda/internal/model"
	"github.com/tienda-labs/tienda/internal/storage/db"
)

// pgUniqueViolation is the Postgres error code for a duplicate primary key.
const pgUniqueViolation = "23505"

type AdjustQuantityParams struct {
	ProductID int64
	// Amount is subtracted from the on-hand quantity.
	Amount int64
	// EnforceFloor rejects an adjustment that would drive the quantity
	// below zero.
	EnforceFloor bool
}

type InventoryRepository interface {
	WithDB(db db.DB) InventoryRepository
	CreateInventory(ctx context.Context, record model.InventoryRecord) error
	GetInventory(ctx context.Context, productID int64) (model.InventoryRecord, error)
	// AdjustQuantity applies the decrement and returns the resulting
	// quantity. Check and update happen in one statement, so two
	// concurrent adjustments of the same record cannot observe the same
	// starting quantity.
	AdjustQuantity(ctx context.Context, params AdjustQuantityParams) (int64, error)
}

type inventoryRepository struct {
	db db.DB
}

func NewInventoryRepository(db db.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r inventoryRepository) WithDB(db db.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r inventoryRepository) CreateInventory(ctx context.Context, record model.InventoryRecord) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO inventarios (producto_id, cantidad)
		VALUES (@producto_id, @cantidad)
	`, pgx.NamedArgs{
		"producto_id": record.ProductID,
		"cantidad":    record.Quantity,
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperr.ErrInventoryExists.WrapParent(err)
		}
		return fmt.Errorf("insert inventory: %w", err)
	}

	return nil
}

func (r inventoryRepository) GetInventory(ctx context.Context, productID int64) (model.InventoryRecord, error) {
	var record model.InventoryRecord
	if err := r.db.QueryRow(ctx, `
		SELECT producto_id, cantidad
		FROM inventarios
		WHERE producto_id = @producto_id
	`, pgx.NamedArgs{"producto_id": productID}).Scan(&record.ProductID, &record.Quantity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.InventoryRecord{}, apperr.ErrInventoryNotFound
		}
		return model.InventoryRecord{}, fmt.Errorf("query inventory: %w", err)
	}

	return record, nil
}

func (r inventoryRepository) AdjustQuantity(ctx context.Context, params AdjustQuantityParams) (int64, error) {
	query := `
		UPDATE inventarios
		SET cantidad = cantidad - @amount
		WHERE producto_id = @producto_id
		RETURNING cantidad
	`
	if params.EnforceFloor {
		query = `
			UPDATE inventarios
			SET cantidad = cantidad - @amount
			WHERE producto_id = @producto_id AND cantidad >= @amount
			RETURNING cantidad
		`
	}

	var quantity int64
	err := r.db.QueryRow(ctx, query, pgx.NamedArgs{
		"producto_id": params.ProductID,
		"amount":      params.Amount,
	}).Scan(&quantity)
	if err == nil {
		return quantity, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("adjust quantity: %w", err)
	}

	if !params.EnforceFloor {
		return 0, apperr.ErrInventoryNotFound
	}

	// Zero rows with the floor active: either the record is missing or the
	// decrement would go negative.
	if _, getErr := r.GetInventory(ctx, params.ProductID); getErr != nil {
		return 0, getErr
	}
	return 0, apperr.ErrInsufficientStock
}
