package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/tienda-labs/tienda/internal/config"
	"github.com/tienda-labs/tienda/internal/event"
	"github.com/tienda-labs/tienda/internal/model"
	"github.com/tienda-labs/tienda/internal/repository"
	"github.com/tienda-labs/tienda/internal/storage/db"
	"github.com/tienda-labs/tienda/pkg/outbox"
	"github.com/tienda-labs/tienda/pkg/ptr"
)

// ProductLookup is the inventory service's view of the catalog service.
type ProductLookup interface {
	GetProduct(ctx context.Context, productID int64) (model.Product, error)
}

type CreateInventoryParams struct {
	ProductID int64
	Quantity  int64
}

type PurchaseParams struct {
	ProductID int64
	Quantity  int64
}

// InventoryView is an inventory record composed with its catalog product.
type InventoryView struct {
	Record  model.InventoryRecord
	Product model.Product
}

type InventoryService interface {
	CreateInventory(ctx context.Context, params CreateInventoryParams) (model.InventoryRecord, error)
	GetInventory(ctx context.Context, productID int64) (InventoryView, error)
	Purchase(ctx context.Context, params PurchaseParams) (int64, error)
}

type inventoryService struct {
	db            db.DB
	logger        *slog.Logger
	inventoryRepo repository.InventoryRepository
	outboxMsgRepo repository.OutboxMsgRepository
	products      ProductLookup

	allowNegativeStock bool
}

func NewInventoryService(
	db db.DB,
	logger *slog.Logger,
	inventoryRepo repository.InventoryRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	products ProductLookup,
	cfg config.Inventory,
) InventoryService {
	return &inventoryService{
		db:                 db,
		logger:             logger.With(slog.String("service", "inventory")),
		inventoryRepo:      inventoryRepo,
		outboxMsgRepo:      outboxMsgRepo,
		products:           products,
		allowNegativeStock: cfg.AllowNegativeStock,
	}
}

func (s *inventoryService) CreateInventory(ctx context.Context, params CreateInventoryParams) (model.InventoryRecord, error) {
	record := model.InventoryRecord{
		ProductID: params.ProductID,
		Quantity:  params.Quantity,
	}
	if err := s.inventoryRepo.CreateInventory(ctx, record); err != nil {
		return model.InventoryRecord{}, fmt.Errorf("inventory repository create inventory: %w", err)
	}

	return record, nil
}

// GetInventory looks up the record first; when it is absent no catalog call
// is made. The catalog lookup carries its own timeout and every outcome is
// classified by the lookup implementation.
func (s *inventoryService) GetInventory(ctx context.Context, productID int64) (InventoryView, error) {
	record, err := s.inventoryRepo.GetInventory(ctx, productID)
	if err != nil {
		return InventoryView{}, fmt.Errorf("inventory repository get inventory: %w", err)
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return InventoryView{}, fmt.Errorf("catalog lookup: %w", err)
	}

	return InventoryView{
		Record:  record,
		Product: product,
	}, nil
}

// Purchase commits the decrement and the audit event atomically. The
// decrement itself is a single conditional statement, so concurrent
// purchases of the same record serialize at the row and no update is lost.
func (s *inventoryService) Purchase(ctx context.Context, params PurchaseParams) (int64, error) {
	var newQuantity int64
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		quantity, err := s.inventoryRepo.
			WithDB(db).
			AdjustQuantity(ctx, repository.AdjustQuantityParams{
				ProductID:    params.ProductID,
				Amount:       params.Quantity,
				EnforceFloor: !s.allowNegativeStock,
			})
		if err != nil {
			return fmt.Errorf("inventory repository adjust quantity: %w", err)
		}
		newQuantity = quantity

		ev := event.StockChangedEvent{
			ProductID: params.ProductID,
			Delta:     -params.Quantity,
			Quantity:  quantity,
		}
		evBytes, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}

		if err := s.outboxMsgRepo.
			WithDB(db).
			CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
				Topic:        event.TopicStockChanged,
				Headers:      outbox.BuildHeaders(ctx),
				Payload:      evBytes,
				PartitionKey: ptr.New(strconv.FormatInt(params.ProductID, 10)),
			}); err != nil {
			return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
		}

		return nil
	}); err != nil {
		return 0, fmt.Errorf("db with tx: %w", err)
	}

	s.logger.InfoContext(ctx, "inventory adjusted",
		slog.Int64("producto_id", params.ProductID),
		slog.Int64("cantidad", newQuantity),
	)

	return newQuantity, nil
}
