package operations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/internal/stockledger"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	apperrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
	"github.com/stockmasterhq/stockmaster-backend/pkg/metrics"
)

// ProductDirectory verifies that referenced products exist and are active.
type ProductDirectory interface {
	EnsureActive(ctx context.Context, ids []uuid.UUID) error
}

// WarehouseDirectory verifies that referenced warehouses exist and are active.
type WarehouseDirectory interface {
	EnsureActive(ctx context.Context, ids []uuid.UUID) error
}

// Reconciler submits a committed operation to the external ledger. It runs
// after the local commit and must never surface its failures to the caller.
type Reconciler interface {
	Record(ctx context.Context, op *models.Operation)
}

// Service is the operation manager: it validates submissions, applies their
// stock effects atomically and hands committed operations to the reconciler.
type Service interface {
	SubmitMovement(ctx context.Context, input SubmitMovementInput) (*models.Operation, error)
	SubmitAdjustment(ctx context.Context, input SubmitAdjustmentInput) (*models.Operation, error)
	Validate(ctx context.Context, id uuid.UUID) (*models.Operation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Operation, error)
	History(ctx context.Context, filters HistoryFilters) ([]models.Operation, error)
}

type service struct {
	repo       Repository
	ledger     stockledger.Repository
	engine     stockledger.Engine
	tx         db.TxRunner
	products   ProductDirectory
	warehouses WarehouseDirectory
	reconciler Reconciler
	metrics    *metrics.OperationMetrics
	logg       *logger.Logger
	maxRetries int
}

// Config carries the service dependencies.
type Config struct {
	Repo       Repository
	Ledger     stockledger.Repository
	Engine     stockledger.Engine
	Tx         db.TxRunner
	Products   ProductDirectory
	Warehouses WarehouseDirectory
	Reconciler Reconciler
	Metrics    *metrics.OperationMetrics
	Logger     *logger.Logger
	MaxRetries int
}

// NewService wires an operation manager with the provided dependencies.
func NewService(cfg Config) (Service, error) {
	if cfg.Repo == nil {
		return nil, fmt.Errorf("operations repository required")
	}
	if cfg.Ledger == nil {
		return nil, fmt.Errorf("stock ledger repository required")
	}
	if cfg.Engine == nil {
		return nil, fmt.Errorf("stock engine required")
	}
	if cfg.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cfg.Products == nil {
		return nil, fmt.Errorf("product directory required")
	}
	if cfg.Warehouses == nil {
		return nil, fmt.Errorf("warehouse directory required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &service{
		repo:       cfg.Repo,
		ledger:     cfg.Ledger,
		engine:     cfg.Engine,
		tx:         cfg.Tx,
		products:   cfg.Products,
		warehouses: cfg.Warehouses,
		reconciler: cfg.Reconciler,
		metrics:    cfg.Metrics,
		logg:       cfg.Logger,
		maxRetries: cfg.MaxRetries,
	}, nil
}

func (s *service) SubmitMovement(ctx context.Context, input SubmitMovementInput) (*models.Operation, error) {
	if err := s.validateMovement(ctx, input); err != nil {
		return nil, err
	}

	status := enums.OperationStatusDone
	if input.Draft {
		status = enums.OperationStatusDraft
	}

	op := &models.Operation{
		Type:             input.Type,
		Status:           status,
		FromWarehouseID:  input.FromWarehouseID,
		ToWarehouseID:    input.ToWarehouseID,
		CreatedBy:        input.CreatedBy,
		Notes:            input.Notes,
		BlockchainStatus: enums.BlockchainStatusPending,
	}
	for i, item := range input.Items {
		op.Items = append(op.Items, models.OperationItem{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Position:  i,
		})
	}
	if status == enums.OperationStatusDone {
		now := time.Now().UTC()
		op.ValidatedAt = &now
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, op); err != nil {
			return err
		}
		if status != enums.OperationStatusDone {
			return nil
		}
		return s.applyMovementEffects(ctx, tx, op)
	})
	if err != nil {
		return nil, mapStockError(err)
	}

	if status == enums.OperationStatusDone {
		s.onCommitted(ctx, op)
	}
	return op, nil
}

func (s *service) SubmitAdjustment(ctx context.Context, input SubmitAdjustmentInput) (*models.Operation, error) {
	if input.CountedQty < 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "countedQty must be zero or positive")
	}
	if input.CreatedBy == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "createdBy is required")
	}
	if err := s.warehouses.EnsureActive(ctx, []uuid.UUID{input.WarehouseID}); err != nil {
		return nil, err
	}
	if err := s.products.EnsureActive(ctx, []uuid.UUID{input.ProductID}); err != nil {
		return nil, err
	}

	var op *models.Operation
	backoff := retry.WithMaxRetries(uint64(s.maxRetries), retry.NewExponential(10*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		current, err := s.engine.Quantity(ctx, input.ProductID, input.WarehouseID)
		if err != nil {
			return err
		}
		diff := input.CountedQty - current

		candidate := &models.Operation{
			Type:             enums.OperationTypeAdjustment,
			Status:           enums.OperationStatusDone,
			ToWarehouseID:    &input.WarehouseID,
			CreatedBy:        input.CreatedBy,
			Notes:            input.Notes,
			BlockchainStatus: enums.BlockchainStatusPending,
			Items: []models.OperationItem{
				{ProductID: input.ProductID, Qty: diff, Position: 0},
			},
		}
		now := time.Now().UTC()
		candidate.ValidatedAt = &now

		txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.engine.WithTx(tx).CompareAndSet(ctx, input.ProductID, input.WarehouseID, current, input.CountedQty); err != nil {
				return err
			}
			if err := s.repo.WithTx(tx).Create(ctx, candidate); err != nil {
				return err
			}
			entry := models.StockLedgerEntry{
				ProductID:     input.ProductID,
				Type:          enums.OperationTypeAdjustment,
				ToWarehouseID: &input.WarehouseID,
				QtyChange:     diff,
				OperationID:   candidate.ID,
			}
			return s.ledger.WithTx(tx).AppendEntries(ctx, []models.StockLedgerEntry{entry})
		})
		if errors.Is(txErr, stockledger.ErrStaleQuantity) {
			return retry.RetryableError(txErr)
		}
		if txErr != nil {
			return txErr
		}
		op = candidate
		return nil
	})
	if errors.Is(err, stockledger.ErrStaleQuantity) {
		return nil, apperrors.Wrap(apperrors.CodeConflict, err, "stock level changed concurrently, retry the adjustment")
	}
	if err != nil {
		return nil, mapStockError(err)
	}

	s.onCommitted(ctx, op)
	return op, nil
}

// Validate promotes a pending operation to DONE, applying its stock effects
// in the same transaction as the status change.
func (s *service) Validate(ctx context.Context, id uuid.UUID) (*models.Operation, error) {
	op, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if op.Status == enums.OperationStatusDone {
		return nil, apperrors.New(apperrors.CodeStateConflict, "operation already validated")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		flipped, err := s.repo.WithTx(tx).MarkValidated(ctx, op.ID)
		if err != nil {
			return err
		}
		if !flipped {
			return apperrors.New(apperrors.CodeStateConflict, "operation already validated")
		}
		return s.applyMovementEffects(ctx, tx, op)
	})
	if err != nil {
		return nil, mapStockError(err)
	}

	op.Status = enums.OperationStatusDone
	now := time.Now().UTC()
	op.ValidatedAt = &now

	s.onCommitted(ctx, op)
	return op, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Operation, error) {
	op, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "operation not found")
	}
	if err != nil {
		return nil, err
	}
	return op, nil
}

func (s *service) History(ctx context.Context, filters HistoryFilters) ([]models.Operation, error) {
	ops, err := s.repo.List(ctx, filters)
	if err != nil {
		// Shield storage details from the caller; the request log keeps them.
		s.logg.Error(ctx, "history query failed", err)
		return nil, apperrors.New(apperrors.CodeInternal, "failed to query operation history").Public()
	}
	if ops == nil {
		ops = []models.Operation{}
	}
	return ops, nil
}

func (s *service) validateMovement(ctx context.Context, input SubmitMovementInput) error {
	switch input.Type {
	case enums.OperationTypeReceipt:
		if input.ToWarehouseID == nil {
			return apperrors.New(apperrors.CodeValidation, "receipt requires a destination warehouse")
		}
		if input.FromWarehouseID != nil {
			return apperrors.New(apperrors.CodeValidation, "receipt must not name a source warehouse")
		}
	case enums.OperationTypeDelivery:
		if input.FromWarehouseID == nil {
			return apperrors.New(apperrors.CodeValidation, "delivery requires a source warehouse")
		}
		if input.ToWarehouseID != nil {
			return apperrors.New(apperrors.CodeValidation, "delivery must not name a destination warehouse")
		}
	case enums.OperationTypeTransfer:
		if input.FromWarehouseID == nil || input.ToWarehouseID == nil {
			return apperrors.New(apperrors.CodeValidation, "transfer requires both warehouses")
		}
		if *input.FromWarehouseID == *input.ToWarehouseID {
			return apperrors.New(apperrors.CodeValidation, "transfer warehouses must differ")
		}
	default:
		return apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unsupported operation type %q", input.Type))
	}

	if len(input.Items) == 0 {
		return apperrors.New(apperrors.CodeValidation, "items must not be empty")
	}
	if input.CreatedBy == "" {
		return apperrors.New(apperrors.CodeValidation, "createdBy is required")
	}

	productIDs := make([]uuid.UUID, 0, len(input.Items))
	for i, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return apperrors.New(apperrors.CodeValidation, fmt.Sprintf("items[%d].productId is required", i))
		}
		if item.Qty <= 0 {
			return apperrors.New(apperrors.CodeValidation, fmt.Sprintf("items[%d].qty must be positive", i))
		}
		productIDs = append(productIDs, item.ProductID)
	}

	warehouseIDs := make([]uuid.UUID, 0, 2)
	if input.FromWarehouseID != nil {
		warehouseIDs = append(warehouseIDs, *input.FromWarehouseID)
	}
	if input.ToWarehouseID != nil {
		warehouseIDs = append(warehouseIDs, *input.ToWarehouseID)
	}
	if err := s.warehouses.EnsureActive(ctx, warehouseIDs); err != nil {
		return err
	}
	return s.products.EnsureActive(ctx, productIDs)
}

// applyMovementEffects writes the per-item stock deltas and ledger entries
// inside the caller's transaction. TRANSFER produces two entries per item so
// both warehouse sides are auditable.
func (s *service) applyMovementEffects(ctx context.Context, tx *gorm.DB, op *models.Operation) error {
	engine := s.engine.WithTx(tx)
	entries := make([]models.StockLedgerEntry, 0, len(op.Items)*2)

	for _, item := range op.Items {
		switch op.Type {
		case enums.OperationTypeReceipt:
			if err := engine.ApplyDelta(ctx, item.ProductID, *op.ToWarehouseID, item.Qty); err != nil {
				return err
			}
			entries = append(entries, models.StockLedgerEntry{
				ProductID:     item.ProductID,
				Type:          op.Type,
				ToWarehouseID: op.ToWarehouseID,
				QtyChange:     item.Qty,
				OperationID:   op.ID,
			})

		case enums.OperationTypeDelivery:
			if err := engine.ApplyDelta(ctx, item.ProductID, *op.FromWarehouseID, -item.Qty); err != nil {
				return err
			}
			entries = append(entries, models.StockLedgerEntry{
				ProductID:       item.ProductID,
				Type:            op.Type,
				FromWarehouseID: op.FromWarehouseID,
				QtyChange:       -item.Qty,
				OperationID:     op.ID,
			})

		case enums.OperationTypeTransfer:
			if err := engine.ApplyDelta(ctx, item.ProductID, *op.FromWarehouseID, -item.Qty); err != nil {
				return err
			}
			if err := engine.ApplyDelta(ctx, item.ProductID, *op.ToWarehouseID, item.Qty); err != nil {
				return err
			}
			entries = append(entries,
				models.StockLedgerEntry{
					ProductID:       item.ProductID,
					Type:            op.Type,
					FromWarehouseID: op.FromWarehouseID,
					QtyChange:       -item.Qty,
					OperationID:     op.ID,
				},
				models.StockLedgerEntry{
					ProductID:     item.ProductID,
					Type:          op.Type,
					ToWarehouseID: op.ToWarehouseID,
					QtyChange:     item.Qty,
					OperationID:   op.ID,
				},
			)

		default:
			return apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unsupported operation type %q", op.Type))
		}
	}

	return s.ledger.WithTx(tx).AppendEntries(ctx, entries)
}

// onCommitted runs after the local transaction is durable. Reconciliation
// must not inherit the request's cancellation: once committed, the external
// submission proceeds even if the client goes away.
func (s *service) onCommitted(ctx context.Context, op *models.Operation) {
	s.metrics.IncCommitted(string(op.Type))
	s.logg.Info(s.logg.WithOperationID(ctx, op.ID.String()), "operation committed")

	if s.reconciler != nil {
		s.reconciler.Record(context.WithoutCancel(ctx), op)
	}
}

func mapStockError(err error) error {
	if errors.Is(err, stockledger.ErrInsufficientStock) {
		return apperrors.Wrap(apperrors.CodeStateConflict, err, "insufficient stock")
	}
	return err
}
