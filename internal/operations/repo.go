package operations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	"github.com/stockmasterhq/stockmaster-backend/pkg/pagination"
)

// Repository manages persistence for operations and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, op *models.Operation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Operation, error)
	List(ctx context.Context, filters HistoryFilters) ([]models.Operation, error)
	MarkValidated(ctx context.Context, id uuid.UUID) (bool, error)
	SetReconciliation(ctx context.Context, id uuid.UUID, txHash *string, status enums.BlockchainStatus) (bool, error)
	CountPendingByType(ctx context.Context) (map[enums.OperationType]int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an operations repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, op *models.Operation) error {
	return r.db.WithContext(ctx).Create(op).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Operation, error) {
	var op models.Operation
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&op, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// List applies the history filters against the operations table. The
// either-side warehouse match and the category membership test both run in
// SQL so the page cap applies after filtering, not before.
func (r *repository) List(ctx context.Context, filters HistoryFilters) ([]models.Operation, error) {
	q := r.db.WithContext(ctx).Model(&models.Operation{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})

	if filters.Type != nil {
		q = q.Where("type = ?", *filters.Type)
	}
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.WarehouseID != nil {
		q = q.Where("from_warehouse_id = ? OR to_warehouse_id = ?", *filters.WarehouseID, *filters.WarehouseID)
	}
	if filters.Category != "" {
		productIDs := r.db.Table("products").Select("id").Where("category = ?", filters.Category)
		operationIDs := r.db.Table("operation_items").Select("operation_id").Where("product_id IN (?)", productIDs)
		q = q.Where("id IN (?)", operationIDs)
	}
	if filters.StartDate != nil {
		q = q.Where("created_at >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		q = q.Where("created_at <= ?", *filters.EndDate)
	}

	var ops []models.Operation
	err := q.Order("created_at DESC").
		Limit(pagination.NormalizeLimit(filters.Limit)).
		Find(&ops).Error
	if err != nil {
		return nil, err
	}
	return ops, nil
}

// MarkValidated flips a still-pending operation to DONE. The status guard
// makes two racing validations apply the stock effects at most once.
func (r *repository) MarkValidated(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Operation{}).
		Where("id = ? AND status IN ?", id, enums.PendingOperationStatuses).
		Updates(map[string]any{
			"status":       enums.OperationStatusDone,
			"validated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetReconciliation writes the reconciliation outcome once. The PENDING guard
// makes a repeat call against a terminal row a no-op; the bool reports whether
// this call performed the write.
func (r *repository) SetReconciliation(ctx context.Context, id uuid.UUID, txHash *string, status enums.BlockchainStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Operation{}).
		Where("id = ? AND blockchain_status = ?", id, enums.BlockchainStatusPending).
		Updates(map[string]any{
			"tx_hash":           txHash,
			"blockchain_status": status,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CountPendingByType(ctx context.Context) (map[enums.OperationType]int64, error) {
	type bucket struct {
		Type  enums.OperationType
		Count int64
	}
	var buckets []bucket
	err := r.db.WithContext(ctx).Model(&models.Operation{}).
		Select("type, COUNT(*) AS count").
		Where("status IN ?", enums.PendingOperationStatuses).
		Group("type").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.OperationType]int64, len(buckets))
	for _, b := range buckets {
		counts[b.Type] = b.Count
	}
	return counts, nil
}
