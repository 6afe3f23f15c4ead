package repository

import (
	"context"
	"time"

	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChangeFilter narrows List. Zero values mean "no constraint"; From and To
// are inclusive.
type ChangeFilter struct {
	ProductID *uuid.UUID
	Reason    model.ChangeReason
	From      *time.Time
	To        *time.Time
}

// ChangeRepository is append-only: there is no update or delete.
type ChangeRepository interface {
	Append(tx *gorm.DB, change *model.InventoryChange) error
	FindByProduct(ctx context.Context, ownerID, productID uuid.UUID) ([]model.InventoryChange, error)
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.InventoryChange, error)
	List(ctx context.Context, ownerID uuid.UUID, filter ChangeFilter) ([]model.InventoryChange, error)
	SumByReason(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (map[model.ChangeReason]int64, error)
	ListInWindow(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]model.InventoryChange, error)
}

type changeRepo struct {
	db *gorm.DB
}

func NewChangeRepo(db *gorm.DB) ChangeRepository {
	return &changeRepo{db}
}

func (r *changeRepo) Append(tx *gorm.DB, change *model.InventoryChange) error {
	return translateError(tx.Omit("Product", "User").Create(change).Error)
}

func (r *changeRepo) newestFirst(ctx context.Context, ownerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("timestamp DESC").
		Order("id DESC")
}

func (r *changeRepo) FindByProduct(ctx context.Context, ownerID, productID uuid.UUID) ([]model.InventoryChange, error) {
	changes := []model.InventoryChange{}
	err := r.newestFirst(ctx, ownerID).Where("product_id = ?", productID).Find(&changes).Error
	return changes, err
}

func (r *changeRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.InventoryChange, error) {
	var change model.InventoryChange
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&change, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &change, nil
}

func (r *changeRepo) List(ctx context.Context, ownerID uuid.UUID, filter ChangeFilter) ([]model.InventoryChange, error) {
	q := r.newestFirst(ctx, ownerID)
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Reason != "" {
		q = q.Where("reason = ?", filter.Reason)
	}
	if filter.From != nil {
		q = q.Where("timestamp >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		q = q.Where("timestamp <= ?", filter.To.UTC())
	}
	changes := []model.InventoryChange{}
	err := q.Find(&changes).Error
	return changes, err
}

// inWindow selects the owner's records in [from, to] whose product is still
// live. Records of soft-deleted products are kept but not counted.
func (r *changeRepo) inWindow(ctx context.Context, ownerID uuid.UUID, from, to time.Time) *gorm.DB {
	live := r.db.Model(&model.Product{}).Select("id").Where("owner_id = ?", ownerID)
	return r.db.WithContext(ctx).Model(&model.InventoryChange{}).
		Where("owner_id = ?", ownerID).
		Where("product_id IN (?)", live).
		Where("timestamp >= ? AND timestamp <= ?", from.UTC(), to.UTC())
}

type reasonSum struct {
	Reason model.ChangeReason
	Total  int64
}

// SumByReason totals quantity_change per reason over the window.
func (r *changeRepo) SumByReason(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (map[model.ChangeReason]int64, error) {
	var rows []reasonSum
	err := r.inWindow(ctx, ownerID, from, to).
		Select("reason, COALESCE(SUM(quantity_change), 0) AS total").
		Group("reason").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[model.ChangeReason]int64, len(rows))
	for _, row := range rows {
		sums[row.Reason] = row.Total
	}
	return sums, nil
}

func (r *changeRepo) ListInWindow(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]model.InventoryChange, error) {
	var changes []model.InventoryChange
	err := r.inWindow(ctx, ownerID, from, to).Order("timestamp").Order("id").Find(&changes).Error
	return changes, err
}
