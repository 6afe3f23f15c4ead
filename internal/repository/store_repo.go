package repository

import (
	"context"

	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreRepository queries are always restricted to one owner.
type StoreRepository interface {
	Create(ctx context.Context, store *model.Store) error
	FindAll(ctx context.Context, ownerID uuid.UUID) ([]model.Store, error)
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Store, error)
	Update(ctx context.Context, store *model.Store) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepository {
	return &storeRepo{db}
}

func (r *storeRepo) Create(ctx context.Context, store *model.Store) error {
	return translateError(r.db.WithContext(ctx).Create(store).Error)
}

func (r *storeRepo) FindAll(ctx context.Context, ownerID uuid.UUID) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("name").Find(&stores).Error
	return stores, err
}

func (r *storeRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&store, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &store, nil
}

func (r *storeRepo) Update(ctx context.Context, store *model.Store) error {
	return translateError(r.db.WithContext(ctx).Save(store).Error)
}

func (r *storeRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx).Where("owner_id = ?", ownerID), &model.Store{}, id)
}
