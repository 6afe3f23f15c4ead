package repository

import (
	"context"
	"fmt"
	"strings"

	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows List. Zero values mean "no constraint".
type ProductFilter struct {
	Name       string
	CategoryID *uuid.UUID
	StoreID    *uuid.UUID
	Price      *decimal.Decimal
	// Search matches name, description, supplier name and store name,
	// case-insensitively.
	Search string
	// Ordering is one of the keys of productOrderings, optionally prefixed
	// with "-" for descending order.
	Ordering string
}

var productOrderings = map[string]string{
	"name":       "products.name",
	"quantity":   "products.quantity",
	"price":      "products.price",
	"created_at": "products.created_at",
	"date_added": "products.created_at",
}

// ProductOrderingValid reports whether List accepts the ordering key.
func ProductOrderingValid(ordering string) bool {
	if ordering == "" {
		return true
	}
	_, ok := productOrderings[strings.TrimPrefix(ordering, "-")]
	return ok
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Product, error)
	FindByIDForUpdate(tx *gorm.DB, ownerID, id uuid.UUID) (*model.Product, error)
	FindByBarcode(tx *gorm.DB, barcode string) (*model.Product, error)
	Save(tx *gorm.DB, product *model.Product) error
	List(ctx context.Context, ownerID uuid.UUID, filter ProductFilter) ([]model.Product, error)
	ListLowStock(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error)
	CountLowStock(ctx context.Context, ownerID uuid.UUID) (int64, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error)
}

func (r *productRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Store").
		Where("owner_id = ?", ownerID).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindByIDForUpdate locks the product row until tx ends. Dialects without
// row locks (SQLite) ignore the locking clause and serialize writers instead.
func (r *productRepo) FindByIDForUpdate(tx *gorm.DB, ownerID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("owner_id = ?", ownerID).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindByBarcode looks across all owners; barcodes are globally unique.
func (r *productRepo) FindByBarcode(tx *gorm.DB, barcode string) (*model.Product, error) {
	var product model.Product
	if err := tx.First(&product, "barcode = ?", barcode).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// Save writes every column of the product inside tx.
func (r *productRepo) Save(tx *gorm.DB, product *model.Product) error {
	return translateError(tx.Omit(clause.Associations).Save(product).Error)
}

func (r *productRepo) List(ctx context.Context, ownerID uuid.UUID, filter ProductFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{}).
		Preload("Store").
		Where("products.owner_id = ?", ownerID)

	if filter.Name != "" {
		q = q.Where("products.name = ?", filter.Name)
	}
	if filter.CategoryID != nil {
		q = q.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.StoreID != nil {
		q = q.Where("products.store_id = ?", *filter.StoreID)
	}
	if filter.Price != nil {
		q = q.Where("products.price = ?", *filter.Price)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		suppliers := r.db.Model(&model.Supplier{}).Select("id").Where("LOWER(name) LIKE ?", like)
		stores := r.db.Model(&model.Store{}).Select("id").Where("LOWER(name) LIKE ?", like)
		q = q.Where(
			r.db.Where("LOWER(products.name) LIKE ?", like).
				Or("LOWER(products.description) LIKE ?", like).
				Or("products.supplier_id IN (?)", suppliers).
				Or("products.store_id IN (?)", stores),
		)
	}

	order := "products.created_at DESC"
	if filter.Ordering != "" {
		column, ok := productOrderings[strings.TrimPrefix(filter.Ordering, "-")]
		if !ok {
			return nil, fmt.Errorf("unknown ordering %q", filter.Ordering)
		}
		order = column
		if strings.HasPrefix(filter.Ordering, "-") {
			order += " DESC"
		}
	}

	var products []model.Product
	if err := q.Order(order).Order("products.id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) lowStock(ctx context.Context, ownerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("owner_id = ? AND quantity <= reorder_level", ownerID)
}

func (r *productRepo) ListLowStock(ctx context.Context, ownerID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.lowStock(ctx, ownerID).Preload("Store").Order("id").Find(&products).Error
	return products, err
}

func (r *productRepo) CountLowStock(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.lowStock(ctx, ownerID).Count(&count).Error
	return count, err
}

// Delete is a soft delete; the product's change records stay in place.
func (r *productRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteByID(r.db.WithContext(ctx).Where("owner_id = ?", ownerID), &model.Product{}, id)
}
