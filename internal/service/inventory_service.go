package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-inventory-api/internal/apperr"
	"go-inventory-api/internal/cache"
	"go-inventory-api/internal/config"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/notify"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InventoryService interface {
	CreateProduct(ctx context.Context, actor model.Actor, req *CreateProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, actor model.Actor, filter repository.ProductFilter) ([]model.Product, error)
	UpdateProduct(ctx context.Context, actor model.Actor, id uuid.UUID, req *UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, actor model.Actor, id uuid.UUID) error

	RecordChange(ctx context.Context, actor model.Actor, req *RecordChangeRequest) (*model.InventoryChange, error)
	GetChangeHistory(ctx context.Context, actor model.Actor, productID uuid.UUID) ([]model.InventoryChange, error)
	ListChanges(ctx context.Context, actor model.Actor, filter repository.ChangeFilter) ([]model.InventoryChange, error)
	GetChange(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.InventoryChange, error)
	ListLowStock(ctx context.Context, actor model.Actor) ([]model.Product, error)
}

// CreateProductRequest is the body of POST /products.
type CreateProductRequest struct {
	Name         string           `json:"name" validate:"required,max=100"`
	Description  string           `json:"description"`
	CategoryID   uuid.UUID        `json:"category" validate:"uuid_required"`
	Quantity     *int             `json:"quantity" validate:"required,gte=0,lte=1000000000"`
	Price        *decimal.Decimal `json:"price" validate:"required,gte=0,lt=100000000"`
	SupplierID   *uuid.UUID       `json:"supplier"`
	StoreID      uuid.UUID        `json:"store" validate:"uuid_required"`
	Barcode      *string          `json:"barcode" validate:"omitempty,max=100"`
	ReorderLevel *int             `json:"reorder_level" validate:"omitempty,gte=0"`
}

// UpdateProductRequest is a partial update: nil fields are left unchanged.
// A nil UUID in SupplierID and an empty Barcode clear those fields.
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Description  *string          `json:"description"`
	CategoryID   *uuid.UUID       `json:"category"`
	Quantity     *int             `json:"quantity" validate:"omitempty,gte=0,lte=1000000000"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,gte=0,lt=100000000"`
	SupplierID   *uuid.UUID       `json:"supplier"`
	StoreID      *uuid.UUID       `json:"store"`
	Barcode      *string          `json:"barcode" validate:"omitempty,max=100"`
	ReorderLevel *int             `json:"reorder_level" validate:"omitempty,gte=0"`
}

// applyTo copies the set fields onto p and reports whether any value changed.
func (r *UpdateProductRequest) applyTo(p *model.Product) bool {
	changed := false
	if r.Name != nil && *r.Name != p.Name {
		p.Name, changed = *r.Name, true
	}
	if r.Description != nil && *r.Description != p.Description {
		p.Description, changed = *r.Description, true
	}
	if r.CategoryID != nil && *r.CategoryID != p.CategoryID {
		p.CategoryID, changed = *r.CategoryID, true
	}
	if r.Quantity != nil && *r.Quantity != p.Quantity {
		p.Quantity, changed = *r.Quantity, true
	}
	if r.Price != nil && !r.Price.Equal(p.Price) {
		p.Price, changed = *r.Price, true
	}
	if r.SupplierID != nil {
		next := r.SupplierID
		if *next == uuid.Nil {
			next = nil
		}
		if !sameUUID(next, p.SupplierID) {
			p.SupplierID, changed = next, true
		}
	}
	if r.StoreID != nil && *r.StoreID != p.StoreID {
		p.StoreID, changed = *r.StoreID, true
	}
	if r.Barcode != nil {
		next := normalizeBarcode(r.Barcode)
		if !sameString(next, p.Barcode) {
			p.Barcode, changed = next, true
		}
	}
	if r.ReorderLevel != nil && *r.ReorderLevel != p.ReorderLevel {
		p.ReorderLevel, changed = *r.ReorderLevel, true
	}
	return changed
}

// RecordChangeRequest is an explicit stock movement.
type RecordChangeRequest struct {
	ProductID      uuid.UUID          `json:"product_id" validate:"uuid_required"`
	QuantityChange int                `json:"quantity_change" validate:"required,gte=-1000000000,lte=1000000000"`
	Reason         model.ChangeReason `json:"reason" validate:"required,oneof=SALE RESTOCK ADJUSTMENT RETURN"`
}

type inventoryService struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	changeRepo   repository.ChangeRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	storeRepo    repository.StoreRepository
	notifier     notify.Notifier
	reports      cache.ReportCache
	log          *zap.Logger

	notifyTimeout time.Duration
	now           func() time.Time
}

func NewInventoryService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	changeRepo repository.ChangeRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	storeRepo repository.StoreRepository,
	notifier notify.Notifier,
	reports cache.ReportCache,
	cfg config.InventoryConfig,
	log *zap.Logger,
) InventoryService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if reports == nil {
		reports = cache.NewNopReportCache()
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 5 * time.Second
	}
	return &inventoryService{
		db:            db,
		productRepo:   productRepo,
		changeRepo:    changeRepo,
		categoryRepo:  categoryRepo,
		supplierRepo:  supplierRepo,
		storeRepo:     storeRepo,
		notifier:      notifier,
		reports:       reports,
		log:           log.Named("inventory"),
		notifyTimeout: cfg.NotifyTimeout,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *inventoryService) CreateProduct(ctx context.Context, actor model.Actor, req *CreateProductRequest) (*model.Product, error) {
	verr := apperr.FromValidator(validator.ValidateStruct(req))
	if req.Price != nil {
		checkPriceScale(verr, *req.Price)
	}
	s.checkReferences(ctx, actor, verr, &req.CategoryID, req.SupplierID, &req.StoreID)
	barcode := normalizeBarcode(req.Barcode)
	s.checkBarcode(ctx, verr, barcode, uuid.Nil)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	reorderLevel := model.DefaultReorderLevel
	if req.ReorderLevel != nil {
		reorderLevel = *req.ReorderLevel
	}
	product := &model.Product{
		OwnerID:      actor.Scope(),
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		Quantity:     *req.Quantity,
		Price:        *req.Price,
		SupplierID:   req.SupplierID,
		StoreID:      req.StoreID,
		Barcode:      barcode,
		ReorderLevel: reorderLevel,
	}
	product.CreatedBy = actor.ID.String()
	product.UpdatedBy = actor.ID.String()

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, barcodeConflict(err)
	}
	s.invalidateReports(ctx, product.OwnerID)
	return s.productRepo.FindByID(ctx, actor.Scope(), product.ID)
}

func (s *inventoryService) GetProduct(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, actor.Scope(), id)
}

func (s *inventoryService) ListProducts(ctx context.Context, actor model.Actor, filter repository.ProductFilter) ([]model.Product, error) {
	if !repository.ProductOrderingValid(filter.Ordering) {
		return nil, apperr.Invalid("ordering", "oneof", "must be one of name, quantity, price, created_at, optionally prefixed with -")
	}
	return s.productRepo.List(ctx, actor.Scope(), filter)
}

// UpdateProduct applies a partial update. A changed quantity is logged as an
// ADJUSTMENT in the same transaction as the product save.
func (s *inventoryService) UpdateProduct(ctx context.Context, actor model.Actor, id uuid.UUID, req *UpdateProductRequest) (*model.Product, error) {
	current, err := s.productRepo.FindByID(ctx, actor.Scope(), id)
	if err != nil {
		return nil, err
	}

	verr := apperr.FromValidator(validator.ValidateStruct(req))
	if req.Price != nil {
		checkPriceScale(verr, *req.Price)
	}
	supplierID := req.SupplierID
	if supplierID != nil && *supplierID == uuid.Nil {
		supplierID = nil
	}
	if req.CategoryID != nil && *req.CategoryID == uuid.Nil {
		verr.Add("category", "uuid_required", "this field is required")
	}
	if req.StoreID != nil && *req.StoreID == uuid.Nil {
		verr.Add("store", "uuid_required", "this field is required")
	}
	s.checkReferences(ctx, actor, verr, req.CategoryID, supplierID, req.StoreID)
	if req.Barcode != nil {
		s.checkBarcode(ctx, verr, normalizeBarcode(req.Barcode), id)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	preview := *current
	if !req.applyTo(&preview) {
		return current, nil
	}

	var (
		saved   *model.Product
		change  *model.InventoryChange
		written bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.FindByIDForUpdate(tx, actor.Scope(), id)
		if err != nil {
			return err
		}
		oldQuantity := product.Quantity
		if !req.applyTo(product) {
			saved = product
			return nil
		}
		product.UpdatedBy = actor.ID.String()
		if err := s.productRepo.Save(tx, product); err != nil {
			return err
		}
		written = true
		if product.Quantity != oldQuantity {
			change = s.newChange(actor, product, product.Quantity-oldQuantity, model.ReasonAdjustment)
			if err := s.changeRepo.Append(tx, change); err != nil {
				return fmt.Errorf("append change: %w", err)
			}
		}
		saved = product
		return nil
	})
	if err != nil {
		return nil, barcodeConflict(err)
	}

	return s.afterWrite(ctx, actor, saved, written, change), nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, actor.Scope(), id); err != nil {
		return err
	}
	s.invalidateReports(ctx, actor.Scope())
	return nil
}

// RecordChange applies a signed stock movement and logs it with its reason.
func (s *inventoryService) RecordChange(ctx context.Context, actor model.Actor, req *RecordChangeRequest) (*model.InventoryChange, error) {
	verr := apperr.FromValidator(validator.ValidateStruct(req))
	if req.QuantityChange != 0 {
		switch req.Reason {
		case model.ReasonSale:
			if req.QuantityChange > 0 {
				verr.Add("quantity_change", "sign", "a sale must have a negative quantity_change")
			}
		case model.ReasonRestock, model.ReasonReturn:
			if req.QuantityChange < 0 {
				verr.Add("quantity_change", "sign", fmt.Sprintf("a %s must have a positive quantity_change", req.Reason))
			}
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	var (
		saved  *model.Product
		change *model.InventoryChange
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.FindByIDForUpdate(tx, actor.Scope(), req.ProductID)
		if err != nil {
			return err
		}
		next := product.Quantity + req.QuantityChange
		if next < 0 {
			return apperr.Invalid("quantity_change", "stock",
				fmt.Sprintf("insufficient stock: %d available", product.Quantity))
		}
		if next > model.MaxQuantity {
			return apperr.Invalid("quantity_change", "lte",
				fmt.Sprintf("resulting quantity must not exceed %d", model.MaxQuantity))
		}
		product.Quantity = next
		product.UpdatedBy = actor.ID.String()
		if err := s.productRepo.Save(tx, product); err != nil {
			return err
		}
		change = s.newChange(actor, product, req.QuantityChange, req.Reason)
		if err := s.changeRepo.Append(tx, change); err != nil {
			return fmt.Errorf("append change: %w", err)
		}
		saved = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, actor, saved, true, change)
	return change, nil
}

func (s *inventoryService) GetChangeHistory(ctx context.Context, actor model.Actor, productID uuid.UUID) ([]model.InventoryChange, error) {
	if _, err := s.productRepo.FindByID(ctx, actor.Scope(), productID); err != nil {
		return nil, err
	}
	return s.changeRepo.FindByProduct(ctx, actor.Scope(), productID)
}

func (s *inventoryService) ListChanges(ctx context.Context, actor model.Actor, filter repository.ChangeFilter) ([]model.InventoryChange, error) {
	if filter.Reason != "" && !filter.Reason.Valid() {
		return nil, apperr.Invalid("reason", "oneof", "must be one of SALE, RESTOCK, ADJUSTMENT, RETURN")
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperr.Invalid("from", "ltefield", "must not be after to")
	}
	return s.changeRepo.List(ctx, actor.Scope(), filter)
}

func (s *inventoryService) GetChange(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.InventoryChange, error) {
	return s.changeRepo.FindByID(ctx, actor.Scope(), id)
}

func (s *inventoryService) ListLowStock(ctx context.Context, actor model.Actor) ([]model.Product, error) {
	return s.productRepo.ListLowStock(ctx, actor.Scope())
}

func (s *inventoryService) newChange(actor model.Actor, p *model.Product, delta int, reason model.ChangeReason) *model.InventoryChange {
	userID := actor.ID
	return &model.InventoryChange{
		ProductID:      p.ID,
		OwnerID:        p.OwnerID,
		Quantity:       p.Quantity,
		QuantityChange: delta,
		Reason:         reason,
		UserID:         &userID,
		Timestamp:      s.now(),
	}
}

// afterWrite runs once the transaction has committed. It reloads the product
// with its store, drops cached reports if anything was saved and, when the
// quantity changed, raises the low-stock alert.
func (s *inventoryService) afterWrite(ctx context.Context, actor model.Actor, saved *model.Product, written bool, change *model.InventoryChange) *model.Product {
	product := saved
	if fresh, err := s.productRepo.FindByID(ctx, actor.Scope(), saved.ID); err == nil {
		product = fresh
	} else {
		s.log.Warn("reload product after write", zap.String("product_id", saved.ID.String()), zap.Error(err))
	}
	if written {
		s.invalidateReports(ctx, product.OwnerID)
	}
	if change != nil && product.IsLowStock() {
		s.notifyLowStock(ctx, product)
	}
	return product
}

func (s *inventoryService) notifyLowStock(ctx context.Context, p *model.Product) {
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	alert := notify.LowStockAlert{
		ProductID:    p.ID,
		Name:         p.Name,
		StoreID:      p.StoreID,
		StoreName:    p.StoreName(),
		OwnerID:      p.OwnerID,
		Quantity:     p.Quantity,
		ReorderLevel: p.ReorderLevel,
		At:           s.now(),
	}
	if err := s.notifier.NotifyLowStock(nctx, alert); err != nil {
		failure := &apperr.NotifierFailure{Notifier: notify.Name(s.notifier), Err: err}
		s.log.Error("low stock notification failed",
			zap.String("product_id", p.ID.String()),
			zap.Int("quantity", p.Quantity),
			zap.Error(failure),
		)
	}
}

func (s *inventoryService) invalidateReports(ctx context.Context, ownerID uuid.UUID) {
	if err := s.reports.Invalidate(context.WithoutCancel(ctx), ownerID); err != nil {
		s.log.Warn("invalidate report cache", zap.String("owner_id", ownerID.String()), zap.Error(err))
	}
}

// checkReferences verifies that the referenced rows exist and that the store
// belongs to the actor. Nil ids are skipped.
func (s *inventoryService) checkReferences(ctx context.Context, actor model.Actor, verr *apperr.ValidationError, categoryID, supplierID, storeID *uuid.UUID) {
	lookup := func(field string, err error) {
		switch {
		case err == nil:
		case errors.Is(err, apperr.ErrNotFound):
			verr.Add(field, "exists", "does not exist")
		default:
			verr.Add(field, "exists", "could not be checked")
			s.log.Error("reference lookup failed", zap.String("field", field), zap.Error(err))
		}
	}
	if categoryID != nil && *categoryID != uuid.Nil {
		_, err := s.categoryRepo.FindByID(ctx, *categoryID)
		lookup("category", err)
	}
	if supplierID != nil {
		_, err := s.supplierRepo.FindByID(ctx, *supplierID)
		lookup("supplier", err)
	}
	if storeID != nil && *storeID != uuid.Nil {
		_, err := s.storeRepo.FindByID(ctx, actor.Scope(), *storeID)
		lookup("store", err)
	}
}

// checkBarcode rejects a barcode already used by another product.
func (s *inventoryService) checkBarcode(ctx context.Context, verr *apperr.ValidationError, barcode *string, self uuid.UUID) {
	if barcode == nil {
		return
	}
	existing, err := s.productRepo.FindByBarcode(s.db.WithContext(ctx), *barcode)
	if err == nil && existing.ID != self {
		verr.Add("barcode", "unique", "product with this barcode already exists")
	}
}

func checkPriceScale(verr *apperr.ValidationError, price decimal.Decimal) {
	if !price.Equal(price.Round(2)) {
		verr.Add("price", "decimal_places", "must have at most 2 decimal places")
	}
}

// barcodeConflict turns a unique violation raced past checkBarcode into the
// same field error.
func barcodeConflict(err error) error {
	if errors.Is(err, apperr.ErrDuplicate) {
		return apperr.Invalid("barcode", "unique", "product with this barcode already exists")
	}
	return err
}

func normalizeBarcode(b *string) *string {
	if b == nil || *b == "" {
		return nil
	}
	v := *b
	return &v
}

func sameUUID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
