package service

import (
	"context"
	"errors"

	"go-inventory-api/internal/apperr"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/validator"

	"github.com/google/uuid"
)

// CatalogService manages the shared categories and suppliers.
type CatalogService interface {
	CreateCategory(ctx context.Context, actor model.Actor, req *CategoryRequest) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
	UpdateCategory(ctx context.Context, actor model.Actor, id uuid.UUID, req *CategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateSupplier(ctx context.Context, actor model.Actor, req *SupplierRequest) (*model.Supplier, error)
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, actor model.Actor, id uuid.UUID, req *SupplierRequest) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type SupplierRequest struct {
	Name    string `json:"name" validate:"required,max=150"`
	Contact string `json:"contact" validate:"required,max=10"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required"`
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
}

func NewCatalogService(categoryRepo repository.CategoryRepository, supplierRepo repository.SupplierRepository) CatalogService {
	return &catalogService{categoryRepo: categoryRepo, supplierRepo: supplierRepo}
}

// uniqueViolation reports a unique constraint failure as a field error.
func uniqueViolation(err error, field, message string) error {
	if errors.Is(err, apperr.ErrDuplicate) {
		return apperr.Invalid(field, "unique", message)
	}
	return err
}

func (s *catalogService) CreateCategory(ctx context.Context, actor model.Actor, req *CategoryRequest) (*model.Category, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.FromValidator(errs)
	}
	category := &model.Category{Name: req.Name, Description: req.Description}
	category.CreatedBy = actor.ID.String()
	category.UpdatedBy = actor.ID.String()
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, uniqueViolation(err, "name", "category with this name already exists")
	}
	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.FindAll(ctx)
}

func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

func (s *catalogService) UpdateCategory(ctx context.Context, actor model.Actor, id uuid.UUID, req *CategoryRequest) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.FromValidator(errs)
	}
	category.Name = req.Name
	category.Description = req.Description
	category.UpdatedBy = actor.ID.String()
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, uniqueViolation(err, "name", "category with this name already exists")
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

func (s *catalogService) CreateSupplier(ctx context.Context, actor model.Actor, req *SupplierRequest) (*model.Supplier, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.FromValidator(errs)
	}
	supplier := &model.Supplier{Name: req.Name, Contact: req.Contact, Email: req.Email, Address: req.Address}
	supplier.CreatedBy = actor.ID.String()
	supplier.UpdatedBy = actor.ID.String()
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, uniqueViolation(err, "contact", "supplier with this contact already exists")
	}
	return supplier, nil
}

func (s *catalogService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.supplierRepo.FindAll(ctx)
}

func (s *catalogService) GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	return s.supplierRepo.FindByID(ctx, id)
}

func (s *catalogService) UpdateSupplier(ctx context.Context, actor model.Actor, id uuid.UUID, req *SupplierRequest) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.FromValidator(errs)
	}
	supplier.Name = req.Name
	supplier.Contact = req.Contact
	supplier.Email = req.Email
	supplier.Address = req.Address
	supplier.UpdatedBy = actor.ID.String()
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, uniqueViolation(err, "contact", "supplier with this contact already exists")
	}
	return supplier, nil
}

func (s *catalogService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	return s.supplierRepo.Delete(ctx, id)
}
