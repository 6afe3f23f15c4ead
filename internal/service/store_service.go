package service

import (
	"context"

	"go-inventory-api/internal/apperr"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/validator"

	"github.com/google/uuid"
)

// StoreService manages the actor's own stores.
type StoreService interface {
	Create(ctx context.Context, actor model.Actor, req *StoreRequest) (*model.Store, error)
	List(ctx context.Context, actor model.Actor) ([]model.Store, error)
	Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Store, error)
	Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *StoreRequest) (*model.Store, error)
	Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error
}

type StoreRequest struct {
	Name    string `json:"name" validate:"required,max=150"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"required"`
	Contact string `json:"contact" validate:"required,max=10"`
}

type storeService struct {
	storeRepo repository.StoreRepository
}

func NewStoreService(storeRepo repository.StoreRepository) StoreService {
	return &storeService{storeRepo: storeRepo}
}

func (s *storeService) Create(ctx context.Context, actor model.Actor, req *StoreRequest) (*model.Store, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.FromValidator(errs)
	}
	store := &model.Store{
		OwnerID: actor.Scope(),
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Contact: req.Contact,
	}
	store.CreatedBy = actor.ID.String()
	store.UpdatedBy = actor.ID.String()
	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, uniqueViolation(err, "contact", "store with this contact already exists")
	}
	return store, nil
}

func (s *storeService) List(ctx context.Context, actor model.Actor) ([]model.Store, error) {
	return s.storeRepo.FindAll(ctx, actor.Scope())
}

func (s *storeService) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Store, error) {
	return s.storeRepo.FindByID(ctx, actor.Scope(), id)
}

func (s *storeService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *StoreRequest) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, actor.Scope(), id)
	if err != nil {
		return nil, err
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.FromValidator(errs)
	}
	store.Name = req.Name
	store.Email = req.Email
	store.Address = req.Address
	store.Contact = req.Contact
	store.UpdatedBy = actor.ID.String()
	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, uniqueViolation(err, "contact", "store with this contact already exists")
	}
	return store, nil
}

func (s *storeService) Delete(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	return s.storeRepo.Delete(ctx, actor.Scope(), id)
}
