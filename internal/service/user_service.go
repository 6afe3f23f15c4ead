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

type UserService interface {
	GetProfile(ctx context.Context, actor model.Actor) (*model.User, error)
	UpdateProfile(ctx context.Context, actor model.Actor, req *UpdateProfileRequest) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	DeleteUser(ctx context.Context, actor model.Actor, id uuid.UUID) error
}

// UpdateProfileRequest is a partial update of the caller's own profile.
type UpdateProfileRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=150"`
	Email       *string `json:"email" validate:"omitempty,email"`
	FirstName   *string `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20"`
	Address     *string `json:"address"`
	Bio         *string `json:"bio"`
}

var ErrDeleteSelf = errors.New("you cannot delete your own account")

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, actor model.Actor) (*model.User, error) {
	return s.userRepo.FindByID(ctx, actor.ID)
}

func (s *userService) UpdateProfile(ctx context.Context, actor model.Actor, req *UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	verr := apperr.FromValidator(validator.ValidateStruct(req))
	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(ctx, *req.Email); err == nil {
			verr.Add("email", "unique", "user with this email already exists")
		}
	}
	if req.Username != nil && *req.Username != user.Username {
		if _, err := s.userRepo.FindByUsername(ctx, *req.Username); err == nil {
			verr.Add("username", "unique", "user with this username already exists")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&user.Username, req.Username)
	set(&user.Email, req.Email)
	set(&user.FirstName, req.FirstName)
	set(&user.LastName, req.LastName)
	set(&user.PhoneNumber, req.PhoneNumber)
	set(&user.Address, req.Address)
	set(&user.Bio, req.Bio)
	user.UpdatedBy = actor.ID.String()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Invalid("email", "unique", "user with this email or username already exists")
		}
		return nil, err
	}
	return s.userRepo.FindByID(ctx, user.ID)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if actor.ID == id {
		return ErrDeleteSelf
	}
	return s.userRepo.Delete(ctx, id)
}
