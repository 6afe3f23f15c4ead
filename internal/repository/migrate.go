package repository

import (
	"context"
	"errors"
	"fmt"

	"go-inventory-api/internal/apperr"
	"go-inventory-api/internal/model"

	"gorm.io/gorm"
)

// Migrate creates or updates every table of the service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Privilege{},
		&model.Role{},
		&model.User{},
		&model.Category{},
		&model.Supplier{},
		&model.Store{},
		&model.Product{},
		&model.InventoryChange{},
	)
}

// SeedAccessControl creates the default privileges and roles and assigns role
// privileges once. Existing assignments are left untouched.
func SeedAccessControl(ctx context.Context, db *gorm.DB) error {
	privRepo := NewPrivilegeRepo(db)
	roleRepo := NewRoleRepo(db)

	if err := privRepo.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	if err := roleRepo.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	allPrivileges, err := privRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	memberPrivileges, err := privRepo.FindByCodes(ctx, model.MemberPrivileges)
	if err != nil {
		return err
	}

	grants := map[string][]model.Privilege{
		model.RoleAdmin:  allPrivileges,
		model.RoleMember: memberPrivileges,
	}
	for code, privileges := range grants {
		role, err := roleRepo.FindByCode(ctx, code)
		if err != nil {
			return fmt.Errorf("role %s: %w", code, err)
		}
		if len(role.Privileges) > 0 {
			continue
		}
		if err := roleRepo.ReplacePrivileges(ctx, role, privileges); err != nil {
			return fmt.Errorf("assign privileges to %s: %w", code, err)
		}
	}
	return nil
}

// EnsureAdmin creates the administrator account if no user has the email yet.
// The bool result reports whether a user was created.
func EnsureAdmin(ctx context.Context, db *gorm.DB, username, email, password string) (bool, error) {
	users := NewUserRepo(db)
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return false, err
	}

	role, err := NewRoleRepo(db).FindByCode(ctx, model.RoleAdmin)
	if err != nil {
		return false, err
	}

	admin := &model.User{
		Username:   username,
		Email:      email,
		FirstName:  "System",
		LastName:   "Administrator",
		RoleID:     &role.ID,
		IsActive:   true,
		Privileges: role.Privileges,
	}
	admin.CreatedBy = "system"
	if err := admin.SetPassword(password); err != nil {
		return false, err
	}
	if err := users.Create(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}
