// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"go-inventory-api/internal/config"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewDB opens a private SQLite database in memory (one connection, so every
// call gets its own database), migrated and seeded with
// roles and privileges. It is closed when the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver:   "sqlite",
		URL:      ":memory:",
		LogLevel: "silent",
	}
	db, err := database.Connect(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, repository.Migrate(db))
	require.NoError(t, repository.SeedAccessControl(context.Background(), db))
	return db
}

// Fixture creates rows with sensible defaults.
type Fixture struct {
	t  *testing.T
	db *gorm.DB
}

func NewFixture(t *testing.T, db *gorm.DB) *Fixture {
	return &Fixture{t: t, db: db}
}

var seq atomic.Int64

func next() int {
	return int(seq.Add(1))
}

// User creates an active MEMBER with password "password123".
func (f *Fixture) User() *model.User {
	f.t.Helper()
	role, err := repository.NewRoleRepo(f.db).FindByCode(context.Background(), model.RoleMember)
	require.NoError(f.t, err)

	n := next()
	u := &model.User{
		Username:   fmt.Sprintf("user%d", n),
		Email:      fmt.Sprintf("user%d@example.com", n),
		RoleID:     &role.ID,
		Role:       role,
		IsActive:   true,
		Privileges: role.Privileges,
	}
	require.NoError(f.t, u.SetPassword("password123"))
	require.NoError(f.t, f.db.Omit("Role").Create(u).Error)
	return u
}

func (f *Fixture) Category() *model.Category {
	f.t.Helper()
	c := &model.Category{Name: fmt.Sprintf("Category %d", next())}
	require.NoError(f.t, f.db.Create(c).Error)
	return c
}

func (f *Fixture) Supplier(name string) *model.Supplier {
	f.t.Helper()
	n := next()
	s := &model.Supplier{
		Name:    name,
		Contact: fmt.Sprintf("%010d", n),
		Email:   fmt.Sprintf("supplier%d@example.com", n),
		Address: "1 Supply Road",
	}
	require.NoError(f.t, f.db.Create(s).Error)
	return s
}

func (f *Fixture) Store(owner *model.User, name string) *model.Store {
	f.t.Helper()
	s := &model.Store{
		OwnerID: owner.ID,
		Name:    name,
		Address: "1 Main Street",
		Contact: fmt.Sprintf("%010d", 5000000000+next()),
	}
	require.NoError(f.t, f.db.Create(s).Error)
	return s
}

// Product creates a product owned by the store's owner.
func (f *Fixture) Product(store *model.Store, category *model.Category, name string, quantity int, price string, reorderLevel int) *model.Product {
	f.t.Helper()
	p := &model.Product{
		OwnerID:      store.OwnerID,
		Name:         name,
		CategoryID:   category.ID,
		Quantity:     quantity,
		Price:        decimal.RequireFromString(price),
		StoreID:      store.ID,
		ReorderLevel: reorderLevel,
	}
	require.NoError(f.t, f.db.Create(p).Error)
	return p
}
