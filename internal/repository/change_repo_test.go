package repository_test

import (
	"context"
	"testing"
	"time"

	"go-inventory-api/internal/apperr"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var base = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func appendChange(t *testing.T, db *gorm.DB, repo repository.ChangeRepository, p *model.Product, delta int, reason model.ChangeReason, at time.Time) *model.InventoryChange {
	t.Helper()
	p.Quantity += delta
	c := &model.InventoryChange{
		ProductID:      p.ID,
		OwnerID:        p.OwnerID,
		Quantity:       p.Quantity,
		QuantityChange: delta,
		Reason:         reason,
		Timestamp:      at,
	}
	require.NoError(t, repo.Append(db, c))
	return c
}

func TestChangeRepo_HistoryNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)
	repo := repository.NewChangeRepo(db)
	ctx := context.Background()

	owner := f.User()
	store := f.Store(owner, "Main")
	p := f.Product(store, f.Category(), "Widget", 10, "1.00", 0)

	c1 := appendChange(t, db, repo, p, 5, model.ReasonRestock, base)
	c2 := appendChange(t, db, repo, p, -3, model.ReasonSale, base.Add(time.Hour))
	c3 := appendChange(t, db, repo, p, 1, model.ReasonAdjustment, base.Add(2*time.Hour))

	history, err := repo.FindByProduct(ctx, owner.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, c3.ID, history[0].ID)
	assert.Equal(t, c2.ID, history[1].ID)
	assert.Equal(t, c1.ID, history[2].ID)
	assert.Equal(t, 13, history[0].Quantity)

	other := f.User()
	history, err = repo.FindByProduct(ctx, other.ID, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)

	_, err = repo.FindByID(ctx, other.ID, c1.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	sales, err := repo.List(ctx, owner.ID, repository.ChangeFilter{Reason: model.ReasonSale})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, c2.ID, sales[0].ID)

	from := base.Add(time.Hour)
	recent, err := repo.List(ctx, owner.ID, repository.ChangeFilter{ProductID: &p.ID, From: &from})
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestChangeRepo_RecordsAreImmutable(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)
	repo := repository.NewChangeRepo(db)

	owner := f.User()
	p := f.Product(f.Store(owner, "Main"), f.Category(), "Widget", 10, "1.00", 0)
	c := appendChange(t, db, repo, p, 5, model.ReasonRestock, base)

	c.QuantityChange = 500
	assert.ErrorIs(t, db.Save(c).Error, model.ErrImmutableChange)
	assert.ErrorIs(t, db.Delete(c).Error, model.ErrImmutableChange)

	stored, err := repo.FindByID(context.Background(), owner.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.QuantityChange)
}

func TestChangeRepo_SumByReasonWindow(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)
	repo := repository.NewChangeRepo(db)
	products := repository.NewProductRepo(db)
	ctx := context.Background()

	owner := f.User()
	store := f.Store(owner, "Main")
	cat := f.Category()
	live := f.Product(store, cat, "Live", 100, "1.00", 0)
	gone := f.Product(store, cat, "Gone", 100, "1.00", 0)

	from := base
	to := base.Add(48 * time.Hour)

	appendChange(t, db, repo, live, -5, model.ReasonSale, from)                      // lower bound
	appendChange(t, db, repo, live, -2, model.ReasonSale, to)                        // upper bound
	appendChange(t, db, repo, live, -7, model.ReasonSale, from.Add(-time.Second))    // before
	appendChange(t, db, repo, live, 20, model.ReasonRestock, from.Add(24*time.Hour)) // inside
	appendChange(t, db, repo, live, 4, model.ReasonReturn, from.Add(time.Hour))      // other reason
	appendChange(t, db, repo, gone, -9, model.ReasonSale, from.Add(time.Hour))       // deleted product
	require.NoError(t, products.Delete(ctx, owner.ID, gone.ID))

	sums, err := repo.SumByReason(ctx, owner.ID, from, to)
	require.NoError(t, err)
	assert.EqualValues(t, -7, sums[model.ReasonSale])
	assert.EqualValues(t, 20, sums[model.ReasonRestock])
	assert.EqualValues(t, 4, sums[model.ReasonReturn])
	assert.Zero(t, sums[model.ReasonAdjustment])

	changes, err := repo.ListInWindow(ctx, owner.ID, from, to)
	require.NoError(t, err)
	assert.Len(t, changes, 4)

	sums, err = repo.SumByReason(ctx, f.User().ID, from, to)
	require.NoError(t, err)
	assert.Empty(t, sums)
}
