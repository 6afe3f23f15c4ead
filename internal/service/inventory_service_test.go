package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-inventory-api/internal/apperr"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var t0 = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func TestUpdateProduct_DropBelowReorderLevelNotifiesOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Widget", 15, "2.00", 10)

	updated, err := e.inventory.UpdateProduct(ctx, e.actor(), p.ID, &UpdateProductRequest{Quantity: intPtr(8)})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Quantity)
	assert.Equal(t, "Downtown", updated.StoreName())

	history, err := e.inventory.GetChangeHistory(ctx, e.actor(), p.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, -7, history[0].QuantityChange)
	assert.Equal(t, 8, history[0].Quantity)
	assert.Equal(t, model.ReasonAdjustment, history[0].Reason)
	require.NotNil(t, history[0].UserID)
	assert.Equal(t, e.owner.ID, *history[0].UserID)

	alerts := e.notifier.received()
	require.Len(t, alerts, 1)
	assert.Equal(t, p.ID, alerts[0].ProductID)
	assert.Equal(t, 8, alerts[0].Quantity)
	assert.Equal(t, "Downtown", alerts[0].StoreName)
	assert.Equal(t, "Low stock alert for Widget at Downtown. Current quantity: 8", alerts[0].Message())
}

func TestUpdateProduct_AboveReorderLevelDoesNotNotify(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "Widget", 15, "2.00", 10)

	_, err := e.inventory.UpdateProduct(context.Background(), e.actor(), p.ID, &UpdateProductRequest{Quantity: intPtr(12)})
	require.NoError(t, err)

	assert.EqualValues(t, 1, e.changeCount(t))
	assert.Empty(t, e.notifier.received())
}

func TestUpdateProduct_SameQuantityWritesNoRecord(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "Widget", 5, "2.00", 10)

	updated, err := e.inventory.UpdateProduct(context.Background(), e.actor(), p.ID, &UpdateProductRequest{
		Name:     strPtr("Widget XL"),
		Quantity: intPtr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget XL", updated.Name)
	assert.EqualValues(t, 0, e.changeCount(t))
	assert.Empty(t, e.notifier.received(), "low stock is only checked when quantity changes")
}

func TestUpdateProduct_NoFieldsIsANoOp(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "Widget", 5, "2.00", 10)
	before := e.reload(t, p)

	got, err := e.inventory.UpdateProduct(context.Background(), e.actor(), p.ID, &UpdateProductRequest{})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)

	after := e.reload(t, p)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
	assert.EqualValues(t, 0, e.changeCount(t))

	// Applying the same update twice yields one record
	_, err = e.inventory.UpdateProduct(context.Background(), e.actor(), p.ID, &UpdateProductRequest{Quantity: intPtr(30)})
	require.NoError(t, err)
	_, err = e.inventory.UpdateProduct(context.Background(), e.actor(), p.ID, &UpdateProductRequest{Quantity: intPtr(30)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, e.changeCount(t))
}

func TestUpdateProduct_ReportsEveryInvalidField(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "Widget", 5, "2.00", 10)
	foreignStore := e.fx.Store(e.fx.User(), "Elsewhere")
	missing := uuid.New()
	price := decimal.RequireFromString("1.999")

	_, err := e.inventory.UpdateProduct(context.Background(), e.actor(), p.ID, &UpdateProductRequest{
		Quantity:     intPtr(-1),
		Price:        &price,
		CategoryID:   &missing,
		StoreID:      &foreignStore.ID,
		ReorderLevel: intPtr(-3),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.ElementsMatch(t,
		[]string{"quantity", "reorder_level", "price", "category", "store"},
		validationFields(t, err))

	assert.Equal(t, 5, e.reload(t, p).Quantity)
	assert.EqualValues(t, 0, e.changeCount(t))
}

func TestUpdateProduct_NilCategoryOrStoreRejected(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Widget", 15, "2.00", 10)

	nilID := uuid.Nil
	_, err := e.inventory.UpdateProduct(ctx, e.actor(), p.ID, &UpdateProductRequest{CategoryID: &nilID, StoreID: &nilID})
	assert.ElementsMatch(t, []string{"category", "store"}, validationFields(t, err))

	stored := e.reload(t, p)
	assert.Equal(t, e.category.ID, stored.CategoryID)
	assert.Equal(t, e.store.ID, stored.StoreID)
	assert.EqualValues(t, 0, e.changeCount(t))
}

func TestUpdateProduct_OutOfScopeIsNotFound(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "Widget", 5, "2.00", 10)
	stranger := e.fx.User().Actor()

	_, err := e.inventory.UpdateProduct(context.Background(), stranger, p.ID, &UpdateProductRequest{Quantity: intPtr(1)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = e.inventory.UpdateProduct(context.Background(), e.actor(), uuid.New(), &UpdateProductRequest{Quantity: intPtr(1)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = e.inventory.GetChangeHistory(context.Background(), stranger, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, 5, e.reload(t, p).Quantity)
}

func TestUpdateProduct_FailedAppendRollsBackSave(t *testing.T) {
	e := newEnv(t, withChanges(failingChanges{}))
	p := e.product(t, "Widget", 15, "2.00", 10)

	_, err := e.inventory.UpdateProduct(context.Background(), e.actor(), p.ID, &UpdateProductRequest{Quantity: intPtr(3)})
	require.Error(t, err)

	assert.Equal(t, 15, e.reload(t, p).Quantity)
	assert.EqualValues(t, 0, e.changeCount(t))
	assert.Empty(t, e.notifier.received())
}

func TestUpdateProduct_NotifierFailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	e := newEnv(t, withLogger(zap.New(core)))
	e.notifier.err = assert.AnError
	p := e.product(t, "Widget", 15, "2.00", 10)

	updated, err := e.inventory.UpdateProduct(context.Background(), e.actor(), p.ID, &UpdateProductRequest{Quantity: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Quantity)
	assert.EqualValues(t, 1, e.changeCount(t))

	entries := logs.FilterMessage("low stock notification failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], assert.AnError.Error())
}

func TestUpdateProduct_DeltasSumToNetChange(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Widget", 40, "2.00", 0)

	for _, q := range []int{35, 35, 50, 0, 7, 12} {
		_, err := e.inventory.UpdateProduct(ctx, e.actor(), p.ID, &UpdateProductRequest{Quantity: intPtr(q)})
		require.NoError(t, err)
	}

	history, err := e.inventory.GetChangeHistory(ctx, e.actor(), p.ID)
	require.NoError(t, err)
	assert.Len(t, history, 5)
	sum := 0
	for _, c := range history {
		sum += c.QuantityChange
		assert.GreaterOrEqual(t, c.Quantity, 0)
	}
	assert.Equal(t, 12-40, sum)
	assert.Equal(t, 12, e.reload(t, p).Quantity)
}

func TestUpdateProduct_BarcodeRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first := e.product(t, "First", 5, "2.00", 10)
	second := e.product(t, "Second", 5, "2.00", 10)

	_, err := e.inventory.UpdateProduct(ctx, e.actor(), first.ID, &UpdateProductRequest{Barcode: strPtr("123456")})
	require.NoError(t, err)

	_, err = e.inventory.UpdateProduct(ctx, e.actor(), second.ID, &UpdateProductRequest{Barcode: strPtr("123456")})
	assert.Equal(t, []string{"barcode"}, validationFields(t, err))

	// Re-sending its own barcode is fine; an empty one clears it
	_, err = e.inventory.UpdateProduct(ctx, e.actor(), first.ID, &UpdateProductRequest{Barcode: strPtr("123456")})
	require.NoError(t, err)
	cleared, err := e.inventory.UpdateProduct(ctx, e.actor(), first.ID, &UpdateProductRequest{Barcode: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.Barcode)
}

func TestCreateProduct(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	price := decimal.RequireFromString("19.99")
	supplier := e.fx.Supplier("Acme")

	p, err := e.inventory.CreateProduct(ctx, e.actor(), &CreateProductRequest{
		Name:       "Lamp",
		CategoryID: e.category.ID,
		Quantity:   intPtr(3),
		Price:      &price,
		SupplierID: &supplier.ID,
		StoreID:    e.store.ID,
		Barcode:    strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultReorderLevel, p.ReorderLevel)
	assert.Equal(t, e.owner.ID, p.OwnerID)
	assert.Nil(t, p.Barcode)
	assert.Equal(t, "19.99", p.ToResponse().Price)
	assert.True(t, p.IsLowStock())

	// Creation writes no change record and raises no alert
	assert.EqualValues(t, 0, e.changeCount(t))
	assert.Empty(t, e.notifier.received())

	_, err = e.inventory.CreateProduct(ctx, e.actor(), &CreateProductRequest{StoreID: uuid.New()})
	assert.ElementsMatch(t, []string{"name", "category", "quantity", "price", "store"}, validationFields(t, err))
}

func TestRecordChange_SaleAndRestock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Widget", 10, "2.00", 0)

	sale, err := e.inventory.RecordChange(ctx, e.actor(), &RecordChangeRequest{
		ProductID: p.ID, QuantityChange: -5, Reason: model.ReasonSale,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, sale.Quantity)
	assert.Equal(t, model.ReasonSale, sale.Reason)
	assert.Equal(t, 5, e.reload(t, p).Quantity)

	restock, err := e.inventory.RecordChange(ctx, e.actor(), &RecordChangeRequest{
		ProductID: p.ID, QuantityChange: 20, Reason: model.ReasonRestock,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, restock.Quantity)
	assert.Equal(t, 25, e.reload(t, p).Quantity)

	sales, err := e.inventory.ListChanges(ctx, e.actor(), repository.ChangeFilter{Reason: model.ReasonSale})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, sale.ID, sales[0].ID)

	got, err := e.inventory.GetChange(ctx, e.actor(), restock.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.QuantityChange)
}

func TestRecordChange_Rules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Widget", 3, "2.00", 0)

	cases := []struct {
		name  string
		req   RecordChangeRequest
		field string
	}{
		{"positive sale", RecordChangeRequest{ProductID: p.ID, QuantityChange: 2, Reason: model.ReasonSale}, "quantity_change"},
		{"negative restock", RecordChangeRequest{ProductID: p.ID, QuantityChange: -2, Reason: model.ReasonRestock}, "quantity_change"},
		{"negative return", RecordChangeRequest{ProductID: p.ID, QuantityChange: -1, Reason: model.ReasonReturn}, "quantity_change"},
		{"zero adjustment", RecordChangeRequest{ProductID: p.ID, QuantityChange: 0, Reason: model.ReasonAdjustment}, "quantity_change"},
		{"unknown reason", RecordChangeRequest{ProductID: p.ID, QuantityChange: 1, Reason: "THEFT"}, "reason"},
		{"oversell", RecordChangeRequest{ProductID: p.ID, QuantityChange: -4, Reason: model.ReasonSale}, "quantity_change"},
		{"huge restock", RecordChangeRequest{ProductID: p.ID, QuantityChange: model.MaxQuantity + 1, Reason: model.ReasonRestock}, "quantity_change"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := e.inventory.RecordChange(ctx, e.actor(), &req)
			assert.Equal(t, []string{tc.field}, validationFields(t, err))
		})
	}

	assert.Equal(t, 3, e.reload(t, p).Quantity)
	assert.EqualValues(t, 0, e.changeCount(t))

	_, err := e.inventory.RecordChange(ctx, e.fx.User().Actor(), &RecordChangeRequest{
		ProductID: p.ID, QuantityChange: 1, Reason: model.ReasonReturn,
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecordChange_CannotExceedMaxQuantity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Widget", model.MaxQuantity-1, "2.00", 0)

	_, err := e.inventory.RecordChange(ctx, e.actor(), &RecordChangeRequest{ProductID: p.ID, QuantityChange: 5, Reason: model.ReasonRestock})
	assert.Equal(t, []string{"quantity_change"}, validationFields(t, err))
	assert.Equal(t, model.MaxQuantity-1, e.reload(t, p).Quantity)

	_, err = e.inventory.RecordChange(ctx, e.actor(), &RecordChangeRequest{ProductID: p.ID, QuantityChange: 1, Reason: model.ReasonRestock})
	require.NoError(t, err)
	assert.Equal(t, model.MaxQuantity, e.reload(t, p).Quantity)
}

func TestRecordChange_ConcurrentMovementsAllApply(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Widget", 100, "2.00", 0)

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := e.inventory.RecordChange(ctx, e.actor(), &RecordChangeRequest{ProductID: p.ID, QuantityChange: 3, Reason: model.ReasonRestock})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := e.inventory.RecordChange(ctx, e.actor(), &RecordChangeRequest{ProductID: p.ID, QuantityChange: -1, Reason: model.ReasonSale})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, 100+workers*3-workers, e.reload(t, p).Quantity)
	assert.EqualValues(t, workers*2, e.changeCount(t))
}

func TestGetChangeHistory_NewestFirst(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.inventory.now = stepClock(t0, time.Minute)
	p := e.product(t, "Widget", 10, "2.00", 0)

	var ids []uuid.UUID
	for _, delta := range []int{1, 2, 3} {
		c, err := e.inventory.RecordChange(ctx, e.actor(), &RecordChangeRequest{ProductID: p.ID, QuantityChange: delta, Reason: model.ReasonRestock})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	history, err := e.inventory.GetChangeHistory(ctx, e.actor(), p.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []uuid.UUID{ids[2], ids[1], ids[0]}, []uuid.UUID{history[0].ID, history[1].ID, history[2].ID})

	other := e.product(t, "Quiet", 1, "1.00", 0)
	empty, err := e.inventory.GetChangeHistory(ctx, e.actor(), other.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestListLowStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.product(t, "A", 10, "1.00", 10)
	b := e.product(t, "B", 0, "1.00", 0)
	e.product(t, "C", 11, "1.00", 10)
	e.fx.Product(e.fx.Store(e.fx.User(), "Other"), e.category, "Foreign", 0, "1.00", 10)

	low, err := e.inventory.ListLowStock(ctx, e.actor())
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, []uuid.UUID{low[0].ID, low[1].ID})
	assert.Less(t, low[0].ID.String(), low[1].ID.String())

	empty, err := e.inventory.ListLowStock(ctx, e.fx.User().Actor())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDeleteProduct_KeepsHistory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.product(t, "Widget", 10, "2.00", 0)
	_, err := e.inventory.UpdateProduct(ctx, e.actor(), p.ID, &UpdateProductRequest{Quantity: intPtr(4)})
	require.NoError(t, err)

	require.NoError(t, e.inventory.DeleteProduct(ctx, e.actor(), p.ID))
	_, err = e.inventory.GetProduct(ctx, e.actor(), p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.EqualValues(t, 1, e.changeCount(t))
}
