package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-inventory-api/internal/apperr"
	"go-inventory-api/internal/cache"
	"go-inventory-api/internal/config"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/notify"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/testutil"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []notify.LowStockAlert
	err    error
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, alert notify.LowStockAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return n.err
}

func (n *recordingNotifier) received() []notify.LowStockAlert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.LowStockAlert(nil), n.alerts...)
}

// failingChanges fails every Append, to prove the product save rolls back.
type failingChanges struct {
	repository.ChangeRepository
}

func (failingChanges) Append(*gorm.DB, *model.InventoryChange) error {
	return errors.New("disk full")
}

// stepClock returns base, base+step, base+2*step, ...
func stepClock(base time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := base
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(step)
		return t
	}
}

type env struct {
	db        *gorm.DB
	fx        *testutil.Fixture
	inventory *inventoryService
	reports   *reportService
	notifier  *recordingNotifier
	log       *zap.Logger

	owner    *model.User
	store    *model.Store
	category *model.Category
}

type envOption func(*envConfig)

type envConfig struct {
	changes repository.ChangeRepository
	cache   cache.ReportCache
	log     *zap.Logger
}

func withChanges(r repository.ChangeRepository) envOption {
	return func(c *envConfig) { c.changes = r }
}

func withCache(rc cache.ReportCache) envOption {
	return func(c *envConfig) { c.cache = rc }
}

func withLogger(l *zap.Logger) envOption {
	return func(c *envConfig) { c.log = l }
}

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := envConfig{
		changes: repository.NewChangeRepo(db),
		cache:   cache.NewNopReportCache(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	notifier := &recordingNotifier{}
	products := repository.NewProductRepo(db)
	inventory := NewInventoryService(
		db,
		products,
		cfg.changes,
		repository.NewCategoryRepo(db),
		repository.NewSupplierRepo(db),
		repository.NewStoreRepo(db),
		notifier,
		cfg.cache,
		config.InventoryConfig{NotifyTimeout: time.Second},
		cfg.log,
	).(*inventoryService)
	reports := NewReportService(products, repository.NewChangeRepo(db), cfg.cache, 30, cfg.log).(*reportService)

	fx := testutil.NewFixture(t, db)
	owner := fx.User()
	return &env{
		db:        db,
		fx:        fx,
		inventory: inventory,
		reports:   reports,
		notifier:  notifier,
		log:       cfg.log,
		owner:     owner,
		store:     fx.Store(owner, "Downtown"),
		category:  fx.Category(),
	}
}

func (e *env) actor() model.Actor { return e.owner.Actor() }

func (e *env) product(t *testing.T, name string, quantity int, price string, reorderLevel int) *model.Product {
	t.Helper()
	return e.fx.Product(e.store, e.category, name, quantity, price, reorderLevel)
}

func (e *env) reload(t *testing.T, p *model.Product) *model.Product {
	t.Helper()
	var fresh model.Product
	require.NoError(t, e.db.First(&fresh, "id = ?", p.ID).Error)
	return &fresh
}

func (e *env) changeCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.InventoryChange{}).Count(&n).Error)
	return n
}

func validationFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	return fields
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
