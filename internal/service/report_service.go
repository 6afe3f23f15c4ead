package service

import (
	"context"
	"time"

	"go-inventory-api/internal/apperr"
	"go-inventory-api/internal/cache"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxWindowDays = 365

type ReportService interface {
	// GetInventoryReport summarises the actor's stock. asOf nil means now;
	// windowDays nil means the configured default.
	GetInventoryReport(ctx context.Context, actor model.Actor, asOf *time.Time, windowDays *int) (*model.InventoryReport, error)
	GetStockMovement(ctx context.Context, actor model.Actor, days int) ([]model.StockMovementData, error)
}

type reportService struct {
	productRepo   repository.ProductRepository
	changeRepo    repository.ChangeRepository
	reports       cache.ReportCache
	log           *zap.Logger
	defaultWindow int
	now           func() time.Time
}

func NewReportService(productRepo repository.ProductRepository, changeRepo repository.ChangeRepository, reports cache.ReportCache, defaultWindow int, log *zap.Logger) ReportService {
	if reports == nil {
		reports = cache.NewNopReportCache()
	}
	if defaultWindow <= 0 {
		defaultWindow = 30
	}
	return &reportService{
		productRepo:   productRepo,
		changeRepo:    changeRepo,
		reports:       reports,
		log:           log.Named("report"),
		defaultWindow: defaultWindow,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func validWindow(field string, days int) error {
	if days < 1 || days > maxWindowDays {
		return apperr.Invalid(field, "range", "must be between 1 and 365")
	}
	return nil
}

func (s *reportService) GetInventoryReport(ctx context.Context, actor model.Actor, asOf *time.Time, window *int) (*model.InventoryReport, error) {
	windowDays := s.defaultWindow
	if window != nil {
		windowDays = *window
	}
	if err := validWindow("window_days", windowDays); err != nil {
		return nil, err
	}

	scope := actor.Scope()
	if asOf == nil {
		cached, ok, err := s.reports.Get(ctx, scope, windowDays)
		if err != nil {
			s.log.Warn("read report cache", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	to := s.now()
	if asOf != nil {
		to = asOf.UTC()
	}
	from := to.AddDate(0, 0, -windowDays)

	products, err := s.productRepo.List(ctx, scope, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for i := range products {
		total = total.Add(products[i].StockValue())
	}
	lowStock, err := s.productRepo.CountLowStock(ctx, scope)
	if err != nil {
		return nil, err
	}

	sums, err := s.changeRepo.SumByReason(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	sales := sums[model.ReasonSale]
	if sales < 0 {
		sales = -sales
	}

	report := &model.InventoryReport{
		TotalInventoryValue: total,
		LowStockItemsCount:  lowStock,
		Sales:               int(sales),
		Restocks:            int(sums[model.ReasonRestock]),
		WindowDays:          windowDays,
		From:                from,
		To:                  to,
	}

	if asOf == nil {
		if err := s.reports.Set(ctx, scope, windowDays, report); err != nil {
			s.log.Warn("write report cache", zap.Error(err))
		}
	}
	return report, nil
}

// GetStockMovement returns one entry per UTC day, oldest first, for the last
// days days including today. Positive changes count as inbound, negative ones
// as outbound.
func (s *reportService) GetStockMovement(ctx context.Context, actor model.Actor, days int) ([]model.StockMovementData, error) {
	if err := validWindow("days", days); err != nil {
		return nil, err
	}
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))

	changes, err := s.changeRepo.ListInWindow(ctx, actor.Scope(), start, now)
	if err != nil {
		return nil, err
	}

	out := make([]model.StockMovementData, days)
	index := make(map[string]int, days)
	for i := range out {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		out[i].Date = date
		index[date] = i
	}
	for _, c := range changes {
		i, ok := index[c.Timestamp.UTC().Format("2006-01-02")]
		if !ok {
			continue
		}
		if c.QuantityChange > 0 {
			out[i].Inbound += c.QuantityChange
		} else {
			out[i].Outbound -= c.QuantityChange
		}
	}
	return out, nil
}
