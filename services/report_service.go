package services

import (
	"context"
	"time"

	"grocery-store/models"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const defaultReportRange = 30 * 24 * time.Hour

type ReportStore interface {
	OrderRows(ctx context.Context, from, to time.Time) ([]models.OrderReportRow, error)
	RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, int, error)
	CountOrdersByStatus(ctx context.Context, status string) (int, error)
}

type ReportService struct {
	reportRepo  ReportStore
	products    *ProductService
	messageRepo MessageStore
	userRepo    UserStore
	now         func() time.Time
}

func NewReportService(reportRepo ReportStore, products *ProductService, messageRepo MessageStore, userRepo UserStore) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		products:    products,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

// SalesReport covers [from, to). Zero bounds default to the last 30 days.
func (s *ReportService) SalesReport(ctx context.Context, from, to time.Time) (*models.SalesReport, error) {
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.Add(-defaultReportRange)
	}
	if !from.Before(to) {
		return nil, validationError("from must be before to")
	}

	rows, err := s.reportRepo.OrderRows(ctx, from, to)
	if err != nil {
		return nil, err
	}
	report := BuildSalesReport(rows, from, to)
	return &report, nil
}

// Dashboard gathers the owner's summary with independent concurrent queries.
func (s *ReportService) Dashboard(ctx context.Context, ownerID int) (*models.Dashboard, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var d models.Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		revenue, count, err := s.reportRepo.RevenueSince(gctx, startOfDay)
		if err != nil {
			return err
		}
		d.TodayRevenue = revenue
		d.TodayOrders = count
		return nil
	})
	g.Go(func() error {
		count, err := s.reportRepo.CountOrdersByStatus(gctx, models.OrderStatusPending)
		d.PendingOrders = count
		return err
	})
	g.Go(func() error {
		products, err := s.products.LowStock(gctx)
		d.LowStockProducts = products
		return err
	})
	g.Go(func() error {
		count, err := s.messageRepo.CountUnread(gctx, ownerID)
		d.UnreadMessages = count
		return err
	})
	g.Go(func() error {
		count, err := s.userRepo.CountByRole(gctx, models.RoleCustomer)
		d.CustomerCount = count
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
