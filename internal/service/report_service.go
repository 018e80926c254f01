package service

import (
	"sort"
	"time"

	"go-stock-api/internal/apperr"
	"go-stock-api/internal/model"
	"go-stock-api/internal/repository"

	"github.com/shopspring/decimal"
)

// Expiry severity buckets by days remaining.
const (
	SeverityCritical = "critical" // <= 7 days (or already expired)
	SeverityWarning  = "warning"  // <= 30 days
	SeverityNormal   = "normal"
)

// ExpiryReportItem pairs a product with its time-to-expiry classification.
type ExpiryReportItem struct {
	Product       model.Product `json:"product"`
	DaysRemaining int           `json:"days_remaining"`
	Severity      string        `json:"severity"`
}

type DashboardStats struct {
	TotalProducts   int64           `json:"total_products"`
	LowStockCount   int64           `json:"low_stock_count"`
	StockValuation  decimal.Decimal `json:"stock_valuation"`
	WithdrawalCount int64           `json:"withdrawal_count"`
}

type ReportService interface {
	LowStock() ([]model.Product, error)
	ExpiringSoon() ([]ExpiryReportItem, error)
	RevenueByDay() ([]repository.DailyRevenue, error)
	TopSellers(limit int) ([]repository.SellerTotal, error)
	BottomSellers(limit int) ([]repository.SellerTotal, error)
	AverageTicket() (decimal.Decimal, error)
	DashboardStats() (*DashboardStats, error)
}

type reportService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	saleRepo     repository.SaleRepository
	now          func() time.Time
}

func NewReportService(pRepo repository.ProductRepository, mRepo repository.MovementRepository, sRepo repository.SaleRepository) ReportService {
	return &reportService{
		productRepo:  pRepo,
		movementRepo: mRepo,
		saleRepo:     sRepo,
		now:          time.Now,
	}
}

func (s *reportService) LowStock() ([]model.Product, error) {
	products, err := s.productRepo.FindLowStock()
	if err != nil {
		return nil, apperr.From(err)
	}
	return products, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SeverityForDays buckets a days-remaining value.
func SeverityForDays(days int) string {
	switch {
	case days <= 7:
		return SeverityCritical
	case days <= 30:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

func (s *reportService) ExpiringSoon() ([]ExpiryReportItem, error) {
	products, err := s.productRepo.FindWithExpiry()
	if err != nil {
		return nil, apperr.From(err)
	}

	today := dateOnly(s.now())
	items := make([]ExpiryReportItem, 0, len(products))
	for _, p := range products {
		if p.ExpiryDate == nil {
			continue
		}
		days := int(dateOnly(*p.ExpiryDate).Sub(today).Hours() / 24)
		items = append(items, ExpiryReportItem{
			Product:       p,
			DaysRemaining: days,
			Severity:      SeverityForDays(days),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].DaysRemaining < items[j].DaysRemaining
	})
	return items, nil
}

func (s *reportService) RevenueByDay() ([]repository.DailyRevenue, error) {
	revenue, err := s.saleRepo.RevenueByDay()
	if err != nil {
		return nil, apperr.From(err)
	}
	return revenue, nil
}

func (s *reportService) TopSellers(limit int) ([]repository.SellerTotal, error) {
	sellers, err := s.saleRepo.SellersByQuantity("DESC", limit)
	if err != nil {
		return nil, apperr.From(err)
	}
	return sellers, nil
}

func (s *reportService) BottomSellers(limit int) ([]repository.SellerTotal, error) {
	sellers, err := s.saleRepo.SellersByQuantity("ASC", limit)
	if err != nil {
		return nil, apperr.From(err)
	}
	return sellers, nil
}

// AverageTicket is total revenue over sale count, zero when there are no
// sales.
func (s *reportService) AverageTicket() (decimal.Decimal, error) {
	count, err := s.saleRepo.Count()
	if err != nil {
		return decimal.Zero, apperr.From(err)
	}
	if count == 0 {
		return decimal.Zero, nil
	}

	total, err := s.saleRepo.TotalRevenue()
	if err != nil {
		return decimal.Zero, apperr.From(err)
	}
	return total.DivRound(decimal.NewFromInt(count), 2), nil
}

func (s *reportService) DashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalProducts, err = s.productRepo.Count(); err != nil {
		return nil, apperr.From(err)
	}
	if stats.LowStockCount, err = s.productRepo.CountLowStock(); err != nil {
		return nil, apperr.From(err)
	}
	if stats.StockValuation, err = s.productRepo.StockValuation(); err != nil {
		return nil, apperr.From(err)
	}
	if stats.WithdrawalCount, err = s.movementRepo.Count(); err != nil {
		return nil, apperr.From(err)
	}
	return stats, nil
}
