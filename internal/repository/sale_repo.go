package repository

import (
	"go-stock-api/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindAll() ([]model.Sale, error)
	Count() (int64, error)
	TotalRevenue() (decimal.Decimal, error)
	RevenueByDay() ([]DailyRevenue, error)
	SellersByQuantity(order string, limit int) ([]SellerTotal, error)
}

// DailyRevenue is one row of the revenue-by-day report.
type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SellerTotal is one row of the top/bottom sellers report.
type SellerTotal struct {
	ProductName string `json:"product_name"`
	TotalSold   int    `json:"total_sold"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Sale{}).Count(&count).Error
	return count, err
}

func (r *saleRepo) TotalRevenue() (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.Sale{}).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	return total, err
}

func (r *saleRepo) RevenueByDay() ([]DailyRevenue, error) {
	var results []DailyRevenue

	rows, err := r.db.Model(&model.Sale{}).
		Select("DATE(created_at) as date, COALESCE(SUM(total_price), 0) as revenue").
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var day DailyRevenue
		if err := rows.Scan(&day.Date, &day.Revenue); err != nil {
			return nil, err
		}
		results = append(results, day)
	}

	return results, rows.Err()
}

// SellersByQuantity aggregates units sold per product. order must be
// "ASC" or "DESC".
func (r *saleRepo) SellersByQuantity(order string, limit int) ([]SellerTotal, error) {
	if order != "ASC" {
		order = "DESC"
	}
	var results []SellerTotal
	err := r.db.Model(&model.Sale{}).
		Select("product_name, SUM(quantity) as total_sold").
		Group("product_name").
		Order("total_sold " + order).
		Limit(limit).
		Scan(&results).Error
	return results, err
}
