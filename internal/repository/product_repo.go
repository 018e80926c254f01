package repository

import (
	"go-stock-api/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByName(tx *gorm.DB, name string) (*model.Product, error)
	Save(tx *gorm.DB, product *model.Product) error
	UpdateFields(tx *gorm.DB, name string, fields map[string]interface{}) error
	DeleteByName(name string) (int64, error)
	AddQuantity(tx *gorm.DB, name string, delta int) (int64, error)
	RemoveQuantity(tx *gorm.DB, name string, quantity int) (int64, error)
	FindLowStock() ([]model.Product, error)
	FindWithExpiry() ([]model.Product, error)
	Count() (int64, error)
	CountLowStock() (int64, error)
	StockValuation() (decimal.Decimal, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// Mutating methods take a *gorm.DB so they can run inside a caller-owned
// transaction; pass the repo's own handle for standalone use.

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("created_at ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByName(tx *gorm.DB, name string) (*model.Product, error) {
	var product model.Product
	if err := tx.First(&product, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Save(tx *gorm.DB, product *model.Product) error {
	return tx.Save(product).Error
}

func (r *productRepo) UpdateFields(tx *gorm.DB, name string, fields map[string]interface{}) error {
	return tx.Model(&model.Product{}).
		Where("name = ?", name).
		Updates(fields).Error
}

func (r *productRepo) DeleteByName(name string) (int64, error) {
	res := r.db.Delete(&model.Product{}, "name = ?", name)
	return res.RowsAffected, res.Error
}

// AddQuantity increments stock as a single SQL expression so concurrent
// restocks never lose an update.
func (r *productRepo) AddQuantity(tx *gorm.DB, name string, delta int) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("name = ?", name).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected, res.Error
}

// RemoveQuantity decrements stock only when enough is available. Zero rows
// affected means either the product is missing or stock is insufficient;
// the caller re-reads to tell the two apart.
func (r *productRepo) RemoveQuantity(tx *gorm.DB, name string, quantity int) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("name = ? AND quantity >= ?", name, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	return res.RowsAffected, res.Error
}

func (r *productRepo) FindLowStock() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("quantity < min_quantity").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindWithExpiry() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("expiry_date IS NOT NULL").Find(&products).Error
	return products, err
}

func (r *productRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Count(&count).Error
	return count, err
}

func (r *productRepo) CountLowStock() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("quantity < min_quantity").Count(&count).Error
	return count, err
}

// StockValuation sums quantity * sale_price over products that have a price.
func (r *productRepo) StockValuation() (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.Product{}).
		Select("COALESCE(SUM(quantity * sale_price), 0)").
		Where("sale_price IS NOT NULL").
		Scan(&total).Error
	return total, err
}
