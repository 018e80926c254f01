package repository

import (
	"go-stock-api/internal/model"

	"gorm.io/gorm"
)

type MovementRepository interface {
	Create(tx *gorm.DB, movement *model.Movement) error
	FindAll() ([]model.Movement, error)
	Count() (int64, error)
	Clear() error
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

// Create appends one ledger row. It takes the caller's tx so the append
// commits or rolls back together with the stock decrement.
func (r *movementRepo) Create(tx *gorm.DB, movement *model.Movement) error {
	return tx.Create(movement).Error
}

func (r *movementRepo) FindAll() ([]model.Movement, error) {
	var movements []model.Movement
	err := r.db.Order("created_at DESC").Find(&movements).Error
	return movements, err
}

func (r *movementRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Movement{}).Count(&count).Error
	return count, err
}

// Clear deletes the whole ledger. Idempotent: clearing an empty ledger is
// not an error.
func (r *movementRepo) Clear() error {
	return r.db.Where("1 = 1").Delete(&model.Movement{}).Error
}
