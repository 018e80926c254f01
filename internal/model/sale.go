package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is an append-only record of a checkout. TotalPrice is the snapshot of
// unit price * quantity at sale time, kept for revenue reports.
type Sale struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ProductName string          `gorm:"type:varchar(255);not null;index" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	UserID      *uuid.UUID      `gorm:"type:uuid" json:"user_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
