package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Movement is one immutable ledger row recording a stock withdrawal.
// Rows are written in the same transaction as the quantity decrement and are
// never updated afterwards; the only removal path is the bulk clear.
type Movement struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProductName string    `gorm:"type:varchar(255);not null;index" json:"product_name"`
	Quantity    int       `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Responsible string    `gorm:"type:varchar(255);not null" json:"responsible" validate:"required"`
	Reason      string    `gorm:"type:varchar(255);not null" json:"reason" validate:"required"`
	CreatedAt   time.Time `json:"created_at"`
}

func (m *Movement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
