package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one stocked item. Name is the business key: restocks and
// withdrawals address products by name, never by ID.
type Product struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	Quantity    int    `gorm:"not null;default:0" json:"quantity"`
	MinQuantity int    `gorm:"not null;default:0" json:"min_quantity"`

	// Descriptive fields, all optional
	Category       *string `gorm:"type:varchar(255)" json:"category,omitempty"`
	Supplier       *string `gorm:"type:varchar(255)" json:"supplier,omitempty"`
	Location       *string `gorm:"type:varchar(255)" json:"location,omitempty"`
	Brand          *string `gorm:"type:varchar(255)" json:"brand,omitempty"`
	Unit           *string `gorm:"type:varchar(20)" json:"unit,omitempty"`
	WeightOrVolume *string `gorm:"type:varchar(50)" json:"weight_or_volume,omitempty"`
	Barcode        *string `gorm:"type:varchar(50)" json:"barcode,omitempty"`

	CostPrice  *decimal.Decimal `gorm:"type:decimal(10,2)" json:"cost_price,omitempty"`
	SalePrice  *decimal.Decimal `gorm:"type:decimal(10,2)" json:"sale_price,omitempty"`
	ExpiryDate *time.Time       `gorm:"type:date" json:"expiry_date,omitempty"`
}
