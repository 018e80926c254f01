package service

import (
	"errors"
	"time"

	"go-stock-api/internal/apperr"
	"go-stock-api/internal/model"
	"go-stock-api/internal/repository"
	"go-stock-api/internal/ws"
	"go-stock-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockService interface {
	Restock(req *RestockRequest) (*model.Product, error)
	EditProduct(name string, req *EditProductRequest) (*model.Product, error)
	DeleteProduct(name string) error
	GetAllProducts() ([]model.Product, error)
	Withdraw(req *WithdrawRequest) (*model.Movement, error)
	RecordSale(req *SaleRequest, userID *uuid.UUID) (*model.Sale, error)
	GetMovements() ([]model.Movement, error)
	ClearMovements() error
	GetSales() ([]model.Sale, error)
}

// RestockRequest adds stock to a product, creating it on first restock.
// Omitted descriptive fields keep their stored value; provided ones are
// overwritten (last write wins).
type RestockRequest struct {
	Name           string           `json:"name" validate:"required"`
	Quantity       int              `json:"quantity" validate:"required,gt=0"`
	MinQuantity    *int             `json:"min_quantity" validate:"omitempty,gte=0"`
	Category       *string          `json:"category"`
	Supplier       *string          `json:"supplier"`
	Location       *string          `json:"location"`
	Brand          *string          `json:"brand"`
	Unit           *string          `json:"unit"`
	WeightOrVolume *string          `json:"weight_or_volume"`
	Barcode        *string          `json:"barcode"`
	CostPrice      *decimal.Decimal `json:"cost_price"`
	SalePrice      *decimal.Decimal `json:"sale_price"`
	ExpiryDate     *string          `json:"expiry_date"` // dd/mm/yyyy or yyyy-mm-dd
}

// EditProductRequest is a partial update. Nil (or empty-string) fields mean
// "keep the stored value"; clearing a field is not supported.
type EditProductRequest struct {
	Name           *string          `json:"name"` // rename
	Quantity       *int             `json:"quantity" validate:"omitempty,gte=0"`
	MinQuantity    *int             `json:"min_quantity" validate:"omitempty,gte=0"`
	Category       *string          `json:"category"`
	Supplier       *string          `json:"supplier"`
	Location       *string          `json:"location"`
	Brand          *string          `json:"brand"`
	Unit           *string          `json:"unit"`
	WeightOrVolume *string          `json:"weight_or_volume"`
	Barcode        *string          `json:"barcode"`
	CostPrice      *decimal.Decimal `json:"cost_price"`
	SalePrice      *decimal.Decimal `json:"sale_price"`
	ExpiryDate     *string          `json:"expiry_date"`
}

type WithdrawRequest struct {
	Name        string `json:"name" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	Responsible string `json:"responsible" validate:"required"`
	Reason      string `json:"reason" validate:"required"`
}

type SaleRequest struct {
	ProductName string           `json:"product_name" validate:"required"`
	Quantity    int              `json:"quantity" validate:"required,gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price"` // falls back to the product's sale price
}

type stockService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	saleRepo     repository.SaleRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewStockService(pRepo repository.ProductRepository, mRepo repository.MovementRepository, sRepo repository.SaleRepository, db *gorm.DB, hub *ws.Hub) StockService {
	return &stockService{
		productRepo:  pRepo,
		movementRepo: mRepo,
		saleRepo:     sRepo,
		db:           db,
		wsHub:        hub,
	}
}

// parseExpiryDate accepts dd/mm/yyyy (legacy clients) or yyyy-mm-dd and
// normalizes to a calendar date.
func parseExpiryDate(value string) (*time.Time, error) {
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, apperr.Validation("invalid expiry date '%s', use dd/mm/yyyy or yyyy-mm-dd", value)
}

func validatePrices(cost, sale *decimal.Decimal) error {
	if cost != nil && cost.IsNegative() {
		return apperr.Validation("cost price must not be negative")
	}
	if sale != nil && sale.IsNegative() {
		return apperr.Validation("sale price must not be negative")
	}
	return nil
}

func (s *stockService) Restock(req *RestockRequest) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", validator.FirstMessage(errs))
	}
	if err := validatePrices(req.CostPrice, req.SalePrice); err != nil {
		return nil, apperr.From(err)
	}

	var expiry *time.Time
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		parsed, err := parseExpiryDate(*req.ExpiryDate)
		if err != nil {
			return nil, apperr.From(err)
		}
		expiry = parsed
	}

	var result *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.FindByName(tx, req.Name)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			// First stock-in for this name: create the product
			product := &model.Product{
				Name:           req.Name,
				Quantity:       req.Quantity,
				Category:       req.Category,
				Supplier:       req.Supplier,
				Location:       req.Location,
				Brand:          req.Brand,
				Unit:           req.Unit,
				WeightOrVolume: req.WeightOrVolume,
				Barcode:        req.Barcode,
				CostPrice:      req.CostPrice,
				SalePrice:      req.SalePrice,
				ExpiryDate:     expiry,
			}
			if req.MinQuantity != nil {
				product.MinQuantity = *req.MinQuantity
			}
			if err := s.productRepo.Create(tx, product); err != nil {
				return err
			}
			result = product
			return nil
		}

		// Existing product: increment quantity atomically and overwrite the
		// fields this restock supplied.
		fields := map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", req.Quantity),
		}
		if req.MinQuantity != nil {
			fields["min_quantity"] = *req.MinQuantity
		}
		applyTextField(fields, "category", req.Category)
		applyTextField(fields, "supplier", req.Supplier)
		applyTextField(fields, "location", req.Location)
		applyTextField(fields, "brand", req.Brand)
		applyTextField(fields, "unit", req.Unit)
		applyTextField(fields, "weight_or_volume", req.WeightOrVolume)
		applyTextField(fields, "barcode", req.Barcode)
		if req.CostPrice != nil {
			fields["cost_price"] = *req.CostPrice
		}
		if req.SalePrice != nil {
			fields["sale_price"] = *req.SalePrice
		}
		if expiry != nil {
			fields["expiry_date"] = *expiry
		}

		if err := s.productRepo.UpdateFields(tx, existing.Name, fields); err != nil {
			return err
		}

		updated, err := s.productRepo.FindByName(tx, req.Name)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}

	go s.wsHub.BroadcastJSON(ws.StockEvent{
		Type:        "stock_update",
		Action:      "restock",
		ProductName: result.Name,
		Quantity:    req.Quantity,
		NewQuantity: result.Quantity,
	})

	return result, nil
}

// applyTextField records a descriptive column for overwrite. Empty strings
// are treated as "no change", matching the legacy coalesce behavior.
func applyTextField(fields map[string]interface{}, column string, value *string) {
	if value != nil && *value != "" {
		fields[column] = *value
	}
}

func (s *stockService) EditProduct(name string, req *EditProductRequest) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", validator.FirstMessage(errs))
	}
	if err := validatePrices(req.CostPrice, req.SalePrice); err != nil {
		return nil, apperr.From(err)
	}

	var expiry *time.Time
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		parsed, err := parseExpiryDate(*req.ExpiryDate)
		if err != nil {
			return nil, apperr.From(err)
		}
		expiry = parsed
	}

	var result *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.FindByName(tx, name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product '%s' not found", name)
			}
			return err
		}

		fields := map[string]interface{}{}

		newName := existing.Name
		if req.Name != nil && *req.Name != "" && *req.Name != existing.Name {
			if _, err := s.productRepo.FindByName(tx, *req.Name); err == nil {
				return apperr.Conflict("product name '%s' already in use", *req.Name)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			fields["name"] = *req.Name
			newName = *req.Name
		}

		if req.Quantity != nil {
			fields["quantity"] = *req.Quantity
		}
		if req.MinQuantity != nil {
			fields["min_quantity"] = *req.MinQuantity
		}
		applyTextField(fields, "category", req.Category)
		applyTextField(fields, "supplier", req.Supplier)
		applyTextField(fields, "location", req.Location)
		applyTextField(fields, "brand", req.Brand)
		applyTextField(fields, "unit", req.Unit)
		applyTextField(fields, "weight_or_volume", req.WeightOrVolume)
		applyTextField(fields, "barcode", req.Barcode)
		if req.CostPrice != nil {
			fields["cost_price"] = *req.CostPrice
		}
		if req.SalePrice != nil {
			fields["sale_price"] = *req.SalePrice
		}
		if expiry != nil {
			fields["expiry_date"] = *expiry
		}

		if len(fields) > 0 {
			if err := s.productRepo.UpdateFields(tx, name, fields); err != nil {
				return err
			}
		}

		updated, err := s.productRepo.FindByName(tx, newName)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}
	return result, nil
}

func (s *stockService) DeleteProduct(name string) error {
	rows, err := s.productRepo.DeleteByName(name)
	if err != nil {
		return apperr.From(err)
	}
	if rows == 0 {
		return apperr.NotFound("product '%s' not found", name)
	}
	return nil
}

func (s *stockService) GetAllProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, apperr.From(err)
	}
	return products, nil
}

// Withdraw decrements stock and appends the ledger row in one transaction.
// The conditional decrement (quantity >= requested) is the serialization
// point: of two concurrent withdrawals racing for the same stock, exactly
// one sees rows affected.
func (s *stockService) Withdraw(req *WithdrawRequest) (*model.Movement, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", validator.FirstMessage(errs))
	}

	var movement *model.Movement
	var newQuantity int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rows, err := s.productRepo.RemoveQuantity(tx, req.Name, req.Quantity)
		if err != nil {
			return err
		}
		if rows == 0 {
			// Re-read to tell a missing product from insufficient stock
			if _, err := s.productRepo.FindByName(tx, req.Name); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("product '%s' not found", req.Name)
				}
				return err
			}
			return apperr.InsufficientStock("insufficient stock for '%s'", req.Name)
		}

		product, err := s.productRepo.FindByName(tx, req.Name)
		if err != nil {
			return err
		}
		newQuantity = product.Quantity

		m := &model.Movement{
			ProductName: req.Name,
			Quantity:    req.Quantity,
			Responsible: req.Responsible,
			Reason:      req.Reason,
		}
		if err := s.movementRepo.Create(tx, m); err != nil {
			return err
		}
		movement = m
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}

	go s.wsHub.BroadcastJSON(ws.StockEvent{
		Type:        "stock_update",
		Action:      "withdrawal",
		ProductName: req.Name,
		Quantity:    req.Quantity,
		NewQuantity: newQuantity,
		By:          req.Responsible,
	})

	return movement, nil
}

// RecordSale is the checkout path: same decrement contract as Withdraw plus
// an append-only sale row priced from the request or the product.
func (s *stockService) RecordSale(req *SaleRequest, userID *uuid.UUID) (*model.Sale, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", validator.FirstMessage(errs))
	}
	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return nil, apperr.Validation("unit price must not be negative")
	}

	var sale *model.Sale
	var newQuantity int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.FindByName(tx, req.ProductName)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product '%s' not found", req.ProductName)
			}
			return err
		}

		unitPrice := req.UnitPrice
		if unitPrice == nil {
			unitPrice = product.SalePrice
		}
		if unitPrice == nil {
			return apperr.Validation("product '%s' has no sale price", req.ProductName)
		}

		rows, err := s.productRepo.RemoveQuantity(tx, req.ProductName, req.Quantity)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperr.InsufficientStock("insufficient stock for '%s'", req.ProductName)
		}
		newQuantity = product.Quantity - req.Quantity

		record := &model.Sale{
			ProductName: req.ProductName,
			Quantity:    req.Quantity,
			UnitPrice:   *unitPrice,
			TotalPrice:  unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
			UserID:      userID,
		}
		if err := s.saleRepo.Create(tx, record); err != nil {
			return err
		}
		sale = record
		return nil
	})
	if err != nil {
		return nil, apperr.From(err)
	}

	go s.wsHub.BroadcastJSON(ws.StockEvent{
		Type:        "stock_update",
		Action:      "sale",
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		NewQuantity: newQuantity,
	})

	return sale, nil
}

func (s *stockService) GetMovements() ([]model.Movement, error) {
	movements, err := s.movementRepo.FindAll()
	if err != nil {
		return nil, apperr.From(err)
	}
	return movements, nil
}

func (s *stockService) ClearMovements() error {
	if err := s.movementRepo.Clear(); err != nil {
		return apperr.From(err)
	}
	return nil
}

func (s *stockService) GetSales() ([]model.Sale, error) {
	sales, err := s.saleRepo.FindAll()
	if err != nil {
		return nil, apperr.From(err)
	}
	return sales, nil
}
