package service

import (
	"fmt"
	"testing"

	"go-stock-api/internal/model"
	"go-stock-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database per test. MaxOpenConns(1)
// keeps every connection on the same memory database and serializes
// concurrent transactions the way a real server-side store would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.User{}, &model.Movement{}, &model.Sale{}))
	return db
}

func newStockService(db *gorm.DB) StockService {
	return NewStockService(
		repository.NewProductRepo(db),
		repository.NewMovementRepo(db),
		repository.NewSaleRepo(db),
		db,
		nil, // no websocket hub in tests
	)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
