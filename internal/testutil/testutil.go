// Package testutil holds fixtures shared by the service and HTTP tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

// NewRepo returns a repository over a fresh in-memory database.
func NewRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Discard,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repo.Migrate(db))
	return &repo.GormRepo{DB: db}
}

func SeedUser(t *testing.T, r *repo.GormRepo, username, role string) models.User {
	t.Helper()
	u := models.User{Username: username, PasswordHash: "-", Role: role}
	require.NoError(t, r.DB.Create(&u).Error)
	return u
}

func SeedProduct(t *testing.T, r *repo.GormRepo, name, price string, stock uint) models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
	}
	_, err := r.CreateProduct(context.Background(), p)
	require.NoError(t, err)
	return *p
}

func SeedOrder(t *testing.T, r *repo.GormRepo, owner models.User, items ...models.OrderItem) models.Order {
	t.Helper()
	o, err := r.CreateOrder(context.Background(), &models.Order{UserID: owner.ID, Items: items})
	require.NoError(t, err)
	return *o
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	args := m.Called(ctx, topic, key, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) IndexProduct(ctx context.Context, p models.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockIndexer) DeleteProduct(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockIndexer) Search(ctx context.Context, q string, from, size int) (int64, []uint, error) {
	args := m.Called(ctx, q, from, size)
	ids, _ := args.Get(1).([]uint)
	return args.Get(0).(int64), ids, args.Error(2)
}
