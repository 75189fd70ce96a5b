package repo

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/storefront/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
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

	require.NoError(t, Migrate(db))
	return &GormRepo{DB: db}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func seedProduct(t *testing.T, r *GormRepo, name, price string, stock uint) models.Product {
	t.Helper()
	p := &models.Product{Name: name, Description: name + " description", Price: dec(price), Stock: stock}
	_, err := r.CreateProduct(context.Background(), p)
	require.NoError(t, err)
	return *p
}

func seedUser(t *testing.T, r *GormRepo, username, role string) models.User {
	t.Helper()
	u := models.User{Username: username, PasswordHash: "x", Role: role}
	require.NoError(t, r.CreateUserIfNotExists(context.Background(), &u))
	return u
}

func seedOrder(t *testing.T, r *GormRepo, owner uuid.UUID, items ...models.OrderItem) models.Order {
	t.Helper()
	o, err := r.CreateOrder(context.Background(), &models.Order{UserID: owner, Items: items})
	require.NoError(t, err)
	return *o
}

func ids(products []models.Product) []uint {
	out := make([]uint, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestListProducts_PriceRangeInclusive(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	cheap := seedProduct(t, r, "cheap", "9.99", 1)
	low := seedProduct(t, r, "low", "10.00", 1)
	high := seedProduct(t, r, "high", "50.00", 1)
	over := seedProduct(t, r, "over", "50.01", 1)

	total, items, err := r.ListProducts(ctx, ProductFilter{PriceMin: decPtr("10"), PriceMax: decPtr("50")}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []uint{low.ID, high.ID}, ids(items))
	assert.NotContains(t, ids(items), cheap.ID)
	assert.NotContains(t, ids(items), over.ID)
}

func TestListProducts_Filters(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	phone := seedProduct(t, r, "Phone", "199.99", 3)
	case_ := seedProduct(t, r, "Phone Case", "19.99", 0)
	cable := seedProduct(t, r, "Cable_100%", "5.00", 10)

	tests := []struct {
		name string
		f    ProductFilter
		want []uint
	}{
		{"iexact", ProductFilter{NameIExact: "phone"}, []uint{phone.ID}},
		{"icontains", ProductFilter{NameIContains: "PHONE"}, []uint{phone.ID, case_.ID}},
		{"icontains escapes wildcards", ProductFilter{NameIContains: "_100%"}, []uint{cable.ID}},
		{"wildcard alone matches literally", ProductFilter{NameIContains: "%"}, []uint{cable.ID}},
		{"price exact", ProductFilter{Price: decPtr("19.99")}, []uint{case_.ID}},
		{"price lt", ProductFilter{PriceLT: decPtr("19.99")}, []uint{cable.ID}},
		{"price gt", ProductFilter{PriceGT: decPtr("19.99")}, []uint{phone.ID}},
		{"in stock", ProductFilter{InStockOnly: true}, []uint{phone.ID, cable.ID}},
		{"in stock and name", ProductFilter{InStockOnly: true, NameIContains: "case"}, []uint{}},
		{"search description", ProductFilter{Search: "case desc"}, []uint{case_.ID}},
		{"ordering price desc", ProductFilter{Ordering: []SortField{{Column: "price", Desc: true}}}, []uint{phone.ID, case_.ID, cable.ID}},
		{"ordering ignores unknown", ProductFilter{Ordering: []SortField{{Column: "password"}}}, []uint{phone.ID, case_.ID, cable.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, items, err := r.ListProducts(ctx, tt.f, 0, 10)
			require.NoError(t, err)
			assert.EqualValues(t, len(tt.want), total)
			assert.Equal(t, tt.want, ids(items))
		})
	}
}

func TestListProducts_Pagination(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	var all []uint
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		all = append(all, seedProduct(t, r, n, "1.00", 1).ID)
	}

	total, items, err := r.ListProducts(ctx, ProductFilter{}, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Equal(t, all[2:4], ids(items))
}

func TestProduct_PriceIsExactAfterRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	p := seedProduct(t, r, "exact", "19.99", 3)

	got, err := r.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "19.99", got.Price.StringFixed(2))
	assert.True(t, got.InStock())
}

func TestUpdateProduct_OptimisticVersion(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	p := seedProduct(t, r, "widget", "1.00", 5)

	first, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	second, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)

	first.Stock = 4
	_, err = r.UpdateProduct(ctx, first)
	require.NoError(t, err)

	second.Stock = 3
	_, err = r.UpdateProduct(ctx, second)
	require.ErrorIs(t, err, ErrStaleVersion)

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, got.Stock)
	assert.EqualValues(t, 2, got.Version)

	_, err = r.UpdateProduct(ctx, &models.Product{ID: 999, Version: 1})
	assert.True(t, IsNotFound(err))
}

func TestDeleteProduct_CascadesToOrderItems(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "user1", models.RoleUser)
	keep := seedProduct(t, r, "keep", "1.00", 1)
	gone := seedProduct(t, r, "gone", "2.00", 1)
	o := seedOrder(t, r, u.ID,
		models.OrderItem{ProductID: keep.ID, Quantity: 1},
		models.OrderItem{ProductID: gone.ID, Quantity: 2},
	)

	require.NoError(t, r.DeleteProduct(ctx, gone.ID))
	assert.True(t, IsNotFound(r.DeleteProduct(ctx, gone.ID)))

	got, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, keep.ID, got.Items[0].ProductID)
}

func TestCreateOrder_LoadsItemsAndProducts(t *testing.T) {
	r := newTestRepo(t)
	u := seedUser(t, r, "user1", models.RoleUser)
	p := seedProduct(t, r, "book", "19.99", 3)

	o := seedOrder(t, r, u.ID, models.OrderItem{ProductID: p.ID, Quantity: 2})

	assert.NotEqual(t, uuid.Nil, o.ID)
	assert.Equal(t, models.OrderStatusPending, o.Status)
	assert.False(t, o.CreatedAt.IsZero())
	require.Len(t, o.Items, 1)
	assert.Equal(t, "book", o.Items[0].Product.Name)
	assert.Equal(t, "19.99", o.Items[0].Product.Price.StringFixed(2))
}

func TestCreateOrder_ReferentialChecks(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "user1", models.RoleUser)

	_, err := r.CreateOrder(ctx, &models.Order{UserID: u.ID, Items: []models.OrderItem{{ProductID: 404, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = r.CreateOrder(ctx, &models.Order{UserID: uuid.New()})
	assert.ErrorIs(t, err, ErrUserNotFound)

	orders, err := r.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestListOrders_ScopingAndFilters(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u1 := seedUser(t, r, "user1", models.RoleUser)
	u2 := seedUser(t, r, "user2", models.RoleUser)
	a := seedOrder(t, r, u1.ID)
	b := seedOrder(t, r, u1.ID)
	seedOrder(t, r, u2.ID)
	seedOrder(t, r, u2.ID)

	confirmed := models.OrderStatusConfirmed
	_, err := r.UpdateOrder(ctx, b.ID, &confirmed, nil)
	require.NoError(t, err)

	all, err := r.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	own, err := r.ListOrders(ctx, OrderFilter{OwnerID: &u1.ID})
	require.NoError(t, err)
	require.Len(t, own, 2)
	for _, o := range own {
		assert.Equal(t, u1.ID, o.UserID)
	}

	pending, err := r.ListOrders(ctx, OrderFilter{OwnerID: &u1.ID, Status: models.OrderStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].ID)

	future := time.Now().Add(24 * time.Hour)
	before, err := r.ListOrders(ctx, OrderFilter{CreatedBefore: &future})
	require.NoError(t, err)
	assert.Len(t, before, 4)

	after, err := r.ListOrders(ctx, OrderFilter{CreatedAfter: &future})
	require.NoError(t, err)
	assert.Empty(t, after)

	again, err := r.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, all, again)
}

func TestListOrders_ConstantQueryCount(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	var queries atomic.Int64
	require.NoError(t, r.DB.Callback().Query().After("gorm:query").Register("test:count_queries", func(*gorm.DB) {
		queries.Add(1)
	}))

	u := seedUser(t, r, "user1", models.RoleUser)
	p1 := seedProduct(t, r, "p1", "1.00", 1)
	p2 := seedProduct(t, r, "p2", "2.00", 1)

	countFor := func() int64 {
		queries.Store(0)
		_, err := r.ListOrders(ctx, OrderFilter{})
		require.NoError(t, err)
		return queries.Load()
	}

	seedOrder(t, r, u.ID, models.OrderItem{ProductID: p1.ID, Quantity: 1})
	small := countFor()

	for i := 0; i < 5; i++ {
		seedOrder(t, r, u.ID,
			models.OrderItem{ProductID: p1.ID, Quantity: 1},
			models.OrderItem{ProductID: p2.ID, Quantity: 3},
		)
	}
	large := countFor()

	assert.Equal(t, small, large)
	assert.LessOrEqual(t, large, int64(3))
}

func TestUpdateOrder_ReplacesItems(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "user1", models.RoleUser)
	p1 := seedProduct(t, r, "p1", "1.00", 1)
	p2 := seedProduct(t, r, "p2", "2.00", 1)
	o := seedOrder(t, r, u.ID, models.OrderItem{ProductID: p1.ID, Quantity: 1})

	items := []models.OrderItem{{ProductID: p2.ID, Quantity: 4}}
	got, err := r.UpdateOrder(ctx, o.ID, nil, &items)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, p2.ID, got.Items[0].ProductID)
	assert.EqualValues(t, 4, got.Items[0].Quantity)

	bad := []models.OrderItem{{ProductID: 999, Quantity: 1}}
	_, err = r.UpdateOrder(ctx, o.ID, nil, &bad)
	assert.ErrorIs(t, err, ErrProductNotFound)

	unchanged, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, unchanged.Items, 1)
	assert.Equal(t, p2.ID, unchanged.Items[0].ProductID)

	_, err = r.UpdateOrder(ctx, uuid.New(), nil, nil)
	assert.True(t, IsNotFound(err))
}

func TestDeleteOrder(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "user1", models.RoleUser)
	p := seedProduct(t, r, "p", "1.00", 1)
	o := seedOrder(t, r, u.ID, models.OrderItem{ProductID: p.ID, Quantity: 1})

	require.NoError(t, r.DeleteOrder(ctx, o.ID))
	assert.True(t, IsNotFound(r.DeleteOrder(ctx, o.ID)))

	var n int64
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&n).Error)
	assert.Zero(t, n)

	_, err := r.GetProduct(ctx, p.ID)
	assert.NoError(t, err)
}

func TestUsers(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice", models.RoleUser)
	err := r.CreateUserIfNotExists(ctx, &models.User{Username: "alice", PasswordHash: "y", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrUserAlreadyExist)

	admin, err := r.EnsureAdmin(ctx, "alice", "new-hash")
	require.NoError(t, err)
	assert.Equal(t, u.ID, admin.ID)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	fresh, err := r.EnsureAdmin(ctx, "root", "hash")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, fresh.ID)

	got, err := r.GetUserByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, "root", got.Username)

	_, err = r.UserExist(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
