package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/pkg/dbmetrics"
	"github.com/m04kA/SMC-OrderFlow/pkg/psqlbuilder"
	"github.com/m04kA/SMC-OrderFlow/pkg/ptr"
	"github.com/m04kA/SMC-OrderFlow/pkg/txmanager"
)

func newTestDB(t *testing.T) *dbmetrics.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := dbmetrics.Wrap(sqlDB, nil)
	require.NoError(t, Migrate(context.Background(), db, psqlbuilder.DialectSQLite))
	return db
}

func newOrder(customerID, vehicleID string, date time.Time, state domain.OrderState) *domain.Order {
	return &domain.Order{
		CustomerID: customerID,
		VehicleID:  vehicleID,
		AddressID:  "a1",
		Services: []domain.OrderLine{
			{ServiceID: "A", Title: "Exterior wash", Price: decimal.RequireFromString("100.50")},
			{ServiceID: "B", Title: "Vacuum", Price: decimal.NewFromInt(50)},
		},
		ServiceDate:     date,
		ServiceTime:     "10:00",
		DurationMinutes: 30,
		TotalAmount:     decimal.RequireFromString("150.50"),
		TravelFee:       decimal.NewFromInt(20),
		GrandTotal:      decimal.RequireFromString("170.50"),
		Currency:        "TRY",
		State:           state,
		PaymentID:       ptr.Ptr("pay_1"),
	}
}

var day = time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)

func TestRepository_CreateAndGet(t *testing.T) {
	repo := NewRepository(newTestDB(t), psqlbuilder.DialectSQLite)
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder("42", "v1", day, domain.OrderStatePending))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "42", got.CustomerID)
	assert.Equal(t, day, got.ServiceDate)
	assert.Equal(t, "10:00", got.ServiceTime.String())
	assert.True(t, got.GrandTotal.Equal(decimal.RequireFromString("170.50")))
	require.Len(t, got.Services, 2)
	assert.True(t, got.Services[0].Price.Equal(decimal.RequireFromString("100.50")))
	require.NotNil(t, got.PaymentID)
	assert.Equal(t, "pay_1", *got.PaymentID)
	assert.Nil(t, got.CancelledAt)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_ListFiltersByState(t *testing.T) {
	repo := NewRepository(newTestDB(t), psqlbuilder.DialectSQLite)
	ctx := context.Background()

	_, err := repo.Create(ctx, newOrder("42", "v1", day, domain.OrderStatePending))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder("42", "v2", day.AddDate(0, 0, 1), domain.OrderStateCompleted))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder("7", "v9", day, domain.OrderStatePending))
	require.NoError(t, err)

	all, err := repo.List(ctx, "42", nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "v2", all[0].VehicleID, "latest service date first")

	completed, err := repo.List(ctx, "42", ptr.Ptr(domain.OrderStateCompleted))
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "v2", completed[0].VehicleID)
}

func TestRepository_ListByDateSkipsInactive(t *testing.T) {
	repo := NewRepository(newTestDB(t), psqlbuilder.DialectSQLite)
	ctx := context.Background()

	late := newOrder("1", "v1", day, domain.OrderStateConfirmed)
	late.ServiceTime = "12:00"
	_, err := repo.Create(ctx, late)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder("2", "v2", day, domain.OrderStatePending))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder("3", "v3", day, domain.OrderStateCanceled))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder("4", "v4", day.AddDate(0, 0, 1), domain.OrderStatePending))
	require.NoError(t, err)

	orders, err := repo.ListByDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "10:00", orders[0].ServiceTime.String())
	assert.Equal(t, "12:00", orders[1].ServiceTime.String())
}

func TestRepository_UpdateState(t *testing.T) {
	repo := NewRepository(newTestDB(t), psqlbuilder.DialectSQLite)
	ctx := context.Background()

	created, err := repo.Create(ctx, newOrder("42", "v1", day, domain.OrderStatePending))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateState(ctx, created.ID, domain.OrderStateCanceled))
	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStateCanceled, got.State)
	assert.NotNil(t, got.CancelledAt)

	assert.ErrorIs(t, repo.UpdateState(ctx, "missing", domain.OrderStateConfirmed), ErrOrderNotFound)
	assert.ErrorIs(t, repo.UpdateState(ctx, created.ID, domain.OrderState("lost")), ErrInvalidState)
}

func TestRepository_UsesTransactionFromContext(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db, psqlbuilder.DialectSQLite)
	tm := txmanager.NewTransactionManager(db, false)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tm.Do(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, newOrder("42", "v1", day, domain.OrderStatePending)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	orders, err := repo.List(ctx, "42", nil)
	require.NoError(t, err)
	assert.Empty(t, orders, "insert is rolled back")

	err = tm.Do(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, newOrder("42", "v1", day, domain.OrderStatePending))
		return err
	})
	require.NoError(t, err)

	orders, err = repo.List(ctx, "42", nil)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}
