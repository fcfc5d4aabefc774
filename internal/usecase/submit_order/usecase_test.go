package submit_order

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
	"github.com/m04kA/SMC-OrderFlow/internal/infra/storage/order"
	"github.com/m04kA/SMC-OrderFlow/pkg/dbmetrics"
	"github.com/m04kA/SMC-OrderFlow/pkg/logger"
	"github.com/m04kA/SMC-OrderFlow/pkg/psqlbuilder"
	"github.com/m04kA/SMC-OrderFlow/pkg/txmanager"
	"github.com/m04kA/SMC-OrderFlow/pkg/types"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

// Sunday 2026-05-10 12:10
var now = time.Date(2026, 5, 10, 12, 10, 0, 0, time.UTC)

var monday = time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)

func schedule() domain.WashSchedule {
	return domain.WashSchedule{
		OpenTime:                "09:00",
		CloseTime:               "21:00",
		ClosedWeekdays:          []time.Weekday{time.Saturday},
		SlotDurationMinutes:     30,
		Boxes:                   1,
		AdvanceBookingDays:      30,
		MinBookingNoticeMinutes: 60,
	}
}

func newRepo(t *testing.T) (*order.Repository, *txmanager.TransactionManager) {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := dbmetrics.Wrap(sqlDB, nil)
	require.NoError(t, order.Migrate(context.Background(), db, psqlbuilder.DialectSQLite))
	return order.NewRepository(db, psqlbuilder.DialectSQLite), txmanager.NewTransactionManager(db, false)
}

func newTestUseCase(repo OrderRepository, tm TransactionManager, s domain.WashSchedule) *UseCase {
	uc := NewUseCase(repo, tm, s, logger.NewNop())
	uc.timeProvider = fixedTime{t: now}
	return uc
}

func newDraft(vehicleID string, date time.Time, at types.TimeString) *domain.OrderDraft {
	d := domain.NewOrderDraft("draft-1", "TRY", now)
	d.SetVehicle(vehicleID)
	d.SetAddress("addr-1", decimal.NewFromInt(20))
	d.AddService(domain.Service{ID: "A", Title: "Exterior wash", Price: decimal.NewFromInt(100)})
	d.AddService(domain.Service{ID: "B", Title: "Vacuum", Price: decimal.NewFromInt(50)})
	d.SetSchedule(date, at)
	return d
}

func TestExecute_CreatesConfirmedOrder(t *testing.T) {
	repo, tm := newRepo(t)
	uc := newTestUseCase(repo, tm, schedule())

	resp, err := uc.Execute(context.Background(), &Request{
		CustomerID: "c1",
		Draft:      newDraft("v1", monday, "10:00"),
		PaymentID:  "pay_1",
	})
	require.NoError(t, err)

	created := resp.Order
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.OrderStateConfirmed, created.State)
	require.NotNil(t, created.PaymentID)
	assert.Equal(t, "pay_1", *created.PaymentID)
	assert.True(t, decimal.NewFromInt(170).Equal(created.GrandTotal))
	assert.Len(t, created.Services, 2)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", stored.VehicleID)
	assert.Equal(t, types.TimeString("10:00"), stored.ServiceTime)
	assert.True(t, decimal.NewFromInt(150).Equal(stored.TotalAmount))
}

func TestSubmit_WithoutPaymentIsPending(t *testing.T) {
	repo, tm := newRepo(t)
	uc := newTestUseCase(repo, tm, schedule())

	created, err := uc.Submit(context.Background(), "c1", newDraft("v1", monday, "10:00"), "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatePending, created.State)
	assert.Nil(t, created.PaymentID)
}

func TestExecute_DuplicateActiveOrder(t *testing.T) {
	repo, tm := newRepo(t)
	uc := newTestUseCase(repo, tm, schedule())
	ctx := context.Background()

	_, err := uc.Submit(ctx, "c1", newDraft("v1", monday, "10:00"), "pay_1")
	require.NoError(t, err)

	_, err = uc.Submit(ctx, "c1", newDraft("v1", monday, "15:00"), "pay_2")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateActiveOrder)
	assert.ErrorIs(t, err, domain.ErrDuplicateActiveOrder)

	orders, err := repo.List(ctx, "c1", nil)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestExecute_InactiveOrderDoesNotBlock(t *testing.T) {
	repo, tm := newRepo(t)
	uc := newTestUseCase(repo, tm, schedule())
	ctx := context.Background()

	first, err := uc.Submit(ctx, "c1", newDraft("v1", monday, "10:00"), "pay_1")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateState(ctx, first.ID, domain.OrderStateCompleted))

	_, err = uc.Submit(ctx, "c1", newDraft("v1", monday, "15:00"), "pay_2")
	assert.NoError(t, err)
}

func TestExecute_SlotFullyBooked(t *testing.T) {
	repo, tm := newRepo(t)
	uc := newTestUseCase(repo, tm, schedule())
	ctx := context.Background()

	_, err := uc.Submit(ctx, "c1", newDraft("v1", monday, "10:00"), "pay_1")
	require.NoError(t, err)

	_, err = uc.Submit(ctx, "c2", newDraft("v2", monday, "10:00"), "pay_2")
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.ErrorIs(t, err, domain.ErrPrecondition)

	_, err = uc.Submit(ctx, "c2", newDraft("v2", monday, "10:30"), "pay_2")
	assert.NoError(t, err)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "nil draft",
			req:     &Request{CustomerID: "c1"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "no customer",
			req:     &Request{Draft: newDraft("v1", monday, "10:00")},
			wantErr: ErrInvalidInput,
		},
		{
			name: "no services",
			req: func() *Request {
				d := newDraft("v1", monday, "10:00")
				d.RemoveService("A")
				d.RemoveService("B")
				return &Request{CustomerID: "c1", Draft: d}
			}(),
			wantErr: domain.ErrDraftNoServices,
		},
		{
			name:    "date in the past",
			req:     &Request{CustomerID: "c1", Draft: newDraft("v1", now.AddDate(0, 0, -1), "10:00")},
			wantErr: domain.ErrDraftDateInPast,
		},
		{
			name:    "too far ahead",
			req:     &Request{CustomerID: "c1", Draft: newDraft("v1", monday.AddDate(0, 0, 60), "10:00")},
			wantErr: ErrDateTooFarInFuture,
		},
		{
			name:    "closed weekday",
			req:     &Request{CustomerID: "c1", Draft: newDraft("v1", time.Date(2026, 5, 16, 0, 0, 0, 0, time.UTC), "10:00")},
			wantErr: ErrWashClosed,
		},
		{
			name:    "before opening",
			req:     &Request{CustomerID: "c1", Draft: newDraft("v1", monday, "08:30")},
			wantErr: ErrInvalidTimeSlot,
		},
		{
			name:    "ends after closing",
			req:     &Request{CustomerID: "c1", Draft: newDraft("v1", monday, "21:00")},
			wantErr: ErrInvalidTimeSlot,
		},
		{
			name:    "min notice",
			req:     &Request{CustomerID: "c1", Draft: newDraft("v1", now, "12:30")},
			wantErr: ErrTooLateToBook,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, tm := newRepo(t)
			uc := newTestUseCase(repo, tm, schedule())

			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type brokenRepo struct{ err error }

func (r *brokenRepo) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	return nil, r.err
}

func (r *brokenRepo) List(ctx context.Context, customerID string, state *domain.OrderState) ([]*domain.Order, error) {
	return nil, r.err
}

func (r *brokenRepo) ListByDate(ctx context.Context, date time.Time) ([]*domain.Order, error) {
	return nil, r.err
}

func TestExecute_RepositoryFailureIsUnavailable(t *testing.T) {
	uc := newTestUseCase(&brokenRepo{err: errors.New("connection reset")}, passthroughTx{}, schedule())

	_, err := uc.Submit(context.Background(), "c1", newDraft("v1", monday, "10:00"), "pay_1")
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestExecute_CanceledContext(t *testing.T) {
	uc := newTestUseCase(&brokenRepo{err: context.Canceled}, passthroughTx{}, schedule())

	_, err := uc.Submit(context.Background(), "c1", newDraft("v1", monday, "10:00"), "pay_1")
	assert.ErrorIs(t, err, domain.ErrCanceled)
}

func TestCheckVehicle(t *testing.T) {
	repo, tm := newRepo(t)
	uc := newTestUseCase(repo, tm, schedule())
	ctx := context.Background()

	require.NoError(t, uc.CheckVehicle(ctx, "c1", "v1"))

	_, err := uc.Submit(ctx, "c1", newDraft("v1", monday, "10:00"), "pay_1")
	require.NoError(t, err)

	err = uc.CheckVehicle(ctx, "c1", "v1")
	assert.ErrorIs(t, err, domain.ErrDuplicateActiveOrder)

	assert.NoError(t, uc.CheckVehicle(ctx, "c1", "v2"), "other vehicle is free")
	assert.NoError(t, uc.CheckVehicle(ctx, "c2", "v1"), "orders of another customer are ignored")
	assert.ErrorIs(t, uc.CheckVehicle(ctx, "c1", ""), domain.ErrValidation)
}
