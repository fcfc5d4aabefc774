package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/pkg/logger"
	"github.com/m04kA/SMC-OrderFlow/pkg/types"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fakeOrders struct {
	orders []*domain.Order
	err    error
}

func (f *fakeOrders) ListByDate(ctx context.Context, date time.Time) ([]*domain.Order, error) {
	return f.orders, f.err
}

// Sunday 2026-05-10 12:10
var now = time.Date(2026, 5, 10, 12, 10, 0, 0, time.UTC)

func newTestUseCase(repo OrderLister, schedule domain.WashSchedule) *UseCase {
	uc := NewUseCase(repo, schedule, logger.NewNop())
	uc.timeProvider = fixedTime{t: now}
	return uc
}

func schedule() domain.WashSchedule {
	return domain.WashSchedule{
		OpenTime:                "09:00",
		CloseTime:               "12:00",
		ClosedWeekdays:          []time.Weekday{time.Monday},
		SlotDurationMinutes:     30,
		Boxes:                   2,
		AdvanceBookingDays:      14,
		MinBookingNoticeMinutes: 60,
	}
}

func times(slots []Slot) []types.TimeString {
	out := make([]types.TimeString, len(slots))
	for i := range slots {
		out[i] = slots[i].StartTime
	}
	return out
}

func TestExecute_GeneratesGridWithOccupancy(t *testing.T) {
	repo := &fakeOrders{orders: []*domain.Order{
		{ServiceTime: "09:00", DurationMinutes: 60, State: domain.OrderStatePending},
		{ServiceTime: "09:30", DurationMinutes: 30, State: domain.OrderStateConfirmed},
		{ServiceTime: "11:00", DurationMinutes: 30, State: domain.OrderStateCanceled},
	}}
	uc := newTestUseCase(repo, schedule())
	tuesday := time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)

	resp, err := uc.Execute(context.Background(), &Request{Date: tuesday})
	require.NoError(t, err)

	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, times(resp.Slots))
	assert.Equal(t, 1, resp.Slots[0].AvailableSpots)
	assert.Equal(t, 0, resp.Slots[1].AvailableSpots)
	assert.Equal(t, 2, resp.Slots[2].AvailableSpots)
	assert.Equal(t, 2, resp.Slots[4].AvailableSpots, "canceled orders do not occupy a box")
	assert.Equal(t, 2, resp.Slots[0].TotalSpots)
}

func TestExecute_TodayRespectsMinNotice(t *testing.T) {
	s := schedule()
	s.CloseTime = "15:00"
	uc := newTestUseCase(&fakeOrders{}, s)

	resp, err := uc.Execute(context.Background(), &Request{Date: now})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"13:30", "14:00", "14:30"}, times(resp.Slots))
}

func TestExecute_LateEveningHasNoSlotsToday(t *testing.T) {
	s := schedule()
	s.CloseTime = "23:30"
	uc := newTestUseCase(&fakeOrders{}, s)
	uc.timeProvider = fixedTime{t: time.Date(2026, 5, 10, 23, 20, 0, 0, time.UTC)}

	resp, err := uc.Execute(context.Background(), &Request{Date: now})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ClosedWeekday(t *testing.T) {
	uc := newTestUseCase(&fakeOrders{}, schedule())
	monday := time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)

	resp, err := uc.Execute(context.Background(), &Request{Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DateValidation(t *testing.T) {
	uc := newTestUseCase(&fakeOrders{}, schedule())
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{Date: now.AddDate(0, 0, -1)})
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Execute(ctx, &Request{Date: now.AddDate(0, 0, 15)})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)

	_, err = uc.Execute(ctx, &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_RepositoryError(t *testing.T) {
	uc := newTestUseCase(&fakeOrders{err: errors.New("db down")}, schedule())

	_, err := uc.Execute(context.Background(), &Request{Date: now.AddDate(0, 0, 2)})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestAvailableSlots_MapsToDomain(t *testing.T) {
	repo := &fakeOrders{orders: []*domain.Order{
		{ServiceTime: "09:00", DurationMinutes: 30, State: domain.OrderStatePending},
		{ServiceTime: "09:00", DurationMinutes: 30, State: domain.OrderStatePending},
	}}
	uc := newTestUseCase(repo, schedule())
	tuesday := time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)

	slots, err := uc.AvailableSlots(context.Background(), tuesday)
	require.NoError(t, err)
	require.Len(t, slots, 6)
	assert.Equal(t, "2026-05-12T09:00", slots[0].ID)
	assert.False(t, slots[0].IsAvailable)
	assert.True(t, slots[0].IsFull())
	assert.True(t, slots[1].IsAvailable)
}
