package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OrderFlow/pkg/types"
)

func testSchedule() WashSchedule {
	return WashSchedule{
		OpenTime:                "09:00",
		CloseTime:               "11:00",
		ClosedWeekdays:          []time.Weekday{time.Saturday},
		SlotDurationMinutes:     30,
		Boxes:                   2,
		AdvanceBookingDays:      7,
		MinBookingNoticeMinutes: 90,
	}
}

func TestWashSchedule_StartTimes(t *testing.T) {
	s := testSchedule()

	starts, err := s.StartTimes()
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:00", "10:30"}, starts)

	s.SlotDurationMinutes = 0
	_, err = s.StartTimes()
	assert.Error(t, err)
}

func TestWashSchedule_Fits(t *testing.T) {
	s := testSchedule()

	assert.True(t, s.Fits("09:00"))
	assert.True(t, s.Fits("10:30"))
	assert.False(t, s.Fits("10:45"), "slot would end after closing")
	assert.False(t, s.Fits("08:30"))
}

func TestWashSchedule_LastBookableDate(t *testing.T) {
	s := testSchedule()
	now := time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)

	last, limited := s.LastBookableDate(now)
	require.True(t, limited)
	assert.Equal(t, time.Date(2026, 5, 17, 0, 0, 0, 0, time.UTC), last)

	s.AdvanceBookingDays = 0
	_, limited = s.LastBookableDate(now)
	assert.False(t, limited)
}

func TestWashSchedule_EarliestStart(t *testing.T) {
	s := testSchedule()

	earliest, ok := s.EarliestStart(time.Date(2026, 5, 10, 8, 15, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, types.TimeString("09:45"), earliest)

	_, ok = s.EarliestStart(time.Date(2026, 5, 10, 23, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestCountOverlapping(t *testing.T) {
	orders := []*Order{
		{ServiceTime: "09:00", DurationMinutes: 60, State: OrderStatePending},
		{ServiceTime: "09:30", DurationMinutes: 30, State: OrderStateInProgress},
		{ServiceTime: "09:30", DurationMinutes: 30, State: OrderStateCanceled},
	}

	assert.Equal(t, 2, CountOverlapping(orders, "09:30", 30))
	assert.Equal(t, 1, CountOverlapping(orders, "09:00", 30))
	assert.Equal(t, 0, CountOverlapping(orders, "10:00", 30))
}
