package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/pkg/types"
)

// checkDate дата не в прошлом и не дальше окна бронирования
func checkDate(schedule *domain.WashSchedule, date, now time.Time) error {
	if date.Before(domain.DateOnly(now)) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, date.Format(domain.DateFormat))
	}
	if last, limited := schedule.LastBookableDate(now); limited && date.After(last) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, schedule.AdvanceBookingDays)
	}
	return nil
}

// bookableStarts начала слотов, которые еще можно забронировать на дату.
// Для сегодняшней даты отбрасываются слоты раньше now + MinBookingNoticeMinutes.
func bookableStarts(schedule *domain.WashSchedule, date, now time.Time) ([]types.TimeString, error) {
	starts, err := schedule.StartTimes()
	if err != nil {
		return nil, err
	}
	if !date.Equal(domain.DateOnly(now)) {
		return starts, nil
	}

	earliest, ok := schedule.EarliestStart(now)
	if !ok {
		return nil, nil
	}
	kept := starts[:0]
	for _, s := range starts {
		if !s.IsBefore(earliest) {
			kept = append(kept, s)
		}
	}
	return kept, nil
}

// withOccupancy считает свободные боксы для каждого слота
func withOccupancy(schedule *domain.WashSchedule, starts []types.TimeString, orders []*domain.Order) []Slot {
	slots := make([]Slot, 0, len(starts))
	for _, start := range starts {
		free := schedule.Boxes - domain.CountOverlapping(orders, start, schedule.SlotDurationMinutes)
		slots = append(slots, Slot{
			StartTime:       start,
			DurationMinutes: schedule.SlotDurationMinutes,
			AvailableSpots:  max(free, 0),
			TotalSpots:      schedule.Boxes,
		})
	}
	return slots
}
