package domain

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-OrderFlow/pkg/types"
)

// WashSchedule часы работы и вместимость мойки
type WashSchedule struct {
	OpenTime                types.TimeString
	CloseTime               types.TimeString
	ClosedWeekdays          []time.Weekday
	SlotDurationMinutes     int
	Boxes                   int // заказов одновременно
	AdvanceBookingDays      int // 0 = без ограничения
	MinBookingNoticeMinutes int
}

// IsOpenOn true, если мойка работает в указанную дату
func (s *WashSchedule) IsOpenOn(date time.Time) bool {
	for _, wd := range s.ClosedWeekdays {
		if wd == date.Weekday() {
			return false
		}
	}
	return true
}

// LastBookableDate последняя дата, доступная для бронирования.
// ok=false, если ограничения нет.
func (s *WashSchedule) LastBookableDate(now time.Time) (time.Time, bool) {
	if s.AdvanceBookingDays <= 0 {
		return time.Time{}, false
	}
	return DateOnly(now).AddDate(0, 0, s.AdvanceBookingDays), true
}

// Fits проверяет, что слот, начинающийся в start, целиком укладывается в рабочие часы
func (s *WashSchedule) Fits(start types.TimeString) bool {
	if start.IsBefore(s.OpenTime) {
		return false
	}
	end, err := start.AddMinutes(s.SlotDurationMinutes)
	return err == nil && !end.IsAfter(s.CloseTime)
}

// StartTimes начала всех слотов рабочего дня с шагом SlotDurationMinutes
func (s *WashSchedule) StartTimes() ([]types.TimeString, error) {
	if s.SlotDurationMinutes <= 0 {
		return nil, errors.New("schedule: slot duration must be positive")
	}

	var starts []types.TimeString
	for cur := s.OpenTime; s.Fits(cur); {
		starts = append(starts, cur)
		next, err := cur.AddMinutes(s.SlotDurationMinutes)
		if errors.Is(err, types.ErrTimeOverflow) {
			break
		}
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return starts, nil
}

// EarliestStart самое раннее время начала, которое еще можно забронировать на день now.
// ok=false, если с учетом MinBookingNoticeMinutes на сегодня уже ничего не успеть.
func (s *WashSchedule) EarliestStart(now time.Time) (types.TimeString, bool) {
	earliest, err := types.NewTimeString(now).AddMinutes(s.MinBookingNoticeMinutes)
	if err != nil {
		return "", false
	}
	return earliest, true
}

// CountOverlapping число активных заказов, занимающих бокс в слоте [start, start+duration)
func CountOverlapping(orders []*Order, start types.TimeString, durationMinutes int) int {
	startMinutes, err := start.Minutes()
	if err != nil {
		return 0
	}

	n := 0
	for _, o := range orders {
		if o.IsActive() && o.OverlapsWith(startMinutes, durationMinutes) {
			n++
		}
	}
	return n
}
