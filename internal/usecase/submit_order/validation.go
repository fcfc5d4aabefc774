package submit_order

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req == nil || req.Draft == nil {
		return fmt.Errorf("%w: draft is required", ErrInvalidInput)
	}

	if req.CustomerID == "" {
		return fmt.Errorf("%w: customerID is required", ErrInvalidInput)
	}

	if err := req.Draft.Validate(now); err != nil {
		return fmt.Errorf("%w: %w", ErrIncompleteDraft, err)
	}

	return nil
}

// checkSchedule проверяет, что мойка принимает заказ на date и startTime
func checkSchedule(schedule *domain.WashSchedule, date time.Time, startTime types.TimeString, now time.Time) error {
	day := date.Format(domain.DateFormat)

	if last, limited := schedule.LastBookableDate(now); limited && date.After(last) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, schedule.AdvanceBookingDays)
	}
	if !schedule.IsOpenOn(date) {
		return fmt.Errorf("%w: %s", ErrWashClosed, day)
	}
	if !schedule.Fits(startTime) {
		return fmt.Errorf("%w: %s is outside %s-%s", ErrInvalidTimeSlot, startTime, schedule.OpenTime, schedule.CloseTime)
	}

	// Минимальное время до начала действует только для сегодняшней даты
	if !date.Equal(domain.DateOnly(now)) {
		return nil
	}
	earliest, ok := schedule.EarliestStart(now)
	if !ok || startTime.IsBefore(earliest) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, schedule.MinBookingNoticeMinutes)
	}
	return nil
}

// hasActiveOrderForVehicle проверяет, есть ли у автомобиля незавершенный заказ
func hasActiveOrderForVehicle(orders []*domain.Order, vehicleID string) (*domain.Order, bool) {
	for _, order := range orders {
		if order.VehicleID == vehicleID && order.IsActive() {
			return order, true
		}
	}
	return nil, false
}

// orderLines денормализует выбранные услуги
func orderLines(services []domain.Service) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(services))
	for _, s := range services {
		lines = append(lines, domain.OrderLine{
			ServiceID: s.ID,
			Title:     s.Title,
			Price:     s.Price,
		})
	}
	return lines
}
