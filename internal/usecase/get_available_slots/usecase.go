package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

// UseCase слоты мойки на дату с учетом занятых боксов
type UseCase struct {
	orders       OrderLister
	schedule     domain.WashSchedule
	timeProvider TimeProvider
	logger       Logger
}

func NewUseCase(orders OrderLister, schedule domain.WashSchedule, logger Logger) *UseCase {
	if schedule.SlotDurationMinutes <= 0 {
		schedule.SlotDurationMinutes = domain.SlotGranularityMinutes
	}
	if schedule.Boxes <= 0 {
		schedule.Boxes = domain.DefaultBoxes
	}
	return &UseCase{
		orders:       orders,
		schedule:     schedule,
		timeProvider: systemClock{},
		logger:       logger,
	}
}

// Execute возвращает все слоты дня, включая полностью занятые
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	date := domain.DateOnly(req.Date)
	day := date.Format(domain.DateFormat)
	now := uc.timeProvider.Now()

	// 1. Окно бронирования
	if err := checkDate(&uc.schedule, date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date=%s rejected: %v", day, err)
		return nil, err
	}

	// 2. Выходной
	if !uc.schedule.IsOpenOn(date) {
		uc.logger.Info("GetAvailableSlots: wash is closed on %s", day)
		return &Response{Date: date, Slots: []Slot{}}, nil
	}

	// 3. Сетка слотов с учетом минимального времени до начала
	starts, err := bookableStarts(&uc.schedule, date, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to build slot grid: %v", err)
		return nil, fmt.Errorf("%w: failed to build slot grid: %v", ErrInternal, err)
	}
	if len(starts) == 0 {
		return &Response{Date: date, Slots: []Slot{}}, nil
	}

	// 4. Занятость боксов
	orders, err := uc.orders.ListByDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list orders for %s: %v", day, err)
		return nil, fmt.Errorf("%w: failed to list orders: %w", ErrInternal, err)
	}

	slots := withOccupancy(&uc.schedule, starts, orders)
	uc.logger.Info("GetAvailableSlots: date=%s, slots=%d, active_orders=%d", day, len(slots), len(orders))

	return &Response{Date: date, Slots: slots}, nil
}

// AvailableSlots слоты на дату в доменной модели
func (uc *UseCase) AvailableSlots(ctx context.Context, date time.Time) ([]domain.TimeSlot, error) {
	resp, err := uc.Execute(ctx, &Request{Date: date})
	if err != nil {
		return nil, err
	}

	slots := make([]domain.TimeSlot, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, s.ToDomain(resp.Date))
	}
	return slots, nil
}
