package submit_order

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

// UseCase use case для оформления заказа из черновика
type UseCase struct {
	orderRepo    OrderRepository
	txManager    TransactionManager
	schedule     domain.WashSchedule
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	orderRepo OrderRepository,
	txManager TransactionManager,
	schedule domain.WashSchedule,
	logger Logger,
) *UseCase {
	if schedule.SlotDurationMinutes <= 0 {
		schedule.SlotDurationMinutes = domain.SlotGranularityMinutes
	}
	if schedule.Boxes <= 0 {
		schedule.Boxes = domain.DefaultBoxes
	}
	return &UseCase{
		orderRepo:    orderRepo,
		txManager:    txManager,
		schedule:     schedule,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case оформления заказа
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	now := uc.timeProvider.Now()

	// 1. Валидация черновика
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("SubmitOrder: validation failed: %v", err)
		return nil, err
	}

	draft := req.Draft
	date := domain.DateOnly(draft.ServiceDate())
	startTime := draft.ServiceTime()

	uc.logger.Info("SubmitOrder: customerID=%s, vehicleID=%s, date=%s, time=%s",
		req.CustomerID, draft.VehicleID(), date.Format(domain.DateFormat), startTime)

	// 2. Проверка расписания мойки
	if err := checkSchedule(&uc.schedule, date, startTime, now); err != nil {
		uc.logger.Warn("SubmitOrder: schedule check failed: %v", err)
		return nil, err
	}

	// 3. Собираем заказ
	state := domain.OrderStatePending
	var paymentID *string
	if req.PaymentID != "" {
		state = domain.OrderStateConfirmed
		id := req.PaymentID
		paymentID = &id
	}

	order := &domain.Order{
		CustomerID:      req.CustomerID,
		VehicleID:       draft.VehicleID(),
		AddressID:       draft.AddressID(),
		Services:        orderLines(draft.Services()),
		ServiceDate:     date,
		ServiceTime:     startTime,
		DurationMinutes: uc.schedule.SlotDurationMinutes,
		TotalAmount:     draft.TotalAmount(),
		TravelFee:       draft.TravelFee(),
		GrandTotal:      draft.GrandTotal(),
		Currency:        draft.Currency(),
		State:           state,
		PaymentID:       paymentID,
	}

	// 4. Проверки и создание в SERIALIZABLE транзакции
	var created *domain.Order
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Один активный заказ на автомобиль
		customerOrders, err := uc.orderRepo.List(txCtx, req.CustomerID, nil)
		if err != nil {
			return fmt.Errorf("%w: failed to list customer orders: %w", ErrInternal, err)
		}
		if existing, ok := hasActiveOrderForVehicle(customerOrders, order.VehicleID); ok {
			return fmt.Errorf("%w: vehicle %s already has order %s", ErrDuplicateActiveOrder, order.VehicleID, existing.ID)
		}

		// 4.2. Свободные боксы на выбранное время
		dayOrders, err := uc.orderRepo.ListByDate(txCtx, date)
		if err != nil {
			return fmt.Errorf("%w: failed to list orders by date: %w", ErrInternal, err)
		}
		if occupied := domain.CountOverlapping(dayOrders, startTime, uc.schedule.SlotDurationMinutes); occupied >= uc.schedule.Boxes {
			return fmt.Errorf("%w: all %d boxes are occupied at %s", ErrSlotNotAvailable, uc.schedule.Boxes, startTime)
		}

		// 4.3. Создаем заказ
		created, err = uc.orderRepo.Create(txCtx, order)
		if err != nil {
			return fmt.Errorf("%w: failed to create order: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCanceled), errors.Is(err, context.Canceled):
			uc.logger.Warn("SubmitOrder: canceled: %v", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrCanceled, err)
		case errors.Is(err, domain.ErrDuplicateActiveOrder), errors.Is(err, ErrSlotNotAvailable), errors.Is(err, ErrInvalidTimeSlot):
			uc.logger.Warn("SubmitOrder: rejected: %v", err)
			return nil, err
		case errors.Is(err, ErrInternal):
			uc.logger.Error("SubmitOrder: %v", err)
			return nil, err
		default:
			uc.logger.Error("SubmitOrder: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("SubmitOrder: created order id=%s, state=%s, total=%s %s",
		created.ID, created.State, created.GrandTotal.StringFixed(2), created.Currency)

	return &Response{Order: created}, nil
}

// Submit оформляет заказ по черновику процесса бронирования
func (uc *UseCase) Submit(ctx context.Context, customerID string, draft *domain.OrderDraft, paymentID string) (*domain.Order, error) {
	resp, err := uc.Execute(ctx, &Request{
		CustomerID: customerID,
		Draft:      draft,
		PaymentID:  paymentID,
	})
	if err != nil {
		return nil, err
	}
	return resp.Order, nil
}

// CheckVehicle проверяет до оплаты, что у автомобиля нет активного заказа.
// Та же проверка повторяется в транзакции Execute.
func (uc *UseCase) CheckVehicle(ctx context.Context, customerID, vehicleID string) error {
	if customerID == "" || vehicleID == "" {
		return fmt.Errorf("%w: customer and vehicle are required", ErrInvalidInput)
	}

	customerOrders, err := uc.orderRepo.List(ctx, customerID, nil)
	if err != nil {
		uc.logger.Error("CheckVehicle: failed to list orders for customer=%s: %v", customerID, err)
		return fmt.Errorf("%w: failed to list customer orders: %w", ErrInternal, err)
	}
	if existing, ok := hasActiveOrderForVehicle(customerOrders, vehicleID); ok {
		uc.logger.Warn("CheckVehicle: vehicle=%s already has active order=%s", vehicleID, existing.ID)
		return fmt.Errorf("%w: vehicle %s already has order %s", ErrDuplicateActiveOrder, vehicleID, existing.ID)
	}
	return nil
}
