package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/pkg/types"
)

// Dependencies внешние сервисы сценария бронирования
type Dependencies struct {
	Vehicles     VehicleProvider
	Addresses    AddressProvider
	Catalog      ServiceCatalog
	Slots        TimeSlotProvider
	TravelFees   TravelFeeQuoter
	Payments     PaymentGateway
	Submitter    OrderSubmitter
	TimeProvider TimeProvider
	Metrics      Metrics
	Logger       Logger
	Currency     string
}

// Snapshot состояние сценария для отображения клиенту
type Snapshot struct {
	CustomerID string
	State      State
	Pending    Pending
	Draft      *domain.OrderDraft
	Vehicles   []domain.Vehicle
	SlotsDate  time.Time
	Slots      []domain.TimeSlot
	Receipt    *domain.PaymentReceipt
	Order      *domain.Order
	UpdatedAt  time.Time
}

// Workflow сценарий бронирования одного клиента.
// Владеет единственным OrderDraft; на время вызова внешних сервисов блокировка снимается.
type Workflow struct {
	mu         sync.Mutex
	customerID string
	deps       Dependencies

	state      State
	pending    Pending
	generation uint64

	draft     *domain.OrderDraft
	vehicles  []domain.Vehicle
	slotsDate time.Time
	slots     []domain.TimeSlot
	receipt   *domain.PaymentReceipt
	order     *domain.Order
	updatedAt time.Time
}

// NewWorkflow создает сценарий в состоянии Idle
func NewWorkflow(customerID string, deps Dependencies) *Workflow {
	if deps.TimeProvider == nil {
		deps.TimeProvider = &RealTimeProvider{}
	}
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	if deps.Currency == "" {
		deps.Currency = domain.DefaultCurrency
	}
	return &Workflow{
		customerID: customerID,
		deps:       deps,
		state:      StateIdle,
		updatedAt:  deps.TimeProvider.Now(),
	}
}

// CustomerID владелец сценария
func (w *Workflow) CustomerID() string {
	return w.customerID
}

// Start начинает новое бронирование: загружает автомобили клиента и создает пустой черновик
func (w *Workflow) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.customerID == "" {
		w.mu.Unlock()
		return ErrNotAuthenticated
	}
	if w.pending != PendingNone {
		w.mu.Unlock()
		return ErrOperationInProgress
	}
	if w.state.IsActive() {
		w.mu.Unlock()
		return ErrDraftInProgress
	}
	from := w.state
	gen := w.beginLocked(PendingStarting)
	w.mu.Unlock()

	vehicles, err := w.deps.Vehicles.ListVehicles(ctx, w.customerID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.finishLocked(gen) {
		return ErrCanceled
	}
	if err != nil {
		w.deps.Logger.Error("Start: failed to list vehicles for customer=%s: %v", w.customerID, err)
		return fmt.Errorf("%w: ListVehicles: %v", ErrCollaborator, err)
	}
	if len(vehicles) == 0 {
		return w.rejectLocked(from, StateSelection, "customer has no vehicles", nil)
	}

	w.draft = domain.NewOrderDraft(ulid.Make().String(), w.deps.Currency, w.deps.TimeProvider.Now())
	w.vehicles = vehicles
	w.slots = nil
	w.slotsDate = time.Time{}
	w.receipt = nil
	w.order = nil
	w.moveLocked(StateSelection)
	w.deps.Logger.Info("Start: customer=%s started draft=%s", w.customerID, w.draft.ID())
	return nil
}

// SelectVehicle выбирает автомобиль; смена автомобиля сбрасывает адрес и услуги
func (w *Workflow) SelectVehicle(vehicleID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireLocked(StateSelection); err != nil {
		return err
	}
	if !w.ownsVehicleLocked(vehicleID) {
		return ErrUnknownVehicle
	}
	if w.draft.SetVehicle(vehicleID) {
		w.deps.Logger.Info("SelectVehicle: customer=%s switched to vehicle=%s, address and services cleared", w.customerID, vehicleID)
	}
	w.touchLocked()
	return nil
}

// SelectAddress выбирает адрес и запрашивает стоимость выезда
func (w *Workflow) SelectAddress(ctx context.Context, addressID string) error {
	w.mu.Lock()
	if err := w.requireLocked(StateSelection); err != nil {
		w.mu.Unlock()
		return err
	}
	if w.draft.VehicleID() == "" {
		err := w.rejectLocked(StateSelection, StateSelection, "select a vehicle first", domain.ErrDraftNoVehicle)
		w.mu.Unlock()
		return err
	}
	gen := w.beginLocked(PendingSelectingAddress)
	w.mu.Unlock()

	address, fee, err := w.quoteAddress(ctx, addressID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.finishLocked(gen) {
		return ErrCanceled
	}
	if err != nil {
		return err
	}
	w.draft.SetAddress(address.ID, fee)
	w.touchLocked()
	return nil
}

func (w *Workflow) quoteAddress(ctx context.Context, addressID string) (domain.Address, decimal.Decimal, error) {
	addresses, err := w.deps.Addresses.ListAddresses(ctx, w.customerID)
	if err != nil {
		w.deps.Logger.Error("SelectAddress: failed to list addresses for customer=%s: %v", w.customerID, err)
		return domain.Address{}, decimal.Zero, fmt.Errorf("%w: ListAddresses: %v", ErrCollaborator, err)
	}

	var address *domain.Address
	for i := range addresses {
		if addresses[i].ID == addressID {
			address = &addresses[i]
			break
		}
	}
	if address == nil {
		return domain.Address{}, decimal.Zero, ErrUnknownAddress
	}

	fee, err := w.deps.TravelFees.Quote(ctx, *address)
	if err != nil {
		w.deps.Logger.Error("SelectAddress: failed to quote travel fee for address=%s: %v", addressID, err)
		return domain.Address{}, decimal.Zero, fmt.Errorf("%w: QuoteTravelFee: %v", ErrCollaborator, err)
	}
	return *address, fee, nil
}

// AddService добавляет услугу из каталога; повторное добавление ничего не меняет
func (w *Workflow) AddService(ctx context.Context, serviceID string) error {
	w.mu.Lock()
	if err := w.requireLocked(StateSelection); err != nil {
		w.mu.Unlock()
		return err
	}
	if w.draft.VehicleID() == "" {
		err := w.rejectLocked(StateSelection, StateSelection, "select a vehicle first", domain.ErrDraftNoVehicle)
		w.mu.Unlock()
		return err
	}
	gen := w.beginLocked(PendingAddingService)
	w.mu.Unlock()

	services, err := w.deps.Catalog.ListServices(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.finishLocked(gen) {
		return ErrCanceled
	}
	if err != nil {
		w.deps.Logger.Error("AddService: failed to list services: %v", err)
		return fmt.Errorf("%w: ListServices: %v", ErrCollaborator, err)
	}
	for _, s := range services {
		if s.ID == serviceID {
			w.draft.AddService(s)
			w.touchLocked()
			return nil
		}
	}
	return ErrUnknownService
}

// RemoveService убирает услугу; доступно только на экране выбора
func (w *Workflow) RemoveService(serviceID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireLocked(StateSelection); err != nil {
		return err
	}
	if !w.draft.RemoveService(serviceID) {
		return ErrServiceNotSelected
	}
	w.touchLocked()
	return nil
}

// ProceedToDateTime переход к выбору даты и времени
func (w *Workflow) ProceedToDateTime() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireTransitionLocked(StateSelection, StateDateTime); err != nil {
		return err
	}
	if err := w.draft.ValidateSelection(); err != nil {
		return w.rejectLocked(StateSelection, StateDateTime, err.Error(), err)
	}
	w.moveLocked(StateDateTime)
	return nil
}

// AvailableSlots загружает слоты на дату для экрана выбора времени
func (w *Workflow) AvailableSlots(ctx context.Context, date time.Time) ([]domain.TimeSlot, error) {
	w.mu.Lock()
	if err := w.requireLocked(StateDateTime); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	day := domain.DateOnly(date)
	if day.Before(domain.DateOnly(w.deps.TimeProvider.Now())) {
		w.mu.Unlock()
		return nil, ErrInvalidDate
	}
	gen := w.beginLocked(PendingLoadingSlots)
	w.mu.Unlock()

	slots, err := w.deps.Slots.AvailableSlots(ctx, day)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.finishLocked(gen) {
		return nil, ErrCanceled
	}
	if err != nil {
		w.deps.Logger.Error("AvailableSlots: failed to load slots for date=%s: %v", day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: AvailableSlots: %v", ErrCollaborator, err)
	}
	w.slotsDate = day
	w.slots = slots
	w.touchLocked()
	return cloneSlots(slots), nil
}

// ConfirmDateTime проверяет, что слот свободен, сохраняет дату и время и переходит к сводке
func (w *Workflow) ConfirmDateTime(ctx context.Context, date time.Time, slotTime types.TimeString) error {
	if err := slotTime.Validate(); err != nil || !slotTime.IsOnGrid(domain.SlotGranularityMinutes) {
		return ErrInvalidTime
	}

	w.mu.Lock()
	if err := w.requireTransitionLocked(StateDateTime, StateSummary); err != nil {
		w.mu.Unlock()
		return err
	}
	day := domain.DateOnly(date)
	if day.Before(domain.DateOnly(w.deps.TimeProvider.Now())) {
		err := w.rejectLocked(StateDateTime, StateSummary, "date is in the past", ErrInvalidDate)
		w.mu.Unlock()
		return err
	}
	gen := w.beginLocked(PendingConfirmingDateTime)
	w.mu.Unlock()

	slots, err := w.deps.Slots.AvailableSlots(ctx, day)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.finishLocked(gen) {
		return ErrCanceled
	}
	if err != nil {
		w.deps.Logger.Error("ConfirmDateTime: failed to load slots for date=%s: %v", day.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: AvailableSlots: %v", ErrCollaborator, err)
	}
	w.slotsDate = day
	w.slots = slots

	if !slotAvailable(slots, slotTime) {
		return w.rejectLocked(StateDateTime, StateSummary,
			fmt.Sprintf("slot %s on %s is not available", slotTime, day.Format(domain.DateFormat)), nil)
	}

	w.draft.SetSchedule(day, slotTime)
	w.moveLocked(StateSummary)
	return nil
}

// ProceedToPayment переход от сводки к оплате
func (w *Workflow) ProceedToPayment() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireTransitionLocked(StateSummary, StatePayment); err != nil {
		return err
	}
	if err := w.draft.Validate(w.deps.TimeProvider.Now()); err != nil {
		return w.rejectLocked(StateSummary, StatePayment, err.Error(), err)
	}
	w.moveLocked(StatePayment)
	return nil
}

// Pay списывает оплату и отправляет заказ.
// Списанный платеж сохраняется: повтор после неудачной отправки не списывает ту же сумму второй раз.
func (w *Workflow) Pay(ctx context.Context, card domain.Card) (*domain.Order, error) {
	w.mu.Lock()
	if err := w.requireTransitionLocked(StatePayment, StateCompleted); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if err := w.draft.Validate(w.deps.TimeProvider.Now()); err != nil {
		err = w.rejectLocked(StatePayment, StateCompleted, err.Error(), err)
		w.mu.Unlock()
		return nil, err
	}
	draft := w.draft.Clone()
	receipt := w.receipt
	if receipt != nil && !receipt.Amount.Equal(draft.GrandTotal()) {
		w.deps.Logger.Warn("Pay: payment=%s of %s does not cover draft=%s total %s, charging again",
			receipt.ID, receipt.Amount.StringFixed(2), draft.ID(), draft.GrandTotal().StringFixed(2))
		w.receipt = nil
		receipt = nil
	}
	gen := w.beginLocked(PendingPaying)
	w.mu.Unlock()

	// 1. Активный заказ на автомобиль проверяем до списания
	if receipt == nil {
		if err := w.deps.Submitter.CheckVehicle(ctx, w.customerID, draft.VehicleID()); err != nil {
			w.mu.Lock()
			defer w.mu.Unlock()
			if !w.finishLocked(gen) {
				return nil, ErrCanceled
			}
			w.deps.Logger.Warn("Pay: customer=%s draft=%s refused before charge: %v", w.customerID, draft.ID(), err)
			return nil, fmt.Errorf("booking: check vehicle: %w", err)
		}
	}

	// 2. Списываем оплату, если эта сумма еще не списана
	if receipt == nil {
		charged, err := w.deps.Payments.Charge(ctx, w.customerID, draft.GrandTotal(), draft.Currency(), card)

		w.mu.Lock()
		if !w.isCurrentLocked(gen) {
			w.mu.Unlock()
			if err == nil {
				w.deps.Logger.Warn("Pay: payment=%s for customer=%s captured after cancel", charged.ID, w.customerID)
			}
			return nil, ErrCanceled
		}
		if err != nil {
			w.pending = PendingNone
			w.mu.Unlock()
			w.deps.Logger.Error("Pay: charge failed for customer=%s draft=%s: %v", w.customerID, draft.ID(), err)
			return nil, fmt.Errorf("%w: Charge: %v", ErrPaymentFailed, err)
		}
		w.receipt = charged
		receipt = charged
		w.mu.Unlock()
	}

	// 3. Отправляем заказ
	order, err := w.deps.Submitter.Submit(ctx, w.customerID, draft, receipt.ID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.finishLocked(gen) {
		if err == nil {
			w.deps.Logger.Warn("Pay: order=%s for customer=%s submitted after cancel", order.ID, w.customerID)
		}
		return nil, ErrCanceled
	}
	if err != nil {
		w.deps.Logger.Warn("Pay: submission failed for customer=%s draft=%s, draft kept: %v", w.customerID, draft.ID(), err)
		return nil, fmt.Errorf("booking: submit order: %w", err)
	}

	w.order = order
	w.draft = nil
	w.receipt = nil
	w.slots = nil
	w.moveLocked(StateCompleted)
	w.deps.Logger.Info("Pay: customer=%s completed order=%s", w.customerID, order.ID)
	return cloneOrder(order), nil
}

// Back возвращает на предыдущий экран; черновик не меняется
func (w *Workflow) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != PendingNone {
		return ErrOperationInProgress
	}
	to, ok := w.state.backTarget()
	if !ok {
		return w.rejectLocked(w.state, w.state, "no previous step", nil)
	}
	w.moveLocked(to)
	return nil
}

// Cancel прерывает бронирование и удаляет черновик.
// Ответы операций, которые еще выполняются, отбрасываются.
func (w *Workflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.state.IsActive() {
		if w.pending == PendingStarting {
			w.generation++
			w.pending = PendingNone
			w.touchLocked()
			return nil
		}
		return w.rejectLocked(w.state, StateCanceled, "no active booking", nil)
	}

	if w.receipt != nil {
		w.deps.Logger.Warn("Cancel: customer=%s cancels with captured payment=%s", w.customerID, w.receipt.ID)
	}
	w.generation++
	w.pending = PendingNone
	w.draft = nil
	w.receipt = nil
	w.slots = nil
	w.slotsDate = time.Time{}
	w.moveLocked(StateCanceled)
	return nil
}

// Snapshot копия текущего состояния
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		CustomerID: w.customerID,
		State:      w.state,
		Pending:    w.pending,
		Draft:      w.draft.Clone(),
		Vehicles:   append([]domain.Vehicle(nil), w.vehicles...),
		SlotsDate:  w.slotsDate,
		Slots:      cloneSlots(w.slots),
		Order:      cloneOrder(w.order),
		UpdatedAt:  w.updatedAt,
	}
	if w.receipt != nil {
		r := *w.receipt
		snap.Receipt = &r
	}
	return snap
}

// IsBusy true, пока выполняется вызов внешнего сервиса
func (w *Workflow) IsBusy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending != PendingNone
}

// UpdatedAt время последнего изменения
func (w *Workflow) UpdatedAt() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updatedAt
}

func (w *Workflow) requireLocked(state State) error {
	if w.pending != PendingNone {
		return ErrOperationInProgress
	}
	if w.state != state {
		return w.rejectLocked(w.state, state, fmt.Sprintf("operation requires %s", state), nil)
	}
	return nil
}

func (w *Workflow) requireTransitionLocked(from, to State) error {
	if w.pending != PendingNone {
		return ErrOperationInProgress
	}
	if w.state != from {
		return w.rejectLocked(w.state, to, fmt.Sprintf("transition is allowed only from %s", from), nil)
	}
	return nil
}

func (w *Workflow) beginLocked(op Pending) uint64 {
	w.pending = op
	return w.generation
}

// finishLocked снимает ожидающую операцию; false означает, что бронирование
// уже отменено и результат нужно отбросить
func (w *Workflow) finishLocked(gen uint64) bool {
	if !w.isCurrentLocked(gen) {
		return false
	}
	w.pending = PendingNone
	return true
}

func (w *Workflow) isCurrentLocked(gen uint64) bool {
	return gen == w.generation
}

func (w *Workflow) moveLocked(to State) {
	from := w.state
	w.state = to
	w.touchLocked()
	w.deps.Metrics.RecordTransition(string(from), string(to))
}

func (w *Workflow) rejectLocked(from, to State, reason string, cause error) error {
	w.deps.Metrics.RecordRejection(string(from), string(to))
	w.deps.Logger.Warn("booking: customer=%s rejected %s -> %s: %s", w.customerID, from, to, reason)
	return &GuardError{From: from, To: to, Reason: reason, Err: cause}
}

func (w *Workflow) touchLocked() {
	w.updatedAt = w.deps.TimeProvider.Now()
}

func (w *Workflow) ownsVehicleLocked(vehicleID string) bool {
	for _, v := range w.vehicles {
		if v.ID == vehicleID {
			return true
		}
	}
	return false
}

func slotAvailable(slots []domain.TimeSlot, t types.TimeString) bool {
	for _, s := range slots {
		if s.Time == t {
			return s.IsAvailable
		}
	}
	return false
}

func cloneSlots(slots []domain.TimeSlot) []domain.TimeSlot {
	if slots == nil {
		return nil
	}
	return append([]domain.TimeSlot(nil), slots...)
}

func cloneOrder(o *domain.Order) *domain.Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Services = append([]domain.OrderLine(nil), o.Services...)
	return &c
}

type nopMetrics struct{}

func (nopMetrics) RecordTransition(string, string) {}
func (nopMetrics) RecordRejection(string, string)  {}
