package booking

// State экран сценария бронирования
type State string

const (
	StateIdle      State = "idle"
	StateSelection State = "vehicle_address_service_selection"
	StateDateTime  State = "date_time_selection"
	StateSummary   State = "order_summary"
	StatePayment   State = "payment"
	StateCompleted State = "completed"
	StateCanceled  State = "canceled"
)

// IsActive true, пока существует черновик
func (s State) IsActive() bool {
	switch s {
	case StateSelection, StateDateTime, StateSummary, StatePayment:
		return true
	}
	return false
}

// backTarget предыдущий экран для перехода "назад"
func (s State) backTarget() (State, bool) {
	switch s {
	case StatePayment:
		return StateSummary, true
	case StateSummary:
		return StateDateTime, true
	case StateDateTime:
		return StateSelection, true
	}
	return "", false
}

// Pending операция, ожидающая ответа внешнего сервиса
type Pending string

const (
	PendingNone               Pending = ""
	PendingStarting           Pending = "starting"
	PendingSelectingAddress   Pending = "selecting_address"
	PendingAddingService      Pending = "adding_service"
	PendingLoadingSlots       Pending = "loading_slots"
	PendingConfirmingDateTime Pending = "confirming_datetime"
	PendingPaying             Pending = "paying"
)
