package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OrderFlow/pkg/types"
)

// OrderState represents the state of a persisted order
type OrderState string

const (
	OrderStatePending    OrderState = "pending"
	OrderStateConfirmed  OrderState = "confirmed"
	OrderStateInProgress OrderState = "in_progress"
	OrderStateCompleted  OrderState = "completed"
	OrderStateCanceled   OrderState = "canceled"
)

// IsValid checks the state value
func (s OrderState) IsValid() bool {
	switch s {
	case OrderStatePending, OrderStateConfirmed, OrderStateInProgress,
		OrderStateCompleted, OrderStateCanceled:
		return true
	}
	return false
}

// OrderLine a service as it was priced at submission time
type OrderLine struct {
	ServiceID string          `json:"service_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
}

// Order represents a submitted wash order
type Order struct {
	ID              string
	CustomerID      string
	VehicleID       string
	AddressID       string
	Services        []OrderLine
	ServiceDate     time.Time
	ServiceTime     types.TimeString
	DurationMinutes int

	TotalAmount decimal.Decimal
	TravelFee   decimal.Decimal
	GrandTotal  decimal.Decimal
	Currency    string

	State     OrderState
	PaymentID *string

	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the order still occupies its vehicle and slot
func (o *Order) IsActive() bool {
	return o.State != OrderStateCompleted && o.State != OrderStateCanceled
}

// CanBeCancelled returns true if the order can be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.State == OrderStatePending || o.State == OrderStateConfirmed
}

// IsCancelled returns true if the order has been cancelled
func (o *Order) IsCancelled() bool {
	return o.State == OrderStateCanceled
}

// CanTransitionTo checks the operator state machine:
// pending -> confirmed -> in_progress -> completed, cancel from pending/confirmed
func (o *Order) CanTransitionTo(next OrderState) bool {
	switch next {
	case OrderStateConfirmed:
		return o.State == OrderStatePending
	case OrderStateInProgress:
		return o.State == OrderStateConfirmed
	case OrderStateCompleted:
		return o.State == OrderStateInProgress
	case OrderStateCanceled:
		return o.CanBeCancelled()
	}
	return false
}

// OverlapsWith returns true if the order occupies the slot starting at slotStart
// lasting slotMinutes on the order's date
func (o *Order) OverlapsWith(slotStartMinutes, slotMinutes int) bool {
	start, err := o.ServiceTime.Minutes()
	if err != nil {
		return false
	}
	duration := o.DurationMinutes
	if duration <= 0 {
		duration = SlotGranularityMinutes
	}
	end := start + duration
	return start < slotStartMinutes+slotMinutes && slotStartMinutes < end
}

// CustomerOrdersFilter фильтр для истории заказов клиента
type CustomerOrdersFilter struct {
	CustomerID string      // Обязательный параметр
	State      *OrderState // Фильтр по состоянию (опционально)
}
