package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

var (
	// ErrInvalidState возвращается при некорректном состоянии заказа
	ErrInvalidState = errors.New("invalid order state")
)

// Request модели

// GetCustomerOrdersRequest запрос на получение истории заказов клиента
type GetCustomerOrdersRequest struct {
	CustomerID string  `json:"customerId"`
	State      *string `json:"state,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetCustomerOrdersRequest) ToDomainFilter() (domain.CustomerOrdersFilter, error) {
	filter := domain.CustomerOrdersFilter{CustomerID: r.CustomerID}

	if r.State != nil {
		state, err := ToDomainOrderState(*r.State)
		if err != nil {
			return filter, err
		}
		filter.State = &state
	}

	return filter, nil
}

// UpdateStateRequest запрос на смену состояния заказа оператором
type UpdateStateRequest struct {
	OperatorID string `json:"operatorId"`
	State      string `json:"state"`
}

// Response модели

// OrderLineResponse позиция заказа
type OrderLineResponse struct {
	ServiceID string          `json:"serviceId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
}

// OrderResponse ответ с данными заказа
type OrderResponse struct {
	ID              string              `json:"id"`
	CustomerID      string              `json:"customerId"`
	VehicleID       string              `json:"vehicleId"`
	AddressID       string              `json:"addressId"`
	Services        []OrderLineResponse `json:"services"`
	ServiceDate     string              `json:"serviceDate"` // "2026-05-11"
	ServiceTime     string              `json:"serviceTime"` // "10:00"
	DurationMinutes int                 `json:"durationMinutes"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	TravelFee       decimal.Decimal     `json:"travelFee"`
	GrandTotal      decimal.Decimal     `json:"grandTotal"`
	Currency        string              `json:"currency"`
	State           string              `json:"state"`
	PaymentID       *string             `json:"paymentId,omitempty"`
	CancelledAt     *string             `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderListResponse ответ со списком заказов
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

// Методы конвертации

// FromDomainOrder конвертирует domain модель в DTO
func FromDomainOrder(o *domain.Order) *OrderResponse {
	if o == nil {
		return nil
	}

	lines := make([]OrderLineResponse, 0, len(o.Services))
	for _, l := range o.Services {
		lines = append(lines, OrderLineResponse{
			ServiceID: l.ServiceID,
			Title:     l.Title,
			Price:     l.Price,
		})
	}

	resp := &OrderResponse{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		VehicleID:       o.VehicleID,
		AddressID:       o.AddressID,
		Services:        lines,
		ServiceDate:     o.ServiceDate.Format(domain.DateFormat),
		ServiceTime:     o.ServiceTime.String(),
		DurationMinutes: o.DurationMinutes,
		TotalAmount:     o.TotalAmount,
		TravelFee:       o.TravelFee,
		GrandTotal:      o.GrandTotal,
		Currency:        o.Currency,
		State:           string(o.State),
		PaymentID:       o.PaymentID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}

	if o.CancelledAt != nil {
		cancelledStr := o.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainOrderList конвертирует список domain моделей в DTO
func FromDomainOrderList(orders []*domain.Order) *OrderListResponse {
	resp := &OrderListResponse{
		Orders: make([]OrderResponse, 0, len(orders)),
	}

	for _, o := range orders {
		resp.Orders = append(resp.Orders, *FromDomainOrder(o))
	}

	return resp
}

// ToDomainOrderState конвертирует строку в domain.OrderState
func ToDomainOrderState(s string) (domain.OrderState, error) {
	state := domain.OrderState(s)
	if !state.IsValid() {
		return "", ErrInvalidState
	}
	return state, nil
}
