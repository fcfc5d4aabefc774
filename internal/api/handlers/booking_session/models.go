package booking_session

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/internal/service/booking"
	"github.com/m04kA/SMC-OrderFlow/internal/service/orders/models"
)

// SelectVehicleRequest PUT /booking/vehicle
type SelectVehicleRequest struct {
	VehicleID string `json:"vehicleId"`
}

// SelectAddressRequest PUT /booking/address
type SelectAddressRequest struct {
	AddressID string `json:"addressId"`
}

// ConfirmDateTimeRequest POST /booking/datetime
type ConfirmDateTimeRequest struct {
	Date string `json:"date"` // "2026-05-11"
	Time string `json:"time"` // "10:30"
}

// PayRequest POST /booking/payment
type PayRequest struct {
	CardID string `json:"cardId"`
	Holder string `json:"holder"`
	Last4  string `json:"last4"`
}

// ToDomain конвертирует запрос в карту оплаты
func (r *PayRequest) ToDomain() domain.Card {
	return domain.Card{ID: r.CardID, Holder: r.Holder, Last4: r.Last4}
}

// ServiceResponse выбранная услуга
type ServiceResponse struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

// DraftResponse черновик заказа
type DraftResponse struct {
	ID          string            `json:"id"`
	VehicleID   string            `json:"vehicleId,omitempty"`
	AddressID   string            `json:"addressId,omitempty"`
	Services    []ServiceResponse `json:"services"`
	ServiceDate string            `json:"serviceDate,omitempty"`
	ServiceTime string            `json:"serviceTime,omitempty"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
	TravelFee   decimal.Decimal   `json:"travelFee"`
	GrandTotal  decimal.Decimal   `json:"grandTotal"`
	Currency    string            `json:"currency"`
}

// VehicleResponse автомобиль клиента
type VehicleResponse struct {
	ID    string `json:"id"`
	Brand string `json:"brand"`
	Model string `json:"model"`
	Plate string `json:"plate"`
}

// SlotResponse временной слот
type SlotResponse struct {
	ID             string `json:"id"`
	Time           string `json:"time"`
	IsAvailable    bool   `json:"isAvailable"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
}

// ReceiptResponse квитанция об оплате
type ReceiptResponse struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	PaidAt time.Time       `json:"paidAt"`
}

// SessionResponse состояние бронирования
type SessionResponse struct {
	State     string                `json:"state"`
	Pending   string                `json:"pending,omitempty"`
	Draft     *DraftResponse        `json:"draft,omitempty"`
	Vehicles  []VehicleResponse     `json:"vehicles,omitempty"`
	SlotsDate string                `json:"slotsDate,omitempty"`
	Slots     []SlotResponse        `json:"slots,omitempty"`
	Receipt   *ReceiptResponse      `json:"receipt,omitempty"`
	Order     *models.OrderResponse `json:"order,omitempty"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// FromSnapshot конвертирует снимок сценария в HTTP ответ
func FromSnapshot(s booking.Snapshot) *SessionResponse {
	resp := &SessionResponse{
		State:     string(s.State),
		Pending:   string(s.Pending),
		Draft:     fromDraft(s.Draft),
		Slots:     FromSlots(s.Slots),
		Order:     models.FromDomainOrder(s.Order),
		UpdatedAt: s.UpdatedAt,
	}

	for _, v := range s.Vehicles {
		resp.Vehicles = append(resp.Vehicles, VehicleResponse{ID: v.ID, Brand: v.Brand, Model: v.Model, Plate: v.Plate})
	}
	if !s.SlotsDate.IsZero() {
		resp.SlotsDate = s.SlotsDate.Format(domain.DateFormat)
	}
	if s.Receipt != nil {
		resp.Receipt = &ReceiptResponse{ID: s.Receipt.ID, Amount: s.Receipt.Amount, PaidAt: s.Receipt.PaidAt}
	}

	return resp
}

// FromSlots конвертирует слоты в HTTP модель
func FromSlots(slots []domain.TimeSlot) []SlotResponse {
	if slots == nil {
		return nil
	}
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotResponse{
			ID:             s.ID,
			Time:           s.Time.String(),
			IsAvailable:    s.IsAvailable,
			AvailableSpots: s.AvailableSpots,
			TotalSpots:     s.TotalSpots,
		})
	}
	return out
}

func fromDraft(d *domain.OrderDraft) *DraftResponse {
	if d == nil {
		return nil
	}

	resp := &DraftResponse{
		ID:          d.ID(),
		VehicleID:   d.VehicleID(),
		AddressID:   d.AddressID(),
		Services:    make([]ServiceResponse, 0, d.ServiceCount()),
		ServiceTime: d.ServiceTime().String(),
		TotalAmount: d.TotalAmount(),
		TravelFee:   d.TravelFee(),
		GrandTotal:  d.GrandTotal(),
		Currency:    d.Currency(),
	}
	for _, s := range d.Services() {
		resp.Services = append(resp.Services, ServiceResponse{ID: s.ID, Title: s.Title, Price: s.Price})
	}
	if !d.ServiceDate().IsZero() {
		resp.ServiceDate = d.ServiceDate().Format(domain.DateFormat)
	}
	return resp
}
