package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OrderFlow/pkg/types"
)

// OrderDraft черновик заказа одной попытки бронирования.
// Суммы вычисляются при чтении; изменяет черновик только владеющий им сценарий.
type OrderDraft struct {
	id          string
	vehicleID   string
	addressID   string
	services    []Service
	serviceDate time.Time
	serviceTime types.TimeString
	travelFee   decimal.Decimal
	currency    string
	createdAt   time.Time
}

// NewOrderDraft создает пустой черновик заказа
func NewOrderDraft(id, currency string, now time.Time) *OrderDraft {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &OrderDraft{
		id:        id,
		currency:  currency,
		travelFee: decimal.Zero,
		createdAt: now,
	}
}

func (d *OrderDraft) ID() string           { return d.id }
func (d *OrderDraft) VehicleID() string    { return d.vehicleID }
func (d *OrderDraft) AddressID() string    { return d.addressID }
func (d *OrderDraft) Currency() string     { return d.currency }
func (d *OrderDraft) CreatedAt() time.Time { return d.createdAt }

// TravelFee стоимость выезда на выбранный адрес
func (d *OrderDraft) TravelFee() decimal.Decimal { return d.travelFee }

// Services копия выбранных услуг в порядке выбора
func (d *OrderDraft) Services() []Service {
	out := make([]Service, len(d.services))
	copy(out, d.services)
	return out
}

// ServiceCount количество выбранных услуг
func (d *OrderDraft) ServiceCount() int { return len(d.services) }

// HasService проверяет, выбрана ли уже услуга
func (d *OrderDraft) HasService(id string) bool {
	return d.serviceIndex(id) >= 0
}

// ServiceDate выбранная дата; нулевое значение, если не выбрана
func (d *OrderDraft) ServiceDate() time.Time { return d.serviceDate }

// ServiceTime выбранное время; пустая строка, если не выбрано
func (d *OrderDraft) ServiceTime() types.TimeString { return d.serviceTime }

// HasSchedule true, если выбраны и дата, и время
func (d *OrderDraft) HasSchedule() bool {
	return !d.serviceDate.IsZero() && !d.serviceTime.IsZero()
}

// TotalAmount сумма цен выбранных услуг
func (d *OrderDraft) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, s := range d.services {
		total = total.Add(s.Price)
	}
	return total
}

// GrandTotal TotalAmount плюс стоимость выезда
func (d *OrderDraft) GrandTotal() decimal.Decimal {
	return d.TotalAmount().Add(d.travelFee)
}

// SetVehicle выбирает автомобиль. Смена автомобиля сбрасывает адрес, услуги
// и стоимость выезда; возвращает true, если что-то было сброшено.
func (d *OrderDraft) SetVehicle(id string) bool {
	if d.vehicleID == id {
		return false
	}
	cleared := d.addressID != "" || len(d.services) > 0
	d.vehicleID = id
	d.addressID = ""
	d.services = nil
	d.travelFee = decimal.Zero
	return cleared
}

// SetAddress выбирает адрес вместе с рассчитанной стоимостью выезда
func (d *OrderDraft) SetAddress(id string, fee decimal.Decimal) {
	d.addressID = id
	d.travelFee = fee
}

// SetTravelFee заменяет стоимость выезда
func (d *OrderDraft) SetTravelFee(fee decimal.Decimal) {
	d.travelFee = fee
}

// AddService добавляет услугу; услуга с тем же id повторно не добавляется.
// Возвращает false, если услуга уже выбрана.
func (d *OrderDraft) AddService(s Service) bool {
	if d.HasService(s.ID) {
		return false
	}
	d.services = append(d.services, s)
	return true
}

// RemoveService убирает услугу по id; false, если она не была выбрана
func (d *OrderDraft) RemoveService(id string) bool {
	idx := d.serviceIndex(id)
	if idx < 0 {
		return false
	}
	d.services = append(d.services[:idx], d.services[idx+1:]...)
	return true
}

// SetSchedule сохраняет дату и время вместе
func (d *OrderDraft) SetSchedule(date time.Time, t types.TimeString) {
	d.serviceDate = DateOnly(date)
	d.serviceTime = t
}

// ClearSchedule сбрасывает дату и время вместе
func (d *OrderDraft) ClearSchedule() {
	d.serviceDate = time.Time{}
	d.serviceTime = ""
}

// ValidateSelection проверяет шаг выбора: автомобиль, адрес и хотя бы одна услуга
func (d *OrderDraft) ValidateSelection() error {
	if d.vehicleID == "" {
		return ErrDraftNoVehicle
	}
	if d.addressID == "" {
		return ErrDraftNoAddress
	}
	if len(d.services) == 0 {
		return ErrDraftNoServices
	}
	return nil
}

// ValidateSchedule проверяет дату и время относительно now
func (d *OrderDraft) ValidateSchedule(now time.Time) error {
	dateSet := !d.serviceDate.IsZero()
	timeSet := !d.serviceTime.IsZero()
	if dateSet != timeSet {
		return ErrDraftPartialSchedule
	}
	if !dateSet {
		return ErrDraftNoSchedule
	}
	if d.serviceDate.Before(DateOnly(now)) {
		return ErrDraftDateInPast
	}
	if !d.serviceTime.IsOnGrid(SlotGranularityMinutes) {
		return ErrDraftTimeOffGrid
	}
	return nil
}

// Validate проверяет, что черновик можно отправить
func (d *OrderDraft) Validate(now time.Time) error {
	if err := d.ValidateSelection(); err != nil {
		return err
	}
	return d.ValidateSchedule(now)
}

// Clone глубокая копия
func (d *OrderDraft) Clone() *OrderDraft {
	if d == nil {
		return nil
	}
	c := *d
	c.services = d.Services()
	return &c
}

func (d *OrderDraft) serviceIndex(id string) int {
	for i := range d.services {
		if d.services[i].ID == id {
			return i
		}
	}
	return -1
}

// DateOnly полночь UTC календарной даты t (дата берется в часовом поясе t)
func DateOnly(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
