package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

// VehicleProvider список автомобилей клиента
type VehicleProvider interface {
	ListVehicles(ctx context.Context, customerID string) ([]domain.Vehicle, error)
}

// AddressProvider список адресов клиента
type AddressProvider interface {
	ListAddresses(ctx context.Context, customerID string) ([]domain.Address, error)
}

// ServiceCatalog каталог услуг мойки
type ServiceCatalog interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
}

// TimeSlotProvider свободные слоты на дату
type TimeSlotProvider interface {
	AvailableSlots(ctx context.Context, date time.Time) ([]domain.TimeSlot, error)
}

// TravelFeeQuoter стоимость выезда на адрес
type TravelFeeQuoter interface {
	Quote(ctx context.Context, address domain.Address) (decimal.Decimal, error)
}

// PaymentGateway списание средств
type PaymentGateway interface {
	Charge(ctx context.Context, customerID string, amount decimal.Decimal, currency string, card domain.Card) (*domain.PaymentReceipt, error)
}

// OrderSubmitter создает заказ из заполненного черновика
type OrderSubmitter interface {
	CheckVehicle(ctx context.Context, customerID, vehicleID string) error
	Submit(ctx context.Context, customerID string, draft *domain.OrderDraft, paymentID string) (*domain.Order, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Metrics счетчики переходов
type Metrics interface {
	RecordTransition(from, to string)
	RecordRejection(from, to string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реализация TimeProvider для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
