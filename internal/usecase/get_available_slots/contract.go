package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

// OrderLister источник заказов, занимающих боксы на дату
type OrderLister interface {
	ListByDate(ctx context.Context, date time.Time) ([]*domain.Order, error)
}

type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// systemClock текущее время в UTC
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
