package booking_session

import (
	"github.com/m04kA/SMC-OrderFlow/internal/service/booking"
)

// SessionRegistry источник сценариев бронирования клиентов
type SessionRegistry interface {
	Workflow(customerID string) *booking.Workflow
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
