package sessions

import (
	"context"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

// VehicleLoader загрузка автомобиля с текущими фотографиями
type VehicleLoader interface {
	GetVehicle(ctx context.Context, customerID, vehicleID string) (*domain.Vehicle, error)
}

// Metrics учет количества активных сессий
type Metrics interface {
	SetActiveSessions(kind string, n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
