package create_vehicle

import (
	"context"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/internal/integrations/backend"
)

type VehicleCreator interface {
	CreateVehicle(ctx context.Context, customerID string, in backend.VehicleInput) (*domain.Vehicle, error)
}

// InFlightGuard не дает отправить повторную форму, пока первая не обработана
type InFlightGuard interface {
	TryAcquire(key string) bool
	Release(key string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
