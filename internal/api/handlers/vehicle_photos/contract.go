package vehicle_photos

import (
	"context"

	"github.com/m04kA/SMC-OrderFlow/internal/service/photos"
)

// PhotoSessions сессии редактирования фотографий автомобилей
type PhotoSessions interface {
	OpenPhotoEditor(ctx context.Context, customerID, vehicleID string) (*photos.Reconciler, error)
	PhotoEditor(customerID, vehicleID string) (*photos.Reconciler, bool)
	ClosePhotoEditor(customerID, vehicleID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
