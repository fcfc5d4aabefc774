package photos

import (
	"context"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

// ImageStore загрузка и удаление фотографий автомобиля
type ImageStore interface {
	UploadImages(ctx context.Context, vehicleID string, images []domain.NewImage) ([]domain.VehicleImage, error)
	DeleteImage(ctx context.Context, vehicleID, imageID string) error
}

// Metrics счетчик результатов сохранения
type Metrics interface {
	RecordPhotoConfirmation(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
