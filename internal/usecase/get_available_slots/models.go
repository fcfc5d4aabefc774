package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date  time.Time // Дата, на которую запрашивались слоты
	Slots []Slot    // Список слотов, включая занятые
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int              // Длительность слота в минутах
	AvailableSpots  int              // Количество свободных боксов
	TotalSpots      int              // Общее количество боксов
}

// ToDomain конвертирует слот в доменную модель
func (s Slot) ToDomain(date time.Time) domain.TimeSlot {
	return domain.TimeSlot{
		ID:             date.Format(domain.DateFormat) + "T" + s.StartTime.String(),
		Time:           s.StartTime,
		IsAvailable:    s.AvailableSpots > 0,
		AvailableSpots: s.AvailableSpots,
		TotalSpots:     s.TotalSpots,
	}
}
