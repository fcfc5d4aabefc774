package sessions

import (
	"fmt"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

var (
	// ErrEditorNotFound возвращается, когда редактирование фотографий не начато
	ErrEditorNotFound = fmt.Errorf("%w: sessions: photo editing session not found", domain.ErrNotFound)

	// ErrVehicleNotOwned возвращается, когда автомобиль принадлежит другому клиенту
	ErrVehicleNotOwned = fmt.Errorf("%w: sessions: vehicle does not belong to customer", domain.ErrNotFound)
)
