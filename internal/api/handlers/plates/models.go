package plates

import "github.com/m04kA/SMC-OrderFlow/pkg/plate"

// PlateRequest тело запроса с введенным номером
type PlateRequest struct {
	Plate string `json:"plate"`
}

// ValidateResponse результат проверки номера
type ValidateResponse struct {
	Normalized   string `json:"normalized"`
	Valid        bool   `json:"valid"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// FormatResponse номер, отформатированный для поля ввода
type FormatResponse struct {
	Formatted string `json:"formatted"`
}

// FromResult конвертирует результат проверки в HTTP ответ
func FromResult(r plate.Result) *ValidateResponse {
	return &ValidateResponse{
		Normalized:   r.Normalized,
		Valid:        r.Valid,
		ErrorMessage: r.ErrorMessage,
	}
}
