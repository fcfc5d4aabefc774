package plates

import (
	"net/http"

	"github.com/m04kA/SMC-OrderFlow/internal/api/handlers"
	"github.com/m04kA/SMC-OrderFlow/pkg/plate"
)

const msgInvalidRequestBody = "некорректное тело запроса"

type Handler struct {
	logger Logger
}

func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// Validate POST /api/v1/plates/validate
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req PlateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /plates/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Невалидный номер не ошибка запроса: результат проверки возвращается как есть
	handlers.RespondJSON(w, http.StatusOK, FromResult(plate.Validate(req.Plate)))
}

// Format POST /api/v1/plates/format
func (h *Handler) Format(w http.ResponseWriter, r *http.Request) {
	var req PlateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /plates/format - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &FormatResponse{Formatted: plate.Format(req.Plate)})
}
