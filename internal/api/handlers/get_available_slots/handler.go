package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-OrderFlow/internal/api/handlers"
	slotsUC "github.com/m04kA/SMC-OrderFlow/internal/usecase/get_available_slots"
)

const (
	msgMissingDate = "дата обязательна"
	msgInvalidDate = "некорректные параметры, ожидается date=YYYY-MM-DD и free=true|false"
	msgDateInPast  = "дата в прошлом"
	msgDateTooFar  = "дата слишком далеко в будущем"
)

type Handler struct {
	slots  SlotGrid
	logger Logger
}

func NewHandler(slots SlotGrid, logger Logger) *Handler {
	return &Handler{
		slots:  slots,
		logger: logger,
	}
}

// Handle GET /api/v1/slots?date=YYYY-MM-DD[&free=true]
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	if values.Get("date") == "" {
		h.logger.Warn("GET /slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	query, err := ParseSlotsQuery(values)
	if err != nil {
		h.logger.Warn("GET /slots - Invalid query %q: %v", r.URL.RawQuery, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.slots.Execute(r.Context(), &slotsUC.Request{Date: query.Date})
	if err != nil {
		switch {
		case errors.Is(err, slotsUC.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)
		case errors.Is(err, slotsUC.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)
		default:
			status := handlers.RespondDomainError(w, err, msgInvalidDate)
			h.logger.Error("GET /slots - Failed to get slots: date=%s, status=%d, error=%v", values.Get("date"), status, err)
			return
		}
		h.logger.Warn("GET /slots - Date rejected: %v", err)
		return
	}

	response := FromUseCaseResponse(result, query.FreeOnly)
	h.logger.Info("GET /slots - date=%s, slots=%d, free=%d", response.Date, len(response.Slots), response.FreeSlots)
	handlers.RespondJSON(w, http.StatusOK, response)
}
