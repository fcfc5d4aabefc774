package create_vehicle

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-OrderFlow/internal/api/handlers"
	"github.com/m04kA/SMC-OrderFlow/internal/api/middleware"
	"github.com/m04kA/SMC-OrderFlow/internal/integrations/backend"
	"github.com/m04kA/SMC-OrderFlow/pkg/plate"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgMissingBrandModel  = "марка и модель обязательны"
	msgAlreadySubmitting  = "автомобиль уже сохраняется"
	msgRejected           = "автомобиль не может быть сохранен"
	msgDuplicate          = "автомобиль с таким номером уже существует"
)

type Handler struct {
	backend VehicleCreator
	guard   InFlightGuard
	logger  Logger
}

func NewHandler(backend VehicleCreator, guard InFlightGuard, logger Logger) *Handler {
	return &Handler{
		backend: backend,
		guard:   guard,
		logger:  logger,
	}
}

// Handle POST /api/v1/vehicles
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /vehicles - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateVehicleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vehicles - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if strings.TrimSpace(req.Brand) == "" || strings.TrimSpace(req.Model) == "" {
		handlers.RespondBadRequest(w, msgMissingBrandModel)
		return
	}

	// Номер проверяется до обращения к бэкенду
	result := plate.Validate(req.Plate)
	if !result.Valid {
		h.logger.Warn("POST /vehicles - Invalid plate: user_id=%s, reason=%s", userID, result.ErrorMessage)
		handlers.RespondBadRequest(w, result.ErrorMessage)
		return
	}

	if !h.guard.TryAcquire(userID) {
		h.logger.Warn("POST /vehicles - Duplicate submission: user_id=%s", userID)
		handlers.RespondConflict(w, msgAlreadySubmitting)
		return
	}
	defer h.guard.Release(userID)

	vehicle, err := h.backend.CreateVehicle(r.Context(), userID, req.ToBackendInput(result.Normalized))
	if err != nil {
		switch {
		case errors.Is(err, backend.ErrBadRequest):
			h.logger.Warn("POST /vehicles - Rejected by backend: user_id=%s, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgRejected)

		case errors.Is(err, backend.ErrConflict):
			h.logger.Warn("POST /vehicles - Duplicate vehicle: user_id=%s, plate=%s", userID, result.Normalized)
			handlers.RespondConflict(w, msgDuplicate)

		default:
			status := handlers.RespondDomainError(w, err, msgRejected)
			h.logger.Error("POST /vehicles - Failed to create vehicle: user_id=%s, status=%d, error=%v", userID, status, err)
		}
		return
	}

	h.logger.Info("POST /vehicles - Vehicle created: user_id=%s, vehicle_id=%s", userID, vehicle.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(vehicle))
}
