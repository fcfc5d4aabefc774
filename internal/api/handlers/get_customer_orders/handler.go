package get_customer_orders

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-OrderFlow/internal/api/handlers"
	"github.com/m04kA/SMC-OrderFlow/internal/api/middleware"
	"github.com/m04kA/SMC-OrderFlow/internal/service/orders"
	"github.com/m04kA/SMC-OrderFlow/internal/service/orders/models"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidState  = "некорректное состояние заказа"
)

type Handler struct {
	service OrderService
	logger  Logger
}

func NewHandler(service OrderService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/orders?state=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /orders - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Получаем state из query параметров (опционально)
	state := r.URL.Query().Get("state")
	var statePtr *string
	if state != "" {
		statePtr = &state
	}

	result, err := h.service.GetCustomerOrders(r.Context(), &models.GetCustomerOrdersRequest{
		CustomerID: userID,
		State:      statePtr,
	})
	if err != nil {
		if errors.Is(err, orders.ErrInvalidInput) {
			h.logger.Warn("GET /orders - Invalid state: user_id=%s, state=%s", userID, state)
			handlers.RespondBadRequest(w, msgInvalidState)
			return
		}
		h.logger.Error("GET /orders - Failed to get orders: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /orders - Orders retrieved successfully: user_id=%s, count=%d", userID, len(result.Orders))
	handlers.RespondJSON(w, http.StatusOK, result.Orders)
}
