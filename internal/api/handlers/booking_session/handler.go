package booking_session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-OrderFlow/internal/api/handlers"
	"github.com/m04kA/SMC-OrderFlow/internal/api/middleware"
	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/internal/service/booking"
	"github.com/m04kA/SMC-OrderFlow/internal/service/orders/models"
	"github.com/m04kA/SMC-OrderFlow/pkg/types"
)

const (
	msgMissingUserID       = "отсутствует ID пользователя"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingDate         = "дата обязательна"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime         = "некорректный формат времени, ожидается HH:MM"
	msgDraftInProgress     = "бронирование уже начато"
	msgOperationInProgress = "предыдущее действие еще выполняется"
	msgUnknownVehicle      = "автомобиль не найден"
	msgUnknownAddress      = "адрес не найден"
	msgUnknownService      = "услуга не найдена"
	msgServiceNotSelected  = "услуга не выбрана"
	msgDateInPast          = "дата должна быть не раньше сегодняшней"
	msgSlotTime            = "время недоступно для бронирования"
	msgDuplicateOrder      = "у автомобиля уже есть активный заказ"
	msgNotAllowed          = "действие недоступно на текущем шаге"
	msgInvalidInput        = "некорректные данные"
)

type Handler struct {
	sessions SessionRegistry
	logger   Logger
}

func NewHandler(sessions SessionRegistry, logger Logger) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   logger,
	}
}

// Start POST /api/v1/booking
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "POST /booking", http.StatusCreated, func(ctx context.Context, wf *booking.Workflow) error {
		return wf.Start(ctx)
	})
}

// Get GET /api/v1/booking
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.workflow(w, r, "GET /booking")
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromSnapshot(wf.Snapshot()))
}

// Cancel DELETE /api/v1/booking
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "DELETE /booking", http.StatusOK, func(ctx context.Context, wf *booking.Workflow) error {
		return wf.Cancel()
	})
}

// SelectVehicle PUT /api/v1/booking/vehicle
func (h *Handler) SelectVehicle(w http.ResponseWriter, r *http.Request) {
	var req SelectVehicleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.VehicleID == "" {
		h.logger.Warn("PUT /booking/vehicle - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	h.run(w, r, "PUT /booking/vehicle", http.StatusOK, func(ctx context.Context, wf *booking.Workflow) error {
		return wf.SelectVehicle(req.VehicleID)
	})
}

// SelectAddress PUT /api/v1/booking/address
func (h *Handler) SelectAddress(w http.ResponseWriter, r *http.Request) {
	var req SelectAddressRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.AddressID == "" {
		h.logger.Warn("PUT /booking/address - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	h.run(w, r, "PUT /booking/address", http.StatusOK, func(ctx context.Context, wf *booking.Workflow) error {
		return wf.SelectAddress(ctx, req.AddressID)
	})
}

// AddService POST /api/v1/booking/services/{serviceId}
func (h *Handler) AddService(w http.ResponseWriter, r *http.Request) {
	serviceID := mux.Vars(r)["serviceId"]
	h.run(w, r, "POST /booking/services/{id}", http.StatusOK, func(ctx context.Context, wf *booking.Workflow) error {
		return wf.AddService(ctx, serviceID)
	})
}

// RemoveService DELETE /api/v1/booking/services/{serviceId}
func (h *Handler) RemoveService(w http.ResponseWriter, r *http.Request) {
	serviceID := mux.Vars(r)["serviceId"]
	h.run(w, r, "DELETE /booking/services/{id}", http.StatusOK, func(ctx context.Context, wf *booking.Workflow) error {
		return wf.RemoveService(serviceID)
	})
}

// ProceedToDateTime POST /api/v1/booking/datetime-step
func (h *Handler) ProceedToDateTime(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "POST /booking/datetime-step", http.StatusOK, func(ctx context.Context, wf *booking.Workflow) error {
		return wf.ProceedToDateTime()
	})
}

// Slots GET /api/v1/booking/slots?date=YYYY-MM-DD
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	const op = "GET /booking/slots"

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("%s - Missing date", op)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("%s - Invalid date format: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	wf, ok := h.workflow(w, r, op)
	if !ok {
		return
	}

	slots, err := wf.AvailableSlots(r.Context(), date)
	if err != nil {
		h.respondError(w, op, wf.CustomerID(), err)
		return
	}

	h.logger.Info("%s - Slots loaded: customer_id=%s, date=%s, count=%d", op, wf.CustomerID(), dateStr, len(slots))
	handlers.RespondJSON(w, http.StatusOK, FromSlots(slots))
}

// ConfirmDateTime POST /api/v1/booking/datetime
func (h *Handler) ConfirmDateTime(w http.ResponseWriter, r *http.Request) {
	const op = "POST /booking/datetime"

	var req ConfirmDateTimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("%s - Invalid date format: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	slotTime, err := types.NewTimeStringFromString(req.Time)
	if err != nil {
		h.logger.Warn("%s - Invalid time format: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	h.run(w, r, op, http.StatusOK, func(ctx context.Context, wf *booking.Workflow) error {
		return wf.ConfirmDateTime(ctx, date, slotTime)
	})
}

// ProceedToPayment POST /api/v1/booking/payment-step
func (h *Handler) ProceedToPayment(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "POST /booking/payment-step", http.StatusOK, func(ctx context.Context, wf *booking.Workflow) error {
		return wf.ProceedToPayment()
	})
}

// Back POST /api/v1/booking/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "POST /booking/back", http.StatusOK, func(ctx context.Context, wf *booking.Workflow) error {
		return wf.Back()
	})
}

// Pay POST /api/v1/booking/payment
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	const op = "POST /booking/payment"

	var req PayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	wf, ok := h.workflow(w, r, op)
	if !ok {
		return
	}

	order, err := wf.Pay(r.Context(), req.ToDomain())
	if err != nil {
		h.respondError(w, op, wf.CustomerID(), err)
		return
	}

	h.logger.Info("%s - Order placed: customer_id=%s, order_id=%s", op, wf.CustomerID(), order.ID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainOrder(order))
}

// run выполняет действие над сценарием и возвращает его новое состояние
func (h *Handler) run(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	status int,
	action func(ctx context.Context, wf *booking.Workflow) error,
) {
	wf, ok := h.workflow(w, r, op)
	if !ok {
		return
	}

	if err := action(r.Context(), wf); err != nil {
		h.respondError(w, op, wf.CustomerID(), err)
		return
	}

	snap := wf.Snapshot()
	h.logger.Info("%s - OK: customer_id=%s, state=%s", op, wf.CustomerID(), snap.State)
	handlers.RespondJSON(w, status, FromSnapshot(snap))
}

func (h *Handler) workflow(w http.ResponseWriter, r *http.Request, op string) (*booking.Workflow, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", op)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return nil, false
	}
	return h.sessions.Workflow(userID), true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, customerID string, err error) {
	if ge, ok := booking.AsGuardError(err); ok {
		h.logger.Warn("%s - Transition rejected: customer_id=%s, from=%s, to=%s, reason=%s",
			op, customerID, ge.From, ge.To, ge.Reason)
		handlers.RespondConflict(w, msgNotAllowed+": "+ge.Reason)
		return
	}

	status := handlers.RespondDomainError(w, err, errorMessage(err))
	switch {
	case status == http.StatusNoContent:
		h.logger.Info("%s - Discarded after cancel: customer_id=%s", op, customerID)
	case status >= http.StatusInternalServerError:
		h.logger.Error("%s - Failed: customer_id=%s, error=%v", op, customerID, err)
	default:
		h.logger.Warn("%s - Rejected: customer_id=%s, error=%v", op, customerID, err)
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, booking.ErrDraftInProgress):
		return msgDraftInProgress
	case errors.Is(err, booking.ErrOperationInProgress):
		return msgOperationInProgress
	case errors.Is(err, booking.ErrUnknownVehicle):
		return msgUnknownVehicle
	case errors.Is(err, booking.ErrUnknownAddress):
		return msgUnknownAddress
	case errors.Is(err, booking.ErrUnknownService):
		return msgUnknownService
	case errors.Is(err, booking.ErrServiceNotSelected):
		return msgServiceNotSelected
	case errors.Is(err, booking.ErrInvalidDate):
		return msgDateInPast
	case errors.Is(err, booking.ErrInvalidTime):
		return msgSlotTime
	case errors.Is(err, domain.ErrDuplicateActiveOrder):
		return msgDuplicateOrder
	case errors.Is(err, domain.ErrValidation):
		return msgInvalidInput
	default:
		return msgNotAllowed
	}
}
