package vehicle_photos

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-OrderFlow/internal/api/handlers"
	"github.com/m04kA/SMC-OrderFlow/internal/api/middleware"
	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/internal/service/photos"
	"github.com/m04kA/SMC-OrderFlow/internal/service/sessions"
)

const (
	msgMissingUserID     = "отсутствует ID пользователя"
	msgMissingVehicleID  = "отсутствует ID автомобиля"
	msgEditorNotOpen     = "редактирование фотографий не начато"
	msgVehicleNotFound   = "автомобиль не найден"
	msgImageNotFound     = "фотография не найдена"
	msgInvalidCategory   = "категория должна быть interior или exterior"
	msgInvalidUpload     = "ожидается файл в поле image"
	msgEmptyImage        = "файл пустой"
	msgQuotaExceeded     = "в категории уже 4 фотографии"
	msgIncompleteSet     = "нужно ровно 4 фотографии салона и 4 снаружи"
	msgConfirmInProgress = "фотографии уже сохраняются"

	maxUploadBytes = 10 << 20
	formFieldImage = "image"
)

type Handler struct {
	sessions PhotoSessions
	logger   Logger
}

func NewHandler(sessions PhotoSessions, logger Logger) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   logger,
	}
}

// Open POST /api/v1/vehicles/{vehicleId}/photos/edit
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	userID, vehicleID, ok := h.params(w, r, "POST /vehicles/{vehicleId}/photos/edit")
	if !ok {
		return
	}

	editor, err := h.sessions.OpenPhotoEditor(r.Context(), userID, vehicleID)
	if err != nil {
		h.respondError(w, "POST /vehicles/{vehicleId}/photos/edit", err)
		return
	}

	h.logger.Info("POST /vehicles/{vehicleId}/photos/edit - Editing started: user_id=%s, vehicle_id=%s", userID, vehicleID)
	handlers.RespondJSON(w, http.StatusOK, FromPhotoSet(editor.Snapshot()))
}

// Get GET /api/v1/vehicles/{vehicleId}/photos/edit
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	editor, ok := h.editor(w, r, "GET /vehicles/{vehicleId}/photos/edit")
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromPhotoSet(editor.Snapshot()))
}

// MarkDeletion POST /api/v1/vehicles/{vehicleId}/photos/edit/deletions/{imageId}
func (h *Handler) MarkDeletion(w http.ResponseWriter, r *http.Request) {
	const op = "POST /vehicles/{vehicleId}/photos/edit/deletions/{imageId}"
	editor, ok := h.editor(w, r, op)
	if !ok {
		return
	}
	if err := editor.MarkPendingDelete(mux.Vars(r)["imageId"]); err != nil {
		h.respondError(w, op, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromPhotoSet(editor.Snapshot()))
}

// UnmarkDeletion DELETE /api/v1/vehicles/{vehicleId}/photos/edit/deletions/{imageId}
func (h *Handler) UnmarkDeletion(w http.ResponseWriter, r *http.Request) {
	const op = "DELETE /vehicles/{vehicleId}/photos/edit/deletions/{imageId}"
	editor, ok := h.editor(w, r, op)
	if !ok {
		return
	}
	if err := editor.UnmarkPendingDelete(mux.Vars(r)["imageId"]); err != nil {
		h.respondError(w, op, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromPhotoSet(editor.Snapshot()))
}

// AddPhoto POST /api/v1/vehicles/{vehicleId}/photos/edit/{category}
// Файл передается multipart-полем image
func (h *Handler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	const op = "POST /vehicles/{vehicleId}/photos/edit/{category}"
	editor, ok := h.editor(w, r, op)
	if !ok {
		return
	}

	category := domain.PhotoCategory(mux.Vars(r)["category"])
	if !category.IsValid() {
		handlers.RespondBadRequest(w, msgInvalidCategory)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile(formFieldImage)
	if err != nil {
		h.logger.Warn("%s - Invalid upload: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidUpload)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Warn("%s - Failed to read upload: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidUpload)
		return
	}

	localID, err := editor.AddPending(domain.NewImage{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, category)
	if err != nil {
		h.respondError(w, op, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, AddPhotoResponse{
		LocalID: localID,
		Photos:  FromPhotoSet(editor.Snapshot()),
	})
}

// RemovePending DELETE /api/v1/vehicles/{vehicleId}/photos/edit/pending/{localId}
func (h *Handler) RemovePending(w http.ResponseWriter, r *http.Request) {
	const op = "DELETE /vehicles/{vehicleId}/photos/edit/pending/{localId}"
	editor, ok := h.editor(w, r, op)
	if !ok {
		return
	}
	if err := editor.RemovePending(mux.Vars(r)["localId"]); err != nil {
		h.respondError(w, op, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromPhotoSet(editor.Snapshot()))
}

// Confirm POST /api/v1/vehicles/{vehicleId}/photos/edit/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	const op = "POST /vehicles/{vehicleId}/photos/edit/confirm"
	editor, ok := h.editor(w, r, op)
	if !ok {
		return
	}
	if err := editor.Confirm(r.Context()); err != nil {
		h.respondError(w, op, err)
		return
	}

	h.logger.Info("%s - Photos saved: vehicle_id=%s", op, mux.Vars(r)["vehicleId"])
	handlers.RespondJSON(w, http.StatusOK, FromPhotoSet(editor.Snapshot()))
}

// Close DELETE /api/v1/vehicles/{vehicleId}/photos/edit
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	const op = "DELETE /vehicles/{vehicleId}/photos/edit"
	userID, vehicleID, ok := h.params(w, r, op)
	if !ok {
		return
	}
	if err := h.sessions.ClosePhotoEditor(userID, vehicleID); err != nil {
		h.respondError(w, op, err)
		return
	}
	handlers.RespondNoContent(w)
}

func (h *Handler) params(w http.ResponseWriter, r *http.Request, op string) (string, string, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", op)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return "", "", false
	}
	vehicleID := mux.Vars(r)["vehicleId"]
	if vehicleID == "" {
		handlers.RespondBadRequest(w, msgMissingVehicleID)
		return "", "", false
	}
	return userID, vehicleID, true
}

func (h *Handler) editor(w http.ResponseWriter, r *http.Request, op string) (*photos.Reconciler, bool) {
	userID, vehicleID, ok := h.params(w, r, op)
	if !ok {
		return nil, false
	}
	editor, ok := h.sessions.PhotoEditor(userID, vehicleID)
	if !ok {
		h.logger.Warn("%s - Editor not open: user_id=%s, vehicle_id=%s", op, userID, vehicleID)
		handlers.RespondNotFound(w, msgEditorNotOpen)
		return nil, false
	}
	return editor, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	status := handlers.RespondDomainError(w, err, errorMessage(err))
	switch {
	case status >= http.StatusInternalServerError:
		h.logger.Error("%s - Failed: status=%d, error=%v", op, status, err)
	case status == http.StatusNoContent:
		h.logger.Info("%s - Canceled: %v", op, err)
	default:
		h.logger.Warn("%s - Rejected: status=%d, error=%v", op, status, err)
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, sessions.ErrEditorNotFound):
		return msgEditorNotOpen
	case errors.Is(err, sessions.ErrVehicleNotOwned):
		return msgVehicleNotFound
	case errors.Is(err, photos.ErrImageNotFound), errors.Is(err, photos.ErrPendingNotFound):
		return msgImageNotFound
	case errors.Is(err, photos.ErrInvalidCategory):
		return msgInvalidCategory
	case errors.Is(err, photos.ErrEmptyImage):
		return msgEmptyImage
	case errors.Is(err, photos.ErrQuotaExceeded):
		return msgQuotaExceeded
	case errors.Is(err, photos.ErrIncompleteSet):
		return msgIncompleteSet
	case errors.Is(err, photos.ErrConfirmInProgress):
		return msgConfirmInProgress
	default:
		return msgVehicleNotFound
	}
}
