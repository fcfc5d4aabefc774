package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-OrderFlow/internal/service/booking"
	"github.com/m04kA/SMC-OrderFlow/internal/service/photos"
)

const (
	KindBooking = "booking"
	KindPhotos  = "photos"
)

// PhotoDependencies зависимости редакторов фотографий
type PhotoDependencies struct {
	Vehicles VehicleLoader
	Store    photos.ImageStore
	Metrics  photos.Metrics
	Logger   photos.Logger
}

// Registry хранит процессы бронирования клиентов и сессии редактирования фотографий
type Registry struct {
	mu        sync.Mutex
	workflows map[string]*booking.Workflow
	editors   map[editorKey]*photos.Reconciler

	bookingDeps booking.Dependencies
	photoDeps   PhotoDependencies
	metrics     Metrics
	logger      Logger
	now         func() time.Time
}

type editorKey struct {
	customerID string
	vehicleID  string
}

// NewRegistry создает пустой реестр сессий
func NewRegistry(bookingDeps booking.Dependencies, photoDeps PhotoDependencies, metrics Metrics, logger Logger) *Registry {
	return &Registry{
		workflows:   make(map[string]*booking.Workflow),
		editors:     make(map[editorKey]*photos.Reconciler),
		bookingDeps: bookingDeps,
		photoDeps:   photoDeps,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// Workflow возвращает процесс бронирования клиента, создавая его при необходимости
func (r *Registry) Workflow(customerID string) *booking.Workflow {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.workflows[customerID]; ok {
		return w
	}

	w := booking.NewWorkflow(customerID, r.bookingDeps)
	r.workflows[customerID] = w
	r.reportLocked()
	return w
}

// OpenPhotoEditor начинает редактирование фотографий автомобиля
// Если сессия уже открыта, возвращается она
func (r *Registry) OpenPhotoEditor(ctx context.Context, customerID, vehicleID string) (*photos.Reconciler, error) {
	key := editorKey{customerID: customerID, vehicleID: vehicleID}

	if editor, ok := r.PhotoEditor(customerID, vehicleID); ok {
		return editor, nil
	}

	vehicle, err := r.photoDeps.Vehicles.GetVehicle(ctx, customerID, vehicleID)
	if err != nil {
		r.logger.Warn("OpenPhotoEditor: failed to load vehicle=%s for customer=%s: %v", vehicleID, customerID, err)
		return nil, fmt.Errorf("sessions: load vehicle: %w", err)
	}
	if vehicle.CustomerID != "" && vehicle.CustomerID != customerID {
		r.logger.Warn("OpenPhotoEditor: vehicle=%s belongs to customer=%s, not %s", vehicleID, vehicle.CustomerID, customerID)
		return nil, ErrVehicleNotOwned
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Параллельный запрос мог успеть открыть сессию
	if editor, ok := r.editors[key]; ok {
		return editor, nil
	}

	editor := photos.NewReconciler(vehicleID, vehicle.Images, r.photoDeps.Store, r.photoDeps.Metrics, r.photoDeps.Logger)
	r.editors[key] = editor
	r.reportLocked()

	r.logger.Info("OpenPhotoEditor: customer=%s, vehicle=%s, images=%d", customerID, vehicleID, len(vehicle.Images))
	return editor, nil
}

// PhotoEditor возвращает открытую сессию редактирования
func (r *Registry) PhotoEditor(customerID, vehicleID string) (*photos.Reconciler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	editor, ok := r.editors[editorKey{customerID: customerID, vehicleID: vehicleID}]
	return editor, ok
}

// ClosePhotoEditor отбрасывает несохраненные изменения и закрывает сессию
func (r *Registry) ClosePhotoEditor(customerID, vehicleID string) error {
	key := editorKey{customerID: customerID, vehicleID: vehicleID}

	r.mu.Lock()
	defer r.mu.Unlock()

	editor, ok := r.editors[key]
	if !ok {
		return ErrEditorNotFound
	}

	editor.Discard()
	delete(r.editors, key)
	r.reportLocked()
	return nil
}

// Sweep удаляет сессии без активности дольше ttl
// Сессии с выполняющейся операцией не трогаются
func (r *Registry) Sweep(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, w := range r.workflows {
		if w.IsBusy() || w.UpdatedAt().After(cutoff) {
			continue
		}
		delete(r.workflows, id)
		removed++
	}

	for key, editor := range r.editors {
		if editor.IsBusy() || editor.UpdatedAt().After(cutoff) {
			continue
		}
		editor.Discard()
		delete(r.editors, key)
		removed++
	}

	if removed > 0 {
		r.logger.Info("Sweep: removed %d idle sessions", removed)
		r.reportLocked()
	}
	return removed
}

// Run периодически вызывает Sweep до отмены контекста
func (r *Registry) Run(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ttl)
		}
	}
}

// Len количество активных сессий
func (r *Registry) Len() (workflows int, editors int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workflows), len(r.editors)
}

func (r *Registry) reportLocked() {
	if r.metrics == nil {
		return
	}
	r.metrics.SetActiveSessions(KindBooking, len(r.workflows))
	r.metrics.SetActiveSessions(KindPhotos, len(r.editors))
}
