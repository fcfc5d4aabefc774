package photos

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/internal/integrations/backend"
)

// Результаты сохранения для метрик
const (
	ResultSuccess   = "success"
	ResultFailed    = "failed"
	ResultDiscarded = "discarded"
)

const maxParallelDeletes = 4

// PendingImage выбранная, но еще не загруженная фотография
type PendingImage struct {
	LocalID string
	Image   domain.NewImage
}

// PhotoSet состояние редактирования для отображения клиенту
type PhotoSet struct {
	VehicleID      string
	Images         []domain.VehicleImage
	PendingDeletes []string
	PendingAdds    []PendingImage
	InteriorCount  int
	ExteriorCount  int
	Complete       bool
	Confirming     bool
}

// Reconciler накапливает добавления и удаления фотографий автомобиля
// и применяет их одной операцией Confirm
type Reconciler struct {
	mu        sync.Mutex
	vehicleID string
	store     ImageStore
	metrics   Metrics
	logger    Logger

	images         []domain.VehicleImage
	pendingDeletes []string
	pendingAdds    map[domain.PhotoCategory][]PendingImage
	confirming     bool
	generation     uint64
	updatedAt      time.Time
}

// NewReconciler создает сессию редактирования поверх текущих фотографий
func NewReconciler(vehicleID string, existing []domain.VehicleImage, store ImageStore, metrics Metrics, logger Logger) *Reconciler {
	return &Reconciler{
		vehicleID:   vehicleID,
		store:       store,
		metrics:     metrics,
		logger:      logger,
		images:      orderByCategory(Categorize(existing)),
		pendingAdds: map[domain.PhotoCategory][]PendingImage{},
		updatedAt:   time.Now(),
	}
}

// MarkPendingDelete помечает фотографию к удалению; повторная пометка ничего не меняет
func (r *Reconciler) MarkPendingDelete(imageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.confirming {
		return ErrConfirmInProgress
	}
	if r.imageIndexLocked(imageID) < 0 {
		return ErrImageNotFound
	}
	if !r.isPendingDeleteLocked(imageID) {
		r.pendingDeletes = append(r.pendingDeletes, imageID)
	}
	r.updatedAt = time.Now()
	return nil
}

// UnmarkPendingDelete снимает пометку удаления
func (r *Reconciler) UnmarkPendingDelete(imageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.confirming {
		return ErrConfirmInProgress
	}
	for i, id := range r.pendingDeletes {
		if id == imageID {
			r.pendingDeletes = append(r.pendingDeletes[:i], r.pendingDeletes[i+1:]...)
			break
		}
	}
	r.updatedAt = time.Now()
	return nil
}

// AddPending добавляет новую фотографию в категорию, если в ней меньше 4 фотографий
func (r *Reconciler) AddPending(image domain.NewImage, category domain.PhotoCategory) (string, error) {
	if !category.IsValid() {
		return "", ErrInvalidCategory
	}
	if len(image.Data) == 0 {
		return "", ErrEmptyImage
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.confirming {
		return "", ErrConfirmInProgress
	}
	if r.currentCountLocked(category) >= domain.PhotosPerCategory {
		return "", ErrQuotaExceeded
	}

	image.Category = category
	pending := PendingImage{LocalID: ulid.Make().String(), Image: image}
	r.pendingAdds[category] = append(r.pendingAdds[category], pending)
	r.updatedAt = time.Now()
	return pending.LocalID, nil
}

// RemovePending убирает фотографию, еще не загруженную на сервер
func (r *Reconciler) RemovePending(localID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.confirming {
		return ErrConfirmInProgress
	}
	for c, list := range r.pendingAdds {
		for i := range list {
			if list[i].LocalID == localID {
				r.pendingAdds[c] = append(list[:i], list[i+1:]...)
				r.updatedAt = time.Now()
				return nil
			}
		}
	}
	return ErrPendingNotFound
}

// CurrentCount количество фотографий категории с учетом ожидающих изменений
func (r *Reconciler) CurrentCount(category domain.PhotoCategory) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentCountLocked(category)
}

// IsComplete true, если в обеих категориях ровно по 4 фотографии
func (r *Reconciler) IsComplete() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isCompleteLocked()
}

// Confirm применяет изменения: сначала удаления, затем одна пакетная загрузка
// (interior, затем exterior), затем замена локальной коллекции.
// При любой ошибке коллекция и ожидающие изменения остаются прежними.
func (r *Reconciler) Confirm(ctx context.Context) error {
	r.mu.Lock()
	if r.confirming {
		r.mu.Unlock()
		return ErrConfirmInProgress
	}
	if !r.isCompleteLocked() {
		interior, exterior := r.currentCountLocked(domain.PhotoInterior), r.currentCountLocked(domain.PhotoExterior)
		r.mu.Unlock()
		return fmt.Errorf("%w: interior=%d exterior=%d", ErrIncompleteSet, interior, exterior)
	}
	deletes := append([]string(nil), r.pendingDeletes...)
	interiorAdds := imagesOf(r.pendingAdds[domain.PhotoInterior])
	uploads := append(interiorAdds, imagesOf(r.pendingAdds[domain.PhotoExterior])...)
	gen := r.generation
	r.confirming = true
	r.mu.Unlock()

	// 1. Удаления; все завершаются до начала загрузки
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallelDeletes)
	for _, id := range deletes {
		id := id
		group.Go(func() error {
			err := r.store.DeleteImage(groupCtx, r.vehicleID, id)
			if err != nil && !errors.Is(err, backend.ErrImageNotFound) {
				r.logger.Error("Confirm: failed to delete image=%s of vehicle=%s: %v", id, r.vehicleID, err)
				return err
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return r.fail(gen, fmt.Errorf("%w: DeleteImage: %v", ErrStoreUnavailable, err))
	}

	// 2. Загрузка одним пакетом
	var uploaded []domain.VehicleImage
	if len(uploads) > 0 {
		var err error
		uploaded, err = r.store.UploadImages(ctx, r.vehicleID, uploads)
		if err != nil {
			r.logger.Error("Confirm: failed to upload %d images of vehicle=%s: %v", len(uploads), r.vehicleID, err)
			return r.fail(gen, fmt.Errorf("%w: UploadImages: %v", ErrStoreUnavailable, err))
		}
		for i := range uploaded {
			if uploaded[i].Category.IsValid() {
				continue
			}
			if i < len(interiorAdds) {
				uploaded[i].Category = domain.PhotoInterior
			} else {
				uploaded[i].Category = domain.PhotoExterior
			}
		}
	}

	// 3. Замена локальной коллекции
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation {
		r.record(ResultDiscarded)
		return ErrDiscarded
	}

	kept := make([]domain.VehicleImage, 0, len(r.images)+len(uploaded))
	for _, img := range r.images {
		if !r.isPendingDeleteLocked(img.ID) {
			kept = append(kept, img)
		}
	}
	r.images = orderByCategory(append(kept, uploaded...))
	r.pendingDeletes = nil
	r.pendingAdds = map[domain.PhotoCategory][]PendingImage{}
	r.confirming = false
	r.updatedAt = time.Now()
	r.record(ResultSuccess)
	r.logger.Info("Confirm: vehicle=%s photos saved, deleted=%d uploaded=%d", r.vehicleID, len(deletes), len(uploaded))
	return nil
}

// Discard отменяет редактирование; результат незавершенного Confirm будет отброшен
func (r *Reconciler) Discard() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generation++
	r.confirming = false
	r.pendingDeletes = nil
	r.pendingAdds = map[domain.PhotoCategory][]PendingImage{}
	r.updatedAt = time.Now()
}

// Snapshot копия состояния редактирования
func (r *Reconciler) Snapshot() PhotoSet {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := PhotoSet{
		VehicleID:      r.vehicleID,
		Images:         append([]domain.VehicleImage(nil), r.images...),
		PendingDeletes: append([]string(nil), r.pendingDeletes...),
		InteriorCount:  r.currentCountLocked(domain.PhotoInterior),
		ExteriorCount:  r.currentCountLocked(domain.PhotoExterior),
		Complete:       r.isCompleteLocked(),
		Confirming:     r.confirming,
	}
	for _, c := range domain.PhotoCategories {
		set.PendingAdds = append(set.PendingAdds, r.pendingAdds[c]...)
	}
	return set
}

// IsBusy true, пока выполняется Confirm
func (r *Reconciler) IsBusy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.confirming
}

// UpdatedAt время последнего изменения
func (r *Reconciler) UpdatedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updatedAt
}

func (r *Reconciler) fail(gen uint64, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation {
		r.record(ResultDiscarded)
		return ErrDiscarded
	}
	r.confirming = false
	r.record(ResultFailed)
	return err
}

func (r *Reconciler) record(result string) {
	if r.metrics != nil {
		r.metrics.RecordPhotoConfirmation(result)
	}
}

func (r *Reconciler) currentCountLocked(category domain.PhotoCategory) int {
	n := len(r.pendingAdds[category])
	for _, img := range r.images {
		if img.Category == category && !r.isPendingDeleteLocked(img.ID) {
			n++
		}
	}
	return n
}

func (r *Reconciler) isCompleteLocked() bool {
	return r.currentCountLocked(domain.PhotoInterior) == domain.PhotosPerCategory &&
		r.currentCountLocked(domain.PhotoExterior) == domain.PhotosPerCategory
}

func (r *Reconciler) isPendingDeleteLocked(imageID string) bool {
	for _, id := range r.pendingDeletes {
		if id == imageID {
			return true
		}
	}
	return false
}

func (r *Reconciler) imageIndexLocked(imageID string) int {
	for i := range r.images {
		if r.images[i].ID == imageID {
			return i
		}
	}
	return -1
}

func imagesOf(list []PendingImage) []domain.NewImage {
	out := make([]domain.NewImage, 0, len(list))
	for _, p := range list {
		out = append(out, p.Image)
	}
	return out
}

// orderByCategory сначала interior, порядок внутри категории сохраняется
func orderByCategory(images []domain.VehicleImage) []domain.VehicleImage {
	out := make([]domain.VehicleImage, 0, len(images))
	for _, c := range domain.PhotoCategories {
		for _, img := range images {
			if img.Category == c {
				out = append(out, img)
			}
		}
	}
	return out
}
