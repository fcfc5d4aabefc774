package photos

import (
	"fmt"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

var (
	// ErrQuotaExceeded в категории уже 4 фотографии
	ErrQuotaExceeded = fmt.Errorf("%w: photos: category quota exceeded", domain.ErrPrecondition)

	// ErrIncompleteSet для сохранения нужно ровно 4+4 фотографии
	ErrIncompleteSet = fmt.Errorf("%w: photos: each category needs exactly 4 photos", domain.ErrPrecondition)

	// ErrConfirmInProgress сохранение уже выполняется
	ErrConfirmInProgress = fmt.Errorf("%w: photos: confirm in progress", domain.ErrPrecondition)

	// ErrInvalidCategory неизвестная категория
	ErrInvalidCategory = fmt.Errorf("%w: photos: invalid category", domain.ErrValidation)

	// ErrEmptyImage файл без содержимого
	ErrEmptyImage = fmt.Errorf("%w: photos: empty image", domain.ErrValidation)

	// ErrImageNotFound фотографии нет в коллекции
	ErrImageNotFound = fmt.Errorf("%w: photos: image not found", domain.ErrNotFound)

	// ErrPendingNotFound нет такой ожидающей загрузки
	ErrPendingNotFound = fmt.Errorf("%w: photos: pending image not found", domain.ErrNotFound)

	// ErrStoreUnavailable хранилище изображений вернуло ошибку
	ErrStoreUnavailable = fmt.Errorf("%w: photos: image store failed", domain.ErrUnavailable)

	// ErrDiscarded результат сохранения пришел после отмены редактирования
	ErrDiscarded = fmt.Errorf("%w: photos: edit session discarded", domain.ErrCanceled)
)
