package backend

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

var (
	// ErrNotFound возвращается, когда сущность не найдена на backend
	ErrNotFound = fmt.Errorf("%w: backend client: resource not found", domain.ErrNotFound)

	// ErrImageNotFound возвращается при удалении уже удаленного изображения
	ErrImageNotFound = fmt.Errorf("%w: backend client: image not found", domain.ErrNotFound)

	// ErrBadRequest backend отклонил входные данные
	ErrBadRequest = fmt.Errorf("%w: backend client: bad request", domain.ErrValidation)

	// ErrConflict сущность уже существует (например, номер автомобиля)
	ErrConflict = fmt.Errorf("%w: backend client: conflict", domain.ErrPrecondition)

	// ErrUnavailable сетевая ошибка или 5xx
	ErrUnavailable = fmt.Errorf("%w: backend client: service unavailable", domain.ErrUnavailable)

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = fmt.Errorf("%w: backend client: invalid response", domain.ErrUnavailable)

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("backend client: internal error")
)
