package orders

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

var (
	// ErrOrderNotFound возвращается, когда заказ не найден
	ErrOrderNotFound = fmt.Errorf("%w: orders: order not found", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("orders: access denied")

	// ErrCannotCancel возвращается, когда заказ не может быть отменен
	ErrCannotCancel = fmt.Errorf("%w: orders: order cannot be cancelled", domain.ErrPrecondition)

	// ErrInvalidTransition возвращается при недопустимой смене состояния
	ErrInvalidTransition = fmt.Errorf("%w: orders: invalid state transition", domain.ErrPrecondition)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: orders: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: orders: internal error", domain.ErrUnavailable)
)
