package booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

var (
	// ErrDraftInProgress Start вызван, пока предыдущее бронирование не завершено
	ErrDraftInProgress = fmt.Errorf("%w: booking: another booking is in progress", domain.ErrPrecondition)

	// ErrOperationInProgress предыдущая операция еще выполняется
	ErrOperationInProgress = fmt.Errorf("%w: booking: operation in progress", domain.ErrPrecondition)

	// ErrNotAuthenticated нет идентификатора клиента
	ErrNotAuthenticated = fmt.Errorf("%w: booking: customer is not authenticated", domain.ErrPrecondition)

	// ErrUnknownVehicle автомобиль не принадлежит клиенту
	ErrUnknownVehicle = fmt.Errorf("%w: booking: unknown vehicle", domain.ErrValidation)

	// ErrUnknownAddress адрес не принадлежит клиенту
	ErrUnknownAddress = fmt.Errorf("%w: booking: unknown address", domain.ErrValidation)

	// ErrUnknownService услуги нет в каталоге
	ErrUnknownService = fmt.Errorf("%w: booking: unknown service", domain.ErrValidation)

	// ErrServiceNotSelected услуга не была выбрана
	ErrServiceNotSelected = fmt.Errorf("%w: booking: service is not selected", domain.ErrValidation)

	// ErrInvalidDate дата в прошлом
	ErrInvalidDate = fmt.Errorf("%w: booking: date must be today or later", domain.ErrValidation)

	// ErrInvalidTime время не в формате HH:MM или не на сетке слотов
	ErrInvalidTime = fmt.Errorf("%w: booking: invalid slot time", domain.ErrValidation)

	// ErrCollaborator внешний сервис недоступен
	ErrCollaborator = fmt.Errorf("%w: booking: collaborator call failed", domain.ErrUnavailable)

	// ErrPaymentFailed платеж не прошел
	ErrPaymentFailed = fmt.Errorf("%w: booking: payment failed", domain.ErrUnavailable)

	// ErrCanceled ответ пришел после отмены бронирования и был отброшен
	ErrCanceled = fmt.Errorf("%w: booking: response discarded", domain.ErrCanceled)
)

// GuardError переход запрещен условием перехода; состояние не изменилось
type GuardError struct {
	From   State
	To     State
	Reason string
	Err    error
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("booking: cannot move from %s to %s: %s", e.From, e.To, e.Reason)
}

func (e *GuardError) Unwrap() []error {
	if e.Err != nil {
		return []error{domain.ErrPrecondition, e.Err}
	}
	return []error{domain.ErrPrecondition}
}

// AsGuardError извлекает *GuardError из err
func AsGuardError(err error) (*GuardError, bool) {
	var ge *GuardError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}
