package submit_order

import (
	"fmt"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

var (
	// ErrIncompleteDraft возвращается, когда черновик заполнен не полностью
	ErrIncompleteDraft = fmt.Errorf("%w: submit_order: draft is incomplete", domain.ErrPrecondition)

	// ErrDuplicateActiveOrder возвращается, когда у автомобиля уже есть активный заказ
	ErrDuplicateActiveOrder = fmt.Errorf("%w: submit_order", domain.ErrDuplicateActiveOrder)

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = fmt.Errorf("%w: submit_order: date is too far in the future", domain.ErrPrecondition)

	// ErrWashClosed возвращается, когда мойка не работает в указанную дату
	ErrWashClosed = fmt.Errorf("%w: submit_order: wash is closed on this date", domain.ErrPrecondition)

	// ErrInvalidTimeSlot возвращается, когда время вне рабочих часов
	ErrInvalidTimeSlot = fmt.Errorf("%w: submit_order: invalid time slot", domain.ErrPrecondition)

	// ErrTooLateToBook возвращается, когда нарушено minBookingNoticeMinutes
	ErrTooLateToBook = fmt.Errorf("%w: submit_order: too late to book this slot", domain.ErrPrecondition)

	// ErrSlotNotAvailable возвращается, когда все боксы на выбранное время заняты
	ErrSlotNotAvailable = fmt.Errorf("%w: submit_order: slot is not available", domain.ErrPrecondition)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: submit_order: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: submit_order: internal error", domain.ErrUnavailable)
)
