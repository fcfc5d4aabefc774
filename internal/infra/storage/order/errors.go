package order

import (
	"fmt"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

var (
	// ErrOrderNotFound возвращается, когда заказ не найден
	ErrOrderNotFound = fmt.Errorf("%w: order.repository: order not found", domain.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = fmt.Errorf("order.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = fmt.Errorf("order.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = fmt.Errorf("order.repository: failed to scan row")

	// ErrInvalidState возвращается при попытке установить недопустимое состояние
	ErrInvalidState = fmt.Errorf("%w: order.repository: invalid order state", domain.ErrValidation)
)
