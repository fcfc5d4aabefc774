package update_order_state

import (
	"context"

	"github.com/m04kA/SMC-OrderFlow/internal/service/orders/models"
)

type OrderService interface {
	UpdateState(ctx context.Context, orderID string, req *models.UpdateStateRequest) (*models.OrderResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
