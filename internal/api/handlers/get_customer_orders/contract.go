package get_customer_orders

import (
	"context"

	"github.com/m04kA/SMC-OrderFlow/internal/service/orders/models"
)

type OrderService interface {
	GetCustomerOrders(ctx context.Context, req *models.GetCustomerOrdersRequest) (*models.OrderListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
