package submit_order

import (
	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

// Request модель запроса на создание заказа из черновика
type Request struct {
	CustomerID string             // ID клиента
	Draft      *domain.OrderDraft // Заполненный черновик
	PaymentID  string             // ID платежа (пусто, если оплата не требовалась)
}

// Response модель ответа с созданным заказом
type Response struct {
	Order *domain.Order
}
