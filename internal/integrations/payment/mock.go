package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

var (
	// ErrInvalidAmount сумма должна быть положительной
	ErrInvalidAmount = fmt.Errorf("%w: payment: amount must be positive", domain.ErrValidation)

	// ErrInvalidCard не указана карта
	ErrInvalidCard = fmt.Errorf("%w: payment: card is required", domain.ErrValidation)

	// ErrInternal внутренняя ошибка шлюза
	ErrInternal = errors.New("payment: internal error")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// MockGateway платежный шлюз-заглушка: любое корректное списание успешно
type MockGateway struct {
	now func() time.Time
	log Logger
}

// NewMockGateway создает шлюз-заглушку
func NewMockGateway(log Logger) *MockGateway {
	return &MockGateway{now: time.Now, log: log}
}

// Charge возвращает квитанцию с ulid-идентификатором
func (g *MockGateway) Charge(ctx context.Context, customerID string, amount decimal.Decimal, currency string, card domain.Card) (*domain.PaymentReceipt, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if card.ID == "" {
		return nil, ErrInvalidCard
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCanceled, err)
	}

	receipt := &domain.PaymentReceipt{
		ID:     "pay_" + ulid.Make().String(),
		Amount: amount,
		PaidAt: g.now(),
	}
	g.log.Info("Charge: customer=%s charged %s %s, receipt=%s", customerID, amount.StringFixed(2), currency, receipt.ID)
	return receipt, nil
}
