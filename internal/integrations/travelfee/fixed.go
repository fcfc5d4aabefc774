package travelfee

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

// Fixed возвращает одинаковую стоимость выезда для любого адреса
type Fixed struct {
	fee decimal.Decimal
}

// NewFixed создает калькулятор с фиксированной стоимостью
func NewFixed(fee decimal.Decimal) *Fixed {
	if fee.IsNegative() {
		fee = decimal.Zero
	}
	return &Fixed{fee: fee}
}

// Quote стоимость выезда на адрес
func (f *Fixed) Quote(ctx context.Context, address domain.Address) (decimal.Decimal, error) {
	return f.fee, nil
}
