package payment

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/pkg/logger"
)

func TestMockGateway_Charge(t *testing.T) {
	g := NewMockGateway(logger.NewNop())
	ctx := context.Background()

	receipt, err := g.Charge(ctx, "42", decimal.NewFromInt(170), "TRY", domain.Card{ID: "card-1"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt.ID, "pay_"))
	assert.True(t, receipt.Amount.Equal(decimal.NewFromInt(170)))

	other, err := g.Charge(ctx, "42", decimal.NewFromInt(170), "TRY", domain.Card{ID: "card-1"})
	require.NoError(t, err)
	assert.NotEqual(t, receipt.ID, other.ID)

	_, err = g.Charge(ctx, "42", decimal.Zero, "TRY", domain.Card{ID: "card-1"})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = g.Charge(ctx, "42", decimal.NewFromInt(1), "TRY", domain.Card{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
