package currencyctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePrecedence(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "USD", Resolve(ctx, "", "usd"))
	assert.Equal(t, "EUR", Resolve(ctx, " eur ", "USD"))

	ctx = WithCurrency(ctx, "idr")
	assert.Equal(t, "IDR", Resolve(ctx, "", "USD"))
	assert.Equal(t, "GBP", Resolve(ctx, "GBP", "USD"))
}

func TestCurrencyFromContext(t *testing.T) {
	_, ok := CurrencyFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithCurrency(context.Background(), "jpy")
	got, ok := CurrencyFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "JPY", got)
}
