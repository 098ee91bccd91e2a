package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "$19.99", Format(decimal.NewFromFloat(19.99), "USD"))
	assert.Equal(t, "€5.00", Format(decimal.NewFromInt(5), "eur"))
	assert.Equal(t, "¥1200", Format(decimal.NewFromInt(1200), "JPY"))
	assert.Equal(t, "CHF 9.90", Format(decimal.NewFromFloat(9.9), "CHF"))
}
