package currencyctx

import (
	"context"
	"strings"
)

type contextKey struct{}

// WithCurrency stores the storefront display currency on the context.
func WithCurrency(ctx context.Context, currency string) context.Context {
	return context.WithValue(ctx, contextKey{}, strings.ToUpper(strings.TrimSpace(currency)))
}

// CurrencyFromContext returns the display currency carried by the context.
func CurrencyFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(contextKey{}).(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Resolve picks the currency for an operation: an explicit value wins, then
// the request context, then the configured default.
func Resolve(ctx context.Context, explicit, fallback string) string {
	if v := strings.ToUpper(strings.TrimSpace(explicit)); v != "" {
		return v
	}
	if v, ok := CurrencyFromContext(ctx); ok {
		return v
	}
	return strings.ToUpper(strings.TrimSpace(fallback))
}
