package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/salora/internal/currencyctx"
	"go.uber.org/zap"
)

// CurrencyMiddleware stores the request's display currency on the context.
// The `currency` query parameter wins, then the X-Currency header, then the
// configured default.
func CurrencyMiddleware(fallback string) gin.HandlerFunc {
	return func(c *gin.Context) {
		currency := strings.TrimSpace(c.Query("currency"))
		if currency == "" {
			currency = strings.TrimSpace(c.GetHeader("X-Currency"))
		}
		if currency == "" {
			currency = fallback
		}
		ctx := currencyctx.WithCurrency(c.Request.Context(), currency)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if lastErr := c.Errors.Last(); lastErr != nil {
			fields = append(fields, zap.Error(lastErr.Err))
		}

		if c.Writer.Status() >= 500 {
			log.Error("request", fields...)
			return
		}
		log.Info("request", fields...)
	}
}
