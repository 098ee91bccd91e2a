package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/salora/internal/config"
	"github.com/smallbiznis/salora/internal/price"
	pricedomain "github.com/smallbiznis/salora/internal/price/domain"
	"github.com/smallbiznis/salora/internal/product"
	productdomain "github.com/smallbiznis/salora/internal/product/domain"
	"github.com/smallbiznis/salora/internal/saleprice"
	salepricedomain "github.com/smallbiznis/salora/internal/saleprice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	saleprice.Module,
	price.Module,
	product.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(CurrencyMiddleware(cfg.DefaultCurrency))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, log *zap.Logger) *gin.Engine {
	return NewEngine(cfg, log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	productSvc   productdomain.Service
	priceSvc     pricedomain.Service
	salePriceSvc salepricedomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	ProductSvc   productdomain.Service
	PriceSvc     pricedomain.Service
	SalePriceSvc salepricedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		productSvc:   p.ProductSvc,
		priceSvc:     p.PriceSvc,
		salePriceSvc: p.SalePriceSvc,
	}

	svc.registerCatalogRoutes()

	return svc
}

func (s *Server) registerCatalogRoutes() {
	v1 := s.engine.Group("/v1")

	products := v1.Group("/products")
	products.POST("", s.CreateProduct)
	products.GET("", s.ListProducts)
	products.GET("/:id", s.GetProduct)
	products.POST("/:id/variants", s.AddVariant)
	products.GET("/:id/pricing", s.ProductPricing)
	products.POST("/:id/sale", s.PutProductOnSale)
	products.POST("/:id/sale/enable", s.EnableProductSale)
	products.POST("/:id/sale/disable", s.DisableProductSale)
	products.POST("/:id/sale/start", s.StartProductSale)
	products.POST("/:id/sale/stop", s.StopProductSale)

	prices := v1.Group("/prices")
	prices.POST("", s.CreatePrice)
	prices.GET("/:id", s.GetPrice)
	prices.DELETE("/:id", s.DestroyPrice)
	prices.GET("/:id/pricing", s.PricePricing)
	prices.GET("/:id/sales", s.ListPriceSales)
	prices.POST("/:id/sale", s.PutPriceOnSale)
	prices.POST("/:id/sale/enable", s.EnablePriceSale)
	prices.POST("/:id/sale/disable", s.DisablePriceSale)
	prices.POST("/:id/sale/start", s.StartPriceSale)
	prices.POST("/:id/sale/stop", s.StopPriceSale)

	sales := v1.Group("/sale-prices")
	sales.GET("/:id", s.GetSalePrice)
	sales.DELETE("/:id", s.DeleteSalePrice)
	sales.POST("/:id/enable", s.EnableSalePrice)
	sales.POST("/:id/disable", s.DisableSalePrice)
	sales.POST("/:id/start", s.StartSalePrice)
	sales.POST("/:id/stop", s.StopSalePrice)
}
