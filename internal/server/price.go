package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	pricedomain "github.com/smallbiznis/salora/internal/price/domain"
)

type createPriceRequest struct {
	VariantID string          `json:"variant_id"`
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
}

func (s *Server) CreatePrice(c *gin.Context) {
	var req createPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.priceSvc.Create(c.Request.Context(), pricedomain.CreateRequest{
		VariantID: req.VariantID,
		Currency:  req.Currency,
		Amount:    req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPrice(c *gin.Context) {
	resp, err := s.priceSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DestroyPrice(c *gin.Context) {
	if err := s.priceSvc.Destroy(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// pricingView augments the pricing read model with storefront display
// strings.
type pricingView struct {
	*pricedomain.PricingResponse
	DisplayPrice           string `json:"display_price"`
	DisplayOriginalPrice   string `json:"display_original_price"`
	DisplayDiscountPercent string `json:"display_discount_percent,omitempty"`
}

func newPricingView(p *pricedomain.PricingResponse) pricingView {
	return pricingView{
		PricingResponse:        p,
		DisplayPrice:           DisplayPrice(p),
		DisplayOriginalPrice:   DisplayOriginalPrice(p),
		DisplayDiscountPercent: DisplayDiscountPercent(p.DiscountPercent),
	}
}

func (s *Server) PricePricing(c *gin.Context) {
	resp, err := s.priceSvc.Pricing(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newPricingView(resp)})
}

func (s *Server) ListPriceSales(c *gin.Context) {
	resp, err := s.priceSvc.ListSales(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type putPriceOnSaleRequest struct {
	Value          decimal.Decimal `json:"value"`
	CalculatorKind string          `json:"calculator_kind"`
	StartAt        *time.Time      `json:"start_at"`
	EndAt          *time.Time      `json:"end_at"`
	Enabled        *bool           `json:"enabled"`
}

func (s *Server) PutPriceOnSale(c *gin.Context) {
	var req putPriceOnSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.priceSvc.PutOnSale(c.Request.Context(), c.Param("id"), pricedomain.PutOnSaleRequest{
		Value:          req.Value,
		CalculatorKind: req.CalculatorKind,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		Enabled:        req.Enabled,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	recordSaleOp("price", "put_on_sale")
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) EnablePriceSale(c *gin.Context) {
	s.priceSaleTransition(c, "enable", s.priceSvc.EnableSale)
}

func (s *Server) DisablePriceSale(c *gin.Context) {
	s.priceSaleTransition(c, "disable", s.priceSvc.DisableSale)
}

func (s *Server) StartPriceSale(c *gin.Context) {
	var req struct {
		EndAt *time.Time `json:"end_at"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	if err := s.priceSvc.StartSale(c.Request.Context(), c.Param("id"), req.EndAt); err != nil {
		AbortWithError(c, err)
		return
	}

	recordSaleOp("price", "start")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) StopPriceSale(c *gin.Context) {
	s.priceSaleTransition(c, "stop", s.priceSvc.StopSale)
}

func (s *Server) priceSaleTransition(c *gin.Context, op string, fn func(ctx context.Context, id string) error) {
	if err := fn(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	recordSaleOp("price", op)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
