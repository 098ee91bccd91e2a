package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	productdomain "github.com/smallbiznis/salora/internal/product/domain"
)

type createProductRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Metadata    map[string]any  `json:"metadata"`
	SKU         string          `json:"sku"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), productdomain.CreateRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Metadata:    req.Metadata,
		SKU:         strings.TrimSpace(req.SKU),
		Currency:    req.Currency,
		Amount:      req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProduct(c *gin.Context) {
	resp, err := s.productSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		SortBy:   c.Query("sort"),
		OrderBy:  c.Query("order"),
		Currency: c.Query("currency"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type addVariantRequest struct {
	SKU      string          `json:"sku"`
	Position int32           `json:"position"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

func (s *Server) AddVariant(c *gin.Context) {
	var req addVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.AddVariant(c.Request.Context(), c.Param("id"), productdomain.AddVariantRequest{
		SKU:      strings.TrimSpace(req.SKU),
		Position: req.Position,
		Currency: req.Currency,
		Amount:   req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ProductPricing(c *gin.Context) {
	resp, err := s.productSvc.Pricing(c.Request.Context(), c.Param("id"), c.Query("currency"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newPricingView(resp)})
}

type saleSelectorRequest struct {
	AllVariants *bool    `json:"all_variants"`
	VariantIDs  []string `json:"variant_ids"`
	Currency    string   `json:"currency"`
}

func (r saleSelectorRequest) toSelector() productdomain.SaleSelector {
	return productdomain.SaleSelector{
		AllVariants: r.AllVariants,
		VariantIDs:  r.VariantIDs,
		Currency:    r.Currency,
	}
}

type putProductOnSaleRequest struct {
	Value          decimal.Decimal `json:"value"`
	CalculatorKind string          `json:"calculator_kind"`
	StartAt        *time.Time      `json:"start_at"`
	EndAt          *time.Time      `json:"end_at"`
	Enabled        *bool           `json:"enabled"`
	saleSelectorRequest
}

func (s *Server) PutProductOnSale(c *gin.Context) {
	var req putProductOnSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productSvc.PutOnSale(c.Request.Context(), c.Param("id"), productdomain.PutOnSaleRequest{
		Value:          req.Value,
		CalculatorKind: req.CalculatorKind,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		Enabled:        req.Enabled,
		SaleSelector:   req.toSelector(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	recordSaleOp("product", "put_on_sale")
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) EnableProductSale(c *gin.Context) {
	s.productSaleTransition(c, "enable", func(sel productdomain.SaleSelector) error {
		return s.productSvc.EnableSale(c.Request.Context(), c.Param("id"), sel)
	})
}

func (s *Server) DisableProductSale(c *gin.Context) {
	s.productSaleTransition(c, "disable", func(sel productdomain.SaleSelector) error {
		return s.productSvc.DisableSale(c.Request.Context(), c.Param("id"), sel)
	})
}

func (s *Server) StartProductSale(c *gin.Context) {
	var req struct {
		EndAt *time.Time `json:"end_at"`
		saleSelectorRequest
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	if err := s.productSvc.StartSale(c.Request.Context(), c.Param("id"), req.EndAt, req.toSelector()); err != nil {
		AbortWithError(c, err)
		return
	}

	recordSaleOp("product", "start")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) StopProductSale(c *gin.Context) {
	s.productSaleTransition(c, "stop", func(sel productdomain.SaleSelector) error {
		return s.productSvc.StopSale(c.Request.Context(), c.Param("id"), sel)
	})
}

func (s *Server) productSaleTransition(c *gin.Context, op string, fn func(productdomain.SaleSelector) error) {
	var req saleSelectorRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	if err := fn(req.toSelector()); err != nil {
		AbortWithError(c, err)
		return
	}

	recordSaleOp("product", op)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
