package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/salora/internal/clock"
	"github.com/smallbiznis/salora/internal/config"
	pricedomain "github.com/smallbiznis/salora/internal/price/domain"
	pricerepo "github.com/smallbiznis/salora/internal/price/repository"
	pricesvc "github.com/smallbiznis/salora/internal/price/service"
	productdomain "github.com/smallbiznis/salora/internal/product/domain"
	productrepo "github.com/smallbiznis/salora/internal/product/repository"
	productsvc "github.com/smallbiznis/salora/internal/product/service"
	salepricedomain "github.com/smallbiznis/salora/internal/saleprice/domain"
	salepricerepo "github.com/smallbiznis/salora/internal/saleprice/repository"
	salepricesvc "github.com/smallbiznis/salora/internal/saleprice/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupServerTest(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&productdomain.Product{},
		&productdomain.Variant{},
		&pricedomain.Price{},
		&salepricedomain.SalePrice{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()
	cfg := config.Config{Environment: "test", DefaultCurrency: "USD"}

	sales := salepricerepo.Provide()
	prices := pricerepo.Provide()

	saleService := salepricesvc.New(salepricesvc.Params{
		DB:    db,
		Log:   log,
		Clock: fc,
		Repo:  sales,
	})
	ops := pricesvc.NewSaleOps(pricesvc.SaleOpsParams{
		Log:   log,
		Clock: fc,
		GenID: node,
		Sales: sales,
	})
	priceService := pricesvc.New(pricesvc.Params{
		DB:      db,
		Log:     log,
		Clock:   fc,
		GenID:   node,
		Repo:    prices,
		Sales:   sales,
		SaleOps: ops,
	})
	productService := productsvc.New(productsvc.Params{
		DB:       db,
		Log:      log,
		Cfg:      cfg,
		Clock:    fc,
		GenID:    node,
		Repo:     productrepo.Provide(sales),
		Prices:   prices,
		PriceSvc: priceService,
		SaleOps:  ops,
	})

	engine := NewEngine(cfg, log)
	NewServer(ServerParams{
		Gin:          engine,
		Cfg:          cfg,
		ProductSvc:   productService,
		PriceSvc:     priceService,
		SalePriceSvc: saleService,
	})
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var parsed map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	}
	return rec, parsed
}

func TestProductSaleLifecycleOverHTTP(t *testing.T) {
	engine := setupServerTest(t)

	rec, body := doJSON(t, engine, http.MethodPost, "/v1/products",
		`{"name":"Classic Tee","amount":"19.99"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	product := body["data"].(map[string]any)
	productID := product["id"].(string)
	assert.Equal(t, "classic-tee", product["slug"])

	rec, body = doJSON(t, engine, http.MethodPost, "/v1/products/"+productID+"/sale",
		`{"value":"15.99"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := body["data"].([]any)
	require.Len(t, created, 1)
	saleID := created[0].(map[string]any)["id"].(string)

	rec, body = doJSON(t, engine, http.MethodGet, "/v1/products/"+productID+"/pricing", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	pricing := body["data"].(map[string]any)
	assert.Equal(t, true, pricing["on_sale"])
	assert.Equal(t, "$15.99", pricing["display_price"])
	assert.Equal(t, "$19.99", pricing["display_original_price"])
	assert.Equal(t, "20% Off", pricing["display_discount_percent"])

	rec, _ = doJSON(t, engine, http.MethodDelete, "/v1/sale-prices/"+saleID, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body = doJSON(t, engine, http.MethodGet, "/v1/products/"+productID+"/pricing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	pricing = body["data"].(map[string]any)
	assert.Equal(t, false, pricing["on_sale"])
	assert.Equal(t, "$19.99", pricing["display_price"])
}

func TestCatalogSortOverHTTP(t *testing.T) {
	engine := setupServerTest(t)

	var ids []string
	for _, item := range []string{`{"name":"Product A","amount":"20"}`, `{"name":"Product B","amount":"10"}`, `{"name":"Product C","amount":"15"}`} {
		rec, body := doJSON(t, engine, http.MethodPost, "/v1/products", item)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		ids = append(ids, body["data"].(map[string]any)["id"].(string))
	}

	rec, body := doJSON(t, engine, http.MethodPost, "/v1/products/"+ids[0]+"/sale", `{"value":"5"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body = doJSON(t, engine, http.MethodGet, "/v1/products?sort=effective_price", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	items := body["data"].([]any)
	require.Len(t, items, 3)
	got := []string{
		items[0].(map[string]any)["id"].(string),
		items[1].(map[string]any)["id"].(string),
		items[2].(map[string]any)["id"].(string),
	}
	assert.Equal(t, []string{ids[0], ids[1], ids[2]}, got)
}

func TestValidationAndNotFoundMapping(t *testing.T) {
	engine := setupServerTest(t)

	rec, _ := doJSON(t, engine, http.MethodPost, "/v1/products", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, engine, http.MethodGet, "/v1/products/123456789", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body := doJSON(t, engine, http.MethodPost, "/v1/prices/abc/sale", `{"value":"5"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	payload := body["error"].(map[string]any)
	assert.Equal(t, "validation_error", payload["type"])
}

func TestUnknownCalculatorIsValidationError(t *testing.T) {
	engine := setupServerTest(t)

	rec, body := doJSON(t, engine, http.MethodPost, "/v1/products",
		`{"name":"Classic Tee","amount":"19.99"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	productID := body["data"].(map[string]any)["id"].(string)

	rec, body = doJSON(t, engine, http.MethodPost, "/v1/products/"+productID+"/sale",
		`{"value":"5","calculator_kind":"half_off"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	payload := body["error"].(map[string]any)
	assert.Equal(t, "validation_error", payload["type"])
	detail := payload["errors"].([]any)[0].(map[string]any)
	assert.Equal(t, "unknown_calculator", detail["code"])
	assert.Equal(t, "calculator_kind", detail["field"])

	rec, body = doJSON(t, engine, http.MethodGet, "/v1/products/"+productID+"/pricing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	pricing := body["data"].(map[string]any)
	assert.Equal(t, false, pricing["on_sale"])
}

func TestHealthEndpoint(t *testing.T) {
	engine := setupServerTest(t)

	rec, body := doJSON(t, engine, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}
