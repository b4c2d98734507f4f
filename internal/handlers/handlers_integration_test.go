package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"tyrezone/internal/catalog"
	"tyrezone/internal/handlers"
	"tyrezone/internal/middleware"
	"tyrezone/internal/repositories"
	"tyrezone/internal/services"
	"tyrezone/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))

	// Initialize Repositories
	productRepo := repositories.NewGORMProductRepository(db)
	require.NoError(t, productRepo.Seed(context.Background(), catalog.Tyres()))
	orderRepo := repositories.NewGORMOrderRepository(db)
	contactRepo := repositories.NewMockContactRepository()
	cartStorage := repositories.NewGORMCartStorage(db)

	// Initialize Services
	metrics := services.NewMetrics()
	validate := services.NewValidator()
	pricing := services.DefaultPricingRules()
	sessions := services.NewSessionService("test_session_secret", time.Hour)
	carts := services.NewCartService(cartStorage, productRepo, "cart", pricing, metrics)
	orders := services.NewOrderService(orderRepo, nil)
	checkout := services.NewCheckoutService(carts, orders, services.NewSimulatedGateway(0), pricing, validate, metrics, time.Hour)
	contact := services.NewContactService(contactRepo, validate, 0, metrics)

	app := fiber.New()
	apiV1 := app.Group("/api/v1", middleware.Session(sessions, false))
	handlers.NewSessionHandler(sessions, false).RegisterRoutes(apiV1)
	handlers.NewProductHandler(services.NewProductService(productRepo)).RegisterRoutes(apiV1)
	handlers.NewCartHandler(carts, validate).RegisterRoutes(apiV1)
	handlers.NewCheckoutHandler(checkout).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orders).RegisterRoutes(apiV1)
	handlers.NewContactHandler(contact).RegisterRoutes(apiV1)
	return app
}

// client remembers the session token the server hands out.
type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func (c *client) do(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.app.Test(req, -1) // -1 for no timeout
	require.NoError(c.t, err)
	if token := resp.Header.Get(middleware.SessionHeader); token != "" {
		c.token = token
	}

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	var decoded map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(c.t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func (c *client) list(path string) []map[string]interface{} {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	require.Equal(c.t, http.StatusOK, resp.StatusCode)

	var out []map[string]interface{}
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func ids(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.(map[string]interface{})["id"].(string))
	}
	return out
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	logger.Discard()
	os.Exit(m.Run())
}

func TestProductEndpoints(t *testing.T) {
	c := &client{t: t, app: setupApp(t)}

	resp, body := c.do(http.MethodGet, "/api/v1/products?category=winter&sort=price-low", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"3"}, ids(body["products"].([]interface{})))

	resp, body = c.do(http.MethodGet, "/api/v1/products?brands=TyreMax,WildTrail&inStock=true&sort=price-high", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"8", "4", "1"}, ids(body["products"].([]interface{})))
	assert.Equal(t, float64(3), body["count"])

	resp, body = c.do(http.MethodGet, "/api/v1/products?sort=bogus", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8"}, ids(body["products"].([]interface{})))

	resp, _ = c.do(http.MethodGet, "/api/v1/products?category=snow", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = c.do(http.MethodGet, "/api/v1/products/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "RoadMaster Pro AS", body["name"])
	assert.Equal(t, true, body["onSale"])
	assert.Equal(t, float64(17), body["discountPercent"])

	resp, body = c.do(http.MethodGet, "/api/v1/products/99", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Product Not Found", body["message"])
	assert.Equal(t, "/shop", body["back"])

	related := c.list("/api/v1/products/3/related")
	assert.Len(t, related, 3)

	featured := c.list("/api/v1/products/featured")
	assert.Len(t, featured, 4)

	resp, body = c.do(http.MethodGet, "/api/v1/products/facets", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["categories"], 5)
	assert.Len(t, body["brands"], 7)
}

func TestCartEndpoints(t *testing.T) {
	c := &client{t: t, app: setupApp(t)}

	resp, body := c.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"productId": "1", "quantity": 2})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, c.token)

	resp, body = c.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"productId": "2"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(3), body["itemCount"])
	assert.Equal(t, "519.97", body["subtotal"])
	assert.Equal(t, "0", body["shipping"])

	resp, body = c.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"productId": "6", "quantity": 1})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body["error"], "out of stock")

	resp, _ = c.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"productId": "42", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = c.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", body["message"])

	resp, body = c.do(http.MethodPatch, "/api/v1/cart/items/1", map[string]interface{}{"quantity": 0})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["itemCount"])

	resp, body = c.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "219.99", body["subtotal"])
	assert.Equal(t, "29.99", body["shipping"])
	assert.Equal(t, "249.98", body["total"])

	resp, body = c.do(http.MethodDelete, "/api/v1/cart/items/2", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["itemCount"])

	// another visitor has an empty cart
	other := &client{t: t, app: c.app}
	_, body = other.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, float64(0), body["itemCount"])
}

func TestCheckoutFlow(t *testing.T) {
	c := &client{t: t, app: setupApp(t)}

	resp, body := c.do(http.MethodGet, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "shipping", body["step"])

	resp, _ = c.do(http.MethodPost, "/api/v1/checkout/continue", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"productId": "4", "quantity": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = c.do(http.MethodPut, "/api/v1/checkout/shipping", map[string]interface{}{"email": "bad"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = c.do(http.MethodPost, "/api/v1/checkout/continue", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", body["message"])
	assert.Contains(t, body["errors"], "email")

	resp, _ = c.do(http.MethodPost, "/api/v1/checkout/submit", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = c.do(http.MethodPut, "/api/v1/checkout/shipping", map[string]interface{}{
		"email": "driver@example.com", "firstName": "Sam", "lastName": "Rivera",
		"address": "12 Ring Road", "city": "Springfield", "state": "IL", "zipCode": "62701",
		"shippingMethod": "express",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = c.do(http.MethodPost, "/api/v1/checkout/continue", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "payment", body["step"])

	resp, body = c.do(http.MethodPut, "/api/v1/checkout/payment", map[string]interface{}{
		"cardNumber": "4242424242424242", "cardName": "Sam Rivera",
		"expiry": fmt.Sprintf("12/%02d", (time.Now().Year()+2)%100), "cvv": "123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "4242", body["cardLast4"])
	assert.NotContains(t, body, "cardNumber")

	resp, body = c.do(http.MethodPost, "/api/v1/checkout/continue", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "review", body["step"])
	quote := body["quote"].(map[string]interface{})
	assert.Equal(t, "559.98", quote["subtotal"])
	assert.Equal(t, "49.99", quote["shipping"])
	assert.Equal(t, "44.8", quote["tax"])
	assert.Equal(t, "654.77", quote["total"])

	resp, body = c.do(http.MethodPost, "/api/v1/checkout/submit", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	order := body["order"].(map[string]interface{})
	orderID := order["id"].(string)
	assert.Equal(t, "654.77", order["total_amount"])

	resp, body = c.do(http.MethodGet, "/api/v1/checkout", nil)
	assert.Equal(t, "placed", body["step"])
	assert.Equal(t, orderID, body["orderId"])
	assert.Equal(t, float64(0), body["cart"].(map[string]interface{})["itemCount"])

	resp, _ = c.do(http.MethodPost, "/api/v1/checkout/back", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = c.do(http.MethodGet, "/api/v1/orders/"+orderID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "placed", body["status"])

	orders := c.list("/api/v1/orders")
	assert.Len(t, orders, 1)

	resp, body = c.do(http.MethodPatch, "/api/v1/orders/"+orderID+"/status", map[string]interface{}{"status": "cancelled"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = c.do(http.MethodPatch, "/api/v1/orders/"+orderID+"/status", map[string]interface{}{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// orders are private to their session
	other := &client{t: t, app: c.app}
	resp, _ = other.do(http.MethodGet, "/api/v1/orders/"+orderID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = c.do(http.MethodPost, "/api/v1/checkout/restart", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "shipping", body["step"])
}

func TestCheckoutDeclinedCard(t *testing.T) {
	c := &client{t: t, app: setupApp(t)}

	c.do(http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"productId": "5", "quantity": 1})
	c.do(http.MethodPut, "/api/v1/checkout/shipping", map[string]interface{}{
		"email": "driver@example.com", "firstName": "Sam", "lastName": "Rivera",
		"address": "12 Ring Road", "city": "Springfield", "state": "IL", "zipCode": "62701",
	})
	c.do(http.MethodPost, "/api/v1/checkout/continue", nil)
	c.do(http.MethodPut, "/api/v1/checkout/payment", map[string]interface{}{
		"cardNumber": services.DeclinedTestCard, "cardName": "Sam Rivera",
		"expiry": fmt.Sprintf("12/%02d", (time.Now().Year()+2)%100), "cvv": "123",
	})
	_, body := c.do(http.MethodPost, "/api/v1/checkout/continue", nil)
	require.Equal(t, "review", body["step"])

	resp, body := c.do(http.MethodPost, "/api/v1/checkout/submit", nil)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	assert.Contains(t, body["error"], "payment declined")

	_, body = c.do(http.MethodGet, "/api/v1/checkout", nil)
	assert.Equal(t, "review", body["step"])
	assert.NotEmpty(t, body["lastFailure"])
}

func TestContactEndpoint(t *testing.T) {
	c := &client{t: t, app: setupApp(t)}

	resp, body := c.do(http.MethodPost, "/api/v1/contact", map[string]interface{}{
		"name": "Alex", "email": "alex@example.com", "subject": "Fitting", "message": "Saturday?",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["id"])

	resp, body = c.do(http.MethodPost, "/api/v1/contact", map[string]interface{}{"name": "Alex"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["errors"], "email")
}

func TestSessionEndpoints(t *testing.T) {
	c := &client{t: t, app: setupApp(t)}

	_, body := c.do(http.MethodGet, "/api/v1/session", nil)
	first := body["sessionId"]
	require.NotEmpty(t, first)

	_, body = c.do(http.MethodGet, "/api/v1/session", nil)
	assert.Equal(t, first, body["sessionId"])

	resp, body := c.do(http.MethodPost, "/api/v1/session", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEqual(t, first, body["sessionId"])

	_, body = c.do(http.MethodGet, "/api/v1/session", nil)
	assert.NotEqual(t, first, body["sessionId"])
}
