package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tintpro-backend/controllers"
	"tintpro-backend/models"
	"tintpro-backend/services"
	"tintpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticCatalog map[models.VehicleCategory][]models.ServiceItem

func (s staticCatalog) FetchServices(_ context.Context, v models.VehicleCategory) []models.ServiceItem {
	return append([]models.ServiceItem{}, s[v]...)
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ref := "SQ-CF"
	catalog := staticCatalog{
		models.VehicleSedan: {
			{ID: 1, Name: "Carbon Front", Price: 150, Category: models.TintCarbon, ExternalBookingRef: &ref},
			{ID: 2, Name: "Ceramic Full", Price: 450, Category: models.TintCeramic},
		},
		models.VehicleSUV: {
			{ID: 5, Name: "Carbon Full", Price: 320, Category: models.TintCarbon},
		},
	}
	sessions := services.NewSessionManager(services.CartDeps{
		Catalog:        catalog,
		BookingBaseURL: "https://book.example.com/shop",
	})

	return SetupRouter(RouterDeps{
		Booking:           controllers.NewBookingController(sessions),
		Services:          controllers.NewServiceController(catalog),
		Sessions:          utils.NewSessionTokens("test-secret", time.Hour),
		Logger:            zap.NewNop(),
		AllowedOrigins:    []string{"http://localhost:5173"},
		MaxRequestsPerMin: 1000,
	})
}

type client struct {
	t     *testing.T
	r     *gin.Engine
	token string
}

func (c *client) do(method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(utils.SessionHeader, c.token)
	}

	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	if tok := w.Header().Get(utils.SessionHeader); tok != "" {
		c.token = tok
	}

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestHealth(t *testing.T) {
	c := &client{t: t, r: testRouter(t)}
	w, body := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestGetServices(t *testing.T) {
	c := &client{t: t, r: testRouter(t)}

	w, body := c.do(http.MethodGet, "/api/services?vehicle=sedan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["services"], 2)
	assert.Len(t, body["carbonServices"], 1)
	assert.Len(t, body["ceramicServices"], 1)

	w, body = c.do(http.MethodGet, "/api/services?vehicle=coupe", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["services"])

	w, _ = c.do(http.MethodGet, "/api/services?vehicle=truck", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingFlow(t *testing.T) {
	c := &client{t: t, r: testRouter(t)}

	w, body := c.do(http.MethodGet, "/api/booking", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, c.token)
	assert.Equal(t, "selection", body["view"])
	assert.Equal(t, "sedan", body["vehicleCategory"])
	assert.Len(t, body["carbonServices"], 1)

	w, _ = c.do(http.MethodPost, "/api/booking/proceed", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	_, body = c.do(http.MethodGet, "/api/booking", nil)
	assert.Equal(t, "selection", body["view"])

	w, body = c.do(http.MethodPost, "/api/booking/cart/toggle", gin.H{"id": 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["selected"])
	w, _ = c.do(http.MethodPost, "/api/booking/cart/toggle", gin.H{"name": "Ceramic Full", "category": "ceramic"})
	require.Equal(t, http.StatusOK, w.Code)

	_, body = c.do(http.MethodGet, "/api/booking/total", nil)
	assert.Equal(t, 600.0, body["total"])

	w, body = c.do(http.MethodPost, "/api/booking/cart/toggle", gin.H{"id": 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["selected"])
	_, body = c.do(http.MethodGet, "/api/booking/total", nil)
	assert.Equal(t, 450.0, body["total"])

	_, _ = c.do(http.MethodPost, "/api/booking/cart/toggle", gin.H{"id": 1})
	w, body = c.do(http.MethodPost, "/api/booking/proceed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "booking", body["view"])
	// first cart entry is the ceramic item, which has no booking reference
	assert.Equal(t, "https://book.example.com/shop", body["bookingUrl"])

	w, body = c.do(http.MethodPost, "/api/booking/return", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "selection", body["view"])
	assert.Len(t, body["cart"], 2)

	w, body = c.do(http.MethodPut, "/api/booking/vehicle", gin.H{"vehicle": "suv"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["cart"])
	assert.Equal(t, 0.0, body["total"])
	assert.Len(t, body["carbonServices"], 1)

	w, body = c.do(http.MethodPut, "/api/booking/mode", gin.H{"mode": "mobile"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mobile", body["serviceMode"])
}

func TestBookingURLUsesFirstItemReference(t *testing.T) {
	c := &client{t: t, r: testRouter(t)}
	c.do(http.MethodPost, "/api/booking/cart/toggle", gin.H{"id": 1})
	c.do(http.MethodPost, "/api/booking/cart/toggle", gin.H{"id": 2})

	_, body := c.do(http.MethodPost, "/api/booking/proceed", nil)
	assert.Equal(t, "https://book.example.com/shop?serviceId=SQ-CF", body["bookingUrl"])
}

func TestBookingValidation(t *testing.T) {
	c := &client{t: t, r: testRouter(t)}

	w, _ := c.do(http.MethodPut, "/api/booking/vehicle", gin.H{"vehicle": "truck"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = c.do(http.MethodPut, "/api/booking/mode", gin.H{"mode": "drone"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = c.do(http.MethodPost, "/api/booking/cart/toggle", gin.H{"name": "Carbon Front"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = c.do(http.MethodPost, "/api/booking/cart/toggle", gin.H{"id": 99})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	r := testRouter(t)
	alice := &client{t: t, r: r}
	bob := &client{t: t, r: r}

	alice.do(http.MethodPost, "/api/booking/cart/toggle", gin.H{"id": 2})
	_, body := bob.do(http.MethodGet, "/api/booking/total", nil)
	assert.Equal(t, 0.0, body["total"])

	_, body = alice.do(http.MethodGet, "/api/booking/total", nil)
	assert.Equal(t, 450.0, body["total"])
}
