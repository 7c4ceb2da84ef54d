package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comanda-dashboard-backend/internal/notification"
)

func setupSubscriptionRouter() *gin.Engine {
	r := gin.New()
	handler := NewHandler(Deps{Subscriptions: notification.NewSubscriptions()})
	r.PUT("/api/subscriptions", handler.PutSubscription)
	r.GET("/api/vapid_public_key", handler.GetVAPIDPublicKey)
	return r
}

func TestPutSubscription(t *testing.T) {
	router := setupSubscriptionRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/subscriptions", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())
}

func TestGetVAPIDPublicKey_NotConfigured(t *testing.T) {
	router := setupSubscriptionRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/vapid_public_key", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSubscriptionLifecycle(t *testing.T) {
	s := newTestServer(t)
	endpoint := "https://push.example/send/abc?x=1"
	query := "/api/subscriptions?endpoint=" + url.QueryEscape(endpoint)

	w := s.do(t, http.MethodPut, "/api/subscriptions", map[string]any{"endpoint": endpoint, "p256dh": "key", "auth": "secret"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, query, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"p256dh":"key"`)

	w = s.do(t, http.MethodDelete, "/api/subscriptions", map[string]any{"endpoint": endpoint})
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, query, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/subscriptions", nil).Code)

	w = s.do(t, http.MethodGet, "/api/vapid_public_key", nil)
	assert.JSONEq(t, `{"public_key":"BPublicKey"}`, w.Body.String())
}
