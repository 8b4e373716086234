package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeStore struct {
	pingErr error
	pending int
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeStore) PendingReminderCount(ctx context.Context) (int, error) {
	return f.pending, nil
}

func newTestRouter(db statusStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	registerRoutes(router, db, time.Now().Add(-time.Minute))
	return router
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&fakeStore{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "ok", response["status"])
}

func TestHealthEndpoint_StoreDown(t *testing.T) {
	router := newTestRouter(&fakeStore{pingErr: errors.New("database locked")})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "degraded", response["status"])
}

func TestStatusEndpoint(t *testing.T) {
	router := newTestRouter(&fakeStore{pending: 3})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(3), response["pending_reminders"])
	assert.GreaterOrEqual(t, response["uptime_seconds"], float64(60))
}
