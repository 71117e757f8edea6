package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	taskerhttp "github.com/sagarc03/tasker/http"
)

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	router, service := newRouter(t, taskerhttp.HandlerConfig{
		Metrics:     taskerhttp.NewMetrics(),
		MetricsPath: "/metrics",
	})

	service.On("TaskExists", mock.Anything, "t1", "u1").Return(true, nil)
	service.On("DeleteTask", mock.Anything, "t1", "u1").Return(nil)

	rec := do(router, http.MethodDelete, "/todos/t1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequestWithContext(context.Background(), http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, `route="/todos/{taskId}`)
	assert.NotContains(t, body, `route="/todos/t1"`)
	assert.Contains(t, body, "http_in_flight_requests")
	assert.Contains(t, body, "go_goroutines")
}

func TestMetrics_DisabledPath(t *testing.T) {
	router, _ := newRouter(t, taskerhttp.HandlerConfig{Metrics: taskerhttp.NewMetrics()})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
