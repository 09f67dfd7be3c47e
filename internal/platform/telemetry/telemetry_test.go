package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ridloal/supermarket-management/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(config.TelemetryConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestWrapHandler(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("Disabled returns the handler untouched", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WrapHandler(config.TelemetryConfig{}, h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("Enabled still serves", func(t *testing.T) {
		cfg := config.TelemetryConfig{TracingEnabled: true, ServiceName: "test"}
		rec := httptest.NewRecorder()
		WrapHandler(cfg, h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})
}
