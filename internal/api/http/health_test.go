package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHealthHandler("opencollab-web", "1.0.0", nil).RegisterRoutes(router)

	for _, path := range []string{"/health", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, path)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "opencollab-web", resp.Service)
		assert.Equal(t, "1.0.0", resp.Version)
		assert.Equal(t, "disabled", resp.Backend)
		assert.False(t, resp.Timestamp.IsZero())
	}
}
