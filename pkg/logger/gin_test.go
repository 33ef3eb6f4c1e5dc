package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RequestIDAndSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	r := gin.New()
	r.Use(Middleware(NewWithWriter(&buf, "test")))
	r.GET("/me", func(c *gin.Context) {
		c.Set(SubjectKey, "u-1000")
		assert.Same(t, FromGin(c), From(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(headerRequestID, "rid-1")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rid-1", w.Header().Get(headerRequestID))

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "request", line["msg"])
	assert.Equal(t, "rid-1", line["request_id"])
	assert.Equal(t, "/me", line["path"])
	assert.Equal(t, "u-1000", line["sub"])
}

func TestMiddleware_GeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	r := gin.New()
	r.Use(Middleware(NewWithWriter(&buf, "production")))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Len(t, w.Header().Get(headerRequestID), 36)
	assert.NotContains(t, buf.String(), `"sub"`)
}

func TestNew_DebugLevelOutsideProduction(t *testing.T) {
	for env, wantDebug := range map[string]bool{
		"local":      true,
		"dev":        true,
		"test":       true,
		"staging":    false,
		"production": false,
	} {
		var buf bytes.Buffer
		NewWithWriter(&buf, env).Debug("debug line")
		assert.Equal(t, wantDebug, buf.Len() > 0, env)
	}
}
