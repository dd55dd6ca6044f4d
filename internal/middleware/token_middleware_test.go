package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(req *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestExtractTokenFromHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")

	assert.Equal(t, "abc.def.ghi", extractToken(newTestContext(req)))
}

func TestExtractTokenRejectsNonBearerHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping?token=fallback", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwdw==")

	// A present but non-bearer header wins over the query fallback.
	assert.Empty(t, extractToken(newTestContext(req)))
}

func TestExtractTokenQueryFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping?token=abc.def.ghi", nil)

	assert.Equal(t, "abc.def.ghi", extractToken(newTestContext(req)))
}

func TestExtractTokenMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)

	assert.Empty(t, extractToken(newTestContext(req)))
}
