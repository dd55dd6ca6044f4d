package utils

import "github.com/gin-gonic/gin"

// Detail writes a gateway-origin error response. The {"detail": ...} envelope
// matches the shape both upstream services use, so callers see one error
// format regardless of where a failure originated.
func Detail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"detail": message})
}

// AbortDetail writes a Detail response and aborts the handler chain.
func AbortDetail(c *gin.Context, status int, message string) {
	Detail(c, status, message)
	c.Abort()
}

// Relay writes an upstream response verbatim: same status, same body. The
// gateway never reinterprets business responses from the upstream services.
func Relay(c *gin.Context, status int, contentType string, body []byte) {
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(status, contentType, body)
}
