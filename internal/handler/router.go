package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hack-neuron/frontend/internal/middleware"
)

// RegisterRoutes wires all gateway endpoints onto router. Application
// lifecycle endpoints authenticate per request (none, or password proof read
// from the body); everything proxied to the backend sits behind the token
// middleware.
func RegisterRoutes(router *gin.Engine, app *ApplicationHandler, proxy *ProxyHandler, health *HealthHandler, tokenMw *middleware.TokenMiddleware) {
	router.GET("/health", health.GetHealth)

	// Application lifecycle
	router.POST("/create_application", app.CreateApplication)
	router.DELETE("/delete_application", app.DeleteApplication)
	router.POST("/revoke_token", app.RevokeToken)

	// Proxied endpoints (valid token required)
	authed := router.Group("/")
	authed.Use(tokenMw.Handle())
	{
		authed.GET("/ping", proxy.Ping)
		authed.POST("/upload", proxy.Upload)
		authed.POST("/upload_many", proxy.UploadMany)
		authed.GET("/get_status", proxy.GetStatus)
	}
}
