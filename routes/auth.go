package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/bistro-boss-api/auth"
)

// SetupAuthRoutes registers the unauthenticated endpoints.
func SetupAuthRoutes(r *gin.Engine, deps Deps) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Bistro Boss server is running")
	})

	r.GET("/healthz", func(c *gin.Context) {
		if err := deps.Store.Ping(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Metrics != nil {
		r.GET("/metrics", deps.Metrics.Handler())
	}

	r.POST("/jwt", auth.IssueToken(deps.Issuer))
}
