package routes

import (
	"github.com/gin-gonic/gin"

	statsControllers "github.com/junaidrashid-git/bistro-boss-api/controllers/stats"
	"github.com/junaidrashid-git/bistro-boss-api/middleware"
)

// SetupAdminRoutes registers the reporting endpoints. Requires the admin chain.
func SetupAdminRoutes(r *gin.Engine, deps Deps, gate *middleware.Gate) {
	r.GET("/admin-stats", with(gate.Admin(), statsControllers.GetAdminStats(deps.Store))...)
	r.GET("/order-stats", with(gate.Admin(), statsControllers.GetOrderStats(deps.Store))...)
}
