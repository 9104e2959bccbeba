package routes

import (
	"github.com/gin-gonic/gin"

	menuControllers "github.com/junaidrashid-git/bistro-boss-api/controllers/menu"
	reviewControllers "github.com/junaidrashid-git/bistro-boss-api/controllers/review"
	"github.com/junaidrashid-git/bistro-boss-api/middleware"
)

// SetupMenuRoutes registers "/menu/*" and "/reviews". Reads are public.
func SetupMenuRoutes(r *gin.Engine, deps Deps, gate *middleware.Gate) {
	menu := r.Group("/menu")
	{
		menu.GET("", menuControllers.GetMenu(deps.Store))
		menu.GET("/export", with(gate.Admin(), menuControllers.ExportMenuToExcel(deps.Store))...)
		menu.POST("/import", with(gate.Admin(), menuControllers.ImportMenuFromExcel(deps.Store))...)
		menu.POST("", with(gate.Admin(), menuControllers.CreateMenuItem(deps.Store))...)
		menu.DELETE("/:id", with(gate.Admin(), menuControllers.DeleteMenuItem(deps.Store))...)
	}

	r.GET("/reviews", reviewControllers.GetReviews(deps.Store))
}
