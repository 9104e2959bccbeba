package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/junaidrashid-git/bistro-boss-api/controllers/cart"
	userControllers "github.com/junaidrashid-git/bistro-boss-api/controllers/user"
	"github.com/junaidrashid-git/bistro-boss-api/middleware"
)

// SetupUserRoutes registers "/users/*" and "/carts/*".
func SetupUserRoutes(r *gin.Engine, deps Deps, gate *middleware.Gate) {
	users := r.Group("/users")
	{
		users.GET("", with(gate.Admin(), userControllers.GetAllUsers(deps.Store))...)
		users.POST("", userControllers.CreateUser(deps.Store))
		users.GET("/admin/:email", gate.Verify(), userControllers.CheckAdmin(deps.Store))
		users.PATCH("/admin/:id", userControllers.MakeAdmin(deps.Store))
		users.DELETE("/:id", with(gate.Admin(), userControllers.DeleteUser(deps.Store))...)
	}

	carts := r.Group("/carts")
	{
		carts.GET("", gate.Verify(), cartControllers.GetUserCart(deps.Store))
		carts.POST("", cartControllers.AddCartItem(deps.Store))
		carts.DELETE("/:id", cartControllers.DeleteCartItem(deps.Store))
	}
}
