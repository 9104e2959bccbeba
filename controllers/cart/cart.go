package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/bistro-boss-api/controllers"
	"github.com/junaidrashid-git/bistro-boss-api/middleware"
	"github.com/junaidrashid-git/bistro-boss-api/models"
	"github.com/junaidrashid-git/bistro-boss-api/store"
)

// GET /carts?email=
func GetUserCart(carts store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusOK, []models.CartItem{})
			return
		}

		if !middleware.SameCaller(c, email) {
			return
		}

		items, err := carts.ListCartItems(c.Request.Context(), email)
		if err != nil {
			controllers.Fail(c, err, "Failed to fetch cart")
			return
		}

		c.JSON(http.StatusOK, items)
	}
}

// POST /carts
func AddCartItem(carts store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item models.CartItem
		if err := c.ShouldBindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		item.ID = ""

		result, err := carts.InsertCartItem(c.Request.Context(), &item)
		if err != nil {
			controllers.Fail(c, err, "Failed to add item to cart")
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// DELETE /carts/:id
func DeleteCartItem(carts store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := carts.DeleteCartItem(c.Request.Context(), c.Param("id"))
		if err != nil {
			controllers.Fail(c, err, "Failed to delete item")
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
