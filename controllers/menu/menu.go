package menuControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/bistro-boss-api/controllers"
	"github.com/junaidrashid-git/bistro-boss-api/models"
	"github.com/junaidrashid-git/bistro-boss-api/store"
)

// GET /menu
func GetMenu(menu store.MenuStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := menu.ListMenu(c.Request.Context())
		if err != nil {
			controllers.Fail(c, err, "Failed to fetch menu")
			return
		}

		c.JSON(http.StatusOK, items)
	}
}

// POST /menu
func CreateMenuItem(menu store.MenuStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item models.MenuItem
		if err := c.ShouldBindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		item.ID = ""

		result, err := menu.InsertMenuItem(c.Request.Context(), &item)
		if err != nil {
			controllers.Fail(c, err, "Failed to create menu item")
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// DELETE /menu/:id
func DeleteMenuItem(menu store.MenuStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := menu.DeleteMenuItem(c.Request.Context(), c.Param("id"))
		if err != nil {
			controllers.Fail(c, err, "Failed to delete menu item")
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
