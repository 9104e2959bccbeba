package statsControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/bistro-boss-api/controllers"
	"github.com/junaidrashid-git/bistro-boss-api/models"
	"github.com/junaidrashid-git/bistro-boss-api/store"
)

// GET /admin-stats
func GetAdminStats(stats store.StatsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		counts, err := stats.Counts(ctx)
		if err != nil {
			controllers.Fail(c, err, "Failed to count documents")
			return
		}

		revenue, err := stats.Revenue(ctx)
		if err != nil {
			controllers.Fail(c, err, "Failed to compute revenue")
			return
		}

		c.JSON(http.StatusOK, models.AdminStats{
			Users:     counts.Users,
			MenuItems: counts.MenuItems,
			Orders:    counts.Payments,
			Revenue:   revenue,
		})
	}
}

// GET /order-stats
func GetOrderStats(stats store.StatsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := stats.OrderStats(c.Request.Context())
		if err != nil {
			controllers.Fail(c, err, "Failed to compute order stats")
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
