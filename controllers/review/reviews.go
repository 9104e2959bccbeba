package reviewControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/bistro-boss-api/controllers"
	"github.com/junaidrashid-git/bistro-boss-api/store"
)

// GET /reviews
func GetReviews(reviews store.ReviewStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := reviews.ListReviews(c.Request.Context())
		if err != nil {
			controllers.Fail(c, err, "Failed to fetch reviews")
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
