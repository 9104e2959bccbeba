package routes

import (
	"github.com/gin-gonic/gin"

	paymentControllers "github.com/junaidrashid-git/bistro-boss-api/controllers/payment"
	"github.com/junaidrashid-git/bistro-boss-api/middleware"
)

// SetupPaymentRoutes registers the checkout endpoints. All require a credential.
func SetupPaymentRoutes(r *gin.Engine, deps Deps, gate *middleware.Gate) {
	r.POST("/create-payment-intent", gate.Verify(), paymentControllers.CreatePaymentIntent(deps.Gateway, deps.Currency))

	payments := r.Group("/payments")
	{
		payments.POST("", gate.Verify(), paymentControllers.SettlePayment(deps.Store, deps.Store, deps.Feed))
		payments.GET("/feed", with(gate.Admin(), deps.Feed.Handler())...)
		payments.GET("/:email", gate.Verify(), paymentControllers.GetUserPayments(deps.Store))
	}
}
