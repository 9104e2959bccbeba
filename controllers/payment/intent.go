package paymentControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/bistro-boss-api/payments"
)

type PaymentIntentRequest struct {
	Price float64 `json:"price"`
}

// POST /create-payment-intent
// Only talks to the gateway; nothing is stored until POST /payments.
func CreatePaymentIntent(gateway payments.Gateway, currency string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PaymentIntentRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}

		secret, err := gateway.CreatePaymentIntent(c.Request.Context(), payments.MinorUnits(input.Price), currency)
		if errors.Is(err, payments.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create payment intent"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"clientSecret": secret})
	}
}
