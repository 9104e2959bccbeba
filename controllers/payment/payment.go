package paymentControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/bistro-boss-api/controllers"
	"github.com/junaidrashid-git/bistro-boss-api/middleware"
	"github.com/junaidrashid-git/bistro-boss-api/models"
	"github.com/junaidrashid-git/bistro-boss-api/store"
)

type PaymentRequest struct {
	Email         string     `json:"email"`
	Price         float64    `json:"price"`
	TransactionID string     `json:"transactionId"`
	Date          *time.Time `json:"date"`
	CartIDs       []string   `json:"cartIds"`
	MenuItemIDs   []string   `json:"menuItemIds"`
}

// Publisher is told about every payment that has been recorded.
type Publisher interface {
	Publish(payment models.Payment)
}

// POST /payments
//
// Records the payment, then deletes the purchased cart items. The two writes
// are independent: if the delete fails the payment stays recorded.
func SettlePayment(paymentStore store.PaymentStore, carts store.CartStore, feed Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PaymentRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		payment := models.Payment{
			Email:         input.Email,
			Price:         input.Price,
			TransactionID: input.TransactionID,
			Date:          time.Now().UTC(),
			CartIDs:       nonNil(input.CartIDs),
			MenuItemIDs:   nonNil(input.MenuItemIDs),
			Status:        models.PaymentStatusPending,
		}
		if input.Date != nil {
			payment.Date = input.Date.UTC()
		}
		if payment.Email == "" {
			if id, ok := middleware.IdentityFrom(c); ok {
				payment.Email = id.Email
			}
		}

		ctx := c.Request.Context()

		insertResult, err := paymentStore.InsertPayment(ctx, &payment)
		if err != nil {
			controllers.Fail(c, err, "Failed to record payment")
			return
		}

		deleteResult, err := carts.DeleteCartItems(ctx, payment.CartIDs)
		if err != nil {
			_ = c.Error(err)
			status := http.StatusInternalServerError
			if errors.Is(err, store.ErrInvalidID) {
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{
				"error":        "Payment recorded but cart items were not cleared",
				"insertResult": insertResult,
			})
			return
		}

		feed.Publish(payment)

		c.JSON(http.StatusOK, gin.H{
			"insertResult": insertResult,
			"deleteResult": deleteResult,
		})
	}
}

// GET /payments/:email
func GetUserPayments(paymentStore store.PaymentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Param("email")
		if !middleware.SameCaller(c, email) {
			return
		}

		result, err := paymentStore.ListPayments(c.Request.Context(), email)
		if err != nil {
			controllers.Fail(c, err, "Failed to fetch payments")
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
