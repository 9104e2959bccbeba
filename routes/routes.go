package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/bistro-boss-api/auth"
	paymentControllers "github.com/junaidrashid-git/bistro-boss-api/controllers/payment"
	"github.com/junaidrashid-git/bistro-boss-api/middleware"
	"github.com/junaidrashid-git/bistro-boss-api/payments"
	"github.com/junaidrashid-git/bistro-boss-api/store"
)

// Deps are created once in main and shared by every handler.
type Deps struct {
	Store    store.Store
	Gateway  payments.Gateway
	Issuer   *auth.Issuer
	Feed     *paymentControllers.Feed
	Metrics  *middleware.Metrics
	Currency string
}

// SetupRoutes is the single entry-point that wires every route group.
func SetupRoutes(r *gin.Engine, deps Deps) {
	gate := middleware.NewGate(deps.Issuer, deps.Store)

	// 1️⃣ Public: liveness, health, metrics, token issuance
	SetupAuthRoutes(r, deps)

	// 2️⃣ Users and carts
	SetupUserRoutes(r, deps, gate)

	// 3️⃣ Menu and reviews
	SetupMenuRoutes(r, deps, gate)

	// 4️⃣ Payments
	SetupPaymentRoutes(r, deps, gate)

	// 5️⃣ Admin reports
	SetupAdminRoutes(r, deps, gate)
}

// with appends handlers to a gate chain without aliasing it.
func with(chain gin.HandlersChain, handlers ...gin.HandlerFunc) gin.HandlersChain {
	out := make(gin.HandlersChain, 0, len(chain)+len(handlers))
	out = append(out, chain...)
	return append(out, handlers...)
}
