package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/junaidrashid-git/bistro-boss-api/auth"
	"github.com/junaidrashid-git/bistro-boss-api/models"
	"github.com/junaidrashid-git/bistro-boss-api/store"
)

const identityKey = "identity"

// Identity is the verified caller, attached to the context by Gate.Verify.
type Identity struct {
	Email  string
	Claims jwt.MapClaims
}

type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Gate checks bearer credentials and, for privileged routes, the stored role.
type Gate struct {
	issuer *auth.Issuer
	users  UserFinder
}

func NewGate(issuer *auth.Issuer, users UserFinder) *Gate {
	return &Gate{issuer: issuer, users: users}
}

// Verify rejects requests without a valid "Authorization: Bearer <token>" header.
func (g *Gate) Verify() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c)
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			unauthorized(c)
			return
		}

		claims, err := g.issuer.Parse(token)
		if err != nil {
			unauthorized(c)
			return
		}

		email, _ := claims["email"].(string)
		c.Set(identityKey, Identity{Email: email, Claims: claims})

		c.Next()
	}
}

// Admin is the chain for admin-only routes. The role check is not exported on
// its own so it always runs behind Verify.
func (g *Gate) Admin() gin.HandlersChain {
	return gin.HandlersChain{g.Verify(), g.requireAdmin}
}

func (g *Gate) requireAdmin(c *gin.Context) {
	id, ok := IdentityFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	user, err := g.users.FindUserByEmail(c.Request.Context(), id.Email)
	if errors.Is(err, store.ErrNotFound) {
		forbidden(c)
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify role"})
		return
	}

	if !user.IsAdmin() {
		forbidden(c)
		return
	}

	c.Next()
}

// IdentityFrom returns the caller verified earlier in the chain.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// SameCaller aborts with 403 unless the verified caller's email is email.
func SameCaller(c *gin.Context, email string) bool {
	id, ok := IdentityFrom(c)
	if !ok || id.Email == "" || id.Email != email {
		forbidden(c)
		return false
	}
	return true
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
}

func forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden access"})
}
