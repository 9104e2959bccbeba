package userControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/bistro-boss-api/controllers"
	"github.com/junaidrashid-git/bistro-boss-api/middleware"
	"github.com/junaidrashid-git/bistro-boss-api/models"
	"github.com/junaidrashid-git/bistro-boss-api/store"
)

// GET /users
func GetAllUsers(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := users.ListUsers(c.Request.Context())
		if err != nil {
			controllers.Fail(c, err, "Failed to fetch users")
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// POST /users
// A duplicate email is not an error: the response is 200 with a message and no insert happens.
func CreateUser(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		user.ID = ""
		user.Role = ""

		ctx := c.Request.Context()

		_, err := users.FindUserByEmail(ctx, user.Email)
		if err == nil {
			userExists(c)
			return
		}
		if !errors.Is(err, store.ErrNotFound) {
			controllers.Fail(c, err, "Failed to look up user")
			return
		}

		// a concurrent create can still win between the lookup and the insert
		result, err := users.InsertUser(ctx, &user)
		if errors.Is(err, store.ErrDuplicate) {
			userExists(c)
			return
		}
		if err != nil {
			controllers.Fail(c, err, "Failed to create user")
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// GET /users/admin/:email
func CheckAdmin(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Param("email")
		if !middleware.SameCaller(c, email) {
			return
		}

		user, err := users.FindUserByEmail(c.Request.Context(), email)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			controllers.Fail(c, err, "Failed to look up user")
			return
		}

		c.JSON(http.StatusOK, gin.H{"admin": user.IsAdmin()})
	}
}

// PATCH /users/admin/:id
func MakeAdmin(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := users.SetUserRole(c.Request.Context(), c.Param("id"), models.RoleAdmin)
		if err != nil {
			controllers.Fail(c, err, "Failed to update user role")
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// DELETE /users/:id
func DeleteUser(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := users.DeleteUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			controllers.Fail(c, err, "Failed to delete user")
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func userExists(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "user already exists", "insertedId": nil})
}
