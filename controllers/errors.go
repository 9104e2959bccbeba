// Package controllers holds what the per-area handler packages share.
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/bistro-boss-api/store"
)

// Fail reports a store or gateway error. Ids the backend cannot parse are the
// caller's fault; everything else is a 500 with the cause left for the request log.
func Fail(c *gin.Context, err error, message string) {
	_ = c.Error(err)

	if errors.Is(err, store.ErrInvalidID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
