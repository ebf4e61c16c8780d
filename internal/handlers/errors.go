package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/ViacheslavGIT/MegaMart/internal/shop"
)

// respondError maps shop errors to a status and a client-safe message.
// Anything unrecognised is logged and reported as fallback with a 500.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, shop.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": clientMessage(err, shop.ErrInvalidInput)})
	case errors.Is(err, shop.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"message": "User exists"})
	case errors.Is(err, shop.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
	case errors.Is(err, shop.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": clientMessage(err, shop.ErrNotFound)})
	default:
		slog.Error(fallback, "error", err, "path", c.FullPath(), "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
}

// clientMessage drops the "invalid input: " style prefix and upper-cases
// the first letter, so "user not found" becomes "User not found".
func clientMessage(err, kind error) string {
	msg := strings.TrimPrefix(err.Error(), kind.Error()+": ")
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}
