package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mschlachter/ocis-app-tokens/internal/tokenstore"
)

// TokenHandler serves the /auth-app/tokens surface of the development
// backend.
type TokenHandler struct {
	service *tokenstore.Service
}

// NewTokenHandler creates a TokenHandler instance.
func NewTokenHandler(service *tokenstore.Service) *TokenHandler {
	return &TokenHandler{service: service}
}

// ListTokens handles GET /auth-app/tokens.
// Returns all tokens in digest form, creation order.
func (h *TokenHandler) ListTokens(c *gin.Context) {
	tokens, err := h.service.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to retrieve tokens",
			},
		})
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// CreateToken handles POST /auth-app/tokens?expiry=<dur>[&label=<string>].
// The response carries the plaintext secret, exactly once.
func (h *TokenHandler) CreateToken(c *gin.Context) {
	expiryParam := c.Query("expiry")
	if expiryParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_EXPIRY",
				"message": "Query parameter 'expiry' is required",
			},
		})
		return
	}

	token, err := h.service.Create(expiryParam, c.Query("label"))
	if err != nil {
		h.handleTokenError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// DeleteToken handles DELETE /auth-app/tokens?token=<value>.
func (h *TokenHandler) DeleteToken(c *gin.Context) {
	value := c.Query("token")
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_TOKEN",
				"message": "Query parameter 'token' is required",
			},
		})
		return
	}

	if err := h.service.Delete(value); err != nil {
		h.handleTokenError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// handleTokenError maps token store errors to responses.
func (h *TokenHandler) handleTokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tokenstore.ErrInvalidExpiry):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_EXPIRY",
				"message": "Expiry must be an integer followed by 'm' or 'h'",
			},
		})
	case errors.Is(err, tokenstore.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "TOKEN_NOT_FOUND",
				"message": "Token not found",
			},
		})
	case errors.Is(err, tokenstore.ErrTokenValueExists):
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{
				"code":    "TOKEN_CONFLICT",
				"message": "Token already exists",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Internal server error",
			},
		})
	}
}
