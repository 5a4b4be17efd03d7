package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/cyphera/passkey-wallet/internal/auth"
	"github.com/cyphera/passkey-wallet/internal/chain"
	"github.com/cyphera/passkey-wallet/internal/derivation"
	"github.com/cyphera/passkey-wallet/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// sendError logs err under message and writes the JSON error body. 5xx responses
// hide the cause from the caller.
func sendError(c *gin.Context, statusCode int, message string, err error) {
	log := middleware.LogWithCorrelationID(c.Request.Context()).With(
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", statusCode),
	)
	if statusCode >= http.StatusInternalServerError {
		log.Error(message, zap.Error(err))
	} else {
		log.Info(message, zap.Error(err))
	}
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(statusCode, ErrorResponse{Error: message})
}

func sendSuccessMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, SuccessResponse{Message: message})
}

func sendList(c *gin.Context, items interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   items,
	})
}

// identity returns the caller attached by the gatekeeper or writes a 401.
func identity(c *gin.Context) (*auth.Identity, bool) {
	id, err := auth.IdentityFromContext(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusUnauthorized, "Unauthorized", err)
		return nil, false
	}
	return id, true
}

// requestOrigin is the browser origin used for WebAuthn checks. The Referer is
// accepted when Origin is absent.
func requestOrigin(c *gin.Context) string {
	if o := c.GetHeader("Origin"); o != "" {
		return o
	}
	ref, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || ref.Scheme == "" || ref.Host == "" {
		return ""
	}
	return ref.Scheme + "://" + ref.Host
}

// handleChainError maps chain lookup and RPC failures shared by several endpoints.
func handleChainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chain.ErrUnknownChain):
		sendError(c, http.StatusBadRequest, "Unsupported chain", err)
	case errors.Is(err, derivation.ErrFactoryNotDeployed):
		sendError(c, http.StatusUnprocessableEntity, "Smart accounts are not available on this chain", err)
	case errors.Is(err, derivation.ErrDerivationTimeout), chain.IsTransient(err):
		sendError(c, http.StatusServiceUnavailable, "Chain temporarily unavailable, retry shortly", err)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
