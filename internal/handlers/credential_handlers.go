package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cyphera/passkey-wallet/internal/credential"
	"github.com/gin-gonic/gin"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/google/uuid"
)

// CredentialService runs the WebAuthn registration and login ceremonies.
type CredentialService interface {
	BeginRegistration(ctx context.Context, params credential.BeginRegistrationParams) (*credential.RegistrationChallenge, error)
	CompleteRegistration(ctx context.Context, deviceHandle, origin string, parsed *protocol.ParsedCredentialCreationData) (*credential.RegistrationResult, error)
	BeginLogin(ctx context.Context, userID uuid.UUID, origin string) (*credential.LoginChallenge, error)
	CompleteLogin(ctx context.Context, userID uuid.UUID, origin string, parsed *protocol.ParsedCredentialAssertionData) (*credential.LoginResult, error)
}

// CredentialHandler serves the passkey ceremonies. None of its routes require a session.
type CredentialHandler struct {
	svc CredentialService
}

func NewCredentialHandler(svc CredentialService) *CredentialHandler {
	return &CredentialHandler{svc: svc}
}

type BeginRegistrationRequest struct {
	UserID *uuid.UUID `json:"userId,omitempty"`
}

type CompleteRegistrationRequest struct {
	DeviceHandle string          `json:"deviceHandle" binding:"required"`
	Credential   json.RawMessage `json:"credential" binding:"required"`
}

type BeginLoginRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
}

type CompleteLoginRequest struct {
	UserID     uuid.UUID       `json:"userId" binding:"required"`
	Credential json.RawMessage `json:"credential" binding:"required"`
}

// BeginRegistration godoc
// @Summary      Start passkey registration
// @Description  Creates the user when no id is given and returns creation options for a new device
// @Tags         credentials
// @Accept       json
// @Produce      json
// @Param        body  body      BeginRegistrationRequest  false  "Existing user"
// @Success      200   {object}  credential.RegistrationChallenge
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /v1/register/begin [post]
func (h *CredentialHandler) BeginRegistration(c *gin.Context) {
	origin, ok := mustOrigin(c)
	if !ok {
		return
	}
	var req BeginRegistrationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			sendError(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	challenge, err := h.svc.BeginRegistration(c.Request.Context(), credential.BeginRegistrationParams{
		UserID: req.UserID,
		Origin: origin,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// CompleteRegistration godoc
// @Summary      Finish passkey registration
// @Tags         credentials
// @Accept       json
// @Produce      json
// @Param        body  body      CompleteRegistrationRequest  true  "Attestation response"
// @Success      200   {object}  credential.RegistrationResult
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /v1/register/complete [post]
func (h *CredentialHandler) CompleteRegistration(c *gin.Context) {
	origin, ok := mustOrigin(c)
	if !ok {
		return
	}
	var req CompleteRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	parsed, err := protocol.ParseCredentialCreationResponseBody(bytes.NewReader(req.Credential))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Malformed attestation response", err)
		return
	}

	result, err := h.svc.CompleteRegistration(c.Request.Context(), req.DeviceHandle, origin, parsed)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BeginLogin godoc
// @Summary      Start passkey login
// @Description  Returns canLogin=false when the user has no registered device
// @Tags         credentials
// @Accept       json
// @Produce      json
// @Param        body  body      BeginLoginRequest  true  "User"
// @Success      200   {object}  credential.LoginChallenge
// @Failure      400   {object}  ErrorResponse
// @Router       /v1/login/begin [post]
func (h *CredentialHandler) BeginLogin(c *gin.Context) {
	origin, ok := mustOrigin(c)
	if !ok {
		return
	}
	var req BeginLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	challenge, err := h.svc.BeginLogin(c.Request.Context(), req.UserID, origin)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// CompleteLogin godoc
// @Summary      Finish passkey login
// @Tags         credentials
// @Accept       json
// @Produce      json
// @Param        body  body      CompleteLoginRequest  true  "Assertion response"
// @Success      200   {object}  credential.LoginResult
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /v1/login/complete [post]
func (h *CredentialHandler) CompleteLogin(c *gin.Context) {
	origin, ok := mustOrigin(c)
	if !ok {
		return
	}
	var req CompleteLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	parsed, err := protocol.ParseCredentialRequestResponseBody(bytes.NewReader(req.Credential))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Malformed assertion response", err)
		return
	}

	result, err := h.svc.CompleteLogin(c.Request.Context(), req.UserID, origin, parsed)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CredentialHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, credential.ErrUserNotFound):
		sendError(c, http.StatusNotFound, "User not found", err)
	case errors.Is(err, credential.ErrChallengeExpired):
		sendError(c, http.StatusUnauthorized, "Challenge expired, start again", err)
	case errors.Is(err, credential.ErrRegistrationFailed):
		sendError(c, http.StatusUnauthorized, "Registration failed", err)
	case errors.Is(err, credential.ErrAuthenticationFailed), errors.Is(err, credential.ErrCounterRegression):
		sendError(c, http.StatusUnauthorized, "Authentication failed", err)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

func mustOrigin(c *gin.Context) (string, bool) {
	origin := requestOrigin(c)
	if origin == "" {
		sendError(c, http.StatusBadRequest, "Origin header is required", nil)
		return "", false
	}
	return origin, true
}
