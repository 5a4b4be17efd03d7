package handlers

import (
	"context"
	"net/http"

	"github.com/cyphera/passkey-wallet/internal/users"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminService is the operator surface: credit top-ups and account freezes.
type AdminService interface {
	TopUpCredit(ctx context.Context, userID uuid.UUID, amountUSD string) (*users.Profile, error)
	SetFrozen(ctx context.Context, userID uuid.UUID, frozen bool) (*users.Profile, error)
}

type AdminHandler struct {
	users AdminService
}

func NewAdminHandler(users AdminService) *AdminHandler {
	return &AdminHandler{users: users}
}

type TopUpRequest struct {
	AmountUSD string `json:"amountUsd" binding:"required"`
}

type FreezeRequest struct {
	Frozen *bool `json:"frozen" binding:"required"`
}

func (h *AdminHandler) TopUpCredit(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	profile, err := h.users.TopUpCredit(c.Request.Context(), userID, req.AmountUSD)
	if err != nil {
		handleUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *AdminHandler) SetFrozen(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	var req FreezeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	profile, err := h.users.SetFrozen(c.Request.Context(), userID, *req.Frozen)
	if err != nil {
		handleUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func pathUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid user ID format", err)
		return uuid.Nil, false
	}
	return id, true
}
