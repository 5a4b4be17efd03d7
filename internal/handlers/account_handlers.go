package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cyphera/passkey-wallet/internal/auth"
	"github.com/cyphera/passkey-wallet/internal/db"
	"github.com/cyphera/passkey-wallet/internal/portfolio"
	"github.com/cyphera/passkey-wallet/internal/users"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountService covers the signed-in user's own settings and wallets.
type AccountService interface {
	Profile(ctx context.Context, userID uuid.UUID) (*users.Profile, error)
	SetSpendingPIN(ctx context.Context, userID uuid.UUID, pin string) error
	UpdateLimits(ctx context.Context, userID uuid.UUID, in users.LimitsInput) (*users.Profile, error)
	Wallets(ctx context.Context, identity *auth.Identity) ([]users.WalletView, error)
	CreateWallet(ctx context.Context, userID uuid.UUID, name string) (db.Wallet, error)
	SetActiveWallet(ctx context.Context, userID uuid.UUID, salt int64) error
	Transactions(ctx context.Context, userID uuid.UUID, limit int) ([]db.Transaction, error)
}

// BalanceReader reads the active account's holdings on one chain.
type BalanceReader interface {
	Balances(ctx context.Context, identity *auth.Identity, chainID int64) (*portfolio.Portfolio, error)
}

type AccountHandler struct {
	users     AccountService
	portfolio BalanceReader
}

func NewAccountHandler(users AccountService, portfolio BalanceReader) *AccountHandler {
	return &AccountHandler{users: users, portfolio: portfolio}
}

type SetPINRequest struct {
	Pin string `json:"pin" binding:"required"`
}

type CreateWalletRequest struct {
	Name string `json:"name"`
}

type SetActiveWalletRequest struct {
	Salt *int64 `json:"salt" binding:"required"`
}

// TransactionResponse is one ledger row as shown to its owner.
type TransactionResponse struct {
	ID        string `json:"id"`
	OpHash    string `json:"opHash"`
	TxHash    string `json:"txHash,omitempty"`
	Network   string `json:"network"`
	ChainID   int64  `json:"chainId"`
	Status    string `json:"status"`
	Value     string `json:"value"`
	Asset     string `json:"asset"`
	CreatedAt int64  `json:"createdAt"`
}

func toTransactionResponse(t db.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID.String(),
		OpHash:    t.OpHash,
		TxHash:    t.TxHash.String,
		Network:   t.Network,
		ChainID:   t.ChainID,
		Status:    t.Status,
		Value:     t.Value,
		Asset:     t.Asset,
		CreatedAt: unixOrZero(t.CreatedAt),
	}
}

// GetProfile godoc
// @Summary      Current user
// @Tags         account
// @Produce      json
// @Success      200  {object}  users.Profile
// @Router       /v1/me [get]
func (h *AccountHandler) GetProfile(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	profile, err := h.users.Profile(c.Request.Context(), id.User.ID)
	if err != nil {
		handleUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SetPIN godoc
// @Summary      Set the spending PIN
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      SetPINRequest  true  "4 to 8 digits"
// @Success      200   {object}  SuccessResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /v1/me/pin [post]
func (h *AccountHandler) SetPIN(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req SetPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.users.SetSpendingPIN(c.Request.Context(), id.User.ID, req.Pin); err != nil {
		handleUserError(c, err)
		return
	}
	sendSuccessMessage(c, http.StatusOK, "Spending PIN updated")
}

// UpdateLimits godoc
// @Summary      Update spending limits
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      users.LimitsInput  true  "USD amounts"
// @Success      200   {object}  users.Profile
// @Failure      422   {object}  ErrorResponse
// @Router       /v1/me/limits [put]
func (h *AccountHandler) UpdateLimits(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req users.LimitsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	profile, err := h.users.UpdateLimits(c.Request.Context(), id.User.ID, req)
	if err != nil {
		handleUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *AccountHandler) ListWallets(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	wallets, err := h.users.Wallets(c.Request.Context(), id)
	if err != nil {
		handleUserError(c, err)
		return
	}
	sendList(c, wallets)
}

func (h *AccountHandler) CreateWallet(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req CreateWalletRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			sendError(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}
	wallet, err := h.users.CreateWallet(c.Request.Context(), id.User.ID, req.Name)
	if err != nil {
		handleUserError(c, err)
		return
	}
	c.JSON(http.StatusCreated, users.WalletView{Salt: wallet.Salt, Name: wallet.Name, Active: wallet.Active, Addresses: map[int64]string{}})
}

func (h *AccountHandler) SetActiveWallet(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req SetActiveWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.users.SetActiveWallet(c.Request.Context(), id.User.ID, *req.Salt); err != nil {
		handleUserError(c, err)
		return
	}
	sendSuccessMessage(c, http.StatusOK, "Active wallet updated")
}

// GetBalances godoc
// @Summary      Balances of the active account
// @Tags         account
// @Produce      json
// @Param        chain_id  query     int  true  "Chain id"
// @Success      200       {object}  portfolio.Portfolio
// @Failure      400       {object}  ErrorResponse
// @Failure      503       {object}  ErrorResponse
// @Router       /v1/balances [get]
func (h *AccountHandler) GetBalances(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	chainID, err := strconv.ParseInt(c.Query("chain_id"), 10, 64)
	if err != nil || chainID <= 0 {
		sendError(c, http.StatusBadRequest, "chain_id query parameter is required", err)
		return
	}
	balances, err := h.portfolio.Balances(c.Request.Context(), id, chainID)
	if err != nil {
		handleChainError(c, err)
		return
	}
	c.JSON(http.StatusOK, balances)
}

func (h *AccountHandler) ListTransactions(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			sendError(c, http.StatusBadRequest, "limit must be a number", err)
			return
		}
		limit = n
	}
	txs, err := h.users.Transactions(c.Request.Context(), id.User.ID, limit)
	if err != nil {
		handleUserError(c, err)
		return
	}
	out := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	sendList(c, out)
}

func handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, users.ErrInvalidPIN), errors.Is(err, users.ErrInvalidAmount):
		sendError(c, http.StatusUnprocessableEntity, err.Error(), err)
	case errors.Is(err, users.ErrUserNotFound):
		sendError(c, http.StatusNotFound, "User not found", err)
	case errors.Is(err, users.ErrWalletNotFound):
		sendError(c, http.StatusNotFound, "Wallet not found", err)
	case errors.Is(err, auth.ErrNoIdentity):
		sendError(c, http.StatusUnauthorized, "Unauthorized", err)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// unixOrZero keeps zero timestamps out of responses.
func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
