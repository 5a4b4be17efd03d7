package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/cyphera/passkey-wallet/internal/auth"
	"github.com/cyphera/passkey-wallet/internal/paymaster"
	"github.com/gin-gonic/gin"
)

// Sponsor decides whether the paymaster pays for an operation.
type Sponsor interface {
	Sponsor(ctx context.Context, identity *auth.Identity, req paymaster.Request) (*paymaster.Result, error)
}

type SponsorHandler struct {
	engine Sponsor
}

func NewSponsorHandler(engine Sponsor) *SponsorHandler {
	return &SponsorHandler{engine: engine}
}

// Sponsor godoc
// @Summary      Request gas sponsorship
// @Description  Declines are returned with 200 and granted=false; the code says why
// @Tags         sponsorship
// @Accept       json
// @Produce      json
// @Param        X-Device-ID    header    string             true  "Device id"
// @Param        Authorization  header    string             true  "Bearer session token"
// @Param        body           body      paymaster.Request  true  "User operation"
// @Success      200  {object}  paymaster.Result
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /v1/sponsor [post]
func (h *SponsorHandler) Sponsor(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req paymaster.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.engine.Sponsor(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, paymaster.ErrForbidden):
			sendError(c, http.StatusForbidden, "Forbidden", err)
		case errors.Is(err, paymaster.ErrInvalidOperation), errors.Is(err, paymaster.ErrUnsupportedCallData):
			sendError(c, http.StatusBadRequest, err.Error(), err)
		default:
			handleChainError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
