package server

import (
	"net/http"
	"time"

	"github.com/cyphera/passkey-wallet/internal/auth"
	"github.com/cyphera/passkey-wallet/internal/constants"
	"github.com/cyphera/passkey-wallet/internal/handlers"
	"github.com/cyphera/passkey-wallet/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups every handler the router mounts.
type Handlers struct {
	Health     *handlers.HealthHandler
	Credential *handlers.CredentialHandler
	Sponsor    *handlers.SponsorHandler
	Account    *handlers.AccountHandler
	Admin      *handlers.AdminHandler
}

// DeviceGate authenticates device-bound requests.
type DeviceGate interface {
	RequireDevice() gin.HandlerFunc
}

type Options struct {
	AllowedOrigins []string
	AdminKey       string
	RateLimiter    *middleware.RateLimiter
}

// NewRouter builds the gin engine. Middleware order: CORS, correlation id,
// rate limit, request logging.
func NewRouter(h Handlers, gate DeviceGate, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(configureCORS(opts.AllowedOrigins))
	router.Use(middleware.CorrelationID())
	if opts.RateLimiter != nil {
		router.Use(opts.RateLimiter.Middleware())
	}
	router.Use(middleware.RequestLogger())

	router.GET("/health", h.Health.Health)

	v1 := router.Group("/v1")
	{
		v1.POST("/register/begin", h.Credential.BeginRegistration)
		v1.POST("/register/complete", h.Credential.CompleteRegistration)
		v1.POST("/login/begin", h.Credential.BeginLogin)
		v1.POST("/login/complete", h.Credential.CompleteLogin)

		protected := v1.Group("")
		protected.Use(gate.RequireDevice())
		{
			protected.POST("/sponsor", h.Sponsor.Sponsor)

			protected.GET("/me", h.Account.GetProfile)
			protected.POST("/me/pin", h.Account.SetPIN)
			protected.PUT("/me/limits", h.Account.UpdateLimits)

			protected.GET("/wallets", h.Account.ListWallets)
			protected.POST("/wallets", h.Account.CreateWallet)
			protected.POST("/wallets/active", h.Account.SetActiveWallet)

			protected.GET("/balances", h.Account.GetBalances)
			protected.GET("/transactions", h.Account.ListTransactions)
		}

		admin := v1.Group("/admin")
		admin.Use(auth.RequireAdminKey(opts.AdminKey))
		{
			admin.POST("/users/:id/credit", h.Admin.TopUpCredit)
			admin.POST("/users/:id/freeze", h.Admin.SetFrozen)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "Not found"})
	})
	return router
}

// configureCORS allows the wallet front ends to send device and session headers.
func configureCORS(origins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		constants.AuthorizationHeader,
		constants.DeviceIDHeader,
		constants.CorrelationIDHeader,
	}
	corsConfig.ExposeHeaders = []string{constants.CorrelationIDHeader, "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	return cors.New(corsConfig)
}
