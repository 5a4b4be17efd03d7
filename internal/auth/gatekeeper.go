package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cyphera/passkey-wallet/internal/constants"
	"github.com/cyphera/passkey-wallet/internal/db"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity is the authenticated caller attached to every protected request.
type Identity struct {
	User   db.User
	Device db.Device
}

type identityKey struct{}

const ginIdentityKey = "identity"

// DeviceStore is the lookup surface the gatekeeper needs.
type DeviceStore interface {
	GetDevice(ctx context.Context, id uuid.UUID) (db.Device, error)
	GetUser(ctx context.Context, id uuid.UUID) (db.User, error)
}

// Gatekeeper authenticates device-bound requests.
type Gatekeeper struct {
	store   DeviceStore
	tokens  *TokenIssuer
	devMode bool
}

// NewGatekeeper builds the gatekeeper. With devMode set the bearer token is
// not required, every other check still applies.
func NewGatekeeper(store DeviceStore, tokens *TokenIssuer, devMode bool) *Gatekeeper {
	return &Gatekeeper{store: store, tokens: tokens, devMode: devMode}
}

// Authenticate runs the checks in order: header present, token valid and bound
// to the device, device known, token subject owns the device, account usable.
func (g *Gatekeeper) Authenticate(ctx context.Context, deviceHeader, authorization string) (*Identity, error) {
	deviceHeader = strings.TrimSpace(deviceHeader)
	if deviceHeader == "" {
		return nil, ErrDeviceMissing
	}

	var claims *Claims
	if !g.devMode {
		token := strings.TrimSpace(strings.TrimPrefix(authorization, constants.BearerPrefix))
		if token == "" || token == strings.TrimSpace(authorization) {
			return nil, ErrUnauthorized
		}
		var err error
		claims, err = g.tokens.Verify(token)
		if err != nil {
			return nil, err
		}
		if claims.DeviceID != deviceHeader {
			return nil, fmt.Errorf("%w: token bound to another device", ErrUnauthorized)
		}
	}

	deviceID, err := uuid.Parse(deviceHeader)
	if err != nil {
		return nil, ErrDeviceUnrecognized
	}
	device, err := g.store.GetDevice(ctx, deviceID)
	if db.IsNotFound(err) {
		return nil, ErrDeviceUnrecognized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load device: %w", err)
	}
	user, err := g.store.GetUser(ctx, device.UserID)
	if db.IsNotFound(err) {
		return nil, ErrDeviceUnrecognized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if claims != nil && claims.Subject != user.ID.String() {
		return nil, fmt.Errorf("%w: subject mismatch", ErrUnauthorized)
	}
	if user.Frozen {
		return nil, fmt.Errorf("%w: account frozen", ErrAccessDenied)
	}
	if !device.Active {
		return nil, fmt.Errorf("%w: device inactive", ErrAccessDenied)
	}
	return &Identity{User: user, Device: device}, nil
}

// RequireDevice is the gin middleware form of Authenticate.
func (g *Gatekeeper) RequireDevice() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := g.Authenticate(c.Request.Context(),
			c.GetHeader(constants.DeviceIDHeader),
			c.GetHeader(constants.AuthorizationHeader),
		)
		if err != nil {
			status := StatusFor(err)
			logger.Warn("gatekeeper rejected request",
				zap.Int("status", status),
				zap.String("path", c.Request.URL.Path),
				zap.String("device_id", c.GetHeader(constants.DeviceIDHeader)),
				zap.Error(err),
			)
			message := err.Error()
			if status == http.StatusInternalServerError {
				message = "Internal server error"
			} else if errors.Is(err, ErrUnauthorized) {
				message = ErrUnauthorized.Error()
			}
			c.AbortWithStatusJSON(status, gin.H{"error": message})
			return
		}

		c.Set(ginIdentityKey, identity)
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// WithIdentity returns a context carrying identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity attached by RequireDevice.
func IdentityFromContext(ctx context.Context) (*Identity, error) {
	identity, ok := ctx.Value(identityKey{}).(*Identity)
	if !ok || identity == nil {
		return nil, ErrNoIdentity
	}
	return identity, nil
}

// RequireAdminKey guards operator endpoints with a shared key. An empty
// configured key rejects every request.
func RequireAdminKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(constants.AdminKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			logger.Warn("admin key rejected", zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": ErrAccessDenied.Error()})
			return
		}
		c.Next()
	}
}
