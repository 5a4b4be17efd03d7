package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cyphera/passkey-wallet/internal/constants"
	"github.com/cyphera/passkey-wallet/internal/db"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"github.com/cyphera/passkey-wallet/internal/mocks"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test")
	gin.SetMode(gin.TestMode)
}

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newIssuer(t *testing.T) *TokenIssuer {
	issuer, err := NewTokenIssuer(testSecret, "passkey-wallet", time.Hour)
	require.NoError(t, err)
	return issuer
}

func TestTokenIssuer(t *testing.T) {
	issuer := newIssuer(t)
	userID, deviceID := uuid.New(), uuid.New()

	token, expiresAt, err := issuer.Issue(userID, deviceID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, deviceID.String(), claims.DeviceID)

	t.Run("expired", func(t *testing.T) {
		stale := newIssuer(t)
		stale.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		old, _, err := stale.Issue(userID, deviceID)
		require.NoError(t, err)
		_, err = issuer.Verify(old)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewTokenIssuer([]byte("ffffffffffffffffffffffffffffffff"), "passkey-wallet", time.Hour)
		require.NoError(t, err)
		forged, _, err := other.Issue(userID, deviceID)
		require.NoError(t, err)
		_, err = issuer.Verify(forged)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("short secret", func(t *testing.T) {
		_, err := NewTokenIssuer([]byte("short"), "x", time.Hour)
		assert.Error(t, err)
	})
}

func TestGatekeeper_Authenticate(t *testing.T) {
	issuer := newIssuer(t)
	user := db.User{ID: uuid.New()}
	device := db.Device{ID: uuid.New(), UserID: user.ID, Active: true}
	otherUser := uuid.New()

	bearer := func(userID, deviceID uuid.UUID) string {
		token, _, err := issuer.Issue(userID, deviceID)
		require.NoError(t, err)
		return constants.BearerPrefix + token
	}

	tests := []struct {
		name       string
		devMode    bool
		header     string
		auth       string
		setupMocks func(store *mocks.MockStore)
		wantErr    error
	}{
		{
			name:    "missing device header wins over missing token",
			header:  "",
			auth:    "",
			wantErr: ErrDeviceMissing,
		},
		{
			name:    "missing token",
			header:  device.ID.String(),
			wantErr: ErrUnauthorized,
		},
		{
			name:    "token without bearer prefix",
			header:  device.ID.String(),
			auth:    "abc",
			wantErr: ErrUnauthorized,
		},
		{
			name:    "token for another device",
			header:  device.ID.String(),
			auth:    bearer(user.ID, uuid.New()),
			wantErr: ErrUnauthorized,
		},
		{
			name:   "unknown device",
			header: device.ID.String(),
			auth:   bearer(user.ID, device.ID),
			setupMocks: func(store *mocks.MockStore) {
				store.EXPECT().GetDevice(gomock.Any(), device.ID).Return(db.Device{}, pgx.ErrNoRows)
			},
			wantErr: ErrDeviceUnrecognized,
		},
		{
			name:   "subject is not the device owner",
			header: device.ID.String(),
			auth:   bearer(otherUser, device.ID),
			setupMocks: func(store *mocks.MockStore) {
				store.EXPECT().GetDevice(gomock.Any(), device.ID).Return(device, nil)
				store.EXPECT().GetUser(gomock.Any(), user.ID).Return(user, nil)
			},
			wantErr: ErrUnauthorized,
		},
		{
			name:   "frozen user",
			header: device.ID.String(),
			auth:   bearer(user.ID, device.ID),
			setupMocks: func(store *mocks.MockStore) {
				store.EXPECT().GetDevice(gomock.Any(), device.ID).Return(device, nil)
				store.EXPECT().GetUser(gomock.Any(), user.ID).Return(db.User{ID: user.ID, Frozen: true}, nil)
			},
			wantErr: ErrAccessDenied,
		},
		{
			name:   "inactive device",
			header: device.ID.String(),
			auth:   bearer(user.ID, device.ID),
			setupMocks: func(store *mocks.MockStore) {
				inactive := device
				inactive.Active = false
				store.EXPECT().GetDevice(gomock.Any(), device.ID).Return(inactive, nil)
				store.EXPECT().GetUser(gomock.Any(), user.ID).Return(user, nil)
			},
			wantErr: ErrAccessDenied,
		},
		{
			name:   "valid",
			header: device.ID.String(),
			auth:   bearer(user.ID, device.ID),
			setupMocks: func(store *mocks.MockStore) {
				store.EXPECT().GetDevice(gomock.Any(), device.ID).Return(device, nil)
				store.EXPECT().GetUser(gomock.Any(), user.ID).Return(user, nil)
			},
		},
		{
			name:    "dev mode skips token",
			devMode: true,
			header:  device.ID.String(),
			setupMocks: func(store *mocks.MockStore) {
				store.EXPECT().GetDevice(gomock.Any(), device.ID).Return(device, nil)
				store.EXPECT().GetUser(gomock.Any(), user.ID).Return(user, nil)
			},
		},
		{
			name:    "dev mode still rejects unknown device",
			devMode: true,
			header:  "not-a-uuid",
			wantErr: ErrDeviceUnrecognized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockStoreForTest(t)
			if tt.setupMocks != nil {
				tt.setupMocks(store)
			}
			g := NewGatekeeper(store, issuer, tt.devMode)

			identity, err := g.Authenticate(context.Background(), tt.header, tt.auth)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, device.ID, identity.Device.ID)
			assert.Equal(t, user.ID, identity.User.ID)
		})
	}
}

func TestRequireDevice(t *testing.T) {
	issuer := newIssuer(t)
	user := db.User{ID: uuid.New()}
	device := db.Device{ID: uuid.New(), UserID: user.ID, Active: true}

	store := mocks.NewMockStoreForTest(t)
	store.EXPECT().GetDevice(gomock.Any(), device.ID).Return(device, nil)
	store.EXPECT().GetUser(gomock.Any(), user.ID).Return(user, nil)

	router := gin.New()
	router.GET("/v1/me", NewGatekeeper(store, issuer, false).RequireDevice(), func(c *gin.Context) {
		identity, err := IdentityFromContext(c.Request.Context())
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"user": identity.User.ID.String()})
	})

	token, _, err := issuer.Issue(user.ID, device.ID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set(constants.DeviceIDHeader, device.ID.String())
	req.Header.Set(constants.AuthorizationHeader, constants.BearerPrefix+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequireAdminKey(t *testing.T) {
	router := gin.New()
	router.POST("/admin", RequireAdminKey("s3cret"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for key, want := range map[string]int{"s3cret": http.StatusNoContent, "wrong": http.StatusForbidden, "": http.StatusForbidden} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.Header.Set(constants.AdminKeyHeader, key)
		router.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, key)
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(ErrDeviceMissing))
	assert.Equal(t, http.StatusUnauthorized, StatusFor(ErrDeviceUnrecognized))
	assert.Equal(t, http.StatusForbidden, StatusFor(ErrAccessDenied))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}
