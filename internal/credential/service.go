package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cyphera/passkey-wallet/internal/client/notify"
	"github.com/cyphera/passkey-wallet/internal/constants"
	"github.com/cyphera/passkey-wallet/internal/db"
	"github.com/cyphera/passkey-wallet/internal/derivation"
	"github.com/cyphera/passkey-wallet/internal/helpers"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

var (
	ErrRegistrationFailed   = errors.New("registration failed")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrChallengeExpired     = errors.New("challenge expired")
	ErrCounterRegression    = errors.New("signature counter did not increase")
	ErrUserNotFound         = errors.New("user not found")
)

// SessionIssuer issues bearer tokens for a verified device.
type SessionIssuer interface {
	Issue(userID, deviceID uuid.UUID) (string, time.Time, error)
}

// Config holds the knobs of the credential verifier.
type Config struct {
	ChallengeTTL            time.Duration
	ReplayWindow            time.Duration
	DefaultDailyLimit       int64
	DefaultLargeTxThreshold int64
}

// Service registers and authenticates device passkeys.
type Service struct {
	store      db.Store
	deriver    derivation.AddressDeriver
	sessions   SessionIssuer
	ceremonies CeremonyFactory
	rp         RPResolver
	cfg        Config
	refChain   int64
	notifier   notify.Notifier
	logins     *helpers.KeyedMutex
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(store db.Store, deriver derivation.AddressDeriver, sessions SessionIssuer, ceremonies CeremonyFactory, rp RPResolver, cfg Config, referenceChain int64) *Service {
	return &Service{
		store:      store,
		deriver:    deriver,
		sessions:   sessions,
		ceremonies: ceremonies,
		rp:         rp,
		cfg:        cfg,
		refChain:   referenceChain,
		logins:     helpers.NewKeyedMutex(),
		now:        time.Now,
		logger:     logger.With(zap.String("component", "credential_verifier")),
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithNotifier announces new registrations so pass holders get their first update.
func (s *Service) WithNotifier(n notify.Notifier) *Service {
	s.notifier = n
	return s
}

type BeginRegistrationParams struct {
	UserID *uuid.UUID
	Origin string
}

type RegistrationChallenge struct {
	UserID       uuid.UUID                    `json:"userId"`
	DeviceHandle string                       `json:"deviceHandle"`
	Options      *protocol.CredentialCreation `json:"options"`
}

type RegistrationResult struct {
	UserID         uuid.UUID `json:"userId"`
	DeviceID       uuid.UUID `json:"deviceId"`
	DerivedAddress string    `json:"derivedAddress,omitempty"`
	SessionToken   string    `json:"sessionToken"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

type LoginChallenge struct {
	CanLogin bool                          `json:"canLogin"`
	Options  *protocol.CredentialAssertion `json:"options,omitempty"`
}

type LoginResult struct {
	Verified     bool      `json:"verified"`
	UserID       uuid.UUID `json:"userId"`
	DeviceID     uuid.UUID `json:"deviceId"`
	SessionToken string    `json:"sessionToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Replayed     bool      `json:"-"`
}

func regFailed(cause error) error {
	return fmt.Errorf("%w: %w", ErrRegistrationFailed, cause)
}

func authFailed(reason string) error {
	return fmt.Errorf("%w: %s", ErrAuthenticationFailed, reason)
}

// BeginRegistration creates a pending device for a new or existing user and
// returns the creation options the authenticator must sign.
func (s *Service) BeginRegistration(ctx context.Context, params BeginRegistrationParams) (*RegistrationChallenge, error) {
	rpID, err := s.rp.Resolve(params.Origin)
	if err != nil {
		return nil, regFailed(err)
	}
	ceremony, err := s.ceremonies(rpID, params.Origin)
	if err != nil {
		return nil, regFailed(err)
	}

	var out *RegistrationChallenge
	err = s.store.ExecTx(ctx, func(q db.Querier) error {
		var user db.User
		if params.UserID == nil {
			user, err = q.CreateUser(ctx, db.CreateUserParams{
				DailyLimitUsdNano:       s.cfg.DefaultDailyLimit,
				LargeTxThresholdUsdNano: s.cfg.DefaultLargeTxThreshold,
			})
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
		} else {
			user, err = q.GetUser(ctx, *params.UserID)
			if db.IsNotFound(err) {
				return ErrUserNotFound
			}
			if err != nil {
				return fmt.Errorf("failed to load user: %w", err)
			}
		}

		existing, err := q.ListLoginCandidates(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to list devices: %w", err)
		}

		options, session, err := ceremony.BeginRegistration(&passkeyUser{id: user.ID, credentials: s.toCredentials(existing)})
		if err != nil {
			return regFailed(err)
		}

		expires := s.now().Add(s.cfg.ChallengeTTL)
		session.Expires = expires
		rawSession, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}

		device, err := q.CreateDevice(ctx, db.CreateDeviceParams{
			UserID:             user.ID,
			LibraryID:          uuid.NewString(),
			CurrentChallenge:   pgtype.Text{String: session.Challenge, Valid: true},
			ChallengeSession:   rawSession,
			ChallengeExpiresAt: pgtype.Timestamptz{Time: expires, Valid: true},
		})
		if err != nil {
			return fmt.Errorf("failed to create device: %w", err)
		}

		out = &RegistrationChallenge{UserID: user.ID, DeviceHandle: device.LibraryID, Options: options}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("registration started",
		zap.String("user_id", out.UserID.String()),
		zap.String("device_handle", out.DeviceHandle),
		zap.String("rp_id", rpID),
	)
	return out, nil
}

// CompleteRegistration verifies the attestation for a pending device and activates it.
func (s *Service) CompleteRegistration(ctx context.Context, deviceHandle, origin string, parsed *protocol.ParsedCredentialCreationData) (*RegistrationResult, error) {
	if parsed == nil {
		return nil, regFailed(errors.New("missing attestation"))
	}
	device, err := s.store.GetDeviceByLibraryID(ctx, deviceHandle)
	if db.IsNotFound(err) {
		return nil, regFailed(errors.New("unknown device handle"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load device: %w", err)
	}
	if len(device.PublicKey) > 0 {
		return nil, regFailed(errors.New("device already registered"))
	}
	if !device.CurrentChallenge.Valid || len(device.ChallengeSession) == 0 {
		return nil, regFailed(errors.New("no pending challenge"))
	}
	if s.expired(device) {
		return nil, regFailed(ErrChallengeExpired)
	}

	var session webauthn.SessionData
	if err := json.Unmarshal(device.ChallengeSession, &session); err != nil {
		return nil, regFailed(fmt.Errorf("corrupt session: %w", err))
	}

	rpID, err := s.rp.Resolve(origin)
	if err != nil {
		return nil, regFailed(err)
	}
	ceremony, err := s.ceremonies(rpID, origin)
	if err != nil {
		return nil, regFailed(err)
	}

	user := &passkeyUser{id: device.UserID}
	cred, err := ceremony.CreateCredential(user, session, parsed)
	if err != nil {
		s.logger.Warn("attestation rejected",
			zap.String("device_id", device.ID.String()),
			zap.String("rp_id", rpID),
			zap.Error(err),
		)
		return nil, regFailed(err)
	}

	var activated db.Device
	err = s.store.ExecTx(ctx, func(q db.Querier) error {
		activated, err = q.ActivateDevice(ctx, db.ActivateDeviceParams{
			ID:           device.ID,
			CredentialID: EncodeCredentialID(cred.ID),
			PublicKey:    cred.PublicKey,
			SignCount:    int64(cred.Authenticator.SignCount),
		})
		if db.IsNotFound(err) {
			return regFailed(errors.New("device already registered"))
		}
		if err != nil {
			return fmt.Errorf("failed to activate device: %w", err)
		}
		_, err = q.EnsureWallet(ctx, db.EnsureWalletParams{
			UserID: device.UserID,
			Salt:   constants.DefaultSalt,
			Name:   "Primary",
		})
		if err != nil {
			return fmt.Errorf("failed to create wallet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &RegistrationResult{UserID: activated.UserID, DeviceID: activated.ID}
	result.DerivedAddress = s.recordAddress(ctx, activated)

	token, expiresAt, err := s.sessions.Issue(activated.UserID, activated.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	result.SessionToken = token
	result.ExpiresAt = expiresAt

	s.logger.Info("device registered",
		zap.String("user_id", activated.UserID.String()),
		zap.String("device_id", activated.ID.String()),
		zap.String("derived_address", result.DerivedAddress),
	)
	return result, nil
}

// recordAddress derives the reference-chain address and indexes it. Derivation
// problems leave the address empty; the watcher fills the index on its next cycle.
func (s *Service) recordAddress(ctx context.Context, device db.Device) string {
	serial, err := s.deriver.Serial(ctx, device.PublicKey)
	if err != nil {
		s.logger.Warn("address derivation deferred",
			zap.String("device_id", device.ID.String()),
			zap.Error(err),
		)
		return ""
	}
	err = s.store.UpsertAaAddress(ctx, db.UpsertAaAddressParams{
		ChainID:  s.refChain,
		Address:  serial.Hex(),
		Serial:   serial.Hex(),
		DeviceID: device.ID,
	})
	if err != nil {
		s.logger.Warn("failed to index derived address", zap.String("device_id", device.ID.String()), zap.Error(err))
	}
	if s.notifier != nil {
		s.notifier.NotifyUpdate(ctx, notify.Update{
			Serial:  serial.Hex(),
			Reason:  notify.ReasonRegistration,
			ChainID: s.refChain,
			At:      s.now().UTC(),
		})
	}
	return serial.Hex()
}

// BeginLogin issues one shared challenge to every active device of the user.
func (s *Service) BeginLogin(ctx context.Context, userID uuid.UUID, origin string) (*LoginChallenge, error) {
	candidates, err := s.store.ListLoginCandidates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	if len(candidates) == 0 {
		return &LoginChallenge{CanLogin: false}, nil
	}

	rpID, err := s.rp.Resolve(origin)
	if err != nil {
		return nil, authFailed(err.Error())
	}
	ceremony, err := s.ceremonies(rpID, origin)
	if err != nil {
		return nil, err
	}

	options, session, err := ceremony.BeginLogin(&passkeyUser{id: userID, credentials: s.toCredentials(candidates)})
	if err != nil {
		return nil, fmt.Errorf("failed to start login: %w", err)
	}
	expires := s.now().Add(s.cfg.ChallengeTTL)
	session.Expires = expires
	rawSession, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}

	err = s.store.ExecTx(ctx, func(q db.Querier) error {
		for _, d := range candidates {
			if err := q.SetDeviceChallenge(ctx, db.SetDeviceChallengeParams{
				ID:                 d.ID,
				CurrentChallenge:   pgtype.Text{String: session.Challenge, Valid: true},
				ChallengeSession:   rawSession,
				ChallengeExpiresAt: pgtype.Timestamptz{Time: expires, Valid: true},
			}); err != nil {
				return fmt.Errorf("failed to store challenge: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &LoginChallenge{CanLogin: true, Options: options}, nil
}

// CompleteLogin verifies an assertion against the device that produced it.
// A retry carrying an already consumed challenge inside the replay window
// returns success without running verification again. Logins of one user are
// serialized in process; the guarded update covers other processes.
func (s *Service) CompleteLogin(ctx context.Context, userID uuid.UUID, origin string, parsed *protocol.ParsedCredentialAssertionData) (*LoginResult, error) {
	if parsed == nil {
		return nil, authFailed("missing assertion")
	}
	unlock := s.logins.Lock(userID.String())
	defer unlock()

	candidates, err := s.store.ListLoginCandidates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	device, ok := s.match(candidates, parsed.RawID)
	if !ok {
		return nil, authFailed("unknown credential")
	}

	clientChallenge := parsed.Response.CollectedClientData.Challenge
	if !device.CurrentChallenge.Valid || device.CurrentChallenge.String != clientChallenge {
		return nil, authFailed("challenge mismatch")
	}
	if consumedBySibling(candidates, device, clientChallenge) {
		s.logger.Warn("challenge already consumed by another device",
			zap.String("device_id", device.ID.String()),
		)
		return nil, authFailed("challenge already used")
	}

	now := s.now()
	if device.ChallengeUsedAt.Valid {
		return s.replay(device, now)
	}
	if s.expired(device) {
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, ErrChallengeExpired)
	}

	var session webauthn.SessionData
	if err := json.Unmarshal(device.ChallengeSession, &session); err != nil {
		return nil, authFailed("corrupt session")
	}
	rpID, err := s.rp.Resolve(origin)
	if err != nil {
		return nil, authFailed(err.Error())
	}
	ceremony, err := s.ceremonies(rpID, origin)
	if err != nil {
		return nil, err
	}

	cred, err := ceremony.ValidateLogin(&passkeyUser{id: userID, credentials: s.toCredentials([]db.Device{device})}, session, parsed)
	if err != nil {
		s.logger.Warn("assertion rejected",
			zap.String("device_id", device.ID.String()),
			zap.String("rp_id", rpID),
			zap.Error(err),
		)
		return nil, authFailed(err.Error())
	}

	newCount := int64(cred.Authenticator.SignCount)
	if cred.Authenticator.CloneWarning || ((newCount != 0 || device.SignCount != 0) && newCount <= device.SignCount) {
		s.logger.Warn("signature counter regression",
			zap.String("device_id", device.ID.String()),
			zap.Int64("stored_count", device.SignCount),
			zap.Int64("reported_count", newCount),
		)
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, ErrCounterRegression)
	}

	consumed := false
	err = s.store.ExecTx(ctx, func(q db.Querier) error {
		n, err := q.MarkDeviceLogin(ctx, db.MarkDeviceLoginParams{
			ID:        device.ID,
			SignCount: newCount,
			UsedAt:    pgtype.Timestamptz{Time: now, Valid: true},
			Challenge: clientChallenge,
		})
		if err != nil {
			return fmt.Errorf("failed to record login: %w", err)
		}
		if n == 0 {
			return nil
		}
		consumed = true
		if err := q.ClearSiblingChallenges(ctx, db.ClearSiblingChallengesParams{
			UserID:    device.UserID,
			KeepID:    device.ID,
			Challenge: clientChallenge,
		}); err != nil {
			return fmt.Errorf("failed to retire shared challenge: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if consumed {
		return s.loginSuccess(device, false)
	}

	// Another request consumed the challenge between our read and our write.
	current, err := s.store.GetDevice(ctx, device.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload device: %w", err)
	}
	if !current.CurrentChallenge.Valid || current.CurrentChallenge.String != clientChallenge || !current.ChallengeUsedAt.Valid {
		return nil, authFailed("challenge already used")
	}
	return s.replay(current, now)
}

// replay answers a request whose challenge this device already consumed.
func (s *Service) replay(device db.Device, now time.Time) (*LoginResult, error) {
	if now.Sub(device.ChallengeUsedAt.Time) > s.cfg.ReplayWindow {
		return nil, authFailed("challenge already used")
	}
	s.logger.Info("login replay within window",
		zap.String("device_id", device.ID.String()),
		zap.Time("consumed_at", device.ChallengeUsedAt.Time),
	)
	return s.loginSuccess(device, true)
}

func consumedBySibling(candidates []db.Device, device db.Device, challenge string) bool {
	for _, d := range candidates {
		if d.ID == device.ID {
			continue
		}
		if d.CurrentChallenge.Valid && d.CurrentChallenge.String == challenge && d.ChallengeUsedAt.Valid {
			return true
		}
	}
	return false
}

func (s *Service) loginSuccess(device db.Device, replayed bool) (*LoginResult, error) {
	token, expiresAt, err := s.sessions.Issue(device.UserID, device.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	return &LoginResult{
		Verified:     true,
		UserID:       device.UserID,
		DeviceID:     device.ID,
		SessionToken: token,
		ExpiresAt:    expiresAt,
		Replayed:     replayed,
	}, nil
}

func (s *Service) expired(d db.Device) bool {
	return !d.ChallengeExpiresAt.Valid || !s.now().Before(d.ChallengeExpiresAt.Time)
}

func (s *Service) match(candidates []db.Device, raw []byte) (db.Device, bool) {
	for _, d := range candidates {
		id, err := ParseCredentialID(d.CredentialID.String)
		if err != nil {
			continue
		}
		if id.Matches(raw) {
			if id.Encoding == EncodingLegacy {
				s.logger.Debug("matched legacy credential id", zap.String("device_id", d.ID.String()))
			}
			return d, true
		}
	}
	return db.Device{}, false
}

func (s *Service) toCredentials(devices []db.Device) []webauthn.Credential {
	out := make([]webauthn.Credential, 0, len(devices))
	for _, d := range devices {
		if !d.CredentialID.Valid {
			continue
		}
		id, err := ParseCredentialID(d.CredentialID.String)
		if err != nil {
			s.logger.Warn("skipping undecodable credential id", zap.String("device_id", d.ID.String()))
			continue
		}
		out = append(out, webauthn.Credential{
			ID:        id.Raw,
			PublicKey: d.PublicKey,
			Authenticator: webauthn.Authenticator{
				SignCount: uint32(d.SignCount),
			},
		})
	}
	return out
}
