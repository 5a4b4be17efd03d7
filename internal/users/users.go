package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/cyphera/passkey-wallet/internal/db"
	"github.com/cyphera/passkey-wallet/internal/helpers"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPIN     = errors.New("spending PIN must be 4 to 8 digits")
	ErrInvalidAmount  = errors.New("invalid USD amount")
	ErrUserNotFound   = errors.New("user not found")
	ErrWalletNotFound = errors.New("wallet not found")
)

const pinCost = 10

var pinPattern = regexp.MustCompile(`^\d{4,8}$`)

// Profile is the caller-facing view of a user. The PIN hash never leaves the service.
type Profile struct {
	ID                  uuid.UUID `json:"id"`
	Frozen              bool      `json:"frozen"`
	DailyLimitUSD       string    `json:"dailyLimitUsd"`
	LargeTxThresholdUSD string    `json:"largeTxThresholdUsd"`
	CreditBalanceUSD    string    `json:"creditBalanceUsd"`
	SpentTodayUSD       string    `json:"spentTodayUsd"`
	HasSpendingPIN      bool      `json:"hasSpendingPin"`
}

type LimitsInput struct {
	DailyLimitUSD       string `json:"dailyLimitUsd" binding:"required"`
	LargeTxThresholdUSD string `json:"largeTxThresholdUsd" binding:"required"`
}

type Service struct {
	store   db.Store
	deriver AddressDeriver
	chains  ChainLister
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(store db.Store, deriver AddressDeriver, chains ChainLister) *Service {
	return &Service{
		store:   store,
		deriver: deriver,
		chains:  chains,
		now:     time.Now,
		logger:  logger.With(zap.String("component", "users")),
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Profile returns the user's settings and the spend recorded over the last 24 hours.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, user)
}

func (s *Service) profile(ctx context.Context, user db.User) (*Profile, error) {
	spent, err := s.store.SumUserSpendSince(ctx, db.SumUserSpendSinceParams{
		UserID: user.ID,
		Since:  s.now().Add(-24 * time.Hour),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sum recent spend: %w", err)
	}
	return &Profile{
		ID:                  user.ID,
		Frozen:              user.Frozen,
		DailyLimitUSD:       helpers.FormatUSD(user.DailyLimitUsdNano),
		LargeTxThresholdUSD: helpers.FormatUSD(user.LargeTxThresholdUsdNano),
		CreditBalanceUSD:    helpers.FormatUSD(user.CreditBalanceUsdNano),
		SpentTodayUSD:       helpers.FormatUSD(spent),
		HasSpendingPIN:      user.SpendingPinHash.Valid && user.SpendingPinHash.String != "",
	}, nil
}

// SetSpendingPIN stores a bcrypt hash of a 4 to 8 digit PIN, replacing any previous one.
func (s *Service) SetSpendingPIN(ctx context.Context, userID uuid.UUID, pin string) error {
	if !pinPattern.MatchString(pin) {
		return ErrInvalidPIN
	}
	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), pinCost)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}
	if err := s.store.SetUserSpendingPin(ctx, db.SetUserSpendingPinParams{
		ID:              userID,
		SpendingPinHash: pgtype.Text{String: string(hash), Valid: true},
	}); err != nil {
		return fmt.Errorf("failed to store PIN: %w", err)
	}
	s.logger.Info("spending PIN updated", zap.String("user_id", userID.String()))
	return nil
}

// UpdateLimits replaces the daily limit and the large-transaction threshold.
func (s *Service) UpdateLimits(ctx context.Context, userID uuid.UUID, in LimitsInput) (*Profile, error) {
	daily, err := parseAmount(in.DailyLimitUSD, true)
	if err != nil {
		return nil, err
	}
	threshold, err := parseAmount(in.LargeTxThresholdUSD, true)
	if err != nil {
		return nil, err
	}
	user, err := s.store.UpdateUserLimits(ctx, db.UpdateUserLimitsParams{
		ID:                      userID,
		DailyLimitUsdNano:       daily,
		LargeTxThresholdUsdNano: threshold,
	})
	if err != nil {
		return nil, notFound(err, "failed to update limits")
	}
	s.logger.Info("limits updated",
		zap.String("user_id", userID.String()),
		zap.Int64("daily_limit_usd_nano", daily),
		zap.Int64("large_tx_threshold_usd_nano", threshold),
	)
	return s.profile(ctx, user)
}

// SetFrozen freezes or unfreezes a user. A frozen user fails every gated request.
func (s *Service) SetFrozen(ctx context.Context, userID uuid.UUID, frozen bool) (*Profile, error) {
	user, err := s.store.SetUserFrozen(ctx, db.SetUserFrozenParams{ID: userID, Frozen: frozen})
	if err != nil {
		return nil, notFound(err, "failed to update frozen flag")
	}
	s.logger.Warn("user frozen flag changed", zap.String("user_id", userID.String()), zap.Bool("frozen", frozen))
	return s.profile(ctx, user)
}

// TopUpCredit adds a positive USD amount to the user's sponsorship credit.
func (s *Service) TopUpCredit(ctx context.Context, userID uuid.UUID, amountUSD string) (*Profile, error) {
	amount, err := parseAmount(amountUSD, false)
	if err != nil {
		return nil, err
	}
	user, err := s.store.AddUserCredit(ctx, db.AddUserCreditParams{ID: userID, AmountNano: amount})
	if err != nil {
		return nil, notFound(err, "failed to add credit")
	}
	s.logger.Info("credit topped up",
		zap.String("user_id", userID.String()),
		zap.Int64("amount_usd_nano", amount),
		zap.Int64("balance_usd_nano", user.CreditBalanceUsdNano),
	)
	return s.profile(ctx, user)
}

func (s *Service) getUser(ctx context.Context, userID uuid.UUID) (db.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return db.User{}, notFound(err, "failed to load user")
	}
	return user, nil
}

func notFound(err error, msg string) error {
	if db.IsNotFound(err) {
		return ErrUserNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// parseAmount accepts decimal USD strings; zero is allowed only when allowZero is set.
func parseAmount(s string, allowZero bool) (int64, error) {
	n, err := helpers.ParseUSD(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if n < 0 || (n == 0 && !allowZero) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return n, nil
}
