package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, frozen, daily_limit_usd_nano, large_tx_threshold_usd_nano, spending_pin_hash, credit_balance_usd_nano, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Frozen,
		&i.DailyLimitUsdNano,
		&i.LargeTxThresholdUsdNano,
		&i.SpendingPinHash,
		&i.CreditBalanceUsdNano,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (daily_limit_usd_nano, large_tx_threshold_usd_nano)
VALUES ($1, $2)
RETURNING ` + userColumns

type CreateUserParams struct {
	DailyLimitUsdNano       int64 `json:"daily_limit_usd_nano"`
	LargeTxThresholdUsdNano int64 `json:"large_tx_threshold_usd_nano"`
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, createUser, arg.DailyLimitUsdNano, arg.LargeTxThresholdUsdNano))
}

const getUser = `-- name: GetUser :one
SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUser, id))
}

const getUserForUpdate = `-- name: GetUserForUpdate :one
SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

func (q *Queries) GetUserForUpdate(ctx context.Context, id uuid.UUID) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserForUpdate, id))
}

const updateUserCreditBalance = `-- name: UpdateUserCreditBalance :exec
UPDATE users SET credit_balance_usd_nano = $2, updated_at = NOW() WHERE id = $1`

type UpdateUserCreditBalanceParams struct {
	ID                   uuid.UUID `json:"id"`
	CreditBalanceUsdNano int64     `json:"credit_balance_usd_nano"`
}

func (q *Queries) UpdateUserCreditBalance(ctx context.Context, arg UpdateUserCreditBalanceParams) error {
	_, err := q.db.Exec(ctx, updateUserCreditBalance, arg.ID, arg.CreditBalanceUsdNano)
	return err
}

const addUserCredit = `-- name: AddUserCredit :one
UPDATE users SET credit_balance_usd_nano = credit_balance_usd_nano + $2, updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns

type AddUserCreditParams struct {
	ID         uuid.UUID `json:"id"`
	AmountNano int64     `json:"amount_nano"`
}

func (q *Queries) AddUserCredit(ctx context.Context, arg AddUserCreditParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, addUserCredit, arg.ID, arg.AmountNano))
}

const setUserFrozen = `-- name: SetUserFrozen :one
UPDATE users SET frozen = $2, updated_at = NOW() WHERE id = $1
RETURNING ` + userColumns

type SetUserFrozenParams struct {
	ID     uuid.UUID `json:"id"`
	Frozen bool      `json:"frozen"`
}

func (q *Queries) SetUserFrozen(ctx context.Context, arg SetUserFrozenParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, setUserFrozen, arg.ID, arg.Frozen))
}

const updateUserLimits = `-- name: UpdateUserLimits :one
UPDATE users SET daily_limit_usd_nano = $2, large_tx_threshold_usd_nano = $3, updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns

type UpdateUserLimitsParams struct {
	ID                      uuid.UUID `json:"id"`
	DailyLimitUsdNano       int64     `json:"daily_limit_usd_nano"`
	LargeTxThresholdUsdNano int64     `json:"large_tx_threshold_usd_nano"`
}

func (q *Queries) UpdateUserLimits(ctx context.Context, arg UpdateUserLimitsParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, updateUserLimits, arg.ID, arg.DailyLimitUsdNano, arg.LargeTxThresholdUsdNano))
}

const setUserSpendingPin = `-- name: SetUserSpendingPin :exec
UPDATE users SET spending_pin_hash = $2, updated_at = NOW() WHERE id = $1`

type SetUserSpendingPinParams struct {
	ID              uuid.UUID   `json:"id"`
	SpendingPinHash pgtype.Text `json:"-"`
}

func (q *Queries) SetUserSpendingPin(ctx context.Context, arg SetUserSpendingPinParams) error {
	_, err := q.db.Exec(ctx, setUserSpendingPin, arg.ID, arg.SpendingPinHash)
	return err
}
