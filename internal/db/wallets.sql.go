package db

import (
	"context"

	"github.com/google/uuid"
)

const walletColumns = `id, user_id, salt, name, active, created_at`

func scanWallet(row interface{ Scan(...interface{}) error }) (Wallet, error) {
	var i Wallet
	err := row.Scan(&i.ID, &i.UserID, &i.Salt, &i.Name, &i.Active, &i.CreatedAt)
	return i, err
}

// A user's first wallet becomes active; later ones are created inactive.
const ensureWallet = `-- name: EnsureWallet :one
INSERT INTO wallets (user_id, salt, name, active)
VALUES ($1, $2, $3, NOT EXISTS (SELECT 1 FROM wallets WHERE user_id = $1 AND active))
ON CONFLICT (user_id, salt) DO UPDATE SET name = wallets.name
RETURNING ` + walletColumns

type EnsureWalletParams struct {
	UserID uuid.UUID `json:"user_id"`
	Salt   int64     `json:"salt"`
	Name   string    `json:"name"`
}

func (q *Queries) EnsureWallet(ctx context.Context, arg EnsureWalletParams) (Wallet, error) {
	return scanWallet(q.db.QueryRow(ctx, ensureWallet, arg.UserID, arg.Salt, arg.Name))
}

const listWallets = `-- name: ListWallets :many
SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 ORDER BY salt`

func (q *Queries) ListWallets(ctx context.Context, userID uuid.UUID) ([]Wallet, error) {
	rows, err := q.db.Query(ctx, listWallets, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Wallet
	for rows.Next() {
		i, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getActiveWallet = `-- name: GetActiveWallet :one
SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 AND active`

func (q *Queries) GetActiveWallet(ctx context.Context, userID uuid.UUID) (Wallet, error) {
	return scanWallet(q.db.QueryRow(ctx, getActiveWallet, userID))
}

// Flips every wallet of the user in one statement so exactly one stays active.
// Returns zero rows when the salt does not belong to the user.
const setActiveWallet = `-- name: SetActiveWallet :execrows
UPDATE wallets SET active = (salt = $2)
WHERE user_id = $1 AND EXISTS (SELECT 1 FROM wallets w WHERE w.user_id = $1 AND w.salt = $2)`

type SetActiveWalletParams struct {
	UserID uuid.UUID `json:"user_id"`
	Salt   int64     `json:"salt"`
}

func (q *Queries) SetActiveWallet(ctx context.Context, arg SetActiveWalletParams) (int64, error) {
	tag, err := q.db.Exec(ctx, setActiveWallet, arg.UserID, arg.Salt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
