package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const transactionColumns = `id, user_id, op_hash, tx_hash, network, chain_id, status, value, asset, value_usd_nano, metadata, created_at, updated_at`

func scanTransaction(row interface{ Scan(...interface{}) error }) (Transaction, error) {
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.OpHash,
		&i.TxHash,
		&i.Network,
		&i.ChainID,
		&i.Status,
		&i.Value,
		&i.Asset,
		&i.ValueUsdNano,
		&i.Metadata,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (user_id, op_hash, tx_hash, network, chain_id, status, value, asset, value_usd_nano, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + transactionColumns

type CreateTransactionParams struct {
	UserID       uuid.UUID   `json:"user_id"`
	OpHash       string      `json:"op_hash"`
	TxHash       pgtype.Text `json:"tx_hash"`
	Network      string      `json:"network"`
	ChainID      int64       `json:"chain_id"`
	Status       string      `json:"status"`
	Value        string      `json:"value"`
	Asset        string      `json:"asset"`
	ValueUsdNano int64       `json:"value_usd_nano"`
	Metadata     []byte      `json:"metadata"`
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	return scanTransaction(q.db.QueryRow(ctx, createTransaction,
		arg.UserID,
		arg.OpHash,
		arg.TxHash,
		arg.Network,
		arg.ChainID,
		arg.Status,
		arg.Value,
		arg.Asset,
		arg.ValueUsdNano,
		arg.Metadata,
	))
}

const sumUserSpendSince = `-- name: SumUserSpendSince :one
SELECT COALESCE(SUM(value_usd_nano), 0)::BIGINT FROM transactions
WHERE user_id = $1 AND created_at >= $2 AND status <> 'failed'`

type SumUserSpendSinceParams struct {
	UserID uuid.UUID `json:"user_id"`
	Since  time.Time `json:"since"`
}

func (q *Queries) SumUserSpendSince(ctx context.Context, arg SumUserSpendSinceParams) (int64, error) {
	var total int64
	err := q.db.QueryRow(ctx, sumUserSpendSince, arg.UserID, arg.Since).Scan(&total)
	return total, err
}

const listTransactions = `-- name: ListTransactions :many
SELECT ` + transactionColumns + ` FROM transactions
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`

type ListTransactionsParams struct {
	UserID uuid.UUID `json:"user_id"`
	Limit  int32     `json:"limit"`
}

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, listTransactions, arg.UserID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		i, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
