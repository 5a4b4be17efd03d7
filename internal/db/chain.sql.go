package db

import (
	"context"

	"github.com/google/uuid"
)

const cursorColumns = `chain_id, wallet_address, token_address, last_scanned_block, updated_at`

func scanCursor(row interface{ Scan(...interface{}) error }) (ChainCursor, error) {
	var i ChainCursor
	err := row.Scan(&i.ChainID, &i.WalletAddress, &i.TokenAddress, &i.LastScannedBlock, &i.UpdatedAt)
	return i, err
}

// The starting block only applies on first insert; an existing cursor is returned untouched.
const getOrCreateChainCursor = `-- name: GetOrCreateChainCursor :one
INSERT INTO chain_cursors (chain_id, wallet_address, token_address, last_scanned_block)
VALUES ($1, $2, $3, $4)
ON CONFLICT (chain_id, wallet_address, token_address)
DO UPDATE SET last_scanned_block = chain_cursors.last_scanned_block
RETURNING ` + cursorColumns

type GetOrCreateChainCursorParams struct {
	ChainID          int64  `json:"chain_id"`
	WalletAddress    string `json:"wallet_address"`
	TokenAddress     string `json:"token_address"`
	LastScannedBlock int64  `json:"last_scanned_block"`
}

func (q *Queries) GetOrCreateChainCursor(ctx context.Context, arg GetOrCreateChainCursorParams) (ChainCursor, error) {
	return scanCursor(q.db.QueryRow(ctx, getOrCreateChainCursor, arg.ChainID, arg.WalletAddress, arg.TokenAddress, arg.LastScannedBlock))
}

const advanceChainCursor = `-- name: AdvanceChainCursor :one
UPDATE chain_cursors
SET last_scanned_block = GREATEST(last_scanned_block, $4), updated_at = NOW()
WHERE chain_id = $1 AND wallet_address = $2 AND token_address = $3
RETURNING ` + cursorColumns

type AdvanceChainCursorParams struct {
	ChainID       int64  `json:"chain_id"`
	WalletAddress string `json:"wallet_address"`
	TokenAddress  string `json:"token_address"`
	Block         int64  `json:"block"`
}

func (q *Queries) AdvanceChainCursor(ctx context.Context, arg AdvanceChainCursorParams) (ChainCursor, error) {
	return scanCursor(q.db.QueryRow(ctx, advanceChainCursor, arg.ChainID, arg.WalletAddress, arg.TokenAddress, arg.Block))
}

const insertDepositEvent = `-- name: InsertDepositEvent :execrows
INSERT INTO deposit_events (chain_id, tx_hash, log_index, wallet_address, token_address, amount, block_number)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (chain_id, tx_hash, log_index) DO NOTHING`

type InsertDepositEventParams struct {
	ChainID       int64  `json:"chain_id"`
	TxHash        string `json:"tx_hash"`
	LogIndex      int64  `json:"log_index"`
	WalletAddress string `json:"wallet_address"`
	TokenAddress  string `json:"token_address"`
	Amount        string `json:"amount"`
	BlockNumber   int64  `json:"block_number"`
}

// InsertDepositEvent returns 1 for a new row and 0 for an already recorded log.
func (q *Queries) InsertDepositEvent(ctx context.Context, arg InsertDepositEventParams) (int64, error) {
	tag, err := q.db.Exec(ctx, insertDepositEvent,
		arg.ChainID,
		arg.TxHash,
		arg.LogIndex,
		arg.WalletAddress,
		arg.TokenAddress,
		arg.Amount,
		arg.BlockNumber,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const upsertAaAddress = `-- name: UpsertAaAddress :exec
INSERT INTO aa_address_map (chain_id, address, serial, device_id)
VALUES ($1, $2, $3, $4)
ON CONFLICT (chain_id, address) DO UPDATE SET serial = EXCLUDED.serial, device_id = EXCLUDED.device_id, updated_at = NOW()`

type UpsertAaAddressParams struct {
	ChainID  int64     `json:"chain_id"`
	Address  string    `json:"address"`
	Serial   string    `json:"serial"`
	DeviceID uuid.UUID `json:"device_id"`
}

func (q *Queries) UpsertAaAddress(ctx context.Context, arg UpsertAaAddressParams) error {
	_, err := q.db.Exec(ctx, upsertAaAddress, arg.ChainID, arg.Address, arg.Serial, arg.DeviceID)
	return err
}

const getAaAddress = `-- name: GetAaAddress :one
SELECT chain_id, address, serial, device_id, updated_at FROM aa_address_map
WHERE chain_id = $1 AND address = $2`

type GetAaAddressParams struct {
	ChainID int64  `json:"chain_id"`
	Address string `json:"address"`
}

func (q *Queries) GetAaAddress(ctx context.Context, arg GetAaAddressParams) (AaAddressMap, error) {
	var i AaAddressMap
	err := q.db.QueryRow(ctx, getAaAddress, arg.ChainID, arg.Address).Scan(
		&i.ChainID,
		&i.Address,
		&i.Serial,
		&i.DeviceID,
		&i.UpdatedAt,
	)
	return i, err
}
