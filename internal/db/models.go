package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID                      uuid.UUID   `json:"id"`
	Frozen                  bool        `json:"frozen"`
	DailyLimitUsdNano       int64       `json:"daily_limit_usd_nano"`
	LargeTxThresholdUsdNano int64       `json:"large_tx_threshold_usd_nano"`
	SpendingPinHash         pgtype.Text `json:"-"`
	CreditBalanceUsdNano    int64       `json:"credit_balance_usd_nano"`
	CreatedAt               time.Time   `json:"created_at"`
	UpdatedAt               time.Time   `json:"updated_at"`
}

type Device struct {
	ID                 uuid.UUID          `json:"id"`
	UserID             uuid.UUID          `json:"user_id"`
	LibraryID          string             `json:"library_id"`
	CredentialID       pgtype.Text        `json:"credential_id"`
	PublicKey          []byte             `json:"-"`
	SignCount          int64              `json:"sign_count"`
	CurrentChallenge   pgtype.Text        `json:"-"`
	ChallengeSession   []byte             `json:"-"`
	ChallengeExpiresAt pgtype.Timestamptz `json:"-"`
	ChallengeUsedAt    pgtype.Timestamptz `json:"-"`
	Active             bool               `json:"active"`
	LastActiveAt       pgtype.Timestamptz `json:"last_active_at"`
	CreatedAt          time.Time          `json:"created_at"`
}

type Wallet struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Salt      int64     `json:"salt"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type Transaction struct {
	ID           uuid.UUID   `json:"id"`
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
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type ChainCursor struct {
	ChainID          int64     `json:"chain_id"`
	WalletAddress    string    `json:"wallet_address"`
	TokenAddress     string    `json:"token_address"`
	LastScannedBlock int64     `json:"last_scanned_block"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type DepositEvent struct {
	ChainID       int64     `json:"chain_id"`
	TxHash        string    `json:"tx_hash"`
	LogIndex      int64     `json:"log_index"`
	WalletAddress string    `json:"wallet_address"`
	TokenAddress  string    `json:"token_address"`
	Amount        string    `json:"amount"`
	BlockNumber   int64     `json:"block_number"`
	CreatedAt     time.Time `json:"created_at"`
}

type AaAddressMap struct {
	ChainID   int64     `json:"chain_id"`
	Address   string    `json:"address"`
	Serial    string    `json:"serial"`
	DeviceID  uuid.UUID `json:"device_id"`
	UpdatedAt time.Time `json:"updated_at"`
}
