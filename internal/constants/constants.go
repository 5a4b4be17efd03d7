package constants

// Stages
const (
	LocalEnvironment = "local"
	DevEnvironment   = "dev"
	ProdEnvironment  = "prod"
	TestEnvironment  = "test"
)

// Log levels
const (
	ErrorLevel = "error"
)

// Request headers
const (
	DeviceIDHeader      = "X-Device-ID"
	AuthorizationHeader = "Authorization"
	CorrelationIDHeader = "X-Correlation-ID"
	BearerPrefix        = "Bearer "
	AdminKeyHeader      = "X-Admin-Key"
)

// Transaction status values
const (
	TxStatusPending   = "pending"
	TxStatusSubmitted = "submitted"
	TxStatusSuccess   = "success"
	TxStatusFailed    = "failed"
	TxStatusDelayed   = "delayed"
)

// NativeAsset is the asset name used for a chain's native currency in prices and ledgers.
const NativeAsset = "native"

// DefaultSalt is the wallet salt used for the primary account on every chain.
const DefaultSalt int64 = 0

// USD amounts are carried as integer nano-dollars.
const USDScale int64 = 1_000_000_000
