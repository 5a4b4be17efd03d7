package db

import (
	"context"

	"github.com/google/uuid"
)

type Querier interface {
	// users
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	GetUser(ctx context.Context, id uuid.UUID) (User, error)
	GetUserForUpdate(ctx context.Context, id uuid.UUID) (User, error)
	UpdateUserCreditBalance(ctx context.Context, arg UpdateUserCreditBalanceParams) error
	AddUserCredit(ctx context.Context, arg AddUserCreditParams) (User, error)
	SetUserFrozen(ctx context.Context, arg SetUserFrozenParams) (User, error)
	UpdateUserLimits(ctx context.Context, arg UpdateUserLimitsParams) (User, error)
	SetUserSpendingPin(ctx context.Context, arg SetUserSpendingPinParams) error

	// devices
	CreateDevice(ctx context.Context, arg CreateDeviceParams) (Device, error)
	GetDevice(ctx context.Context, id uuid.UUID) (Device, error)
	GetDeviceByLibraryID(ctx context.Context, libraryID string) (Device, error)
	ListLoginCandidates(ctx context.Context, userID uuid.UUID) ([]Device, error)
	ListActiveDevices(ctx context.Context) ([]Device, error)
	SetDeviceChallenge(ctx context.Context, arg SetDeviceChallengeParams) error
	ActivateDevice(ctx context.Context, arg ActivateDeviceParams) (Device, error)
	MarkDeviceLogin(ctx context.Context, arg MarkDeviceLoginParams) (int64, error)
	ClearSiblingChallenges(ctx context.Context, arg ClearSiblingChallengesParams) error

	// wallets
	EnsureWallet(ctx context.Context, arg EnsureWalletParams) (Wallet, error)
	ListWallets(ctx context.Context, userID uuid.UUID) ([]Wallet, error)
	GetActiveWallet(ctx context.Context, userID uuid.UUID) (Wallet, error)
	SetActiveWallet(ctx context.Context, arg SetActiveWalletParams) (int64, error)

	// transactions
	CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error)
	SumUserSpendSince(ctx context.Context, arg SumUserSpendSinceParams) (int64, error)
	ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error)

	// chain watcher
	GetOrCreateChainCursor(ctx context.Context, arg GetOrCreateChainCursorParams) (ChainCursor, error)
	AdvanceChainCursor(ctx context.Context, arg AdvanceChainCursorParams) (ChainCursor, error)
	InsertDepositEvent(ctx context.Context, arg InsertDepositEventParams) (int64, error)
	UpsertAaAddress(ctx context.Context, arg UpsertAaAddressParams) error
	GetAaAddress(ctx context.Context, arg GetAaAddressParams) (AaAddressMap, error)
}

var _ Querier = (*Queries)(nil)
