package paymaster

import (
	"errors"
	"math/big"

	"github.com/cyphera/passkey-wallet/internal/chain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrInvalidOperation = errors.New("invalid user operation")

// UserOperation is an ERC-4337 v0.6 user operation in its JSON-RPC form.
type UserOperation struct {
	Sender               common.Address `json:"sender"`
	Nonce                *hexutil.Big   `json:"nonce"`
	InitCode             hexutil.Bytes  `json:"initCode"`
	CallData             hexutil.Bytes  `json:"callData"`
	CallGasLimit         *hexutil.Big   `json:"callGasLimit"`
	VerificationGasLimit *hexutil.Big   `json:"verificationGasLimit"`
	PreVerificationGas   *hexutil.Big   `json:"preVerificationGas"`
	MaxFeePerGas         *hexutil.Big   `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big   `json:"maxPriorityFeePerGas"`
	PaymasterAndData     hexutil.Bytes  `json:"paymasterAndData"`
	Signature            hexutil.Bytes  `json:"signature"`
}

// Validate checks that every numeric field is present and the sender is set.
func (op UserOperation) Validate() error {
	if op.Sender == (common.Address{}) {
		return errors.Join(ErrInvalidOperation, errors.New("sender is required"))
	}
	fields := []struct {
		name  string
		value *hexutil.Big
	}{
		{"nonce", op.Nonce},
		{"callGasLimit", op.CallGasLimit},
		{"verificationGasLimit", op.VerificationGasLimit},
		{"preVerificationGas", op.PreVerificationGas},
		{"maxFeePerGas", op.MaxFeePerGas},
		{"maxPriorityFeePerGas", op.MaxPriorityFeePerGas},
	}
	for _, f := range fields {
		if f.value == nil {
			return errors.Join(ErrInvalidOperation, errors.New(f.name+" is required"))
		}
		if f.value.ToInt().Sign() < 0 {
			return errors.Join(ErrInvalidOperation, errors.New(f.name+" is negative"))
		}
	}
	return nil
}

func bigOf(v *hexutil.Big) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v.ToInt())
}

// Tuple converts the operation to its ABI representation.
func (op UserOperation) Tuple() chain.UserOpTuple {
	return chain.UserOpTuple{
		Sender:               op.Sender,
		Nonce:                bigOf(op.Nonce),
		InitCode:             nonNil(op.InitCode),
		CallData:             nonNil(op.CallData),
		CallGasLimit:         bigOf(op.CallGasLimit),
		VerificationGasLimit: bigOf(op.VerificationGasLimit),
		PreVerificationGas:   bigOf(op.PreVerificationGas),
		MaxFeePerGas:         bigOf(op.MaxFeePerGas),
		MaxPriorityFeePerGas: bigOf(op.MaxPriorityFeePerGas),
		PaymasterAndData:     nonNil(op.PaymasterAndData),
		Signature:            nonNil(op.Signature),
	}
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

var (
	addressT, _ = abi.NewType("address", "", nil)
	uint256T, _ = abi.NewType("uint256", "", nil)
	bytes32T, _ = abi.NewType("bytes32", "", nil)
	uint48T, _  = abi.NewType("uint48", "", nil)

	packedOpArgs = abi.Arguments{
		{Type: addressT}, {Type: uint256T}, {Type: bytes32T}, {Type: bytes32T},
		{Type: uint256T}, {Type: uint256T}, {Type: uint256T}, {Type: uint256T},
		{Type: uint256T}, {Type: bytes32T},
	}
	opHashArgs   = abi.Arguments{{Type: bytes32T}, {Type: addressT}, {Type: uint256T}}
	validityArgs = abi.Arguments{{Type: uint48T}, {Type: uint48T}}
)

// Hash computes the entry point's userOpHash for this operation.
func (op UserOperation) Hash(entryPoint common.Address, chainID int64) (common.Hash, error) {
	packed, err := packedOpArgs.Pack(
		op.Sender,
		bigOf(op.Nonce),
		crypto.Keccak256Hash(op.InitCode),
		crypto.Keccak256Hash(op.CallData),
		bigOf(op.CallGasLimit),
		bigOf(op.VerificationGasLimit),
		bigOf(op.PreVerificationGas),
		bigOf(op.MaxFeePerGas),
		bigOf(op.MaxPriorityFeePerGas),
		crypto.Keccak256Hash(op.PaymasterAndData),
	)
	if err != nil {
		return common.Hash{}, err
	}
	enc, err := opHashArgs.Pack(crypto.Keccak256Hash(packed), entryPoint, big.NewInt(chainID))
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(enc), nil
}

// TotalGas is the gas the paymaster may be charged for, including postOp overhead.
func (op UserOperation) TotalGas(postOpGas uint64) *big.Int {
	total := bigOf(op.CallGasLimit)
	total.Add(total, bigOf(op.VerificationGasLimit))
	total.Add(total, bigOf(op.PreVerificationGas))
	return total.Add(total, new(big.Int).SetUint64(postOpGas))
}
