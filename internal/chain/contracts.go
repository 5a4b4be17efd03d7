package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const factoryABIJSON = `[
  {"type":"function","name":"getAddress","stateMutability":"view",
   "inputs":[{"name":"x","type":"uint256"},{"name":"y","type":"uint256"},{"name":"salt","type":"uint256"}],
   "outputs":[{"name":"","type":"address"}]}
]`

const paymasterABIJSON = `[
  {"type":"function","name":"getHash","stateMutability":"view",
   "inputs":[
     {"name":"userOp","type":"tuple","components":[
       {"name":"sender","type":"address"},
       {"name":"nonce","type":"uint256"},
       {"name":"initCode","type":"bytes"},
       {"name":"callData","type":"bytes"},
       {"name":"callGasLimit","type":"uint256"},
       {"name":"verificationGasLimit","type":"uint256"},
       {"name":"preVerificationGas","type":"uint256"},
       {"name":"maxFeePerGas","type":"uint256"},
       {"name":"maxPriorityFeePerGas","type":"uint256"},
       {"name":"paymasterAndData","type":"bytes"},
       {"name":"signature","type":"bytes"}]},
     {"name":"validUntil","type":"uint48"},
     {"name":"validAfter","type":"uint48"}],
   "outputs":[{"name":"","type":"bytes32"}]}
]`

const erc20ABIJSON = `[
  {"type":"function","name":"transfer","stateMutability":"nonpayable",
   "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view",
   "inputs":[{"name":"owner","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"event","name":"Transfer","anonymous":false,
   "inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]}
]`

const accountABIJSON = `[
  {"type":"function","name":"execute","stateMutability":"nonpayable",
   "inputs":[{"name":"dest","type":"address"},{"name":"value","type":"uint256"},{"name":"func","type":"bytes"}],
   "outputs":[]},
  {"type":"function","name":"executeBatch","stateMutability":"nonpayable",
   "inputs":[{"name":"calls","type":"tuple[]","components":[
     {"name":"target","type":"address"},{"name":"value","type":"uint256"},{"name":"data","type":"bytes"}]}],
   "outputs":[]}
]`

var (
	FactoryABI   = mustParseABI(factoryABIJSON)
	PaymasterABI = mustParseABI(paymasterABIJSON)
	ERC20ABI     = mustParseABI(erc20ABIJSON)
	AccountABI   = mustParseABI(accountABIJSON)

	// TransferEventID is the topic of ERC-20 Transfer(address,address,uint256).
	TransferEventID = ERC20ABI.Events["Transfer"].ID
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid contract abi: %v", err))
	}
	return parsed
}

// UserOpTuple is the ABI shape of an ERC-4337 v0.6 user operation.
type UserOpTuple struct {
	Sender               common.Address
	Nonce                *big.Int
	InitCode             []byte
	CallData             []byte
	CallGasLimit         *big.Int
	VerificationGasLimit *big.Int
	PreVerificationGas   *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	PaymasterAndData     []byte
	Signature            []byte
}

// Call is one entry of an account batch.
type Call struct {
	Target common.Address
	Value  *big.Int
	Data   []byte
}

func call(ctx context.Context, client Client, contract abi.ABI, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contract.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	raw, err := client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, Classify(err)
	}
	out, err := contract.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	return out, nil
}

// FactoryGetAddress calls the account factory's counterfactual address function.
func FactoryGetAddress(ctx context.Context, client Client, factory common.Address, x, y, salt *big.Int) (common.Address, error) {
	out, err := call(ctx, client, FactoryABI, factory, "getAddress", x, y, salt)
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// PaymasterGetHash asks the paymaster contract for the hash it expects to be signed.
func PaymasterGetHash(ctx context.Context, client Client, paymaster common.Address, op UserOpTuple, validUntil, validAfter uint64) (common.Hash, error) {
	out, err := call(ctx, client, PaymasterABI, paymaster, "getHash", op,
		new(big.Int).SetUint64(validUntil), new(big.Int).SetUint64(validAfter))
	if err != nil {
		return common.Hash{}, err
	}
	h := *abi.ConvertType(out[0], new([32]byte)).(*[32]byte)
	return common.Hash(h), nil
}

// ERC20BalanceOf reads a token balance.
func ERC20BalanceOf(ctx context.Context, client Client, token, owner common.Address) (*big.Int, error) {
	out, err := call(ctx, client, ERC20ABI, token, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// TransferLog is a decoded ERC-20 Transfer event.
type TransferLog struct {
	Token       common.Address
	From        common.Address
	To          common.Address
	Amount      *big.Int
	TxHash      common.Hash
	LogIndex    uint
	BlockNumber uint64
}

// ParseTransferLog decodes a Transfer log. Logs that are not Transfer events are rejected.
func ParseTransferLog(l types.Log) (TransferLog, error) {
	if len(l.Topics) != 3 || l.Topics[0] != TransferEventID {
		return TransferLog{}, fmt.Errorf("log %s:%d is not an ERC-20 Transfer", l.TxHash.Hex(), l.Index)
	}
	amount := new(big.Int)
	if len(l.Data) > 0 {
		out, err := ERC20ABI.Unpack("Transfer", l.Data)
		if err != nil {
			return TransferLog{}, fmt.Errorf("failed to decode Transfer data: %w", err)
		}
		amount = *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	}
	return TransferLog{
		Token:       l.Address,
		From:        common.BytesToAddress(l.Topics[1].Bytes()),
		To:          common.BytesToAddress(l.Topics[2].Bytes()),
		Amount:      amount,
		TxHash:      l.TxHash,
		LogIndex:    l.Index,
		BlockNumber: l.BlockNumber,
	}, nil
}

// TransferFilter builds the log filter for Transfers of token into wallet over [from, to].
func TransferFilter(token, wallet common.Address, from, to uint64) ethereum.FilterQuery {
	return ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{token},
		Topics:    [][]common.Hash{{TransferEventID}, nil, {common.BytesToHash(wallet.Bytes())}},
	}
}
