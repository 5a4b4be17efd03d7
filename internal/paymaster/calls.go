package paymaster

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/cyphera/passkey-wallet/internal/chain"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var ErrUnsupportedCallData = errors.New("call data is not an account execute call")

var erc20TransferID = chain.ERC20ABI.Methods["transfer"].ID

// Transfer is a value movement found in an operation's calls. Asset is the
// zero address for the native currency.
type Transfer struct {
	Asset  common.Address
	To     common.Address
	Amount *big.Int
}

// Native reports whether the transfer moves the chain's native currency.
func (t Transfer) Native() bool {
	return t.Asset == (common.Address{})
}

// DecodeCalls unpacks account callData into its calls. Both execute and
// executeBatch are accepted; empty callData decodes to no calls.
func DecodeCalls(callData []byte) ([]chain.Call, error) {
	if len(callData) == 0 {
		return nil, nil
	}
	if len(callData) < 4 {
		return nil, ErrUnsupportedCallData
	}
	method, err := chain.AccountABI.MethodById(callData[:4])
	if err != nil {
		return nil, ErrUnsupportedCallData
	}
	args, err := method.Inputs.Unpack(callData[4:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCallData, err)
	}

	switch method.Name {
	case "execute":
		return []chain.Call{{
			Target: *abi.ConvertType(args[0], new(common.Address)).(*common.Address),
			Value:  *abi.ConvertType(args[1], new(*big.Int)).(**big.Int),
			Data:   *abi.ConvertType(args[2], new([]byte)).(*[]byte),
		}}, nil
	case "executeBatch":
		return *abi.ConvertType(args[0], new([]chain.Call)).(*[]chain.Call), nil
	}
	return nil, ErrUnsupportedCallData
}

// ExtractTransfers lists native value sends and ERC-20 transfer calls.
// Other contract interactions carry no value and are skipped.
func ExtractTransfers(calls []chain.Call) ([]Transfer, error) {
	var out []Transfer
	for _, c := range calls {
		if c.Value != nil && c.Value.Sign() > 0 {
			out = append(out, Transfer{To: c.Target, Amount: new(big.Int).Set(c.Value)})
		}
		if len(c.Data) >= 4 && bytes.Equal(c.Data[:4], erc20TransferID) {
			args, err := chain.ERC20ABI.Methods["transfer"].Inputs.Unpack(c.Data[4:])
			if err != nil {
				return nil, fmt.Errorf("%w: malformed token transfer: %v", ErrUnsupportedCallData, err)
			}
			out = append(out, Transfer{
				Asset:  c.Target,
				To:     *abi.ConvertType(args[0], new(common.Address)).(*common.Address),
				Amount: *abi.ConvertType(args[1], new(*big.Int)).(**big.Int),
			})
		}
	}
	return out, nil
}

// SplitFees separates transfers to the treasury from everything else.
func SplitFees(transfers []Transfer, treasury common.Address) (fees, outgoing []Transfer) {
	for _, t := range transfers {
		if t.To == treasury {
			fees = append(fees, t)
		} else {
			outgoing = append(outgoing, t)
		}
	}
	return fees, outgoing
}

// EncodeExecuteBatch builds executeBatch callData. Used to assemble operations in tests and tools.
func EncodeExecuteBatch(calls []chain.Call) ([]byte, error) {
	return chain.AccountABI.Pack("executeBatch", calls)
}

// EncodeTokenTransfer builds ERC-20 transfer callData.
func EncodeTokenTransfer(to common.Address, amount *big.Int) ([]byte, error) {
	return chain.ERC20ABI.Pack("transfer", to, amount)
}
