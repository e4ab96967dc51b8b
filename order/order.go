// Package order defines maker and taker orders for the exchange and the
// EIP712 hashing and signature scheme that binds a maker order to its signer.
package order

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Order validation errors
var (
	ErrNilPrice        = errors.New("order price is nil")
	ErrNilTokenID      = errors.New("order token ID is nil")
	ErrNilAmount       = errors.New("order amount is nil")
	ErrZeroAmount      = errors.New("order amount is zero")
	ErrMissingSigner   = errors.New("order signer is the zero address")
	ErrInvalidTimeSpan = errors.New("order end time is not after start time")
)

// MakerOrder is an off-chain signed offer to buy or sell an asset. Its
// canonical hash (all fields except the signature) uniquely identifies the
// order and is the unit of cancellation and replay protection.
type MakerOrder struct {
	IsAsk              bool           // true = sell the asset, false = bid for it
	Signer             common.Address // order creator, must match the recovered signature
	Collection         common.Address
	Price              *big.Int
	TokenID            *big.Int
	Amount             *big.Int // number of tokens to transfer (1 for ERC721)
	Strategy           common.Address
	Currency           common.Address
	Nonce              uint64
	StartTime          int64 // unix seconds, order valid from
	EndTime            int64 // unix seconds, order valid until
	MinPercentageToAsk uint64
	Params             []byte // strategy-specific opaque parameters

	// ECDSA signature over the EIP712 digest, or ERC1271 payload for
	// contract accounts.
	V uint8
	R common.Hash
	S common.Hash
}

// TakerOrder is the unsigned counter-order supplied by the caller executing a
// settlement. It exists only for the duration of one match.
type TakerOrder struct {
	IsAsk              bool
	Taker              common.Address
	Price              *big.Int
	TokenID            *big.Int
	MinPercentageToAsk uint64
	Params             []byte // strategy-specific opaque parameters
}

// Validate checks structural well-formedness of a maker order. Matching-level
// checks (time window, price compatibility) belong to strategies.
func (m *MakerOrder) Validate() error {
	if m.Signer == (common.Address{}) {
		return ErrMissingSigner
	}
	if m.Price == nil {
		return ErrNilPrice
	}
	if m.TokenID == nil {
		return ErrNilTokenID
	}
	if m.Amount == nil {
		return ErrNilAmount
	}
	if m.Amount.Sign() == 0 {
		return ErrZeroAmount
	}
	if m.EndTime < m.StartTime {
		return ErrInvalidTimeSpan
	}
	return nil
}

// Signature returns the packed 65-byte r||s||v form of the order signature.
func (m *MakerOrder) Signature() []byte {
	sig := make([]byte, 0, 65)
	sig = append(sig, m.R.Bytes()...)
	sig = append(sig, m.S.Bytes()...)
	sig = append(sig, m.V)
	return sig
}
