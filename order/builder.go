package order

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Builder builds and signs maker orders for a fixed exchange deployment.
type Builder struct {
	domain *EIP712Domain
	key    *ecdsa.PrivateKey
	signer common.Address
}

// BuilderData carries the caller-supplied fields for a new maker order.
// Zero-value StartTime means "now"; zero-value EndTime means start + 24h.
type BuilderData struct {
	IsAsk              bool
	Collection         common.Address
	Price              *big.Int
	TokenID            *big.Int
	Amount             *big.Int
	Strategy           common.Address
	Currency           common.Address
	Nonce              uint64
	StartTime          int64
	EndTime            int64
	MinPercentageToAsk uint64
	Params             []byte
}

// NewBuilder creates a Builder signing on behalf of the key's address.
func NewBuilder(exchangeAddr common.Address, chainID int64, key *ecdsa.PrivateKey) (*Builder, error) {
	if key == nil {
		return nil, fmt.Errorf("signing key is required")
	}
	pub := key.Public().(*ecdsa.PublicKey)
	return &Builder{
		domain: NewEIP712Domain(big.NewInt(chainID), exchangeAddr),
		key:    key,
		signer: crypto.PubkeyToAddress(*pub),
	}, nil
}

// Signer returns the address the builder signs for.
func (b *Builder) Signer() common.Address {
	return b.signer
}

// Build assembles an unsigned maker order from data, applying defaults.
func (b *Builder) Build(data *BuilderData) (*MakerOrder, error) {
	if err := b.validateInputs(data); err != nil {
		return nil, err
	}

	start := data.StartTime
	if start == 0 {
		start = time.Now().Unix()
	}
	end := data.EndTime
	if end == 0 {
		end = start + int64(24*time.Hour/time.Second)
	}

	amount := data.Amount
	if amount == nil {
		amount = big.NewInt(1)
	}

	m := &MakerOrder{
		IsAsk:              data.IsAsk,
		Signer:             b.signer,
		Collection:         data.Collection,
		Price:              new(big.Int).Set(data.Price),
		TokenID:            new(big.Int).Set(data.TokenID),
		Amount:             new(big.Int).Set(amount),
		Strategy:           data.Strategy,
		Currency:           data.Currency,
		Nonce:              data.Nonce,
		StartTime:          start,
		EndTime:            end,
		MinPercentageToAsk: data.MinPercentageToAsk,
		Params:             data.Params,
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// BuildSigned assembles and signs a maker order.
func (b *Builder) BuildSigned(data *BuilderData) (*MakerOrder, error) {
	m, err := b.Build(data)
	if err != nil {
		return nil, err
	}
	if err := Sign(m, b.domain, b.key); err != nil {
		return nil, err
	}
	return m, nil
}

func (b *Builder) validateInputs(data *BuilderData) error {
	if data.Collection == (common.Address{}) {
		return fmt.Errorf("collection is required")
	}
	if data.Price == nil || data.Price.Sign() <= 0 {
		return fmt.Errorf("positive price is required")
	}
	if data.TokenID == nil {
		return fmt.Errorf("tokenId is required")
	}
	if data.Strategy == (common.Address{}) {
		return fmt.Errorf("strategy is required")
	}
	if data.EndTime != 0 && data.EndTime <= data.StartTime {
		return fmt.Errorf("endTime must be after startTime")
	}
	return nil
}
