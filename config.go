package nftexchange

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/kaifufi/nft-exchange-go/order"
	"github.com/kaifufi/nft-exchange-go/token"
)

// Config holds everything needed to construct an Exchange. The managers are
// injected collaborators the exchange consults but never owns; they can be
// swapped through the owner-gated admin surface at runtime.
type Config struct {
	// Address is the exchange's own address: the EIP712 verifying
	// contract and the operator on whose approvals transfers run.
	Address common.Address

	// Owner may call the admin surface.
	Owner common.Address

	// ChainID scopes the EIP712 domain.
	ChainID int64

	// ProtocolFeeRecipient receives the protocol fee leg.
	ProtocolFeeRecipient common.Address

	// WrappedNative is the address of the wrapped-native ERC20, required
	// for the native top-up entry point.
	WrappedNative common.Address

	Tokens           *token.Registry
	NativeBank       *token.NativeBank
	Currencies       *CurrencyManager
	Strategies       *ExecutionManager
	Royalties        *RoyaltyFeeManager
	TransferSelector *TransferSelector

	// ContractSigners resolves contract accounts for ERC1271 signature
	// validation. Optional; nil treats every signer as an EOA.
	ContractSigners order.ContractResolver

	// Listener receives settlement and cancellation events. Optional.
	Listener Listener

	// Logger is used for structured settlement and admin logging. Optional.
	Logger *zerolog.Logger

	// Now supplies the settlement timestamp in unix seconds. Optional;
	// defaults to wall-clock time.
	Now func() int64
}

func (c *Config) applyDefaults() {
	if c.Listener == nil {
		c.Listener = NopListener{}
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	if c.Now == nil {
		c.Now = func() int64 { return time.Now().Unix() }
	}
}

func (c *Config) validate() error {
	if c.Address == (common.Address{}) || c.Owner == (common.Address{}) || c.ProtocolFeeRecipient == (common.Address{}) {
		return ErrZeroAddress
	}
	if c.Tokens == nil || c.Currencies == nil || c.Strategies == nil || c.Royalties == nil || c.TransferSelector == nil {
		return ErrZeroAddress
	}
	return nil
}
