package nftexchange

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/nft-exchange-go/token"
)

// ERC2981 is the royalty callback a collection may implement. ok is false
// when the collection declares no royalty for the token.
type ERC2981 interface {
	RoyaltyFor(tokenID, salePrice *big.Int) (common.Address, *big.Int, bool)
}

type royaltyEntry struct {
	setter   common.Address
	receiver common.Address
	feeBps   uint64
}

// RoyaltyFeeRegistry stores per-collection royalty terms with an owner-gated
// setter and a global fee cap.
type RoyaltyFeeRegistry struct {
	owner common.Address

	mu       sync.RWMutex
	limitBps uint64
	entries  map[common.Address]royaltyEntry
}

// MaxRoyaltyFeeLimit is the hard ceiling on the registry fee cap, 95% in
// basis points.
const MaxRoyaltyFeeLimit uint64 = 9500

// NewRoyaltyFeeRegistry creates a registry capped at limitBps. The cap itself
// may not exceed MaxRoyaltyFeeLimit.
func NewRoyaltyFeeRegistry(owner common.Address, limitBps uint64) (*RoyaltyFeeRegistry, error) {
	if limitBps > MaxRoyaltyFeeLimit {
		return nil, ErrRoyaltyFeeTooHigh
	}
	return &RoyaltyFeeRegistry{
		owner:    owner,
		limitBps: limitBps,
		entries:  make(map[common.Address]royaltyEntry),
	}, nil
}

// UpdateRoyaltyFeeLimit changes the registry-wide fee cap. Owner only.
func (r *RoyaltyFeeRegistry) UpdateRoyaltyFeeLimit(caller common.Address, limitBps uint64) error {
	if caller != r.owner {
		return ErrNotOwner
	}
	if limitBps > MaxRoyaltyFeeLimit {
		return ErrRoyaltyFeeTooHigh
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limitBps = limitBps
	return nil
}

// UpdateRoyaltyInfoForCollection registers royalty terms for a collection.
// Owner only; the fee must respect the registry cap.
func (r *RoyaltyFeeRegistry) UpdateRoyaltyInfoForCollection(caller, collection, setter, receiver common.Address, feeBps uint64) error {
	if caller != r.owner {
		return ErrNotOwner
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if feeBps > r.limitBps {
		return ErrRoyaltyFeeTooHigh
	}
	r.entries[collection] = royaltyEntry{setter: setter, receiver: receiver, feeBps: feeBps}
	return nil
}

// RoyaltyInfo resolves (receiver, amount) for a sale of the collection at
// salePrice. A zero receiver means no registry entry.
func (r *RoyaltyFeeRegistry) RoyaltyInfo(collection common.Address, salePrice *big.Int) (common.Address, *big.Int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[collection]
	if !ok {
		return common.Address{}, new(big.Int)
	}
	amount := new(big.Int).Mul(salePrice, new(big.Int).SetUint64(e.feeBps))
	amount.Div(amount, big.NewInt(10000))
	return e.receiver, amount
}

// RoyaltyFeeInfoForCollection returns the registered (setter, receiver, fee)
// for a collection.
func (r *RoyaltyFeeRegistry) RoyaltyFeeInfoForCollection(collection common.Address) (common.Address, common.Address, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e := r.entries[collection]
	return e.setter, e.receiver, e.feeBps
}

// RoyaltyFeeManager resolves royalties for settlement: the registry entry
// takes precedence, falling back to the collection's own ERC2981 callback.
// Looked up fresh on every settlement, never cached.
type RoyaltyFeeManager struct {
	registry *RoyaltyFeeRegistry
	tokens   *token.Registry
}

// NewRoyaltyFeeManager creates the manager over a registry and the token
// address space.
func NewRoyaltyFeeManager(registry *RoyaltyFeeRegistry, tokens *token.Registry) *RoyaltyFeeManager {
	return &RoyaltyFeeManager{registry: registry, tokens: tokens}
}

// Registry returns the underlying fee registry.
func (m *RoyaltyFeeManager) Registry() *RoyaltyFeeRegistry {
	return m.registry
}

// CalculateRoyaltyFeeAndGetRecipient resolves the royalty leg for a sale. A
// zero receiver or zero amount means no royalty is due.
func (m *RoyaltyFeeManager) CalculateRoyaltyFeeAndGetRecipient(collection common.Address, tokenID, salePrice *big.Int) (common.Address, *big.Int) {
	receiver, amount := m.registry.RoyaltyInfo(collection, salePrice)
	if receiver != (common.Address{}) {
		return receiver, amount
	}

	t, ok := m.tokens.TokenAt(collection)
	if !ok {
		return common.Address{}, new(big.Int)
	}
	if c, ok := t.(ERC2981); ok {
		if rcv, amt, ok := c.RoyaltyFor(tokenID, salePrice); ok {
			return rcv, amt
		}
	}
	return common.Address{}, new(big.Int)
}
