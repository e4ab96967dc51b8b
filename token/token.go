// Package token models the external token contracts the exchange settles
// against: ERC20 currencies, ERC721 and ERC1155 collections, and the
// wrapped-native currency. The exchange only depends on the interfaces; the
// in-memory implementations back tests and local deployments.
package token

import (
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Token transfer errors
var (
	ErrInsufficientBalance   = errors.New("insufficient token balance")
	ErrInsufficientAllowance = errors.New("insufficient token allowance")
	ErrNotOwner              = errors.New("sender does not own token")
	ErrNotApproved           = errors.New("operator not approved for transfer")
	ErrUnknownToken          = errors.New("token id does not exist")
)

// ERC20 is the fungible currency surface the exchange needs. The operator
// argument is the address performing the transfer, charged against the
// owner's allowance.
type ERC20 interface {
	BalanceOf(owner common.Address) *big.Int
	Allowance(owner, spender common.Address) *big.Int
	Approve(owner, spender common.Address, amount *big.Int)
	TransferFrom(operator, from, to common.Address, amount *big.Int) error
}

// Wrapped is the wrapped-native currency surface: an ERC20 plus deposit and
// withdraw against native funds.
type Wrapped interface {
	ERC20
	Deposit(owner common.Address, amount *big.Int) error
	Withdraw(owner common.Address, amount *big.Int) error
}

// ERC721 is the single-owner collection surface.
type ERC721 interface {
	OwnerOf(tokenID *big.Int) (common.Address, error)
	IsApprovedForAll(owner, operator common.Address) bool
	SetApprovalForAll(owner, operator common.Address, approved bool)
	SafeTransferFrom(operator, from, to common.Address, tokenID *big.Int) error
}

// ERC1155 is the multi-balance collection surface.
type ERC1155 interface {
	BalanceOf(owner common.Address, tokenID *big.Int) *big.Int
	IsApprovedForAll(owner, operator common.Address) bool
	SetApprovalForAll(owner, operator common.Address, approved bool)
	SafeTransferFrom(operator, from, to common.Address, tokenID, amount *big.Int) error
}

// Registry maps deployed addresses to token instances. It stands in for the
// chain's address space: the exchange resolves collection and currency
// addresses through it.
type Registry struct {
	mu     sync.RWMutex
	tokens map[common.Address]any
}

// NewRegistry creates an empty address registry.
func NewRegistry() *Registry {
	return &Registry{tokens: make(map[common.Address]any)}
}

// Register binds addr to a token instance, replacing any previous binding.
func (r *Registry) Register(addr common.Address, token any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[addr] = token
}

// TokenAt returns the token deployed at addr.
func (r *Registry) TokenAt(addr common.Address) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[addr]
	return t, ok
}

// ERC20At resolves addr as an ERC20.
func (r *Registry) ERC20At(addr common.Address) (ERC20, bool) {
	t, ok := r.TokenAt(addr)
	if !ok {
		return nil, false
	}
	c, ok := t.(ERC20)
	return c, ok
}
