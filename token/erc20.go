package token

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

type allowanceKey struct {
	owner   common.Address
	spender common.Address
}

// MemERC20 is an in-memory ERC20 with standard balance and allowance
// semantics.
type MemERC20 struct {
	mu         sync.Mutex
	balances   map[common.Address]*big.Int
	allowances map[allowanceKey]*big.Int
}

// NewMemERC20 creates an empty in-memory ERC20.
func NewMemERC20() *MemERC20 {
	return &MemERC20{
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[allowanceKey]*big.Int),
	}
}

// Mint credits amount to owner.
func (t *MemERC20) Mint(owner common.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.credit(owner, amount)
}

func (t *MemERC20) BalanceOf(owner common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if b, ok := t.balances[owner]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (t *MemERC20) Allowance(owner, spender common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if a, ok := t.allowances[allowanceKey{owner, spender}]; ok {
		return new(big.Int).Set(a)
	}
	return new(big.Int)
}

func (t *MemERC20) Approve(owner, spender common.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.allowances[allowanceKey{owner, spender}] = new(big.Int).Set(amount)
}

// TransferFrom moves amount from from to to, charging the allowance granted
// to operator unless the owner moves their own funds.
func (t *MemERC20) TransferFrom(operator, from, to common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if operator != from {
		key := allowanceKey{from, operator}
		allowance, ok := t.allowances[key]
		if !ok || allowance.Cmp(amount) < 0 {
			return ErrInsufficientAllowance
		}
		allowance.Sub(allowance, amount)
	}

	balance, ok := t.balances[from]
	if !ok || balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	balance.Sub(balance, amount)
	t.credit(to, amount)
	return nil
}

// credit assumes the lock is held.
func (t *MemERC20) credit(owner common.Address, amount *big.Int) {
	b, ok := t.balances[owner]
	if !ok {
		b = new(big.Int)
		t.balances[owner] = b
	}
	b.Add(b, amount)
}
