package token

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

type balanceKey struct {
	owner   common.Address
	tokenID string
}

// MemERC1155 is an in-memory ERC1155 with per-token balances and operator
// approvals.
type MemERC1155 struct {
	mu        sync.Mutex
	balances  map[balanceKey]*big.Int
	approvals map[operatorKey]bool
}

// NewMemERC1155 creates an empty in-memory ERC1155.
func NewMemERC1155() *MemERC1155 {
	return &MemERC1155{
		balances:  make(map[balanceKey]*big.Int),
		approvals: make(map[operatorKey]bool),
	}
}

// Mint credits amount of tokenID to owner.
func (t *MemERC1155) Mint(owner common.Address, tokenID, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := balanceKey{owner, tokenID.String()}
	b, ok := t.balances[key]
	if !ok {
		b = new(big.Int)
		t.balances[key] = b
	}
	b.Add(b, amount)
}

func (t *MemERC1155) BalanceOf(owner common.Address, tokenID *big.Int) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if b, ok := t.balances[balanceKey{owner, tokenID.String()}]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (t *MemERC1155) IsApprovedForAll(owner, operator common.Address) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.approvals[operatorKey{owner, operator}]
}

func (t *MemERC1155) SetApprovalForAll(owner, operator common.Address, approved bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.approvals[operatorKey{owner, operator}] = approved
}

func (t *MemERC1155) SafeTransferFrom(operator, from, to common.Address, tokenID, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if operator != from && !t.approvals[operatorKey{from, operator}] {
		return ErrNotApproved
	}

	fromKey := balanceKey{from, tokenID.String()}
	balance, ok := t.balances[fromKey]
	if !ok || balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	balance.Sub(balance, amount)

	toKey := balanceKey{to, tokenID.String()}
	b, ok := t.balances[toKey]
	if !ok {
		b = new(big.Int)
		t.balances[toKey] = b
	}
	b.Add(b, amount)
	return nil
}
