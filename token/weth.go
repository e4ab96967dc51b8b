package token

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// NativeBank tracks native currency balances, standing in for account ETH
// balances. The exchange debits it when a taker tops up a wrapped-currency
// payment with native funds.
type NativeBank struct {
	mu       sync.Mutex
	balances map[common.Address]*big.Int
}

// NewNativeBank creates an empty native balance bank.
func NewNativeBank() *NativeBank {
	return &NativeBank{balances: make(map[common.Address]*big.Int)}
}

// Credit adds amount to owner's native balance.
func (b *NativeBank) Credit(owner common.Address, amount *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bal, ok := b.balances[owner]
	if !ok {
		bal = new(big.Int)
		b.balances[owner] = bal
	}
	bal.Add(bal, amount)
}

// Debit removes amount from owner's native balance.
func (b *NativeBank) Debit(owner common.Address, amount *big.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	bal, ok := b.balances[owner]
	if !ok || bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	bal.Sub(bal, amount)
	return nil
}

// BalanceOf returns owner's native balance.
func (b *NativeBank) BalanceOf(owner common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bal, ok := b.balances[owner]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

// WrappedNative is a WETH9-style ERC20 backed one-to-one by native currency
// held in a NativeBank.
type WrappedNative struct {
	*MemERC20
	bank *NativeBank
}

// NewWrappedNative creates the wrapped currency over bank.
func NewWrappedNative(bank *NativeBank) *WrappedNative {
	return &WrappedNative{MemERC20: NewMemERC20(), bank: bank}
}

// Deposit wraps amount of owner's native balance into wrapped tokens.
func (w *WrappedNative) Deposit(owner common.Address, amount *big.Int) error {
	if err := w.bank.Debit(owner, amount); err != nil {
		return err
	}
	w.Mint(owner, amount)
	return nil
}

// Withdraw unwraps amount of owner's wrapped tokens back to native balance.
func (w *WrappedNative) Withdraw(owner common.Address, amount *big.Int) error {
	if err := w.TransferFrom(owner, owner, common.Address{}, amount); err != nil {
		return err
	}
	w.bank.Credit(owner, amount)
	return nil
}
