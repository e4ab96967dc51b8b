package nftexchange

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/nft-exchange-go/strategy"
)

// CurrencyManager is the owner-gated allow-list of payment currencies.
type CurrencyManager struct {
	owner common.Address

	mu         sync.RWMutex
	currencies map[common.Address]bool
}

// NewCurrencyManager creates an empty currency allow-list gated on owner.
func NewCurrencyManager(owner common.Address) *CurrencyManager {
	return &CurrencyManager{
		owner:      owner,
		currencies: make(map[common.Address]bool),
	}
}

// AddCurrency whitelists a currency. Owner only.
func (m *CurrencyManager) AddCurrency(caller, currency common.Address) error {
	if caller != m.owner {
		return ErrNotOwner
	}
	if currency == (common.Address{}) {
		return ErrZeroAddress
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currencies[currency] = true
	return nil
}

// RemoveCurrency removes a currency from the whitelist. Owner only.
func (m *CurrencyManager) RemoveCurrency(caller, currency common.Address) error {
	if caller != m.owner {
		return ErrNotOwner
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.currencies, currency)
	return nil
}

// IsCurrencyWhitelisted reports whether currency may be used for settlement.
func (m *CurrencyManager) IsCurrencyWhitelisted(currency common.Address) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currencies[currency]
}

// WhitelistedCurrencies lists the approved currencies.
func (m *CurrencyManager) WhitelistedCurrencies() []common.Address {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]common.Address, 0, len(m.currencies))
	for c := range m.currencies {
		out = append(out, c)
	}
	return out
}

// ExecutionManager is the owner-gated allow-list of matching strategies,
// keyed by strategy address.
type ExecutionManager struct {
	owner common.Address

	mu         sync.RWMutex
	strategies map[common.Address]strategy.Strategy
}

// NewExecutionManager creates an empty strategy allow-list gated on owner.
func NewExecutionManager(owner common.Address) *ExecutionManager {
	return &ExecutionManager{
		owner:      owner,
		strategies: make(map[common.Address]strategy.Strategy),
	}
}

// AddStrategy whitelists a strategy implementation at addr. Owner only.
func (m *ExecutionManager) AddStrategy(caller, addr common.Address, impl strategy.Strategy) error {
	if caller != m.owner {
		return ErrNotOwner
	}
	if addr == (common.Address{}) || impl == nil {
		return ErrZeroAddress
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strategies[addr] = impl
	return nil
}

// RemoveStrategy removes a strategy from the whitelist. Owner only.
func (m *ExecutionManager) RemoveStrategy(caller, addr common.Address) error {
	if caller != m.owner {
		return ErrNotOwner
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.strategies, addr)
	return nil
}

// IsStrategyWhitelisted reports whether the strategy at addr is approved.
func (m *ExecutionManager) IsStrategyWhitelisted(addr common.Address) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.strategies[addr]
	return ok
}

// StrategyAt returns the whitelisted strategy implementation at addr.
func (m *ExecutionManager) StrategyAt(addr common.Address) (strategy.Strategy, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.strategies[addr]
	return s, ok
}

// WhitelistedStrategies lists the approved strategy addresses.
func (m *ExecutionManager) WhitelistedStrategies() []common.Address {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]common.Address, 0, len(m.strategies))
	for a := range m.strategies {
		out = append(out, a)
	}
	return out
}
