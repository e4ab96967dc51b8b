package nftexchange

import (
	"github.com/ethereum/go-ethereum/common"
)

// Owner-gated admin surface. Collaborators are swapped atomically; in-flight
// settlements keep the instance they resolved at entry.

// UpdateCurrencyManager replaces the currency allow-list. Owner only.
func (e *Exchange) UpdateCurrencyManager(caller common.Address, m *CurrencyManager) error {
	if caller != e.cfg.Owner {
		return ErrNotOwner
	}
	if m == nil {
		return ErrZeroAddress
	}
	e.adminMu.Lock()
	e.currencies = m
	e.adminMu.Unlock()
	e.log.Info().Str("owner", caller.Hex()).Msg("currency manager updated")
	e.cfg.Listener.OnAdminUpdate(AdminUpdateEvent{Component: "currencyManager", Owner: caller})
	return nil
}

// UpdateExecutionManager replaces the strategy allow-list. Owner only.
func (e *Exchange) UpdateExecutionManager(caller common.Address, m *ExecutionManager) error {
	if caller != e.cfg.Owner {
		return ErrNotOwner
	}
	if m == nil {
		return ErrZeroAddress
	}
	e.adminMu.Lock()
	e.strategies = m
	e.adminMu.Unlock()
	e.log.Info().Str("owner", caller.Hex()).Msg("execution manager updated")
	e.cfg.Listener.OnAdminUpdate(AdminUpdateEvent{Component: "executionManager", Owner: caller})
	return nil
}

// UpdateRoyaltyFeeManager replaces the royalty resolver. Owner only.
func (e *Exchange) UpdateRoyaltyFeeManager(caller common.Address, m *RoyaltyFeeManager) error {
	if caller != e.cfg.Owner {
		return ErrNotOwner
	}
	if m == nil {
		return ErrZeroAddress
	}
	e.adminMu.Lock()
	e.royalties = m
	e.adminMu.Unlock()
	e.log.Info().Str("owner", caller.Hex()).Msg("royalty fee manager updated")
	e.cfg.Listener.OnAdminUpdate(AdminUpdateEvent{Component: "royaltyFeeManager", Owner: caller})
	return nil
}

// UpdateTransferSelector replaces the transfer adapter routing. Owner only.
func (e *Exchange) UpdateTransferSelector(caller common.Address, s *TransferSelector) error {
	if caller != e.cfg.Owner {
		return ErrNotOwner
	}
	if s == nil {
		return ErrZeroAddress
	}
	e.adminMu.Lock()
	e.transferSelector = s
	e.adminMu.Unlock()
	e.log.Info().Str("owner", caller.Hex()).Msg("transfer selector updated")
	e.cfg.Listener.OnAdminUpdate(AdminUpdateEvent{Component: "transferSelector", Owner: caller})
	return nil
}

// UpdateProtocolFeeRecipient changes where the protocol fee leg is paid.
// Owner only.
func (e *Exchange) UpdateProtocolFeeRecipient(caller, recipient common.Address) error {
	if caller != e.cfg.Owner {
		return ErrNotOwner
	}
	if recipient == (common.Address{}) {
		return ErrZeroAddress
	}
	e.adminMu.Lock()
	e.feeRecipient = recipient
	e.adminMu.Unlock()
	e.log.Info().Str("owner", caller.Hex()).Str("recipient", recipient.Hex()).Msg("protocol fee recipient updated")
	e.cfg.Listener.OnAdminUpdate(AdminUpdateEvent{Component: "protocolFeeRecipient", Owner: caller})
	return nil
}
