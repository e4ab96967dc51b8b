package nftexchange

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/nft-exchange-go/token"
)

// TransferManager moves one non-fungible asset on behalf of the exchange.
// Implementations must reject any caller other than the exchange they were
// created for.
type TransferManager interface {
	TransferNonFungibleToken(caller, collection, from, to common.Address, tokenID, amount *big.Int) error
}

// ERC721TransferManager drives standard ERC721 transfers.
type ERC721TransferManager struct {
	exchange common.Address
	tokens   *token.Registry
}

// NewERC721TransferManager creates the ERC721 adapter bound to the exchange.
func NewERC721TransferManager(exchange common.Address, tokens *token.Registry) *ERC721TransferManager {
	return &ERC721TransferManager{exchange: exchange, tokens: tokens}
}

func (m *ERC721TransferManager) TransferNonFungibleToken(caller, collection, from, to common.Address, tokenID, _ *big.Int) error {
	if caller != m.exchange {
		return ErrCallerNotExchange
	}
	t, ok := m.tokens.TokenAt(collection)
	if !ok {
		return ErrNoTransferManager
	}
	c, ok := t.(token.ERC721)
	if !ok {
		return ErrNoTransferManager
	}
	return c.SafeTransferFrom(m.exchange, from, to, tokenID)
}

// ERC1155TransferManager drives standard ERC1155 transfers.
type ERC1155TransferManager struct {
	exchange common.Address
	tokens   *token.Registry
}

// NewERC1155TransferManager creates the ERC1155 adapter bound to the exchange.
func NewERC1155TransferManager(exchange common.Address, tokens *token.Registry) *ERC1155TransferManager {
	return &ERC1155TransferManager{exchange: exchange, tokens: tokens}
}

func (m *ERC1155TransferManager) TransferNonFungibleToken(caller, collection, from, to common.Address, tokenID, amount *big.Int) error {
	if caller != m.exchange {
		return ErrCallerNotExchange
	}
	t, ok := m.tokens.TokenAt(collection)
	if !ok {
		return ErrNoTransferManager
	}
	c, ok := t.(token.ERC1155)
	if !ok {
		return ErrNoTransferManager
	}
	return c.SafeTransferFrom(m.exchange, from, to, tokenID, amount)
}

// TransferSelector resolves the transfer adapter for a collection: the
// ERC721 interface first, then ERC1155, then the owner-managed per-collection
// override table for non-compliant tokens. No resolution fails closed.
type TransferSelector struct {
	owner       common.Address
	tokens      *token.Registry
	managerFor  map[common.Address]TransferManager // overrides
	erc721Mgr   TransferManager
	erc1155Mgr  TransferManager
	overridesMu sync.RWMutex
}

// NewTransferSelector creates the selector with the two standard adapters.
func NewTransferSelector(owner common.Address, tokens *token.Registry, erc721Mgr, erc1155Mgr TransferManager) *TransferSelector {
	return &TransferSelector{
		owner:      owner,
		tokens:     tokens,
		managerFor: make(map[common.Address]TransferManager),
		erc721Mgr:  erc721Mgr,
		erc1155Mgr: erc1155Mgr,
	}
}

// AddCollectionTransferManager installs a custom adapter for a non-compliant
// collection. Owner only.
func (s *TransferSelector) AddCollectionTransferManager(caller, collection common.Address, mgr TransferManager) error {
	if caller != s.owner {
		return ErrNotOwner
	}
	if collection == (common.Address{}) || mgr == nil {
		return ErrZeroAddress
	}
	s.overridesMu.Lock()
	defer s.overridesMu.Unlock()
	s.managerFor[collection] = mgr
	return nil
}

// RemoveCollectionTransferManager removes a custom adapter. Owner only.
func (s *TransferSelector) RemoveCollectionTransferManager(caller, collection common.Address) error {
	if caller != s.owner {
		return ErrNotOwner
	}
	s.overridesMu.Lock()
	defer s.overridesMu.Unlock()
	delete(s.managerFor, collection)
	return nil
}

// TransferManagerForCollection resolves the adapter for collection, failing
// closed with ErrNoTransferManager when none applies.
func (s *TransferSelector) TransferManagerForCollection(collection common.Address) (TransferManager, error) {
	if t, ok := s.tokens.TokenAt(collection); ok {
		if _, ok := t.(token.ERC721); ok {
			return s.erc721Mgr, nil
		}
		if _, ok := t.(token.ERC1155); ok {
			return s.erc1155Mgr, nil
		}
	}

	s.overridesMu.RLock()
	defer s.overridesMu.RUnlock()
	if mgr, ok := s.managerFor[collection]; ok {
		return mgr, nil
	}
	return nil, ErrNoTransferManager
}
