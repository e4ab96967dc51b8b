package nftexchange

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TakerBidEvent is emitted when a taker bid settles a maker ask.
type TakerBidEvent struct {
	OrderHash  common.Hash
	OrderNonce uint64
	Taker      common.Address
	Maker      common.Address
	Strategy   common.Address
	Currency   common.Address
	Collection common.Address
	TokenID    *big.Int
	Amount     *big.Int
	Price      *big.Int
}

// TakerAskEvent is emitted when a taker ask settles a maker bid.
type TakerAskEvent struct {
	OrderHash  common.Hash
	OrderNonce uint64
	Taker      common.Address
	Maker      common.Address
	Strategy   common.Address
	Currency   common.Address
	Collection common.Address
	TokenID    *big.Int
	Amount     *big.Int
	Price      *big.Int
}

// CancelMultipleOrdersEvent is emitted when a signer cancels specific nonces.
type CancelMultipleOrdersEvent struct {
	User   common.Address
	Nonces []uint64
}

// CancelAllOrdersEvent is emitted when a signer bumps their minimum nonce.
type CancelAllOrdersEvent struct {
	User        common.Address
	NewMinNonce uint64
}

// AdminUpdateEvent is emitted when the owner swaps a collaborator or changes
// the protocol fee recipient. Component names the surface that changed.
type AdminUpdateEvent struct {
	Component string
	Owner     common.Address
}

// Listener receives exchange events. All callbacks fire synchronously after
// the corresponding state change commits.
type Listener interface {
	OnTakerBid(TakerBidEvent)
	OnTakerAsk(TakerAskEvent)
	OnCancelMultipleOrders(CancelMultipleOrdersEvent)
	OnCancelAllOrders(CancelAllOrdersEvent)
	OnAdminUpdate(AdminUpdateEvent)
}

// NopListener discards every event.
type NopListener struct{}

func (NopListener) OnTakerBid(TakerBidEvent)                         {}
func (NopListener) OnTakerAsk(TakerAskEvent)                         {}
func (NopListener) OnCancelMultipleOrders(CancelMultipleOrdersEvent) {}
func (NopListener) OnCancelAllOrders(CancelAllOrdersEvent)           {}
func (NopListener) OnAdminUpdate(AdminUpdateEvent)                   {}
