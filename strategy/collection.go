package strategy

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/nft-exchange-go/order"
)

// CollectionSale matches a maker bid against any token id in the collection.
// The token id is taker-supplied and unconstrained by the maker, so only the
// bid-with-taker-ask direction is supported.
type CollectionSale struct {
	protocolFeeBps uint64
}

// NewCollectionSale creates the any-item-in-collection strategy.
func NewCollectionSale(protocolFeeBps uint64) *CollectionSale {
	return &CollectionSale{protocolFeeBps: protocolFeeBps}
}

func (s *CollectionSale) CanMatchAskWithTakerBid(*order.TakerOrder, *order.MakerOrder, common.Hash, int64) (bool, *big.Int, *big.Int) {
	return false, nil, nil
}

func (s *CollectionSale) CanMatchBidWithTakerAsk(taker *order.TakerOrder, maker *order.MakerOrder, _ common.Hash, now int64) (bool, *big.Int, *big.Int) {
	if maker.Price.Cmp(taker.Price) != 0 || !withinWindow(maker, now) {
		return false, nil, nil
	}
	return true, taker.TokenID, maker.Amount
}

func (s *CollectionSale) ProtocolFeeBps() uint64 {
	return s.protocolFeeBps
}
