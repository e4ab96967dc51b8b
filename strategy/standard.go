package strategy

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/nft-exchange-go/order"
)

// StandardSale matches fixed-price orders: price and token id must be equal
// on both sides and the maker's time window must contain now. Supports both
// directions.
type StandardSale struct {
	protocolFeeBps uint64
}

// NewStandardSale creates the fixed-price strategy with the given protocol fee.
func NewStandardSale(protocolFeeBps uint64) *StandardSale {
	return &StandardSale{protocolFeeBps: protocolFeeBps}
}

func (s *StandardSale) CanMatchAskWithTakerBid(taker *order.TakerOrder, maker *order.MakerOrder, _ common.Hash, now int64) (bool, *big.Int, *big.Int) {
	if !priceAndTokenMatch(taker, maker) || !withinWindow(maker, now) {
		return false, nil, nil
	}
	return true, maker.TokenID, maker.Amount
}

func (s *StandardSale) CanMatchBidWithTakerAsk(taker *order.TakerOrder, maker *order.MakerOrder, _ common.Hash, now int64) (bool, *big.Int, *big.Int) {
	if !priceAndTokenMatch(taker, maker) || !withinWindow(maker, now) {
		return false, nil, nil
	}
	return true, maker.TokenID, maker.Amount
}

func (s *StandardSale) ProtocolFeeBps() uint64 {
	return s.protocolFeeBps
}
