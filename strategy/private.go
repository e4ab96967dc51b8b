package strategy

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/nft-exchange-go/order"
)

// PrivateSale matches a maker ask with a single named buyer. The eligible
// taker address is carried in the maker's params and no protocol fee is ever
// charged. Ask-with-taker-bid direction only.
type PrivateSale struct{}

// NewPrivateSale creates the private sale strategy.
func NewPrivateSale() *PrivateSale {
	return &PrivateSale{}
}

// EncodePrivateSaleParams encodes the sole eligible buyer as maker params.
func EncodePrivateSaleParams(buyer common.Address) []byte {
	return encodeUint256(new(big.Int).SetBytes(buyer.Bytes()))
}

func (s *PrivateSale) CanMatchAskWithTakerBid(taker *order.TakerOrder, maker *order.MakerOrder, _ common.Hash, now int64) (bool, *big.Int, *big.Int) {
	buyer, err := decodeUint256(maker.Params)
	if err != nil {
		return false, nil, nil
	}
	if common.BigToAddress(buyer) != taker.Taker {
		return false, nil, nil
	}
	if !priceAndTokenMatch(taker, maker) || !withinWindow(maker, now) {
		return false, nil, nil
	}
	return true, maker.TokenID, maker.Amount
}

func (s *PrivateSale) CanMatchBidWithTakerAsk(*order.TakerOrder, *order.MakerOrder, common.Hash, int64) (bool, *big.Int, *big.Int) {
	return false, nil, nil
}

// ProtocolFeeBps is always zero for private sales.
func (s *PrivateSale) ProtocolFeeBps() uint64 {
	return 0
}
