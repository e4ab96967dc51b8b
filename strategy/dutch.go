package strategy

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/nft-exchange-go/order"
)

// Dutch auction errors
var (
	ErrAuctionTooShort   = errors.New("auction length below minimum")
	ErrStartPriceTooLow  = errors.New("auction start price must exceed end price")
	ErrMissingStartPrice = errors.New("auction start price param is required")
)

// MinAuctionLength is the shortest allowed dutch auction, in seconds.
// Anything shorter degenerates into an instant price drop.
const MinAuctionLength int64 = 15 * 60

// DutchAuction matches a taker bid against a maker ask whose price decays
// linearly from the start price (maker params) down to the floor price
// (maker's price field) over the order's time window. Ask-with-taker-bid
// direction only.
type DutchAuction struct {
	protocolFeeBps   uint64
	minAuctionLength int64
}

// NewDutchAuction creates the dutch auction strategy. minAuctionLength of 0
// selects MinAuctionLength.
func NewDutchAuction(protocolFeeBps uint64, minAuctionLength int64) *DutchAuction {
	if minAuctionLength <= 0 {
		minAuctionLength = MinAuctionLength
	}
	return &DutchAuction{protocolFeeBps: protocolFeeBps, minAuctionLength: minAuctionLength}
}

// EncodeDutchAuctionParams encodes the auction start price as maker params.
func EncodeDutchAuctionParams(startPrice *big.Int) []byte {
	return encodeUint256(startPrice)
}

func (s *DutchAuction) CanMatchAskWithTakerBid(taker *order.TakerOrder, maker *order.MakerOrder, _ common.Hash, now int64) (bool, *big.Int, *big.Int) {
	if maker.TokenID.Cmp(taker.TokenID) != 0 || !withinWindow(maker, now) {
		return false, nil, nil
	}

	current, err := s.CurrentPrice(maker, now)
	if err != nil {
		return false, nil, nil
	}
	if taker.Price.Cmp(current) < 0 {
		return false, nil, nil
	}
	return true, maker.TokenID, maker.Amount
}

func (s *DutchAuction) CanMatchBidWithTakerAsk(*order.TakerOrder, *order.MakerOrder, common.Hash, int64) (bool, *big.Int, *big.Int) {
	return false, nil, nil
}

func (s *DutchAuction) ProtocolFeeBps() uint64 {
	return s.protocolFeeBps
}

// CurrentPrice computes the auction price at time now:
//
//	start − (start − end) × (now − startTime) / (endTime − startTime)
//
// big.Int intermediates keep the multiplication exact at extreme prices. The
// result is clamped to the floor at now == endTime by construction.
func (s *DutchAuction) CurrentPrice(maker *order.MakerOrder, now int64) (*big.Int, error) {
	length := maker.EndTime - maker.StartTime
	if length < s.minAuctionLength {
		return nil, ErrAuctionTooShort
	}

	startPrice, err := decodeUint256(maker.Params)
	if err != nil {
		return nil, ErrMissingStartPrice
	}
	endPrice := maker.Price
	if startPrice.Cmp(endPrice) <= 0 {
		return nil, ErrStartPriceTooLow
	}

	elapsed := now - maker.StartTime
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > length {
		elapsed = length
	}

	// start − (start − end) × elapsed / length
	drop := new(big.Int).Sub(startPrice, endPrice)
	drop.Mul(drop, big.NewInt(elapsed))
	drop.Div(drop, big.NewInt(length))

	return new(big.Int).Sub(startPrice, drop), nil
}
