// Package strategy implements the pluggable matching policies consulted by
// the exchange when pairing a taker order with a signed maker order.
//
// Every strategy exposes the two directional predicates. A strategy that only
// supports one direction returns non-matchable from the other unconditionally.
package strategy

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/nft-exchange-go/order"
)

// Strategy parameter errors
var (
	ErrBadParams = errors.New("malformed strategy params")
)

// Strategy decides whether a (taker, maker) pair is compatible and at what
// token id and amount the transfer should settle. now is the settlement
// timestamp in unix seconds. orderHash identifies the maker order for
// strategies that track per-order state.
type Strategy interface {
	// CanMatchAskWithTakerBid reports whether a taker bid can fill a maker ask.
	CanMatchAskWithTakerBid(taker *order.TakerOrder, maker *order.MakerOrder, orderHash common.Hash, now int64) (bool, *big.Int, *big.Int)

	// CanMatchBidWithTakerAsk reports whether a taker ask can fill a maker bid.
	CanMatchBidWithTakerAsk(taker *order.TakerOrder, maker *order.MakerOrder, orderHash common.Hash, now int64) (bool, *big.Int, *big.Int)

	// ProtocolFeeBps returns the protocol fee this strategy charges, in
	// basis points of the sale price.
	ProtocolFeeBps() uint64
}

// PartialFiller is implemented by strategies that let one maker order settle
// across multiple taker calls. The exchange records each executed fill and
// only invalidates the order's nonce once the order is exhausted.
type PartialFiller interface {
	// RecordFill books amount against the order's total and reports
	// whether the order is now fully filled.
	RecordFill(orderHash common.Hash, amount, total *big.Int) (exhausted bool)

	// RevertFill undoes a previously recorded fill. Used when a later
	// settlement step fails and the whole match is rolled back.
	RevertFill(orderHash common.Hash, amount *big.Int)
}

func withinWindow(m *order.MakerOrder, now int64) bool {
	return m.StartTime <= now && now <= m.EndTime
}

func priceAndTokenMatch(t *order.TakerOrder, m *order.MakerOrder) bool {
	return m.Price.Cmp(t.Price) == 0 && m.TokenID.Cmp(t.TokenID) == 0
}

// encodeUint256 left-pads v to a 32-byte big-endian word, the wire form used
// for all single-value strategy params.
func encodeUint256(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), 32)
}

func decodeUint256(b []byte) (*big.Int, error) {
	if len(b) != 32 {
		return nil, ErrBadParams
	}
	return new(big.Int).SetBytes(b), nil
}
