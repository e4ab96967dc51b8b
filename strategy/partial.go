package strategy

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/nft-exchange-go/order"
)

// PartialSale matches amount-divisible orders: the maker commits a total
// amount and each taker call fills a sub-amount (taker params), with the
// taker price scaling proportionally to the maker price. A running fill
// counter per order hash lets successive takers fill the same maker order
// until it is exhausted. Supports both directions.
type PartialSale struct {
	protocolFeeBps uint64

	mu     sync.Mutex
	filled map[common.Hash]*big.Int
}

// NewPartialSale creates the partial fill strategy.
func NewPartialSale(protocolFeeBps uint64) *PartialSale {
	return &PartialSale{
		protocolFeeBps: protocolFeeBps,
		filled:         make(map[common.Hash]*big.Int),
	}
}

// EncodePartialSaleParams encodes the taker's fill amount as taker params.
func EncodePartialSaleParams(fillAmount *big.Int) []byte {
	return encodeUint256(fillAmount)
}

func (s *PartialSale) CanMatchAskWithTakerBid(taker *order.TakerOrder, maker *order.MakerOrder, orderHash common.Hash, now int64) (bool, *big.Int, *big.Int) {
	return s.canMatch(taker, maker, orderHash, now)
}

func (s *PartialSale) CanMatchBidWithTakerAsk(taker *order.TakerOrder, maker *order.MakerOrder, orderHash common.Hash, now int64) (bool, *big.Int, *big.Int) {
	return s.canMatch(taker, maker, orderHash, now)
}

func (s *PartialSale) canMatch(taker *order.TakerOrder, maker *order.MakerOrder, orderHash common.Hash, now int64) (bool, *big.Int, *big.Int) {
	if maker.TokenID.Cmp(taker.TokenID) != 0 || !withinWindow(maker, now) {
		return false, nil, nil
	}

	fill, err := decodeUint256(taker.Params)
	if err != nil || fill.Sign() == 0 {
		return false, nil, nil
	}
	if fill.Cmp(s.Remaining(orderHash, maker.Amount)) > 0 {
		return false, nil, nil
	}

	// Exact proportionality, cross-multiplied:
	// taker.price × maker.amount == maker.price × fill
	lhs := new(big.Int).Mul(taker.Price, maker.Amount)
	rhs := new(big.Int).Mul(maker.Price, fill)
	if lhs.Cmp(rhs) != 0 {
		return false, nil, nil
	}

	return true, maker.TokenID, fill
}

func (s *PartialSale) ProtocolFeeBps() uint64 {
	return s.protocolFeeBps
}

// Remaining returns how much of the order's total amount is still unfilled.
func (s *PartialSale) Remaining(orderHash common.Hash, total *big.Int) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	done, ok := s.filled[orderHash]
	if !ok {
		return new(big.Int).Set(total)
	}
	return new(big.Int).Sub(total, done)
}

// RecordFill books an executed fill and reports whether the order is now
// fully filled.
func (s *PartialSale) RecordFill(orderHash common.Hash, amount, total *big.Int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	done, ok := s.filled[orderHash]
	if !ok {
		done = new(big.Int)
		s.filled[orderHash] = done
	}
	done.Add(done, amount)
	return done.Cmp(total) >= 0
}

// RevertFill undoes a RecordFill when the settlement rolls back.
func (s *PartialSale) RevertFill(orderHash common.Hash, amount *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if done, ok := s.filled[orderHash]; ok {
		done.Sub(done, amount)
		if done.Sign() <= 0 {
			delete(s.filled, orderHash)
		}
	}
}
