package strategy

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestPartialSaleProportionalPrice(t *testing.T) {
	s := NewPartialSale(200)
	hash := common.HexToHash("0x01")

	m := makerAsk(1000, 7) // 10 units at 100 each
	m.Amount = big.NewInt(10)

	tb := takerBid(300, 7) // 3 units at 100 each
	tb.Params = EncodePartialSaleParams(big.NewInt(3))
	ok, _, amount := s.CanMatchAskWithTakerBid(tb, m, hash, 1500)
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(3), amount)

	// wrong proportional price
	tb = takerBid(299, 7)
	tb.Params = EncodePartialSaleParams(big.NewInt(3))
	ok, _, _ = s.CanMatchAskWithTakerBid(tb, m, hash, 1500)
	assert.False(t, ok)

	// zero fill
	tb = takerBid(0, 7)
	tb.Params = EncodePartialSaleParams(big.NewInt(0))
	ok, _, _ = s.CanMatchAskWithTakerBid(tb, m, hash, 1500)
	assert.False(t, ok)
}

func TestPartialSaleFillTracking(t *testing.T) {
	s := NewPartialSale(200)
	hash := common.HexToHash("0x02")

	m := makerAsk(1000, 7)
	m.Amount = big.NewInt(10)

	assert.Equal(t, big.NewInt(10), s.Remaining(hash, m.Amount))

	exhausted := s.RecordFill(hash, big.NewInt(4), m.Amount)
	assert.False(t, exhausted)
	assert.Equal(t, big.NewInt(6), s.Remaining(hash, m.Amount))

	// over-fill of the remainder is rejected
	tb := takerBid(700, 7)
	tb.Params = EncodePartialSaleParams(big.NewInt(7))
	ok, _, _ := s.CanMatchAskWithTakerBid(tb, m, hash, 1500)
	assert.False(t, ok)

	exhausted = s.RecordFill(hash, big.NewInt(6), m.Amount)
	assert.True(t, exhausted)
	assert.Zero(t, s.Remaining(hash, m.Amount).Sign())
}

func TestPartialSaleRevertFill(t *testing.T) {
	s := NewPartialSale(200)
	hash := common.HexToHash("0x03")
	total := big.NewInt(10)

	s.RecordFill(hash, big.NewInt(4), total)
	s.RevertFill(hash, big.NewInt(4))
	assert.Equal(t, big.NewInt(10), s.Remaining(hash, total))
}
