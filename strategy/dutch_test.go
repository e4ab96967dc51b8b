package strategy

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaifufi/nft-exchange-go/order"
)

func dutchAsk(startPrice, floorPrice, startTime, endTime int64) *order.MakerOrder {
	m := makerAsk(floorPrice, 7)
	m.StartTime = startTime
	m.EndTime = endTime
	m.Params = EncodeDutchAuctionParams(big.NewInt(startPrice))
	return m
}

func TestDutchAuctionBoundaryPrices(t *testing.T) {
	s := NewDutchAuction(200, 0)
	m := dutchAsk(1000, 100, 0, 3600)

	atStart, err := s.CurrentPrice(m, 0)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), atStart)

	atEnd, err := s.CurrentPrice(m, 3600)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), atEnd)

	halfway, err := s.CurrentPrice(m, 1800)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(550), halfway)
}

func TestDutchAuctionMonotonicDecay(t *testing.T) {
	s := NewDutchAuction(200, 0)
	m := dutchAsk(987654321, 12345, 0, 7200)

	prev, err := s.CurrentPrice(m, 0)
	require.NoError(t, err)
	start, floor := big.NewInt(987654321), big.NewInt(12345)

	for now := int64(1); now <= 7200; now += 37 {
		p, err := s.CurrentPrice(m, now)
		require.NoError(t, err)
		assert.LessOrEqual(t, p.Cmp(prev), 0, "price must not increase at t=%d", now)
		assert.LessOrEqual(t, p.Cmp(start), 0)
		assert.GreaterOrEqual(t, p.Cmp(floor), 0)
		prev = p
	}
}

func TestDutchAuctionExtremePricesNoOverflow(t *testing.T) {
	s := NewDutchAuction(200, 0)
	m := makerAsk(0, 7)
	m.StartTime = 0
	m.EndTime = 1 << 40

	// near max uint256 start price
	start := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
	m.Price = big.NewInt(1)
	m.Params = EncodeDutchAuctionParams(start)

	p, err := s.CurrentPrice(m, 1<<39)
	require.NoError(t, err)
	assert.True(t, p.Cmp(big.NewInt(1)) >= 0 && p.Cmp(start) <= 0)
}

func TestDutchAuctionMatching(t *testing.T) {
	s := NewDutchAuction(200, 0)
	m := dutchAsk(1000, 100, 0, 3600)

	// halfway price is 550: bid of 550 matches, 549 does not
	ok, _, _ := s.CanMatchAskWithTakerBid(takerBid(550, 7), m, noHash, 1800)
	assert.True(t, ok)

	ok, _, _ = s.CanMatchAskWithTakerBid(takerBid(549, 7), m, noHash, 1800)
	assert.False(t, ok)

	ok, _, _ = s.CanMatchAskWithTakerBid(takerBid(550, 8), m, noHash, 1800)
	assert.False(t, ok, "token mismatch")

	ok, _, _ = s.CanMatchAskWithTakerBid(takerBid(550, 7), m, noHash, 4000)
	assert.False(t, ok, "after end time")

	ok, _, _ = s.CanMatchBidWithTakerAsk(takerAsk(550, 7), m, noHash, 1800)
	assert.False(t, ok, "bid direction unsupported")
}

func TestDutchAuctionRejectsDegenerateAuctions(t *testing.T) {
	s := NewDutchAuction(200, 0)

	short := dutchAsk(1000, 100, 0, 60) // under the minimum length
	_, err := s.CurrentPrice(short, 30)
	assert.ErrorIs(t, err, ErrAuctionTooShort)

	flat := dutchAsk(100, 100, 0, 3600) // start == end price
	_, err = s.CurrentPrice(flat, 1800)
	assert.ErrorIs(t, err, ErrStartPriceTooLow)

	noParams := makerAsk(100, 7)
	noParams.StartTime = 0
	noParams.EndTime = 3600
	_, err = s.CurrentPrice(noParams, 1800)
	assert.ErrorIs(t, err, ErrMissingStartPrice)
}
