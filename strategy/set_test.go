package strategy

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenIDs(ids ...int64) []*big.Int {
	out := make([]*big.Int, len(ids))
	for i, id := range ids {
		out[i] = big.NewInt(id)
	}
	return out
}

func TestSetCommitmentProofsAtMultipleDepths(t *testing.T) {
	for _, size := range []int{1, 2, 3, 5, 8, 33, 100} {
		ids := make([]*big.Int, size)
		for i := range ids {
			ids[i] = big.NewInt(int64(i * 3))
		}
		c, err := NewSetCommitment(ids)
		require.NoError(t, err)

		for _, id := range ids {
			proof, err := c.Proof(id)
			require.NoError(t, err)
			assert.True(t, VerifySetProof(c.Root(), id, proof),
				"member %s must verify in a set of %d", id, size)
		}
	}
}

func TestSetProofRejectsNonMembers(t *testing.T) {
	c, err := NewSetCommitment(tokenIDs(1, 2, 3, 4, 5))
	require.NoError(t, err)

	// a valid proof for 3 does not admit 99
	proof, err := c.Proof(big.NewInt(3))
	require.NoError(t, err)
	assert.False(t, VerifySetProof(c.Root(), big.NewInt(99), proof))

	// no proof for a non-member
	_, err = c.Proof(big.NewInt(99))
	assert.ErrorIs(t, err, ErrTokenNotInSet)

	// malformed proof length
	assert.False(t, VerifySetProof(c.Root(), big.NewInt(3), []byte{0x01, 0x02}))
}

func TestSetCommitmentOrderIndependentRoot(t *testing.T) {
	a, err := NewSetCommitment(tokenIDs(1, 2, 3, 4))
	require.NoError(t, err)
	b, err := NewSetCommitment(tokenIDs(4, 3, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, a.Root(), b.Root())

	_, err = NewSetCommitment(nil)
	assert.ErrorIs(t, err, ErrEmptySet)
}

func TestSetSaleMatching(t *testing.T) {
	s := NewSetSale(200)
	c, err := NewSetCommitment(tokenIDs(10, 20, 30))
	require.NoError(t, err)

	m := makerBid(100, 0)
	m.Params = c.RootParams()

	proof, err := c.Proof(big.NewInt(20))
	require.NoError(t, err)

	ta := takerAsk(100, 20)
	ta.Params = proof
	ok, tokenID, _ := s.CanMatchBidWithTakerAsk(ta, m, noHash, 1500)
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(20), tokenID)

	// proof for 20 does not admit 30
	bad := takerAsk(100, 30)
	bad.Params = proof
	ok, _, _ = s.CanMatchBidWithTakerAsk(bad, m, noHash, 1500)
	assert.False(t, ok)

	// ask direction unsupported
	ok, _, _ = s.CanMatchAskWithTakerBid(takerBid(100, 20), m, noHash, 1500)
	assert.False(t, ok)
}
