package strategy

import (
	"bytes"
	"errors"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/kaifufi/nft-exchange-go/order"
)

// Set strategy errors
var (
	ErrEmptySet       = errors.New("token set is empty")
	ErrTokenNotInSet  = errors.New("token id is not a member of the set")
	ErrMalformedProof = errors.New("merkle proof is not a multiple of 32 bytes")
)

// SetSale matches a maker bid against any token id in a Merkle-committed set.
// The maker's params carry the 32-byte root; the taker's params carry the
// membership proof for their token id. Bid-with-taker-ask direction only.
type SetSale struct {
	protocolFeeBps uint64
}

// NewSetSale creates the Merkle-set strategy.
func NewSetSale(protocolFeeBps uint64) *SetSale {
	return &SetSale{protocolFeeBps: protocolFeeBps}
}

func (s *SetSale) CanMatchAskWithTakerBid(*order.TakerOrder, *order.MakerOrder, common.Hash, int64) (bool, *big.Int, *big.Int) {
	return false, nil, nil
}

func (s *SetSale) CanMatchBidWithTakerAsk(taker *order.TakerOrder, maker *order.MakerOrder, _ common.Hash, now int64) (bool, *big.Int, *big.Int) {
	if maker.Price.Cmp(taker.Price) != 0 || !withinWindow(maker, now) {
		return false, nil, nil
	}

	root, err := decodeUint256(maker.Params)
	if err != nil {
		return false, nil, nil
	}

	if !VerifySetProof(common.BigToHash(root), taker.TokenID, taker.Params) {
		return false, nil, nil
	}
	return true, taker.TokenID, maker.Amount
}

func (s *SetSale) ProtocolFeeBps() uint64 {
	return s.protocolFeeBps
}

// setLeaf hashes a token id into a tree leaf.
func setLeaf(tokenID *big.Int) common.Hash {
	return crypto.Keccak256Hash(encodeUint256(tokenID))
}

// hashPair combines two nodes in sorted order so proofs need no left/right
// direction bits.
func hashPair(a, b common.Hash) common.Hash {
	if bytes.Compare(a.Bytes(), b.Bytes()) > 0 {
		a, b = b, a
	}
	return crypto.Keccak256Hash(a.Bytes(), b.Bytes())
}

// VerifySetProof checks that tokenID is a committed member of the set rooted
// at root. proof is the concatenation of 32-byte sibling nodes from leaf to
// root.
func VerifySetProof(root common.Hash, tokenID *big.Int, proof []byte) bool {
	if len(proof)%32 != 0 {
		return false
	}
	node := setLeaf(tokenID)
	for i := 0; i < len(proof); i += 32 {
		node = hashPair(node, common.BytesToHash(proof[i:i+32]))
	}
	return node == root
}

// SetCommitment is an off-chain Merkle tree over a token id set, used by
// makers to compute the root for their order params and by takers to extract
// membership proofs.
type SetCommitment struct {
	leaves []common.Hash
	levels [][]common.Hash
}

// NewSetCommitment builds the commitment tree. Token ids are deduplicated and
// sorted so the root is independent of input order.
func NewSetCommitment(tokenIDs []*big.Int) (*SetCommitment, error) {
	if len(tokenIDs) == 0 {
		return nil, ErrEmptySet
	}

	seen := make(map[common.Hash]struct{}, len(tokenIDs))
	leaves := make([]common.Hash, 0, len(tokenIDs))
	for _, id := range tokenIDs {
		leaf := setLeaf(id)
		if _, ok := seen[leaf]; ok {
			continue
		}
		seen[leaf] = struct{}{}
		leaves = append(leaves, leaf)
	}
	sort.Slice(leaves, func(i, j int) bool {
		return bytes.Compare(leaves[i].Bytes(), leaves[j].Bytes()) < 0
	})

	levels := [][]common.Hash{leaves}
	for level := leaves; len(level) > 1; {
		next := make([]common.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, hashPair(level[i], level[i+1]))
			} else {
				// odd node is carried up unchanged
				next = append(next, level[i])
			}
		}
		levels = append(levels, next)
		level = next
	}

	return &SetCommitment{leaves: leaves, levels: levels}, nil
}

// Root returns the tree root, the value to place in the maker's params.
func (c *SetCommitment) Root() common.Hash {
	top := c.levels[len(c.levels)-1]
	return top[0]
}

// RootParams returns the root encoded as maker order params.
func (c *SetCommitment) RootParams() []byte {
	root := c.Root()
	return encodeUint256(new(big.Int).SetBytes(root.Bytes()))
}

// Proof returns the membership proof for tokenID in taker params form.
func (c *SetCommitment) Proof(tokenID *big.Int) ([]byte, error) {
	target := setLeaf(tokenID)
	idx := -1
	for i, leaf := range c.leaves {
		if leaf == target {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrTokenNotInSet
	}

	var proof []byte
	for _, level := range c.levels[:len(c.levels)-1] {
		sibling := idx ^ 1
		if sibling < len(level) {
			proof = append(proof, level[sibling].Bytes()...)
		}
		idx /= 2
	}
	return proof, nil
}
