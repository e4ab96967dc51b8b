package token

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

type operatorKey struct {
	owner    common.Address
	operator common.Address
}

// MemERC721 is an in-memory ERC721 with owner-of and operator approval
// semantics. An optional transfer hook fires during SafeTransferFrom, the
// point where a real token would call back into receiver code.
type MemERC721 struct {
	mu        sync.Mutex
	owners    map[string]common.Address
	approvals map[operatorKey]bool
	royalty   *RoyaltyInfo

	// TransferHook, when set, runs after ownership moves and before
	// SafeTransferFrom returns. Tests use it to model reentrant receivers.
	TransferHook func()
}

// RoyaltyInfo is a collection-declared ERC2981 royalty configuration.
type RoyaltyInfo struct {
	Receiver common.Address
	FeeBps   uint64
}

// NewMemERC721 creates an empty in-memory ERC721.
func NewMemERC721() *MemERC721 {
	return &MemERC721{
		owners:    make(map[string]common.Address),
		approvals: make(map[operatorKey]bool),
	}
}

// Mint assigns tokenID to owner.
func (t *MemERC721) Mint(owner common.Address, tokenID *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.owners[tokenID.String()] = owner
}

// SetRoyalty declares an ERC2981 royalty for the whole collection.
func (t *MemERC721) SetRoyalty(receiver common.Address, feeBps uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.royalty = &RoyaltyInfo{Receiver: receiver, FeeBps: feeBps}
}

// RoyaltyFor implements the ERC2981 royaltyInfo lookup for a sale price.
// ok is false when the collection declares no royalty.
func (t *MemERC721) RoyaltyFor(_ *big.Int, salePrice *big.Int) (common.Address, *big.Int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.royalty == nil {
		return common.Address{}, nil, false
	}
	amount := new(big.Int).Mul(salePrice, new(big.Int).SetUint64(t.royalty.FeeBps))
	amount.Div(amount, big.NewInt(10000))
	return t.royalty.Receiver, amount, true
}

func (t *MemERC721) OwnerOf(tokenID *big.Int) (common.Address, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	owner, ok := t.owners[tokenID.String()]
	if !ok {
		return common.Address{}, ErrUnknownToken
	}
	return owner, nil
}

func (t *MemERC721) IsApprovedForAll(owner, operator common.Address) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.approvals[operatorKey{owner, operator}]
}

func (t *MemERC721) SetApprovalForAll(owner, operator common.Address, approved bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.approvals[operatorKey{owner, operator}] = approved
}

func (t *MemERC721) SafeTransferFrom(operator, from, to common.Address, tokenID *big.Int) error {
	t.mu.Lock()
	owner, ok := t.owners[tokenID.String()]
	if !ok {
		t.mu.Unlock()
		return ErrUnknownToken
	}
	if owner != from {
		t.mu.Unlock()
		return ErrNotOwner
	}
	if operator != from && !t.approvals[operatorKey{from, operator}] {
		t.mu.Unlock()
		return ErrNotApproved
	}
	t.owners[tokenID.String()] = to
	hook := t.TransferHook
	t.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}
