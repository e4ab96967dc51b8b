package nftexchange

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// MaxMinNonceIncrement bounds how far a signer may advance their minimum
// valid nonce in one call.
const MaxMinNonceIncrement uint64 = 500000

// NonceLedger is the per-signer cancellation state: a monotonically
// increasing minimum valid nonce plus a bitmap of individually executed or
// cancelled nonces. Once a nonce is marked, or falls below the minimum, it can
// never become valid again.
type NonceLedger struct {
	mu       sync.Mutex
	minNonce map[common.Address]uint64
	// executed-or-cancelled bitmap, one word per 64 nonces
	marks map[common.Address]map[uint64]uint64
}

// NewNonceLedger creates an empty ledger.
func NewNonceLedger() *NonceLedger {
	return &NonceLedger{
		minNonce: make(map[common.Address]uint64),
		marks:    make(map[common.Address]map[uint64]uint64),
	}
}

// MinNonce returns the signer's minimum valid nonce.
func (l *NonceLedger) MinNonce(signer common.Address) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.minNonce[signer]
}

// IsExecutedOrCancelled reports whether the nonce was individually marked.
// Nonces below the signer's minimum are invalid regardless; IsValid folds in
// both checks.
func (l *NonceLedger) IsExecutedOrCancelled(signer common.Address, nonce uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isMarked(signer, nonce)
}

// IsValid reports whether a maker order with this nonce is still executable:
// at or above the signer's minimum and not individually marked.
func (l *NonceLedger) IsValid(signer common.Address, nonce uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return nonce >= l.minNonce[signer] && !l.isMarked(signer, nonce)
}

// MarkExecuted marks a nonce as consumed by a successful settlement.
func (l *NonceLedger) MarkExecuted(signer common.Address, nonce uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setMark(signer, nonce)
}

// unmarkExecuted reverses MarkExecuted when a settlement rolls back. Internal:
// cancellation is one-way for everyone outside the settlement path.
func (l *NonceLedger) unmarkExecuted(signer common.Address, nonce uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if words, ok := l.marks[signer]; ok {
		words[nonce>>6] &^= 1 << (nonce & 63)
	}
}

// CancelNonces marks each listed nonce cancelled for the signer. Rejects an
// empty list and any nonce below the signer's current minimum.
func (l *NonceLedger) CancelNonces(signer common.Address, nonces []uint64) error {
	if len(nonces) == 0 {
		return ErrEmptyNonceList
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	min := l.minNonce[signer]
	for _, n := range nonces {
		if n < min {
			return ErrNonceBelowMin
		}
	}
	for _, n := range nonces {
		l.setMark(signer, n)
	}
	return nil
}

// BumpMinNonce raises the signer's minimum valid nonce, invalidating every
// order below it in O(1). The new minimum must be strictly greater than the
// current one and within MaxMinNonceIncrement of it.
func (l *NonceLedger) BumpMinNonce(signer common.Address, newMin uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.minNonce[signer]
	if newMin <= current {
		return ErrMinNonceNotIncreasing
	}
	if newMin-current > MaxMinNonceIncrement {
		return ErrMinNonceJumpTooLarge
	}
	l.minNonce[signer] = newMin
	return nil
}

// isMarked assumes the lock is held.
func (l *NonceLedger) isMarked(signer common.Address, nonce uint64) bool {
	words, ok := l.marks[signer]
	if !ok {
		return false
	}
	return words[nonce>>6]&(1<<(nonce&63)) != 0
}

// setMark assumes the lock is held.
func (l *NonceLedger) setMark(signer common.Address, nonce uint64) {
	words, ok := l.marks[signer]
	if !ok {
		words = make(map[uint64]uint64)
		l.marks[signer] = words
	}
	words[nonce>>6] |= 1 << (nonce & 63)
}
