// Package nftexchange implements a peer-to-peer NFT exchange: signed
// off-chain maker orders are matched against caller-supplied taker orders and
// settled atomically, splitting proceeds between seller, protocol and royalty
// recipient.
package nftexchange

import "errors"

// Settlement errors. Every failure aborts the whole match; there is no
// partial settlement.
var (
	// ErrReentrantCall rejects a nested call into a value-moving entry point.
	ErrReentrantCall = errors.New("reentrant call")

	// ErrWrongSides rejects a taker/maker pair whose ask/bid sides do not oppose.
	ErrWrongSides = errors.New("wrong order sides")

	// ErrCallerNotTaker rejects a taker order not submitted by its named taker.
	ErrCallerNotTaker = errors.New("caller is not the taker")

	// ErrOrderExpiredOrExecuted rejects a maker order whose nonce was
	// executed, cancelled, or fell below the signer's minimum.
	ErrOrderExpiredOrExecuted = errors.New("maker order expired or executed")

	// ErrZeroOrderAmount rejects a maker order with a zero amount.
	ErrZeroOrderAmount = errors.New("order amount cannot be zero")

	// ErrCurrencyNotWhitelisted rejects an order in a non-approved currency.
	ErrCurrencyNotWhitelisted = errors.New("currency not whitelisted")

	// ErrStrategyNotWhitelisted rejects an order naming a non-approved strategy.
	ErrStrategyNotWhitelisted = errors.New("strategy not whitelisted")

	// ErrStrategyCannotMatch rejects an incompatible taker/maker pair.
	ErrStrategyCannotMatch = errors.New("strategy cannot match orders")

	// ErrFeesHigherThanExpected rejects a settlement whose net seller
	// proceeds fall under the seller's declared minimum ratio.
	ErrFeesHigherThanExpected = errors.New("net proceeds below min percentage to ask")

	// ErrCallerNotExchange rejects a transfer adapter call from anyone
	// but the exchange it serves.
	ErrCallerNotExchange = errors.New("caller is not the exchange")

	// ErrNoTransferManager rejects a collection with no resolvable
	// transfer adapter. Resolution fails closed.
	ErrNoTransferManager = errors.New("no transfer manager available for collection")

	// ErrCurrencyMustBeWrappedNative rejects native top-up payment for an
	// order whose currency is not the wrapped-native token.
	ErrCurrencyMustBeWrappedNative = errors.New("order currency must be wrapped native")

	// ErrNativeOverpayment rejects paying more native currency than the order price.
	ErrNativeOverpayment = errors.New("native amount exceeds order price")

	// ErrUnknownCurrency rejects an order whose currency address resolves
	// to no ERC20 token.
	ErrUnknownCurrency = errors.New("currency address is not an ERC20 token")
)

// Cancellation errors
var (
	// ErrEmptyNonceList rejects a cancellation with no nonces.
	ErrEmptyNonceList = errors.New("cannot cancel empty nonce list")

	// ErrNonceBelowMin rejects cancelling a nonce under the signer's minimum.
	ErrNonceBelowMin = errors.New("nonce below minimum valid nonce")

	// ErrMinNonceNotIncreasing rejects a min-nonce bump that does not increase it.
	ErrMinNonceNotIncreasing = errors.New("new minimum nonce must be higher")

	// ErrMinNonceJumpTooLarge bounds a min-nonce bump to a sane increment.
	ErrMinNonceJumpTooLarge = errors.New("minimum nonce increment too large")
)

// Admin errors
var (
	// ErrNotOwner rejects an owner-gated call from anyone else.
	ErrNotOwner = errors.New("caller is not the owner")

	// ErrZeroAddress rejects the zero address where a real one is required.
	ErrZeroAddress = errors.New("address cannot be zero")

	// ErrRoyaltyFeeTooHigh rejects a royalty registration above the registry limit.
	ErrRoyaltyFeeTooHigh = errors.New("royalty fee exceeds registry limit")
)
