package nftexchange

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaifufi/nft-exchange-go/order"
	"github.com/kaifufi/nft-exchange-go/token"
)

// Code is a per-criterion validation status. Codes are grouped by hundreds so
// clients can map a failure to its criterion: 1xx nonce, 2xx amount, 3xx
// signature, 4xx whitelist, 5xx fee/royalty, 6xx timestamp, 7xx
// transfer/approval.
type Code int

// Validation codes
const (
	CodeOK Code = 0

	CodeNonceExecutedOrCancelled Code = 101
	CodeNonceBelowMinNonce       Code = 102

	CodeAmountCannotBeZero Code = 201

	CodeMakerSignerIsZero        Code = 301
	CodeInvalidVParameter        Code = 302
	CodeInvalidSParameter        Code = 303
	CodeWrongSigner              Code = 311
	CodeContractSignatureInvalid Code = 312

	CodeCurrencyNotWhitelisted Code = 401
	CodeStrategyNotWhitelisted Code = 402

	CodeMinPercentageToAskTooHigh Code = 501

	CodeTooEarlyToExecute Code = 601
	CodeTooLateToExecute  Code = 602

	CodeNoTransferManagerAvailable   Code = 701
	CodeCurrencyNotResolvable        Code = 710
	CodeERC20BalanceInferiorToPrice  Code = 711
	CodeERC20ApprovalInferiorToPrice Code = 712
	CodeERC721TokenNotOwned          Code = 721
	CodeERC721NoApprovalForAll       Code = 722
	CodeERC1155BalanceInferior       Code = 731
	CodeERC1155NoApprovalForAll      Code = 732
)

// NumCriteria is the number of independent checks ValidateOrder reports on.
const NumCriteria = 7

// OrderValidator mirrors the engine's settlement checks read-only, so clients
// can pinpoint why an order would fail before paying for a doomed submission.
// It performs no state change.
type OrderValidator struct {
	exchange *Exchange
}

// NewOrderValidator creates a validator over the exchange's live state.
func NewOrderValidator(e *Exchange) *OrderValidator {
	return &OrderValidator{exchange: e}
}

// ValidateOrder reports one status code per criterion, CodeOK where the order
// passes: [nonce, amount, signature, whitelist, fee/royalty, timestamp,
// transfer].
func (v *OrderValidator) ValidateOrder(m *order.MakerOrder) [NumCriteria]Code {
	col := v.exchange.snapshot()
	return [NumCriteria]Code{
		v.checkNonce(m),
		v.checkAmount(m),
		v.checkSignature(m),
		v.checkWhitelists(col, m),
		v.checkFees(col, m),
		v.checkTimestamps(m),
		v.checkTransfer(col, m),
	}
}

func (v *OrderValidator) checkNonce(m *order.MakerOrder) Code {
	e := v.exchange
	if e.nonces.IsExecutedOrCancelled(m.Signer, m.Nonce) {
		return CodeNonceExecutedOrCancelled
	}
	if m.Nonce < e.nonces.MinNonce(m.Signer) {
		return CodeNonceBelowMinNonce
	}
	return CodeOK
}

func (v *OrderValidator) checkAmount(m *order.MakerOrder) Code {
	if m.Amount == nil || m.Amount.Sign() == 0 {
		return CodeAmountCannotBeZero
	}
	return CodeOK
}

func (v *OrderValidator) checkSignature(m *order.MakerOrder) Code {
	if m.Signer == (common.Address{}) {
		return CodeMakerSignerIsZero
	}
	err := v.exchange.verifier.Verify(m)
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, order.ErrInvalidV):
		return CodeInvalidVParameter
	case errors.Is(err, order.ErrMalleableS):
		return CodeInvalidSParameter
	case errors.Is(err, order.ErrBadContractSig), errors.Is(err, order.ErrNotContractAccount):
		return CodeContractSignatureInvalid
	default:
		return CodeWrongSigner
	}
}

func (v *OrderValidator) checkWhitelists(col collaborators, m *order.MakerOrder) Code {
	if !col.currencies.IsCurrencyWhitelisted(m.Currency) {
		return CodeCurrencyNotWhitelisted
	}
	if !col.strategies.IsStrategyWhitelisted(m.Strategy) {
		return CodeStrategyNotWhitelisted
	}
	return CodeOK
}

func (v *OrderValidator) checkFees(col collaborators, m *order.MakerOrder) Code {
	strat, ok := col.strategies.StrategyAt(m.Strategy)
	if !ok {
		// reported by the whitelist criterion
		return CodeOK
	}
	if m.Price == nil {
		return CodeOK
	}
	if _, err := v.exchange.computeSplit(col, strat, m.Collection, m.TokenID, m.Price, m.MinPercentageToAsk); err != nil {
		return CodeMinPercentageToAskTooHigh
	}
	return CodeOK
}

func (v *OrderValidator) checkTimestamps(m *order.MakerOrder) Code {
	now := v.exchange.cfg.Now()
	if now < m.StartTime {
		return CodeTooEarlyToExecute
	}
	if now > m.EndTime {
		return CodeTooLateToExecute
	}
	return CodeOK
}

// checkTransfer verifies the side-dependent balances and approvals: the asset
// leg when the maker sells, the currency leg when the maker buys.
func (v *OrderValidator) checkTransfer(col collaborators, m *order.MakerOrder) Code {
	if m.IsAsk {
		return v.checkAssetLeg(col, m)
	}
	return v.checkCurrencyLeg(m)
}

func (v *OrderValidator) checkAssetLeg(col collaborators, m *order.MakerOrder) Code {
	e := v.exchange
	if _, err := col.selector.TransferManagerForCollection(m.Collection); err != nil {
		return CodeNoTransferManagerAvailable
	}

	t, ok := e.cfg.Tokens.TokenAt(m.Collection)
	if !ok {
		return CodeNoTransferManagerAvailable
	}
	switch c := t.(type) {
	case token.ERC721:
		owner, err := c.OwnerOf(m.TokenID)
		if err != nil || owner != m.Signer {
			return CodeERC721TokenNotOwned
		}
		if !c.IsApprovedForAll(m.Signer, e.cfg.Address) {
			return CodeERC721NoApprovalForAll
		}
	case token.ERC1155:
		if c.BalanceOf(m.Signer, m.TokenID).Cmp(m.Amount) < 0 {
			return CodeERC1155BalanceInferior
		}
		if !c.IsApprovedForAll(m.Signer, e.cfg.Address) {
			return CodeERC1155NoApprovalForAll
		}
	}
	return CodeOK
}

func (v *OrderValidator) checkCurrencyLeg(m *order.MakerOrder) Code {
	e := v.exchange
	c, ok := e.cfg.Tokens.ERC20At(m.Currency)
	if !ok {
		return CodeCurrencyNotResolvable
	}
	if m.Price == nil {
		return CodeOK
	}
	if c.BalanceOf(m.Signer).Cmp(m.Price) < 0 {
		return CodeERC20BalanceInferiorToPrice
	}
	if c.Allowance(m.Signer, e.cfg.Address).Cmp(m.Price) < 0 {
		return CodeERC20ApprovalInferiorToPrice
	}
	return CodeOK
}
