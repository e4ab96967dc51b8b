package nftexchange

import (
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/kaifufi/nft-exchange-go/order"
	"github.com/kaifufi/nft-exchange-go/strategy"
	"github.com/kaifufi/nft-exchange-go/token"
)

// Exchange is the order-matching and settlement engine. A signed maker order
// plus a caller-supplied taker order enter one of the match entry points; the
// exchange validates authenticity and compatibility, splits the payment
// between seller, protocol and royalty recipient, moves both legs atomically
// and invalidates the maker nonce.
type Exchange struct {
	cfg      Config
	verifier *order.Verifier
	nonces   *NonceLedger

	// entered is the reentrancy guard: a nested call from a token or
	// callback while a settlement is in flight is rejected outright.
	entered atomic.Bool

	// admin-swappable collaborators
	adminMu          sync.RWMutex
	currencies       *CurrencyManager
	strategies       *ExecutionManager
	royalties        *RoyaltyFeeManager
	transferSelector *TransferSelector
	feeRecipient     common.Address

	log *zerolog.Logger
}

// NewExchange creates the settlement engine from config.
func NewExchange(cfg Config) (*Exchange, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	domain := order.NewEIP712Domain(big.NewInt(cfg.ChainID), cfg.Address)
	return &Exchange{
		cfg:              cfg,
		verifier:         order.NewVerifier(domain, cfg.ContractSigners),
		nonces:           NewNonceLedger(),
		currencies:       cfg.Currencies,
		strategies:       cfg.Strategies,
		royalties:        cfg.Royalties,
		transferSelector: cfg.TransferSelector,
		feeRecipient:     cfg.ProtocolFeeRecipient,
		log:              cfg.Logger,
	}, nil
}

// Address returns the exchange's own address.
func (e *Exchange) Address() common.Address {
	return e.cfg.Address
}

// DomainSeparator returns the EIP712 domain separator orders must be signed
// under.
func (e *Exchange) DomainSeparator() common.Hash {
	return e.verifier.Domain().Hash()
}

// IsUserOrderNonceExecutedOrCancelled reports whether the signer's nonce was
// consumed or cancelled.
func (e *Exchange) IsUserOrderNonceExecutedOrCancelled(signer common.Address, nonce uint64) bool {
	return e.nonces.IsExecutedOrCancelled(signer, nonce)
}

// UserMinOrderNonce returns the signer's minimum valid order nonce.
func (e *Exchange) UserMinOrderNonce(signer common.Address) uint64 {
	return e.nonces.MinNonce(signer)
}

// CancelMultipleMakerOrders cancels the caller's listed order nonces.
func (e *Exchange) CancelMultipleMakerOrders(caller common.Address, nonces []uint64) error {
	if err := e.nonces.CancelNonces(caller, nonces); err != nil {
		return err
	}
	e.log.Info().
		Str("user", caller.Hex()).
		Uints64("nonces", nonces).
		Msg("maker orders cancelled")
	e.cfg.Listener.OnCancelMultipleOrders(CancelMultipleOrdersEvent{User: caller, Nonces: nonces})
	return nil
}

// CancelAllOrdersForSender bumps the caller's minimum valid nonce,
// invalidating every order below it.
func (e *Exchange) CancelAllOrdersForSender(caller common.Address, newMinNonce uint64) error {
	if err := e.nonces.BumpMinNonce(caller, newMinNonce); err != nil {
		return err
	}
	e.log.Info().
		Str("user", caller.Hex()).
		Uint64("newMinNonce", newMinNonce).
		Msg("all maker orders cancelled below nonce")
	e.cfg.Listener.OnCancelAllOrders(CancelAllOrdersEvent{User: caller, NewMinNonce: newMinNonce})
	return nil
}

// MatchAskWithTakerBid settles a maker ask against the caller's taker bid:
// the asset moves maker to taker, the payment moves taker to seller, protocol
// and royalty recipient.
func (e *Exchange) MatchAskWithTakerBid(caller common.Address, takerBid *order.TakerOrder, makerAsk *order.MakerOrder) error {
	if !e.enter() {
		return ErrReentrantCall
	}
	defer e.exit()
	return e.settleTakerBid(caller, takerBid, makerAsk)
}

// MatchAskWithTakerBidUsingNativeAndWrapped is MatchAskWithTakerBid with the
// taker paying nativeAmount in native currency and the rest in the wrapped
// form. The order currency must be the wrapped-native token and the native
// portion may not exceed the order price; the native portion is wrapped
// before the standard payment leg runs.
func (e *Exchange) MatchAskWithTakerBidUsingNativeAndWrapped(caller common.Address, nativeAmount *big.Int, takerBid *order.TakerOrder, makerAsk *order.MakerOrder) error {
	if !e.enter() {
		return ErrReentrantCall
	}
	defer e.exit()

	if makerAsk.Currency != e.cfg.WrappedNative {
		return ErrCurrencyMustBeWrappedNative
	}
	if nativeAmount.Cmp(takerBid.Price) > 0 {
		return ErrNativeOverpayment
	}

	wrapped, err := e.wrappedNative()
	if err != nil {
		return err
	}
	if nativeAmount.Sign() > 0 {
		if err := wrapped.Deposit(takerBid.Taker, nativeAmount); err != nil {
			return fmt.Errorf("failed to wrap native payment: %w", err)
		}
	}

	if err := e.settleTakerBid(caller, takerBid, makerAsk); err != nil {
		if nativeAmount.Sign() > 0 {
			// hand the wrapped top-up back as native funds
			_ = wrapped.Withdraw(takerBid.Taker, nativeAmount)
		}
		return err
	}
	return nil
}

// MatchBidWithTakerAsk settles a maker bid against the caller's taker ask:
// the asset moves taker to maker, the payment moves maker to the taker as
// seller, protocol and royalty recipient. The taker is the seller, so the
// slippage bound comes from the taker order.
func (e *Exchange) MatchBidWithTakerAsk(caller common.Address, takerAsk *order.TakerOrder, makerBid *order.MakerOrder) error {
	if !e.enter() {
		return ErrReentrantCall
	}
	defer e.exit()
	return e.settleTakerAsk(caller, takerAsk, makerBid)
}

func (e *Exchange) settleTakerBid(caller common.Address, takerBid *order.TakerOrder, makerAsk *order.MakerOrder) error {
	if !makerAsk.IsAsk || takerBid.IsAsk {
		return ErrWrongSides
	}
	if caller == (common.Address{}) || caller != takerBid.Taker {
		return ErrCallerNotTaker
	}

	col := e.snapshot()
	if err := e.validateMakerOrder(col, makerAsk); err != nil {
		return err
	}

	strat, ok := col.strategies.StrategyAt(makerAsk.Strategy)
	if !ok {
		return ErrStrategyNotWhitelisted
	}
	orderHash := makerAsk.Hash()

	ok, tokenID, amount := strat.CanMatchAskWithTakerBid(takerBid, makerAsk, orderHash, e.cfg.Now())
	if !ok {
		return ErrStrategyCannotMatch
	}
	if amount == nil || amount.Sign() == 0 {
		return ErrZeroOrderAmount
	}

	price := takerBid.Price
	split, err := e.computeSplit(col, strat, makerAsk.Collection, tokenID, price, makerAsk.MinPercentageToAsk)
	if err != nil {
		return err
	}

	j := &journal{}
	e.invalidateNonce(j, strat, orderHash, makerAsk, amount)

	// asset leg: maker (seller) -> taker
	if err := e.transferNonFungible(col, j, makerAsk.Collection, makerAsk.Signer, takerBid.Taker, tokenID, amount); err != nil {
		j.unwind()
		return err
	}
	// payment leg: taker pays seller, protocol, royalty
	if err := e.payFeesAndFunds(col, j, makerAsk.Currency, takerBid.Taker, makerAsk.Signer, split); err != nil {
		j.unwind()
		return err
	}

	ev := TakerBidEvent{
		OrderHash:  orderHash,
		OrderNonce: makerAsk.Nonce,
		Taker:      takerBid.Taker,
		Maker:      makerAsk.Signer,
		Strategy:   makerAsk.Strategy,
		Currency:   makerAsk.Currency,
		Collection: makerAsk.Collection,
		TokenID:    tokenID,
		Amount:     amount,
		Price:      price,
	}
	e.log.Info().
		Str("orderHash", orderHash.Hex()).
		Str("taker", ev.Taker.Hex()).
		Str("maker", ev.Maker.Hex()).
		Str("collection", ev.Collection.Hex()).
		Str("tokenId", tokenID.String()).
		Str("price", price.String()).
		Msg("taker bid settled")
	e.cfg.Listener.OnTakerBid(ev)
	return nil
}

func (e *Exchange) settleTakerAsk(caller common.Address, takerAsk *order.TakerOrder, makerBid *order.MakerOrder) error {
	if makerBid.IsAsk || !takerAsk.IsAsk {
		return ErrWrongSides
	}
	if caller == (common.Address{}) || caller != takerAsk.Taker {
		return ErrCallerNotTaker
	}

	col := e.snapshot()
	if err := e.validateMakerOrder(col, makerBid); err != nil {
		return err
	}

	strat, ok := col.strategies.StrategyAt(makerBid.Strategy)
	if !ok {
		return ErrStrategyNotWhitelisted
	}
	orderHash := makerBid.Hash()

	ok, tokenID, amount := strat.CanMatchBidWithTakerAsk(takerAsk, makerBid, orderHash, e.cfg.Now())
	if !ok {
		return ErrStrategyCannotMatch
	}
	if amount == nil || amount.Sign() == 0 {
		return ErrZeroOrderAmount
	}

	// taker is the seller: their slippage bound applies
	price := takerAsk.Price
	split, err := e.computeSplit(col, strat, makerBid.Collection, tokenID, price, takerAsk.MinPercentageToAsk)
	if err != nil {
		return err
	}

	j := &journal{}
	e.invalidateNonce(j, strat, orderHash, makerBid, amount)

	// asset leg: taker (seller) -> maker
	if err := e.transferNonFungible(col, j, makerBid.Collection, takerAsk.Taker, makerBid.Signer, tokenID, amount); err != nil {
		j.unwind()
		return err
	}
	// payment leg: maker pays seller, protocol, royalty
	if err := e.payFeesAndFunds(col, j, makerBid.Currency, makerBid.Signer, takerAsk.Taker, split); err != nil {
		j.unwind()
		return err
	}

	ev := TakerAskEvent{
		OrderHash:  orderHash,
		OrderNonce: makerBid.Nonce,
		Taker:      takerAsk.Taker,
		Maker:      makerBid.Signer,
		Strategy:   makerBid.Strategy,
		Currency:   makerBid.Currency,
		Collection: makerBid.Collection,
		TokenID:    tokenID,
		Amount:     amount,
		Price:      price,
	}
	e.log.Info().
		Str("orderHash", orderHash.Hex()).
		Str("taker", ev.Taker.Hex()).
		Str("maker", ev.Maker.Hex()).
		Str("collection", ev.Collection.Hex()).
		Str("tokenId", tokenID.String()).
		Str("price", price.String()).
		Msg("taker ask settled")
	e.cfg.Listener.OnTakerAsk(ev)
	return nil
}

// validateMakerOrder runs the authenticity and whitelist checks shared by
// both settlement directions.
func (e *Exchange) validateMakerOrder(col collaborators, m *order.MakerOrder) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if !e.nonces.IsValid(m.Signer, m.Nonce) {
		return ErrOrderExpiredOrExecuted
	}
	if err := e.verifier.Verify(m); err != nil {
		return err
	}
	if !col.currencies.IsCurrencyWhitelisted(m.Currency) {
		return ErrCurrencyNotWhitelisted
	}
	if !col.strategies.IsStrategyWhitelisted(m.Strategy) {
		return ErrStrategyNotWhitelisted
	}
	return nil
}

// feeSplit is the three-way division of a sale price.
type feeSplit struct {
	protocolAmount  *big.Int
	royaltyReceiver common.Address
	royaltyAmount   *big.Int
	sellerProceeds  *big.Int
}

// computeSplit derives the protocol fee, royalty and seller proceeds for a
// sale and enforces the seller's minimum net-proceeds ratio. The three parts
// always sum exactly to price.
func (e *Exchange) computeSplit(col collaborators, strat strategy.Strategy, collection common.Address, tokenID, price *big.Int, minPercentageToAsk uint64) (*feeSplit, error) {
	protocolAmount := new(big.Int).Mul(price, new(big.Int).SetUint64(strat.ProtocolFeeBps()))
	protocolAmount.Div(protocolAmount, big.NewInt(10000))

	royaltyReceiver, royaltyAmount := col.royalties.CalculateRoyaltyFeeAndGetRecipient(collection, tokenID, price)
	if royaltyReceiver == (common.Address{}) || royaltyAmount == nil {
		royaltyAmount = new(big.Int)
	}

	proceeds := new(big.Int).Sub(price, protocolAmount)
	proceeds.Sub(proceeds, royaltyAmount)
	if proceeds.Sign() < 0 {
		return nil, ErrFeesHigherThanExpected
	}

	// proceeds × 10000 >= minPercentageToAsk × price
	lhs := new(big.Int).Mul(proceeds, big.NewInt(10000))
	rhs := new(big.Int).Mul(price, new(big.Int).SetUint64(minPercentageToAsk))
	if lhs.Cmp(rhs) < 0 {
		return nil, ErrFeesHigherThanExpected
	}

	return &feeSplit{
		protocolAmount:  protocolAmount,
		royaltyReceiver: royaltyReceiver,
		royaltyAmount:   royaltyAmount,
		sellerProceeds:  proceeds,
	}, nil
}

// invalidateNonce consumes the maker order before any value moves, so a
// reentrant call observes the order as spent. Partial-fill strategies only
// consume the nonce once the order is exhausted.
func (e *Exchange) invalidateNonce(j *journal, strat strategy.Strategy, orderHash common.Hash, m *order.MakerOrder, amount *big.Int) {
	signer, nonce := m.Signer, m.Nonce
	if pf, ok := strat.(strategy.PartialFiller); ok {
		exhausted := pf.RecordFill(orderHash, amount, m.Amount)
		j.record(func() { pf.RevertFill(orderHash, amount) })
		if !exhausted {
			return
		}
	}
	e.nonces.MarkExecuted(signer, nonce)
	j.record(func() { e.nonces.unmarkExecuted(signer, nonce) })
}

func (e *Exchange) transferNonFungible(col collaborators, j *journal, collection, from, to common.Address, tokenID, amount *big.Int) error {
	mgr, err := col.selector.TransferManagerForCollection(collection)
	if err != nil {
		return err
	}
	if err := mgr.TransferNonFungibleToken(e.cfg.Address, collection, from, to, tokenID, amount); err != nil {
		return fmt.Errorf("asset transfer failed: %w", err)
	}
	j.record(func() { e.revertAssetTransfer(mgr, collection, from, to, tokenID, amount) })
	return nil
}

// revertAssetTransfer undoes a completed asset leg during rollback, mirroring
// the chain reverting state rather than a user-approved transfer. Standard
// tokens move back with the current holder as its own operator; a collection
// reachable only through an override adapter moves back through the same
// adapter that ran the forward transfer.
func (e *Exchange) revertAssetTransfer(mgr TransferManager, collection, from, to common.Address, tokenID, amount *big.Int) {
	if t, ok := e.cfg.Tokens.TokenAt(collection); ok {
		switch c := t.(type) {
		case token.ERC721:
			_ = c.SafeTransferFrom(to, to, from, tokenID)
			return
		case token.ERC1155:
			_ = c.SafeTransferFrom(to, to, from, tokenID, amount)
			return
		}
	}
	_ = mgr.TransferNonFungibleToken(e.cfg.Address, collection, to, from, tokenID, amount)
}

// payFeesAndFunds moves the three payment legs in the order's currency:
// protocol fee, royalty, then seller proceeds. Zero legs are skipped.
func (e *Exchange) payFeesAndFunds(col collaborators, j *journal, currency, payer, seller common.Address, split *feeSplit) error {
	c, ok := e.cfg.Tokens.ERC20At(currency)
	if !ok {
		return ErrUnknownCurrency
	}

	pay := func(to common.Address, amount *big.Int) error {
		if amount.Sign() == 0 {
			return nil
		}
		if err := c.TransferFrom(e.cfg.Address, payer, to, amount); err != nil {
			return fmt.Errorf("payment transfer failed: %w", err)
		}
		j.record(func() { _ = c.TransferFrom(to, to, payer, amount) })
		return nil
	}

	if err := pay(col.feeRecipient, split.protocolAmount); err != nil {
		return err
	}
	if split.royaltyReceiver != (common.Address{}) {
		if err := pay(split.royaltyReceiver, split.royaltyAmount); err != nil {
			return err
		}
	}
	return pay(seller, split.sellerProceeds)
}

func (e *Exchange) wrappedNative() (token.Wrapped, error) {
	t, ok := e.cfg.Tokens.TokenAt(e.cfg.WrappedNative)
	if !ok {
		return nil, ErrUnknownCurrency
	}
	w, ok := t.(token.Wrapped)
	if !ok {
		return nil, ErrCurrencyMustBeWrappedNative
	}
	return w, nil
}

func (e *Exchange) enter() bool {
	return e.entered.CompareAndSwap(false, true)
}

func (e *Exchange) exit() {
	e.entered.Store(false)
}

// collaborators is the set of admin-swappable components one settlement or
// validation runs against. Snapshotted once at entry so an admin swap landing
// mid-settlement cannot change the instances in flight.
type collaborators struct {
	currencies   *CurrencyManager
	strategies   *ExecutionManager
	royalties    *RoyaltyFeeManager
	selector     *TransferSelector
	feeRecipient common.Address
}

func (e *Exchange) snapshot() collaborators {
	e.adminMu.RLock()
	defer e.adminMu.RUnlock()
	return collaborators{
		currencies:   e.currencies,
		strategies:   e.strategies,
		royalties:    e.royalties,
		selector:     e.transferSelector,
		feeRecipient: e.feeRecipient,
	}
}

// journal collects undo steps for a settlement in flight. unwind runs them in
// reverse, restoring state to before the first step.
type journal struct {
	undos []func()
}

func (j *journal) record(undo func()) {
	j.undos = append(j.undos, undo)
}

func (j *journal) unwind() {
	for i := len(j.undos) - 1; i >= 0; i-- {
		j.undos[i]()
	}
}
