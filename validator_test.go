package nftexchange

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOrderAllClear(t *testing.T) {
	f := newFixture(t)
	f.fundStandardAsk(big.NewInt(10000))
	makerAsk := f.signedOrder(f.askData())

	codes := NewOrderValidator(f.exchange).ValidateOrder(makerAsk)
	assert.Equal(t, [NumCriteria]Code{}, codes)
}

func TestValidateOrderNonceCriterion(t *testing.T) {
	f := newFixture(t)
	f.fundStandardAsk(big.NewInt(10000))
	v := NewOrderValidator(f.exchange)

	makerAsk := f.signedOrder(f.askData())
	require.NoError(t, f.exchange.CancelMultipleMakerOrders(f.maker, []uint64{1}))
	assert.Equal(t, CodeNonceExecutedOrCancelled, v.ValidateOrder(makerAsk)[0])

	data := f.askData()
	data.Nonce = 3
	below := f.signedOrder(data)
	require.NoError(t, f.exchange.CancelAllOrdersForSender(f.maker, 5))
	assert.Equal(t, CodeNonceBelowMinNonce, v.ValidateOrder(below)[0])
}

func TestValidateOrderAmountCriterion(t *testing.T) {
	f := newFixture(t)
	f.fundStandardAsk(big.NewInt(10000))
	makerAsk := f.signedOrder(f.askData())
	makerAsk.Amount = big.NewInt(0)

	codes := NewOrderValidator(f.exchange).ValidateOrder(makerAsk)
	assert.Equal(t, CodeAmountCannotBeZero, codes[1])
}

func TestValidateOrderSignatureCriterion(t *testing.T) {
	f := newFixture(t)
	f.fundStandardAsk(big.NewInt(10000))
	v := NewOrderValidator(f.exchange)

	makerAsk := f.signedOrder(f.askData())
	makerAsk.Signer = common.Address{}
	assert.Equal(t, CodeMakerSignerIsZero, v.ValidateOrder(makerAsk)[2])

	makerAsk = f.signedOrder(f.askData())
	makerAsk.V = 26
	assert.Equal(t, CodeInvalidVParameter, v.ValidateOrder(makerAsk)[2])

	// push s over the half curve order
	makerAsk = f.signedOrder(f.askData())
	n := crypto.S256().Params().N
	flipped := new(big.Int).Sub(n, makerAsk.S.Big())
	makerAsk.S = common.BigToHash(flipped)
	assert.Equal(t, CodeInvalidSParameter, v.ValidateOrder(makerAsk)[2])

	makerAsk = f.signedOrder(f.askData())
	makerAsk.Price = big.NewInt(1) // tamper: recovered address differs
	assert.Equal(t, CodeWrongSigner, v.ValidateOrder(makerAsk)[2])
}

func TestValidateOrderWhitelistCriterion(t *testing.T) {
	f := newFixture(t)
	f.fundStandardAsk(big.NewInt(10000))
	v := NewOrderValidator(f.exchange)

	data := f.askData()
	data.Currency = common.HexToAddress("0x2000000000000000000000000000000000000009")
	assert.Equal(t, CodeCurrencyNotWhitelisted, v.ValidateOrder(f.signedOrder(data))[3])

	data = f.askData()
	data.Strategy = common.HexToAddress("0x3000000000000000000000000000000000000009")
	assert.Equal(t, CodeStrategyNotWhitelisted, v.ValidateOrder(f.signedOrder(data))[3])
}

func TestValidateOrderFeeCriterion(t *testing.T) {
	f := newFixture(t)
	f.fundStandardAsk(big.NewInt(10000))
	v := NewOrderValidator(f.exchange)

	// demands 99% net while the protocol keeps 2%
	data := f.askData()
	data.MinPercentageToAsk = 9900
	assert.Equal(t, CodeMinPercentageToAskTooHigh, v.ValidateOrder(f.signedOrder(data))[4])

	// a royalty set after signing can break a previously valid bound
	data = f.askData()
	data.MinPercentageToAsk = 9800
	makerAsk := f.signedOrder(data)
	assert.Equal(t, CodeOK, v.ValidateOrder(makerAsk)[4])
	require.NoError(t, f.registry.UpdateRoyaltyInfoForCollection(ownerAddr, nftAddr, ownerAddr, common.HexToAddress("0xee"), 250))
	assert.Equal(t, CodeMinPercentageToAskTooHigh, v.ValidateOrder(makerAsk)[4])
}

func TestValidateOrderTimestampCriterion(t *testing.T) {
	f := newFixture(t)
	f.fundStandardAsk(big.NewInt(10000))
	v := NewOrderValidator(f.exchange)

	data := f.askData()
	data.StartTime = f.now + 500
	data.EndTime = f.now + 1000
	assert.Equal(t, CodeTooEarlyToExecute, v.ValidateOrder(f.signedOrder(data))[5])

	data = f.askData()
	makerAsk := f.signedOrder(data)
	f.now += 5000
	assert.Equal(t, CodeTooLateToExecute, v.ValidateOrder(makerAsk)[5])
}

func TestValidateOrderAssetLegCriterion(t *testing.T) {
	f := newFixture(t)
	v := NewOrderValidator(f.exchange)

	// no manager can move an unregistered collection
	data := f.askData()
	data.Collection = common.HexToAddress("0x2000000000000000000000000000000000000099")
	assert.Equal(t, CodeNoTransferManagerAvailable, v.ValidateOrder(f.signedOrder(data))[6])

	// maker does not own the listed token
	f.nft.Mint(f.taker, big.NewInt(0))
	makerAsk := f.signedOrder(f.askData())
	assert.Equal(t, CodeERC721TokenNotOwned, v.ValidateOrder(makerAsk)[6])

	// owned but the exchange lacks operator approval
	f.nft.Mint(f.maker, big.NewInt(1))
	data = f.askData()
	data.TokenID = big.NewInt(1)
	assert.Equal(t, CodeERC721NoApprovalForAll, v.ValidateOrder(f.signedOrder(data))[6])

	f.nft.SetApprovalForAll(f.maker, exchangeAddr, true)
	assert.Equal(t, CodeOK, v.ValidateOrder(f.signedOrder(data))[6])

	// ERC1155: balance below the order amount, then missing approval
	data = f.askData()
	data.Collection = multiAddr
	data.TokenID = big.NewInt(5)
	data.Amount = big.NewInt(10)
	f.multi.Mint(f.maker, big.NewInt(5), big.NewInt(4))
	assert.Equal(t, CodeERC1155BalanceInferior, v.ValidateOrder(f.signedOrder(data))[6])

	f.multi.Mint(f.maker, big.NewInt(5), big.NewInt(6))
	assert.Equal(t, CodeERC1155NoApprovalForAll, v.ValidateOrder(f.signedOrder(data))[6])

	f.multi.SetApprovalForAll(f.maker, exchangeAddr, true)
	assert.Equal(t, CodeOK, v.ValidateOrder(f.signedOrder(data))[6])
}

func TestValidateOrderCurrencyLegCriterion(t *testing.T) {
	f := newFixture(t)
	v := NewOrderValidator(f.exchange)

	// maker bid: the maker pays, so their balance and allowance are checked
	data := f.askData()
	data.IsAsk = false
	makerBid := f.signedOrder(data)
	assert.Equal(t, CodeERC20BalanceInferiorToPrice, v.ValidateOrder(makerBid)[6])

	f.weth.Mint(f.maker, big.NewInt(10000))
	assert.Equal(t, CodeERC20ApprovalInferiorToPrice, v.ValidateOrder(makerBid)[6])

	f.weth.Approve(f.maker, exchangeAddr, big.NewInt(10000))
	assert.Equal(t, CodeOK, v.ValidateOrder(makerBid)[6])

	// a currency address resolving to no ERC20 is a transfer-criterion
	// failure, reported with a 7xx code
	data = f.askData()
	data.IsAsk = false
	data.Currency = common.HexToAddress("0x2000000000000000000000000000000000000088")
	codes := v.ValidateOrder(f.signedOrder(data))
	assert.Equal(t, CodeCurrencyNotResolvable, codes[6])
}
