// Example usage of the NFT exchange engine: wire up the collaborators, sign
// a maker ask off-chain and settle it with a taker bid paid in native plus
// wrapped currency.
package main

import (
	"fmt"
	"log"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"

	nftexchange "github.com/kaifufi/nft-exchange-go"
	"github.com/kaifufi/nft-exchange-go/order"
	"github.com/kaifufi/nft-exchange-go/strategy"
	"github.com/kaifufi/nft-exchange-go/token"
)

func main() {
	var (
		exchangeAddr = common.HexToAddress("0x1000000000000000000000000000000000000001")
		ownerAddr    = common.HexToAddress("0x1000000000000000000000000000000000000002")
		feeRecipient = common.HexToAddress("0x1000000000000000000000000000000000000003")
		wethAddr     = common.HexToAddress("0x2000000000000000000000000000000000000001")
		nftAddr      = common.HexToAddress("0x2000000000000000000000000000000000000002")
		strategyAddr = common.HexToAddress("0x3000000000000000000000000000000000000001")
		chainID      = int64(1)
	)

	// Deploy the in-memory token world.
	tokens := token.NewRegistry()
	bank := token.NewNativeBank()
	weth := token.NewWrappedNative(bank)
	nft := token.NewMemERC721()
	tokens.Register(wethAddr, weth)
	tokens.Register(nftAddr, nft)

	// Collaborators: whitelists, royalties, transfer routing.
	currencies := nftexchange.NewCurrencyManager(ownerAddr)
	if err := currencies.AddCurrency(ownerAddr, wethAddr); err != nil {
		log.Fatalf("failed to whitelist currency: %v", err)
	}

	strategies := nftexchange.NewExecutionManager(ownerAddr)
	if err := strategies.AddStrategy(ownerAddr, strategyAddr, strategy.NewStandardSale(200)); err != nil {
		log.Fatalf("failed to whitelist strategy: %v", err)
	}

	registry, err := nftexchange.NewRoyaltyFeeRegistry(ownerAddr, 9500)
	if err != nil {
		log.Fatalf("failed to create royalty registry: %v", err)
	}
	royalties := nftexchange.NewRoyaltyFeeManager(registry, tokens)

	selector := nftexchange.NewTransferSelector(
		ownerAddr,
		tokens,
		nftexchange.NewERC721TransferManager(exchangeAddr, tokens),
		nftexchange.NewERC1155TransferManager(exchangeAddr, tokens),
	)

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	exchange, err := nftexchange.NewExchange(nftexchange.Config{
		Address:              exchangeAddr,
		Owner:                ownerAddr,
		ChainID:              chainID,
		ProtocolFeeRecipient: feeRecipient,
		WrappedNative:        wethAddr,
		Tokens:               tokens,
		NativeBank:           bank,
		Currencies:           currencies,
		Strategies:           strategies,
		Royalties:            royalties,
		TransferSelector:     selector,
		Logger:               &logger,
	})
	if err != nil {
		log.Fatalf("failed to create exchange: %v", err)
	}

	// Maker signs an ask for tokenId 0 at 3 WETH.
	makerKey, _ := crypto.GenerateKey()
	maker := crypto.PubkeyToAddress(makerKey.PublicKey)
	takerKey, _ := crypto.GenerateKey()
	taker := crypto.PubkeyToAddress(takerKey.PublicKey)

	price, _ := nftexchange.SafeAmountToWei(3.0, 18)
	two, _ := nftexchange.SafeAmountToWei(2.0, 18)
	one, _ := nftexchange.SafeAmountToWei(1.0, 18)

	nft.Mint(maker, big.NewInt(0))
	nft.SetApprovalForAll(maker, exchangeAddr, true)
	bank.Credit(taker, two)
	weth.Mint(taker, one)
	weth.Approve(taker, exchangeAddr, price)

	builder, err := order.NewBuilder(exchangeAddr, chainID, makerKey)
	if err != nil {
		log.Fatalf("failed to create builder: %v", err)
	}
	makerAsk, err := builder.BuildSigned(&order.BuilderData{
		IsAsk:      true,
		Collection: nftAddr,
		Price:      price,
		TokenID:    big.NewInt(0),
		Strategy:   strategyAddr,
		Currency:   wethAddr,
		Nonce:      1,
	})
	if err != nil {
		log.Fatalf("failed to build maker ask: %v", err)
	}

	// Pre-flight diagnostic before submitting.
	validator := nftexchange.NewOrderValidator(exchange)
	fmt.Printf("pre-flight codes: %v\n", validator.ValidateOrder(makerAsk))

	// Taker settles, paying 2 native + 1 wrapped.
	takerBid := &order.TakerOrder{
		Taker:   taker,
		Price:   price,
		TokenID: big.NewInt(0),
	}
	if err := exchange.MatchAskWithTakerBidUsingNativeAndWrapped(taker, two, takerBid, makerAsk); err != nil {
		log.Fatalf("settlement failed: %v", err)
	}

	newOwner, _ := nft.OwnerOf(big.NewInt(0))
	fmt.Printf("token 0 owner:      %s\n", newOwner.Hex())
	fmt.Printf("seller proceeds:    %s\n", weth.BalanceOf(maker))
	fmt.Printf("protocol fee taken: %s\n", weth.BalanceOf(feeRecipient))
	fmt.Printf("nonce 1 consumed:   %v\n", exchange.IsUserOrderNonceExecutedOrCancelled(maker, 1))
}
