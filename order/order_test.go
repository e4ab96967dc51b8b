package order

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testExchange = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testChainID  = int64(1)
)

func testDomain() *EIP712Domain {
	return NewEIP712Domain(big.NewInt(testChainID), testExchange)
}

func testOrder(signer common.Address) *MakerOrder {
	return &MakerOrder{
		IsAsk:              true,
		Signer:             signer,
		Collection:         common.HexToAddress("0x2000000000000000000000000000000000000002"),
		Price:              big.NewInt(1000000),
		TokenID:            big.NewInt(7),
		Amount:             big.NewInt(1),
		Strategy:           common.HexToAddress("0x3000000000000000000000000000000000000001"),
		Currency:           common.HexToAddress("0x2000000000000000000000000000000000000001"),
		Nonce:              1,
		StartTime:          1000,
		EndTime:            2000,
		MinPercentageToAsk: 8500,
	}
}

func TestMakerOrderHashIgnoresSignature(t *testing.T) {
	m := testOrder(common.HexToAddress("0xabcd"))
	h1 := m.Hash()

	m.V = 27
	m.R = common.HexToHash("0x01")
	m.S = common.HexToHash("0x02")
	assert.Equal(t, h1, m.Hash(), "signature fields must not affect the order hash")
}

func TestMakerOrderHashBindsEveryField(t *testing.T) {
	base := testOrder(common.HexToAddress("0xabcd"))
	h := base.Hash()

	changed := *base
	changed.Price = big.NewInt(999)
	assert.NotEqual(t, h, changed.Hash())

	changed = *base
	changed.Nonce = 2
	assert.NotEqual(t, h, changed.Hash())

	changed = *base
	changed.Params = []byte{0x01}
	assert.NotEqual(t, h, changed.Hash())

	changed = *base
	changed.IsAsk = false
	assert.NotEqual(t, h, changed.Hash())
}

func TestSignAndVerifyEOA(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	m := testOrder(signer)
	require.NoError(t, Sign(m, testDomain(), key))
	assert.Contains(t, []uint8{27, 28}, m.V)

	vf := NewVerifier(testDomain(), nil)
	assert.NoError(t, vf.Verify(m))
}

func TestVerifyRejectsWrongSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	m := testOrder(common.HexToAddress("0xdead"))
	require.NoError(t, Sign(m, testDomain(), key))

	vf := NewVerifier(testDomain(), nil)
	assert.ErrorIs(t, vf.Verify(m), ErrWrongSigner)
}

func TestVerifyRejectsBadV(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	m := testOrder(signer)
	require.NoError(t, Sign(m, testDomain(), key))
	m.V = 29

	vf := NewVerifier(testDomain(), nil)
	assert.ErrorIs(t, vf.Verify(m), ErrInvalidV)
}

func TestVerifyRejectsMalleableS(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	m := testOrder(signer)
	require.NoError(t, Sign(m, testDomain(), key))

	// flip s to its high form: s' = N − s
	n := crypto.S256().Params().N
	highS := new(big.Int).Sub(n, m.S.Big())
	m.S = common.BigToHash(highS)

	vf := NewVerifier(testDomain(), nil)
	assert.ErrorIs(t, vf.Verify(m), ErrMalleableS)
}

func TestVerifyRejectsTamperedOrder(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	m := testOrder(signer)
	require.NoError(t, Sign(m, testDomain(), key))
	m.Price = big.NewInt(1) // tamper after signing

	vf := NewVerifier(testDomain(), nil)
	assert.Error(t, vf.Verify(m))
}

// stubContractSigner accepts exactly one digest.
type stubContractSigner struct {
	accept common.Hash
}

func (s *stubContractSigner) IsValidSignature(digest common.Hash, _ []byte) ([4]byte, error) {
	if digest == s.accept {
		return ERC1271MagicValue, nil
	}
	return [4]byte{}, nil
}

type stubResolver struct {
	signers map[common.Address]ContractSigner
}

func (r *stubResolver) ContractAt(addr common.Address) (ContractSigner, bool) {
	s, ok := r.signers[addr]
	return s, ok
}

func TestVerifyContractAccount(t *testing.T) {
	wallet := common.HexToAddress("0xc0ffee")
	m := testOrder(wallet)

	resolver := &stubResolver{signers: map[common.Address]ContractSigner{
		wallet: &stubContractSigner{accept: m.Digest(testDomain())},
	}}
	vf := NewVerifier(testDomain(), resolver)
	assert.NoError(t, vf.Verify(m))

	// same wallet, different order digest: magic value mismatch
	other := testOrder(wallet)
	other.Nonce = 99
	assert.ErrorIs(t, vf.Verify(other), ErrBadContractSig)
}

func TestVerifyContractAccountNilValidator(t *testing.T) {
	wallet := common.HexToAddress("0xc0ffee")
	resolver := &stubResolver{signers: map[common.Address]ContractSigner{wallet: nil}}

	m := testOrder(wallet)
	vf := NewVerifier(testDomain(), resolver)
	assert.ErrorIs(t, vf.Verify(m), ErrNotContractAccount)
}

func TestBuilderDefaultsAndSigning(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	b, err := NewBuilder(testExchange, testChainID, key)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), b.Signer())

	m, err := b.BuildSigned(&BuilderData{
		IsAsk:      true,
		Collection: common.HexToAddress("0x02"),
		Price:      big.NewInt(100),
		TokenID:    big.NewInt(1),
		Strategy:   common.HexToAddress("0x03"),
		Currency:   common.HexToAddress("0x04"),
		Nonce:      5,
	})
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(1), m.Amount, "amount defaults to 1")
	assert.Greater(t, m.EndTime, m.StartTime)

	vf := NewVerifier(testDomain(), nil)
	assert.NoError(t, vf.Verify(m))
}

func TestBuilderRejectsBadInputs(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	b, err := NewBuilder(testExchange, testChainID, key)
	require.NoError(t, err)

	_, err = b.Build(&BuilderData{
		Collection: common.HexToAddress("0x02"),
		Price:      big.NewInt(0),
		TokenID:    big.NewInt(1),
		Strategy:   common.HexToAddress("0x03"),
	})
	assert.Error(t, err, "zero price")

	_, err = b.Build(&BuilderData{
		Price:    big.NewInt(1),
		TokenID:  big.NewInt(1),
		Strategy: common.HexToAddress("0x03"),
	})
	assert.Error(t, err, "missing collection")
}

func TestMakerOrderValidate(t *testing.T) {
	m := testOrder(common.HexToAddress("0xabcd"))
	assert.NoError(t, m.Validate())

	m.Amount = big.NewInt(0)
	assert.ErrorIs(t, m.Validate(), ErrZeroAmount)

	m = testOrder(common.Address{})
	assert.ErrorIs(t, m.Validate(), ErrMissingSigner)
}
