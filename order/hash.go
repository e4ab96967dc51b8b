package order

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// EIP712 domain constants for the exchange
const (
	EIP712DomainName    = "KaifuFi NFT Exchange"
	EIP712DomainVersion = "1"
)

// Pre-computed type hashes using keccak256
var (
	// EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)
	EIP712DomainTypeHash = crypto.Keccak256Hash([]byte(
		"EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)",
	))

	// MakerOrder(bool isOrderAsk,address signer,address collection,uint256 price,uint256 tokenId,uint256 amount,address strategy,address currency,uint256 nonce,uint256 startTime,uint256 endTime,uint256 minPercentageToAsk,bytes params)
	MakerOrderTypeHash = crypto.Keccak256Hash([]byte(
		"MakerOrder(bool isOrderAsk,address signer,address collection,uint256 price,uint256 tokenId,uint256 amount,address strategy,address currency,uint256 nonce,uint256 startTime,uint256 endTime,uint256 minPercentageToAsk,bytes params)",
	))
)

// EIP712Domain represents the EIP712 domain separator data
type EIP712Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// NewEIP712Domain creates a new EIP712Domain with the standard values
func NewEIP712Domain(chainID *big.Int, verifyingContract common.Address) *EIP712Domain {
	return &EIP712Domain{
		Name:              EIP712DomainName,
		Version:           EIP712DomainVersion,
		ChainID:           chainID,
		VerifyingContract: verifyingContract,
	}
}

// Hash computes the EIP712 domain separator hash
func (d *EIP712Domain) Hash() common.Hash {
	nameHash := crypto.Keccak256Hash([]byte(d.Name))
	versionHash := crypto.Keccak256Hash([]byte(d.Version))

	bytes32Type, _ := abi.NewType("bytes32", "", nil)
	uint256Type, _ := abi.NewType("uint256", "", nil)
	addressType, _ := abi.NewType("address", "", nil)

	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: bytes32Type}, // nameHash
		{Type: bytes32Type}, // versionHash
		{Type: uint256Type}, // chainId
		{Type: addressType}, // verifyingContract
	}

	encoded, err := arguments.Pack(
		EIP712DomainTypeHash,
		nameHash,
		versionHash,
		d.ChainID,
		d.VerifyingContract,
	)
	if err != nil {
		panic("failed to encode domain separator: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// Hash computes the EIP712 struct hash of the maker order. The signature
// fields do not participate; the params blob is folded in as keccak256(params)
// per the EIP712 rule for dynamic bytes.
func (m *MakerOrder) Hash() common.Hash {
	bytes32Type, _ := abi.NewType("bytes32", "", nil)
	boolType, _ := abi.NewType("bool", "", nil)
	addressType, _ := abi.NewType("address", "", nil)
	uint256Type, _ := abi.NewType("uint256", "", nil)

	arguments := abi.Arguments{
		{Type: bytes32Type}, // typeHash
		{Type: boolType},    // isOrderAsk
		{Type: addressType}, // signer
		{Type: addressType}, // collection
		{Type: uint256Type}, // price
		{Type: uint256Type}, // tokenId
		{Type: uint256Type}, // amount
		{Type: addressType}, // strategy
		{Type: addressType}, // currency
		{Type: uint256Type}, // nonce
		{Type: uint256Type}, // startTime
		{Type: uint256Type}, // endTime
		{Type: uint256Type}, // minPercentageToAsk
		{Type: bytes32Type}, // keccak256(params)
	}

	encoded, err := arguments.Pack(
		MakerOrderTypeHash,
		m.IsAsk,
		m.Signer,
		m.Collection,
		m.Price,
		m.TokenID,
		m.Amount,
		m.Strategy,
		m.Currency,
		new(big.Int).SetUint64(m.Nonce),
		big.NewInt(m.StartTime),
		big.NewInt(m.EndTime),
		new(big.Int).SetUint64(m.MinPercentageToAsk),
		crypto.Keccak256Hash(m.Params),
	)
	if err != nil {
		panic("failed to encode maker order struct: " + err.Error())
	}

	return crypto.Keccak256Hash(encoded)
}

// Digest creates the final EIP712 hash to be signed:
// keccak256("\x19\x01" ++ domainSeparator ++ structHash)
func (m *MakerOrder) Digest(domain *EIP712Domain) common.Hash {
	domainSeparator := domain.Hash()
	structHash := m.Hash()

	prefix := []byte{0x19, 0x01}

	data := make([]byte, 0, 2+32+32)
	data = append(data, prefix...)
	data = append(data, domainSeparator.Bytes()...)
	data = append(data, structHash.Bytes()...)

	return crypto.Keccak256Hash(data)
}
