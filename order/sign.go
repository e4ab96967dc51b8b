package order

import (
	"bytes"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signature verification errors
var (
	ErrInvalidV           = errors.New("signature v must be 27 or 28")
	ErrMalleableS         = errors.New("signature s exceeds half curve order")
	ErrNullSigner         = errors.New("recovered signer is the zero address")
	ErrWrongSigner        = errors.New("recovered signer does not match order signer")
	ErrBadContractSig     = errors.New("contract signature validation failed")
	ErrNotContractAccount = errors.New("signer has no contract validator")
)

// ERC1271MagicValue is the 4-byte return value a contract account must produce
// from IsValidSignature to accept a digest. bytes4(keccak256("isValidSignature(bytes32,bytes)"))
var ERC1271MagicValue = [4]byte{0x16, 0x26, 0xba, 0x7e}

// ContractSigner is the delegated signature validation callback implemented by
// contract accounts (ERC1271). Implementations must return ERC1271MagicValue
// to accept the digest; any other value or an error rejects it.
type ContractSigner interface {
	IsValidSignature(digest common.Hash, signature []byte) ([4]byte, error)
}

// ContractResolver reports whether an address is a deployed contract account
// and, if so, hands back its signature validator.
type ContractResolver interface {
	ContractAt(addr common.Address) (ContractSigner, bool)
}

// secp256k1HalfN is half the secp256k1 curve order. Signatures with s above
// this bound are malleable and rejected.
var secp256k1HalfN = new(big.Int).Rsh(crypto.S256().Params().N, 1)

// Verifier checks maker order signatures against a domain. EOA signers go
// through ECDSA recovery; contract accounts are dispatched to their ERC1271
// validator.
type Verifier struct {
	domain    *EIP712Domain
	contracts ContractResolver
}

// NewVerifier creates a Verifier. contracts may be nil, in which case every
// signer is treated as an externally owned account.
func NewVerifier(domain *EIP712Domain, contracts ContractResolver) *Verifier {
	return &Verifier{domain: domain, contracts: contracts}
}

// Domain returns the verifier's EIP712 domain.
func (vf *Verifier) Domain() *EIP712Domain {
	return vf.domain
}

// Verify checks the maker order's signature. For contract-account signers the
// packed r||s||v payload is forwarded to the account's validator and the
// ERC1271 magic value is required; absence of a validator for a registered
// contract account fails closed.
func (vf *Verifier) Verify(m *MakerOrder) error {
	digest := m.Digest(vf.domain)

	if vf.contracts != nil {
		if validator, ok := vf.contracts.ContractAt(m.Signer); ok {
			return verifyContract(validator, digest, m.Signature())
		}
	}
	return verifyEOA(digest, m)
}

func verifyEOA(digest common.Hash, m *MakerOrder) error {
	if m.V != 27 && m.V != 28 {
		return ErrInvalidV
	}
	if m.S.Big().Cmp(secp256k1HalfN) > 0 {
		return ErrMalleableS
	}

	sig := m.Signature()
	sig[64] -= 27 // go-ethereum expects recovery id 0/1

	pub, err := crypto.SigToPub(digest.Bytes(), sig)
	if err != nil {
		return fmt.Errorf("ecrecover failed: %w", err)
	}

	recovered := crypto.PubkeyToAddress(*pub)
	if recovered == (common.Address{}) {
		return ErrNullSigner
	}
	if recovered != m.Signer {
		return ErrWrongSigner
	}
	return nil
}

func verifyContract(validator ContractSigner, digest common.Hash, sig []byte) error {
	if validator == nil {
		return ErrNotContractAccount
	}
	magic, err := validator.IsValidSignature(digest, sig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadContractSig, err)
	}
	if !bytes.Equal(magic[:], ERC1271MagicValue[:]) {
		return ErrBadContractSig
	}
	return nil
}

// Sign computes the EIP712 digest of the order under domain and fills in the
// order's V, R, S fields using the given key.
func Sign(m *MakerOrder, domain *EIP712Domain, key *ecdsa.PrivateKey) error {
	digest := m.Digest(domain)

	sig, err := crypto.Sign(digest.Bytes(), key)
	if err != nil {
		return fmt.Errorf("failed to sign order: %w", err)
	}

	m.R = common.BytesToHash(sig[:32])
	m.S = common.BytesToHash(sig[32:64])
	m.V = sig[64] + 27
	return nil
}
