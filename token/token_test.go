package token

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice    = common.HexToAddress("0xa1")
	bob      = common.HexToAddress("0xb0")
	operator = common.HexToAddress("0x0e")
)

func TestMemERC20TransferFrom(t *testing.T) {
	c := NewMemERC20()
	c.Mint(alice, big.NewInt(100))

	// no allowance
	err := c.TransferFrom(operator, alice, bob, big.NewInt(50))
	assert.ErrorIs(t, err, ErrInsufficientAllowance)

	c.Approve(alice, operator, big.NewInt(60))
	require.NoError(t, c.TransferFrom(operator, alice, bob, big.NewInt(50)))
	assert.Equal(t, big.NewInt(50), c.BalanceOf(alice))
	assert.Equal(t, big.NewInt(50), c.BalanceOf(bob))
	assert.Equal(t, big.NewInt(10), c.Allowance(alice, operator))

	// allowance exhausted
	err = c.TransferFrom(operator, alice, bob, big.NewInt(20))
	assert.ErrorIs(t, err, ErrInsufficientAllowance)

	// self transfer needs no allowance
	require.NoError(t, c.TransferFrom(alice, alice, bob, big.NewInt(10)))

	// balance exhausted
	err = c.TransferFrom(alice, alice, bob, big.NewInt(1000))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestMemERC721Transfer(t *testing.T) {
	c := NewMemERC721()
	c.Mint(alice, big.NewInt(7))

	owner, err := c.OwnerOf(big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, alice, owner)

	err = c.SafeTransferFrom(operator, alice, bob, big.NewInt(7))
	assert.ErrorIs(t, err, ErrNotApproved)

	c.SetApprovalForAll(alice, operator, true)
	require.NoError(t, c.SafeTransferFrom(operator, alice, bob, big.NewInt(7)))

	owner, err = c.OwnerOf(big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, bob, owner)

	err = c.SafeTransferFrom(operator, alice, bob, big.NewInt(7))
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = c.OwnerOf(big.NewInt(8))
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestMemERC721Royalty(t *testing.T) {
	c := NewMemERC721()
	_, _, ok := c.RoyaltyFor(big.NewInt(1), big.NewInt(10000))
	assert.False(t, ok)

	c.SetRoyalty(bob, 250)
	rcv, amount, ok := c.RoyaltyFor(big.NewInt(1), big.NewInt(10000))
	assert.True(t, ok)
	assert.Equal(t, bob, rcv)
	assert.Equal(t, big.NewInt(250), amount)
}

func TestMemERC1155Transfer(t *testing.T) {
	c := NewMemERC1155()
	c.Mint(alice, big.NewInt(7), big.NewInt(10))

	c.SetApprovalForAll(alice, operator, true)
	require.NoError(t, c.SafeTransferFrom(operator, alice, bob, big.NewInt(7), big.NewInt(4)))
	assert.Equal(t, big.NewInt(6), c.BalanceOf(alice, big.NewInt(7)))
	assert.Equal(t, big.NewInt(4), c.BalanceOf(bob, big.NewInt(7)))

	err := c.SafeTransferFrom(operator, alice, bob, big.NewInt(7), big.NewInt(100))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestWrappedNativeDepositWithdraw(t *testing.T) {
	bank := NewNativeBank()
	w := NewWrappedNative(bank)

	bank.Credit(alice, big.NewInt(100))
	require.NoError(t, w.Deposit(alice, big.NewInt(60)))
	assert.Equal(t, big.NewInt(40), bank.BalanceOf(alice))
	assert.Equal(t, big.NewInt(60), w.BalanceOf(alice))

	err := w.Deposit(alice, big.NewInt(50))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	require.NoError(t, w.Withdraw(alice, big.NewInt(10)))
	assert.Equal(t, big.NewInt(50), bank.BalanceOf(alice))
	assert.Equal(t, big.NewInt(50), w.BalanceOf(alice))
}
