package pump

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tradeFixture(t *testing.T) (mint, user, creator solana.PublicKey, addrs *TradeAddresses) {
	t.Helper()

	mint = solana.NewWallet().PublicKey()
	user = solana.NewWallet().PublicKey()
	creator = solana.NewWallet().PublicKey()

	addrs, err := DeriveTradeAddresses(mint, user, creator)
	require.NoError(t, err)
	return mint, user, creator, addrs
}

func TestNewBuyInstruction(t *testing.T) {
	mint, user, _, addrs := tradeFixture(t)

	ix, err := NewBuyInstruction(BuyParams{
		Mint:         mint,
		User:         user,
		Addresses:    addrs,
		FeeRecipient: FeeRecipient,
		TokenAmount:  32_258_064_516_129,
		MaxSolCost:   1_050_000_000,
	})
	require.NoError(t, err)
	assert.Equal(t, ProgramID, ix.ProgramID())

	accounts := ix.Accounts()
	require.Len(t, accounts, 12)

	// The order and flags are the wire contract.
	assert.Equal(t, GlobalAccount, accounts[0].PublicKey)
	assert.False(t, accounts[0].IsWritable)
	assert.Equal(t, FeeRecipient, accounts[1].PublicKey)
	assert.True(t, accounts[1].IsWritable)
	assert.Equal(t, mint, accounts[2].PublicKey)
	assert.Equal(t, addrs.BondingCurve, accounts[3].PublicKey)
	assert.Equal(t, addrs.AssociatedBondingCurve, accounts[4].PublicKey)
	assert.Equal(t, addrs.AssociatedUser, accounts[5].PublicKey)
	assert.Equal(t, user, accounts[6].PublicKey)
	assert.True(t, accounts[6].IsSigner)
	assert.True(t, accounts[6].IsWritable)
	assert.Equal(t, solana.SystemProgramID, accounts[7].PublicKey)
	assert.Equal(t, solana.TokenProgramID, accounts[8].PublicKey)
	assert.Equal(t, addrs.CreatorVault, accounts[9].PublicKey)
	assert.True(t, accounts[9].IsWritable)
	assert.Equal(t, EventAuthority, accounts[10].PublicKey)
	assert.Equal(t, ProgramID, accounts[11].PublicKey)

	// Only the user signs.
	for i, acc := range accounts {
		if i == 6 {
			continue
		}
		assert.False(t, acc.IsSigner, "account %d must not be a signer", i)
	}

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 24)
	assert.Equal(t, BuyDiscriminator.Bytes(), data[:8])
	assert.Equal(t, uint64(32_258_064_516_129), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint64(1_050_000_000), binary.LittleEndian.Uint64(data[16:24]))
}

func TestNewSellInstruction(t *testing.T) {
	mint, user, _, addrs := tradeFixture(t)

	ix, err := NewSellInstruction(SellParams{
		Mint:         mint,
		User:         user,
		Addresses:    addrs,
		FeeRecipient: FeeRecipient,
		TokenAmount:  1_000_000_000,
		MinSolOutput: 29_000,
	})
	require.NoError(t, err)

	accounts := ix.Accounts()
	require.Len(t, accounts, 12)

	// Sell swaps the creator vault ahead of the token program.
	assert.Equal(t, solana.SystemProgramID, accounts[7].PublicKey)
	assert.Equal(t, addrs.CreatorVault, accounts[8].PublicKey)
	assert.Equal(t, solana.TokenProgramID, accounts[9].PublicKey)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 24)
	assert.Equal(t, SellDiscriminator.Bytes(), data[:8])
	assert.Equal(t, uint64(1_000_000_000), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint64(29_000), binary.LittleEndian.Uint64(data[16:24]))
}

func TestNewCreateInstruction(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	creator := solana.NewWallet().PublicKey()

	ix, err := NewCreateInstruction(CreateParams{
		Mint:    mint,
		Creator: creator,
		Name:    "Test Token",
		Symbol:  "TEST",
		URI:     "https://ipfs.io/ipfs/QmTest",
	})
	require.NoError(t, err)

	accounts := ix.Accounts()
	require.Len(t, accounts, 14)

	// The mint keypair and the creator both sign.
	assert.Equal(t, mint, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsSigner)
	assert.True(t, accounts[0].IsWritable)
	assert.Equal(t, MintAuthority, accounts[1].PublicKey)
	assert.Equal(t, creator, accounts[7].PublicKey)
	assert.True(t, accounts[7].IsSigner)
	assert.Equal(t, MetadataProgramID, accounts[5].PublicKey)
	assert.Equal(t, solana.SysVarRentPubkey, accounts[11].PublicKey)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, CreateDiscriminator.Bytes(), data[:8])

	// name, symbol, uri are u32-length-prefixed UTF-8, then the raw
	// creator key closes the payload.
	offset := 8
	for _, want := range []string{"Test Token", "TEST", "https://ipfs.io/ipfs/QmTest"} {
		n := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
		offset += 4
		assert.Equal(t, want, string(data[offset:offset+n]))
		offset += n
	}
	assert.Equal(t, creator.Bytes(), data[offset:offset+32])
	assert.Len(t, data, offset+32)
}

func TestNewCreateTokenAccountInstruction(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	ix, err := NewCreateTokenAccountInstruction(payer, owner, mint)
	require.NoError(t, err)
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Empty(t, data)

	accounts := ix.Accounts()
	require.Len(t, accounts, 6)
	assert.Equal(t, payer, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsSigner)

	wantATA, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	assert.Equal(t, wantATA, accounts[1].PublicKey)
}

func TestSchemaRejectsMissingAccount(t *testing.T) {
	_, err := buySchema.metas(map[string]solana.PublicKey{
		"global": GlobalAccount,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing account")
}
