package pump

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"pump-sdk-go/pkg/anchor"
)

// Instruction building. The account order and signer/writable flags per
// operation are a wire contract with the program: reordering a slot or
// flipping a flag gets the transaction rejected at runtime. Each operation
// is described by a declarative ordered schema so the contract lives in
// one table instead of scattered meta literals.

// accountSlot is one named position in an instruction's account list
type accountSlot struct {
	name     string
	signer   bool
	writable bool
}

// instructionSchema pins the wire contract for one operation
type instructionSchema struct {
	name          string
	discriminator anchor.Discriminator
	slots         []accountSlot
}

// metas resolves the schema against a name -> address map, preserving slot
// order. Every slot must resolve; a missing account means the caller
// skipped a derivation step.
func (s *instructionSchema) metas(addrs map[string]solana.PublicKey) ([]*solana.AccountMeta, error) {
	metas := make([]*solana.AccountMeta, 0, len(s.slots))
	for _, slot := range s.slots {
		addr, ok := addrs[slot.name]
		if !ok || addr.IsZero() {
			return nil, fmt.Errorf("%s instruction: missing account %q", s.name, slot.name)
		}
		metas = append(metas, &solana.AccountMeta{
			PublicKey:  addr,
			IsSigner:   slot.signer,
			IsWritable: slot.writable,
		})
	}
	return metas, nil
}

var buySchema = &instructionSchema{
	name:          "buy",
	discriminator: BuyDiscriminator,
	slots: []accountSlot{
		{"global", false, false},
		{"feeRecipient", false, true},
		{"mint", false, false},
		{"bondingCurve", false, true},
		{"associatedBondingCurve", false, true},
		{"associatedUser", false, true},
		{"user", true, true},
		{"systemProgram", false, false},
		{"tokenProgram", false, false},
		{"creatorVault", false, true},
		{"eventAuthority", false, false},
		{"program", false, false},
	},
}

var sellSchema = &instructionSchema{
	name:          "sell",
	discriminator: SellDiscriminator,
	slots: []accountSlot{
		{"global", false, false},
		{"feeRecipient", false, true},
		{"mint", false, false},
		{"bondingCurve", false, true},
		{"associatedBondingCurve", false, true},
		{"associatedUser", false, true},
		{"user", true, true},
		{"systemProgram", false, false},
		{"creatorVault", false, true},
		{"tokenProgram", false, false},
		{"eventAuthority", false, false},
		{"program", false, false},
	},
}

var createSchema = &instructionSchema{
	name:          "create",
	discriminator: CreateDiscriminator,
	slots: []accountSlot{
		{"mint", true, true},
		{"mintAuthority", false, false},
		{"bondingCurve", false, true},
		{"associatedBondingCurve", false, true},
		{"global", false, false},
		{"metadataProgram", false, false},
		{"metadata", false, true},
		{"user", true, true},
		{"systemProgram", false, false},
		{"tokenProgram", false, false},
		{"associatedTokenProgram", false, false},
		{"rent", false, false},
		{"eventAuthority", false, false},
		{"program", false, false},
	},
}

// appendU64 appends a little-endian u64 to instruction data
func appendU64(data []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(data, buf[:]...)
}

// appendString appends a u32-length-prefixed UTF-8 string
func appendString(data []byte, s string) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(len(s)))
	data = append(data, buf[:]...)
	return append(data, s...)
}

// BuyParams carries everything a buy instruction encodes
type BuyParams struct {
	Mint solana.PublicKey
	User solana.PublicKey

	// CreatorVault must be derived from the curve's recorded creator,
	// never the trader.
	Addresses *TradeAddresses

	// FeeRecipient from the freshly decoded global config
	FeeRecipient solana.PublicKey

	// TokenAmount is the expected token output, MaxSolCost the slippage
	// cost ceiling.
	TokenAmount uint64
	MaxSolCost  uint64
}

// NewBuyInstruction builds a buy instruction
func NewBuyInstruction(p BuyParams) (solana.Instruction, error) {
	metas, err := buySchema.metas(map[string]solana.PublicKey{
		"global":                 GlobalAccount,
		"feeRecipient":           p.FeeRecipient,
		"mint":                   p.Mint,
		"bondingCurve":           p.Addresses.BondingCurve,
		"associatedBondingCurve": p.Addresses.AssociatedBondingCurve,
		"associatedUser":         p.Addresses.AssociatedUser,
		"user":                   p.User,
		"systemProgram":          solana.SystemProgramID,
		"tokenProgram":           solana.TokenProgramID,
		"creatorVault":           p.Addresses.CreatorVault,
		"eventAuthority":         EventAuthority,
		"program":                ProgramID,
	})
	if err != nil {
		return nil, err
	}

	data := append([]byte{}, buySchema.discriminator.Bytes()...)
	data = appendU64(data, p.TokenAmount)
	data = appendU64(data, p.MaxSolCost)

	return solana.NewInstruction(ProgramID, metas, data), nil
}

// SellParams carries everything a sell instruction encodes
type SellParams struct {
	Mint      solana.PublicKey
	User      solana.PublicKey
	Addresses *TradeAddresses

	FeeRecipient solana.PublicKey

	// TokenAmount is the token input, MinSolOutput the slippage floor.
	TokenAmount  uint64
	MinSolOutput uint64
}

// NewSellInstruction builds a sell instruction
func NewSellInstruction(p SellParams) (solana.Instruction, error) {
	metas, err := sellSchema.metas(map[string]solana.PublicKey{
		"global":                 GlobalAccount,
		"feeRecipient":           p.FeeRecipient,
		"mint":                   p.Mint,
		"bondingCurve":           p.Addresses.BondingCurve,
		"associatedBondingCurve": p.Addresses.AssociatedBondingCurve,
		"associatedUser":         p.Addresses.AssociatedUser,
		"user":                   p.User,
		"systemProgram":          solana.SystemProgramID,
		"creatorVault":           p.Addresses.CreatorVault,
		"tokenProgram":           solana.TokenProgramID,
		"eventAuthority":         EventAuthority,
		"program":                ProgramID,
	})
	if err != nil {
		return nil, err
	}

	data := append([]byte{}, sellSchema.discriminator.Bytes()...)
	data = appendU64(data, p.TokenAmount)
	data = appendU64(data, p.MinSolOutput)

	return solana.NewInstruction(ProgramID, metas, data), nil
}

// CreateParams carries everything a create instruction encodes. Creator is
// both a transaction signer and the address embedded in the instruction
// body.
type CreateParams struct {
	Mint    solana.PublicKey
	Creator solana.PublicKey

	Name   string
	Symbol string
	URI    string
}

// NewCreateInstruction builds a create instruction for a new token launch
func NewCreateInstruction(p CreateParams) (solana.Instruction, error) {
	bondingCurve, _, err := DeriveBondingCurve(p.Mint)
	if err != nil {
		return nil, err
	}
	associatedBondingCurve, _, err := DeriveAssociatedBondingCurve(p.Mint)
	if err != nil {
		return nil, err
	}
	metadata, _, err := DeriveMetadata(p.Mint)
	if err != nil {
		return nil, err
	}

	metas, err := createSchema.metas(map[string]solana.PublicKey{
		"mint":                   p.Mint,
		"mintAuthority":          MintAuthority,
		"bondingCurve":           bondingCurve,
		"associatedBondingCurve": associatedBondingCurve,
		"global":                 GlobalAccount,
		"metadataProgram":        MetadataProgramID,
		"metadata":               metadata,
		"user":                   p.Creator,
		"systemProgram":          solana.SystemProgramID,
		"tokenProgram":           solana.TokenProgramID,
		"associatedTokenProgram": solana.SPLAssociatedTokenAccountProgramID,
		"rent":                   solana.SysVarRentPubkey,
		"eventAuthority":         EventAuthority,
		"program":                ProgramID,
	})
	if err != nil {
		return nil, err
	}

	data := append([]byte{}, createSchema.discriminator.Bytes()...)
	data = appendString(data, p.Name)
	data = appendString(data, p.Symbol)
	data = appendString(data, p.URI)
	data = append(data, p.Creator.Bytes()...)

	return solana.NewInstruction(ProgramID, metas, data), nil
}

// NewCreateTokenAccountInstruction builds an associated token account
// creation instruction. The associated token program takes no data; the
// account list alone describes the creation.
func NewCreateTokenAccountInstruction(payer, owner, mint solana.PublicKey) (solana.Instruction, error) {
	ata, err := DeriveUserTokenAccount(owner, mint)
	if err != nil {
		return nil, err
	}

	metas := []*solana.AccountMeta{
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: ata, IsSigner: false, IsWritable: true},
		{PublicKey: owner, IsSigner: false, IsWritable: false},
		{PublicKey: mint, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(solana.SPLAssociatedTokenAccountProgramID, metas, []byte{}), nil
}
