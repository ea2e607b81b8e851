package pump

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// PDA derivation for every program-owned account the SDK touches. All
// functions are pure: the same inputs always yield the same address and
// bump. Derivation only fails when no bump yields a valid off-curve
// address, which signals a misconfigured program id rather than a
// retryable condition.

// DeriveGlobal returns the program's global config PDA
func DeriveGlobal() (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(SeedGlobal)},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive global PDA: %w", err)
	}
	return addr, bump, nil
}

// DeriveBondingCurve returns the bonding curve PDA for a mint
func DeriveBondingCurve(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(SeedBondingCurve), mint.Bytes()},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive bonding curve PDA for %s: %w", mint, err)
	}
	return addr, bump, nil
}

// DeriveAssociatedBondingCurve returns the curve's associated token account.
// Seed order is [bondingCurve, tokenProgram, mint] under the associated
// token program, the same derivation FindAssociatedTokenAddress performs
// for a wallet owner.
func DeriveAssociatedBondingCurve(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	bondingCurve, _, err := DeriveBondingCurve(mint)
	if err != nil {
		return solana.PublicKey{}, 0, err
	}

	addr, bump, err := solana.FindProgramAddress(
		[][]byte{
			bondingCurve.Bytes(),
			solana.TokenProgramID.Bytes(),
			mint.Bytes(),
		},
		solana.SPLAssociatedTokenAccountProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive associated bonding curve for %s: %w", mint, err)
	}
	return addr, bump, nil
}

// DeriveCreatorVault returns the vault PDA that accrues the creator's share
// of trade fees. For trades on an existing curve the creator argument must
// be the creator recorded in the curve account, not the trader.
func DeriveCreatorVault(creator solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(SeedCreatorVault), creator.Bytes()},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive creator vault for %s: %w", creator, err)
	}
	return addr, bump, nil
}

// DeriveEventAuthority returns the CPI event authority PDA
func DeriveEventAuthority() (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(SeedEventAuthority)},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive event authority PDA: %w", err)
	}
	return addr, bump, nil
}

// DeriveMintAuthority returns the PDA that signs new token mints
func DeriveMintAuthority() (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(SeedMintAuthority)},
		ProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive mint authority PDA: %w", err)
	}
	return addr, bump, nil
}

// DeriveMetadata returns the Metaplex metadata PDA for a mint. Unlike the
// other PDAs this one is owned by the external metadata program.
func DeriveMetadata(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{
			[]byte(SeedMetadata),
			MetadataProgramID.Bytes(),
			mint.Bytes(),
		},
		MetadataProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive metadata PDA for %s: %w", mint, err)
	}
	return addr, bump, nil
}

// DeriveUserTokenAccount returns the trader's associated token account
func DeriveUserTokenAccount(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive token account for %s: %w", owner, err)
	}
	return addr, nil
}

// TradeAddresses is the derived address set a buy or sell instruction
// consumes. Everything here is recomputed per call, never persisted.
type TradeAddresses struct {
	BondingCurve           solana.PublicKey
	AssociatedBondingCurve solana.PublicKey
	AssociatedUser         solana.PublicKey
	CreatorVault           solana.PublicKey
}

// DeriveTradeAddresses computes the full address set for a trade. The
// creator argument selects the creator vault and must come from the
// decoded curve state for existing curves.
func DeriveTradeAddresses(mint, user, creator solana.PublicKey) (*TradeAddresses, error) {
	bondingCurve, _, err := DeriveBondingCurve(mint)
	if err != nil {
		return nil, err
	}

	associatedBondingCurve, _, err := DeriveAssociatedBondingCurve(mint)
	if err != nil {
		return nil, err
	}

	associatedUser, err := DeriveUserTokenAccount(user, mint)
	if err != nil {
		return nil, err
	}

	creatorVault, _, err := DeriveCreatorVault(creator)
	if err != nil {
		return nil, err
	}

	return &TradeAddresses{
		BondingCurve:           bondingCurve,
		AssociatedBondingCurve: associatedBondingCurve,
		AssociatedUser:         associatedUser,
		CreatorVault:           creatorVault,
	}, nil
}
