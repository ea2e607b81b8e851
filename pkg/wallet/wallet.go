package wallet

import (
	"crypto/ed25519"
	"fmt"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
	bip39 "github.com/tyler-smith/go-bip39"
)

// Wallet holds a signing keypair. It only manages keys; balances and
// submission go through the client.
type Wallet struct {
	account types.Account
	logger  *logrus.Logger
}

// FromBase58 loads a wallet from a base58-encoded 64-byte private key
func FromBase58(privateKey string, logger *logrus.Logger) (*Wallet, error) {
	if privateKey == "" {
		return nil, fmt.Errorf("private key is required")
	}

	account, err := types.AccountFromBase58(privateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	w := &Wallet{account: account, logger: logger}
	logger.WithField("public_key", w.PublicKey().String()).Info("Wallet loaded")
	return w, nil
}

// FromMnemonic derives a wallet from a BIP39 seed phrase. Solana keygen
// takes the ed25519 key directly from the first 32 bytes of the seed.
func FromMnemonic(mnemonic, passphrase string, logger *logrus.Logger) (*Wallet, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}

	seed := bip39.NewSeed(mnemonic, passphrase)
	account, err := types.AccountFromSeed(seed[:ed25519.SeedSize])
	if err != nil {
		return nil, fmt.Errorf("failed to derive account from seed: %w", err)
	}

	w := &Wallet{account: account, logger: logger}
	logger.WithField("public_key", w.PublicKey().String()).Info("Wallet derived from mnemonic")
	return w, nil
}

// NewMintKeypair generates a fresh keypair for a token mint
func NewMintKeypair() (*Wallet, error) {
	account := types.NewAccount()
	return &Wallet{account: account, logger: logrus.StandardLogger()}, nil
}

// PublicKey returns the wallet's public key
func (w *Wallet) PublicKey() solana.PublicKey {
	return solana.PublicKeyFromBytes(w.account.PublicKey.Bytes())
}

// PrivateKey returns the signing key in the form the transaction signer
// expects
func (w *Wallet) PrivateKey() solana.PrivateKey {
	return solana.PrivateKey(w.account.PrivateKey)
}

// ExportBase58 returns the 64-byte private key as base58
func (w *Wallet) ExportBase58() string {
	return base58.Encode(w.account.PrivateKey)
}

// TokenAccount returns the wallet's associated token account for a mint.
// Pure derivation, no RPC call.
func (w *Wallet) TokenAccount(mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(w.PublicKey(), mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive token account: %w", err)
	}
	return ata, nil
}

// SignerFor returns a signing callback covering this wallet plus any
// extra keypairs (the mint on a create), in the shape
// solana.Transaction.Sign expects.
func SignerFor(wallets ...*Wallet) func(key solana.PublicKey) *solana.PrivateKey {
	return func(key solana.PublicKey) *solana.PrivateKey {
		for _, w := range wallets {
			if w.PublicKey().Equals(key) {
				priv := w.PrivateKey()
				return &priv
			}
		}
		return nil
	}
}
