package wallet

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestFromBase58RoundTrip(t *testing.T) {
	original, err := NewMintKeypair()
	require.NoError(t, err)

	loaded, err := FromBase58(original.ExportBase58(), testLogger())
	require.NoError(t, err)
	assert.Equal(t, original.PublicKey(), loaded.PublicKey())
}

func TestFromBase58Invalid(t *testing.T) {
	_, err := FromBase58("", testLogger())
	assert.Error(t, err)

	_, err = FromBase58("not-a-key", testLogger())
	assert.Error(t, err)
}

func TestFromMnemonicDeterministic(t *testing.T) {
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	a, err := FromMnemonic(mnemonic, "", testLogger())
	require.NoError(t, err)
	b, err := FromMnemonic(mnemonic, "", testLogger())
	require.NoError(t, err)
	assert.Equal(t, a.PublicKey(), b.PublicKey())

	// A passphrase selects a different key.
	c, err := FromMnemonic(mnemonic, "hunter2", testLogger())
	require.NoError(t, err)
	assert.NotEqual(t, a.PublicKey(), c.PublicKey())
}

func TestFromMnemonicInvalid(t *testing.T) {
	_, err := FromMnemonic("definitely not twelve valid words", "", testLogger())
	assert.Error(t, err)
}

func TestTokenAccountDeterministic(t *testing.T) {
	w, err := NewMintKeypair()
	require.NoError(t, err)
	mint, err := NewMintKeypair()
	require.NoError(t, err)

	first, err := w.TokenAccount(mint.PublicKey())
	require.NoError(t, err)
	second, err := w.TokenAccount(mint.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSignerFor(t *testing.T) {
	user, err := NewMintKeypair()
	require.NoError(t, err)
	mint, err := NewMintKeypair()
	require.NoError(t, err)
	stranger, err := NewMintKeypair()
	require.NoError(t, err)

	signer := SignerFor(user, mint)

	assert.NotNil(t, signer(user.PublicKey()))
	assert.NotNil(t, signer(mint.PublicKey()))
	assert.Nil(t, signer(stranger.PublicKey()))
}
