package pump

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeBondingCurve(t *testing.T, state *BondingCurveState) []byte {
	t.Helper()

	buf := make([]byte, 81)
	copy(buf[:8], BondingCurveDiscriminator.Bytes())
	binary.LittleEndian.PutUint64(buf[8:16], state.VirtualTokenReserves)
	binary.LittleEndian.PutUint64(buf[16:24], state.VirtualSolReserves)
	binary.LittleEndian.PutUint64(buf[24:32], state.RealTokenReserves)
	binary.LittleEndian.PutUint64(buf[32:40], state.RealSolReserves)
	binary.LittleEndian.PutUint64(buf[40:48], state.TokenTotalSupply)
	if state.Complete {
		buf[48] = 1
	}
	copy(buf[49:81], state.Creator.Bytes())
	return buf
}

func encodeGlobalConfig(t *testing.T, cfg *GlobalConfig) []byte {
	t.Helper()

	buf := make([]byte, 113)
	copy(buf[:8], GlobalDiscriminator.Bytes())
	if cfg.Initialized {
		buf[8] = 1
	}
	copy(buf[9:41], cfg.Authority.Bytes())
	copy(buf[41:73], cfg.FeeRecipient.Bytes())
	binary.LittleEndian.PutUint64(buf[73:81], cfg.InitialVirtualTokenReserves)
	binary.LittleEndian.PutUint64(buf[81:89], cfg.InitialVirtualSolReserves)
	binary.LittleEndian.PutUint64(buf[89:97], cfg.InitialRealTokenReserves)
	binary.LittleEndian.PutUint64(buf[97:105], cfg.TokenTotalSupply)
	binary.LittleEndian.PutUint64(buf[105:113], cfg.FeeBasisPoints)
	return buf
}

func TestDecodeBondingCurve(t *testing.T) {
	creator := solana.NewWallet().PublicKey()
	want := &BondingCurveState{
		VirtualTokenReserves: 1_073_000_000_000_000,
		VirtualSolReserves:   30_000_000_000,
		RealTokenReserves:    793_100_000_000_000,
		RealSolReserves:      12_345,
		TokenTotalSupply:     1_000_000_000_000_000,
		Complete:             false,
		Creator:              creator,
	}

	got, err := DecodeBondingCurve(encodeBondingCurve(t, want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeBondingCurveComplete(t *testing.T) {
	want := &BondingCurveState{Complete: true, Creator: solana.NewWallet().PublicKey()}

	got, err := DecodeBondingCurve(encodeBondingCurve(t, want))
	require.NoError(t, err)
	assert.True(t, got.Complete)
}

func TestDecodeBondingCurveTooShort(t *testing.T) {
	full := encodeBondingCurve(t, &BondingCurveState{Creator: solana.NewWallet().PublicKey()})

	for _, n := range []int{0, 7, 8, 48, 80} {
		_, err := DecodeBondingCurve(full[:n])
		assert.ErrorIs(t, err, ErrMalformedAccount, "length %d must be rejected", n)
	}
}

func TestDecodeBondingCurveWrongDiscriminator(t *testing.T) {
	buf := encodeBondingCurve(t, &BondingCurveState{})
	copy(buf[:8], GlobalDiscriminator.Bytes())

	_, err := DecodeBondingCurve(buf)
	assert.ErrorIs(t, err, ErrMalformedAccount)
}

func TestDecodeGlobalConfig(t *testing.T) {
	want := &GlobalConfig{
		Initialized:                 true,
		Authority:                   solana.NewWallet().PublicKey(),
		FeeRecipient:                FeeRecipient,
		InitialVirtualTokenReserves: 1_073_000_000_000_000,
		InitialVirtualSolReserves:   30_000_000_000,
		InitialRealTokenReserves:    793_100_000_000_000,
		TokenTotalSupply:            1_000_000_000_000_000,
		FeeBasisPoints:              100,
	}

	got, err := DecodeGlobalConfig(encodeGlobalConfig(t, want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeGlobalConfigTooShort(t *testing.T) {
	full := encodeGlobalConfig(t, &GlobalConfig{})

	_, err := DecodeGlobalConfig(full[:112])
	assert.ErrorIs(t, err, ErrMalformedAccount)
}

func TestDecodeGlobalConfigWrongDiscriminator(t *testing.T) {
	buf := encodeGlobalConfig(t, &GlobalConfig{})
	copy(buf[:8], BondingCurveDiscriminator.Bytes())

	_, err := DecodeGlobalConfig(buf)
	assert.ErrorIs(t, err, ErrMalformedAccount)
}

func TestCreatorOffset(t *testing.T) {
	// The creator field sits directly after five u64s and the complete
	// flag, at byte 49.
	f := bondingCurveLayout.fields["creator"]
	assert.Equal(t, 49, f.offset)
	assert.Equal(t, widthPubkey, f.width)
	assert.Equal(t, 81, bondingCurveLayout.size)
}
