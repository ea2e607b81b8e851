package pump

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"pump-sdk-go/pkg/anchor"
)

// GlobalConfig is the program's singleton configuration account. It is
// fetched fresh on every trade so fee changes are always reflected.
type GlobalConfig struct {
	Initialized                 bool
	Authority                   solana.PublicKey
	FeeRecipient                solana.PublicKey
	InitialVirtualTokenReserves uint64
	InitialVirtualSolReserves   uint64
	InitialRealTokenReserves    uint64
	TokenTotalSupply            uint64
	FeeBasisPoints              uint64
}

// BondingCurveState is the per-token curve account. Read-only to the SDK.
type BondingCurveState struct {
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
	Creator              solana.PublicKey
}

// Field widths in the account wire format
const (
	widthU64    = 8
	widthBool   = 1
	widthPubkey = 32
)

// layoutField names one field of a fixed account layout
type layoutField struct {
	name   string
	offset int
	width  int
}

// accountLayout describes one version of a fixed-offset account layout:
// the expected discriminator, the named fields with their offsets and
// widths, and the minimum buffer size. A program-side layout change is a
// new descriptor, not a hunt for scattered magic offsets.
type accountLayout struct {
	name          string
	discriminator anchor.Discriminator
	fields        map[string]layoutField
	size          int
}

func newAccountLayout(name string, discriminator anchor.Discriminator, fields []layoutField) *accountLayout {
	l := &accountLayout{
		name:          name,
		discriminator: discriminator,
		fields:        make(map[string]layoutField, len(fields)),
		size:          8,
	}
	for _, f := range fields {
		l.fields[f.name] = f
		if end := f.offset + f.width; end > l.size {
			l.size = end
		}
	}
	return l
}

// check rejects buffers that are shorter than the layout or carry the
// wrong discriminator. Either condition is a hard failure: a wrong layout
// must never be partially parsed.
func (l *accountLayout) check(data []byte) error {
	if len(data) < l.size {
		return fmt.Errorf("%w: %s account needs %d bytes, got %d", ErrMalformedAccount, l.name, l.size, len(data))
	}
	if err := anchor.Validate(data, l.discriminator); err != nil {
		return fmt.Errorf("%w: %s account: %v", ErrMalformedAccount, l.name, err)
	}
	return nil
}

func (l *accountLayout) field(name string, width int) layoutField {
	f, ok := l.fields[name]
	if !ok || f.width != width {
		panic(fmt.Sprintf("layout %s has no %d-byte field %q", l.name, width, name))
	}
	return f
}

func (l *accountLayout) u64(data []byte, name string) uint64 {
	f := l.field(name, widthU64)
	return binary.LittleEndian.Uint64(data[f.offset : f.offset+widthU64])
}

func (l *accountLayout) boolean(data []byte, name string) bool {
	f := l.field(name, widthBool)
	return data[f.offset] != 0
}

func (l *accountLayout) pubkey(data []byte, name string) solana.PublicKey {
	f := l.field(name, widthPubkey)
	return solana.PublicKeyFromBytes(data[f.offset : f.offset+widthPubkey])
}

// Current account layouts. Offsets follow the deployed program: an 8-byte
// discriminator, then fields packed in declaration order.
var (
	globalLayout = newAccountLayout("Global", GlobalDiscriminator, []layoutField{
		{"initialized", 8, widthBool},
		{"authority", 9, widthPubkey},
		{"feeRecipient", 41, widthPubkey},
		{"initialVirtualTokenReserves", 73, widthU64},
		{"initialVirtualSolReserves", 81, widthU64},
		{"initialRealTokenReserves", 89, widthU64},
		{"tokenTotalSupply", 97, widthU64},
		{"feeBasisPoints", 105, widthU64},
	})

	bondingCurveLayout = newAccountLayout("BondingCurve", BondingCurveDiscriminator, []layoutField{
		{"virtualTokenReserves", 8, widthU64},
		{"virtualSolReserves", 16, widthU64},
		{"realTokenReserves", 24, widthU64},
		{"realSolReserves", 32, widthU64},
		{"tokenTotalSupply", 40, widthU64},
		{"complete", 48, widthBool},
		{"creator", 49, widthPubkey},
	})
)

// DecodeGlobalConfig decodes the global config account buffer
func DecodeGlobalConfig(data []byte) (*GlobalConfig, error) {
	if err := globalLayout.check(data); err != nil {
		return nil, err
	}

	return &GlobalConfig{
		Initialized:                 globalLayout.boolean(data, "initialized"),
		Authority:                   globalLayout.pubkey(data, "authority"),
		FeeRecipient:                globalLayout.pubkey(data, "feeRecipient"),
		InitialVirtualTokenReserves: globalLayout.u64(data, "initialVirtualTokenReserves"),
		InitialVirtualSolReserves:   globalLayout.u64(data, "initialVirtualSolReserves"),
		InitialRealTokenReserves:    globalLayout.u64(data, "initialRealTokenReserves"),
		TokenTotalSupply:            globalLayout.u64(data, "tokenTotalSupply"),
		FeeBasisPoints:              globalLayout.u64(data, "feeBasisPoints"),
	}, nil
}

// DecodeBondingCurve decodes a bonding curve account buffer
func DecodeBondingCurve(data []byte) (*BondingCurveState, error) {
	if err := bondingCurveLayout.check(data); err != nil {
		return nil, err
	}

	return &BondingCurveState{
		VirtualTokenReserves: bondingCurveLayout.u64(data, "virtualTokenReserves"),
		VirtualSolReserves:   bondingCurveLayout.u64(data, "virtualSolReserves"),
		RealTokenReserves:    bondingCurveLayout.u64(data, "realTokenReserves"),
		RealSolReserves:      bondingCurveLayout.u64(data, "realSolReserves"),
		TokenTotalSupply:     bondingCurveLayout.u64(data, "tokenTotalSupply"),
		Complete:             bondingCurveLayout.boolean(data, "complete"),
		Creator:              bondingCurveLayout.pubkey(data, "creator"),
	}, nil
}
