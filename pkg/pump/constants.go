package pump

import (
	"github.com/gagliardetto/solana-go"

	"pump-sdk-go/pkg/anchor"
)

// pump.fun program addresses (mainnet)
var (
	// ProgramID is the pump.fun bonding curve program
	ProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

	// GlobalAccount is the program's global config PDA
	GlobalAccount = solana.MustPublicKeyFromBase58("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf")

	// FeeRecipient receives protocol fees
	FeeRecipient = solana.MustPublicKeyFromBase58("CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM")

	// EventAuthority is the CPI event authority PDA
	EventAuthority = solana.MustPublicKeyFromBase58("Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1")

	// MintAuthority signs new token mints on the create path
	MintAuthority = solana.MustPublicKeyFromBase58("TSLvdd1pWpHVjahSpsvCXUbgwsL3JAcvokwaKt1eokM")

	// MetadataProgramID is the Metaplex token metadata program
	MetadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
)

// PDA seeds
const (
	SeedGlobal         = "global"
	SeedBondingCurve   = "bonding-curve"
	SeedCreatorVault   = "creator-vault"
	SeedMintAuthority  = "mint-authority"
	SeedEventAuthority = "__event_authority"
	SeedMetadata       = "metadata"
)

const LamportsPerSol = 1_000_000_000

// TokenDecimals is the mint decimals every curve token is created with
const TokenDecimals = 6

// Instruction discriminators
var (
	CreateDiscriminator = anchor.InstructionDiscriminator("create")
	BuyDiscriminator    = anchor.InstructionDiscriminator("buy")
	SellDiscriminator   = anchor.InstructionDiscriminator("sell")
)

// Account discriminators
var (
	GlobalDiscriminator       = anchor.AccountDiscriminator("Global")
	BondingCurveDiscriminator = anchor.AccountDiscriminator("BondingCurve")
)

// Event discriminators
var (
	CreateEventDiscriminator    = anchor.EventDiscriminator("CreateEvent")
	TradeEventDiscriminator     = anchor.EventDiscriminator("TradeEvent")
	CompleteEventDiscriminator  = anchor.EventDiscriminator("CompleteEvent")
	SetParamsEventDiscriminator = anchor.EventDiscriminator("SetParamsEvent")
)

// Published discriminator values from the program IDL, as hex. The derived
// values above are checked against these once at package init so a silent
// drift in the derivation shows up immediately rather than as an opaque
// on-chain rejection.
var publishedDiscriminators = map[string]anchor.Discriminator{
	"181ec828051c0777": CreateDiscriminator,
	"66063d1201daebea": BuyDiscriminator,
	"33e685a4017f83ad": SellDiscriminator,
}

func init() {
	for hex, derived := range publishedDiscriminators {
		pinned, err := anchor.FromHex(hex)
		if err != nil {
			panic("invalid pinned discriminator " + hex + ": " + err.Error())
		}
		if pinned != derived {
			panic("instruction discriminator drift: derived " + derived.String() + ", published " + hex)
		}
	}
}
