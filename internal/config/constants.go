package config

// Solana network endpoints
const (
	SolanaMainnetRPC = "https://api.mainnet-beta.solana.com"
	SolanaDevnetRPC  = "https://api.devnet.solana.com"

	SolanaMainnetWS = "wss://api.mainnet-beta.solana.com"
	SolanaDevnetWS  = "wss://api.devnet.solana.com"
)

// Metadata upload endpoint
const PumpIPFSEndpoint = "https://pump.fun/api/ipfs"

// Defaults
const (
	DefaultSlippageBP = 500 // 5%

	DefaultCommitment = "confirmed"
	DefaultFinality   = "confirmed"

	DefaultConfirmTimeoutSec = 30
)

// RPCEndpoint returns the RPC endpoint for a network name
func RPCEndpoint(network string) string {
	switch network {
	case "devnet":
		return SolanaDevnetRPC
	default:
		return SolanaMainnetRPC
	}
}

// WSEndpoint returns the websocket endpoint for a network name
func WSEndpoint(network string) string {
	switch network {
	case "devnet":
		return SolanaDevnetWS
	default:
		return SolanaMainnetWS
	}
}
