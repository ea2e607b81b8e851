package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pump-sdk-go/internal/config"
	"pump-sdk-go/internal/logger"
	"pump-sdk-go/pkg/client"
	"pump-sdk-go/pkg/metadata"
	"pump-sdk-go/pkg/pump"
	"pump-sdk-go/pkg/trade"
	"pump-sdk-go/pkg/wallet"
)

const Version = "0.3.0"

// CLI flags
var (
	configFile = flag.String("config", "", "Path to YAML config file")
	network    = flag.String("network", "", "Network to use (mainnet/devnet)")
	logLevel   = flag.String("log-level", "", "Log level (debug/info/warn/error)")

	mintFlag    = flag.String("mint", "", "Token mint address")
	solAmount   = flag.Float64("sol", 0.01, "Amount of SOL to spend")
	tokenAmount = flag.Float64("tokens", 0, "Amount of tokens to sell")
	slippageBP  = flag.Uint64("slippage", 0, "Slippage tolerance in basis points (0 = config default)")
	timeoutSec  = flag.Int("timeout", 60, "Operation timeout in seconds")

	// Launch flags
	tokenName   = flag.String("name", "", "Token name")
	tokenSymbol = flag.String("symbol", "", "Token symbol")
	tokenDesc   = flag.String("description", "", "Token description")
	imagePath   = flag.String("image", "", "Path to token image")
	metadataURI = flag.String("uri", "", "Metadata URI (skips the upload step)")
	initialBuy  = flag.Float64("initial-buy", 0, "SOL to spend on the launch buy")
)

func usage() {
	fmt.Fprintf(os.Stderr, `pump v%s - pump.fun bonding curve SDK

Usage: pump [flags] <command>

Commands:
  buy      Buy tokens with SOL (-mint, -sol)
  sell     Sell tokens for SOL (-mint, -tokens)
  launch   Create a token, optionally with an initial buy
  quote    Show curve state and spot price (-mint)
  watch    Stream program events until interrupted

Flags:
`, Version)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	app := newApp(cfg, log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeoutSec)*time.Second)
	defer cancel()

	switch flag.Arg(0) {
	case "buy":
		err = app.buy(ctx)
	case "sell":
		err = app.sell(ctx)
	case "launch":
		err = app.launch(ctx)
	case "quote":
		err = app.quote(ctx)
	case "watch":
		err = app.watch()
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.WithError(err).Fatal("Command failed")
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}

	if *network != "" {
		cfg.Network = *network
		cfg.RPCUrl = config.RPCEndpoint(cfg.Network)
		cfg.WSUrl = config.WSEndpoint(cfg.Network)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// App wires the SDK components behind the CLI commands
type App struct {
	config *config.Config
	logger *logrus.Logger
	client *client.Client
}

func newApp(cfg *config.Config, log *logrus.Logger) *App {
	rpcClient := client.New(client.Config{
		RPCEndpoint:    cfg.RPCUrl,
		ConfirmTimeout: time.Duration(cfg.Trading.ConfirmTimeoutSec) * time.Second,
	}, log)

	return &App{
		config: cfg,
		logger: log,
		client: rpcClient,
	}
}

// orchestrator builds a trading orchestrator for the configured wallet.
// Commands that only read chain state never call this, so they work
// without a private key.
func (a *App) orchestrator() (*trade.Orchestrator, error) {
	w, err := wallet.FromBase58(a.config.PrivateKey, a.logger)
	if err != nil {
		return nil, fmt.Errorf("wallet: %w", err)
	}

	return trade.New(a.client, a.client, w, trade.Config{
		SlippageBP:  a.config.Trading.SlippageBP,
		PriorityFee: a.config.Trading.PriorityFee,
		Commitment:  client.Commitment(a.config.Trading.Commitment),
		Finality:    client.Commitment(a.config.Trading.Finality),
	}, a.logger), nil
}

func parseMint() (solana.PublicKey, error) {
	if *mintFlag == "" {
		return solana.PublicKey{}, fmt.Errorf("-mint is required")
	}
	return solana.PublicKeyFromBase58(*mintFlag)
}

func (a *App) buy(ctx context.Context) error {
	mint, err := parseMint()
	if err != nil {
		return err
	}
	if *solAmount <= 0 {
		return fmt.Errorf("-sol must be positive")
	}

	orch, err := a.orchestrator()
	if err != nil {
		return err
	}

	lamports := pump.LamportsFromSol(decimal.NewFromFloat(*solAmount))
	result, err := orch.Buy(ctx, mint, lamports, *slippageBP)
	if err != nil {
		return err
	}

	a.logger.WithFields(logrus.Fields{
		"signature": result.Signature.String(),
		"slot":      result.ConfirmedSlot,
	}).Info("Buy confirmed")
	return nil
}

func (a *App) sell(ctx context.Context) error {
	mint, err := parseMint()
	if err != nil {
		return err
	}
	if *tokenAmount <= 0 {
		return fmt.Errorf("-tokens must be positive")
	}

	orch, err := a.orchestrator()
	if err != nil {
		return err
	}

	raw := uint64(decimal.NewFromFloat(*tokenAmount).Mul(decimal.New(1, pump.TokenDecimals)).IntPart())
	result, err := orch.Sell(ctx, mint, raw, *slippageBP)
	if err != nil {
		return err
	}

	a.logger.WithFields(logrus.Fields{
		"signature": result.Signature.String(),
		"slot":      result.ConfirmedSlot,
	}).Info("Sell confirmed")
	return nil
}

func (a *App) launch(ctx context.Context) error {
	if *tokenName == "" || *tokenSymbol == "" {
		return fmt.Errorf("-name and -symbol are required")
	}

	orch, err := a.orchestrator()
	if err != nil {
		return err
	}

	uri := *metadataURI
	if uri == "" {
		uri, err = a.uploadMetadata(ctx)
		if err != nil {
			return err
		}
	}

	mintKeypair, err := wallet.NewMintKeypair()
	if err != nil {
		return err
	}

	a.logger.WithFields(logrus.Fields{
		"mint":   mintKeypair.PublicKey().String(),
		"symbol": *tokenSymbol,
	}).Info("Launching token")

	result, err := orch.CreateAndBuy(ctx, mintKeypair, trade.LaunchParams{
		Name:          *tokenName,
		Symbol:        *tokenSymbol,
		URI:           uri,
		InitialBuySol: pump.LamportsFromSol(decimal.NewFromFloat(*initialBuy)),
	}, *slippageBP)
	if err != nil {
		return err
	}

	a.logger.WithFields(logrus.Fields{
		"mint":      mintKeypair.PublicKey().String(),
		"signature": result.Signature.String(),
		"slot":      result.ConfirmedSlot,
	}).Info("Launch confirmed")
	return nil
}

func (a *App) uploadMetadata(ctx context.Context) (string, error) {
	if *imagePath == "" {
		return "", fmt.Errorf("-image or -uri is required")
	}

	image, err := os.ReadFile(*imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	uploader := metadata.NewUploader(metadata.Config{
		Endpoint: a.config.Metadata.Endpoint,
		Timeout:  time.Duration(a.config.Metadata.TimeoutSec) * time.Second,
	}, a.logger)

	return uploader.Upload(ctx, metadata.TokenMetadata{
		Name:        *tokenName,
		Symbol:      *tokenSymbol,
		Description: *tokenDesc,
		ShowName:    true,
	}, image, filepath.Base(*imagePath))
}

func (a *App) quote(ctx context.Context) error {
	mint, err := parseMint()
	if err != nil {
		return err
	}

	bondingCurve, _, err := pump.DeriveBondingCurve(mint)
	if err != nil {
		return err
	}

	commitment := client.Commitment(a.config.Trading.Commitment)
	buf, err := a.client.GetAccountBuffer(ctx, bondingCurve, commitment)
	if err != nil {
		return err
	}
	curve, err := pump.DecodeBondingCurve(buf)
	if err != nil {
		return err
	}

	fmt.Printf("Mint:            %s\n", mint)
	fmt.Printf("Bonding curve:   %s\n", bondingCurve)
	fmt.Printf("Creator:         %s\n", curve.Creator)
	fmt.Printf("Price:           %s SOL\n", curve.PriceInSol().StringFixed(12))
	fmt.Printf("Market cap:      %s SOL\n", curve.MarketCapInSol().StringFixed(4))
	fmt.Printf("Real reserves:   %s tokens / %s SOL\n",
		pump.TokensFromRaw(curve.RealTokenReserves), pump.SolFromLamports(curve.RealSolReserves))
	fmt.Printf("Complete:        %t\n", curve.Complete)
	return nil
}

func (a *App) watch() error {
	stream := client.NewEventStream(client.StreamConfig{
		WSEndpoint: a.config.WSUrl,
		Commitment: a.config.Trading.Commitment,
	}, a.logger)

	if err := stream.Start(); err != nil {
		return err
	}
	defer stream.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Watching program events, Ctrl-C to stop")

	for {
		select {
		case sig := <-sigChan:
			a.logger.WithField("signal", sig.String()).Info("Shutting down")
			return nil

		case event, ok := <-stream.Events():
			if !ok {
				return fmt.Errorf("event stream closed")
			}
			a.printEvent(event)
		}
	}
}

func (a *App) printEvent(event *pump.Event) {
	switch event.Kind {
	case pump.EventTokenCreated:
		a.logger.WithFields(logrus.Fields{
			"mint":   event.Create.Mint.String(),
			"name":   event.Create.Name,
			"symbol": event.Create.Symbol,
			"slot":   event.Slot,
		}).Info("Token created")

	case pump.EventTradeExecuted:
		side := "sell"
		if event.Trade.IsBuy {
			side = "buy"
		}
		a.logger.WithFields(logrus.Fields{
			"mint":   event.Trade.Mint.String(),
			"side":   side,
			"sol":    pump.SolFromLamports(event.Trade.SolAmount).StringFixed(6),
			"tokens": pump.TokensFromRaw(event.Trade.TokenAmount).StringFixed(2),
			"slot":   event.Slot,
		}).Info("Trade")

	case pump.EventCurveCompleted:
		a.logger.WithFields(logrus.Fields{
			"mint": event.Complete.Mint.String(),
			"slot": event.Slot,
		}).Info("Curve completed")

	case pump.EventParamsChanged:
		a.logger.WithFields(logrus.Fields{
			"fee_recipient": event.SetParams.FeeRecipient.String(),
			"slot":          event.Slot,
		}).Info("Global params changed")
	}
}
