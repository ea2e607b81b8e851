package trade

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"

	"pump-sdk-go/pkg/client"
	"pump-sdk-go/pkg/pump"
	"pump-sdk-go/pkg/wallet"
)

// LedgerReader is the read side the orchestrator depends on. Every
// prepare call re-reads current on-chain state; nothing is cached between
// calls, so concurrent trades never act on each other's stale reserves.
type LedgerReader interface {
	GetAccountBuffer(ctx context.Context, address solana.PublicKey, commitment rpc.CommitmentType) ([]byte, error)
	AccountExists(ctx context.Context, address solana.PublicKey, commitment rpc.CommitmentType) (bool, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (solana.Hash, error)
}

// Submitter is the submit side. Signing happens before submission; the
// submitter only transports and confirms.
type Submitter interface {
	Submit(ctx context.Context, tx *solana.Transaction, finality rpc.CommitmentType) (*client.SubmitResult, error)
}

// Config contains orchestrator settings
type Config struct {
	// SlippageBP is the default tolerance applied when a call passes 0
	SlippageBP uint64

	// PriorityFee in micro-lamports per compute unit; 0 disables the
	// price instruction
	PriorityFee uint64

	Commitment rpc.CommitmentType
	Finality   rpc.CommitmentType
}

// Orchestrator assembles buy, sell and create-and-buy transactions. It is
// stateless between calls and safe for concurrent use across tokens; for
// concurrent trades against one curve the slippage bound, not the
// orchestrator, is the correctness mechanism.
type Orchestrator struct {
	reader    LedgerReader
	submitter Submitter
	wallet    *wallet.Wallet
	config    Config
	logger    *logrus.Logger
}

// New creates an orchestrator. The submitter may be nil when only
// Prepare* methods are used.
func New(reader LedgerReader, submitter Submitter, w *wallet.Wallet, cfg Config, logger *logrus.Logger) *Orchestrator {
	if cfg.Commitment == "" {
		cfg.Commitment = rpc.CommitmentConfirmed
	}
	if cfg.Finality == "" {
		cfg.Finality = rpc.CommitmentConfirmed
	}

	return &Orchestrator{
		reader:    reader,
		submitter: submitter,
		wallet:    w,
		config:    cfg,
		logger:    logger,
	}
}

// Prepared is a submission-ready transaction plus its signer set and the
// quote it was built from
type Prepared struct {
	Transaction *solana.Transaction
	Signers     []solana.PublicKey

	// Buy: expected token output and the cost ceiling.
	// Sell: expected net lamport output and the floor.
	ExpectedAmount uint64
	Bound          uint64
}

// LaunchParams describes a token launch
type LaunchParams struct {
	Name   string
	Symbol string
	URI    string

	// InitialBuySol, if non-zero, bundles an immediate buy of that many
	// lamports into the launch transaction
	InitialBuySol uint64
}

func (o *Orchestrator) slippage(toleranceBps uint64) uint64 {
	if toleranceBps == 0 {
		return o.config.SlippageBP
	}
	return toleranceBps
}

// fetchGlobal re-reads and decodes the global config
func (o *Orchestrator) fetchGlobal(ctx context.Context) (*pump.GlobalConfig, error) {
	buf, err := o.reader.GetAccountBuffer(ctx, pump.GlobalAccount, o.config.Commitment)
	if err != nil {
		return nil, fmt.Errorf("global config: %w", err)
	}
	return pump.DecodeGlobalConfig(buf)
}

// fetchCurve re-reads and decodes a token's bonding curve
func (o *Orchestrator) fetchCurve(ctx context.Context, mint solana.PublicKey) (*pump.BondingCurveState, error) {
	bondingCurve, _, err := pump.DeriveBondingCurve(mint)
	if err != nil {
		return nil, err
	}

	buf, err := o.reader.GetAccountBuffer(ctx, bondingCurve, o.config.Commitment)
	if err != nil {
		return nil, fmt.Errorf("bonding curve for %s: %w", mint, err)
	}
	return pump.DecodeBondingCurve(buf)
}

// assemble builds and signs a transaction from an instruction sequence.
// Instruction order is preserved exactly: account-creation instructions
// must precede the trade they provision for.
func (o *Orchestrator) assemble(ctx context.Context, instructions []solana.Instruction, signers ...*wallet.Wallet) (*solana.Transaction, error) {
	blockhash, err := o.reader.GetLatestBlockhash(ctx, o.config.Commitment)
	if err != nil {
		return nil, err
	}

	tx, err := solana.NewTransaction(
		instructions,
		blockhash,
		solana.TransactionPayer(o.wallet.PublicKey()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	if _, err := tx.Sign(wallet.SignerFor(signers...)); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return tx, nil
}

// PrepareBuy builds a signed buy transaction for solIn lamports of the
// given token
func (o *Orchestrator) PrepareBuy(ctx context.Context, mint solana.PublicKey, solIn, toleranceBps uint64) (*Prepared, error) {
	toleranceBps = o.slippage(toleranceBps)

	global, err := o.fetchGlobal(ctx)
	if err != nil {
		return nil, err
	}
	curve, err := o.fetchCurve(ctx, mint)
	if err != nil {
		return nil, err
	}

	tokensOut, err := curve.TokensForSol(solIn)
	if err != nil {
		return nil, err
	}
	if tokensOut > curve.RealTokenReserves {
		return nil, fmt.Errorf("%w: want %d tokens, curve holds %d", pump.ErrSlippageUnsatisfiable, tokensOut, curve.RealTokenReserves)
	}

	maxSolCost, err := pump.BuySlippageBound(solIn, toleranceBps)
	if err != nil {
		return nil, err
	}

	user := o.wallet.PublicKey()
	addrs, err := pump.DeriveTradeAddresses(mint, user, curve.Creator)
	if err != nil {
		return nil, err
	}

	instructions := budgetInstructions(buyComputeUnitLimit, o.config.PriorityFee)

	hasATA, err := o.reader.AccountExists(ctx, addrs.AssociatedUser, o.config.Commitment)
	if err != nil {
		return nil, err
	}
	if !hasATA {
		createATA, err := pump.NewCreateTokenAccountInstruction(user, user, mint)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, createATA)
	}

	buyIx, err := pump.NewBuyInstruction(pump.BuyParams{
		Mint:         mint,
		User:         user,
		Addresses:    addrs,
		FeeRecipient: global.FeeRecipient,
		TokenAmount:  tokensOut,
		MaxSolCost:   maxSolCost,
	})
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, buyIx)

	tx, err := o.assemble(ctx, instructions, o.wallet)
	if err != nil {
		return nil, err
	}

	o.logger.WithFields(logrus.Fields{
		"mint":         mint.String(),
		"sol_in":       solIn,
		"tokens_out":   tokensOut,
		"max_sol_cost": maxSolCost,
	}).Info("Buy transaction prepared")

	return &Prepared{
		Transaction:    tx,
		Signers:        []solana.PublicKey{user},
		ExpectedAmount: tokensOut,
		Bound:          maxSolCost,
	}, nil
}

// PrepareSell builds a signed sell transaction for tokenAmount raw units
func (o *Orchestrator) PrepareSell(ctx context.Context, mint solana.PublicKey, tokenAmount, toleranceBps uint64) (*Prepared, error) {
	if tokenAmount == 0 {
		return nil, fmt.Errorf("sell amount must be positive")
	}
	toleranceBps = o.slippage(toleranceBps)

	global, err := o.fetchGlobal(ctx)
	if err != nil {
		return nil, err
	}
	curve, err := o.fetchCurve(ctx, mint)
	if err != nil {
		return nil, err
	}

	_, netSolOut, err := curve.SolForTokens(tokenAmount, global.FeeBasisPoints)
	if err != nil {
		return nil, err
	}

	minSolOutput, err := pump.SellSlippageBound(netSolOut, toleranceBps)
	if err != nil {
		return nil, err
	}

	user := o.wallet.PublicKey()
	addrs, err := pump.DeriveTradeAddresses(mint, user, curve.Creator)
	if err != nil {
		return nil, err
	}

	// Selling without a token account means there is nothing to sell.
	hasATA, err := o.reader.AccountExists(ctx, addrs.AssociatedUser, o.config.Commitment)
	if err != nil {
		return nil, err
	}
	if !hasATA {
		return nil, fmt.Errorf("%w: token account %s", pump.ErrAccountNotFound, addrs.AssociatedUser)
	}

	instructions := budgetInstructions(sellComputeUnitLimit, o.config.PriorityFee)

	sellIx, err := pump.NewSellInstruction(pump.SellParams{
		Mint:         mint,
		User:         user,
		Addresses:    addrs,
		FeeRecipient: global.FeeRecipient,
		TokenAmount:  tokenAmount,
		MinSolOutput: minSolOutput,
	})
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, sellIx)

	tx, err := o.assemble(ctx, instructions, o.wallet)
	if err != nil {
		return nil, err
	}

	o.logger.WithFields(logrus.Fields{
		"mint":         mint.String(),
		"token_amount": tokenAmount,
		"net_sol_out":  netSolOut,
		"min_sol_out":  minSolOutput,
	}).Info("Sell transaction prepared")

	return &Prepared{
		Transaction:    tx,
		Signers:        []solana.PublicKey{user},
		ExpectedAmount: netSolOut,
		Bound:          minSolOutput,
	}, nil
}

// PrepareCreateAndBuy builds a signed launch transaction: the create
// instruction, then optionally the creator's token account creation and
// an initial buy priced against the global starting reserves. The curve
// account does not exist yet, so the creator vault derives from the
// creator directly rather than from decoded curve state.
func (o *Orchestrator) PrepareCreateAndBuy(ctx context.Context, mintKeypair *wallet.Wallet, params LaunchParams, toleranceBps uint64) (*Prepared, error) {
	toleranceBps = o.slippage(toleranceBps)

	global, err := o.fetchGlobal(ctx)
	if err != nil {
		return nil, err
	}

	creator := o.wallet.PublicKey()
	mint := mintKeypair.PublicKey()

	instructions := budgetInstructions(createComputeUnitLimit, o.config.PriorityFee)

	createIx, err := pump.NewCreateInstruction(pump.CreateParams{
		Mint:    mint,
		Creator: creator,
		Name:    params.Name,
		Symbol:  params.Symbol,
		URI:     params.URI,
	})
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, createIx)

	var tokensOut, maxSolCost uint64
	if params.InitialBuySol > 0 {
		tokensOut = global.InitialTokensForSol(params.InitialBuySol)

		maxSolCost, err = pump.BuySlippageBound(params.InitialBuySol, toleranceBps)
		if err != nil {
			return nil, err
		}

		addrs, err := pump.DeriveTradeAddresses(mint, creator, creator)
		if err != nil {
			return nil, err
		}

		createATA, err := pump.NewCreateTokenAccountInstruction(creator, creator, mint)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, createATA)

		buyIx, err := pump.NewBuyInstruction(pump.BuyParams{
			Mint:         mint,
			User:         creator,
			Addresses:    addrs,
			FeeRecipient: global.FeeRecipient,
			TokenAmount:  tokensOut,
			MaxSolCost:   maxSolCost,
		})
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, buyIx)
	}

	tx, err := o.assemble(ctx, instructions, o.wallet, mintKeypair)
	if err != nil {
		return nil, err
	}

	o.logger.WithFields(logrus.Fields{
		"mint":        mint.String(),
		"symbol":      params.Symbol,
		"initial_buy": params.InitialBuySol,
		"tokens_out":  tokensOut,
	}).Info("Launch transaction prepared")

	return &Prepared{
		Transaction:    tx,
		Signers:        []solana.PublicKey{creator, mint},
		ExpectedAmount: tokensOut,
		Bound:          maxSolCost,
	}, nil
}

// Buy prepares and submits a buy, waiting for the configured finality
func (o *Orchestrator) Buy(ctx context.Context, mint solana.PublicKey, solIn, toleranceBps uint64) (*client.SubmitResult, error) {
	prepared, err := o.PrepareBuy(ctx, mint, solIn, toleranceBps)
	if err != nil {
		return nil, err
	}
	return o.submit(ctx, prepared)
}

// Sell prepares and submits a sell, waiting for the configured finality
func (o *Orchestrator) Sell(ctx context.Context, mint solana.PublicKey, tokenAmount, toleranceBps uint64) (*client.SubmitResult, error) {
	prepared, err := o.PrepareSell(ctx, mint, tokenAmount, toleranceBps)
	if err != nil {
		return nil, err
	}
	return o.submit(ctx, prepared)
}

// CreateAndBuy prepares and submits a token launch
func (o *Orchestrator) CreateAndBuy(ctx context.Context, mintKeypair *wallet.Wallet, params LaunchParams, toleranceBps uint64) (*client.SubmitResult, error) {
	prepared, err := o.PrepareCreateAndBuy(ctx, mintKeypair, params, toleranceBps)
	if err != nil {
		return nil, err
	}
	return o.submit(ctx, prepared)
}

func (o *Orchestrator) submit(ctx context.Context, prepared *Prepared) (*client.SubmitResult, error) {
	if o.submitter == nil {
		return nil, fmt.Errorf("no submitter configured")
	}
	return o.submitter.Submit(ctx, prepared.Transaction, o.config.Finality)
}
