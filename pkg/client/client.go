package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"

	"pump-sdk-go/pkg/pump"
)

// Client wraps the Solana RPC surface the SDK needs: account reads at a
// chosen commitment, transaction submission, and confirmation polling.
// The trade layer never retries; everything retryable lives here.
type Client struct {
	rpc    *rpc.Client
	logger *logrus.Logger
	config Config
}

// Config contains client configuration
type Config struct {
	RPCEndpoint    string
	APIKey         string
	ConfirmTimeout time.Duration
}

// SubmitResult is the outcome of a confirmed submission
type SubmitResult struct {
	Signature     solana.Signature
	ConfirmedSlot uint64
}

// New creates a new RPC client
func New(cfg Config, logger *logrus.Logger) *Client {
	if cfg.ConfirmTimeout == 0 {
		cfg.ConfirmTimeout = 30 * time.Second
	}

	var rpcClient *rpc.Client
	if cfg.APIKey != "" {
		rpcClient = rpc.NewWithHeaders(cfg.RPCEndpoint, map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
		})
	} else {
		rpcClient = rpc.New(cfg.RPCEndpoint)
	}

	return &Client{
		rpc:    rpcClient,
		logger: logger,
		config: cfg,
	}
}

// Commitment maps a config string to an RPC commitment level
func Commitment(level string) rpc.CommitmentType {
	switch level {
	case "processed":
		return rpc.CommitmentProcessed
	case "finalized":
		return rpc.CommitmentFinalized
	default:
		return rpc.CommitmentConfirmed
	}
}

// GetAccountBuffer fetches the raw data of an account at the given
// commitment. A missing account is pump.ErrAccountNotFound; transport
// failures surface as pump.ErrExternalService.
func (c *Client) GetAccountBuffer(ctx context.Context, address solana.PublicKey, commitment rpc.CommitmentType) ([]byte, error) {
	result, err := c.rpc.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Commitment: commitment,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", pump.ErrAccountNotFound, address)
		}
		return nil, &pump.ExternalServiceError{Service: "rpc getAccountInfo", Err: err}
	}
	if result == nil || result.Value == nil || result.Value.Data == nil {
		return nil, fmt.Errorf("%w: %s", pump.ErrAccountNotFound, address)
	}

	return result.Value.Data.GetBinary(), nil
}

// AccountExists reports whether an account exists at the given commitment
func (c *Client) AccountExists(ctx context.Context, address solana.PublicKey, commitment rpc.CommitmentType) (bool, error) {
	_, err := c.GetAccountBuffer(ctx, address, commitment)
	if err != nil {
		if errors.Is(err, pump.ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetLatestBlockhash returns a recent blockhash for transaction assembly
func (c *Client) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (solana.Hash, error) {
	result, err := c.rpc.GetLatestBlockhash(ctx, commitment)
	if err != nil {
		return solana.Hash{}, &pump.ExternalServiceError{Service: "rpc getLatestBlockhash", Err: err}
	}
	return result.Value.Blockhash, nil
}

// GetBalance returns an account's lamport balance
func (c *Client) GetBalance(ctx context.Context, address solana.PublicKey, commitment rpc.CommitmentType) (uint64, error) {
	result, err := c.rpc.GetBalance(ctx, address, commitment)
	if err != nil {
		return 0, &pump.ExternalServiceError{Service: "rpc getBalance", Err: err}
	}
	return result.Value, nil
}

// GetTokenBalance returns a token account's raw unit balance
func (c *Client) GetTokenBalance(ctx context.Context, tokenAccount solana.PublicKey, commitment rpc.CommitmentType) (uint64, error) {
	result, err := c.rpc.GetTokenAccountBalance(ctx, tokenAccount, commitment)
	if err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("%w: token account %s", pump.ErrAccountNotFound, tokenAccount)
		}
		return 0, &pump.ExternalServiceError{Service: "rpc getTokenAccountBalance", Err: err}
	}
	if result == nil || result.Value == nil {
		return 0, fmt.Errorf("%w: token account %s", pump.ErrAccountNotFound, tokenAccount)
	}

	amount, err := strconv.ParseUint(result.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token amount %q: %w", result.Value.Amount, err)
	}
	return amount, nil
}

// Submit sends a signed transaction and waits for it to reach the given
// finality level, returning the signature and confirmed slot.
func (c *Client) Submit(ctx context.Context, tx *solana.Transaction, finality rpc.CommitmentType) (*SubmitResult, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, &pump.ExternalServiceError{Service: "rpc sendTransaction", Err: err}
	}

	c.logger.WithField("signature", sig.String()).Info("Transaction sent")

	slot, err := c.WaitForConfirmation(ctx, sig, finality)
	if err != nil {
		return nil, fmt.Errorf("transaction %s sent but confirmation failed: %w", sig, err)
	}

	return &SubmitResult{Signature: sig, ConfirmedSlot: slot}, nil
}

// WaitForConfirmation polls signature status with exponential backoff
// until the transaction reaches the given finality level, returning the
// slot it landed in. An on-chain failure stops the polling immediately.
func (c *Client) WaitForConfirmation(ctx context.Context, sig solana.Signature, finality rpc.CommitmentType) (uint64, error) {
	operation := func() (uint64, error) {
		out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return 0, err
		}
		if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
			return 0, fmt.Errorf("transaction %s not yet processed", sig)
		}

		status := out.Value[0]
		if status.Err != nil {
			return 0, backoff.Permanent(fmt.Errorf("transaction %s failed on chain: %v", sig, status.Err))
		}
		if !reached(status.ConfirmationStatus, finality) {
			return 0, fmt.Errorf("transaction %s at %s, waiting for %s", sig, status.ConfirmationStatus, finality)
		}
		return status.Slot, nil
	}

	slot, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(c.config.ConfirmTimeout),
	)
	if err != nil {
		return 0, &pump.ExternalServiceError{Service: "rpc confirmation", Err: err}
	}

	c.logger.WithFields(logrus.Fields{
		"signature": sig.String(),
		"slot":      slot,
	}).Info("Transaction confirmed")

	return slot, nil
}

// reached reports whether a confirmation status satisfies the requested
// finality level
func reached(status rpc.ConfirmationStatusType, finality rpc.CommitmentType) bool {
	switch finality {
	case rpc.CommitmentFinalized:
		return status == rpc.ConfirmationStatusFinalized
	case rpc.CommitmentProcessed:
		return status != ""
	default:
		return status == rpc.ConfirmationStatusConfirmed || status == rpc.ConfirmationStatusFinalized
	}
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found")
}
