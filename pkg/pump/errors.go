package pump

import (
	"errors"
	"fmt"
)

// Error taxonomy for trade construction. Callers match with errors.Is;
// every public operation fails with exactly one of these or succeeds.
var (
	// ErrAccountNotFound means a required on-chain account (bonding curve,
	// global config, token account) does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrMalformedAccount means an account buffer was too short or carried
	// the wrong discriminator. Indicates a program/layout version mismatch.
	ErrMalformedAccount = errors.New("malformed account data")

	// ErrCurveCompleted means the bonding curve has graduated and no longer
	// accepts trades through this program.
	ErrCurveCompleted = errors.New("bonding curve is complete")

	// ErrSlippageUnsatisfiable means no valid slippage bound exists for the
	// requested trade, e.g. the requested output exceeds curve reserves.
	ErrSlippageUnsatisfiable = errors.New("slippage bound unsatisfiable")

	// ErrExternalService means a metadata upload or ledger call failed.
	// The wrapped detail carries enough context for the caller to retry.
	ErrExternalService = errors.New("external service error")
)

// ExternalServiceError wraps ErrExternalService with the failing service
// name and, for HTTP services, the status code and response body.
type ExternalServiceError struct {
	Service    string
	StatusCode int
	Body       string
	Err        error
}

func (e *ExternalServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Service, e.StatusCode, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Service, e.Err)
	}
	return e.Service
}

func (e *ExternalServiceError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrExternalService
}

// Is lets errors.Is(err, ErrExternalService) match regardless of the
// wrapped transport error.
func (e *ExternalServiceError) Is(target error) bool {
	return target == ErrExternalService
}
