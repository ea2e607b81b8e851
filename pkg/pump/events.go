package pump

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"pump-sdk-go/pkg/anchor"
)

// Program events, decoded from "Program data:" log lines. The union is
// closed: four variants, each selected by the 8-byte discriminator at the
// head of the payload and decoded by exactly one function.

// ErrUnknownEvent marks a payload whose discriminator matches no known
// variant. Streams skip these; they are other programs' events sharing
// the transaction.
var ErrUnknownEvent = errors.New("unknown event discriminator")

// programDataPrefix starts every log line that carries an event payload
const programDataPrefix = "Program data: "

// EventKind tags the variants of the event union
type EventKind uint8

const (
	EventTokenCreated EventKind = iota + 1
	EventTradeExecuted
	EventCurveCompleted
	EventParamsChanged
)

func (k EventKind) String() string {
	switch k {
	case EventTokenCreated:
		return "token_created"
	case EventTradeExecuted:
		return "trade_executed"
	case EventCurveCompleted:
		return "curve_completed"
	case EventParamsChanged:
		return "params_changed"
	default:
		return "unknown"
	}
}

// CreateEvent is emitted when a new token and curve are created
type CreateEvent struct {
	Name         string
	Symbol       string
	URI          string
	Mint         solana.PublicKey
	BondingCurve solana.PublicKey
	User         solana.PublicKey
	Creator      solana.PublicKey
}

// TradeEvent is emitted on every buy and sell, carrying the reserves
// after the trade
type TradeEvent struct {
	Mint                 solana.PublicKey
	SolAmount            uint64
	TokenAmount          uint64
	IsBuy                bool
	User                 solana.PublicKey
	Timestamp            int64
	VirtualSolReserves   uint64
	VirtualTokenReserves uint64
}

// CompleteEvent is emitted when a curve graduates
type CompleteEvent struct {
	User         solana.PublicKey
	Mint         solana.PublicKey
	BondingCurve solana.PublicKey
	Timestamp    int64
}

// SetParamsEvent is emitted when the program authority changes the global
// curve parameters
type SetParamsEvent struct {
	FeeRecipient                solana.PublicKey
	InitialVirtualTokenReserves uint64
	InitialVirtualSolReserves   uint64
	InitialRealTokenReserves    uint64
	TokenTotalSupply            uint64
	FeeBasisPoints              uint64
}

// Event is one decoded program event. Exactly one variant pointer is
// non-nil, matching Kind. Slot and Signature come from the enclosing
// log notification.
type Event struct {
	Kind      EventKind
	Slot      uint64
	Signature solana.Signature

	Create    *CreateEvent
	Trade     *TradeEvent
	Complete  *CompleteEvent
	SetParams *SetParamsEvent
}

// DecodeEvent decodes a raw event payload into the tagged union
func DecodeEvent(data []byte) (*Event, error) {
	tag, err := anchor.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("event payload: %w", err)
	}

	decoder := bin.NewBorshDecoder(data[8:])

	switch tag {
	case CreateEventDiscriminator:
		ev := new(CreateEvent)
		if err := decoder.Decode(ev); err != nil {
			return nil, fmt.Errorf("failed to decode create event: %w", err)
		}
		return &Event{Kind: EventTokenCreated, Create: ev}, nil

	case TradeEventDiscriminator:
		ev := new(TradeEvent)
		if err := decoder.Decode(ev); err != nil {
			return nil, fmt.Errorf("failed to decode trade event: %w", err)
		}
		return &Event{Kind: EventTradeExecuted, Trade: ev}, nil

	case CompleteEventDiscriminator:
		ev := new(CompleteEvent)
		if err := decoder.Decode(ev); err != nil {
			return nil, fmt.Errorf("failed to decode complete event: %w", err)
		}
		return &Event{Kind: EventCurveCompleted, Complete: ev}, nil

	case SetParamsEventDiscriminator:
		ev := new(SetParamsEvent)
		if err := decoder.Decode(ev); err != nil {
			return nil, fmt.Errorf("failed to decode set params event: %w", err)
		}
		return &Event{Kind: EventParamsChanged, SetParams: ev}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, tag)
	}
}

// decodeDataString decodes a log payload string. The RPC emits base64;
// base58 shows up in older validator versions.
func decodeDataString(s string) ([]byte, error) {
	if raw, err := base64.StdEncoding.DecodeString(s); err == nil {
		return raw, nil
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("log payload is neither base64 nor base58: %w", err)
	}
	return raw, nil
}

// ParseEventLogs extracts and decodes every known event from a
// transaction's log lines, tagging each with the slot and signature.
// Unknown discriminators and undecodable payloads are skipped; this is a
// shared log stream, not a private channel.
func ParseEventLogs(logs []string, slot uint64, signature solana.Signature) []*Event {
	var events []*Event
	for _, line := range logs {
		payload, ok := strings.CutPrefix(line, programDataPrefix)
		if !ok {
			continue
		}

		raw, err := decodeDataString(payload)
		if err != nil {
			continue
		}

		ev, err := DecodeEvent(raw)
		if err != nil {
			continue
		}

		ev.Slot = slot
		ev.Signature = signature
		events = append(events, ev)
	}
	return events
}
