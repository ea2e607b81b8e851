package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"pump-sdk-go/pkg/pump"
)

// EventStream subscribes to the program's transaction logs over websocket
// and delivers decoded events on a channel. Connection drops are healed
// with exponential backoff and the subscription is re-established; a full
// delivery channel drops the event and counts it rather than stalling the
// read loop.
type EventStream struct {
	config StreamConfig
	logger *logrus.Logger

	events chan *pump.Event
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	conn    *websocket.Conn
	dropped uint64
}

// StreamConfig contains event stream configuration
type StreamConfig struct {
	WSEndpoint string
	Commitment string
	BufferSize int
}

// jsonrpc request/response framing for the logs subscription
type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type wsMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int            `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type logsNotification struct {
	Subscription int `json:"subscription"`
	Result       struct {
		Context struct {
			Slot uint64 `json:"slot"`
		} `json:"context"`
		Value struct {
			Signature string      `json:"signature"`
			Err       interface{} `json:"err"`
			Logs      []string    `json:"logs"`
		} `json:"value"`
	} `json:"result"`
}

// NewEventStream creates an event stream. Call Start to connect.
func NewEventStream(cfg StreamConfig, logger *logrus.Logger) *EventStream {
	if cfg.Commitment == "" {
		cfg.Commitment = "confirmed"
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 256
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &EventStream{
		config: cfg,
		logger: logger,
		events: make(chan *pump.Event, cfg.BufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Events returns the delivery channel. It is closed when the stream stops.
func (s *EventStream) Events() <-chan *pump.Event {
	return s.events
}

// Dropped returns how many events were discarded because the delivery
// channel was full
func (s *EventStream) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Start connects, subscribes to program logs and begins delivering events
func (s *EventStream) Start() error {
	if err := s.connect(); err != nil {
		return err
	}

	go s.run()
	return nil
}

// Close stops the stream and closes the delivery channel
func (s *EventStream) Close() error {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

func (s *EventStream) connect() error {
	s.logger.WithField("url", s.config.WSEndpoint).Info("🔌 Connecting to log stream")

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, resp, err := dialer.DialContext(s.ctx, s.config.WSEndpoint, nil)
	if err != nil {
		if resp != nil {
			s.logger.WithFields(logrus.Fields{
				"status": resp.Status,
				"url":    s.config.WSEndpoint,
			}).Error("❌ Websocket connection failed")
		}
		return &pump.ExternalServiceError{Service: "ws connect", Err: err}
	}

	conn.SetReadLimit(1 << 20)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	})

	if err := s.subscribe(conn); err != nil {
		conn.Close()
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	s.logger.Info("✅ Log stream connected")
	return nil
}

func (s *EventStream) subscribe(conn *websocket.Conn) error {
	req := wsRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "logsSubscribe",
		Params: []interface{}{
			map[string]interface{}{
				"mentions": []string{pump.ProgramID.String()},
			},
			map[string]interface{}{
				"commitment": s.config.Commitment,
			},
		},
	}

	if err := conn.WriteJSON(req); err != nil {
		return &pump.ExternalServiceError{Service: "ws subscribe", Err: err}
	}
	return nil
}

// run reads notifications until the stream is closed, reconnecting on
// failure
func (s *EventStream) run() {
	defer close(s.events)

	for {
		if s.ctx.Err() != nil {
			return
		}

		if err := s.readLoop(); err != nil {
			if s.ctx.Err() != nil {
				return
			}
			s.logger.WithError(err).Warn("Log stream disconnected, reconnecting")
		}

		if err := s.reconnect(); err != nil {
			s.logger.WithError(err).Error("❌ Log stream reconnection gave up")
			return
		}
	}
}

func (s *EventStream) readLoop() error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("not connected")
	}

	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()
	go func() {
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-pingTicker.C:
				_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(90 * time.Second)); err != nil {
			return err
		}

		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		switch {
		case msg.Error != nil:
			s.logger.WithFields(logrus.Fields{
				"code":    msg.Error.Code,
				"message": msg.Error.Message,
			}).Error("❌ Subscription error")

		case msg.ID != nil:
			s.logger.WithField("result", string(msg.Result)).Debug("Subscription confirmed")

		case msg.Method == "logsNotification":
			s.handleNotification(msg.Params)
		}
	}
}

func (s *EventStream) handleNotification(params json.RawMessage) {
	var notification logsNotification
	if err := json.Unmarshal(params, &notification); err != nil {
		s.logger.WithError(err).Debug("Failed to unmarshal logs notification")
		return
	}

	// Failed transactions emit logs too; their events never took effect.
	if notification.Result.Value.Err != nil {
		return
	}

	sig, err := solana.SignatureFromBase58(notification.Result.Value.Signature)
	if err != nil {
		return
	}

	events := pump.ParseEventLogs(notification.Result.Value.Logs, notification.Result.Context.Slot, sig)
	for _, ev := range events {
		select {
		case s.events <- ev:
		default:
			s.mu.Lock()
			s.dropped++
			dropped := s.dropped
			s.mu.Unlock()

			s.logger.WithFields(logrus.Fields{
				"kind":    ev.Kind.String(),
				"dropped": dropped,
			}).Warn("Event channel full, dropping event")
		}
	}
}

func (s *EventStream) reconnect() error {
	operation := func() (struct{}, error) {
		return struct{}{}, s.connect()
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = 30 * time.Second

	_, err := backoff.Retry(s.ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxElapsedTime(5*time.Minute),
	)
	return err
}
