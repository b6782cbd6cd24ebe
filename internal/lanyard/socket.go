package lanyard

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/hay-kot/nowcard/internal/core/feed"
)

// Socket opcodes.
const (
	opEvent      = 0
	opHello      = 1
	opInitialize = 2
	opHeartbeat  = 3
)

// Socket event types.
const (
	eventInitState      = "INIT_STATE"
	eventPresenceUpdate = "PRESENCE_UPDATE"
)

const defaultHeartbeat = 30 * time.Second

type frame struct {
	Op   int                 `json:"op"`
	Seq  int                 `json:"seq,omitempty"`
	Type string              `json:"t,omitempty"`
	Data jsoniter.RawMessage `json:"d,omitempty"`
}

type hello struct {
	HeartbeatInterval int64 `json:"heartbeat_interval"`
}

type initialize struct {
	SubscribeToID string `json:"subscribe_to_id"`
}

// Socket subscribes to presence updates over the Lanyard websocket. It
// reconnects after ReconnectDelay whenever the connection drops.
type Socket struct {
	url            string
	reconnectDelay time.Duration
	dialer         *websocket.Dialer
	logger         zerolog.Logger

	// OnReconnect, when set, is called before each reconnect attempt with the
	// error that ended the previous connection.
	OnReconnect func(err error)
}

// NewSocket creates a Socket for the websocket endpoint at url
// (e.g. wss://api.lanyard.rest/socket).
func NewSocket(url string, reconnectDelay time.Duration, logger zerolog.Logger) *Socket {
	return &Socket{
		url:            url,
		reconnectDelay: reconnectDelay,
		dialer:         websocket.DefaultDialer,
		logger:         logger,
	}
}

// Subscribe connects and streams snapshots for userID until ctx is done. The
// channel holds at most one pending snapshot; a newer snapshot replaces one
// the consumer has not read yet.
func (s *Socket) Subscribe(ctx context.Context, userID string) (<-chan feed.Snapshot, error) {
	if userID == "" {
		return nil, feed.ErrMissingUserID
	}

	out := make(chan feed.Snapshot, 1)
	go s.run(ctx, userID, out)

	return out, nil
}

func (s *Socket) run(ctx context.Context, userID string, out chan feed.Snapshot) {
	defer close(out)

	for {
		err := s.session(ctx, userID, out)
		if ctx.Err() != nil {
			return
		}

		s.logger.Warn().Err(err).Dur("retry_in", s.reconnectDelay).Msg("presence socket disconnected")
		if s.OnReconnect != nil {
			s.OnReconnect(err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.reconnectDelay):
		}
	}
}

// session runs a single connection until it fails or ctx is done.
func (s *Socket) session(ctx context.Context, userID string, out chan feed.Snapshot) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-sessionCtx.Done()
		_ = conn.Close()
	}()

	interval, err := readHello(conn)
	if err != nil {
		return err
	}

	if err := writeFrame(conn, opInitialize, initialize{SubscribeToID: userID}); err != nil {
		return fmt.Errorf("send initialize: %w", err)
	}

	s.logger.Debug().Str("user_id", userID).Dur("heartbeat", interval).Msg("presence socket connected")

	go s.heartbeat(sessionCtx, cancel, conn, interval)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read frame: %w", err)
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			s.logger.Warn().Err(err).Msg("skipping malformed frame")
			continue
		}

		if f.Op != opEvent || (f.Type != eventInitState && f.Type != eventPresenceUpdate) {
			continue
		}

		var p Presence
		if err := json.Unmarshal(f.Data, &p); err != nil {
			s.logger.Warn().Err(err).Str("event", f.Type).Msg("skipping malformed presence")
			continue
		}

		snap := p.Snapshot()
		s.logger.Debug().
			Str("event", f.Type).
			Str("status", snap.Status).
			Int("activities", len(snap.Activities)).
			Msg("presence received")

		deliver(out, snap)
	}
}

func (s *Socket) heartbeat(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := writeFrame(conn, opHeartbeat, nil); err != nil {
				s.logger.Debug().Err(err).Msg("heartbeat failed")
				cancel()
				return
			}
		}
	}
}

func readHello(conn *websocket.Conn) (time.Duration, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return 0, fmt.Errorf("read hello: %w", err)
	}

	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("decode hello: %w", err)
	}
	if f.Op != opHello {
		return 0, fmt.Errorf("expected hello, got op %d", f.Op)
	}

	var h hello
	if len(f.Data) > 0 {
		if err := json.Unmarshal(f.Data, &h); err != nil {
			return 0, fmt.Errorf("decode hello: %w", err)
		}
	}

	if h.HeartbeatInterval <= 0 {
		return defaultHeartbeat, nil
	}
	return time.Duration(h.HeartbeatInterval) * time.Millisecond, nil
}

func writeFrame(conn *websocket.Conn, op int, data any) error {
	f := struct {
		Op   int `json:"op"`
		Data any `json:"d,omitempty"`
	}{Op: op, Data: data}

	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("write op %d: %w", op, err)
	}
	return nil
}

// deliver sends snap, replacing any snapshot still waiting in out. Only the
// socket goroutine sends on out.
func deliver(out chan feed.Snapshot, snap feed.Snapshot) {
	select {
	case out <- snap:
		return
	default:
	}

	select {
	case <-out:
	default:
	}
	out <- snap
}
