package sync

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"garderobe-backend/internal/database"
	"garderobe-backend/internal/models"
)

// FallbackResponse is the fixed, user-facing string returned whenever the
// primary device cannot be reached or does not answer in time. The session
// never retries and never queues: unreachability degrades to this message.
const FallbackResponse = "I can't reach your phone right now. Open the wardrobe app on your phone and try again."

// DefaultChatTimeout bounds the wait for a single chat reply
const DefaultChatTimeout = 10 * time.Second

// Session is the companion-device end of the point-to-point link. It keeps a
// local read-only mirror of the wardrobe and suggestion list, exposes
// observable connection state, and relays chat messages with graceful
// degradation to FallbackResponse.
type Session struct {
	rawURL string
	token  string
	shared *database.PrefsRepo

	// ChatTimeout bounds SendChatMessage; zero means DefaultChatTimeout
	ChatTimeout time.Duration

	// sendMu serializes outbound chat sends: one outstanding request at most
	sendMu sync.Mutex

	// writeMu guards every conn write; chat sends and suggestion relays run
	// on different goroutines and gorilla permits a single writer
	writeMu sync.Mutex

	mu          sync.Mutex
	conn        *websocket.Conn
	connected   bool
	pending     chan string
	lastSyncAt  *time.Time
	wardrobe    []models.WatchWardrobeItem
	suggestions []models.WatchOutfitSuggestion
	listeners   []func(bool)
}

// NewSession creates a companion session against the primary device's sync
// endpoint. The session starts disconnected; call Connect to establish the
// link and StartSync to pull the shared namespace.
func NewSession(rawURL, token string, shared *database.PrefsRepo) *Session {
	return &Session{
		rawURL: rawURL,
		token:  token,
		shared: shared,
	}
}

// Connect dials the primary device and starts the read loop
func (s *Session) Connect(ctx context.Context) error {
	u, err := url.Parse(s.rawURL)
	if err != nil {
		return errors.Wrap(err, "invalid sync endpoint")
	}
	q := u.Query()
	q.Set("token", s.token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return errors.Wrap(err, "failed to reach primary device")
	}

	s.mu.Lock()
	s.conn = conn
	s.connected = true
	listeners := s.copyListenersLocked()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(true)
	}

	go s.readLoop(conn)
	return nil
}

// Close tears down the session link
func (s *Session) Close() {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// IsConnected reports whether the primary device is currently reachable
func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// OnPresenceChange registers a callback invoked when the peer becomes
// reachable or unreachable.
func (s *Session) OnPresenceChange(fn func(bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// LastSyncAt returns the time of the last completed sync pull, nil if never
func (s *Session) LastSyncAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSyncAt
}

// Wardrobe returns the local wardrobe mirror from the last sync
func (s *Session) Wardrobe() []models.WatchWardrobeItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wardrobe
}

// Suggestions returns the locally mirrored suggestion list
func (s *Session) Suggestions() []models.WatchOutfitSuggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suggestions
}

// StartSync performs a one-shot pull of the shared namespace into the local
// mirror and refreshes the last-sync timestamp. There is no background
// scheduling; callers invoke it explicitly, e.g. on view activation.
func (s *Session) StartSync() {
	var wardrobe []models.WatchWardrobeItem
	if value, err := s.shared.Get(database.SharedWatchWardrobe); err == nil {
		if err := json.Unmarshal([]byte(value), &wardrobe); err != nil {
			log.Printf("sync session: discarding corrupt wardrobe mirror: %v", err)
			wardrobe = nil
		}
	}

	var suggestions []models.WatchOutfitSuggestion
	if value, err := s.shared.Get(database.SharedWatchSuggestions); err == nil {
		if err := json.Unmarshal([]byte(value), &suggestions); err != nil {
			log.Printf("sync session: discarding corrupt suggestion list: %v", err)
			suggestions = nil
		}
	}

	now := time.Now()
	if err := s.shared.SetTime(database.SharedWatchLastSync, now); err != nil {
		log.Printf("sync session: failed to record sync time: %v", err)
	}

	s.mu.Lock()
	s.wardrobe = wardrobe
	s.suggestions = suggestions
	s.lastSyncAt = &now
	s.mu.Unlock()
}

// SendChatMessage relays a chat message to the primary device and waits for
// a single reply with a bounded wait. On an unreachable peer, a transport
// error, a timeout or cancellation it returns FallbackResponse; it never
// returns an error and never retries. Concurrent sends are serialized.
func (s *Session) SendChatMessage(ctx context.Context, text string) string {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	if !s.connected || s.conn == nil {
		s.mu.Unlock()
		return FallbackResponse
	}
	conn := s.conn
	reply := make(chan string, 1)
	s.pending = reply
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pending = nil
		s.mu.Unlock()
	}()

	s.writeMu.Lock()
	err := conn.WriteJSON(chatMessage(text))
	s.writeMu.Unlock()
	if err != nil {
		log.Printf("sync session: chat send failed: %v", err)
		return FallbackResponse
	}

	timeout := s.ChatTimeout
	if timeout <= 0 {
		timeout = DefaultChatTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case response := <-reply:
		return response
	case <-timer.C:
		log.Printf("sync session: chat reply timed out after %s", timeout)
		return FallbackResponse
	case <-ctx.Done():
		return FallbackResponse
	}
}

// SaveOutfitSuggestion appends a suggestion to the persisted list in the
// shared namespace, rewriting the whole list, and queues it to the primary
// device when reachable.
func (s *Session) SaveOutfitSuggestion(suggestion models.WatchOutfitSuggestion) error {
	var suggestions []models.WatchOutfitSuggestion
	if value, err := s.shared.Get(database.SharedWatchSuggestions); err == nil {
		if err := json.Unmarshal([]byte(value), &suggestions); err != nil {
			log.Printf("sync session: discarding corrupt suggestion list: %v", err)
			suggestions = nil
		}
	}

	suggestions = append(suggestions, suggestion)
	data, err := json.Marshal(suggestions)
	if err != nil {
		return err
	}
	if err := s.shared.Set(database.SharedWatchSuggestions, string(data)); err != nil {
		return err
	}

	s.mu.Lock()
	s.suggestions = suggestions
	conn := s.conn
	connected := s.connected
	s.mu.Unlock()

	if connected && conn != nil {
		s.writeMu.Lock()
		err := conn.WriteJSON(outfitSuggestion(&suggestion))
		s.writeMu.Unlock()
		if err != nil {
			// Local append already succeeded; delivery is best-effort
			log.Printf("sync session: failed to relay suggestion: %v", err)
		}
	}
	return nil
}

// readLoop dispatches inbound frames until the connection drops. A pending
// chat send is resolved with FallbackResponse if the peer disconnects
// mid-flight.
func (s *Session) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.markDisconnected()
			return
		}

		msg, ok := Decode(data)
		if !ok {
			log.Printf("sync session: dropping undecodable frame")
			continue
		}

		switch msg.Kind {
		case KindReply:
			s.mu.Lock()
			pending := s.pending
			s.mu.Unlock()
			if pending != nil {
				select {
				case pending <- msg.Response:
				default:
				}
			}
		case KindWardrobeUpdate:
			s.StartSync()
		case KindOutfitSuggestion:
			// Suggestions reach the mirror through the shared namespace on
			// the next sync pull
			s.StartSync()
		case KindChatMessage, KindUnknown:
			// Ignore
		}
	}
}

func (s *Session) markDisconnected() {
	s.mu.Lock()
	wasConnected := s.connected
	s.connected = false
	s.conn = nil
	pending := s.pending
	listeners := s.copyListenersLocked()
	s.mu.Unlock()

	if pending != nil {
		select {
		case pending <- FallbackResponse:
		default:
		}
	}

	if wasConnected {
		for _, fn := range listeners {
			fn(false)
		}
	}
}

func (s *Session) copyListenersLocked() []func(bool) {
	listeners := make([]func(bool), len(s.listeners))
	copy(listeners, s.listeners)
	return listeners
}
