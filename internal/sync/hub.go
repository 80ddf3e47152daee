package sync

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"garderobe-backend/internal/database"
	"garderobe-backend/internal/lifecycle"
	"garderobe-backend/internal/models"
)

// Responder answers companion chat messages on the primary device
type Responder interface {
	Respond(text string) string
}

// companionConn wraps one companion connection with a write lock. Serve-loop
// replies and broadcast notices come from different goroutines, and gorilla
// permits at most one concurrent writer per connection.
type companionConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *companionConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub is the primary-device end of the companion session. It tracks connected
// companions, answers relayed chat messages, persists inbound outfit
// suggestions to the shared namespace, and pushes wardrobe mirror updates.
type Hub struct {
	shared    *database.PrefsRepo
	lifecycle *lifecycle.Service
	responder Responder

	mu    sync.RWMutex
	conns map[*companionConn]struct{}
}

// NewHub creates a new session hub
func NewHub(shared *database.PrefsRepo, lc *lifecycle.Service, responder Responder) *Hub {
	return &Hub{
		shared:    shared,
		lifecycle: lc,
		responder: responder,
		conns:     make(map[*companionConn]struct{}),
	}
}

// ConnectedCount returns the number of connected companions
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Serve runs the read loop for one companion connection until it drops.
// Frames that fail to decode are dropped; unknown variants are ignored.
func (h *Hub) Serve(conn *websocket.Conn) {
	cc := &companionConn{conn: conn}
	h.mu.Lock()
	h.conns[cc] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.conns, cc)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		msg, ok := Decode(data)
		if !ok {
			log.Printf("sync hub: dropping undecodable frame")
			continue
		}

		switch msg.Kind {
		case KindChatMessage:
			response := h.responder.Respond(msg.Text)
			if err := cc.writeJSON(replyResponse(response)); err != nil {
				return
			}
		case KindOutfitSuggestion:
			if msg.Suggestion != nil {
				if err := h.appendSuggestion(msg.Suggestion); err != nil {
					log.Printf("sync hub: failed to store suggestion: %v", err)
				}
			}
			if err := cc.writeJSON(replyStatus("ok")); err != nil {
				return
			}
		case KindWardrobeUpdate:
			// Companion asking for a fresh mirror
			h.writeMirror(h.lifecycle.LoadWardrobeItems())
			if err := cc.writeJSON(replyStatus("ok")); err != nil {
				return
			}
		case KindReply, KindUnknown:
			// Ignore
		}
	}
}

// PublishWardrobe writes the reduced-fidelity wardrobe mirror into the shared
// namespace and notifies connected companions to re-sync. Called whenever the
// phone-side wardrobe changes.
func (h *Hub) PublishWardrobe(items []models.WardrobeItem) {
	h.writeMirror(items)

	notice := wardrobeUpdate(nil)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for cc := range h.conns {
		if err := cc.writeJSON(notice); err != nil {
			log.Printf("sync hub: failed to notify companion: %v", err)
		}
	}
}

func (h *Hub) writeMirror(items []models.WardrobeItem) {
	mirror := make([]models.WatchWardrobeItem, 0, len(items))
	for _, item := range items {
		mirror = append(mirror, models.WatchWardrobeItem{
			ID:       item.ID,
			Name:     item.Name,
			Category: string(item.Category),
			Color:    string(item.Color),
		})
	}

	data, err := json.Marshal(mirror)
	if err != nil {
		log.Printf("sync hub: failed to encode wardrobe mirror: %v", err)
		return
	}
	if err := h.shared.Set(database.SharedWatchWardrobe, string(data)); err != nil {
		log.Printf("sync hub: failed to write wardrobe mirror: %v", err)
	}
}

// appendSuggestion appends to the persisted suggestion list, reading and
// rewriting the whole list.
func (h *Hub) appendSuggestion(s *models.WatchOutfitSuggestion) error {
	var suggestions []models.WatchOutfitSuggestion
	if value, err := h.shared.Get(database.SharedWatchSuggestions); err == nil {
		if err := json.Unmarshal([]byte(value), &suggestions); err != nil {
			log.Printf("sync hub: discarding corrupt suggestion list: %v", err)
			suggestions = nil
		}
	}

	suggestions = append(suggestions, *s)
	data, err := json.Marshal(suggestions)
	if err != nil {
		return err
	}
	return h.shared.Set(database.SharedWatchSuggestions, string(data))
}
