package sync

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garderobe-backend/internal/database"
	"garderobe-backend/internal/lifecycle"
	"garderobe-backend/internal/models"
)

type echoResponder struct{}

func (echoResponder) Respond(text string) string { return "you said: " + text }

func setupHub(t *testing.T) (*Hub, *database.PrefsRepo, *lifecycle.Service) {
	t.Helper()
	require.NoError(t, database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")}))
	t.Cleanup(func() { database.Close() })

	shared := database.NewSharedPrefsRepo()
	lc := lifecycle.NewService(database.NewPrefsRepo())
	return NewHub(shared, lc, echoResponder{}), shared, lc
}

// dialHub spins up a test server running hub.Serve and returns a connected
// client side.
func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		go hub.Serve(conn)
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, ok := Decode(data)
	require.True(t, ok)
	return msg
}

func TestHubAnswersChat(t *testing.T) {
	hub, _, _ := setupHub(t)
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(chatMessage("hello")))
	msg := readFrame(t, conn)
	assert.Equal(t, KindReply, msg.Kind)
	assert.Equal(t, "you said: hello", msg.Response)
}

func TestHubStoresSuggestion(t *testing.T) {
	hub, shared, _ := setupHub(t)
	conn := dialHub(t, hub)

	suggestion := models.WatchOutfitSuggestion{ID: "s-1", Title: "Sunday brunch"}
	require.NoError(t, conn.WriteJSON(outfitSuggestion(&suggestion)))

	msg := readFrame(t, conn)
	assert.Equal(t, "ok", msg.Status)

	value, err := shared.Get(database.SharedWatchSuggestions)
	require.NoError(t, err)
	var stored []models.WatchOutfitSuggestion
	require.NoError(t, json.Unmarshal([]byte(value), &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "Sunday brunch", stored[0].Title)
}

func TestHubRefreshesMirrorOnRequest(t *testing.T) {
	hub, shared, lc := setupHub(t)
	require.NoError(t, lc.SaveWardrobeItems([]models.WardrobeItem{
		{ID: "item-1", Name: "Raincoat", Category: models.CategoryOuterwear, Color: models.ColorYellow},
	}))

	conn := dialHub(t, hub)
	require.NoError(t, conn.WriteJSON(wardrobeUpdate(nil)))
	msg := readFrame(t, conn)
	assert.Equal(t, "ok", msg.Status)

	value, err := shared.Get(database.SharedWatchWardrobe)
	require.NoError(t, err)
	var mirror []models.WatchWardrobeItem
	require.NoError(t, json.Unmarshal([]byte(value), &mirror))
	require.Len(t, mirror, 1)
	assert.Equal(t, "Raincoat", mirror[0].Name)
	assert.Equal(t, "outerwear", mirror[0].Category)
}

func TestHubIgnoresGarbageFrames(t *testing.T) {
	hub, _, _ := setupHub(t)
	conn := dialHub(t, hub)

	// Neither frame should kill the connection
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":`)))
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "telemetry"}))

	require.NoError(t, conn.WriteJSON(chatMessage("still here?")))
	msg := readFrame(t, conn)
	assert.Equal(t, "you said: still here?", msg.Response)
}

func TestConcurrentChatAndBroadcast(t *testing.T) {
	hub, _, _ := setupHub(t)
	conn := dialHub(t, hub)
	require.Eventually(t, func() bool { return hub.ConnectedCount() == 1 }, time.Second, 10*time.Millisecond)

	// Broadcast notices race the serve loop's chat replies on the same
	// connection; both must go through the per-connection write lock.
	const rounds = 25
	published := make(chan struct{})
	go func() {
		defer close(published)
		for i := 0; i < rounds; i++ {
			hub.PublishWardrobe([]models.WardrobeItem{
				{ID: "item-1", Name: "Coat", Category: models.CategoryOuterwear, Color: models.ColorBlack},
			})
		}
	}()
	go func() {
		for i := 0; i < rounds; i++ {
			conn.WriteJSON(chatMessage("ping"))
		}
	}()

	replies := 0
	for replies < rounds {
		msg := readFrame(t, conn)
		if msg.Kind == KindReply {
			assert.Equal(t, "you said: ping", msg.Response)
			replies++
		}
	}
	<-published
}

func TestPublishWardrobeNotifiesCompanions(t *testing.T) {
	hub, shared, _ := setupHub(t)
	conn := dialHub(t, hub)

	// Give Serve a moment to register the connection
	require.Eventually(t, func() bool { return hub.ConnectedCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.PublishWardrobe([]models.WardrobeItem{
		{ID: "item-2", Name: "Scarf", Category: models.CategoryAccessories, Color: models.ColorRed},
	})

	msg := readFrame(t, conn)
	assert.Equal(t, KindWardrobeUpdate, msg.Kind)

	value, err := shared.Get(database.SharedWatchWardrobe)
	require.NoError(t, err)
	assert.Contains(t, value, "Scarf")
}
