package models

import "time"

// WatchWardrobeItem is the reduced-fidelity wardrobe record mirrored to the
// companion device. Mirrors are overwritten wholesale on sync (last write
// wins); they are never reconciled against the phone-side records.
type WatchWardrobeItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color"`
}

// WatchOutfitSuggestion is a suggestion queued in the shared namespace for
// on-watch display.
type WatchOutfitSuggestion struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Mood      string    `json:"mood,omitempty"`
	Weather   string    `json:"weather,omitempty"`
	ItemNames []string  `json:"item_names,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WatchChatMessage is a chat exchange relayed between watch and phone.
type WatchChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	FromWatch bool      `json:"from_watch"`
	SentAt    time.Time `json:"sent_at"`
}
