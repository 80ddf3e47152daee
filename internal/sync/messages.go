package sync

import (
	"encoding/json"

	"garderobe-backend/internal/models"
)

// MessageKind identifies a session message variant
type MessageKind int

const (
	KindUnknown MessageKind = iota
	KindChatMessage
	KindWardrobeUpdate
	KindOutfitSuggestion
	KindReply
)

// Wire type tags
const (
	typeChatMessage      = "chat_message"
	typeWardrobeUpdate   = "wardrobe_update"
	typeOutfitSuggestion = "outfit_suggestion"
)

// envelope is the raw session frame. Requests carry a type tag; replies carry
// a response or status field instead.
type envelope struct {
	Type       string                        `json:"type,omitempty"`
	Text       string                        `json:"text,omitempty"`
	Items      []models.WatchWardrobeItem    `json:"items,omitempty"`
	Suggestion *models.WatchOutfitSuggestion `json:"suggestion,omitempty"`
	Response   string                        `json:"response,omitempty"`
	Status     string                        `json:"status,omitempty"`
}

// Message is the decoded tagged variant of a session frame. Consumers match
// on Kind; unknown variants are ignorable, not errors.
type Message struct {
	Kind       MessageKind
	Text       string
	Items      []models.WatchWardrobeItem
	Suggestion *models.WatchOutfitSuggestion
	Response   string
	Status     string
}

// Decode parses a session frame. The boolean result is false when the
// payload is not valid JSON; malformed input never propagates as a fault.
// A syntactically valid frame with an unrecognized type decodes to
// KindUnknown.
func Decode(data []byte) (Message, bool) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Message{}, false
	}

	switch env.Type {
	case typeChatMessage:
		return Message{Kind: KindChatMessage, Text: env.Text}, true
	case typeWardrobeUpdate:
		return Message{Kind: KindWardrobeUpdate, Items: env.Items}, true
	case typeOutfitSuggestion:
		return Message{Kind: KindOutfitSuggestion, Suggestion: env.Suggestion}, true
	case "":
		if env.Response != "" || env.Status != "" {
			return Message{Kind: KindReply, Response: env.Response, Status: env.Status}, true
		}
		return Message{Kind: KindUnknown}, true
	default:
		return Message{Kind: KindUnknown}, true
	}
}

func chatMessage(text string) envelope {
	return envelope{Type: typeChatMessage, Text: text}
}

func wardrobeUpdate(items []models.WatchWardrobeItem) envelope {
	return envelope{Type: typeWardrobeUpdate, Items: items}
}

func outfitSuggestion(s *models.WatchOutfitSuggestion) envelope {
	return envelope{Type: typeOutfitSuggestion, Suggestion: s}
}

func replyResponse(response string) envelope {
	return envelope{Response: response}
}

func replyStatus(status string) envelope {
	return envelope{Status: status}
}
