package stylist

import (
	"fmt"
	"strings"

	"garderobe-backend/internal/lifecycle"
)

// Responder answers companion chat messages with short wardrobe advice. It
// is deliberately rule-based: a keyword scan over the message plus a look at
// the stored wardrobe and preference cache. Anything it cannot match gets a
// generic nudge rather than an error.
type Responder struct {
	lifecycle *lifecycle.Service
}

// NewResponder creates a new stylist responder
func NewResponder(lc *lifecycle.Service) *Responder {
	return &Responder{lifecycle: lc}
}

// Respond produces a reply for one chat message
func (r *Responder) Respond(text string) string {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, "rain", "wet", "storm"):
		return "Rainy day: grab your outerwear and closed shoes, and skip anything delicate."
	case containsAny(lower, "cold", "snow", "freez", "winter"):
		return "It's cold out. Layer up: a warm top, outerwear and something cozy from your accessories."
	case containsAny(lower, "hot", "sun", "warm", "summer"):
		return "Warm weather: light tops and breathable fabrics. Leave the outerwear at home."
	case containsAny(lower, "sport", "gym", "run", "workout"):
		return "Going for comfort: pick your most casual bottoms and sneakers."
	case containsAny(lower, "work", "office", "meeting", "formal"):
		return "For the office, keep it sharp: a clean top, tailored bottoms and simple accessories."
	case containsAny(lower, "date", "party", "night", "evening"):
		return "Evening plans! Your favorites list is a good start - pick the outfit you feel best in."
	case containsAny(lower, "favorite", "favourite"):
		count := len(r.lifecycle.GetAllFavorites())
		if count == 0 {
			return "You haven't marked any favorite outfits yet. Star a few and I'll remember them."
		}
		return fmt.Sprintf("You have %d favorite outfits saved. Want to wear one of them today?", count)
	case containsAny(lower, "wardrobe", "closet", "clothes"):
		count := len(r.lifecycle.LoadWardrobeItems())
		return fmt.Sprintf("Your wardrobe has %d items. Add more from the phone app to get better suggestions.", count)
	}

	mood, weather := r.lifecycle.GetUserPreferences()
	if mood != "" || weather != "" {
		return fmt.Sprintf("Based on your last picks (%s, %s), I'd keep today's outfit in the same spirit.", orDash(mood), orDash(weather))
	}
	return "Tell me about your mood or the weather and I'll suggest something to wear."
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
