package outfit

import (
	"strings"

	"garderobe-backend/internal/lifecycle"
	"garderobe-backend/internal/models"
)

// Filterer narrows an in-memory outfit list down to the current mood and
// weather with a linear predicate scan, consulting the favorites set.
type Filterer struct {
	lifecycle *lifecycle.Service
}

// NewFilterer creates a new outfit filterer
func NewFilterer(lc *lifecycle.Service) *Filterer {
	return &Filterer{lifecycle: lc}
}

// Filter returns the outfits matching the given mood and weather. An empty
// mood or weather matches everything for that dimension. Matching outfits
// are annotated with their favorite status, favorites first.
func (f *Filterer) Filter(outfits []models.Outfit, mood, weather string) []models.Outfit {
	matched := []models.Outfit{}
	for _, o := range outfits {
		if !matchesTag(o.Moods, mood) || !matchesTag(o.Weathers, weather) {
			continue
		}
		o.Favorite = f.lifecycle.IsFavorite(o.ID)
		matched = append(matched, o)
	}

	// Stable partition: favorites ahead of the rest
	ordered := make([]models.Outfit, 0, len(matched))
	for _, o := range matched {
		if o.Favorite {
			ordered = append(ordered, o)
		}
	}
	for _, o := range matched {
		if !o.Favorite {
			ordered = append(ordered, o)
		}
	}
	return ordered
}

func matchesTag(tags []string, want string) bool {
	if want == "" {
		return true
	}
	for _, tag := range tags {
		if strings.EqualFold(tag, want) {
			return true
		}
	}
	return false
}
