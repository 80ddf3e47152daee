package lifecycle

import (
	"encoding/json"
	"log"
	"sync"

	"garderobe-backend/internal/database"
	"garderobe-backend/internal/models"
)

// Service owns the user-profile, wardrobe and favorites records plus the
// last-selected mood/weather cache. Records are persisted as whole serialized
// blobs in the preference namespace; adding or removing a single element is a
// read-modify-write of the full collection. Storage decode failures are never
// surfaced: callers get an empty or absent default instead.
type Service struct {
	prefs *database.PrefsRepo
	mu    sync.Mutex
}

// NewService creates a new data lifecycle service
func NewService(prefs *database.PrefsRepo) *Service {
	return &Service{prefs: prefs}
}

// SaveUserProfile persists the profile wholesale, overwriting any previous
// record. There is no partial-field update.
func (s *Service) SaveUserProfile(profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.prefs.Set(database.PrefUserProfile, string(data))
}

// LoadUserProfile retrieves the stored profile, or nil when none exists or
// the stored record cannot be decoded.
func (s *Service) LoadUserProfile() *models.UserProfile {
	value, err := s.prefs.Get(database.PrefUserProfile)
	if err != nil {
		return nil
	}

	profile := &models.UserProfile{}
	if err := json.Unmarshal([]byte(value), profile); err != nil {
		log.Printf("lifecycle: discarding corrupt profile record: %v", err)
		return nil
	}
	return profile
}

// HasCompletedOnboarding reports whether a profile with a non-empty first
// name exists. The predicate is derived, not stored, and is recomputed on
// every call.
func (s *Service) HasCompletedOnboarding() bool {
	profile := s.LoadUserProfile()
	return profile != nil && profile.FirstName != ""
}

// SaveWardrobeItems persists the whole wardrobe collection as one record
func (s *Service) SaveWardrobeItems(items []models.WardrobeItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if items == nil {
		items = []models.WardrobeItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.prefs.Set(database.PrefWardrobeItems, string(data))
}

// LoadWardrobeItems retrieves the wardrobe collection. Missing or corrupt
// storage yields an empty slice, never nil and never an error.
func (s *Service) LoadWardrobeItems() []models.WardrobeItem {
	value, err := s.prefs.Get(database.PrefWardrobeItems)
	if err != nil {
		return []models.WardrobeItem{}
	}

	var items []models.WardrobeItem
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		log.Printf("lifecycle: discarding corrupt wardrobe record: %v", err)
		return []models.WardrobeItem{}
	}
	if items == nil {
		items = []models.WardrobeItem{}
	}
	return items
}

// AddFavorite marks an outfit as favorite. Adding an existing favorite is a
// no-op.
func (s *Service) AddFavorite(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites := s.loadFavorites()
	for _, fav := range favorites {
		if fav == id {
			return nil
		}
	}
	return s.saveFavorites(append(favorites, id))
}

// RemoveFavorite unmarks an outfit. Removing a non-member is a no-op.
func (s *Service) RemoveFavorite(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites := s.loadFavorites()
	kept := favorites[:0]
	for _, fav := range favorites {
		if fav != id {
			kept = append(kept, fav)
		}
	}
	if len(kept) == len(favorites) {
		return nil
	}
	return s.saveFavorites(kept)
}

// IsFavorite reports whether an outfit is marked favorite
func (s *Service) IsFavorite(id string) bool {
	for _, fav := range s.loadFavorites() {
		if fav == id {
			return true
		}
	}
	return false
}

// GetAllFavorites returns all favorite outfit identifiers
func (s *Service) GetAllFavorites() []string {
	return s.loadFavorites()
}

func (s *Service) loadFavorites() []string {
	value, err := s.prefs.Get(database.PrefFavoriteOutfits)
	if err != nil {
		return []string{}
	}

	var favorites []string
	if err := json.Unmarshal([]byte(value), &favorites); err != nil {
		log.Printf("lifecycle: discarding corrupt favorites record: %v", err)
		return []string{}
	}
	if favorites == nil {
		favorites = []string{}
	}
	return favorites
}

func (s *Service) saveFavorites(favorites []string) error {
	data, err := json.Marshal(favorites)
	if err != nil {
		return err
	}
	return s.prefs.Set(database.PrefFavoriteOutfits, string(data))
}

// SaveUserPreferences caches the last selected mood and weather. This cache
// is independent of the profile's nested style preferences.
func (s *Service) SaveUserPreferences(mood, weather string) error {
	if err := s.prefs.Set(database.PrefLastMood, mood); err != nil {
		return err
	}
	return s.prefs.Set(database.PrefLastWeather, weather)
}

// GetUserPreferences returns the last selected mood and weather, empty
// strings when never set.
func (s *Service) GetUserPreferences() (string, string) {
	mood, _ := s.prefs.Get(database.PrefLastMood)
	weather, _ := s.prefs.Get(database.PrefLastWeather)
	return mood, weather
}

// ExportUserData assembles the user's data into one mapping: favorite outfit
// ids, the mood/weather cache, a profile summary when a profile exists, and
// the wardrobe item count. Wardrobe item contents are deliberately excluded
// from the export; only the count is reported.
func (s *Service) ExportUserData() map[string]interface{} {
	mood, weather := s.GetUserPreferences()

	export := map[string]interface{}{
		"favorites": s.GetAllFavorites(),
		"preferences": map[string]interface{}{
			"mood":    mood,
			"weather": weather,
		},
		"wardrobeCount": len(s.LoadWardrobeItems()),
	}

	if profile := s.LoadUserProfile(); profile != nil {
		export["profile"] = map[string]interface{}{
			"firstName": profile.FirstName,
			"age":       profile.Age(),
			"gender":    string(profile.Gender),
		}
	}

	return export
}

// DeleteAllUserData clears the profile, wardrobe, favorites and the
// mood/weather cache. Each key deletion is independent and best-effort: a
// failure on one key does not abort deletion of the others.
func (s *Service) DeleteAllUserData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := []string{
		database.PrefUserProfile,
		database.PrefWardrobeItems,
		database.PrefFavoriteOutfits,
		database.PrefLastMood,
		database.PrefLastWeather,
	}

	var firstErr error
	for _, key := range keys {
		if err := s.prefs.Delete(key); err != nil {
			log.Printf("lifecycle: failed to delete %s: %v", key, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
