package database

import (
	"database/sql"
	"errors"
	"time"
)

// ErrPrefNotFound is returned when a preference key has never been written
var ErrPrefNotFound = errors.New("preference not found")

// PrefsRepo handles key-value preference storage. The same repository type
// serves both the primary-device namespace ("prefs") and the cross-device
// shared namespace ("shared_prefs"); there is no transactionality across keys.
type PrefsRepo struct {
	table string
}

// NewPrefsRepo creates a repository over the primary-device namespace
func NewPrefsRepo() *PrefsRepo {
	return &PrefsRepo{table: "prefs"}
}

// NewSharedPrefsRepo creates a repository over the cross-device shared namespace
func NewSharedPrefsRepo() *PrefsRepo {
	return &PrefsRepo{table: "shared_prefs"}
}

// Get retrieves a preference value
func (r *PrefsRepo) Get(key string) (string, error) {
	var value string
	err := DB.QueryRow("SELECT value FROM "+r.table+" WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrPrefNotFound
	}
	return value, err
}

// Set sets a preference value
func (r *PrefsRepo) Set(key, value string) error {
	_, err := DB.Exec(`
		INSERT INTO `+r.table+` (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = ?
	`, key, value, time.Now(), value, time.Now())
	return err
}

// GetBool retrieves a boolean preference. Missing or unparsable values
// default to false.
func (r *PrefsRepo) GetBool(key string) bool {
	value, err := r.Get(key)
	if err != nil {
		return false
	}
	return value == "true" || value == "1"
}

// SetBool sets a boolean preference
func (r *PrefsRepo) SetBool(key string, value bool) error {
	s := "false"
	if value {
		s = "true"
	}
	return r.Set(key, s)
}

// GetTime retrieves a timestamp preference, or nil if unset or corrupt
func (r *PrefsRepo) GetTime(key string) *time.Time {
	value, err := r.Get(key)
	if err != nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil
	}
	return &t
}

// SetTime sets a timestamp preference
func (r *PrefsRepo) SetTime(key string, t time.Time) error {
	return r.Set(key, t.Format(time.RFC3339Nano))
}

// Delete removes a preference key. Deleting a missing key is a no-op.
func (r *PrefsRepo) Delete(key string) error {
	_, err := DB.Exec("DELETE FROM "+r.table+" WHERE key = ?", key)
	return err
}

// GetAll retrieves all preferences in the namespace
func (r *PrefsRepo) GetAll() (map[string]string, error) {
	rows, err := DB.Query("SELECT key, value FROM " + r.table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefs := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		prefs[key] = value
	}

	return prefs, rows.Err()
}

// Primary namespace keys
const (
	PrefConsentDataCollection = "consent.data_collection"
	PrefConsentPrivacyPolicy  = "consent.privacy_policy"
	PrefConsentDate           = "consent.date"
	PrefUserProfile           = "user.profile"
	PrefWardrobeItems         = "wardrobe.items"
	PrefFavoriteOutfits       = "outfits.favorites"
	PrefLastMood              = "prefs.last_mood"
	PrefLastWeather           = "prefs.last_weather"
	PrefPairingCodeHash       = "pairing.code_hash"
)

// Shared namespace keys
const (
	SharedWatchWardrobe    = "watch.wardrobe"
	SharedWatchSuggestions = "watch.suggestions"
	SharedWatchLastSync    = "watch.last_sync"
)
