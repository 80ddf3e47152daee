package models

import "time"

// Gender represents the user's declared gender
type Gender string

const (
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderUnspecified Gender = "unspecified"
)

// StylePreferences is the nested preference record carried by the profile.
// The three scales are 1-5 integers.
type StylePreferences struct {
	PreferredStyle  string   `json:"preferred_style"`
	FavoriteColors  []string `json:"favorite_colors"`
	ComfortLevel    int      `json:"comfort_level"`
	StyleLevel      int      `json:"style_level"`
	CasualnessLevel int      `json:"casualness_level"`
}

// UserProfile is the single on-device user record. It is always saved and
// loaded as a whole; there is no partial-field update.
type UserProfile struct {
	FirstName         string           `json:"first_name"`
	DateOfBirth       *time.Time       `json:"date_of_birth,omitempty"`
	Gender            Gender           `json:"gender"`
	Email             string           `json:"email,omitempty"`
	PhotoPath         string           `json:"photo_path,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	LastWeatherUpdate *time.Time       `json:"last_weather_update,omitempty"`
	Preferences       StylePreferences `json:"preferences"`
}

// Age returns the user's age in full years, or 0 when no date of birth is set.
func (p *UserProfile) Age() int {
	if p.DateOfBirth == nil {
		return 0
	}
	now := time.Now()
	years := now.Year() - p.DateOfBirth.Year()
	// Birthday not reached yet this year
	if now.YearDay() < p.DateOfBirth.YearDay() {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// SaveProfileRequest is the request body for saving the user profile
type SaveProfileRequest struct {
	FirstName         string           `json:"first_name" validate:"required,min=1,max=64"`
	DateOfBirth       *time.Time       `json:"date_of_birth,omitempty"`
	Gender            Gender           `json:"gender,omitempty"`
	Email             string           `json:"email,omitempty" validate:"omitempty,email"`
	PhotoPath         string           `json:"photo_path,omitempty"`
	LastWeatherUpdate *time.Time       `json:"last_weather_update,omitempty"`
	Preferences       StylePreferences `json:"preferences"`
}
