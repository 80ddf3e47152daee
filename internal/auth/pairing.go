package auth

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"

	"garderobe-backend/internal/database"
	"garderobe-backend/internal/models"
)

var (
	ErrInvalidPairingCode = errors.New("invalid pairing code")
	ErrPairingNotEnabled  = errors.New("no pairing code has been set")
	ErrInvalidDeviceToken = errors.New("invalid device token")
	ErrTooManyAttempts    = errors.New("too many pairing attempts")
)

// Service handles companion device pairing. The primary device holds a
// bcrypt-hashed pairing code; a companion presenting the code is issued a
// long-lived device token used to open the sync session.
type Service struct {
	prefs   *database.PrefsRepo
	devices *database.DeviceRepo
	limiter *RateLimiter
}

// NewService creates a new pairing service
func NewService(prefs *database.PrefsRepo, devices *database.DeviceRepo) *Service {
	return &Service{
		prefs:   prefs,
		devices: devices,
		limiter: DefaultRateLimiter(),
	}
}

// SetPairingCode stores the bcrypt hash of a new pairing code, replacing any
// previous one. Existing device tokens stay valid.
func (s *Service) SetPairingCode(code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.prefs.Set(database.PrefPairingCodeHash, string(hash))
}

// HasPairingCode reports whether pairing is enabled
func (s *Service) HasPairingCode() bool {
	_, err := s.prefs.Get(database.PrefPairingCodeHash)
	return err == nil
}

// Pair validates the pairing code and issues a device token. remoteAddr is
// used for rate limiting only.
func (s *Service) Pair(name, code, remoteAddr string) (string, *models.PairedDevice, error) {
	if !s.limiter.Allow(remoteAddr) {
		return "", nil, ErrTooManyAttempts
	}

	hash, err := s.prefs.Get(database.PrefPairingCodeHash)
	if err != nil {
		return "", nil, ErrPairingNotEnabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		return "", nil, ErrInvalidPairingCode
	}
	s.limiter.RecordSuccess(remoteAddr)

	token, device, err := s.devices.Create(name)
	if err != nil {
		return "", nil, err
	}
	log.Printf("auth: paired companion device %q", name)
	return token, device, nil
}

// ValidateToken resolves a device token to its paired device
func (s *Service) ValidateToken(token string) (*models.PairedDevice, error) {
	if token == "" {
		return nil, ErrInvalidDeviceToken
	}
	device, err := s.devices.GetByToken(token)
	if err != nil {
		if errors.Is(err, database.ErrDeviceNotFound) {
			return nil, ErrInvalidDeviceToken
		}
		return nil, err
	}
	return device, nil
}

// Devices lists all paired devices
func (s *Service) Devices() ([]*models.PairedDevice, error) {
	return s.devices.List()
}

// TouchLastSync records a sync pull for the device
func (s *Service) TouchLastSync(id int64) error {
	return s.devices.TouchLastSync(id)
}

// Unpair removes a paired device
func (s *Service) Unpair(id int64) error {
	return s.devices.Delete(id)
}
