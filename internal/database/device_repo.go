package database

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"garderobe-backend/internal/models"
)

// ErrDeviceNotFound is returned when no paired device matches
var ErrDeviceNotFound = errors.New("device not found")

// DeviceRepo handles paired companion device database operations
type DeviceRepo struct{}

// NewDeviceRepo creates a new device repository
func NewDeviceRepo() *DeviceRepo {
	return &DeviceRepo{}
}

// Create pairs a new companion device and returns the plain token
func (r *DeviceRepo) Create(name string) (string, *models.PairedDevice, error) {
	// Generate random token
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", nil, err
	}
	token := hex.EncodeToString(tokenBytes)

	// Hash the token for storage
	device := &models.PairedDevice{
		Name:      name,
		TokenHash: hashToken(token),
		PairedAt:  time.Now(),
	}

	result, err := DB.Exec(`
		INSERT INTO devices (name, token_hash, paired_at)
		VALUES (?, ?, ?)
	`, device.Name, device.TokenHash, device.PairedAt)
	if err != nil {
		return "", nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", nil, err
	}
	device.ID = id

	return token, device, nil
}

// GetByToken retrieves a paired device by its plain token
func (r *DeviceRepo) GetByToken(token string) (*models.PairedDevice, error) {
	device := &models.PairedDevice{}
	var lastSync sql.NullTime

	err := DB.QueryRow(`
		SELECT id, name, token_hash, paired_at, last_sync_at
		FROM devices WHERE token_hash = ?
	`, hashToken(token)).Scan(
		&device.ID, &device.Name, &device.TokenHash, &device.PairedAt, &lastSync,
	)
	if err == sql.ErrNoRows {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, err
	}

	if lastSync.Valid {
		device.LastSyncAt = &lastSync.Time
	}

	return device, nil
}

// List retrieves all paired devices
func (r *DeviceRepo) List() ([]*models.PairedDevice, error) {
	rows, err := DB.Query(`
		SELECT id, name, token_hash, paired_at, last_sync_at
		FROM devices ORDER BY paired_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []*models.PairedDevice
	for rows.Next() {
		device := &models.PairedDevice{}
		var lastSync sql.NullTime
		if err := rows.Scan(&device.ID, &device.Name, &device.TokenHash, &device.PairedAt, &lastSync); err != nil {
			return nil, err
		}
		if lastSync.Valid {
			device.LastSyncAt = &lastSync.Time
		}
		devices = append(devices, device)
	}

	return devices, rows.Err()
}

// TouchLastSync records the time of the device's latest sync pull
func (r *DeviceRepo) TouchLastSync(id int64) error {
	result, err := DB.Exec("UPDATE devices SET last_sync_at = ? WHERE id = ?", time.Now(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

// Delete unpairs a device by ID
func (r *DeviceRepo) Delete(id int64) error {
	_, err := DB.Exec("DELETE FROM devices WHERE id = ?", id)
	return err
}

// hashToken creates a SHA-256 hash of the token
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
