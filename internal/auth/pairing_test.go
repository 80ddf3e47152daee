package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garderobe-backend/internal/database"
)

func setupPairing(t *testing.T) *Service {
	t.Helper()
	require.NoError(t, database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")}))
	t.Cleanup(func() { database.Close() })
	return NewService(database.NewPrefsRepo(), database.NewDeviceRepo())
}

func TestPairWithoutCode(t *testing.T) {
	svc := setupPairing(t)

	assert.False(t, svc.HasPairingCode())
	_, _, err := svc.Pair("watch", "1234", "10.0.0.2")
	assert.ErrorIs(t, err, ErrPairingNotEnabled)
}

func TestPairWrongCode(t *testing.T) {
	svc := setupPairing(t)
	require.NoError(t, svc.SetPairingCode("123456"))

	_, _, err := svc.Pair("watch", "654321", "10.0.0.2")
	assert.ErrorIs(t, err, ErrInvalidPairingCode)
}

func TestPairAndValidate(t *testing.T) {
	svc := setupPairing(t)
	require.NoError(t, svc.SetPairingCode("123456"))
	assert.True(t, svc.HasPairingCode())

	token, device, err := svc.Pair("emma's watch", "123456", "10.0.0.2")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "emma's watch", device.Name)

	found, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, device.ID, found.ID)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidDeviceToken)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidDeviceToken)
}

func TestUnpairInvalidatesToken(t *testing.T) {
	svc := setupPairing(t)
	require.NoError(t, svc.SetPairingCode("123456"))

	token, device, err := svc.Pair("watch", "123456", "10.0.0.2")
	require.NoError(t, err)

	require.NoError(t, svc.Unpair(device.ID))
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidDeviceToken)
}

func TestPairingIsRateLimited(t *testing.T) {
	svc := setupPairing(t)
	svc.limiter = NewRateLimiter(3, time.Minute, time.Minute)
	require.NoError(t, svc.SetPairingCode("123456"))

	for i := 0; i < 3; i++ {
		_, _, err := svc.Pair("watch", "wrong", "10.0.0.9")
		assert.ErrorIs(t, err, ErrInvalidPairingCode)
	}

	// Over the limit: even the right code is refused from this address
	_, _, err := svc.Pair("watch", "123456", "10.0.0.9")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// A different address is unaffected
	_, _, err = svc.Pair("watch", "123456", "10.0.0.10")
	assert.NoError(t, err)
}

func TestRateLimiterResets(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond, 50*time.Millisecond)

	assert.True(t, rl.Allow("addr"))
	assert.True(t, rl.Allow("addr"))
	assert.False(t, rl.Allow("addr"))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.Allow("addr"), "block expires after blockTime")

	rl.RecordSuccess("addr")
	assert.True(t, rl.Allow("addr"))
	assert.True(t, rl.Allow("addr"))
}
