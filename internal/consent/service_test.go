package consent

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garderobe-backend/internal/database"
	"garderobe-backend/internal/lifecycle"
	"garderobe-backend/internal/models"
)

func setupService(t *testing.T) (*Service, *lifecycle.Service) {
	t.Helper()
	require.NoError(t, database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")}))
	t.Cleanup(func() { database.Close() })

	prefs := database.NewPrefsRepo()
	lc := lifecycle.NewService(prefs)
	return NewService(prefs, database.NewAuditRepo(), lc), lc
}

func TestInitialStateNotGranted(t *testing.T) {
	svc, _ := setupService(t)

	state := svc.State()
	assert.False(t, state.DataCollection)
	assert.False(t, state.PrivacyPolicy)
	assert.Nil(t, state.ConsentDate)
	assert.False(t, svc.IsGranted())
}

func TestFlagsAlwaysMoveTogether(t *testing.T) {
	svc, _ := setupService(t)

	transitions := []func() error{
		svc.AcceptConsent,
		svc.AcceptConsent,
		svc.RejectConsent,
		svc.RevokeConsent,
		svc.AcceptConsent,
		svc.RevokeConsent,
		svc.RejectConsent,
	}
	for i, transition := range transitions {
		require.NoError(t, transition())
		state := svc.State()
		assert.Equal(t, state.DataCollection, state.PrivacyPolicy, "flags diverged after transition %d", i)
	}
}

func TestAcceptRecordsDateRejectKeepsIt(t *testing.T) {
	svc, _ := setupService(t)

	require.NoError(t, svc.AcceptConsent())
	state := svc.State()
	assert.True(t, state.Granted())
	require.NotNil(t, state.ConsentDate)

	accepted := *state.ConsentDate
	require.NoError(t, svc.RejectConsent())
	state = svc.State()
	assert.False(t, state.Granted())
	require.NotNil(t, state.ConsentDate, "rejection does not clear the consent date")
	assert.True(t, state.ConsentDate.Equal(accepted))
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	svc, lc := setupService(t)

	require.NoError(t, svc.AcceptConsent())

	// A fresh service over the same storage sees the accepted state
	reloaded := NewService(database.NewPrefsRepo(), database.NewAuditRepo(), lc)
	assert.True(t, reloaded.IsGranted())
	assert.NotNil(t, reloaded.State().ConsentDate)
}

func TestMixedPersistedFlagsAreNormalized(t *testing.T) {
	_, lc := setupService(t)

	// (true,false) is unreachable through the public contract; simulate a
	// corrupted store
	prefs := database.NewPrefsRepo()
	require.NoError(t, prefs.SetBool(database.PrefConsentDataCollection, true))

	svc := NewService(prefs, database.NewAuditRepo(), lc)
	state := svc.State()
	assert.False(t, state.DataCollection)
	assert.False(t, state.PrivacyPolicy)
}

func TestExportEmptyWithoutConsent(t *testing.T) {
	svc, lc := setupService(t)

	// Data exists in storage, but consent was never granted
	require.NoError(t, lc.SaveUserProfile(&models.UserProfile{FirstName: "Emma"}))
	require.NoError(t, lc.AddFavorite("outfit-1"))

	assert.Equal(t, map[string]interface{}{}, svc.ExportUserData())

	require.NoError(t, svc.AcceptConsent())
	require.NoError(t, svc.RejectConsent())
	assert.Equal(t, map[string]interface{}{}, svc.ExportUserData(), "rejected consent blocks export too")
}

func TestExportDelegatesWhenGranted(t *testing.T) {
	svc, lc := setupService(t)

	require.NoError(t, svc.AcceptConsent())
	require.NoError(t, lc.SaveWardrobeItems([]models.WardrobeItem{{ID: "item-1", Name: "Scarf"}}))

	export := svc.ExportUserData()
	assert.Equal(t, 1, export["wardrobeCount"])
	assert.Contains(t, export, "favorites")
	assert.Contains(t, export, "preferences")
}

func TestExportWritesNoAuditEntry(t *testing.T) {
	svc, _ := setupService(t)
	require.NoError(t, svc.AcceptConsent())

	audit := database.NewAuditRepo()
	before, err := audit.List(0)
	require.NoError(t, err)

	svc.ExportUserData()

	after, err := audit.List(0)
	require.NoError(t, err)
	assert.Len(t, after, len(before), "export is side-effect-free")
}

func TestDeleteUserData(t *testing.T) {
	svc, lc := setupService(t)

	require.NoError(t, svc.AcceptConsent())
	require.NoError(t, lc.SaveUserProfile(&models.UserProfile{FirstName: "Paul"}))

	require.NoError(t, svc.DeleteUserData())

	state := svc.State()
	assert.False(t, state.DataCollection)
	assert.False(t, state.PrivacyPolicy)
	assert.Nil(t, lc.LoadUserProfile())
}

func TestAnonymizeErasesButKeepsConsent(t *testing.T) {
	svc, lc := setupService(t)

	require.NoError(t, svc.AcceptConsent())
	require.NoError(t, lc.SaveUserProfile(&models.UserProfile{FirstName: "Iris"}))

	require.NoError(t, svc.AnonymizeUserData())

	assert.Nil(t, lc.LoadUserProfile(), "current behavior: full erasure, not anonymization")
	assert.True(t, svc.IsGranted(), "anonymization does not revoke consent")
}

func TestRevokeNotifierHook(t *testing.T) {
	svc, _ := setupService(t)

	notified := 0
	svc.RevokeNotifier = func() { notified++ }

	require.NoError(t, svc.RejectConsent())
	assert.Equal(t, 0, notified, "reject does not notify")

	require.NoError(t, svc.RevokeConsent())
	assert.Equal(t, 1, notified)
}

func TestChangeListeners(t *testing.T) {
	svc, _ := setupService(t)

	var seen []bool
	svc.OnChange(func(state models.ConsentState) {
		seen = append(seen, state.Granted())
	})

	require.NoError(t, svc.AcceptConsent())
	require.NoError(t, svc.RevokeConsent())
	assert.Equal(t, []bool{true, false}, seen)
}

func TestAuditTrail(t *testing.T) {
	svc, _ := setupService(t)
	audit := database.NewAuditRepo()

	require.NoError(t, svc.AcceptConsent())
	require.NoError(t, svc.DeleteUserData())

	entries, err := audit.List(0)
	require.NoError(t, err)

	var actions []string
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	assert.Contains(t, actions, ActionConsentAccepted)
	assert.Contains(t, actions, ActionDataDeleted)
	assert.Contains(t, actions, ActionConsentRevoked)
}
