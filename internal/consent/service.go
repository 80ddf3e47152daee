package consent

import (
	"log"
	"sync"
	"time"

	"garderobe-backend/internal/database"
	"garderobe-backend/internal/lifecycle"
	"garderobe-backend/internal/models"
)

// Audit actions recorded for consent and data-lifecycle operations
const (
	ActionConsentAccepted = "consent.accepted"
	ActionConsentRejected = "consent.rejected"
	ActionConsentRevoked  = "consent.revoked"
	ActionDataExported    = "data.exported"
	ActionDataDeleted     = "data.deleted"
	ActionDataAnonymized  = "data.anonymized"
)

// Service owns the user's data-processing consent state and mediates between
// it and the preference store. Consent transitions always set both flags
// together; (true,false) and (false,true) are invalid and are normalized to
// not-granted when observed in storage.
type Service struct {
	prefs     *database.PrefsRepo
	audit     *database.AuditRepo
	lifecycle *lifecycle.Service

	// RevokeNotifier, when set, is invoked after RevokeConsent completes.
	// Extension point for a richer revoke-notification mechanism; revoke is
	// otherwise an alias of reject.
	RevokeNotifier func()

	mu        sync.Mutex
	state     models.ConsentState
	listeners []func(models.ConsentState)
}

// NewService creates a consent service, loading persisted state. Missing
// flags default to not-granted.
func NewService(prefs *database.PrefsRepo, audit *database.AuditRepo, lc *lifecycle.Service) *Service {
	s := &Service{
		prefs:     prefs,
		audit:     audit,
		lifecycle: lc,
	}

	state := models.ConsentState{
		DataCollection: prefs.GetBool(database.PrefConsentDataCollection),
		PrivacyPolicy:  prefs.GetBool(database.PrefConsentPrivacyPolicy),
		ConsentDate:    prefs.GetTime(database.PrefConsentDate),
	}
	normalized := state.Normalized()
	if normalized != state {
		log.Printf("consent: persisted flags disagree, normalizing to not granted")
	}
	s.state = normalized

	return s
}

// State returns a copy of the current consent state
func (s *Service) State() models.ConsentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsGranted reports whether consent is currently granted
func (s *Service) IsGranted() bool {
	return s.State().Granted()
}

// OnChange registers a callback invoked after every consent transition.
// Callbacks run synchronously on the mutating goroutine.
func (s *Service) OnChange(fn func(models.ConsentState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// AcceptConsent sets both consent flags true, records the acceptance time
// and persists all three values. Idempotent.
func (s *Service) AcceptConsent() error {
	now := time.Now()
	if err := s.transition(models.ConsentState{
		DataCollection: true,
		PrivacyPolicy:  true,
		ConsentDate:    &now,
	}); err != nil {
		return err
	}
	s.logAudit(ActionConsentAccepted, nil)
	return nil
}

// RejectConsent sets both consent flags false and persists them. Previously
// collected data is intentionally left untouched: a simple opt-out must not
// have destructive side effects. Erasure goes through DeleteUserData.
// Idempotent.
func (s *Service) RejectConsent() error {
	if err := s.reject(); err != nil {
		return err
	}
	s.logAudit(ActionConsentRejected, nil)
	return nil
}

// RevokeConsent withdraws consent. Behaviorally an alias of RejectConsent
// plus the optional RevokeNotifier hook.
func (s *Service) RevokeConsent() error {
	if err := s.reject(); err != nil {
		return err
	}
	s.logAudit(ActionConsentRevoked, nil)
	if s.RevokeNotifier != nil {
		s.RevokeNotifier()
	}
	return nil
}

func (s *Service) reject() error {
	s.mu.Lock()
	next := s.state
	next.DataCollection = false
	next.PrivacyPolicy = false
	s.mu.Unlock()
	// ConsentDate is kept: data removal is governed by export/delete policy,
	// not by the consent flags.
	return s.transition(next)
}

// ExportUserData returns the full data export when consent is granted, and
// an empty mapping otherwise, regardless of what data exists in storage.
// Side-effect-free; the HTTP surface writes the audit entry.
func (s *Service) ExportUserData() map[string]interface{} {
	if !s.IsGranted() {
		return map[string]interface{}{}
	}
	return s.lifecycle.ExportUserData()
}

// DeleteUserData is the right-to-erasure entry point: it erases all
// lifecycle-owned data, then revokes consent. Destructive and irreversible
// for the persisted state.
func (s *Service) DeleteUserData() error {
	if err := s.lifecycle.DeleteAllUserData(); err != nil {
		// Erasure is best-effort per key; keep going so consent is still
		// revoked, but report the failure.
		log.Printf("consent: erasure completed with errors: %v", err)
	}
	s.logAudit(ActionDataDeleted, nil)
	return s.RevokeConsent()
}

// AnonymizeUserData currently performs the same full erasure as
// DeleteUserData's data step, without revoking consent. It does not retain
// any anonymized data; partial anonymization is not implemented.
func (s *Service) AnonymizeUserData() error {
	err := s.lifecycle.DeleteAllUserData()
	s.logAudit(ActionDataAnonymized, nil)
	return err
}

// transition persists and publishes a new consent state
func (s *Service) transition(next models.ConsentState) error {
	s.mu.Lock()
	if err := s.prefs.SetBool(database.PrefConsentDataCollection, next.DataCollection); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.prefs.SetBool(database.PrefConsentPrivacyPolicy, next.PrivacyPolicy); err != nil {
		s.mu.Unlock()
		return err
	}
	if next.ConsentDate != nil {
		if err := s.prefs.SetTime(database.PrefConsentDate, *next.ConsentDate); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.state = next
	listeners := make([]func(models.ConsentState), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return nil
}

func (s *Service) logAudit(action string, details interface{}) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(action, details); err != nil {
		log.Printf("consent: failed to write audit entry %s: %v", action, err)
	}
}
