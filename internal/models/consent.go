package models

import "time"

// ConsentState holds the user's RGPD consent flags.
// Both flags are always mutated together: accepting consent sets both true,
// rejecting or revoking sets both false. ConsentDate is only written on
// acceptance and is intentionally left in place on revocation (data removal
// is governed by the export/delete operations, not by the consent flags).
type ConsentState struct {
	DataCollection bool       `json:"data_collection"`
	PrivacyPolicy  bool       `json:"privacy_policy"`
	ConsentDate    *time.Time `json:"consent_date,omitempty"`
}

// Granted returns true if the user currently consents to data processing.
func (s ConsentState) Granted() bool {
	return s.DataCollection && s.PrivacyPolicy
}

// Normalized returns a copy with mixed flag combinations collapsed to
// not-granted. (true,false) and (false,true) are unreachable through the
// consent service; if they show up in storage they are treated as invalid.
func (s ConsentState) Normalized() ConsentState {
	if s.DataCollection != s.PrivacyPolicy {
		s.DataCollection = false
		s.PrivacyPolicy = false
	}
	return s
}
