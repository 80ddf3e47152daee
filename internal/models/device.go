package models

import "time"

// PairedDevice represents a companion device paired with this primary device
type PairedDevice struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	TokenHash  string     `json:"-"` // Never expose in JSON
	PairedAt   time.Time  `json:"paired_at"`
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
}

// PairDeviceRequest is the request body for pairing a companion device
type PairDeviceRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
	Code string `json:"code" validate:"required"`
}

// ConsentAuditEntry is one append-only record of a consent or data-lifecycle
// operation.
type ConsentAuditEntry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
}
