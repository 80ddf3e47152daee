package database

import (
	"encoding/json"
	"time"

	"garderobe-backend/internal/models"
)

// AuditRepo handles the consent audit log. Every consent transition and
// data-lifecycle operation gets one append-only entry.
type AuditRepo struct{}

// NewAuditRepo creates a new audit repository
func NewAuditRepo() *AuditRepo {
	return &AuditRepo{}
}

// Log creates an audit entry with the current timestamp
func (r *AuditRepo) Log(action string, details interface{}) error {
	var detailsJSON string
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			detailsJSON = "{}"
		} else {
			detailsJSON = string(b)
		}
	}

	_, err := DB.Exec(`
		INSERT INTO consent_audit (timestamp, action, details)
		VALUES (?, ?, ?)
	`, time.Now(), action, detailsJSON)
	return err
}

// List retrieves the most recent audit entries, newest first
func (r *AuditRepo) List(limit int) ([]*models.ConsentAuditEntry, error) {
	query := "SELECT id, timestamp, action, details FROM consent_audit ORDER BY timestamp DESC, id DESC"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ConsentAuditEntry
	for rows.Next() {
		entry := &models.ConsentAuditEntry{}
		if err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.Action, &entry.Details); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
