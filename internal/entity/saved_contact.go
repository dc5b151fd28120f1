package entity

import "time"

// SavedContact is a resolved contact persisted for the user that requested it.
type SavedContact struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	JobTitle  *string   `json:"job_title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ResolvedContact
}
