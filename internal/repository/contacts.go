package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/outreach-api/internal/entity"
)

// DefaultListLimit caps ListByOwner when the caller passes no limit.
const DefaultListLimit = 50

// ErrContactKey is returned when a contact carries nothing stable to key it by.
var ErrContactKey = errors.New("contact has no email, profile url, id or name")

// ContactsRepository describes persistence operations for resolved contacts.
type ContactsRepository interface {
	UpsertResolved(ctx context.Context, ownerID string, jobTitle string, contact entity.ResolvedContact) (*entity.SavedContact, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]entity.SavedContact, error)
}

type pgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// PGXContactsRepository implements ContactsRepository using pgx.
type PGXContactsRepository struct {
	pool pgxPool
}

// NewPGXContactsRepository wires a pgx backed repository. Any pool exposing
// Exec, Query and QueryRow works, which lets tests pass a pgxmock pool.
func NewPGXContactsRepository(pool pgxPool) *PGXContactsRepository {
	return &PGXContactsRepository{pool: pool}
}

const createSavedContacts = `
        CREATE TABLE IF NOT EXISTS saved_contacts (
            id UUID PRIMARY KEY,
            owner_id TEXT NOT NULL,
            contact_key TEXT NOT NULL,
            job_title TEXT,
            contact JSONB NOT NULL,
            email TEXT NOT NULL DEFAULT '',
            email_verified BOOLEAN NOT NULL DEFAULT FALSE,
            email_source TEXT NOT NULL DEFAULT '',
            score INTEGER NOT NULL DEFAULT 0,
            tier INTEGER NOT NULL DEFAULT 0,
            outreach TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (owner_id, contact_key)
        );
        CREATE INDEX IF NOT EXISTS idx_saved_contacts_owner ON saved_contacts (owner_id, updated_at DESC);
    `

// InitSchema creates the saved_contacts table when it does not exist yet.
func (r *PGXContactsRepository) InitSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createSavedContacts); err != nil {
		return fmt.Errorf("create saved_contacts: %w", err)
	}
	return nil
}

// UpsertResolved stores a resolved contact for ownerID, replacing the previous
// row for the same person.
func (r *PGXContactsRepository) UpsertResolved(ctx context.Context, ownerID string, jobTitle string, contact entity.ResolvedContact) (*entity.SavedContact, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("owner id must not be empty")
	}
	key := ContactKey(contact)
	if key == "" {
		return nil, ErrContactKey
	}

	payload, err := json.Marshal(contact.Contact)
	if err != nil {
		return nil, fmt.Errorf("marshal contact: %w", err)
	}

	var title *string
	if trimmed := strings.TrimSpace(jobTitle); trimmed != "" {
		title = &trimmed
	}

	query := `
        INSERT INTO saved_contacts (
            id,
            owner_id,
            contact_key,
            job_title,
            contact,
            email,
            email_verified,
            email_source,
            score,
            tier,
            outreach
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (owner_id, contact_key) DO UPDATE SET
            job_title = EXCLUDED.job_title,
            contact = EXCLUDED.contact,
            email = EXCLUDED.email,
            email_verified = EXCLUDED.email_verified,
            email_source = EXCLUDED.email_source,
            score = EXCLUDED.score,
            tier = EXCLUDED.tier,
            outreach = EXCLUDED.outreach,
            updated_at = NOW()
        RETURNING id, created_at, updated_at
    `

	saved := entity.SavedContact{
		OwnerID:         ownerID,
		JobTitle:        title,
		ResolvedContact: contact,
	}
	err = r.pool.QueryRow(ctx, query,
		uuid.NewString(),
		ownerID,
		key,
		title,
		payload,
		contact.Resolution.Email,
		contact.Resolution.Verified,
		string(contact.Resolution.Source),
		contact.Score,
		contact.Tier,
		contact.Outreach,
	).Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert saved contact: %w", err)
	}

	return &saved, nil
}

// ListByOwner returns the most recently updated contacts saved for ownerID.
func (r *PGXContactsRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]entity.SavedContact, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, owner_id, job_title, contact, email, email_verified, email_source, score, tier, outreach, created_at, updated_at
        FROM saved_contacts
        WHERE owner_id = $1
        ORDER BY updated_at DESC
        LIMIT $2
    `, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list saved contacts: %w", err)
	}
	defer rows.Close()

	var contacts []entity.SavedContact
	for rows.Next() {
		var (
			saved   entity.SavedContact
			payload []byte
			source  string
		)
		if err := rows.Scan(
			&saved.ID,
			&saved.OwnerID,
			&saved.JobTitle,
			&payload,
			&saved.Resolution.Email,
			&saved.Resolution.Verified,
			&source,
			&saved.Score,
			&saved.Tier,
			&saved.Outreach,
			&saved.CreatedAt,
			&saved.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan saved contact: %w", err)
		}
		if err := json.Unmarshal(payload, &saved.Contact); err != nil {
			return nil, fmt.Errorf("decode saved contact %s: %w", saved.ID, err)
		}
		saved.Resolution.Source = entity.EmailSource(source)
		contacts = append(contacts, saved)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved contacts: %w", err)
	}

	return contacts, nil
}

// ContactKey identifies the same person across saves: the resolved email,
// then the provider id, then the profile url, then name and company.
func ContactKey(contact entity.ResolvedContact) string {
	if email := strings.ToLower(strings.TrimSpace(contact.Resolution.Email)); email != "" {
		return "email:" + email
	}
	c := contact.Contact
	if id := strings.TrimSpace(c.ID); id != "" {
		return "id:" + id
	}
	if url := strings.ToLower(strings.TrimSpace(c.ProfileURL)); url != "" {
		return "url:" + url
	}
	name := strings.ToLower(c.DisplayName())
	if name == "" {
		return ""
	}
	return "name:" + name + "|" + strings.ToLower(strings.TrimSpace(c.Company))
}
