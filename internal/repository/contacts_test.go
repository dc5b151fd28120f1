package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octobees/outreach-api/internal/entity"
)

func resolvedJane() entity.ResolvedContact {
	return entity.ResolvedContact{
		Contact: entity.Contact{
			ID:        "pdl-1",
			FirstName: "Jane",
			LastName:  "Doe",
			Company:   "Acme",
			Title:     "Technical Recruiter",
		},
		Resolution: entity.Resolution{Email: "Jane.Doe@acme.com", Verified: true, Source: entity.EmailSourceHunter},
		Score:      80,
	}
}

func TestPGXContactsRepository_InitSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS saved_contacts")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	repo := NewPGXContactsRepository(mock)
	assert.NoError(t, repo.InitSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGXContactsRepository_UpsertResolved(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rc := resolvedJane()
	payload, _ := json.Marshal(rc.Contact)
	title := "Backend Engineer"
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO saved_contacts")).
		WithArgs(
			pgxmock.AnyArg(),
			"user-1",
			"email:jane.doe@acme.com",
			&title,
			payload,
			"Jane.Doe@acme.com",
			true,
			"hunter.io",
			80,
			0,
			"",
		).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("11111111-2222-3333-4444-555555555555", now, now))

	repo := NewPGXContactsRepository(mock)
	saved, err := repo.UpsertResolved(context.Background(), " user-1 ", " Backend Engineer ", rc)
	require.NoError(t, err)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", saved.ID)
	assert.Equal(t, "user-1", saved.OwnerID)
	assert.Equal(t, "Backend Engineer", *saved.JobTitle)
	assert.Equal(t, "Jane.Doe@acme.com", saved.Resolution.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGXContactsRepository_UpsertResolvedErrors(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPGXContactsRepository(mock)

	_, err = repo.UpsertResolved(context.Background(), "", "", resolvedJane())
	assert.Error(t, err)

	_, err = repo.UpsertResolved(context.Background(), "user-1", "", entity.ResolvedContact{})
	assert.ErrorIs(t, err, ErrContactKey)

	boom := errors.New("boom")
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO saved_contacts")).WillReturnError(boom)
	_, err = repo.UpsertResolved(context.Background(), "user-1", "", resolvedJane())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGXContactsRepository_ListByOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rc := resolvedJane()
	payload, _ := json.Marshal(rc.Contact)
	title := "Backend Engineer"
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "owner_id", "job_title", "contact", "email", "email_verified",
		"email_source", "score", "tier", "outreach", "created_at", "updated_at",
	}).
		AddRow("id-1", "user-1", &title, payload, "Jane.Doe@acme.com", true, "hunter.io", 80, 0, "Hi Jane", now, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM saved_contacts")).
		WithArgs("user-1", DefaultListLimit).
		WillReturnRows(rows)

	repo := NewPGXContactsRepository(mock)
	contacts, err := repo.ListByOwner(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.Len(t, contacts, 1)

	got := contacts[0]
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "Jane", got.Contact.FirstName)
	assert.Equal(t, "Technical Recruiter", got.Contact.Title)
	assert.Equal(t, entity.EmailSourceHunter, got.Resolution.Source)
	assert.True(t, got.Resolution.Verified)
	assert.Equal(t, 80, got.Score)
	assert.Equal(t, "Hi Jane", got.Outreach)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGXContactsRepository_ListByOwnerQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM saved_contacts")).
		WithArgs("user-1", 5).
		WillReturnError(errors.New("connection reset"))

	repo := NewPGXContactsRepository(mock)
	_, err = repo.ListByOwner(context.Background(), "user-1", 5)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactKey(t *testing.T) {
	cases := map[string]struct {
		contact entity.ResolvedContact
		want    string
	}{
		"email wins": {
			contact: entity.ResolvedContact{Contact: entity.Contact{ID: "x"}, Resolution: entity.Resolution{Email: " A@B.com "}},
			want:    "email:a@b.com",
		},
		"provider id": {
			contact: entity.ResolvedContact{Contact: entity.Contact{ID: "pdl-9", ProfileURL: "linkedin.com/in/x"}},
			want:    "id:pdl-9",
		},
		"profile url": {
			contact: entity.ResolvedContact{Contact: entity.Contact{ProfileURL: "LinkedIn.com/in/X"}},
			want:    "url:linkedin.com/in/x",
		},
		"name and company": {
			contact: entity.ResolvedContact{Contact: entity.Contact{FirstName: "Jane", LastName: "Doe", Company: "Acme"}},
			want:    "name:jane doe|acme",
		},
		"nothing": {
			contact: entity.ResolvedContact{},
			want:    "",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, ContactKey(tc.contact))
		})
	}
}
