package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/octobees/outreach-api/internal/entity"
	middlewarepkg "github.com/octobees/outreach-api/internal/middleware"
	"github.com/octobees/outreach-api/internal/service/finder"
)

func foundRecruiters() finder.Result {
	return finder.Result{
		Contacts: []entity.ResolvedContact{
			{Contact: entity.Contact{FirstName: "Jane", LastName: "Doe", Title: "Technical Recruiter"}, Score: 80},
			{Contact: entity.Contact{FirstName: "John", LastName: "Roe", Title: "Recruiter"}, Score: 60},
		},
		JobType: "engineering",
		Tier:    finder.TierRecruiters,
		Message: "found 2 recruiters",
	}
}

func TestContactsHandler_Recruiters(t *testing.T) {
	recruiters := &stubFinder{result: foundRecruiters()}
	h := NewContactsHandler(recruiters, &stubFinder{}, nil, nil)

	c, rec := newJSONContext(http.MethodPost, "/contacts/recruiters",
		`{"company":" Acme ","job_title":"Backend Engineer","city":"Austin","max_results":5,"verify_emails":true}`)
	if err := h.Recruiters(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	env := decodeEnvelope(t, rec, http.StatusOK)
	if env.Message != "found 2 recruiters" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	if recruiters.lastReq.Company != "Acme" || recruiters.lastReq.MaxResults != 5 || !recruiters.lastReq.VerifyEmails {
		t.Fatalf("request not forwarded: %+v", recruiters.lastReq)
	}

	var data struct {
		Contacts []entity.ResolvedContact `json:"contacts"`
		Tier     string                   `json:"tier"`
		Saved    int                      `json:"saved"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Contacts) != 2 || data.Tier != finder.TierRecruiters || data.Saved != 0 {
		t.Fatalf("unexpected data: %s", env.Data)
	}
}

func TestContactsHandler_HiringManagersUsesHiringFinder(t *testing.T) {
	recruiters := &stubFinder{}
	hiring := &stubFinder{result: finder.Result{Message: "found 0 hiring contacts"}}
	h := NewContactsHandler(recruiters, hiring, nil, nil)

	c, rec := newJSONContext(http.MethodPost, "/contacts/hiring-managers", `{"company":"Acme"}`)
	if err := h.HiringManagers(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decodeEnvelope(t, rec, http.StatusOK)
	if hiring.calls != 1 || recruiters.calls != 0 {
		t.Fatalf("expected hiring finder only, got recruiters=%d hiring=%d", recruiters.calls, hiring.calls)
	}
}

func TestContactsHandler_FinderErrorIsBadGateway(t *testing.T) {
	h := NewContactsHandler(&stubFinder{result: finder.Result{Error: "provider api error: op=search status=500"}}, &stubFinder{}, nil, nil)

	c, rec := newJSONContext(http.MethodPost, "/contacts/recruiters", `{"company":"Acme"}`)
	_ = h.Recruiters(c)
	env := decodeEnvelope(t, rec, http.StatusBadGateway)
	if env.Message != "provider api error: op=search status=500" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestContactsHandler_RequiresCompany(t *testing.T) {
	recruiters := &stubFinder{}
	h := NewContactsHandler(recruiters, &stubFinder{}, nil, nil)

	c, rec := newJSONContext(http.MethodPost, "/contacts/recruiters", `{"job_title":"Backend Engineer"}`)
	_ = h.Recruiters(c)
	decodeEnvelope(t, rec, http.StatusBadRequest)
	if recruiters.calls != 0 {
		t.Fatalf("expected finder not called")
	}
}

func TestContactsHandler_Save(t *testing.T) {
	repo := &stubContactsRepo{}
	h := NewContactsHandler(&stubFinder{result: foundRecruiters()}, &stubFinder{}, repo, nil)

	c, rec := newJSONContext(http.MethodPost, "/contacts/recruiters", `{"company":"Acme","save":true}`)
	c.Set(middlewarepkg.ContextKeyUserID, "user-1")
	if err := h.Recruiters(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	env := decodeEnvelope(t, rec, http.StatusOK)
	var data struct {
		Saved int `json:"saved"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Saved != 2 || len(repo.upserted) != 2 || repo.lastOwner != "user-1" {
		t.Fatalf("expected both contacts saved for user-1, got saved=%d owner=%q", data.Saved, repo.lastOwner)
	}
}

func TestContactsHandler_SaveFailuresAreSkipped(t *testing.T) {
	repo := &stubContactsRepo{upsertErr: errors.New("db down")}
	h := NewContactsHandler(&stubFinder{result: foundRecruiters()}, &stubFinder{}, repo, nil)

	c, rec := newJSONContext(http.MethodPost, "/contacts/recruiters", `{"company":"Acme","save":true}`)
	c.Set(middlewarepkg.ContextKeyUserID, "user-1")
	_ = h.Recruiters(c)

	env := decodeEnvelope(t, rec, http.StatusOK)
	if string(env.Data) == "" {
		t.Fatalf("expected contacts in response")
	}
	var data struct {
		Saved    int                      `json:"saved"`
		Contacts []entity.ResolvedContact `json:"contacts"`
	}
	_ = json.Unmarshal(env.Data, &data)
	if data.Saved != 0 || len(data.Contacts) != 2 {
		t.Fatalf("unexpected data: %s", env.Data)
	}
}

func TestContactsHandler_SaveWithoutPersistence(t *testing.T) {
	recruiters := &stubFinder{}
	h := NewContactsHandler(recruiters, &stubFinder{}, nil, nil)

	c, rec := newJSONContext(http.MethodPost, "/contacts/recruiters", `{"company":"Acme","save":true}`)
	c.Set(middlewarepkg.ContextKeyUserID, "user-1")
	_ = h.Recruiters(c)
	decodeEnvelope(t, rec, http.StatusServiceUnavailable)

	h = NewContactsHandler(recruiters, &stubFinder{}, &stubContactsRepo{}, nil)
	c, rec = newJSONContext(http.MethodPost, "/contacts/recruiters", `{"company":"Acme","save":true}`)
	_ = h.Recruiters(c)
	decodeEnvelope(t, rec, http.StatusUnauthorized)

	if recruiters.calls != 0 {
		t.Fatalf("expected finder not called")
	}
}

func TestContactsHandler_Saved(t *testing.T) {
	repo := &stubContactsRepo{list: []entity.SavedContact{{ID: "saved-1", OwnerID: "user-1"}}}
	h := NewContactsHandler(&stubFinder{}, &stubFinder{}, repo, nil)

	c, rec := newJSONContext(http.MethodGet, "/contacts/saved?limit=20", "")
	c.Set(middlewarepkg.ContextKeyUserID, "user-1")
	if err := h.Saved(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	env := decodeEnvelope(t, rec, http.StatusOK)
	var data struct {
		Contacts []entity.SavedContact `json:"contacts"`
		Count    int                   `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Count != 1 || data.Contacts[0].ID != "saved-1" || repo.lastLimit != 20 {
		t.Fatalf("unexpected data %s (limit %d)", env.Data, repo.lastLimit)
	}
}

func TestContactsHandler_SavedErrors(t *testing.T) {
	cases := map[string]struct {
		repo   *stubContactsRepo
		user   string
		target string
		status int
	}{
		"no persistence": {user: "user-1", target: "/contacts/saved", status: http.StatusServiceUnavailable},
		"no user":        {repo: &stubContactsRepo{}, target: "/contacts/saved", status: http.StatusUnauthorized},
		"bad limit":      {repo: &stubContactsRepo{}, user: "user-1", target: "/contacts/saved?limit=0", status: http.StatusBadRequest},
		"repo failure":   {repo: &stubContactsRepo{listErr: errors.New("boom")}, user: "user-1", target: "/contacts/saved", status: http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var h *ContactsHandler
			if tc.repo == nil {
				h = NewContactsHandler(&stubFinder{}, &stubFinder{}, nil, nil)
			} else {
				h = NewContactsHandler(&stubFinder{}, &stubFinder{}, tc.repo, nil)
			}
			c, rec := newJSONContext(http.MethodGet, tc.target, "")
			if tc.user != "" {
				c.Set(middlewarepkg.ContextKeyUserID, tc.user)
			}
			_ = h.Saved(c)
			decodeEnvelope(t, rec, tc.status)
		})
	}
}
