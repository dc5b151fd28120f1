package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach-api/internal/entity"
	"github.com/octobees/outreach-api/internal/service/emailresolve"
	"github.com/octobees/outreach-api/internal/service/finder"
)

type stubResolver struct {
	resolve func(ctx context.Context, req emailresolve.Request) entity.Resolution
	profile func(ctx context.Context, enricher emailresolve.Enricher, profileURL, targetCompany string) (entity.ResolvedContact, error)
	lastReq emailresolve.Request
}

func (s *stubResolver) Resolve(ctx context.Context, req emailresolve.Request) entity.Resolution {
	s.lastReq = req
	if s.resolve == nil {
		return entity.NoResolution
	}
	return s.resolve(ctx, req)
}

func (s *stubResolver) ResolveProfile(ctx context.Context, enricher emailresolve.Enricher, profileURL, targetCompany string) (entity.ResolvedContact, error) {
	return s.profile(ctx, enricher, profileURL, targetCompany)
}

type stubBatch struct {
	result emailresolve.BatchResult
	mode   string
}

func (s *stubBatch) ResolveAll(ctx context.Context, contacts []entity.Contact, targetCompany string) emailresolve.BatchResult {
	s.mode = "verify"
	return s.result
}

func (s *stubBatch) GenerateAll(ctx context.Context, contacts []entity.Contact, targetCompany string) emailresolve.BatchResult {
	s.mode = "fast"
	return s.result
}

type stubFinder struct {
	result  finder.Result
	lastReq finder.Request
	calls   int
}

func (s *stubFinder) Find(ctx context.Context, req finder.Request) finder.Result {
	s.calls++
	s.lastReq = req
	return s.result
}

type stubContactsRepo struct {
	upsertErr error
	upserted  []entity.ResolvedContact
	lastOwner string
	list      []entity.SavedContact
	listErr   error
	lastLimit int
}

func (s *stubContactsRepo) UpsertResolved(ctx context.Context, ownerID string, jobTitle string, contact entity.ResolvedContact) (*entity.SavedContact, error) {
	s.lastOwner = ownerID
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	s.upserted = append(s.upserted, contact)
	return &entity.SavedContact{ID: "saved-1", OwnerID: ownerID, ResolvedContact: contact}, nil
}

func (s *stubContactsRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]entity.SavedContact, error) {
	s.lastOwner = ownerID
	s.lastLimit = limit
	return s.list, s.listErr
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int) envelope {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("expected status %d, got %d: %s", wantStatus, rec.Code, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

