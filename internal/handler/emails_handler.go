package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kataras/golog"
	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach-api/internal/dto"
	"github.com/octobees/outreach-api/internal/entity"
	middlewarepkg "github.com/octobees/outreach-api/internal/middleware"
	"github.com/octobees/outreach-api/internal/provider"
	"github.com/octobees/outreach-api/internal/service/emailresolve"
)

// EmailResolver resolves single contacts.
type EmailResolver interface {
	Resolve(ctx context.Context, req emailresolve.Request) entity.Resolution
	ResolveProfile(ctx context.Context, enricher emailresolve.Enricher, profileURL, targetCompany string) (entity.ResolvedContact, error)
}

// BatchResolver resolves many contacts at once.
type BatchResolver interface {
	ResolveAll(ctx context.Context, contacts []entity.Contact, targetCompany string) emailresolve.BatchResult
	GenerateAll(ctx context.Context, contacts []entity.Contact, targetCompany string) emailresolve.BatchResult
}

// EmailsHandler exposes the email resolution endpoints.
type EmailsHandler struct {
	resolver EmailResolver
	batch    BatchResolver
	enricher emailresolve.Enricher
	policy   emailresolve.DraftPolicy
	logger   *golog.Logger
}

// NewEmailsHandler creates a new handler instance.
func NewEmailsHandler(resolver EmailResolver, batch BatchResolver, enricher emailresolve.Enricher, policy emailresolve.DraftPolicy, logger *golog.Logger) *EmailsHandler {
	if logger == nil {
		logger = golog.Default
	}
	return &EmailsHandler{resolver: resolver, batch: batch, enricher: enricher, policy: policy, logger: logger}
}

// Resolve handles POST /emails/resolve.
func (h *EmailsHandler) Resolve(c echo.Context) error {
	var req dto.ResolveEmailRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return Error(c, http.StatusBadRequest, msg)
	}

	res := h.resolver.Resolve(c.Request().Context(), emailresolve.Request{
		ProviderEmail:  strings.TrimSpace(req.PDLEmail),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Company:        req.Company,
		CompanyWebsite: req.Website,
		TargetDomain:   req.TargetDomain,
		SkipPersonal:   req.SkipPersonal,
	})

	message := "email resolved"
	if !res.Found() {
		message = "no email found"
	}
	return Success(c, http.StatusOK, message, res)
}

// ResolveProfile handles POST /emails/resolve-profile.
func (h *EmailsHandler) ResolveProfile(c echo.Context) error {
	var req dto.ResolveProfileRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return Error(c, http.StatusBadRequest, msg)
	}

	rc, err := h.resolver.ResolveProfile(c.Request().Context(), h.enricher, req.ProfileURL, req.TargetCompany)
	switch {
	case err == nil:
		return Success(c, http.StatusOK, "profile resolved", rc)
	case errors.Is(err, provider.ErrNotConfigured):
		return Error(c, http.StatusServiceUnavailable, "profile enrichment is not configured")
	case errors.Is(err, emailresolve.ErrProfileNotFound):
		return Error(c, http.StatusNotFound, "profile not found")
	default:
		h.logger.Warnf("request_id=%s resolve profile failed: %v", middlewarepkg.RequestIDFromContext(c), err)
		return Error(c, http.StatusBadGateway, "profile enrichment failed")
	}
}

// Batch handles POST /emails/batch. Verify mode runs the full resolution per
// contact; fast mode only generates pattern addresses.
func (h *EmailsHandler) Batch(c echo.Context) error {
	var req dto.BatchResolveRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return Error(c, http.StatusBadRequest, msg)
	}

	ctx := c.Request().Context()
	var result emailresolve.BatchResult
	if req.Mode == dto.BatchModeFast {
		result = h.batch.GenerateAll(ctx, req.Contacts, req.TargetCompany)
	} else {
		result = h.batch.ResolveAll(ctx, req.Contacts, req.TargetCompany)
	}

	verified, unverified, none := result.Counts()
	order := result.DraftOrder(h.policy)
	if order == nil {
		order = []int{}
	}
	return Success(c, http.StatusOK, "batch resolved", dto.BatchResolveResponse{
		Contacts:   result.Items,
		DraftOrder: order,
		Verified:   verified,
		Unverified: unverified,
		NoEmail:    none,
	})
}
