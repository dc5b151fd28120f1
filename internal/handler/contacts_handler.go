package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/kataras/golog"
	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach-api/internal/dto"
	"github.com/octobees/outreach-api/internal/entity"
	middlewarepkg "github.com/octobees/outreach-api/internal/middleware"
	"github.com/octobees/outreach-api/internal/repository"
	"github.com/octobees/outreach-api/internal/service/finder"
)

// ContactFinder runs one finder cascade.
type ContactFinder interface {
	Find(ctx context.Context, req finder.Request) finder.Result
}

// ContactsHandler exposes the recruiter and hiring-manager finders plus the
// contacts saved from them.
type ContactsHandler struct {
	recruiters ContactFinder
	hiring     ContactFinder
	repo       repository.ContactsRepository
	logger     *golog.Logger
}

// NewContactsHandler wires the handler. repo may be nil when persistence is off.
func NewContactsHandler(recruiters, hiring ContactFinder, repo repository.ContactsRepository, logger *golog.Logger) *ContactsHandler {
	if logger == nil {
		logger = golog.Default
	}
	return &ContactsHandler{recruiters: recruiters, hiring: hiring, repo: repo, logger: logger}
}

type findResponse struct {
	finder.Result
	Saved int `json:"saved,omitempty"`
}

// Recruiters handles POST /contacts/recruiters.
func (h *ContactsHandler) Recruiters(c echo.Context) error {
	return h.find(c, h.recruiters)
}

// HiringManagers handles POST /contacts/hiring-managers.
func (h *ContactsHandler) HiringManagers(c echo.Context) error {
	return h.find(c, h.hiring)
}

func (h *ContactsHandler) find(c echo.Context, f ContactFinder) error {
	var req dto.FindContactsRequest
	if msg := bindAndValidate(c, &req); msg != "" {
		return Error(c, http.StatusBadRequest, msg)
	}

	owner := middlewarepkg.UserIDFromContext(c)
	if req.Save {
		if h.repo == nil {
			return Error(c, http.StatusServiceUnavailable, "contact persistence is not configured")
		}
		if owner == "" {
			return Error(c, http.StatusUnauthorized, "missing user")
		}
	}

	ctx := c.Request().Context()
	result := f.Find(ctx, finder.Request{
		Company:          req.Company,
		JobTitle:         req.JobTitle,
		JobDescription:   req.JobDescription,
		City:             req.City,
		State:            req.State,
		MaxResults:       req.MaxResults,
		VerifyEmails:     req.VerifyEmails,
		GenerateOutreach: req.GenerateOutreach,
	})
	if result.Error != "" {
		h.logger.Warnf("request_id=%s finder failed for %q: %s", middlewarepkg.RequestIDFromContext(c), req.Company, result.Error)
		return Error(c, http.StatusBadGateway, result.Error)
	}

	resp := findResponse{Result: result}
	if req.Save {
		for _, rc := range result.Contacts {
			if _, err := h.repo.UpsertResolved(ctx, owner, req.JobTitle, rc); err != nil {
				h.logger.Errorf("request_id=%s save contact %q: %v", middlewarepkg.RequestIDFromContext(c), rc.Contact.DisplayName(), err)
				continue
			}
			resp.Saved++
		}
	}

	return Success(c, http.StatusOK, result.Message, resp)
}

// Saved handles GET /contacts/saved.
func (h *ContactsHandler) Saved(c echo.Context) error {
	if h.repo == nil {
		return Error(c, http.StatusServiceUnavailable, "contact persistence is not configured")
	}
	owner := middlewarepkg.UserIDFromContext(c)
	if owner == "" {
		return Error(c, http.StatusUnauthorized, "missing user")
	}

	limit := repository.DefaultListLimit
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 200 {
			return Error(c, http.StatusBadRequest, "limit must be between 1 and 200")
		}
		limit = n
	}

	contacts, err := h.repo.ListByOwner(c.Request().Context(), owner, limit)
	if err != nil {
		h.logger.Errorf("request_id=%s list saved contacts: %v", middlewarepkg.RequestIDFromContext(c), err)
		return Error(c, http.StatusInternalServerError, "could not load saved contacts")
	}
	if contacts == nil {
		contacts = []entity.SavedContact{}
	}
	return Success(c, http.StatusOK, "", map[string]any{"contacts": contacts, "count": len(contacts)})
}
