package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach-api/internal/auth"
	"github.com/octobees/outreach-api/internal/config"
	"github.com/octobees/outreach-api/internal/handler"
	middlewarepkg "github.com/octobees/outreach-api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Emails   *handler.EmailsHandler
	Contacts *handler.ContactsHandler
}

// Register wires all HTTP routes for the API. Every outreach route requires a
// bearer token and draws from one shared rate limit.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	outreach := secured.Group("", middlewarepkg.RateLimiter(cfg.RateLimitOutreach))

	if handlers.Emails != nil {
		outreach.POST("/emails/resolve", handlers.Emails.Resolve)
		outreach.POST("/emails/resolve-profile", handlers.Emails.ResolveProfile)
		outreach.POST("/emails/batch", handlers.Emails.Batch)
	}

	if handlers.Contacts != nil {
		outreach.POST("/contacts/recruiters", handlers.Contacts.Recruiters)
		outreach.POST("/contacts/hiring-managers", handlers.Contacts.HiringManagers)
		secured.GET("/contacts/saved", handlers.Contacts.Saved)
	}
}
