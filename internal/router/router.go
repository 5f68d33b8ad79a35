package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/nexbid/auction-signup/internal/handler" // import the handlers that implement the signup flow
)

// RegisterRoutes registers routes that do not belong to the signup flow on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterSignup registers the registration draft endpoints under
// /v1/signup.  All of them are pre-auth: the whole flow exists to get a
// user registered in the first place.  The optional limiter middleware is
// applied to the group so rapid clients cannot hammer the backend dispatch.
func RegisterSignup(e *echo.Echo, h *handler.SignupHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/signup")
	if limiter != nil {
		g.Use(limiter)
	}
	// Open a fresh draft session.
	g.POST("/drafts", h.CreateDraft)
	// Read the current draft snapshot (fields, consent, preview, error slot).
	g.GET("/drafts/:id", h.GetDraft)
	// Unconstrained field writes; the role predicate filters at submit time.
	g.PATCH("/drafts/:id/fields", h.SetField)
	// Select the registrant's role.
	g.PUT("/drafts/:id/role", h.SetRole)
	// Record the explicit terms-acceptance choice.
	g.PUT("/drafts/:id/consent", h.SetConsent)
	// Ingest a selected profile picture (multipart field "profileImage").
	g.POST("/drafts/:id/image", h.UploadImage)
	// Run a submission attempt: consent gate, acceptance document, dispatch.
	g.POST("/drafts/:id/submit", h.Submit)
	// Discard the draft and everything attached to it.
	g.DELETE("/drafts/:id", h.DeleteDraft)
}
