package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bestweather/finder/internal/domain"
	"github.com/bestweather/finder/internal/service"
)

// Finder is the part of service.Finder the handlers use
type Finder interface {
	Resolve(ctx context.Context, name string) domain.Session
	Find(ctx context.Context, name string, choice *int, q service.Query) domain.Session
}

// HealthChecker reports backend connectivity
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Defaults fill in omitted query fields and drive the page's input ranges
type Defaults struct {
	RadiusKm      float64
	MaxRadiusKm   float64
	MinPopulation int
	MaxDaysAhead  int
	Weights       domain.Weights
}

// Handler contains all HTTP handlers
type Handler struct {
	finder     Finder
	gazetteer  HealthChecker
	defaults   Defaults
	runTimeout time.Duration
}

// NewHandler creates a new handler
func NewHandler(finder Finder, gazetteer HealthChecker, defaults Defaults, runTimeout time.Duration) *Handler {
	return &Handler{
		finder:     finder,
		gazetteer:  gazetteer,
		defaults:   defaults,
		runTimeout: runTimeout,
	}
}

// ResolveRequest is the body of POST /api/v1/resolve
type ResolveRequest struct {
	Name string `json:"name"`
}

// FindRequest is the body of POST /api/v1/find; omitted fields take defaults
type FindRequest struct {
	Name          string          `json:"name"`
	Choice        *int            `json:"choice,omitempty"`
	RadiusKm      *float64        `json:"radius_km,omitempty"`
	MinPopulation *int            `json:"min_population,omitempty"`
	DaysAhead     int             `json:"days_ahead"`
	Weights       *domain.Weights `json:"weights,omitempty"`
}

// SessionResponse wraps a session with presentation data
type SessionResponse struct {
	Success bool           `json:"success"`
	Session domain.Session `json:"session"`
	Markers []Marker       `json:"markers,omitempty"`
	Message string         `json:"message,omitempty"`
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	gazetteer := "ok"
	if err := h.gazetteer.Health(ctx); err != nil {
		gazetteer = err.Error()
	}
	return c.JSON(fiber.Map{
		"status":    "ok",
		"service":   "best-weather-finder",
		"version":   "1.0.0",
		"gazetteer": gazetteer,
	})
}

// Resolve geocodes a place name and reports whether it needs disambiguation
func (h *Handler) Resolve(c *fiber.Ctx) error {
	var req ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.runTimeout)
	defer cancel()

	return h.respond(c, h.finder.Resolve(ctx, req.Name))
}

// Find runs a full search and returns the ranked results with map markers
func (h *Handler) Find(c *fiber.Ctx) error {
	var req FindRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.runTimeout)
	defer cancel()

	return h.respond(c, h.finder.Find(ctx, req.Name, req.Choice, h.query(req)))
}

func (h *Handler) query(req FindRequest) service.Query {
	q := service.Query{
		RadiusKm:      h.defaults.RadiusKm,
		MinPopulation: h.defaults.MinPopulation,
		DaysAhead:     req.DaysAhead,
		Weights:       h.defaults.Weights,
	}
	if req.RadiusKm != nil {
		q.RadiusKm = *req.RadiusKm
	}
	if req.MinPopulation != nil {
		q.MinPopulation = *req.MinPopulation
	}
	if req.Weights != nil {
		q.Weights = *req.Weights
	}
	return q
}

func (h *Handler) respond(c *fiber.Ctx, s domain.Session) error {
	if s.Failure != nil && s.Failure.Kind == domain.FailureInternal {
		// the wrapped cause is logged by the finder, clients get the generic text
		f := *s.Failure
		f.Message = failureMessage(&f)
		s.Failure = &f
	}
	resp := SessionResponse{
		Success: s.State != domain.StateFailed,
		Session: s,
		Markers: BuildMarkers(s.Report),
	}
	switch {
	case s.Failure != nil:
		resp.Message = failureMessage(s.Failure)
		return c.Status(statusFor(s.Failure.Kind)).JSON(resp)
	case s.State == domain.StateAwaitingDisambiguation:
		resp.Message = "Several places share this name, please pick one"
	case s.Report != nil && s.Report.IsMock:
		resp.Message = "No OpenWeatherMap API key configured, showing simulated forecasts"
	}
	return c.JSON(resp)
}

func statusFor(kind domain.FailureKind) int {
	switch kind {
	case domain.FailureInput:
		return fiber.StatusBadRequest
	case domain.FailureNotFound:
		return fiber.StatusNotFound
	case domain.FailureNoCandidates:
		return fiber.StatusUnprocessableEntity
	case domain.FailureUpstreamTimeout:
		return fiber.StatusGatewayTimeout
	case domain.FailureUpstream:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func failureMessage(f *domain.Failure) string {
	switch f.Kind {
	case domain.FailureNotFound:
		return "Could not find coordinates for this location. Make sure it is spelled correctly and in English."
	case domain.FailureNoCandidates:
		return "No towns match the radius and population constraints. Try a larger radius or a lower population floor."
	case domain.FailureUpstreamTimeout:
		return "An external service took too long to answer. Please try again."
	case domain.FailureUpstream:
		return "An external service failed. Please try again later."
	case domain.FailureInput:
		return f.Message
	default:
		return "Internal Server Error"
	}
}

// ErrorHandler renders errors returned by handlers as JSON
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
