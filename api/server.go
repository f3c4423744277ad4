/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/systems/*        Rotation system configs
  /api/plan             Schedule materialization
  /api/schedules/*      Schedule instances and lifecycle
  /api/employees/*      Per-employee timelines and stats
  /api/punches          Punch ingestion
  /api/closeout         End-of-day batch
  /api/leave            Approved leave days
  /api/conflicts        Conflict detection
  /api/summary/*        Aggregates
  /api/scenarios/*      Demo scenarios
  /api/reset            Database reset (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Rotation system routes
		r.Route("/systems", func(r chi.Router) {
			r.Get("/", h.ListSystems)
			r.Post("/", h.CreateSystem)
			r.Get("/{id}", h.GetSystem)
		})

		// Planning
		r.Post("/plan", h.GeneratePlan)

		// Schedule routes
		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", h.ListSchedulesByDate)
			r.Get("/{id}", h.GetSchedule)
			r.Post("/{id}/evaluate", h.EvaluateSchedule)
			r.Post("/{id}/exchange", h.ExchangeSchedule)
			r.Post("/{id}/cancel", h.CancelSchedule)
			r.Post("/{id}/leave", h.MarkScheduleOnLeave)
			r.Post("/{id}/handover", h.CompleteHandover)
		})

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/{id}/schedules", h.ListEmployeeSchedules)
			r.Get("/{id}/stats", h.GetEmployeeStats)
		})

		// Attendance routes
		r.Post("/punches", h.RecordPunches)
		r.Post("/closeout", h.RunCloseout)
		r.Post("/leave", h.RecordLeave)

		// Reporting routes
		r.Get("/conflicts", h.ListConflicts)
		r.Get("/summary/day", h.GetDaySummary)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})

		r.Post("/reset", h.ResetDatabase)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Rotation Attendance Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Rotation Attendance Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/systems">/api/systems</a> - List rotation systems</li>
<li>/api/schedules?date=YYYY-MM-DD - List a day's schedule instances</li>
<li>/api/summary/day?date=YYYY-MM-DD - Day summary</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
