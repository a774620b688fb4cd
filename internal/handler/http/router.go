package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rotulos-pr/fieldops-backend-go/internal/handler/http/middleware"
)

type Handlers struct {
	Worker     WorkerHandler
	Attendance AttendanceHandler
	Dispatch   DispatchHandler
	Ticket     TicketHandler
	Permit     PermitHandler
	Patrol     PatrolHandler
	Stream     StreamHandler
}

func NewRouter(ja *jwtauth.JWTAuth, allowedOrigins []string, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "fieldops"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Snapshot-Degraded"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// EventSource cannot set headers, so the stream sits outside the
		// bearer-token group. It only replays snapshots, never accepts writes.
		r.Get("/stream", h.Stream.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(ja))
			r.Use(middleware.ActorRequired(ja))

			r.Route("/workers", func(r chi.Router) {
				r.Get("/", h.Worker.List)
				r.Post("/", h.Worker.Create)
				r.Get("/{id}", h.Worker.Get)
				r.Patch("/{id}/active", h.Worker.SetActive)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.Attendance.List)
				r.Post("/clock-in", h.Attendance.ClockIn)
				r.Post("/{id}/clock-out", h.Attendance.ClockOut)
				r.Get("/workers/{workerID}/status", h.Attendance.WorkerStatus)
			})

			r.Route("/dispatch", func(r chi.Router) {
				r.Get("/week", h.Dispatch.WeekGrid)
				r.Route("/jobs", func(r chi.Router) {
					r.Get("/", h.Dispatch.List)
					r.Post("/", h.Dispatch.CreateJob)
					r.Patch("/{id}/assignment", h.Dispatch.Reassign)
					r.Delete("/{id}", h.Dispatch.DeleteJob)
				})
			})

			r.Route("/tickets", func(r chi.Router) {
				r.Get("/", h.Ticket.List)
				r.Post("/", h.Ticket.Create)
				r.Patch("/{id}/status", h.Ticket.UpdateStatus)
			})

			r.Route("/permits", func(r chi.Router) {
				r.Get("/", h.Permit.List)
				r.Post("/", h.Permit.Create)
				r.Get("/expiring", h.Permit.ExpiringSoon)
				r.Patch("/{id}/status", h.Permit.UpdateStatus)
			})

			r.Route("/patrol", func(r chi.Router) {
				r.Get("/entries", h.Patrol.List)
				r.Post("/entries", h.Patrol.Create)
			})
		})
	})

	return r
}
