package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/attendance-core/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the process-level settings the router needs.
type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	Version        string
	LogLevel       slog.Level
}

func NewRouter(
	JWTService jwt.Service,
	opts RouterOptions,
	attendanceHandler AttendanceHandler,
	backfillHandler BackfillHandler,
	locationHandler LocationHandler,
	workdayHandler WorkdayHandler,
	adminHandler AdminHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-core"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/workday/status", workdayHandler.Status)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Put("/check-out", attendanceHandler.UpdateCheckOut)
				r.Get("/today", attendanceHandler.Today)
				r.Get("/my", attendanceHandler.MyRecords)
				r.Get("/location-check", attendanceHandler.CheckLocation)

				// Admins and department managers
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireReviewer)
					r.Get("/", attendanceHandler.List)
					r.Get("/alerts", attendanceHandler.Alerts)
				})
			})

			r.Route("/backfills", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEmployee)
					r.Post("/", backfillHandler.Submit)
					r.Get("/my", backfillHandler.ListMine)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireReviewer)
					r.Get("/", backfillHandler.ListForReview)
					r.Post("/{id}/review", backfillHandler.Review)
				})
			})

			r.Route("/locations", func(r chi.Router) {
				r.Get("/", locationHandler.List)
				r.Get("/active", locationHandler.ListActive)
				r.Get("/{id}", locationHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", locationHandler.Create)
					r.Put("/{id}", locationHandler.Update)
					r.Delete("/{id}", locationHandler.Delete)
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/employees/{employeeID}/locations", locationHandler.GetEmployeeLocations)
				r.Put("/employees/{employeeID}/locations", locationHandler.AssignEmployeeLocations)
				r.Post("/absence-sweep", adminHandler.RunAbsenceSweep)
				r.Get("/jobs", adminHandler.ListJobs)
			})
		})
	})
	return r
}
