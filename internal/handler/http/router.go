package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

type Handlers struct {
	Auth       AuthHandler
	CheckClock CheckClockHandler
	Setting    SettingHandler
	Report     ReportHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Post("/auth/logout", h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCompany)

				r.Route("/check-clocks", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/", h.CheckClock.Create)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceViewAll))
						r.Get("/", h.CheckClock.Daily)
						r.Get("/filter", h.CheckClock.Filter)
						r.Get("/employees", h.CheckClock.Employees)
						r.Get("/{id}", h.CheckClock.Get)
					})

					r.With(middleware.RequirePermission(user.PermissionReportsExport)).Get("/export", h.Report.ExportCheckClocks)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceApprove))
						r.Put("/{id}/approve", h.CheckClock.Approve)
						r.Put("/{id}/reject", h.CheckClock.Reject)
						r.Delete("/{id}", h.CheckClock.Delete)
					})
				})

				r.Route("/check-clock-settings", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSettingsManage))
					r.Get("/", h.Setting.List)
					r.Post("/", h.Setting.Create)
					r.Get("/default", h.Setting.Default)
					r.Get("/{id}", h.Setting.Get)
					r.Put("/{id}", h.Setting.Update)
					r.Delete("/{id}", h.Setting.Delete)
				})
			})
		})
	})
	return r
}
