package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presensi-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Auth       AuthHandler
	Schedule   ScheduleHandler
	Attendance AttendanceHandler
	Proposal   ProposalHandler
	LeaveQuota LeaveQuotaHandler
	Events     EventHandler
	Dashboard  DashboardHandler
}

type RouterOptions struct {
	Env            string
	AllowedOrigins []string
	// UploadDir is served under UploadURL when both are set.
	UploadDir string
	UploadURL string
	// Redis enables Idempotency-Key handling on write endpoints. May be nil.
	Redis          *redis.Client
	IdempotencyTTL time.Duration
	ClockLimiter   *middleware.UserRateLimiter
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "presensi"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.IdempotencyHeader},
		ExposedHeaders:   []string{"Link", "Retry-After", middleware.ReplayedHeader},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	if opts.UploadDir != "" && opts.UploadURL != "" {
		fs := http.StripPrefix(opts.UploadURL, http.FileServer(http.Dir(opts.UploadDir)))
		r.Get(opts.UploadURL+"/*", fs.ServeHTTP)
	}

	idempotent := middleware.Idempotency(opts.Redis, opts.IdempotencyTTL)
	clockLimit := func(next http.Handler) http.Handler { return next }
	if opts.ClockLimiter != nil {
		clockLimit = middleware.RateLimitByUser(opts.ClockLimiter)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/sign-in", h.Auth.SignIn)
			r.Post("/sign-out", h.Auth.SignOut)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/password-reset", h.Auth.ForgotPassword)
			r.Post("/password-reset/confirm", h.Auth.ResetPassword)
		})

		// EventSource cannot set headers; the stream checks its own ?token=.
		r.Get("/proposals/events", h.Events.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Post("/auth/sse-token", h.Auth.SSEToken)

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", h.Schedule.ListShifts)
			})

			r.Route("/schedules", func(r chi.Router) {
				r.With(middleware.RequireEmployee).Get("/my", h.Schedule.ListMine)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionScheduleViewAll))
					r.Get("/", h.Schedule.ListAll)
					r.Get("/employee/{nik}", h.Schedule.ListForEmployee)
				})
				r.With(middleware.RequirePermission(user.PermissionScheduleAssign)).Put("/", h.Schedule.Assign)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Use(middleware.RequireEmployee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceClock))
					r.Use(clockLimit)
					r.Use(idempotent)
					r.Post("/clock-in", h.Attendance.ClockIn)
					r.Post("/clock-out", h.Attendance.ClockOut)
				})

				r.Get("/today", h.Attendance.Today)
				r.Get("/my", h.Attendance.History)
				r.Get("/{id}", h.Attendance.Get)
			})

			r.Route("/proposals", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEmployee)
					r.With(middleware.RequirePermission(user.PermissionProposalSubmit), idempotent).Post("/", h.Proposal.Submit)
					r.Get("/my", h.Proposal.ListMine)
					r.Post("/{id}/cancellation", h.Proposal.RequestCancellation)
					r.Patch("/{id}", h.Proposal.Amend)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionProposalDecide))
					r.Get("/", h.Proposal.ListForApprover)
					r.Post("/{id}/decision", h.Proposal.Decide)
					r.Post("/{id}/cancellation/resolve", h.Proposal.ResolveCancellation)
				})

				r.Get("/{id}", h.Proposal.Get)
			})

			r.With(middleware.RequirePermission(user.PermissionProposalViewAll)).Get("/dashboard", h.Dashboard.GetDashboard)

			r.Route("/leave-quotas", func(r chi.Router) {
				r.With(middleware.RequireEmployee).Get("/my", h.LeaveQuota.ListMine)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveQuotaManage))
					r.Put("/", h.LeaveQuota.SetQuota)
					r.Get("/employee/{nik}", h.LeaveQuota.ListForEmployee)
				})
			})
		})
	})
	return r
}
