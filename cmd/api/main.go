package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/config"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/proposal"
	appHTTP "github.com/cmlabs-hris/presensi-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/presensi-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/kafka"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/presensi-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/presensi-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/presensi-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/presensi-backend-go/internal/service/dashboard"
	deviceService "github.com/cmlabs-hris/presensi-backend-go/internal/service/device"
	"github.com/cmlabs-hris/presensi-backend-go/internal/service/file"
	"github.com/cmlabs-hris/presensi-backend-go/internal/service/leave"
	"github.com/cmlabs-hris/presensi-backend-go/internal/service/notification"
	proposalService "github.com/cmlabs-hris/presensi-backend-go/internal/service/proposal"
	scheduleService "github.com/cmlabs-hris/presensi-backend-go/internal/service/schedule"
	"github.com/redis/go-redis/v9"
)

// Tokens stay this long after they stop being valid, for audit.
const tokenRetention = 7 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.App.LogLevel)})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	loc := cfg.Location()
	transactor := postgresql.NewTransactor(db)

	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	resetRepo := postgresql.NewPasswordResetRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	assignmentRepo := postgresql.NewShiftAssignmentRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	fingerprintRepo := postgresql.NewFingerprintRepository(db)
	proposalRepo := postgresql.NewProposalRepository(db)
	leaveQuotaRepo := postgresql.NewLeaveQuotaRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	var fileStorage storage.FileStorage = storage.Unconfigured{}
	if cfg.Storage.BasePath != "" {
		local, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
		fileStorage = local
	} else {
		slog.Warn("STORAGE_BASE_PATH not set, evidence uploads are disabled")
	}
	fileService := file.NewFileService(fileStorage)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	hub := sse.NewHub()

	notifiers := notification.Multi{notification.NewSSENotifier(hub)}
	if cfg.SMTP.Host != "" {
		notifiers = append(notifiers, notification.NewManagerEmailNotifier(employeeRepo, emailService, cfg.App.FrontendURL, loc))
	}
	if len(cfg.Kafka.Brokers) > 0 {
		writer := kafka.NewWriter(cfg.Kafka.Brokers)
		defer func() {
			if err := writer.Close(); err != nil {
				slog.Error("Failed to close kafka writer", "error", err)
			}
		}()
		notifiers = append(notifiers, notification.NewKafkaNotifier(writer, cfg.Kafka.Topic))
	}
	var notifier proposal.Notifier = notifiers

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = database.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, 5)
		if err != nil {
			log.Fatal("Failed to connect to redis:", err)
		}
		defer rdb.Close()
	}

	authService := serviceAuth.NewAuthService(userRepo, JWTService, JWTRepository, resetRepo, emailService, transactor, cfg.App.FrontendURL)
	scheduleSvc := scheduleService.NewScheduleService(assignmentRepo, employeeRepo, loc)
	guard := deviceService.NewGuard(fingerprintRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, scheduleSvc, guard, transactor, loc)
	proposalSvc := proposalService.NewProposalService(proposalRepo, employeeRepo, attendanceRepo, notifier)
	quotaService := leave.NewLeaveQuotaService(leaveQuotaRepo, employeeRepo)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, loc)

	scheduler := cron.NewScheduler(ctx)
	cron.NewTokenJobs(postgresql.NewTokenHousekeeping(db), tokenRetention).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authService),
		Schedule:   appHTTP.NewScheduleHandler(scheduleSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Proposal:   appHTTP.NewProposalHandler(proposalSvc, fileService, cfg.Storage.MaxUploadBytes),
		LeaveQuota: appHTTP.NewLeaveQuotaHandler(quotaService),
		Events:     appHTTP.NewEventHandler(hub, JWTService, userRepo),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
	}, appHTTP.RouterOptions{
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.App.CORSOrigins,
		UploadDir:      cfg.Storage.BasePath,
		UploadURL:      cfg.Storage.BaseURL,
		Redis:          rdb,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		ClockLimiter:   middleware.NewUserRateLimiter(middleware.PerMinute(cfg.RateLimit.ClockPerMinute), cfg.RateLimit.ClockBurst),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", srv.Addr, "env", cfg.App.Env, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

func logLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}
