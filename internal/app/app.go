// Package app builds the service graph shared by the HTTP server and the CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	assessmentHandler "leadcrm/internal/assessment/handler"
	assessmentPorts "leadcrm/internal/assessment/ports"
	assessmentService "leadcrm/internal/assessment/service"
	assessmentStore "leadcrm/internal/assessment/store"
	bookingAdapters "leadcrm/internal/booking/adapters"
	bookingHandler "leadcrm/internal/booking/handler"
	bookingService "leadcrm/internal/booking/service"
	bookingStore "leadcrm/internal/booking/store"
	"leadcrm/internal/events"
	"leadcrm/internal/formnumber"
	formNumberMetrics "leadcrm/internal/formnumber/metrics"
	leadAdapters "leadcrm/internal/lead/adapters"
	leadHandler "leadcrm/internal/lead/handler"
	leadMetrics "leadcrm/internal/lead/metrics"
	leadPorts "leadcrm/internal/lead/ports"
	leadService "leadcrm/internal/lead/service"
	leadStore "leadcrm/internal/lead/store"
	"leadcrm/internal/platform/config"
	"leadcrm/internal/platform/metrics"
	"leadcrm/internal/platform/postgres"
	"leadcrm/internal/platform/redis"
	projectHandler "leadcrm/internal/project/handler"
	projectService "leadcrm/internal/project/service"
	projectStore "leadcrm/internal/project/store"
	rateLimitMiddleware "leadcrm/internal/ratelimit/middleware"
	rateLimitModels "leadcrm/internal/ratelimit/models"
	"leadcrm/internal/ratelimit/store/bucket"
	staffHandler "leadcrm/internal/staff/handler"
	staffService "leadcrm/internal/staff/service"
	staffStore "leadcrm/internal/staff/store"
	"leadcrm/internal/staff/store/revocation"
	"leadcrm/internal/staff/token"
	httptransport "leadcrm/internal/transport/http"
	id "leadcrm/pkg/domain"
	"leadcrm/pkg/platform/tx"
)

// App holds the wired services and the resources they own.
type App struct {
	Config config.Config
	Logger *slog.Logger

	Projects    *projectService.Service
	Leads       *leadService.Service
	Assessments *assessmentService.Service
	Bookings    *bookingService.Service
	Staff       *staffService.Service
	Tokens      *token.JWTService

	metrics *metrics.Metrics
	limiter *rateLimitMiddleware.Limiter
	checks  map[string]httptransport.HealthCheck
	closers []func()
}

type stores struct {
	projects    projectService.Store
	leads       leadService.Store
	assessments assessmentService.Store
	bookings    bookingService.Store
	staff       staffService.Store
	runner      tx.Runner
}

func memoryStores() stores {
	return stores{
		projects:    projectStore.NewInMemory(),
		leads:       leadStore.NewInMemory(),
		assessments: assessmentStore.NewInMemory(),
		bookings:    bookingStore.NewInMemory(),
		staff:       staffStore.NewInMemory(),
		runner:      tx.NewLockRunner(),
	}
}

func postgresStores(db *sql.DB) stores {
	return stores{
		projects:    projectStore.NewPostgres(db),
		leads:       leadStore.NewPostgres(db),
		assessments: assessmentStore.NewPostgres(db),
		bookings:    bookingStore.NewPostgres(db),
		staff:       staffStore.NewPostgres(db),
		runner:      tx.NewSQLRunner(db),
	}
}

// New connects the configured backends and wires every service. Without a
// database URL the stores are in memory; without a Redis URL revocations are
// kept in process; without Kafka brokers events are only logged.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
		checks: make(map[string]httptransport.HealthCheck),
	}

	st := memoryStores()
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		if err := postgres.Migrate(ctx, db); err != nil {
			a.Close()
			return nil, err
		}
		st = postgresStores(db)
		a.checks["postgres"] = db.PingContext
	} else {
		logger.WarnContext(ctx, "DATABASE_URL not set, using in-memory stores")
	}

	var revoked staffService.RevocationList = revocation.NewInMemoryTRL()
	var buckets rateLimitMiddleware.BucketStore = bucket.NewInMemoryBucketStore()
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		a.Close()
		return nil, err
	}
	if redisClient != nil {
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
		revoked = revocation.NewRedisTRL(redisClient.Client, revocation.WithRegisterer(reg))
		buckets = bucket.NewRedisBucketStore(redisClient.Client)
		a.checks["redis"] = redisClient.Health
	}
	if cfg.RateLimit.PublicWrites > 0 {
		a.limiter = rateLimitMiddleware.New(buckets,
			rateLimitModels.Limit{Requests: cfg.RateLimit.PublicWrites, Window: cfg.RateLimit.Window},
			rateLimitMiddleware.WithLogger(logger),
			rateLimitMiddleware.WithRegisterer(reg),
		)
	}

	publisher, err := a.publisher(ctx, cfg.Kafka)
	if err != nil {
		a.Close()
		return nil, err
	}

	generator := formnumber.NewGenerator(
		formnumber.WithMaxAttempts(cfg.FormNumber.MaxAttempts),
		formnumber.WithMetrics(formNumberMetrics.New(reg)),
	)

	a.Projects = projectService.New(st.projects,
		projectService.WithLogger(logger),
		projectService.WithGenerator(generator),
		projectService.WithPublisher(publisher),
	)

	// The lead service reads assessment and booking status, and both of
	// those look leads up, so the lead side is bound through closures.
	a.Leads = leadService.New(st.leads, leadAdapters.NewProjectAdapter(a.Projects),
		leadService.WithLogger(logger),
		leadService.WithGenerator(generator),
		leadService.WithMetrics(leadMetrics.New(reg)),
		leadService.WithPublisher(publisher),
		leadService.WithRunner(st.runner),
		leadService.WithMigrationTimeout(cfg.FormNumber.MigrationTimeout),
		leadService.WithStatusPorts(
			leadPorts.StatusFunc(func(ctx context.Context, ids []id.LeadID) (map[id.LeadID]bool, error) {
				return a.Assessments.LeadsWithAssessment(ctx, ids)
			}),
			leadPorts.StatusFunc(func(ctx context.Context, ids []id.LeadID) (map[id.LeadID]bool, error) {
				return a.Bookings.LeadsWithBooking(ctx, ids)
			}),
		),
	)
	a.Assessments = assessmentService.New(st.assessments,
		assessmentPorts.LeadExistsFunc(func(ctx context.Context, leadID id.LeadID) error {
			_, err := a.Leads.Get(ctx, leadID)
			return err
		}),
		assessmentService.WithLogger(logger),
		assessmentService.WithPublisher(publisher),
	)
	a.Bookings = bookingService.New(st.bookings, bookingAdapters.NewLeadAdapter(a.Leads),
		bookingService.WithLogger(logger),
		bookingService.WithPublisher(publisher),
	)

	a.Tokens = token.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	a.Staff = staffService.New(st.staff, a.Tokens, revoked, staffService.WithLogger(logger))

	a.metrics = metrics.New(reg, gatherer)
	return a, nil
}

func (a *App) publisher(ctx context.Context, cfg config.Kafka) (events.Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return events.NewLogPublisher(a.Logger), nil
	}
	p, err := events.NewKafkaPublisher(events.KafkaConfig{
		Brokers:           cfg.Brokers,
		Topic:             cfg.Topic,
		Partitions:        cfg.Partitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}, a.Logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, p.Close)
	if err := p.EnsureTopic(ctx, cfg.Partitions, cfg.ReplicationFactor); err != nil {
		return nil, fmt.Errorf("ensure kafka topic: %w", err)
	}
	a.checks["kafka"] = p.Health
	return p, nil
}

// Handler returns the HTTP surface.
func (a *App) Handler() http.Handler {
	projects := projectHandler.New(a.Projects, a.Logger)
	leads := leadHandler.New(a.Leads, a.Logger)
	assessments := assessmentHandler.New(a.Assessments, a.Logger)
	bookings := bookingHandler.New(a.Bookings, a.Logger)
	staff := staffHandler.New(a.Staff, a.Logger)

	var publicLimit func(http.Handler) http.Handler
	if a.limiter != nil {
		publicLimit = a.limiter.Middleware
	}

	return httptransport.NewRouter(httptransport.Deps{
		Logger:         a.Logger,
		Metrics:        a.metrics,
		RequestTimeout: a.Config.Server.RequestTimeout,
		AdminToken:     a.Config.Auth.AdminAPIToken,
		PublicLimit:    publicLimit,
		Validator:      token.NewMiddlewareAdapter(a.Tokens),
		Revocation:     a.Staff,
		Public:         []httptransport.PublicRoutes{projects, leads, staff},
		Staff:          []httptransport.StaffRoutes{leads, assessments, bookings, staff},
		Admin:          []httptransport.AdminRoutes{projects, leads, staff},
		Checks:         a.checks,
	})
}

// Close releases the database, Redis and Kafka clients in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
