package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	mongodrv "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/baechuer/course-feedback/internal/application/auth"
	"github.com/baechuer/course-feedback/internal/application/feedback"
	"github.com/baechuer/course-feedback/internal/audit"
	"github.com/baechuer/course-feedback/internal/config"
	"github.com/baechuer/course-feedback/internal/domain"
	mongostore "github.com/baechuer/course-feedback/internal/infrastructure/db/mongo"
	"github.com/baechuer/course-feedback/internal/infrastructure/db/postgres"
	"github.com/baechuer/course-feedback/internal/infrastructure/memory"
	"github.com/baechuer/course-feedback/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/course-feedback/internal/infrastructure/redis"
	"github.com/baechuer/course-feedback/internal/infrastructure/security"
	"github.com/baechuer/course-feedback/internal/infrastructure/storage"
	"github.com/baechuer/course-feedback/internal/logger"
	http_handlers "github.com/baechuer/course-feedback/internal/transport/http/handlers"
	"github.com/baechuer/course-feedback/internal/transport/http/middleware"
	"github.com/baechuer/course-feedback/internal/transport/http/response"
	"github.com/baechuer/course-feedback/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB    func(addr string, debug bool) (*sql.DB, error)
	NewMongo func(ctx context.Context, uri string) (*mongodrv.Client, error)

	NewRedis func(addr, password string, db int) *redis.Client

	NewPublisher func(url, exchange string) (Publisher, error)

	NewPictureStore func(ctx context.Context, cfg *config.Config) (auth.PictureStore, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

// Publisher carries every domain event the services emit.
type Publisher interface {
	auth.EventPublisher
	feedback.EventPublisher
}

type stores struct {
	users     auth.UserRepo
	courses   feedback.CourseRepo
	feedbacks feedback.FeedbackRepo
	checks    []http_handlers.Check
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	ctx := context.Background()
	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 1) stores
	st, err := openStores(ctx, cfg, deps, &cleanupFns)
	if err != nil {
		return fail(err)
	}

	// 2) redis (best-effort)
	var redisCli *redis.Client
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-process rate limits")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			st.checks = append(st.checks, http_handlers.Check{Name: "redis", Ping: c.Ping})
		}
	}

	// 3) publisher
	pub, err := newPublisher(cfg, deps)
	if err != nil {
		return fail(err)
	}
	if c, ok := pub.(interface{ Close() error }); ok {
		cleanupFns = append(cleanupFns, func() { _ = c.Close() })
	}

	// 4) profile picture storage
	pics, err := newPictureStore(ctx, cfg, deps)
	if err != nil {
		return fail(err)
	}

	// 5) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// seed (dev only)
	if cfg.Env == "dev" {
		n := memory.SeedUsers(ctx, st.users, hasher, memory.DevAccounts)
		logger.Logger.Info().Int("created", n).Msg("dev accounts seeded")
	}

	// 6) services
	auditLog := audit.New(logger.Logger)
	authSvc := auth.NewService(st.users, hasher, signer, pics, pub).WithAudit(auditLog.Record)
	fbSvc := feedback.NewService(st.courses, st.feedbacks, st.users, pub).WithAudit(auditLog.Record)

	// 7) handlers + middleware
	rd := router.Deps{
		Health:      http_handlers.NewHealthHandler(st.checks...),
		Auth:        http_handlers.NewAuthHandler(authSvc),
		Profile:     http_handlers.NewProfileHandler(authSvc, cfg.MaxUploadSize),
		Admin:       http_handlers.NewAdminHandler(authSvc, fbSvc),
		Courses:     http_handlers.NewCourseHandler(fbSvc),
		Feedback:    http_handlers.NewFeedbackHandler(fbSvc),
		AuthMW:      middleware.Auth(signer, response.WriteError),
		AdminMW:     middleware.RequireRole(domain.RoleAdmin, response.WriteError),
		CORSOrigins: cfg.CORSOrigins,
	}
	if cfg.EnableDevRoutes {
		logger.Logger.Warn().Msg("dev routes enabled: PUT /api/dev/make-admin/{email} is unauthenticated")
		rd.Dev = http_handlers.NewDevHandler(authSvc)
	}

	// rate limit (fail-open)
	if cfg.RateLimitEnabled {
		if redisCli != nil {
			limiter := redis.NewFixedWindowLimiter(redisCli)
			rl := func(key string) func(http.Handler) http.Handler {
				return middleware.RateLimitFixedWindow(limiter, middleware.FixedWindowConfig{
					RouteKey: key,
					Limit:    cfg.RateLimitLimit,
					Window:   cfg.RateLimitWindow,
				}, response.WriteError)
			}
			rd.RLSignup = rl("auth.signup")
			rd.RLLogin = rl("auth.login")
			rd.RLPassword = rl("auth.password.change")
		} else {
			rd.IPLimit = cfg.RateLimitLimit
			rd.IPWindow = cfg.RateLimitWindow
		}
	}

	// 8) router
	mux, err := deps.NewRouter(rd)
	if err != nil {
		return fail(err)
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

// openStores picks the user, course and feedback stores for STORE_DRIVER and
// prepares their schema.
func openStores(ctx context.Context, cfg *config.Config, deps Deps, cleanupFns *[]func()) (stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := deps.NewDB(cfg.DBAddr, cfg.Env == "dev")
		if err != nil {
			return stores{}, err
		}
		*cleanupFns = append(*cleanupFns, func() { _ = db.Close() })

		if err := postgres.Migrate(ctx, db); err != nil {
			return stores{}, err
		}
		logger.Logger.Info().Msg("postgres schema ready")
		return stores{
			users:     postgres.NewUserRepo(db),
			courses:   postgres.NewCourseRepo(db),
			feedbacks: postgres.NewFeedbackRepo(db),
			checks:    []http_handlers.Check{{Name: "database", Ping: db.PingContext}},
		}, nil

	case config.StoreMongo:
		client, err := deps.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return stores{}, err
		}
		*cleanupFns = append(*cleanupFns, func() { _ = client.Disconnect(context.Background()) })

		mdb := client.Database(cfg.MongoDB)
		if err := mongostore.EnsureIndexes(ctx, mdb); err != nil {
			return stores{}, err
		}
		logger.Logger.Info().Str("db", cfg.MongoDB).Msg("mongo indexes ready")
		return stores{
			users:     mongostore.NewUserRepo(mdb),
			courses:   mongostore.NewCourseRepo(mdb),
			feedbacks: mongostore.NewFeedbackRepo(mdb),
			checks: []http_handlers.Check{{Name: "database", Ping: func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			}}},
		}, nil

	case config.StoreMemory, "":
		logger.Logger.Warn().Msg("using in-memory stores; data is lost on restart")
		courses := memory.NewCourseRepo()
		return stores{
			users:     memory.NewUserRepo(),
			courses:   courses,
			feedbacks: memory.NewFeedbackRepo(courses),
		}, nil

	default:
		return stores{}, fmt.Errorf("bootstrap: unknown store driver %q", cfg.StoreDriver)
	}
}

// newPublisher connects to RabbitMQ when configured. Outside dev a broker
// that cannot be reached is fatal.
func newPublisher(cfg *config.Config, deps Deps) (Publisher, error) {
	if cfg.RabbitURL == "" || deps.NewPublisher == nil {
		return memory.NewNoopPublisher(), nil
	}
	pub, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
	if err != nil {
		if cfg.Env == "dev" {
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
			return memory.NewNoopPublisher(), nil
		}
		return nil, err
	}
	logger.Logger.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbitmq publisher ready")
	return pub, nil
}

// newPictureStore uses object storage when an endpoint is configured and
// falls back to process memory otherwise (or in dev when it fails).
func newPictureStore(ctx context.Context, cfg *config.Config, deps Deps) (auth.PictureStore, error) {
	if !cfg.ObjectStorageEnabled() || deps.NewPictureStore == nil {
		return memory.NewPictureStore(cfg.CDNBaseURL), nil
	}
	s, err := deps.NewPictureStore(ctx, cfg)
	if err != nil {
		if cfg.Env == "dev" {
			logger.Logger.Warn().Err(err).Msg("object storage unavailable; keeping pictures in memory")
			return memory.NewPictureStore(cfg.CDNBaseURL), nil
		}
		return nil, err
	}
	return s, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewMongo:   mongostore.Connect,
		NewRedis:   redis.New,
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq.NewPublisher(url, exchange)
		},
		NewPictureStore: func(ctx context.Context, cfg *config.Config) (auth.PictureStore, error) {
			s, err := storage.NewS3PictureStore(ctx, cfg)
			if err != nil {
				return nil, err
			}
			bctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := s.EnsureBucket(bctx); err != nil {
				logger.Logger.Warn().Err(err).Str("bucket", cfg.S3Bucket).Msg("bucket check failed")
			}
			return s, nil
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
