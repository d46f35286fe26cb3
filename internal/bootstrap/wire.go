package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/audit"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/real-time-ressys/services/access-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/infrastructure/redis"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/logger"
	http_handlers "github.com/baechuer/real-time-ressys/services/access-service/internal/transport/http/handlers"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/transport/http/response"
	"github.com/baechuer/real-time-ressys/services/access-service/internal/transport/http/router"
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

	NewDB func(addr string, debug bool) (*sql.DB, error)

	NewRedis func(addr, password string, db int) *redis.Client

	NewPublisher func(rabbitURL, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type Publisher interface {
	auth.EventPublisher
	Close() error
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
	if cfg == nil {
		return nil, nil, errNilConfig
	}

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 1) credential store
	var (
		users  auth.UserRepo
		emails auth.AuthorizedEmailRepo
		checks = map[string]http_handlers.Check{}
	)

	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Logger.Warn().Msg("using in-memory credential store; data is lost on restart")
		users = memory.NewUserRepo()
		emails = memory.NewAuthorizedEmailRepo()

	default:
		db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return fail(fmt.Errorf("db: %w", err))
		}
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })

		if cfg.DBAutoMigrate {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := postgres.EnsureSchema(ctx, db)
			cancel()
			if err != nil {
				return fail(fmt.Errorf("schema: %w", err))
			}
		}

		users = postgres.NewUserRepo(db)
		emails = postgres.NewAuthorizedEmailRepo(db)
		checks["postgres"] = db.PingContext
	}

	// 2) sessions: redis when reachable, memory otherwise
	var sessions auth.SessionStore = memory.NewSessionStore()
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx)
		cancel()

		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; sessions kept in memory")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			sessions = redis.NewRedisSessionStore(c)
			checks["redis"] = c.Ping
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	} else {
		logger.Logger.Warn().Msg("REDIS_ADDR not set; sessions kept in memory")
	}

	// 3) publisher
	var pub auth.EventPublisher = memory.NewNoopPublisher()
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		switch {
		case err == nil:
			pub = p
			cleanupFns = append(cleanupFns, func() { _ = p.Close() })
		case cfg.Env == "dev":
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		default:
			return fail(fmt.Errorf("rabbitmq: %w", err))
		}
	}

	// 4) security
	hasher := security.NewArgon2Hasher(security.Argon2Params{
		MemoryKiB: cfg.Argon2MemoryKiB,
		Time:      cfg.Argon2Time,
		Threads:   cfg.Argon2Threads,
	}, cfg.HashConcurrency)

	// 5) service
	authSvc := auth.NewService(users, emails, hasher, sessions, pub, auth.Config{
		SessionTTL: cfg.SessionTTL,
	}).WithAudit(audit.New(logger.Logger).Record)

	// seed (optional)
	if cfg.BootstrapAdminEmail != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := postgres.SeedAdmin(ctx, emails, users, hasher, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
		cancel()
		if err != nil {
			return fail(fmt.Errorf("seed admin: %w", err))
		}
	}

	// 6) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc, cfg.SecureCookies())
	whitelistH := http_handlers.NewWhitelistHandler(authSvc)
	healthH := http_handlers.NewHealthHandler(checks)

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		Health:    healthH,
		Auth:      authH,
		Whitelist: whitelistH,
		SessionMW: middleware.Session(authSvc, response.WriteError),
		AuthMW:    middleware.RequireAuthenticated(response.WriteError),
		AdminMW:   middleware.RequireAdmin(response.WriteError),
	})
	if err != nil {
		return fail(err)
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() { runCleanup(cleanupFns) })
	}

	return srv, cleanup, nil
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
		NewRedis:   redis.New,
		NewPublisher: func(url, exchange string) (Publisher, error) {
			p, err := rabbitmq_pub.NewPublisher(url, exchange)
			if err != nil {
				return nil, err
			}
			return p, nil
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

var errNilConfig = errors.New("bootstrap: nil config")
