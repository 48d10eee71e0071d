package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/board-system/board-api/internal/api"
	"github.com/board-system/board-api/internal/core/ports"
	"github.com/board-system/board-api/internal/core/service"
	"github.com/board-system/board-api/internal/infrastructure/db/memory"
	"github.com/board-system/board-api/internal/infrastructure/db/mongo"
	"github.com/board-system/board-api/internal/infrastructure/db/postgres"
	"github.com/board-system/board-api/internal/infrastructure/db/redis"
	infrahttp "github.com/board-system/board-api/internal/infrastructure/http"
	"github.com/board-system/board-api/internal/infrastructure/http/handlers"
	"github.com/board-system/board-api/internal/infrastructure/messaging"
	"github.com/board-system/board-api/internal/infrastructure/queue"
	"github.com/board-system/board-api/internal/infrastructure/security"
	"github.com/board-system/board-api/internal/pkg/config"
	"github.com/board-system/board-api/pkg/logger"
)

type storage struct {
	users   ports.UserRepository
	roles   ports.RoleRepository
	pingers map[string]handlers.Pinger
	close   func()
}

// bootstrap connects the configured backends and assembles the HTTP server.
// The returned cleanup stops the event workers and closes every connection.
func bootstrap(ctx context.Context, cfg *config.Config, log zerolog.Logger) (httpServer, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, store.close)

	denylist, err := openDenylist(ctx, cfg, store.pingers)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if c, ok := denylist.(interface{ Close() error }); ok {
		closers = append(closers, func() { _ = c.Close() })
	}

	publisher, closePublisher, err := openPublisher(cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, closePublisher)

	dispatcher := queue.NewDispatcher(cfg.Rabbit.Workers, publisher, logger.Component("events"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)
	closers = append(closers, func() {
		stopWorkers()
		dispatcher.Wait()
	})

	secret := cfg.JWT.Secret
	if secret == "" {
		secret = randomSecret()
		log.Warn().Msg("JWT_SECRET not set, using an ephemeral signing key")
	}
	encoder := security.NewBCryptEncoder(cfg.JWT.BCryptCost)
	tokens := security.NewJWTProvider(security.JWTConfig{
		Secret:      secret,
		RememberKey: cfg.JWT.RememberKey,
		AccessTTL:   cfg.JWT.AccessTTL,
		RememberTTL: cfg.JWT.RememberTTL,
	})

	users := service.NewUserService(store.users, store.roles, encoder, dispatcher, logger.Component("users"))
	roles := service.NewRoleService(store.roles, dispatcher, logger.Component("roles"))
	auth := service.NewAuthService(users, encoder, tokens, denylist, logger.Component("auth"))

	if err := users.EnsureInitialAdmin(ctx, ports.UserForAdminRequest{
		Email:    cfg.Admin.Email,
		Nickname: cfg.Admin.Nickname,
		Password: cfg.Admin.Password,
	}); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("seed admin: %w", err)
	}

	e := api.NewRouter(api.Dependencies{
		Logger:        log,
		Auth:          auth,
		Users:         users,
		Roles:         roles,
		Readiness:     store.pingers,
		SecureCookies: cfg.JWT.SecureCookies,
		Metrics:       true,
		Swagger:       cfg.Swagger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: infrahttp.ReadHeaderTimeout,
	}
	log.Info().
		Str("storage", cfg.StorageDriver).
		Bool("swagger", cfg.Swagger).
		Msg("server assembled")
	return realServer{srv}, cleanup, nil
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{
			DSN:          cfg.Postgres.DSN,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Postgres.MaxIdleConns,
		}, logger.Component("postgres"))
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = postgres.Close(db)
			return nil, err
		}
		return &storage{
			users: postgres.NewUserRepository(db),
			roles: postgres.NewRoleRepository(db),
			pingers: map[string]handlers.Pinger{
				"postgres": handlers.PingFunc(func(ctx context.Context) error { return postgres.Ping(ctx, db) }),
			},
			close: func() { _ = postgres.Close(db) },
		}, nil

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &storage{
			users: mongo.NewUserRepository(db),
			roles: mongo.NewRoleRepository(client, db),
			pingers: map[string]handlers.Pinger{
				"mongo": handlers.PingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) }),
			},
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return &storage{
			users:   memory.NewUserRepository(),
			roles:   memory.NewRoleRepository(),
			pingers: map[string]handlers.Pinger{},
			close:   func() {},
		}, nil
	}
}

type closableDenylist struct {
	*redis.TokenDenylist
	client *goredis.Client
}

func (d closableDenylist) Close() error { return d.client.Close() }

func openDenylist(ctx context.Context, cfg *config.Config, pingers map[string]handlers.Pinger) (ports.TokenDenylist, error) {
	if cfg.Redis.Addr == "" {
		return memory.NewTokenDenylist(), nil
	}
	client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return nil, err
	}
	pingers["redis"] = handlers.PingFunc(func(ctx context.Context) error { return redis.Ping(ctx, client) })
	return closableDenylist{TokenDenylist: redis.NewTokenDenylist(client), client: client}, nil
}

func openPublisher(cfg *config.Config, log zerolog.Logger) (ports.EventPublisher, func(), error) {
	if cfg.Rabbit.URL == "" {
		return messaging.NewLogPublisher(logger.Component("events")), func() {}, nil
	}
	pub, err := messaging.NewRabbitPublisher(messaging.Config{
		URL:      cfg.Rabbit.URL,
		Exchange: cfg.Rabbit.Exchange,
	}, log)
	if err != nil {
		return nil, nil, err
	}
	return pub, pub.Close, nil
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
