package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ganak-service/src/config"
	"ganak-service/src/database"
	"ganak-service/src/handler"
	"ganak-service/src/logger"
	"ganak-service/src/middleware"
	"ganak-service/src/models"
	"ganak-service/src/repository"
	"ganak-service/src/route"
	mailer "ganak-service/src/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

// ErrDatabaseRequired is returned by New when the connection attempt fails
// under the fail-fast policy.
var ErrDatabaseRequired = errors.New("database connection required")

const redisPingTimeout = 3 * time.Second

// Connector opens the connection registered under opts.Alias.
type Connector func(ctx context.Context, opts database.Options, log *logger.Logger) *database.Connection

type Option func(*App)

// WithConnector replaces database.Connect, e.g. to simulate an outage.
func WithConnector(c Connector) Option {
	return func(a *App) { a.connect = c }
}

// WithMailer replaces the mailer chosen from the SMTP settings.
func WithMailer(m mailer.Mailer) Option {
	return func(a *App) { a.mailer = m }
}

// App is the composed application handed to the HTTP server.
type App struct {
	Config   *config.Config
	Registry *database.Registry
	Table    *route.Table

	mux     *chi.Mux
	redis   *redis.Client
	mailer  mailer.Mailer
	connect Connector
}

// New builds the router, installs middleware, makes one connection attempt and
// registers the route groups in order. A failed attempt leaves the
// application serving with a degraded connection unless the configured policy
// is fail-fast.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	log := cfg.Logger
	a := &App{
		Config:   cfg,
		Registry: database.NewRegistry(),
		mux:      chi.NewRouter(),
		connect:  database.Connect,
	}
	for _, opt := range opts {
		opt(a)
	}

	mw := middleware.NewMiddleware(cfg)
	mw.SetupMiddleware(a.mux)

	conn := a.connect(ctx, database.Options{
		Alias:          database.DefaultAlias,
		URI:            cfg.MongoURI,
		Database:       cfg.MongoDatabase,
		ConnectTimeout: cfg.DBConnectTimeout,
	}, log)
	if err := a.Registry.Register(conn); err != nil {
		return nil, err
	}

	if conn.Status() != database.StatusConnected {
		if cfg.DBFailurePolicy == config.PolicyFailFast {
			_ = conn.Disconnect(ctx)
			return nil, fmt.Errorf("%w: %v", ErrDatabaseRequired, conn.Err())
		}
		log.Warn("⚠️ Continuing without a database; dependent routes answer 503 until it recovers")
	} else {
		log.Info(fmt.Sprintf("✅ Database alias %q registered (%s)", conn.Alias(), conn.Status()))
		if err := repository.EnsureIndexes(ctx, conn); err != nil {
			log.Error("❌ Failed to ensure indexes: " + err.Error())
		}
	}

	resets := a.resetStore(ctx, conn)
	if a.mailer == nil {
		a.mailer = mailer.New(cfg.SMTP, log)
	}

	users := repository.NewUserRepository(conn)
	chats := repository.NewChatRepository(conn)
	reports := repository.NewReportRepository(conn)

	h := handler.NewHandler(cfg)
	routes := &route.Routes{
		Config:     cfg,
		Middleware: mw,
		Users:      handler.NewUserHandler(h, users, chats, reports),
		Resets:     handler.NewPasswordResetHandler(h, users, resets, a.mailer),
		Chats:      handler.NewChatHandler(h, chats),
		Reports:    handler.NewReportHandler(h, reports, users),
		Clinics:    handler.NewClinicHandler(h, repository.NewClinicRepository(conn)),
		System:     handler.NewSystemHandler(h, a.Registry, a.Docs),
	}

	table, err := route.Resolve(routes.Groups())
	if err != nil {
		return nil, err
	}
	a.Table = table
	routes.Mount(a.mux, table)

	return a, nil
}

// resetStore prefers Redis when configured and reachable.
func (a *App) resetStore(ctx context.Context, conn *database.Connection) handler.ResetStore {
	cfg := a.Config
	if cfg.RedisAddr == "" {
		return repository.NewMongoResetStore(conn)
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		cfg.Logger.Warn("⚠️ Redis unavailable at " + cfg.RedisAddr + ", keeping reset codes in MongoDB: " + err.Error())
		_ = client.Close()
		return repository.NewMongoResetStore(conn)
	}
	cfg.Logger.Info("✅ Connected to Redis at " + cfg.RedisAddr)
	a.redis = client
	return repository.NewRedisResetStore(client)
}

func (a *App) Handler() http.Handler {
	return a.mux
}

// Docs returns the tag metadata with the registered endpoints.
func (a *App) Docs() models.DocsResponse {
	resp := models.DocsResponse{Service: a.Config.ServiceName, Tags: route.Tags()}
	if a.Table != nil {
		resp.Routes = a.Table.Routes()
	}
	return resp
}

// Close releases the database and cache clients.
func (a *App) Close(ctx context.Context) error {
	errs := []error{a.Registry.DisconnectAll(ctx)}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}
