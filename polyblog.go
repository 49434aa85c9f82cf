package polyblog

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/polyblog/polyblog/content"
	"github.com/polyblog/polyblog/internal/auth"
	"github.com/polyblog/polyblog/internal/httpapi"
	"github.com/polyblog/polyblog/internal/logging"
	"github.com/polyblog/polyblog/internal/markdown"
)

// ContentService exports the content service contract for consumers of the
// polyblog package.
type ContentService = content.Service

// Module is the top level runtime façade: it owns the storage backend, the
// content service, token handling, and the HTTP surface.
type Module struct {
	cfg      Config
	provider logging.LoggerProvider
	logger   logging.Logger
	db       *bun.DB
	store    content.Store
	contents content.Service
	auth     *auth.Manager
	renderer *markdown.Renderer
}

// Option overrides pieces of the module during construction.
type Option func(*Module)

// WithStore injects a pre-built storage backend, bypassing the configured
// driver. Intended for tests and embedding.
func WithStore(store content.Store) Option {
	return func(m *Module) {
		if store != nil {
			m.store = store
		}
	}
}

// WithLoggerProvider injects a logger provider, bypassing the configured one.
func WithLoggerProvider(provider logging.LoggerProvider) Option {
	return func(m *Module) {
		if provider != nil {
			m.provider = provider
		}
	}
}

// New constructs a module from the supplied configuration. Relational drivers
// open their database and apply migrations before the module is returned.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	m := &Module{cfg: cfg}

	for _, opt := range opts {
		opt(m)
	}

	if m.provider == nil {
		provider, err := logging.NewProvider(logging.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
		})
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}
	m.logger = logging.ModuleLogger(m.provider, "")

	if m.store == nil {
		store, db, err := openStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		m.store = store
		m.db = db
	}

	m.contents = content.NewService(m.store)
	m.auth = auth.NewManager(auth.Config{
		Secret:        cfg.Auth.Secret,
		AdminEmail:    cfg.Auth.AdminEmail,
		AdminPassword: cfg.Auth.AdminPassword,
		TokenExpiry:   cfg.Auth.TokenTTL,
	})
	m.renderer = markdown.NewRenderer(markdown.Options{})

	m.logger.Info("module ready", "storage", cfg.Storage.Driver)
	return m, nil
}

func openStore(ctx context.Context, cfg Config) (content.Store, *bun.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	switch driver {
	case "", "memory":
		return content.NewMemoryStore(), nil, nil
	case "sqlite", "postgres":
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	var (
		sqldb *sql.DB
		err   error
	)
	var db *bun.DB
	if driver == "sqlite" {
		sqldb, err = sql.Open("sqlite3", cfg.Storage.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	} else {
		sqldb, err = sql.Open("pgx", cfg.Storage.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	if cfg.Cache.Enabled {
		cacheCfg := repocache.DefaultConfig()
		if cfg.Cache.TTL > 0 {
			cacheCfg.TTL = cfg.Cache.TTL
		}
		cacheService, err := repocache.NewCacheService(cacheCfg)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("cache service: %w", err)
		}
		return content.NewBunStoreWithCache(db, cacheService, repocache.NewDefaultKeySerializer()), db, nil
	}

	return content.NewBunStore(db), db, nil
}

// Contents returns the configured content service.
func (m *Module) Contents() ContentService {
	return m.contents
}

// Store exposes the raw storage backend.
func (m *Module) Store() content.Store {
	return m.store
}

// Auth returns the token manager.
func (m *Module) Auth() *auth.Manager {
	return m.auth
}

// Markdown returns the HTML renderer used by the API.
func (m *Module) Markdown() *markdown.Renderer {
	return m.renderer
}

// LoggerProvider exposes the logger provider for embedding applications.
func (m *Module) LoggerProvider() logging.LoggerProvider {
	return m.provider
}

// DB returns the bun handle, or nil when the memory driver is active.
func (m *Module) DB() *bun.DB {
	return m.db
}

// Handler builds an http.Handler with every API route registered.
func (m *Module) Handler() http.Handler {
	mux := http.NewServeMux()
	httpapi.New(m.contents, m.auth, m.renderer, m.provider).Register(mux)
	return mux
}

// Seed loads the demo content set.
func (m *Module) Seed(ctx context.Context) error {
	return content.Seed(ctx, m.store, uuid.Nil)
}

// Close releases the database handle when one is open.
func (m *Module) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
