package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/ollama/ollama/api"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/janisto/filif-api/internal/http/health"
	"github.com/janisto/filif-api/internal/http/v1/routes"
	"github.com/janisto/filif-api/internal/platform/auth"
	"github.com/janisto/filif-api/internal/platform/config"
	"github.com/janisto/filif-api/internal/platform/database"
	"github.com/janisto/filif-api/internal/platform/firebase"
	applog "github.com/janisto/filif-api/internal/platform/logging"
	appmiddleware "github.com/janisto/filif-api/internal/platform/middleware"
	"github.com/janisto/filif-api/internal/platform/respond"
	accountsvc "github.com/janisto/filif-api/internal/service/account"
	"github.com/janisto/filif-api/internal/service/activity"
	"github.com/janisto/filif-api/internal/service/content"
	"github.com/janisto/filif-api/internal/service/profile"
	"github.com/janisto/filif-api/internal/service/session"
	"github.com/janisto/filif-api/internal/service/shop"
)

const apiBasePath = "/v1"

// app holds everything the router needs plus the resources to release on exit.
type app struct {
	verifier auth.Verifier
	activity *activity.Service
	accounts *accountsvc.Service
	checks   []health.Check
	closers  []func() error
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func sqlCheck(name string, db *sqlx.DB) health.Check {
	return health.Check{Name: name, Ping: db.PingContext}
}

// newApp opens the stores selected by cfg and builds the services.
func newApp(ctx context.Context, cfg *config.Config) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	fb, err := firebase.InitializeClients(ctx, firebase.Config{
		ProjectID:       cfg.FirebaseProjectID,
		CredentialsFile: cfg.GoogleCredentialsFile,
		Firestore:       cfg.RemoteStore == config.RemoteFirestore,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing firebase: %w", err)
	}
	a.closers = append(a.closers, fb.Close)
	a.verifier = auth.NewFirebaseVerifier(fb.Auth)

	local, err := database.OpenSQLite(ctx, cfg.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening local cache: %w", err)
	}
	a.closers = append(a.closers, local.Close)
	a.checks = append(a.checks, sqlCheck("local", local))

	var (
		remote       profile.Store
		prices       shop.PriceStore = shop.NewSQLPrices(local)
		accountStore accountsvc.Store = accountsvc.NewMemoryStore()
	)
	switch cfg.RemoteStore {
	case config.RemoteFirestore:
		remote = profile.NewFirestoreStore(fb.Firestore)
		prices = shop.NewFirestorePrices(fb.Firestore)
		accountStore = accountsvc.NewFirestoreStore(fb.Firestore)
		a.checks = append(a.checks, health.Check{Name: "firestore", Ping: fb.PingFirestore})
	case config.RemotePostgres:
		pg, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("opening remote store: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		a.checks = append(a.checks, sqlCheck("postgres", pg))
		remote = profile.NewSQLStore(pg)
		prices = shop.NewSQLPrices(pg)
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.closers = append(a.closers, rdb.Close)
		a.checks = append(a.checks, health.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
		prices = shop.NewCachedPrices(prices, rdb, cfg.PriceCacheTTL)
	}

	generator, err := newGenerator(cfg)
	if err != nil {
		return nil, err
	}

	a.activity = activity.NewService(
		session.NewResolver(remote, profile.NewSQLStore(local)),
		shop.NewCatalog(prices),
		generator,
		activity.WithMaxProfiles(cfg.MaxProfilesPerAccount),
	)
	a.accounts = accountsvc.NewService(accountStore, nil)

	applog.LogInfo(ctx, "dependencies ready",
		zap.String("remoteStore", cfg.RemoteStore),
		zap.String("contentProvider", cfg.ContentProvider),
		zap.Bool("priceCache", cfg.RedisAddr != ""),
	)
	return a, nil
}

// newGenerator returns the configured content provider. A model provider always
// falls back to the built-in content.
func newGenerator(cfg *config.Config) (content.Generator, error) {
	static := content.NewStaticGenerator(nil)
	if cfg.ContentProvider != config.ContentOllama {
		return static, nil
	}
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("ollama client: %w", err)
	}
	return content.Fallback{
		Primary: content.NewOllamaGenerator(client,
			content.WithModel(cfg.OllamaModel),
			content.WithTimeout(cfg.OllamaTimeout),
		),
		Secondary: static,
	}, nil
}

// addCBORContent advertises CBOR next to JSON for every request and response body.
func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}

func newAPIConfig() huma.Config {
	cfg := huma.DefaultConfig("Filif API", Version)
	cfg.DocsPath = "/api-docs"
	cfg.Servers = []*huma.Server{{URL: apiBasePath}}
	if cfg.Components.SecuritySchemes == nil {
		cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{}
	}
	cfg.Components.SecuritySchemes["bearerAuth"] = &huma.SecurityScheme{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
		Description:  "Firebase ID token of the parent account",
	}
	return cfg
}

// newRouter builds the HTTP handler: base middleware, health and the versioned API.
func newRouter(cfg *config.Config, a *app) *chi.Mux {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(apiBasePath+"/api-docs"),
		appmiddleware.Vary(),
		appmiddleware.CORS(cfg.Origins()...),
		appmiddleware.RequestID(),
		// RealIP trusts X-Real-IP and X-Forwarded-For. Only deploy behind a trusted proxy.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20),
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler(a.checks...))

	router.Route(apiBasePath, func(r chi.Router) {
		if cfg.RateLimitPerMinute > 0 {
			r.Use(appmiddleware.RateLimit(appmiddleware.NewRateLimiter(cfg.RateLimitPerMinute)))
		}
		r.NotFound(respond.NotFoundHandler())
		r.MethodNotAllowed(respond.MethodNotAllowedHandler())

		apiCfg := newAPIConfig()
		humaAPI := humachi.New(r, apiCfg)
		humaAPI.OpenAPI().OnAddOperation = append(humaAPI.OpenAPI().OnAddOperation, addCBORContent)
		routes.Register(humaAPI, a.verifier, a.activity, a.accounts)
	})
	return router
}
