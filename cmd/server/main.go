package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/christiananese/hustle-starter/core"
	"github.com/christiananese/hustle-starter/pkg/apikey"
	"github.com/christiananese/hustle-starter/pkg/authz"
	"github.com/christiananese/hustle-starter/pkg/billing"
	"github.com/christiananese/hustle-starter/pkg/config"
	"github.com/christiananese/hustle-starter/pkg/httpserver"
	"github.com/christiananese/hustle-starter/pkg/logger"
	"github.com/christiananese/hustle-starter/pkg/pg"
	"github.com/christiananese/hustle-starter/pkg/ratelimit"
	"github.com/christiananese/hustle-starter/pkg/redis"
	"github.com/christiananese/hustle-starter/pkg/tenant"
)

type appConfig struct {
	HTTP   httpserver.Config
	PG     pg.Config
	Redis  redis.Config
	Logger logger.Config
	Paddle billing.PaddleConfig

	CatalogPath string `env:"BILLING_CATALOG_PATH" envDefault:"config/plans.yaml"`

	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(cfg.Logger, tenant.LoggerExtractor())
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.ErrorContext(ctx, "server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return err
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	catalog, err := billing.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	provider, err := billing.NewPaddleProvider(cfg.Paddle)
	if err != nil {
		return err
	}

	tenantStore := tenant.NewPostgresStore(pool)
	keyStore := apikey.NewPostgresStore(pool)
	billingStore := billing.NewPostgresStore(pool)

	keyAuth, err := apikey.NewAuthenticator(keyStore, apikey.WithLogger(log))
	if err != nil {
		return err
	}

	limiter, err := ratelimit.NewFixedWindow(
		ratelimit.NewRedisStore(redisClient),
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
	)
	if err != nil {
		return err
	}

	processor, err := billing.NewProcessor(billingStore, billingStore, provider, catalog,
		billing.WithLogger(log))
	if err != nil {
		return err
	}

	router := routes(routeDeps{
		log:         log,
		verifier:    redisSessionVerifier(redisClient),
		memberships: tenantStore,
		orgs:        tenantStore,
		keys:        keyStore,
		keyAuth:     keyAuth,
		limiter:     limiter,
		processor:   processor,
		readiness: []func(context.Context) error{
			pg.Healthcheck(pool),
			redis.Healthcheck(redisClient),
		},
	})

	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, router)
}

type routeDeps struct {
	log         *slog.Logger
	verifier    authz.SessionVerifier
	memberships tenant.MembershipSource
	orgs        tenant.OrganizationSource
	keys        apikey.Store
	keyAuth     *apikey.Authenticator
	limiter     *ratelimit.FixedWindow
	processor   *billing.Processor
	readiness   []func(context.Context) error
}

func routes(deps routeDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", httpserver.HealthHandler(deps.log))
	r.Get("/readyz", httpserver.HealthHandler(deps.log, deps.readiness...))

	r.Post("/webhooks/billing", billing.WebhookHandler(deps.processor, deps.log).ServeHTTP)

	// Session traffic: cookie or bearer session resolved to a principal,
	// organization selected via the X-Organization-ID header.
	r.Route("/api", func(r chi.Router) {
		r.Use(authz.Authenticate(deps.verifier))
		r.Use(tenant.Resolve(deps.memberships, tenant.WithLogger(deps.log)))

		r.With(authz.Require(authz.LevelAuthenticated)).
			Get("/me", handleMe)

		r.With(authz.Require(authz.LevelTenantScoped)).
			Get("/organization", handleOrganization(deps.orgs))

		r.With(authz.Require(authz.LevelAdminOrAbove)).
			Get("/organization/keys", handleListKeys(deps.keys))
		r.With(authz.Require(authz.LevelAdminOrAbove)).
			Post("/organization/keys", handleCreateKey(deps.keys))

		r.With(authz.Require(authz.LevelOwnerOnly)).
			Delete("/organization/keys/{keyID}", handleRevokeKey(deps.keys))
	})

	// Machine traffic: API key authentication, then per-key rate
	// limiting so invalid credentials never consume budget.
	r.Route("/v1", func(r chi.Router) {
		r.Use(apikey.Middleware(deps.keyAuth))
		r.Use(ratelimit.Middleware(deps.limiter, apikey.RateLimitKey))

		r.With(apikey.RequireScopes("organization.read")).
			Get("/organization", handleOrganizationByKey(deps.orgs))
	})

	return r
}

// redisSessionVerifier resolves opaque session tokens through Redis.
// Sessions are written by the auth service; this process only reads them.
func redisSessionVerifier(client goredis.UniversalClient) authz.SessionVerifier {
	return authz.SessionVerifierFunc(func(ctx context.Context, credential string) (uuid.UUID, error) {
		value, err := client.Get(ctx, "session:"+credential).Result()
		if err != nil {
			return uuid.Nil, authz.ErrInvalidSession
		}
		principalID, err := uuid.Parse(value)
		if err != nil {
			return uuid.Nil, authz.ErrInvalidSession
		}
		return principalID, nil
	})
}

func handleMe(w http.ResponseWriter, r *http.Request) {
	principalID, _ := authz.PrincipalFromContext(r.Context())
	resp := map[string]any{"principal_id": principalID}
	if role, ok := authz.RoleFromContext(r.Context()); ok {
		resp["role"] = role.String()
	}
	core.RespondJSON(w, http.StatusOK, resp)
}

func handleOrganization(orgs tenant.OrganizationSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _ := authz.OrganizationIDFromContext(r.Context())
		org, err := orgs.GetByID(r.Context(), orgID)
		if err != nil {
			core.RespondError(w, core.ErrNotFound)
			return
		}
		core.RespondJSON(w, http.StatusOK, org)
	}
}

func handleOrganizationByKey(orgs tenant.OrganizationSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, _ := apikey.AccessFromContext(r.Context())
		org, err := orgs.GetByID(r.Context(), access.OrgID)
		if err != nil {
			core.RespondError(w, core.ErrNotFound)
			return
		}
		core.RespondJSON(w, http.StatusOK, org)
	}
}

func handleListKeys(keys apikey.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _ := authz.OrganizationIDFromContext(r.Context())
		list, err := keys.ListByOrganization(r.Context(), orgID)
		if err != nil {
			core.RespondError(w, core.ErrInternalServerError)
			return
		}
		core.RespondJSON(w, http.StatusOK, list)
	}
}

func handleCreateKey(keys apikey.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name   string   `json:"name"`
			Scopes []string `json:"scopes"`
		}
		if err := core.DecodeJSON(r, &req); err != nil || req.Name == "" {
			core.RespondError(w, core.ErrBadRequest)
			return
		}

		orgID, _ := authz.OrganizationIDFromContext(r.Context())
		key, secret, err := apikey.Generate(orgID, req.Name, apikey.WithScopes(req.Scopes...))
		if err != nil {
			core.RespondError(w, core.ErrInternalServerError)
			return
		}
		if err := keys.Create(r.Context(), key); err != nil {
			core.RespondError(w, core.ErrInternalServerError)
			return
		}

		// The only response that ever contains the plaintext secret.
		core.RespondJSON(w, http.StatusCreated, map[string]any{
			"key":    key,
			"secret": secret,
		})
	}
}

func handleRevokeKey(keys apikey.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyID, err := uuid.Parse(chi.URLParam(r, "keyID"))
		if err != nil {
			core.RespondError(w, core.ErrBadRequest)
			return
		}

		orgID, _ := authz.OrganizationIDFromContext(r.Context())
		if err := ensureKeyOwnership(r.Context(), keys, orgID, keyID); err != nil {
			core.RespondError(w, core.ErrNotFound)
			return
		}

		if err := keys.Revoke(r.Context(), keyID, time.Now().UTC()); err != nil {
			if errors.Is(err, apikey.ErrKeyNotFound) {
				core.RespondError(w, core.ErrNotFound)
				return
			}
			core.RespondError(w, core.ErrInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ensureKeyOwnership confirms the key belongs to the selected
// organization before any mutation.
func ensureKeyOwnership(ctx context.Context, keys apikey.Store, orgID, keyID uuid.UUID) error {
	list, err := keys.ListByOrganization(ctx, orgID)
	if err != nil {
		return err
	}
	for _, key := range list {
		if key.ID == keyID {
			return nil
		}
	}
	return apikey.ErrKeyNotFound
}
