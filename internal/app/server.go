package app

import (
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wenyan-gloss/internal/adapter/postgres"
	"github.com/heartmarshall/wenyan-gloss/internal/adapter/postgres/corpusquery"
	"github.com/heartmarshall/wenyan-gloss/internal/adapter/postgres/corpusstat"
	"github.com/heartmarshall/wenyan-gloss/internal/config"
	"github.com/heartmarshall/wenyan-gloss/internal/corpus"
	"github.com/heartmarshall/wenyan-gloss/internal/service/definition"
	"github.com/heartmarshall/wenyan-gloss/internal/service/glossary"
	"github.com/heartmarshall/wenyan-gloss/internal/transport/middleware"
	"github.com/heartmarshall/wenyan-gloss/internal/transport/rest"
)

// NewHandler builds the HTTP handler of the gloss API: repositories,
// services, REST handlers and the middleware chain. defs may be nil when the
// dictionary is disabled. The returned func releases background resources.
func NewHandler(
	logger *slog.Logger,
	cfg *config.Config,
	corp *corpus.Corpus,
	pool *pgxpool.Pool,
	defs *definition.Service,
) (http.Handler, func()) {
	txm := postgres.NewTxManager(pool)
	stats := corpusstat.New(pool)
	queries := corpusquery.New(pool)

	glossSvc := glossary.NewService(logger, corp, stats, queries, txm, cfg.Corpus.PageSize)

	// defs stays out of the interfaces when nil so handlers see a true nil.
	var glossHandler *rest.GlossHandler
	if defs != nil {
		glossSvc.SetDefinitions(defs)
		glossHandler = rest.NewGlossHandler(glossSvc, defs, logger)
	} else {
		glossHandler = rest.NewGlossHandler(glossSvc, nil, logger)
	}

	mux := http.NewServeMux()
	rest.Register(mux, glossHandler, rest.NewHealthHandler(pool, corp, defs != nil, BuildVersion()))

	var (
		limit   middleware.Middleware
		cleanup = func() {}
	)
	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		limit = rl.Limit(cfg.RateLimit.RequestsPerMinute)
		cleanup = rl.Stop
	}

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		limit,
	)
	return chain(mux), cleanup
}
