package http

import (
	"net/http"

	"github.com/mauv0809/tennis-oracle/internal/cache"
	"github.com/mauv0809/tennis-oracle/internal/config"
	"github.com/mauv0809/tennis-oracle/internal/http/handlers"
	"github.com/mauv0809/tennis-oracle/internal/inngest"
	"github.com/mauv0809/tennis-oracle/internal/metrics"
	"github.com/mauv0809/tennis-oracle/internal/notifier"
	"github.com/mauv0809/tennis-oracle/internal/pubsub"
	"github.com/mauv0809/tennis-oracle/internal/resolver"
	"github.com/mauv0809/tennis-oracle/internal/syncer"
	"github.com/mauv0809/tennis-oracle/internal/tennis"
	"google.golang.org/api/idtoken"
)

// NewServer wires the HTTP surface. inngestClient may be nil.
func NewServer(store tennis.Store, engine *syncer.Engine, res *resolver.Resolver, queryCache *cache.Cache, metricsSvc metrics.Metrics, metricsHandler http.Handler, usage metrics.UsageStore, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient, inngestClient inngest.InngestClient) *Server {
	server := &Server{
		Store:          store,
		Engine:         engine,
		Resolver:       res,
		Cache:          queryCache,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Usage:          usage,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
		inngestClient:  inngestClient,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	api := func(key string, h http.Handler) http.Handler {
		return Chain(h, paramsMiddleware, usageMiddleware(s.Usage, key))
	}
	var workflow handlers.SyncRequester
	if s.inngestClient != nil {
		workflow = s.inngestClient
	}

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /sync/status", Chain(handlers.SyncStatusHandler(s.Engine), paramsMiddleware))
	s.Router.Handle("POST /sync", api("sync", handlers.ForceSyncHandler(s.Engine, workflow)))
	s.Router.Handle("GET /sync/runs", Chain(handlers.SyncRunsHandler(s.Store), paramsMiddleware))
	s.Router.Handle("GET /cache/stats", Chain(handlers.CacheStatsHandler(s.Resolver), paramsMiddleware))
	s.Router.Handle("GET /stats/usage", Chain(handlers.UsageStatsHandler(s.Usage), paramsMiddleware))

	s.Router.Handle("POST /query", api("query", handlers.QueryHandler(s.Resolver)))
	s.Router.Handle("GET /api/tournament-winner", api(string(resolver.KindTournamentWinner), handlers.TournamentWinnerHandler(s.Resolver)))
	s.Router.Handle("GET /api/head-to-head", api(string(resolver.KindHeadToHead), handlers.HeadToHeadHandler(s.Resolver)))
	s.Router.Handle("GET /api/career", api(string(resolver.KindCareerStats), handlers.CareerStatsHandler(s.Resolver)))
	s.Router.Handle("GET /api/grand-slams", api(string(resolver.KindGrandSlamWinners), handlers.GrandSlamsHandler(s.Resolver)))
	s.Router.Handle("GET /api/most-successful", api(string(resolver.KindMostSuccessful), handlers.MostSuccessfulHandler(s.Resolver)))
	s.Router.Handle("GET /api/rankings", api(string(resolver.KindTopRanked), handlers.RankingsHandler(s.Resolver)))

	s.Router.Handle("POST /pubsub/data-synced", Chain(
		handlers.DataSyncedHandler(s.Cache, s.pubsub, s.Metrics),
		paramsMiddleware, pubsubPushAuthMiddleware(s.Cfg.PubSubPush, idtoken.Validate),
	))
	s.Router.Handle("POST /slack/command/tennis", Chain(
		handlers.TennisCommandHandler(s.Resolver, s.Engine, workflow, s.Notifier),
		paramsMiddleware, slackVerifyMiddleware(s.Cfg.Slack.SigningSecret), usageMiddleware(s.Usage, "slack"),
	))

	if s.inngestClient != nil {
		s.Router.Handle("/api/inngest", s.inngestClient.Serve())
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
