package http

import (
	"net/http"

	"github.com/mauv0809/tennis-oracle/internal/cache"
	"github.com/mauv0809/tennis-oracle/internal/config"
	"github.com/mauv0809/tennis-oracle/internal/inngest"
	"github.com/mauv0809/tennis-oracle/internal/metrics"
	"github.com/mauv0809/tennis-oracle/internal/notifier"
	"github.com/mauv0809/tennis-oracle/internal/pubsub"
	"github.com/mauv0809/tennis-oracle/internal/resolver"
	"github.com/mauv0809/tennis-oracle/internal/syncer"
	"github.com/mauv0809/tennis-oracle/internal/tennis"
)

type Server struct {
	Store          tennis.Store
	Engine         *syncer.Engine
	Resolver       *resolver.Resolver
	Cache          *cache.Cache
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Usage          metrics.UsageStore
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
	inngestClient  inngest.InngestClient
}
