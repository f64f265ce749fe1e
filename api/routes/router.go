package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mateoavila/nft-transfers/api/controllers"
	webhookcontrollers "github.com/mateoavila/nft-transfers/api/controllers/webhooks"
	"github.com/mateoavila/nft-transfers/api/middleware"
	"github.com/mateoavila/nft-transfers/internal/transfers"
	"github.com/mateoavila/nft-transfers/pkg/config"
	"github.com/mateoavila/nft-transfers/pkg/logger"
)

// NewRouter wires the ingestion API: the indexer webhook plus health and
// warmup probes.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	publisher transfers.Publisher,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	pubsubP controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/", controllers.Root())
	r.Get("/_ah/warmup", controllers.Warmup(logg))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": dbP,
			"redis":    redisP,
			"pubsub":   pubsubP,
		}))
	})

	r.Post("/webhooks/goldsky", webhookcontrollers.GoldskyWebhook(cfg.Webhook, publisher, logg))

	return r
}
