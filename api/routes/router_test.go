package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mateoavila/nft-transfers/internal/transfers"
	"github.com/mateoavila/nft-transfers/pkg/config"
	"github.com/mateoavila/nft-transfers/pkg/logger"
)

type noopPublisher struct{}

func (noopPublisher) PublishTransfer(ctx context.Context, t transfers.Transfer) error { return nil }

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

func newTestRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Webhook = config.WebhookConfig{AuthSecret: "secret", ChainID: "1"}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewRouter(cfg, logg, noopPublisher{}, okPinger{}, okPinger{}, okPinger{})
}

func TestRouterProbes(t *testing.T) {
	t.Parallel()

	router := newTestRouter()

	for _, path := range []string{"/", "/_ah/warmup", "/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", path, rec.Code)
		}
	}
}

func TestRouterWebhookRequiresAuth(t *testing.T) {
	t.Parallel()

	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/goldsky", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth header, got %d", rec.Code)
	}
}
