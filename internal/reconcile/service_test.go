package reconcile

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoavila/nft-transfers/pkg/db/models"
	"github.com/mateoavila/nft-transfers/pkg/enums"
	"github.com/mateoavila/nft-transfers/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

// serviceRepo records the executed queries and serves a canned result per call.
type serviceRepo struct {
	stubRepo
	queries []ItemQuery
	results [][]models.OrderItem
}

func (s *serviceRepo) FindImpactedItems(ctx context.Context, query ItemQuery) ([]models.OrderItem, error) {
	idx := len(s.queries)
	s.queries = append(s.queries, query)
	if idx < len(s.results) {
		return s.results[idx], nil
	}
	return nil, nil
}

func (s *serviceRepo) WithTx(tx *gorm.DB) Repository { return s }

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, &recordingTxRunner{}, &stubUsernames{}, testPolicy(true), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestNewServiceRequiresDeps(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil, &recordingTxRunner{}, &stubUsernames{}, Policy{}, testLogger()); err == nil {
		t.Fatal("expected error for missing repository")
	}
	if _, err := NewService(&stubRepo{}, nil, &stubUsernames{}, Policy{}, testLogger()); err == nil {
		t.Fatal("expected error for missing tx runner")
	}
	if _, err := NewService(&stubRepo{}, &recordingTxRunner{}, nil, Policy{}, testLogger()); err == nil {
		t.Fatal("expected error for missing username resolver")
	}
	if _, err := NewService(&stubRepo{}, &recordingTxRunner{}, &stubUsernames{}, Policy{}, nil); err == nil {
		t.Fatal("expected error for missing logger")
	}
}

func TestReconcileTransferDedupesOrders(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	offer := *offerRow("0xmaker", "0xfrom")
	offer.OrderID = orderID
	listing := *listingRow("0xfrom")
	listing.OrderID = orderID

	repo := &serviceRepo{
		stubRepo: stubRepo{
			order: &models.Order{ID: orderID, Status: enums.OrderStatusValidActive},
		},
		results: [][]models.OrderItem{{offer}, {listing}},
	}
	repo.items = []models.OrderItem{offer, listing}
	svc := newTestService(t, repo)

	if err := svc.ReconcileTransfer(context.Background(), sampleTransfer("0xfrom", "0xto")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.queries) != 2 {
		t.Fatalf("expected both predicate sets executed, got %d", len(repo.queries))
	}
	// Both items share a parent, so the aggregate is loaded and persisted once.
	if len(repo.savedRows) != 2 {
		t.Fatalf("expected both items of the single order persisted, got %d", len(repo.savedRows))
	}
}

func TestReconcileTransferNormalizesReverts(t *testing.T) {
	t.Parallel()

	repo := &serviceRepo{}
	svc := newTestService(t, repo)

	tr := sampleTransfer("0xfrom", "0xto")
	tr.Kind = enums.TransferKindRevert

	if err := svc.ReconcileTransfer(context.Background(), tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The revert swaps the sides before the queries are built.
	if len(repo.queries) != 2 {
		t.Fatalf("expected both predicate sets executed, got %d", len(repo.queries))
	}
	listings := repo.queries[1]
	if listings.MakerIn[0] != "0xfrom" || listings.MakerIn[1] != "0xto" {
		t.Fatalf("expected swapped sides in the listings query, got %v", listings.MakerIn)
	}
}

func TestReconcileTransferNoImpactedOrders(t *testing.T) {
	t.Parallel()

	repo := &serviceRepo{}
	svc := newTestService(t, repo)

	if err := svc.ReconcileTransfer(context.Background(), sampleTransfer("0xfrom", "0xto")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.savedRows) != 0 {
		t.Fatalf("expected no writes without impacted orders, got %d", len(repo.savedRows))
	}
}
