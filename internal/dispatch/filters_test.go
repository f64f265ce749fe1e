package dispatch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mateoavila/nft-transfers/pkg/enums"
)

type stubDedupeStore struct {
	fresh bool
	err   error
	keys  []string
}

func (s *stubDedupeStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return false, s.err
	}
	return s.fresh, nil
}

func (s *stubDedupeStore) TransferSeenKey(txHash, tokenKey, kind string) string {
	return fmt.Sprintf("transfer_seen:%s:%s:%s", txHash, tokenKey, kind)
}

func TestChainAllowlistFilter(t *testing.T) {
	t.Parallel()

	filter := ChainAllowlistFilter([]string{"1", "137"})

	tr := testTransfer()
	admit, err := filter(context.Background(), tr)
	if err != nil || !admit {
		t.Fatalf("expected chain 1 admitted, got %v %v", admit, err)
	}

	tr.ChainID = "10"
	admit, err = filter(context.Background(), tr)
	if err != nil || admit {
		t.Fatalf("expected chain 10 rejected, got %v %v", admit, err)
	}
}

func TestDedupeFilterDropsRedeliveries(t *testing.T) {
	t.Parallel()

	store := &stubDedupeStore{fresh: true}
	filter := DedupeFilter(store, time.Hour, testLogger())

	admit, err := filter(context.Background(), testTransfer())
	if err != nil || !admit {
		t.Fatalf("expected first delivery admitted, got %v %v", admit, err)
	}

	store.fresh = false
	admit, err = filter(context.Background(), testTransfer())
	if err != nil || admit {
		t.Fatalf("expected redelivery dropped, got %v %v", admit, err)
	}
	if len(store.keys) != 2 || store.keys[0] != store.keys[1] {
		t.Fatalf("expected the same dedupe key per delivery, got %v", store.keys)
	}
}

func TestDedupeFilterFailsOpen(t *testing.T) {
	t.Parallel()

	store := &stubDedupeStore{err: fmt.Errorf("redis unavailable")}
	filter := DedupeFilter(store, time.Hour, testLogger())

	admit, err := filter(context.Background(), testTransfer())
	if err != nil {
		t.Fatalf("expected the store failure swallowed, got %v", err)
	}
	if !admit {
		t.Fatal("expected the transfer admitted when the dedupe store is down")
	}
}

func TestDedupeFilterSeparatesApplyAndRevert(t *testing.T) {
	t.Parallel()

	store := &stubDedupeStore{fresh: true}
	filter := DedupeFilter(store, time.Hour, testLogger())

	apply := testTransfer()
	if _, err := filter(context.Background(), apply); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	revert := apply
	revert.Kind = enums.TransferKindRevert
	if _, err := filter(context.Background(), revert); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.keys[0] == store.keys[1] {
		t.Fatalf("expected distinct keys for apply and revert, got %v", store.keys)
	}
}
