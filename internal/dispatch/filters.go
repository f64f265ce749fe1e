package dispatch

import (
	"context"
	"time"

	"github.com/mateoavila/nft-transfers/internal/transfers"
	"github.com/mateoavila/nft-transfers/pkg/logger"
)

type dedupeStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	TransferSeenKey(txHash, tokenKey, kind string) string
}

// ChainAllowlistFilter admits transfers on the configured chains only.
func ChainAllowlistFilter(chainIDs []string) Filter {
	allowed := make(map[string]struct{}, len(chainIDs))
	for _, id := range chainIDs {
		allowed[id] = struct{}{}
	}
	return func(ctx context.Context, t transfers.Transfer) (bool, error) {
		_, ok := allowed[t.ChainID]
		return ok, nil
	}
}

// DedupeFilter drops transfers already marked as seen, guarding against
// webhook redeliveries. The mark fails open: when Redis is unavailable the
// transfer is processed rather than lost.
func DedupeFilter(store dedupeStore, ttl time.Duration, logg *logger.Logger) Filter {
	return func(ctx context.Context, t transfers.Transfer) (bool, error) {
		key := store.TransferSeenKey(t.TxHash, t.TokenKey(), t.Kind.String())
		fresh, err := store.SetNX(ctx, key, 1, ttl)
		if err != nil {
			if logg != nil {
				logg.Warn(logg.WithFields(ctx, t.LogFields()), "transfer dedupe unavailable, processing anyway")
			}
			return true, nil
		}
		return fresh, nil
	}
}
