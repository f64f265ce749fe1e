package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mateoavila/nft-transfers/internal/transfers"
	"github.com/mateoavila/nft-transfers/pkg/logger"
)

// Service reconciles the order book against ownership changes.
type Service interface {
	ReconcileTransfer(ctx context.Context, t transfers.Transfer) error
}

type service struct {
	repo      Repository
	tx        txRunner
	usernames UsernameResolver
	policy    Policy
	logg      *logger.Logger
}

// NewService builds the reconciliation service with the required dependencies.
func NewService(repo Repository, tx txRunner, usernames UsernameResolver, policy Policy, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reconcile repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if usernames == nil {
		return nil, fmt.Errorf("username resolver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		usernames: usernames,
		policy:    policy.withDefaults(),
		logg:      logg,
	}, nil
}

// ReconcileTransfer locates every order touched by the transfer and updates
// each aggregate in turn. Orders are processed sequentially; per-order
// atomicity comes from the aggregate's transactional persist.
func (s *service) ReconcileTransfer(ctx context.Context, t transfers.Transfer) error {
	t = t.Normalized()

	queries := ImpactedItemQueries(t, s.policy.OwnerInheritsOffers)

	orderIDs, err := s.impactedOrderIDs(ctx, queries)
	if err != nil {
		return err
	}

	logCtx := s.logg.WithFields(ctx, t.LogFields())
	s.logg.Info(logCtx, fmt.Sprintf("found %d orders to update", len(orderIDs)))

	for _, orderID := range orderIDs {
		order, err := LoadOrder(ctx, s.repo, orderID, s.policy, s.usernames)
		if err != nil {
			return err
		}
		if err := order.HandleTransfer(ctx, t, s.tx, s.repo); err != nil {
			return err
		}
	}

	return nil
}

// impactedOrderIDs executes both predicate sets and dedupes the parent
// order ids, preserving discovery order.
func (s *service) impactedOrderIDs(ctx context.Context, queries ImpactQueries) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]struct{}{}
	ids := []uuid.UUID{}

	for _, query := range []ItemQuery{queries.Offers, queries.Listings} {
		items, err := s.repo.FindImpactedItems(ctx, query)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if _, ok := seen[item.OrderID]; ok {
				continue
			}
			seen[item.OrderID] = struct{}{}
			ids = append(ids, item.OrderID)
		}
	}

	return ids, nil
}
