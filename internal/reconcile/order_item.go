package reconcile

import (
	"context"
	"time"

	"github.com/mateoavila/nft-transfers/internal/transfers"
	"github.com/mateoavila/nft-transfers/pkg/db/models"
	"github.com/mateoavila/nft-transfers/pkg/enums"
	pkgerrors "github.com/mateoavila/nft-transfers/pkg/errors"
)

// Policy carries the order-book rules and pluggable lookups the engine
// evaluates against. It is injected at construction and never mutated.
type Policy struct {
	// OwnerInheritsOffers re-points every matching offer's taker at the
	// transfer recipient instead of comparing against the previous taker.
	OwnerInheritsOffers bool
	// Quantity resolves the owned amount for validity checks. Defaults to
	// UnitQuantity.
	Quantity QuantityFunc
	// Now is the liveness clock, overridable in tests.
	Now func() time.Time
}

func (p Policy) withDefaults() Policy {
	if p.Quantity == nil {
		p.Quantity = UnitQuantity
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return p
}

// OrderItem is the state machine for a single order-side projection. It
// owns its row for the duration of one reconciliation pass: loaded fresh,
// mutated in memory, persisted once.
type OrderItem struct {
	row       *models.OrderItem
	policy    Policy
	usernames UsernameResolver

	initialOwner string
	currentOwner string
}

// NewOrderItem wraps a freshly loaded row. The starting owner derives from
// the order side: a listing's token sits with the maker, an offer's with
// the taker.
func NewOrderItem(row *models.OrderItem, policy Policy, usernames UsernameResolver) *OrderItem {
	item := &OrderItem{
		row:       row,
		policy:    policy.withDefaults(),
		usernames: usernames,
	}
	item.initialOwner = item.ownerFromOrder()
	item.currentOwner = item.initialOwner
	return item
}

// Row exposes the backing record.
func (i *OrderItem) Row() *models.OrderItem {
	return i.row
}

// CurrentOwner returns the owner the engine currently attributes the token to.
func (i *OrderItem) CurrentOwner() string {
	return i.currentOwner
}

// TransferMatches reports whether the transfer affects this item. The token
// identity must match exactly; beyond that a listing is touched when the
// maker sits on either side of the transfer, and an offer is touched when
// the taker gains the token or the owner-inherits-offers policy makes every
// offer track the new holder.
func (i *OrderItem) TransferMatches(t transfers.Transfer) bool {
	correctToken := t.CollectionAddr == i.row.CollectionAddress &&
		t.TokenID == i.row.TokenID &&
		t.ChainID == i.row.ChainID
	if !correctToken {
		return false
	}

	if i.row.Type() == enums.OrderTypeListing {
		return t.To == i.row.MakerAddress || t.From == i.row.MakerAddress
	}

	takerIsGainingToken := t.To == i.row.TakerAddress
	return i.policy.OwnerInheritsOffers || takerIsGainingToken
}

// ApplyTransfer mutates the projection for a matching transfer and
// recomputes its status. Non-matching transfers leave the item untouched.
// The mutation is in-memory only; persistence happens separately.
func (i *OrderItem) ApplyTransfer(ctx context.Context, t transfers.Transfer) (*models.OrderItem, error) {
	if !i.TransferMatches(t) {
		return i.row, nil
	}

	if i.row.Type() == enums.OrderTypeOffer && i.policy.OwnerInheritsOffers {
		i.row.TakerAddress = t.To
		username, err := i.usernames.ResolveDisplayName(ctx, t.To)
		if err != nil {
			// A stale username attached to the new taker must not be
			// persisted, so resolution failure aborts the update.
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve taker username")
		}
		i.row.TakerUsername = username
	}

	i.currentOwner = t.To
	i.row.OrderStatus = i.computeStatus(ctx)

	return i.row, nil
}

// computeStatus is a pure function of liveness, ownership, and quantity; it
// always returns exactly one of the three statuses.
func (i *OrderItem) computeStatus(ctx context.Context) enums.OrderStatus {
	if !i.isLive() {
		return enums.OrderStatusInvalid
	}

	ownedQuantity := i.policy.Quantity(ctx, i.row.ChainID, i.row.CollectionAddress, i.row.TokenID, i.currentOwner)
	ownsEnough := ownedQuantity >= i.row.NumTokens

	var isValidActive bool
	if i.row.Type() == enums.OrderTypeOffer {
		takerIsCurrentOwner := i.row.TakerAddress == i.currentOwner
		makerIsTaker := i.row.MakerAddress == i.row.TakerAddress
		isValidActive = takerIsCurrentOwner && ownsEnough && !makerIsTaker
	} else {
		makerIsCurrentOwner := i.row.MakerAddress == i.currentOwner
		isValidActive = makerIsCurrentOwner && ownsEnough
	}

	if isValidActive {
		return enums.OrderStatusValidActive
	}
	return enums.OrderStatusValidInactive
}

// isLive reports whether the current time falls inside the order window.
func (i *OrderItem) isLive() bool {
	now := i.policy.Now().UnixMilli()
	if now < i.row.StartTimeMs {
		return false
	}
	if i.row.EndTimeMs > 0 && now > i.row.EndTimeMs {
		return false
	}
	return true
}

// Persist writes the in-memory state back through the repository. Callers
// batching several items into one transaction pass a tx-bound repository.
func (i *OrderItem) Persist(ctx context.Context, repo Repository) error {
	return repo.SaveItem(ctx, i.row)
}

func (i *OrderItem) ownerFromOrder() string {
	if i.row.Type() == enums.OrderTypeOffer {
		return i.row.TakerAddress
	}
	return i.row.MakerAddress
}
