package reconcile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoavila/nft-transfers/internal/transfers"
	"github.com/mateoavila/nft-transfers/pkg/db/models"
	"github.com/mateoavila/nft-transfers/pkg/enums"
	pkgerrors "github.com/mateoavila/nft-transfers/pkg/errors"
)

// Order is the aggregate over the item projections sharing one order
// identity. It is constructed from a fresh read per reconciliation and
// guarantees its items are updated and persisted as a single unit.
type Order struct {
	row   *models.Order
	items []*OrderItem
}

// LoadOrder reads the aggregate record plus its child items.
func LoadOrder(ctx context.Context, repo Repository, orderID uuid.UUID, policy Policy, usernames UsernameResolver) (*Order, error) {
	row, err := repo.FindOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	itemRows, err := repo.FindItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
	}

	items := make([]*OrderItem, 0, len(itemRows))
	for idx := range itemRows {
		items = append(items, NewOrderItem(&itemRows[idx], policy, usernames))
	}

	return &Order{row: row, items: items}, nil
}

// ID returns the aggregate identity.
func (o *Order) ID() uuid.UUID {
	return o.row.ID
}

// Items exposes the contained projections.
func (o *Order) Items() []*OrderItem {
	return o.items
}

// HandleTransfer applies the transfer to every contained item and persists
// the results in one transaction. If any item fails mid-update the whole
// batch rolls back; a half-updated aggregate is never observable.
func (o *Order) HandleTransfer(ctx context.Context, t transfers.Transfer, tx txRunner, repo Repository) error {
	updated := make([]*models.OrderItem, 0, len(o.items))
	for _, item := range o.items {
		row, err := item.ApplyTransfer(ctx, t)
		if err != nil {
			return err
		}
		updated = append(updated, row)
	}

	status := o.aggregateStatus()

	return tx.WithTx(ctx, func(gtx *gorm.DB) error {
		txRepo := repo.WithTx(gtx)
		for _, row := range updated {
			if err := txRepo.SaveItem(ctx, row); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order item")
			}
		}
		if status != o.row.Status {
			if err := txRepo.UpdateOrderStatus(ctx, o.row.ID, status); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order status")
			}
			o.row.Status = status
		}
		return nil
	})
}

// aggregateStatus folds the item statuses into the order status: the order
// is only as valid as its weakest item.
func (o *Order) aggregateStatus() enums.OrderStatus {
	status := enums.OrderStatusValidActive
	for _, item := range o.items {
		switch item.Row().OrderStatus {
		case enums.OrderStatusInvalid:
			return enums.OrderStatusInvalid
		case enums.OrderStatusValidInactive:
			status = enums.OrderStatusValidInactive
		}
	}
	if len(o.items) == 0 {
		return o.row.Status
	}
	return status
}
