package reconcile

import (
	"github.com/mateoavila/nft-transfers/internal/dispatch"
)

// UpdateOrdersHandlerName identifies the reconciliation handler in logs,
// metrics, and aggregated dispatch failures.
const UpdateOrdersHandlerName = "updateOrders"

// NewUpdateOrdersHandler adapts the service into a critical dispatch
// handler: its failures surface to the event source.
func NewUpdateOrdersHandler(svc Service) dispatch.Handler {
	return dispatch.Handler{
		Name:     UpdateOrdersHandlerName,
		Critical: true,
		Fn:       svc.ReconcileTransfer,
	}
}
