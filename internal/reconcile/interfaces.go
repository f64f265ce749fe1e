package reconcile

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateoavila/nft-transfers/pkg/db/models"
	"github.com/mateoavila/nft-transfers/pkg/enums"
)

// Repository defines persistence operations for the order book tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindImpactedItems(ctx context.Context, query ItemQuery) ([]models.OrderItem, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	SaveItem(ctx context.Context, item *models.OrderItem) error
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
}

// UsernameResolver maps an address to its marketplace display name. An
// unknown address yields an empty name with a nil error; only I/O failures
// are errors.
type UsernameResolver interface {
	ResolveDisplayName(ctx context.Context, address string) (string, error)
}

// QuantityFunc reports how many units of the token the owner currently
// holds. The default implementation assumes unit ownership (ERC-721);
// ERC-1155 balance lookups plug in here without touching the state machine.
type QuantityFunc func(ctx context.Context, chainID, collectionAddress, tokenID, owner string) int

// UnitQuantity is the default QuantityFunc for single-unit tokens.
func UnitQuantity(ctx context.Context, chainID, collectionAddress, tokenID, owner string) int {
	return 1
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
