package ownership

import (
	"context"
	"fmt"

	"github.com/mateoavila/nft-transfers/internal/dispatch"
	"github.com/mateoavila/nft-transfers/internal/transfers"
	"github.com/mateoavila/nft-transfers/pkg/db/models"
	"github.com/mateoavila/nft-transfers/pkg/logger"
)

// UpdateOwnershipHandlerName identifies the mirror handler in logs and metrics.
const UpdateOwnershipHandlerName = "updateOwnership"

// NewUpdateOwnershipHandler writes `{owner: to}` onto the token's mirror
// record. The write is best-effort: the mirror is a denormalized
// convenience, so failures are logged by the dispatcher and never block the
// reconciliation result.
func NewUpdateOwnershipHandler(repo Repository, logg *logger.Logger) dispatch.Handler {
	return dispatch.Handler{
		Name:     UpdateOwnershipHandlerName,
		Critical: false,
		Fn: func(ctx context.Context, t transfers.Transfer) error {
			t = t.Normalized()
			token := &models.Token{
				ChainID:           t.ChainID,
				CollectionAddress: t.CollectionAddr,
				TokenID:           t.TokenID,
				OwnerAddress:      t.To,
			}
			if err := repo.UpsertOwner(ctx, token); err != nil {
				return fmt.Errorf("upsert owner of %s: %w", t.TokenKey(), err)
			}
			if logg != nil {
				logg.Info(logg.WithFields(ctx, t.LogFields()), "token ownership mirror updated")
			}
			return nil
		},
	}
}
