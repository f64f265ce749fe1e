package ownership

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mateoavila/nft-transfers/pkg/db/models"
)

// Repository persists the denormalized token ownership mirror.
type Repository interface {
	UpsertOwner(ctx context.Context, token *models.Token) error
	FindToken(ctx context.Context, chainID, collectionAddress, tokenID string) (*models.Token, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a token mirror repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) UpsertOwner(ctx context.Context, token *models.Token) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "chain_id"},
				{Name: "collection_address"},
				{Name: "token_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"owner_address", "updated_at"}),
		}).
		Create(token).Error
}

func (r *repository) FindToken(ctx context.Context, chainID, collectionAddress, tokenID string) (*models.Token, error) {
	var token models.Token
	err := r.db.WithContext(ctx).
		Where("chain_id = ?", chainID).
		Where("collection_address = ?", collectionAddress).
		Where("token_id = ?", tokenID).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}
