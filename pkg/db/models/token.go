package models

import "time"

// Token is the denormalized ownership mirror for one NFT.
type Token struct {
	ChainID           string    `gorm:"column:chain_id;primaryKey"`
	CollectionAddress string    `gorm:"column:collection_address;primaryKey"`
	TokenID           string    `gorm:"column:token_id;primaryKey"`
	OwnerAddress      string    `gorm:"column:owner_address;not null"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName implements the GORM table naming convention.
func (Token) TableName() string {
	return "tokens"
}
