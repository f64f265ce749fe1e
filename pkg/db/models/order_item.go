package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mateoavila/nft-transfers/pkg/enums"
)

// OrderItem is the per-token projection of one side of an order. Rows are
// queried by token identity across all orders, so the token columns are
// denormalized onto every row.
type OrderItem struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID         `gorm:"column:order_id;type:uuid;not null"`
	ChainID           string            `gorm:"column:chain_id;not null"`
	CollectionAddress string            `gorm:"column:collection_address;not null"`
	TokenID           string            `gorm:"column:token_id;not null"`
	IsSellOrder       bool              `gorm:"column:is_sell_order;not null"`
	MakerAddress      string            `gorm:"column:maker_address;not null"`
	MakerUsername     string            `gorm:"column:maker_username"`
	TakerAddress      string            `gorm:"column:taker_address"`
	TakerUsername     string            `gorm:"column:taker_username"`
	NumTokens         int               `gorm:"column:num_tokens;not null;default:1"`
	StartTimeMs       int64             `gorm:"column:start_time_ms;not null"`
	EndTimeMs         int64             `gorm:"column:end_time_ms;not null"`
	OrderStatus       enums.OrderStatus `gorm:"column:order_status;type:order_status;not null;default:'validActive'"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName implements the GORM table naming convention.
func (OrderItem) TableName() string {
	return "order_items"
}

// Type maps the stored side flag onto the order type enum.
func (i OrderItem) Type() enums.OrderType {
	if i.IsSellOrder {
		return enums.OrderTypeListing
	}
	return enums.OrderTypeOffer
}
