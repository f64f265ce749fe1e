package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mateoavila/nft-transfers/pkg/enums"
)

// Order is the aggregate record for a logical trade. A bundle order spans
// several tokens, each projected into its own OrderItem row.
type Order struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ChainID      string            `gorm:"column:chain_id;not null"`
	MakerAddress string            `gorm:"column:maker_address;not null"`
	IsSellOrder  bool              `gorm:"column:is_sell_order;not null"`
	NumItems     int               `gorm:"column:num_items;not null;default:1"`
	StartTimeMs  int64             `gorm:"column:start_time_ms;not null"`
	EndTimeMs    int64             `gorm:"column:end_time_ms;not null"`
	Status       enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'validActive'"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// TableName implements the GORM table naming convention.
func (Order) TableName() string {
	return "orders"
}
