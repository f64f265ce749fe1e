package models

import "time"

// User maps a wallet address to marketplace profile data.
type User struct {
	Address     string    `gorm:"column:address;primaryKey"`
	DisplayName string    `gorm:"column:display_name"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName implements the GORM table naming convention.
func (User) TableName() string {
	return "users"
}
