package models

import "time"

// ShopperState is one persisted key/value entry of client-side shopper state.
type ShopperState struct {
	Scope     string    `gorm:"column:scope;primaryKey"`
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ShopperState) TableName() string {
	return "shopper_state"
}
