package model

import (
	"time"
)

// CustomerMapping maps provider customer IDs to participants
type CustomerMapping struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ExternalID  string    `gorm:"column:external_id;unique;not null;size:100;index" json:"external_id"`
	Participant string    `gorm:"column:participant;not null;size:100;index" json:"participant"`
	CreatedAt   time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (CustomerMapping) TableName() string {
	return "customer_mappings"
}

// ConnectedAccountMapping maps provider connected-account IDs to participants
type ConnectedAccountMapping struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ExternalID  string    `gorm:"column:external_id;unique;not null;size:100;index" json:"external_id"`
	Participant string    `gorm:"column:participant;not null;size:100;index" json:"participant"`
	CreatedAt   time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ConnectedAccountMapping) TableName() string {
	return "connected_account_mappings"
}
