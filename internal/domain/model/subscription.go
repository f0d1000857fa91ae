package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionType mirrors entity.SubscriptionType at the storage layer
type SubscriptionType string

// Scan implements sql.Scanner interface
func (s *SubscriptionType) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = SubscriptionType(v)
	case []byte:
		*s = SubscriptionType(v)
	default:
		*s = ""
	}
	return nil
}

// Value implements driver.Valuer interface
func (s SubscriptionType) Value() (driver.Value, error) {
	return string(s), nil
}

// Subscription represents a participant's subscription record
type Subscription struct {
	ID               int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	ExternalID       string           `gorm:"column:external_id;unique;not null;size:100;index" json:"external_id"`
	Participant      string           `gorm:"not null;size:100;index" json:"participant"`
	IsActive         bool             `gorm:"not null;default:false" json:"is_active"`
	SubscriptionType SubscriptionType `gorm:"type:subscription_type;not null" json:"subscription_type"`
	Resource         *string          `gorm:"size:255" json:"resource,omitempty"`
	Resources        StringArray      `gorm:"type:jsonb" json:"resources,omitempty"`
	LimitDate        *time.Time       `json:"limit_date,omitempty"`
	PayAmount        *decimal.Decimal `gorm:"type:numeric(12,2)" json:"pay_amount,omitempty"`
	UsageCount       *int64           `json:"usage_count,omitempty"`
	StartDate        time.Time        `gorm:"not null" json:"start_date"`
	EndDate          *time.Time       `json:"end_date,omitempty"`
	CreatedAt        time.Time        `gorm:"default:now()" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}

// StringArray stores a string slice as JSONB
type StringArray []string

// Value implements driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner interface
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		*a = StringArray{}
		return nil
	}
}

// JSONB represents a JSONB database type
type JSONB map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONB) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		*j = make(JSONB)
		return nil
	}
}
