package models

import "time"

// SubscriptionState is the canonical per-tenant subscription snapshot derived
// from payment webhook payloads. Active is always computed from the other
// fields, never set directly.
type SubscriptionState struct {
	Active         bool      `gorm:"default:false;index" json:"active"`
	Refunded       bool      `gorm:"default:false" json:"refunded"`
	Disputed       bool      `gorm:"default:false" json:"disputed"`
	Chargebacked   bool      `gorm:"default:false" json:"chargebacked"`
	Cancelled      bool      `gorm:"default:false" json:"cancelled"`
	Recurrence     string    `gorm:"type:varchar(32);default:''" json:"recurrence"`
	IsRecurring    bool      `gorm:"default:false" json:"is_recurring"`
	SubscriptionID string    `gorm:"type:varchar(191);default:''" json:"subscription_id"`
	OrderID        string    `gorm:"type:varchar(191);default:''" json:"order_id"`
	RawStatus      string    `gorm:"type:varchar(64);default:''" json:"raw_status"`
	UpdatedAt      time.Time `gorm:"type:timestamp;default:null" json:"updated_at"`
}

// Tenant is one onboarded customer account. Slug is the stable identifier
// derived from the purchaser email on first contact; it never changes once
// assigned.
type Tenant struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	Slug           string            `gorm:"type:varchar(64);not null;uniqueIndex" json:"tenant_id"`
	Email          string            `gorm:"type:varchar(200);default:'';index" json:"email"`
	FullName       string            `gorm:"type:varchar(150);default:''" json:"full_name"`
	Product        string            `gorm:"type:varchar(150);default:''" json:"product"`
	Website        string            `gorm:"type:varchar(255);default:''" json:"website"`
	Company        string            `gorm:"type:varchar(150);default:''" json:"company"`
	Subscription   SubscriptionState `gorm:"embedded;embeddedPrefix:sub_" json:"subscription"`
	RawPayloadJSON string            `gorm:"type:longtext" json:"raw_payload_json"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}
