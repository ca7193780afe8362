package models

import "time"

type PromoType string

const (
	PromoTypePercent      PromoType = "PERCENT"
	PromoTypeFixed        PromoType = "FIXED"
	PromoTypeFreeDelivery PromoType = "FREE_DELIVERY"
)

type Promo struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Title       string    `gorm:"size:150;not null" json:"title"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	Type        PromoType `gorm:"size:20;not null" json:"type"`
	Value       float64   `json:"value"`
	MinSubtotal float64   `json:"min_subtotal"`
	MaxDiscount float64   `json:"max_discount"`
	IsActive    bool      `gorm:"index" json:"is_active"`

	OutletID  string     `gorm:"size:64;index;not null" json:"outlet_id"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
