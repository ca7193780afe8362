package models

import "time"

// OutletSettings ayarlar sayfasındaki "sistem" kartı
type OutletSettings struct {
	OutletID    string    `gorm:"primaryKey;size:64" json:"outlet_id"`
	DeliveryFee float64   `json:"delivery_fee"`
	MinSubtotal float64   `json:"min_subtotal"`
	Currency    string    `gorm:"size:10" json:"currency"`
	Timezone    string    `gorm:"size:64" json:"timezone"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NotificationPreference admin başına bildirim tercihleri
type NotificationPreference struct {
	UserID        string    `gorm:"primaryKey;size:64" json:"user_id"`
	NewOrders     bool      `json:"new_orders"`
	OrderUpdates  bool      `json:"order_updates"`
	DriverStatus  bool      `json:"driver_status"`
	SystemUpdates bool      `json:"system_updates"`
	UpdatedAt     time.Time `json:"updated_at"`
}
