package models

import "time"

// Review müşteri uygulamasından gelir, dashboard sadece okur.
type Review struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	MenuID    string    `gorm:"size:64;index;not null" json:"menu_id"`
	UserID    string    `gorm:"size:64" json:"user_id"`
	UserName  string    `gorm:"size:100" json:"user_name"`
	OrderID   string    `gorm:"size:64" json:"order_id"`
	Rating    int       `json:"rating"`
	Comment   string    `gorm:"size:1000" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
