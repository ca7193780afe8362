package models

import "time"

type MenuItem struct {
	ID          string  `gorm:"primaryKey;size:64" json:"id"`
	Name        string  `gorm:"size:150;not null" json:"name"`
	Description string  `gorm:"size:500" json:"description"`
	Price       float64 `json:"price"`
	Category    string  `gorm:"size:50;index" json:"category"`
	ImageURL    string  `gorm:"size:255" json:"image_url"`
	IsActive    bool    `json:"is_active"`
	IsAvailable bool    `json:"is_available"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`

	OutletID  string    `gorm:"size:64;index;not null" json:"outlet_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
