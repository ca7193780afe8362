package models

import "time"

type DriverStatus string

const (
	DriverStatusAvailable DriverStatus = "AVAILABLE"
	DriverStatusBusy      DriverStatus = "BUSY"
	DriverStatusOffline   DriverStatus = "OFFLINE"
)

func (s DriverStatus) Valid() bool {
	switch s {
	case DriverStatusAvailable, DriverStatusBusy, DriverStatusOffline:
		return true
	}
	return false
}

// DriverEarnings içinde bulunulan ayın prim dökümü
type DriverEarnings struct {
	BaseBonus      float64 `json:"base_bonus"`
	IncentiveBonus float64 `json:"incentive_bonus"`
	Total          float64 `json:"total"`
}

type Driver struct {
	ID            string       `gorm:"primaryKey;size:64" json:"id"`
	Name          string       `gorm:"size:100;not null" json:"name"`
	Phone         string       `gorm:"size:50" json:"phone"`
	Email         string       `gorm:"size:100" json:"email"`
	VehicleType   string       `gorm:"size:50" json:"vehicle_type"`
	VehicleNumber string       `gorm:"size:50" json:"vehicle_number"`
	Photo         string       `gorm:"size:255" json:"photo,omitempty"`
	Status        DriverStatus `gorm:"size:20;index;not null" json:"status"`

	Rating            float64 `json:"rating"`
	TotalDeliveries   int     `json:"total_deliveries"`
	MonthlyDeliveries int     `json:"monthly_deliveries"`

	CurrentMonthEarnings DriverEarnings `gorm:"embedded;embeddedPrefix:earnings_" json:"current_month_earnings"`

	FCMToken  string    `gorm:"column:fcm_token;size:255" json:"fcm_token,omitempty"`
	OutletID  string    `gorm:"size:64;index;not null" json:"outlet_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
