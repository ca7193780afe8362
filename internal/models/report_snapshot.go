package models

import (
	"time"

	"gorm.io/datatypes"
)

// ReportSnapshot aylık raporların saklanması
type ReportSnapshot struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OutletID   string    `gorm:"size:64;not null;uniqueIndex:idx_snapshot_outlet_month" json:"outlet_id"`
	Year       int       `gorm:"not null;uniqueIndex:idx_snapshot_outlet_month" json:"year"`
	Month      int       `gorm:"not null;uniqueIndex:idx_snapshot_outlet_month" json:"month"` // 1-12
	ReportDate time.Time `json:"report_date"`

	TotalOrders     int     `json:"total_orders"`
	CompletedOrders int     `json:"completed_orders"`
	CancelledOrders int     `json:"cancelled_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
	AvgOrderValue   float64 `json:"avg_order_value"`
	TotalDrivers    int     `json:"total_drivers"`

	// durum bazlı sipariş sayıları vb.
	ReportData datatypes.JSON `json:"report_data"`

	CreatedBy string    `gorm:"size:64" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
