package models

import "time"

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "NEW"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusAccepted   OrderStatus = "ACCEPTED"
	OrderStatusAssigned   OrderStatus = "ASSIGNED"
	OrderStatusPickedUp   OrderStatus = "PICKED_UP"
	OrderStatusOnTheWay   OrderStatus = "ON_THE_WAY"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

var OrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusProcessing,
	OrderStatusAccepted,
	OrderStatusAssigned,
	OrderStatusPickedUp,
	OrderStatusOnTheWay,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid sadece enum üyeliğini kontrol eder, geçişin mantıklı olup olmadığına bakmaz.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// OrderItem orders/{id}/items alt koleksiyonu
type OrderItem struct {
	ID       uint    `gorm:"primaryKey" json:"-"`
	OrderID  string  `gorm:"size:64;index;not null" json:"-"`
	MenuID   string  `gorm:"size:64" json:"menu_id"`
	Name     string  `gorm:"size:150" json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

type Order struct {
	ID            string      `gorm:"primaryKey;size:64" json:"id"`
	UserID        string      `gorm:"size:64;index" json:"user_id"`
	CustomerName  string      `gorm:"size:100" json:"customer_name"`
	CustomerPhone string      `gorm:"size:50" json:"customer_phone"`
	Status        OrderStatus `gorm:"size:20;index;not null" json:"status"`

	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`

	Address string `gorm:"size:255" json:"address"`
	Note    string `gorm:"size:500" json:"note,omitempty"`

	AssignedDriverID   *string `gorm:"size:64;index" json:"assigned_driver_id,omitempty"`
	AssignedDriverName string  `gorm:"size:100" json:"assigned_driver_name,omitempty"`
	DriverStatus       string  `gorm:"size:20" json:"driver_status,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	OutletID  string    `gorm:"size:64;index;not null" json:"outlet_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
