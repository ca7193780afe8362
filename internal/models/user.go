package models

import "time"

type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleCustomer   UserRole = "CUSTOMER"
	RoleDriver     UserRole = "DRIVER"
)

// User müşteri uygulaması ve dashboard'un ortak kullanıcı tablosu.
// Müşteri kayıtlarını mobil uygulama oluşturur, burada sadece okunur.
type User struct {
	UID          string   `gorm:"column:uid;primaryKey;size:64" json:"uid"`
	Email        string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Name         string   `gorm:"size:100" json:"name"`
	Phone        string   `gorm:"size:50" json:"phone"`
	Role         UserRole `gorm:"size:20;index;not null" json:"role"`
	IsActive     *bool    `json:"is_active,omitempty"` // nil = aktif
	OutletID     string   `gorm:"size:64;index" json:"outlet_id,omitempty"`
	FirebaseUID  *string  `gorm:"size:128;uniqueIndex" json:"-"`
	PasswordHash string   `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Active is_active alanı açıkça false değilse kullanıcı aktiftir.
func (u User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}
