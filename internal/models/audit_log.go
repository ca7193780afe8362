package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionUndo   AuditAction = "undo"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OutletID string `gorm:"size:64;index" json:"outlet_id"`

	UserID   string `gorm:"size:64" json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"` // denormalize

	// ör: "order", "driver", "menu_item", "promo"
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   string `gorm:"size:64;index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	BeforeData datatypes.JSON `json:"before_data"`
	AfterData  datatypes.JSON `json:"after_data"`

	// Undo edildi mi?
	IsUndone bool       `json:"is_undone"`
	UndoneBy *string    `gorm:"size:64" json:"undone_by"`
	UndoneAt *time.Time `json:"undone_at"`
}
