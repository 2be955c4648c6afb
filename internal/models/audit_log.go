package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionUndo   AuditAction = "undo"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	// Zero when admin auth is disabled.
	UserID   uint   `json:"userId"`
	UserName string `gorm:"size:100" json:"userName"`

	// sale, packaging_material, purchase, time_entry, accounting_entry
	EntityType string `gorm:"size:50;index" json:"entityType"`
	EntityID   uint   `gorm:"index" json:"entityId"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	// JSON snapshots, "null" when absent
	BeforeData string `gorm:"type:text" json:"beforeData"`
	AfterData  string `gorm:"type:text" json:"afterData"`

	IsUndone bool       `gorm:"default:false" json:"isUndone"`
	UndoneBy *uint      `json:"undoneBy"`
	UndoneAt *time.Time `json:"undoneAt"`
}
