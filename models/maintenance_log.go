package models

import "time"

// MaintenanceLog mencatat kapan sebuah meja ditarik dari layanan dan oleh
// siapa dikembalikan.
type MaintenanceLog struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TableID   uint       `gorm:"not null;index" json:"table_id"`
	Table     Table      `gorm:"foreignKey:TableID" json:"-"`
	StaffID   uint       `gorm:"not null" json:"staff_id"`
	Reason    string     `gorm:"type:varchar(255)" json:"reason"`
	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}
