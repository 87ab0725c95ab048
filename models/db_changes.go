package models

import (
	"time"
)

// DBChange adalah baris change-capture yang diisi trigger database setiap
// kali tables/bookings/waiting_list_entries/customers berubah. ChangeMonitor
// mem-polling baris yang belum diproses lalu broadcast ke client.
type DBChange struct {
	ID         uint      `gorm:"primaryKey"`
	TableName  string    `gorm:"type:varchar(50);not null;index:idx_table_action"`
	RecordID   int64     `gorm:"not null"`
	ActionType string    `gorm:"type:varchar(10);not null;index:idx_table_action"`
	ChangedAt  time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;not null"`
	Processed  bool      `gorm:"default:false;index:idx_processed"`
}
