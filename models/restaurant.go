package models

import "time"

// Restaurant menyimpan konfigurasi per lokasi, termasuk durasi slot booking
// dan lama hold untuk entri waiting list yang sudah dinotifikasi.
type Restaurant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	SlotMinutes int       `gorm:"not null;default:15" json:"slot_minutes"`
	HoldMinutes int       `gorm:"not null;default:10" json:"hold_minutes"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
