package models

import "time"

// Status booking
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingSeated    = "seated"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
	BookingNoShow    = "no_show"
)

// Metode penetapan meja
const (
	AssignAuto     = "auto"
	AssignManual   = "manual"
	AssignWaitlist = "waitlist"
)

type Booking struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Reference        string     `gorm:"type:varchar(50);not null;index" json:"reference"`
	RestaurantID     uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant       Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`
	TableID          *uint      `gorm:"index" json:"table_id,omitempty"`
	Table            *Table     `gorm:"foreignKey:TableID" json:"table,omitempty"`
	CustomerID       uint       `gorm:"not null;index" json:"customer_id"`
	Customer         Customer   `gorm:"foreignKey:CustomerID" json:"customer"`
	Date             string     `gorm:"type:varchar(10);not null;index:idx_booking_slot" json:"date"`
	TimeSlot         string     `gorm:"type:varchar(5);not null;index:idx_booking_slot" json:"time_slot"`
	PartySize        int        `gorm:"not null" json:"party_size"`
	Status           string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	IsWalkIn         bool       `gorm:"not null;default:false" json:"is_walk_in"`
	AssignmentMethod string     `gorm:"type:varchar(20);not null;default:'auto'" json:"assignment_method"`
	WasOnWaitlist    bool       `gorm:"not null;default:false" json:"was_on_waitlist"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
}

// IsTerminal -> booking pada status terminal tidak boleh ditransisikan lagi.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingCompleted, BookingCancelled, BookingNoShow:
		return true
	}
	return false
}

// IsActive -> booking yang sedang menahan meja (confirmed/seated).
func (b *Booking) IsActive() bool {
	return b.Status == BookingConfirmed || b.Status == BookingSeated
}
