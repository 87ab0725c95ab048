package models

import "time"

// Status entri waiting list
const (
	WaitlistWaiting   = "waiting"
	WaitlistNotified  = "notified"
	WaitlistConfirmed = "confirmed"
	WaitlistExpired   = "expired"
	WaitlistCancelled = "cancelled"
)

// WaitingListEntry merepresentasikan satu pihak yang menunggu meja untuk
// slot tertentu. PriorityOrder monoton naik per restaurant+date+slot;
// entri dilayani berurutan dari nilai terkecil.
type WaitingListEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RestaurantID  uint      `gorm:"not null;index" json:"restaurant_id"`
	CustomerID    uint      `gorm:"not null;index" json:"customer_id"`
	Customer      Customer  `gorm:"foreignKey:CustomerID" json:"customer"`
	Date          string    `gorm:"type:varchar(10);not null;index:idx_waitlist_slot" json:"date"`
	TimeSlot      string    `gorm:"type:varchar(5);not null;index:idx_waitlist_slot" json:"time_slot"`
	PartySize     int       `gorm:"not null" json:"party_size"`
	Status        string    `gorm:"type:varchar(20);not null;default:'waiting'" json:"status"`
	PriorityOrder int       `gorm:"not null" json:"priority_order"`
	BookingID     *uint     `gorm:"index" json:"booking_id,omitempty"`
	Notes         string    `gorm:"type:varchar(255)" json:"notes"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

// IsTerminal -> expired/cancelled tidak bisa dipromosikan atau dibatalkan lagi.
func (w *WaitingListEntry) IsTerminal() bool {
	return w.Status == WaitlistExpired || w.Status == WaitlistCancelled
}
