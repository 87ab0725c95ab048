package utils

import (
	"fmt"
	"time"
)

// AlignClock meluruskan jam "HH:MM" ke bawah menuju kelipatan slot.
// Semua waktu booking disimpan sudah selaras, jadi pencocokan slot cukup
// dengan perbandingan string.
func AlignClock(clock string, slotMinutes int) (string, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return "", fmt.Errorf("invalid time %q: expected HH:MM", clock)
	}
	if slotMinutes < 1 {
		slotMinutes = 15
	}
	minutes := t.Hour()*60 + t.Minute()
	minutes -= minutes % slotMinutes
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// CurrentSlot mengembalikan tanggal dan slot berjalan untuk sebuah waktu.
func CurrentSlot(now time.Time, slotMinutes int) (date, clock string) {
	if slotMinutes < 1 {
		slotMinutes = 15
	}
	minutes := now.Hour()*60 + now.Minute()
	minutes -= minutes % slotMinutes
	return now.Format("2006-01-02"), fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
