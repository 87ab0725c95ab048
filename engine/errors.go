package engine

import (
	"errors"

	"gorm.io/gorm"
)

// Taksonomi error engine. Controller memetakan sentinel ini ke kode HTTP
// dengan errors.Is; error lain dianggap gangguan store (transient).
var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrTableNotFound     = errors.New("table not found")
	ErrEntryNotFound     = errors.New("waiting list entry not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNoAvailableTable  = errors.New("no available table")
	ErrTableConflict     = errors.New("table already has an active booking for this slot")
)

// asNotFound mengubah gorm.ErrRecordNotFound menjadi sentinel domain.
func asNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
