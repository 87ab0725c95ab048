package engine

import (
	"fmt"
	"strings"

	"github.com/yeremiapane/restaurant-foh/models"
)

// Transition mendefinisikan satu perubahan status booking yang diizinkan.
type Transition struct {
	From string
	To   string
}

// validTransitions adalah definisi state machine booking yang otoritatif.
// Transisi administratif (override staff) ikut terdaftar eksplisit supaya
// tabel ini satu-satunya sumber kebenaran.
var validTransitions = []Transition{
	{From: models.BookingPending, To: models.BookingConfirmed},
	{From: models.BookingPending, To: models.BookingCancelled},
	{From: models.BookingPending, To: models.BookingNoShow},
	{From: models.BookingConfirmed, To: models.BookingSeated},
	{From: models.BookingConfirmed, To: models.BookingCancelled},
	{From: models.BookingConfirmed, To: models.BookingNoShow},
	{From: models.BookingSeated, To: models.BookingCompleted},
	{From: models.BookingSeated, To: models.BookingCancelled},
	{From: models.BookingSeated, To: models.BookingNoShow},
}

type transitionKey struct {
	From string
	To   string
}

// Lookup map untuk validasi O(1)
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To}] = true
	}
	return m
}()

// ValidTransitionsFrom mengembalikan semua status tujuan yang sah dari
// status asal, untuk pesan error dan dokumentasi.
func ValidTransitionsFrom(status string) []string {
	var nexts []string
	seen := map[string]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition memeriksa apakah perubahan from->to diizinkan.
func CanTransition(from, to string) error {
	if transitionMap[transitionKey{From: from, To: to}] {
		return nil
	}
	nexts := ValidTransitionsFrom(from)
	if len(nexts) == 0 {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, from)
	}
	return fmt.Errorf("%w: %s -> %s (valid: %s)",
		ErrInvalidTransition, from, to, strings.Join(nexts, ", "))
}

// tableStatusForBooking memetakan status booking ke status meja yang
// disiratkannya. Lookup murni, tanpa I/O, supaya bisa diuji terpisah.
var tableStatusForBooking = map[string]string{
	models.BookingPending:   models.TableAvailable,
	models.BookingConfirmed: models.TableReserved,
	models.BookingSeated:    models.TableOccupied,
	models.BookingCompleted: models.TableAvailable,
	models.BookingCancelled: models.TableAvailable,
	models.BookingNoShow:    models.TableAvailable,
}

// TableStatusForBooking mengembalikan status meja untuk satu status booking.
func TableStatusForBooking(bookingStatus string) string {
	if s, ok := tableStatusForBooking[bookingStatus]; ok {
		return s
	}
	return models.TableAvailable
}

// DeriveTableStatus menghitung status meja dari himpunan booking aktif yang
// merujuknya: seated mengungguli confirmed, tanpa booking aktif berarti
// available. Fungsi murni; status maintenance ditangani pemanggil karena
// bukan turunan dari booking.
func DeriveTableStatus(bookings []models.Booking) string {
	status := models.TableAvailable
	for i := range bookings {
		switch bookings[i].Status {
		case models.BookingSeated:
			return models.TableOccupied
		case models.BookingConfirmed:
			status = models.TableReserved
		}
	}
	return status
}
