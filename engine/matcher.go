package engine

import (
	"fmt"

	"github.com/yeremiapane/restaurant-foh/models"
)

// AvailableTable adalah satu kandidat meja hasil pencarian kapasitas.
type AvailableTable struct {
	TableID     uint   `json:"table_id"`
	TableNumber string `json:"table_number"`
	Capacity    int    `json:"capacity"`
}

// FindAvailableTables mencari meja yang bisa menampung rombongan pada slot
// tertentu: status available (maintenance otomatis tereksklusi), kapasitas
// >= party size, dan tidak menjadi target booking confirmed/seated pada
// restaurant+date+slot yang sama. Urutan kapasitas naik lalu nomor meja,
// supaya meja terkecil yang cukup menang. Nomor meja varchar, jadi pemecah
// seri pakai panjang dulu agar "2" mendahului "10". List kosong bukan
// error; itu sinyal pemanggil untuk mendaftarkan waiting list.
func (e *Engine) FindAvailableTables(restaurantID uint, date, timeSlot string, partySize int) ([]AvailableTable, error) {
	conflicting := e.DB.Model(&models.Booking{}).
		Select("bookings.table_id").
		Where("bookings.restaurant_id = ?", restaurantID).
		Where("bookings.date = ? AND bookings.time_slot = ?", date, timeSlot).
		Where("bookings.status IN ?", []string{models.BookingConfirmed, models.BookingSeated}).
		Where("bookings.table_id IS NOT NULL")

	var tables []AvailableTable
	err := e.DB.Model(&models.Table{}).
		Select("tables.id AS table_id, tables.table_number, tables.capacity").
		Where("tables.restaurant_id = ?", restaurantID).
		Where("tables.status = ?", models.TableAvailable).
		Where("tables.capacity >= ?", partySize).
		Where("tables.id NOT IN (?)", conflicting).
		Order("tables.capacity ASC, LENGTH(tables.table_number) ASC, tables.table_number ASC").
		Scan(&tables).Error
	if err != nil {
		// Kegagalan baca store harus dipropagasikan, jangan dianggap
		// "tidak ada meja".
		return nil, fmt.Errorf("find available tables: %w", err)
	}
	return tables, nil
}
