package engine

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-foh/models"
	"github.com/yeremiapane/restaurant-foh/utils"
)

// EnqueueWaitingList mendaftarkan satu pihak ke waiting list dengan
// priority order berikutnya untuk restaurant+date+slot tersebut.
func (e *Engine) EnqueueWaitingList(restaurantID, customerID uint, date, timeSlot string, partySize int, notes string) (*models.WaitingListEntry, error) {
	next, err := e.nextPriority(restaurantID, date, timeSlot)
	if err != nil {
		return nil, err
	}

	entry := models.WaitingListEntry{
		RestaurantID:  restaurantID,
		CustomerID:    customerID,
		Date:          date,
		TimeSlot:      timeSlot,
		PartySize:     partySize,
		Status:        models.WaitlistWaiting,
		PriorityOrder: next,
		Notes:         notes,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := e.DB.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("create waiting list entry: %w", err)
	}
	utils.InfoLogger.Printf("Waiting list entry %d enqueued (priority=%d, %s %s, party=%d)",
		entry.ID, entry.PriorityOrder, date, timeSlot, partySize)
	return &entry, nil
}

// PromoteNext adalah sweep pasif setelah meja bebas: ambil satu entri
// waiting dengan priority order terendah untuk slot itu, cocokkan lewat
// matcher, dan bila ada meja buat booking confirmed (metode waitlist) lalu
// tandai entri notified. Tanpa entri atau tanpa meja, hasilnya nil tanpa
// error -- entri tetap antre untuk pembebasan meja berikutnya. Sekali
// panggil mempromosikan paling banyak satu entri (disiplin FIFO, bukan
// bin-packing).
func (e *Engine) PromoteNext(restaurantID uint, date, timeSlot string) (*models.Booking, error) {
	var entry models.WaitingListEntry
	err := e.DB.
		Where("restaurant_id = ? AND date = ? AND time_slot = ?", restaurantID, date, timeSlot).
		Where("status = ?", models.WaitlistWaiting).
		Order("priority_order ASC").
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("load waiting list entry: %w", err)
	}

	tables, err := e.FindAvailableTables(restaurantID, date, timeSlot, entry.PartySize)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, nil
	}

	return e.promote(&entry, tables[0], models.WaitlistNotified)
}

// PromoteFromWaitingList adalah promosi eksplisit oleh staff: pemilihan
// meja sama dengan sweep, tetapi entri menjadi confirmed dan ketiadaan meja
// harus tampil sebagai kegagalan, bukan antre diam-diam.
func (e *Engine) PromoteFromWaitingList(entryID uint) (*models.Booking, error) {
	var entry models.WaitingListEntry
	if err := e.DB.First(&entry, entryID).Error; err != nil {
		return nil, asNotFound(err, ErrEntryNotFound)
	}
	if entry.Status != models.WaitlistWaiting {
		return nil, fmt.Errorf("%w: waiting list entry is %s", ErrInvalidTransition, entry.Status)
	}

	tables, err := e.FindAvailableTables(entry.RestaurantID, entry.Date, entry.TimeSlot, entry.PartySize)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, ErrNoAvailableTable
	}

	return e.promote(&entry, tables[0], models.WaitlistConfirmed)
}

// promote membuat booking hasil promosi dan membukukan entri serta mejanya.
// Setiap promosi menghasilkan tepat satu booking baru dengan metode
// waitlist dan was_on_waitlist.
func (e *Engine) promote(entry *models.WaitingListEntry, table AvailableTable, entryStatus string) (*models.Booking, error) {
	booking := models.Booking{
		Reference:        NewReference(),
		RestaurantID:     entry.RestaurantID,
		TableID:          &table.TableID,
		CustomerID:       entry.CustomerID,
		Date:             entry.Date,
		TimeSlot:         entry.TimeSlot,
		PartySize:        entry.PartySize,
		Status:           models.BookingConfirmed,
		AssignmentMethod: models.AssignWaitlist,
		WasOnWaitlist:    true,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := e.DB.Create(&booking).Error; err != nil {
		return nil, fmt.Errorf("create promoted booking: %w", err)
	}

	entry.Status = entryStatus
	entry.BookingID = &booking.ID
	entry.UpdatedAt = time.Now()
	if err := e.DB.Save(entry).Error; err != nil {
		return &booking, fmt.Errorf("persist waiting list entry: %w", err)
	}

	if err := e.DB.Model(&models.Table{}).Where("id = ?", table.TableID).
		Updates(map[string]interface{}{
			"status":     models.TableReserved,
			"updated_at": time.Now(),
		}).Error; err != nil {
		return &booking, fmt.Errorf("persist table status: %w", err)
	}

	utils.InfoLogger.Printf("Waiting list entry %d promoted (priority=%d) to booking %d on table %s",
		entry.ID, entry.PriorityOrder, booking.ID, table.TableNumber)
	return &booking, nil
}

// CancelWaitingListEntry membatalkan entri atas permintaan staff atau
// customer. Entri notified masih memegang booking hold; booking itu ikut
// dibatalkan lewat TransitionBooking sehingga mejanya bebas dan sweep
// berikutnya berjalan.
func (e *Engine) CancelWaitingListEntry(entryID uint) (*models.WaitingListEntry, error) {
	return e.closeEntry(entryID, models.WaitlistCancelled)
}

// ExpireWaitingListEntry menutup entri notified yang tidak kunjung
// dikonfirmasi melewati hold window. Dipanggil oleh waitlist monitor.
func (e *Engine) ExpireWaitingListEntry(entryID uint) (*models.WaitingListEntry, error) {
	var entry models.WaitingListEntry
	if err := e.DB.First(&entry, entryID).Error; err != nil {
		return nil, asNotFound(err, ErrEntryNotFound)
	}
	if entry.Status != models.WaitlistNotified {
		return nil, fmt.Errorf("%w: waiting list entry is %s", ErrInvalidTransition, entry.Status)
	}
	return e.close(&entry, models.WaitlistExpired)
}

func (e *Engine) closeEntry(entryID uint, status string) (*models.WaitingListEntry, error) {
	var entry models.WaitingListEntry
	if err := e.DB.First(&entry, entryID).Error; err != nil {
		return nil, asNotFound(err, ErrEntryNotFound)
	}
	if entry.IsTerminal() || entry.Status == models.WaitlistConfirmed {
		return nil, fmt.Errorf("%w: waiting list entry is %s", ErrInvalidTransition, entry.Status)
	}
	return e.close(&entry, status)
}

func (e *Engine) close(entry *models.WaitingListEntry, status string) (*models.WaitingListEntry, error) {
	if entry.Status == models.WaitlistNotified && entry.BookingID != nil {
		if _, err := e.TransitionBooking(*entry.BookingID, models.BookingCancelled); err != nil {
			utils.ErrorLogger.Printf("Cancel hold booking %d for entry %d: %v", *entry.BookingID, entry.ID, err)
		}
	}

	entry.Status = status
	entry.UpdatedAt = time.Now()
	if err := e.DB.Save(entry).Error; err != nil {
		return nil, fmt.Errorf("persist waiting list entry: %w", err)
	}
	utils.InfoLogger.Printf("Waiting list entry %d -> %s", entry.ID, status)
	return entry, nil
}

// sweep menjalankan PromoteNext dan menyerap kegagalannya: efek latar
// setelah pembebasan meja tidak boleh menggagalkan aksi staff yang memicu.
func (e *Engine) sweep(restaurantID uint, date, timeSlot string) {
	if _, err := e.PromoteNext(restaurantID, date, timeSlot); err != nil {
		utils.ErrorLogger.Printf("Promotion sweep for restaurant %d (%s %s): %v", restaurantID, date, timeSlot, err)
	}
}

// nextPriority menghasilkan priority order berikutnya untuk satu slot.
func (e *Engine) nextPriority(restaurantID uint, date, timeSlot string) (int, error) {
	var max int
	err := e.DB.Model(&models.WaitingListEntry{}).
		Where("restaurant_id = ? AND date = ? AND time_slot = ?", restaurantID, date, timeSlot).
		Select("COALESCE(MAX(priority_order), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("next priority order: %w", err)
	}
	return max + 1, nil
}
