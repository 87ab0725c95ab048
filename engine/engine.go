package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-foh/models"
	"github.com/yeremiapane/restaurant-foh/utils"
)

// SessionHooks adalah titik sambung ke subsistem order/session. Engine
// memanggilnya saat meja diduduki atau dibebaskan; implementasi yang gagal
// hanya dicatat, tidak pernah membatalkan operasi.
type SessionHooks interface {
	OnTableSeated(table *models.Table, booking *models.Booking)
	OnTableReleased(table *models.Table)
}

type noopHooks struct{}

func (noopHooks) OnTableSeated(*models.Table, *models.Booking) {}
func (noopHooks) OnTableReleased(*models.Table)                {}

// Engine mengoordinasikan transisi status booking, status meja, dan promosi
// waiting list sebagai satu unit perubahan. Engine pasif: setiap operasi
// publik berjalan di goroutine pemanggil, dan satu-satunya komponen yang
// boleh merangkai beberapa tulisan store.
type Engine struct {
	DB    *gorm.DB
	Hooks SessionHooks
}

func New(db *gorm.DB, hooks SessionHooks) *Engine {
	if hooks == nil {
		hooks = noopHooks{}
	}
	return &Engine{DB: db, Hooks: hooks}
}

// NewReference menghasilkan kode referensi booking.
func NewReference() string {
	return uuid.NewString()
}

// TransitionBooking memindahkan booking ke status baru dan menerapkan efek
// sampingnya berurutan: simpan status booking, hitung ulang status meja,
// lalu sweep promosi bila meja baru saja bebas. Pemanggilan ulang dengan
// status yang sama adalah no-op supaya retry setelah timeout aman (efek
// samping tidak terpicu dua kali).
func (e *Engine) TransitionBooking(bookingID uint, newStatus string) (*models.Booking, error) {
	var booking models.Booking
	if err := e.DB.First(&booking, bookingID).Error; err != nil {
		return nil, asNotFound(err, ErrBookingNotFound)
	}

	// Retry idempoten: status sudah sesuai, jangan ulangi efek samping.
	if booking.Status == newStatus {
		return &booking, nil
	}

	if err := CanTransition(booking.Status, newStatus); err != nil {
		return nil, err
	}

	// Konfirmasi otomatis memeriksa ulang mejanya; jalur manual sengaja
	// tidak (lihat AssignTable).
	if newStatus == models.BookingConfirmed && booking.TableID != nil {
		conflict, err := e.hasSlotConflict(&booking, *booking.TableID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, fmt.Errorf("%w: table %d at %s %s",
				ErrTableConflict, *booking.TableID, booking.Date, booking.TimeSlot)
		}
	}

	booking.Status = newStatus
	booking.UpdatedAt = time.Now()
	if err := e.DB.Save(&booking).Error; err != nil {
		return nil, fmt.Errorf("persist booking status: %w", err)
	}
	utils.InfoLogger.Printf("Booking %d -> %s (table_id=%v)", booking.ID, newStatus, booking.TableID)

	if booking.TableID != nil {
		table, freed, err := e.recomputeTable(*booking.TableID, &booking)
		if err != nil {
			// Booking sudah tersimpan; biarkan client resync menemukan
			// keadaan sebenarnya.
			return &booking, err
		}
		if newStatus == models.BookingSeated && table != nil {
			e.Hooks.OnTableSeated(table, &booking)
		}
		if freed && table != nil {
			e.Hooks.OnTableReleased(table)
			e.sweep(booking.RestaurantID, booking.Date, booking.TimeSlot)
		}
	}

	return &booking, nil
}

// AssignTable menautkan meja ke booking tanpa pemeriksaan kapasitas atau
// konflik: ini jalur override staff dan sengaja melewati matcher. Dashboard
// menampilkan keadaan meja live, dan resync menyatukan semua client setelah
// tulisan ini.
func (e *Engine) AssignTable(bookingID, tableID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := e.DB.First(&booking, bookingID).Error; err != nil {
		return nil, asNotFound(err, ErrBookingNotFound)
	}
	var table models.Table
	if err := e.DB.First(&table, tableID).Error; err != nil {
		return nil, asNotFound(err, ErrTableNotFound)
	}

	booking.TableID = &table.ID
	booking.AssignmentMethod = models.AssignManual
	booking.UpdatedAt = time.Now()
	if err := e.DB.Save(&booking).Error; err != nil {
		return nil, fmt.Errorf("persist booking assignment: %w", err)
	}

	table.Status = models.TableReserved
	table.UpdatedAt = time.Now()
	if err := e.DB.Save(&table).Error; err != nil {
		return &booking, fmt.Errorf("persist table status: %w", err)
	}

	utils.InfoLogger.Printf("Booking %d manually assigned to table %s", booking.ID, table.TableNumber)
	return &booking, nil
}

// ReleaseTable adalah satu-satunya corong pembebasan meja manual: booking
// walk-in yang masih menggantung di meja itu diselesaikan, meja di-set
// available (termasuk keluar dari maintenance), lalu sweep promosi berjalan
// sinkron sebelum fungsi kembali agar resync pemanggil sudah memuat hasilnya.
func (e *Engine) ReleaseTable(tableID uint) (*models.Table, error) {
	var table models.Table
	if err := e.DB.First(&table, tableID).Error; err != nil {
		return nil, asNotFound(err, ErrTableNotFound)
	}

	active, err := e.activeBookingsOn(table.ID)
	if err != nil {
		return nil, err
	}

	// Slot sweep diambil dari booking yang digeser; tanpa booking aktif,
	// pakai slot berjalan restoran.
	sweepDate, sweepSlot := "", ""
	for i := range active {
		if sweepDate == "" {
			sweepDate, sweepSlot = active[i].Date, active[i].TimeSlot
		}
		if active[i].IsWalkIn {
			active[i].Status = models.BookingCompleted
			active[i].UpdatedAt = time.Now()
			if err := e.DB.Save(&active[i]).Error; err != nil {
				return nil, fmt.Errorf("complete walk-in booking: %w", err)
			}
			utils.InfoLogger.Printf("Walk-in booking %d completed by table release", active[i].ID)
		}
	}
	if sweepDate == "" {
		var restaurant models.Restaurant
		if err := e.DB.First(&restaurant, table.RestaurantID).Error; err != nil {
			return nil, fmt.Errorf("load restaurant: %w", err)
		}
		sweepDate, sweepSlot = utils.CurrentSlot(time.Now(), restaurant.SlotMinutes)
	}

	if table.Status != models.TableAvailable {
		table.Status = models.TableAvailable
		table.UpdatedAt = time.Now()
		if err := e.DB.Save(&table).Error; err != nil {
			return nil, fmt.Errorf("persist table status: %w", err)
		}
	}
	utils.InfoLogger.Printf("Table %s released", table.TableNumber)

	e.Hooks.OnTableReleased(&table)
	e.sweep(table.RestaurantID, sweepDate, sweepSlot)

	return &table, nil
}

// RequestBooking adalah alur pembuatan booking (halaman publik maupun
// staff): matcher memilih meja terkecil yang cukup dan booking dibuat
// pending dengan metode auto. Tanpa meja yang cocok, pihak itu langsung
// didaftarkan ke waiting list dengan prioritas berikutnya.
func (e *Engine) RequestBooking(restaurantID, customerID uint, date, timeSlot string, partySize int, notes string) (*models.Booking, *models.WaitingListEntry, error) {
	if partySize < 1 {
		return nil, nil, fmt.Errorf("party size must be positive")
	}
	timeSlot, err := e.alignSlot(restaurantID, timeSlot)
	if err != nil {
		return nil, nil, err
	}

	tables, err := e.FindAvailableTables(restaurantID, date, timeSlot, partySize)
	if err != nil {
		return nil, nil, err
	}
	if len(tables) == 0 {
		entry, err := e.EnqueueWaitingList(restaurantID, customerID, date, timeSlot, partySize, notes)
		if err != nil {
			return nil, nil, err
		}
		return nil, entry, nil
	}

	booking := models.Booking{
		Reference:        NewReference(),
		RestaurantID:     restaurantID,
		TableID:          &tables[0].TableID,
		CustomerID:       customerID,
		Date:             date,
		TimeSlot:         timeSlot,
		PartySize:        partySize,
		Status:           models.BookingPending,
		AssignmentMethod: models.AssignAuto,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := e.DB.Create(&booking).Error; err != nil {
		return nil, nil, fmt.Errorf("create booking: %w", err)
	}
	utils.InfoLogger.Printf("Booking %d created on table %s (%s %s, party=%d)",
		booking.ID, tables[0].TableNumber, date, timeSlot, partySize)
	return &booking, nil, nil
}

// SeatWalkIn mendudukkan rombongan walk-in sekarang juga: matcher memilih
// meja untuk slot berjalan, booking langsung seated dan meja occupied.
// Tidak ada meja berarti ErrNoAvailableTable -- walk-in adalah aksi staff
// yang harus melihat kegagalannya.
func (e *Engine) SeatWalkIn(restaurantID, customerID uint, partySize int, notes string) (*models.Booking, error) {
	if partySize < 1 {
		return nil, fmt.Errorf("party size must be positive")
	}
	var restaurant models.Restaurant
	if err := e.DB.First(&restaurant, restaurantID).Error; err != nil {
		return nil, fmt.Errorf("load restaurant: %w", err)
	}
	date, timeSlot := utils.CurrentSlot(time.Now(), restaurant.SlotMinutes)

	tables, err := e.FindAvailableTables(restaurantID, date, timeSlot, partySize)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, ErrNoAvailableTable
	}

	booking := models.Booking{
		Reference:        NewReference(),
		RestaurantID:     restaurantID,
		TableID:          &tables[0].TableID,
		CustomerID:       customerID,
		Date:             date,
		TimeSlot:         timeSlot,
		PartySize:        partySize,
		Status:           models.BookingSeated,
		IsWalkIn:         true,
		AssignmentMethod: models.AssignAuto,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := e.DB.Create(&booking).Error; err != nil {
		return nil, fmt.Errorf("create walk-in booking: %w", err)
	}

	var table models.Table
	if err := e.DB.First(&table, tables[0].TableID).Error; err != nil {
		return &booking, asNotFound(err, ErrTableNotFound)
	}
	table.Status = models.TableOccupied
	table.UpdatedAt = time.Now()
	if err := e.DB.Save(&table).Error; err != nil {
		return &booking, fmt.Errorf("persist table status: %w", err)
	}

	utils.InfoLogger.Printf("Walk-in seated at table %s (party=%d)", table.TableNumber, partySize)
	e.Hooks.OnTableSeated(&table, &booking)
	return &booking, nil
}

// recomputeTable menghitung ulang status meja dari himpunan booking aktif
// yang merujuknya dan menyimpannya bila berubah. Mengembalikan meja dan
// apakah meja baru saja bebas. Meja dalam maintenance tidak disentuh.
// Walk-in yang completed memaksa meja available apa pun sisanya, karena
// walk-in melompati semantik reservasi.
func (e *Engine) recomputeTable(tableID uint, cause *models.Booking) (*models.Table, bool, error) {
	var table models.Table
	if err := e.DB.First(&table, tableID).Error; err != nil {
		return nil, false, asNotFound(err, ErrTableNotFound)
	}
	if table.Status == models.TableMaintenance {
		return &table, false, nil
	}

	var target string
	if cause.IsWalkIn && cause.Status == models.BookingCompleted {
		target = models.TableAvailable
	} else {
		active, err := e.activeBookingsOn(table.ID)
		if err != nil {
			return &table, false, err
		}
		target = DeriveTableStatus(active)
	}

	if table.Status == target {
		return &table, false, nil
	}
	freed := target == models.TableAvailable
	table.Status = target
	table.UpdatedAt = time.Now()
	if err := e.DB.Save(&table).Error; err != nil {
		return &table, false, fmt.Errorf("persist table status: %w", err)
	}
	utils.InfoLogger.Printf("Table %s -> %s", table.TableNumber, target)
	return &table, freed, nil
}

// activeBookingsOn memuat booking confirmed/seated yang merujuk meja.
func (e *Engine) activeBookingsOn(tableID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := e.DB.
		Where("table_id = ?", tableID).
		Where("status IN ?", []string{models.BookingConfirmed, models.BookingSeated}).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("load active bookings: %w", err)
	}
	return bookings, nil
}

// hasSlotConflict memeriksa apakah booking lain yang confirmed/seated sudah
// menahan meja pada slot yang sama.
func (e *Engine) hasSlotConflict(booking *models.Booking, tableID uint) (bool, error) {
	var count int64
	err := e.DB.Model(&models.Booking{}).
		Where("table_id = ?", tableID).
		Where("restaurant_id = ? AND date = ? AND time_slot = ?",
			booking.RestaurantID, booking.Date, booking.TimeSlot).
		Where("status IN ?", []string{models.BookingConfirmed, models.BookingSeated}).
		Where("id <> ?", booking.ID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check slot conflict: %w", err)
	}
	return count > 0, nil
}

// alignSlot meluruskan jam ke granularitas slot restoran.
func (e *Engine) alignSlot(restaurantID uint, timeSlot string) (string, error) {
	var restaurant models.Restaurant
	if err := e.DB.First(&restaurant, restaurantID).Error; err != nil {
		return "", fmt.Errorf("load restaurant: %w", err)
	}
	return utils.AlignClock(timeSlot, restaurant.SlotMinutes)
}
