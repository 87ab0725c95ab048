package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-foh/models"
	"github.com/yeremiapane/restaurant-foh/utils"
)

// SessionService adalah realisasi hook order/session milik engine: saat
// booking seated, customer mendapat sesi aktif di meja itu (kunci sesi
// dipakai halaman order untuk mengikat pesanan ke meja); saat meja bebas,
// sesi di meja itu ditutup. Kegagalan hanya dicatat — engine tidak boleh
// gagal karena subsistem order.
type SessionService struct {
	DB *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db}
}

// OnTableSeated membuka sesi aktif untuk customer booking di meja.
func (ss *SessionService) OnTableSeated(table *models.Table, booking *models.Booking) {
	var customer models.Customer
	if err := ss.DB.First(&customer, booking.CustomerID).Error; err != nil {
		utils.ErrorLogger.Printf("Open session: customer %d not found: %v", booking.CustomerID, err)
		return
	}

	key := uuid.NewString()
	customer.TableID = &table.ID
	customer.SessionKey = &key
	customer.Status = "active"
	customer.UpdatedAt = time.Now()
	if err := ss.DB.Save(&customer).Error; err != nil {
		utils.ErrorLogger.Printf("Open session for customer %d: %v", customer.ID, err)
		return
	}
	utils.InfoLogger.Printf("Session opened for customer %d at table %s", customer.ID, table.TableNumber)
}

// OnTableReleased menutup semua sesi aktif di meja.
func (ss *SessionService) OnTableReleased(table *models.Table) {
	err := ss.DB.Model(&models.Customer{}).
		Where("table_id = ? AND status = ?", table.ID, "active").
		Updates(map[string]interface{}{
			"status":      "finished",
			"session_key": nil,
			"updated_at":  time.Now(),
		}).Error
	if err != nil {
		utils.ErrorLogger.Printf("Close sessions for table %d: %v", table.ID, err)
		return
	}
	utils.InfoLogger.Printf("Sessions closed for table %s", table.TableNumber)
}
