package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-foh/models"
	"github.com/yeremiapane/restaurant-foh/realtime"
)

// ChangeMonitor mem-polling tabel db_changes yang diisi trigger database
// dan menyiarkan event resync ke semua client websocket. Engine tidak
// pernah broadcast sendiri; ia hanya menulis baris, dan monitor inilah
// yang mengubah tulisan menjadi notifikasi.
type ChangeMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		log.Printf("Error fetching changes: %v", err)
		return
	}

	for _, change := range changes {
		switch change.TableName {
		case "tables":
			cm.processTableChange(change)
		case "bookings":
			cm.processBookingChange(change)
		case "waiting_list_entries":
			cm.processWaitlistChange(change)
		}

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			log.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing transaction: %v", err)
		tx.Rollback()
		return
	}
}

func (cm *ChangeMonitor) processTableChange(change models.DBChange) {
	var table models.Table

	if change.ActionType != "DELETE" {
		if err := cm.DB.First(&table, change.RecordID).Error; err != nil {
			log.Printf("Error fetching table: %v", err)
			return
		}
	}

	switch change.ActionType {
	case "INSERT":
		realtime.BroadcastTableCreate(table)
	case "UPDATE":
		realtime.BroadcastTableUpdate(table)
	case "DELETE":
		realtime.BroadcastTableDelete(models.Table{ID: uint(change.RecordID)})
	}
}

func (cm *ChangeMonitor) processBookingChange(change models.DBChange) {
	var booking models.Booking

	if change.ActionType == "DELETE" {
		return
	}
	if err := cm.DB.First(&booking, change.RecordID).Error; err != nil {
		log.Printf("Error fetching booking: %v", err)
		return
	}

	switch change.ActionType {
	case "INSERT":
		realtime.BroadcastBookingCreate(booking)
	case "UPDATE":
		realtime.BroadcastBookingUpdate(booking)
	}
}

func (cm *ChangeMonitor) processWaitlistChange(change models.DBChange) {
	var entry models.WaitingListEntry

	if change.ActionType == "DELETE" {
		return
	}
	if err := cm.DB.First(&entry, change.RecordID).Error; err != nil {
		log.Printf("Error fetching waiting list entry: %v", err)
		return
	}

	switch change.ActionType {
	case "INSERT":
		realtime.BroadcastWaitlistCreate(entry)
	case "UPDATE":
		realtime.BroadcastWaitlistUpdate(entry)
	}
}
