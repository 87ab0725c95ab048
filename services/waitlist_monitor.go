package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-foh/engine"
	"github.com/yeremiapane/restaurant-foh/models"
)

// WaitlistMonitor menutup entri waiting list yang tersangkut di status
// notified: pihak yang sudah ditawari meja tetapi tidak kunjung
// dikonfirmasi melewati hold window restorannya di-expire, booking
// hold-nya dibatalkan lewat engine sehingga mejanya bebas dan entri
// berikutnya tersapu.
type WaitlistMonitor struct {
	DB       *gorm.DB
	Engine   *engine.Engine
	StopChan chan struct{}
	Interval time.Duration
}

func NewWaitlistMonitor(db *gorm.DB, eng *engine.Engine) *WaitlistMonitor {
	return &WaitlistMonitor{
		DB:       db,
		Engine:   eng,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Minute,
	}
}

func (wm *WaitlistMonitor) Start() {
	go func() {
		ticker := time.NewTicker(wm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				wm.CheckExpired()
			case <-wm.StopChan:
				return
			}
		}
	}()
	log.Println("Waitlist monitor started")
}

func (wm *WaitlistMonitor) Stop() {
	close(wm.StopChan)
}

// CheckExpired menjalankan satu putaran pemeriksaan. Dipisahkan dari loop
// supaya bisa dipanggil langsung dari test. Hold window per restoran, jadi
// perbandingan umurnya dihitung per entri setelah restorannya dimuat.
func (wm *WaitlistMonitor) CheckExpired() {
	var entries []models.WaitingListEntry
	err := wm.DB.
		Where("status = ?", models.WaitlistNotified).
		Find(&entries).Error
	if err != nil {
		log.Printf("Error fetching notified entries: %v", err)
		return
	}

	for _, entry := range entries {
		var restaurant models.Restaurant
		if err := wm.DB.First(&restaurant, entry.RestaurantID).Error; err != nil {
			log.Printf("Error fetching restaurant %d: %v", entry.RestaurantID, err)
			continue
		}
		hold := time.Duration(restaurant.HoldMinutes) * time.Minute
		if time.Since(entry.UpdatedAt) < hold {
			continue
		}

		if _, err := wm.Engine.ExpireWaitingListEntry(entry.ID); err != nil {
			log.Printf("Error expiring waiting list entry %d: %v", entry.ID, err)
			continue
		}
		log.Printf("Waiting list entry %d expired after %v hold", entry.ID, hold)
	}
}
