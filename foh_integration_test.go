package main

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-foh/models"
	"github.com/yeremiapane/restaurant-foh/router"
	"github.com/yeremiapane/restaurant-foh/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// TestEndToEndIntegration menguji flow utama front-of-house:
// 0. Seed restoran + meja A1 (2 kursi) dan B1 (4 kursi), login -> token
// 1. Booking rombongan 2 -> pending di A1 (meja terkecil yang cukup)
// 2. Booking rombongan 4 -> pending di B1
// 3. Keduanya dikonfirmasi -> meja reserved
// 4. Booking rombongan 3 -> tidak ada meja, masuk waiting list
// 5. Rombongan 4 selesai -> B1 bebas -> sweep mempromosikan antrean ke B1
// 6. Entri waiting list jadi notified dengan booking hold di B1
func TestEndToEndIntegration(t *testing.T) {
	db := setupTestDB()
	r := router.SetupRouter(db)

	token := loginTest(t, r)

	// Rombongan 2 mendapat meja terkecil yang cukup (A1)
	smallID := createBookingTest(t, r, 1, "2025-11-20", "19:00", 2, 1)
	// Rombongan 4 mendapat B1
	bigID := createBookingTest(t, r, 2, "2025-11-20", "19:00", 4, 2)

	updateBookingStatusTest(t, r, token, smallID, "confirmed")
	updateBookingStatusTest(t, r, token, bigID, "confirmed")
	checkTableStatusTest(t, db, 1, "reserved")
	checkTableStatusTest(t, db, 2, "reserved")

	// Rombongan 3: A1 terlalu kecil, B1 sudah dipegang -> waiting list
	entryID := createBookingExpectWaitlistTest(t, r, 3, "2025-11-20", "19:00", 3)

	// Kedua rombongan duduk
	updateBookingStatusTest(t, r, token, smallID, "seated")
	updateBookingStatusTest(t, r, token, bigID, "seated")
	checkTableStatusTest(t, db, 1, "occupied")
	checkTableStatusTest(t, db, 2, "occupied")

	// Rombongan 4 selesai -> B1 bebas -> sweep promosi berjalan sinkron
	updateBookingStatusTest(t, r, token, bigID, "completed")
	checkWaitlistPromotedTest(t, r, token, entryID, db)

	// Rombongan 2 selesai, A1 kembali bebas
	updateBookingStatusTest(t, r, token, smallID, "completed")
	checkTableStatusTest(t, db, 1, "available")
}

// setupTestDB -> migrasi model di SQLite in-memory + seed data
func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.Table{},
		&models.Customer{},
		&models.Booking{},
		&models.WaitingListEntry{},
		&models.MaintenanceLog{},
		&models.DBChange{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Create(&models.User{
		Name:     "Test Admin",
		Email:    "admin@example.com",
		Password: string(hashedPassword),
		Role:     "admin",
	})

	db.Create(&models.Restaurant{
		Name:        "Test Bistro",
		SlotMinutes: 15,
		HoldMinutes: 10,
	})
	db.Create(&models.Table{
		RestaurantID: 1,
		TableNumber:  "A1",
		Capacity:     2,
		Status:       "available",
	})
	db.Create(&models.Table{
		RestaurantID: 1,
		TableNumber:  "B1",
		Capacity:     4,
		Status:       "available",
	})

	for _, name := range []string{"Dina", "Rudi", "Sari"} {
		db.Create(&models.Customer{Name: name, Status: "inactive"})
	}

	return db
}

func loginTest(t *testing.T, r *gin.Engine) string {
	body := map[string]string{
		"email":    "admin@example.com",
		"password": "secret123",
	}
	bodyBytes, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("loginTest fail: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Status || resp.Data.Token == "" {
		t.Fatalf("loginTest: status=%v msg=%s", resp.Status, resp.Message)
	}
	return resp.Data.Token
}

// createBookingTest -> POST /bookings => 201 pending di meja yang diharapkan
func createBookingTest(t *testing.T, r *gin.Engine, customerID uint, date, clock string, partySize int, wantTableID uint) uint {
	w := postBooking(t, r, customerID, date, clock, partySize)
	if w.Code != http.StatusCreated {
		t.Fatalf("createBookingTest: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			ID      uint   `json:"id"`
			TableID *uint  `json:"table_id"`
			Status  string `json:"status"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Status != "pending" {
		t.Fatalf("createBookingTest: expected status 'pending', got %s", resp.Data.Status)
	}
	if resp.Data.TableID == nil || *resp.Data.TableID != wantTableID {
		t.Fatalf("createBookingTest: expected table %d, got %v", wantTableID, resp.Data.TableID)
	}
	return resp.Data.ID
}

// createBookingExpectWaitlistTest -> POST /bookings => 202 entri waiting list
func createBookingExpectWaitlistTest(t *testing.T, r *gin.Engine, customerID uint, date, clock string, partySize int) uint {
	w := postBooking(t, r, customerID, date, clock, partySize)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected waiting list 202, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			ID            uint   `json:"id"`
			Status        string `json:"status"`
			PriorityOrder int    `json:"priority_order"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Status != "waiting" {
		t.Fatalf("expected entry status 'waiting', got %s", resp.Data.Status)
	}
	if resp.Data.PriorityOrder != 1 {
		t.Fatalf("expected priority 1, got %d", resp.Data.PriorityOrder)
	}
	return resp.Data.ID
}

func postBooking(t *testing.T, r *gin.Engine, customerID uint, date, clock string, partySize int) *httptest.ResponseRecorder {
	bodyData := map[string]interface{}{
		"restaurant_id": 1,
		"customer_id":   customerID,
		"date":          date,
		"time":          clock,
		"party_size":    partySize,
	}
	bodyBytes, _ := json.Marshal(bodyData)

	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// updateBookingStatusTest -> PATCH /admin/bookings/:id/status
func updateBookingStatusTest(t *testing.T, r *gin.Engine, token string, bookingID uint, status string) {
	bodyBytes, _ := json.Marshal(map[string]string{"status": status})

	req := httptest.NewRequest(http.MethodPatch,
		"/admin/bookings/"+intToString(bookingID)+"/status", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("updateBookingStatusTest %s: code=%d, body=%s", status, w.Code, w.Body.String())
	}
}

func checkTableStatusTest(t *testing.T, db *gorm.DB, tableID uint, want string) {
	var table models.Table
	if err := db.First(&table, tableID).Error; err != nil {
		t.Fatalf("checkTableStatusTest: load table %d: %v", tableID, err)
	}
	if table.Status != want {
		t.Fatalf("checkTableStatusTest: table %d want %s, got %s", tableID, want, table.Status)
	}
}

// checkWaitlistPromotedTest -> entri harus notified dengan booking hold di B1
func checkWaitlistPromotedTest(t *testing.T, r *gin.Engine, token string, entryID uint, db *gorm.DB) {
	req := httptest.NewRequest(http.MethodGet, "/admin/waitlist/"+intToString(entryID), nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("checkWaitlistPromotedTest GET: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Status    string `json:"status"`
			BookingID *uint  `json:"booking_id"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Status != "notified" {
		t.Fatalf("expected entry 'notified', got %s", resp.Data.Status)
	}
	if resp.Data.BookingID == nil {
		t.Fatalf("expected hold booking on promoted entry")
	}

	var promoted models.Booking
	if err := db.First(&promoted, *resp.Data.BookingID).Error; err != nil {
		t.Fatalf("load promoted booking: %v", err)
	}
	if promoted.Status != "confirmed" || promoted.TableID == nil || *promoted.TableID != 2 {
		t.Fatalf("promoted booking: want confirmed on table 2, got %s on %v",
			promoted.Status, promoted.TableID)
	}
	checkTableStatusTest(t, db, 2, "reserved")
}

// Helper intToString
func intToString(num uint) string {
	return strconv.FormatUint(uint64(num), 10)
}
