package Controllers_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-foh/controllers"
	"github.com/yeremiapane/restaurant-foh/engine"
	"github.com/yeremiapane/restaurant-foh/models"
	"github.com/yeremiapane/restaurant-foh/utils"
)

func setupWaitlistRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	eng := engine.New(db, nil)
	waitlistCtrl := controllers.NewWaitlistController(db, eng)
	router.GET("/waitlist", waitlistCtrl.GetWaitingList)
	router.GET("/waitlist/:entry_id", waitlistCtrl.GetEntryByID)
	router.POST("/waitlist/:entry_id/promote", waitlistCtrl.PromoteEntry)
	router.POST("/waitlist/:entry_id/cancel", waitlistCtrl.CancelEntry)
	return router
}

func seedWaitlistEntry(t *testing.T, db *gorm.DB, restaurantID, customerID uint, priority int, status string) models.WaitingListEntry {
	entry := models.WaitingListEntry{
		RestaurantID:  restaurantID,
		CustomerID:    customerID,
		Date:          "2025-11-20",
		TimeSlot:      "19:00",
		PartySize:     2,
		Status:        status,
		PriorityOrder: priority,
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("seed waiting list entry: %v", err)
	}
	return entry
}

func TestGetWaitingListOrdered(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	restaurant, customer := seedRestaurantAndCustomer(t, db)

	seedWaitlistEntry(t, db, restaurant.ID, customer.ID, 2, "waiting")
	seedWaitlistEntry(t, db, restaurant.ID, customer.ID, 1, "waiting")

	router := setupWaitlistRouter(db)
	req, err := http.NewRequest("GET", "/waitlist?status=waiting", nil)
	assert.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, "Waiting list", response["message"])
	data := response["data"].([]interface{})
	assert.Len(t, data, 2)

	// Urut prioritas naik
	first := data[0].(map[string]interface{})
	second := data[1].(map[string]interface{})
	assert.Equal(t, float64(1), first["priority_order"])
	assert.Equal(t, float64(2), second["priority_order"])
}

func TestPromoteEntryEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	restaurant, customer := seedRestaurantAndCustomer(t, db)

	entry := seedWaitlistEntry(t, db, restaurant.ID, customer.ID, 1, "waiting")
	table := models.Table{RestaurantID: restaurant.ID, TableNumber: "A1", Capacity: 2, Status: "available"}
	db.Create(&table)

	router := setupWaitlistRouter(db)
	url := "/waitlist/" + strconv.Itoa(int(entry.ID)) + "/promote"
	w := postJSON(t, router, url, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, "Waiting list entry promoted", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "confirmed", data["status"])
	assert.Equal(t, "waitlist", data["assignment_method"])
	assert.Equal(t, true, data["was_on_waitlist"])

	var reloaded models.WaitingListEntry
	db.First(&reloaded, entry.ID)
	assert.Equal(t, "confirmed", reloaded.Status)
}

func TestPromoteEntryNoTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	restaurant, customer := seedRestaurantAndCustomer(t, db)

	entry := seedWaitlistEntry(t, db, restaurant.ID, customer.ID, 1, "waiting")

	router := setupWaitlistRouter(db)
	url := "/waitlist/" + strconv.Itoa(int(entry.ID)) + "/promote"
	w := postJSON(t, router, url, nil)

	// Tanpa meja, kegagalan eksplisit ke staff
	assert.Equal(t, http.StatusConflict, w.Code)

	var reloaded models.WaitingListEntry
	db.First(&reloaded, entry.ID)
	assert.Equal(t, "waiting", reloaded.Status)
}

func TestPromoteEntryNotFound(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupWaitlistRouter(db)

	w := postJSON(t, router, "/waitlist/99999/promote", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelEntryEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	restaurant, customer := seedRestaurantAndCustomer(t, db)

	entry := seedWaitlistEntry(t, db, restaurant.ID, customer.ID, 1, "waiting")

	router := setupWaitlistRouter(db)
	url := "/waitlist/" + strconv.Itoa(int(entry.ID)) + "/cancel"
	w := postJSON(t, router, url, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, "Waiting list entry cancelled", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "cancelled", data["status"])

	// Pembatalan kedua -> 422
	w = postJSON(t, router, url, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
