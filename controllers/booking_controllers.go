package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-foh/engine"
	"github.com/yeremiapane/restaurant-foh/models"
	"github.com/yeremiapane/restaurant-foh/realtime"
	"github.com/yeremiapane/restaurant-foh/utils"
)

type BookingController struct {
	DB     *gorm.DB
	Engine *engine.Engine
}

func NewBookingController(db *gorm.DB, eng *engine.Engine) *BookingController {
	return &BookingController{DB: db, Engine: eng}
}

// CreateBooking -> permintaan booking (halaman publik maupun staff).
// Dengan meja yang cocok hasilnya booking pending di meja terkecil yang
// cukup; tanpa meja, pihak itu masuk waiting list.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req struct {
		RestaurantID uint   `json:"restaurant_id" binding:"required"`
		CustomerID   uint   `json:"customer_id" binding:"required"`
		Date         string `json:"date" binding:"required"`
		Time         string `json:"time" binding:"required"`
		PartySize    int    `json:"party_size" binding:"required,min=1"`
		Notes        string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, entry, err := bc.Engine.RequestBooking(
		req.RestaurantID, req.CustomerID, req.Date, req.Time, req.PartySize, req.Notes)
	if err != nil {
		utils.RespondError(c, statusForEngineError(err), err)
		return
	}

	if booking != nil {
		realtime.BroadcastBookingCreate(*booking)
		utils.RespondJSON(c, http.StatusCreated, "Booking created", booking)
		return
	}

	realtime.BroadcastWaitlistCreate(*entry)
	utils.RespondJSON(c, http.StatusAccepted, "No table available, added to waiting list", entry)
}

// CreateWalkIn -> staff mendudukkan rombongan walk-in sekarang juga.
func (bc *BookingController) CreateWalkIn(c *gin.Context) {
	var req struct {
		RestaurantID uint   `json:"restaurant_id" binding:"required"`
		CustomerID   uint   `json:"customer_id" binding:"required"`
		PartySize    int    `json:"party_size" binding:"required,min=1"`
		Notes        string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Engine.SeatWalkIn(req.RestaurantID, req.CustomerID, req.PartySize, req.Notes)
	if err != nil {
		utils.RespondError(c, statusForEngineError(err), err)
		return
	}

	realtime.BroadcastBookingCreate(*booking)
	utils.RespondJSON(c, http.StatusCreated, "Walk-in seated", booking)
}

// GetAllBookings -> list booking, bisa difilter restaurant/date/status.
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	query := bc.DB.Preload("Table").Preload("Customer")
	if v := c.Query("restaurant_id"); v != "" {
		query = query.Where("restaurant_id = ?", v)
	}
	if v := c.Query("date"); v != "" {
		query = query.Where("date = ?", v)
	}
	if v := c.Query("status"); v != "" {
		query = query.Where("status = ?", v)
	}

	var bookings []models.Booking
	if err := query.Order("date ASC, time_slot ASC").Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bookings", bookings)
}

// GetBookingByID -> detail 1 booking
func (bc *BookingController) GetBookingByID(c *gin.Context) {
	var booking models.Booking
	if err := bc.DB.Preload("Table").Preload("Customer").
		First(&booking, c.Param("booking_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// UpdateBookingStatus -> transisi status lewat engine (confirm, seat,
// complete, cancel, no_show).
func (bc *BookingController) UpdateBookingStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var id uint
	if err := parseID(c.Param("booking_id"), &id); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Engine.TransitionBooking(id, req.Status)
	if err != nil {
		utils.RespondError(c, statusForEngineError(err), err)
		return
	}

	realtime.BroadcastBookingUpdate(*booking)
	utils.RespondJSON(c, http.StatusOK, "Booking status updated", booking)
}

// AssignTable -> staff menautkan meja ke booking secara manual.
func (bc *BookingController) AssignTable(c *gin.Context) {
	var req struct {
		TableID uint `json:"table_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var id uint
	if err := parseID(c.Param("booking_id"), &id); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Engine.AssignTable(id, req.TableID)
	if err != nil {
		utils.RespondError(c, statusForEngineError(err), err)
		return
	}

	realtime.BroadcastBookingUpdate(*booking)
	utils.RespondJSON(c, http.StatusOK, "Table assigned", booking)
}

// FindAvailability -> pencarian meja untuk halaman booking publik.
func (bc *BookingController) FindAvailability(c *gin.Context) {
	var req struct {
		RestaurantID uint   `form:"restaurant_id" binding:"required"`
		Date         string `form:"date" binding:"required"`
		Time         string `form:"time" binding:"required"`
		PartySize    int    `form:"party_size" binding:"required,min=1"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tables, err := bc.Engine.FindAvailableTables(req.RestaurantID, req.Date, req.Time, req.PartySize)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Available tables", tables)
}
