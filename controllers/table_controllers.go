package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-foh/engine"
	"github.com/yeremiapane/restaurant-foh/models"
	"github.com/yeremiapane/restaurant-foh/realtime"
	"github.com/yeremiapane/restaurant-foh/utils"
)

type TableController struct {
	DB     *gorm.DB
	Engine *engine.Engine
}

func NewTableController(db *gorm.DB, eng *engine.Engine) *TableController {
	return &TableController{DB: db, Engine: eng}
}

// CreateTable -> menambahkan meja baru
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		RestaurantID uint   `json:"restaurant_id" binding:"required"`
		TableNumber  string `json:"table_number" binding:"required"`
		Capacity     int    `json:"capacity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{
		RestaurantID: req.RestaurantID,
		TableNumber:  req.TableNumber,
		Capacity:     req.Capacity,
		Status:       models.TableAvailable,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastTableCreate(table)
	realtime.BroadcastDashboardUpdate(tc.getDashboardStats(table.RestaurantID))

	utils.InfoLogger.Printf("New table created: %s (capacity=%d)", table.TableNumber, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> seluruh meja, bisa difilter restaurant/status
func (tc *TableController) GetAllTables(c *gin.Context) {
	query := tc.DB
	if v := c.Query("restaurant_id"); v != "" {
		query = query.Where("restaurant_id = ?", v)
	}
	if v := c.Query("status"); v != "" {
		query = query.Where("status = ?", v)
	}

	var tables []models.Table
	if err := query.Order("table_number ASC").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail satu meja
func (tc *TableController) GetTableByID(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// ReleaseTable -> staff membebaskan meja secara manual. Semua efek
// pembebasan (penyelesaian walk-in, sweep promosi) lewat satu corong di
// engine.
func (tc *TableController) ReleaseTable(c *gin.Context) {
	var id uint
	if err := parseID(c.Param("table_id"), &id); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Engine.ReleaseTable(id)
	if err != nil {
		utils.RespondError(c, statusForEngineError(err), err)
		return
	}

	// Tutup log maintenance yang masih terbuka untuk meja ini
	tc.DB.Model(&models.MaintenanceLog{}).
		Where("table_id = ? AND ended_at IS NULL", table.ID).
		Update("ended_at", time.Now())

	realtime.BroadcastTableUpdate(*table)
	realtime.BroadcastDashboardUpdate(tc.getDashboardStats(table.RestaurantID))
	utils.RespondJSON(c, http.StatusOK, "Table released", table)
}

// SetMaintenance -> menarik meja dari layanan. Meja dengan booking aktif
// tidak bisa ditarik.
func (tc *TableController) SetMaintenance(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var active int64
	tc.DB.Model(&models.Booking{}).
		Where("table_id = ? AND status IN ?", table.ID,
			[]string{models.BookingConfirmed, models.BookingSeated}).
		Count(&active)
	if active > 0 {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("table has %d active booking(s)", active))
		return
	}

	table.Status = models.TableMaintenance
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	staffID, _ := c.Get("user_id")
	staff, _ := staffID.(uint)
	tc.DB.Create(&models.MaintenanceLog{
		TableID:   table.ID,
		StaffID:   staff,
		Reason:    req.Reason,
		StartedAt: time.Now(),
	})

	realtime.BroadcastTableUpdate(table)
	utils.InfoLogger.Printf("Table %s pulled for maintenance", table.TableNumber)
	utils.RespondJSON(c, http.StatusOK, "Table set to maintenance", table)
}

// DeleteTable -> menghapus meja. Meja yang masih dirujuk booking
// non-terminal tidak boleh dihapus.
func (tc *TableController) DeleteTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.First(&table, c.Param("table_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var active int64
	tc.DB.Model(&models.Booking{}).
		Where("table_id = ? AND status NOT IN ?", table.ID,
			[]string{models.BookingCompleted, models.BookingCancelled, models.BookingNoShow}).
		Count(&active)
	if active > 0 {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("table is referenced by %d non-terminal booking(s)", active))
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastTableDelete(table)
	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}

// GetDashboardStats -> statistik meja + antrean untuk dashboard staff
func (tc *TableController) GetDashboardStats(c *gin.Context) {
	var restaurantID uint
	if err := parseID(c.Query("restaurant_id"), &restaurantID); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", tc.getDashboardStats(restaurantID))
}

func (tc *TableController) getDashboardStats(restaurantID uint) map[string]interface{} {
	return dashboardStats(tc.DB, restaurantID)
}

func dashboardStats(db *gorm.DB, restaurantID uint) map[string]interface{} {
	var availableCount, occupiedCount, reservedCount, maintenanceCount, waitingCount int64

	db.Model(&models.Table{}).
		Where("restaurant_id = ? AND status = ?", restaurantID, models.TableAvailable).Count(&availableCount)
	db.Model(&models.Table{}).
		Where("restaurant_id = ? AND status = ?", restaurantID, models.TableOccupied).Count(&occupiedCount)
	db.Model(&models.Table{}).
		Where("restaurant_id = ? AND status = ?", restaurantID, models.TableReserved).Count(&reservedCount)
	db.Model(&models.Table{}).
		Where("restaurant_id = ? AND status = ?", restaurantID, models.TableMaintenance).Count(&maintenanceCount)

	db.Model(&models.WaitingListEntry{}).
		Where("restaurant_id = ? AND status = ?", restaurantID, models.WaitlistWaiting).
		Count(&waitingCount)

	return map[string]interface{}{
		"available":   availableCount,
		"occupied":    occupiedCount,
		"reserved":    reservedCount,
		"maintenance": maintenanceCount,
		"waiting":     waitingCount,
		"total":       availableCount + occupiedCount + reservedCount + maintenanceCount,
	}
}
