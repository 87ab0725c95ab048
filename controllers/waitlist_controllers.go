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

type WaitlistController struct {
	DB     *gorm.DB
	Engine *engine.Engine
}

func NewWaitlistController(db *gorm.DB, eng *engine.Engine) *WaitlistController {
	return &WaitlistController{DB: db, Engine: eng}
}

// GetWaitingList -> antrean per restaurant, urut prioritas
func (wc *WaitlistController) GetWaitingList(c *gin.Context) {
	query := wc.DB.Preload("Customer")
	if v := c.Query("restaurant_id"); v != "" {
		query = query.Where("restaurant_id = ?", v)
	}
	if v := c.Query("date"); v != "" {
		query = query.Where("date = ?", v)
	}
	if v := c.Query("status"); v != "" {
		query = query.Where("status = ?", v)
	}

	var entries []models.WaitingListEntry
	if err := query.Order("date ASC, time_slot ASC, priority_order ASC").
		Find(&entries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waiting list", entries)
}

// GetEntryByID -> detail satu entri
func (wc *WaitlistController) GetEntryByID(c *gin.Context) {
	var entry models.WaitingListEntry
	if err := wc.DB.Preload("Customer").First(&entry, c.Param("entry_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waiting list entry", entry)
}

// PromoteEntry -> promosi eksplisit oleh staff. Berbeda dari sweep pasif,
// ketiadaan meja tampil sebagai kegagalan ke staff yang menekan tombolnya.
func (wc *WaitlistController) PromoteEntry(c *gin.Context) {
	var id uint
	if err := parseID(c.Param("entry_id"), &id); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := wc.Engine.PromoteFromWaitingList(id)
	if err != nil {
		utils.RespondError(c, statusForEngineError(err), err)
		return
	}

	var entry models.WaitingListEntry
	if err := wc.DB.First(&entry, id).Error; err == nil {
		realtime.BroadcastWaitlistUpdate(entry)
	}
	realtime.BroadcastBookingCreate(*booking)
	utils.RespondJSON(c, http.StatusOK, "Waiting list entry promoted", booking)
}

// CancelEntry -> pembatalan oleh staff atau customer
func (wc *WaitlistController) CancelEntry(c *gin.Context) {
	var id uint
	if err := parseID(c.Param("entry_id"), &id); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	entry, err := wc.Engine.CancelWaitingListEntry(id)
	if err != nil {
		utils.RespondError(c, statusForEngineError(err), err)
		return
	}

	realtime.BroadcastWaitlistUpdate(*entry)
	utils.RespondJSON(c, http.StatusOK, "Waiting list entry cancelled", entry)
}
