package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-foh/models"
	"github.com/yeremiapane/restaurant-foh/realtime"
	"github.com/yeremiapane/restaurant-foh/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// DashboardWSHandler -> endpoint WebSocket dashboard. Client yang
// terhubung menerima event perubahan tables/bookings/waiting list dan
// melakukan resync penuh atas koleksi terkait.
func DashboardWSHandler(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)

	if role != "admin" && role != "staff" && role != "host" {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	// Snapshot awal supaya dashboard baru tidak menunggu perubahan pertama.
	// Ditulis SEBELUM register: begitu koneksi masuk hub, satu-satunya
	// penulis adalah broadcaster hub (gorilla hanya mengizinkan satu
	// penulis per koneksi).
	if db := utils.GetDB(); db != nil {
		var restaurants []models.Restaurant
		if err := db.Find(&restaurants).Error; err == nil {
			for _, restaurant := range restaurants {
				if err := ws.WriteJSON(realtime.Message{
					Event: realtime.EventDashboardUpdate,
					Data:  dashboardStats(db, restaurant.ID),
				}); err != nil {
					ws.Close()
					return
				}
			}
		}
	}

	realtime.RegisterClient(ws, role)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	realtime.UnregisterClient(ws)
}
