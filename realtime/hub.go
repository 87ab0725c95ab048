package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/restaurant-foh/models"
)

// Event types. Client yang menerima event apa pun melakukan resync penuh
// atas koleksi terkait; payload hanya petunjuk, bukan patch inkremental.
const (
	EventTableCreate     = "table_create"
	EventTableUpdate     = "table_update"
	EventTableDelete     = "table_delete"
	EventBookingCreate   = "booking_create"
	EventBookingUpdate   = "booking_update"
	EventWaitlistCreate  = "waitlist_create"
	EventWaitlistUpdate  = "waitlist_update"
	EventDashboardUpdate = "dashboard_update"
	EventStaffNotif      = "staff_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua client dashboard (admin, staff, host) dan
// menyiarkan perubahan baris ke semuanya.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient -> menambahkan connection dengan role-nya
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastTableCreate -> meja baru dibuat
func BroadcastTableCreate(table models.Table) {
	broadcast(Message{Event: EventTableCreate, Data: table})
}

// BroadcastTableUpdate -> status/atribut meja berubah
func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{Event: EventTableUpdate, Data: table})
}

// BroadcastTableDelete -> meja dihapus
func BroadcastTableDelete(table models.Table) {
	broadcast(Message{Event: EventTableDelete, Data: table})
}

// BroadcastBookingCreate -> booking baru (termasuk hasil promosi waitlist)
func BroadcastBookingCreate(booking models.Booking) {
	broadcast(Message{Event: EventBookingCreate, Data: booking})
}

// BroadcastBookingUpdate -> transisi status booking
func BroadcastBookingUpdate(booking models.Booking) {
	broadcast(Message{Event: EventBookingUpdate, Data: booking})
}

// BroadcastWaitlistCreate -> entri waiting list baru
func BroadcastWaitlistCreate(entry models.WaitingListEntry) {
	broadcast(Message{Event: EventWaitlistCreate, Data: entry})
}

// BroadcastWaitlistUpdate -> entri dipromosikan/dibatalkan/kedaluwarsa
func BroadcastWaitlistUpdate(entry models.WaitingListEntry) {
	broadcast(Message{Event: EventWaitlistUpdate, Data: entry})
}

// BroadcastStaffNotification -> notifikasi teks untuk staff
func BroadcastStaffNotification(message string) {
	broadcast(Message{Event: EventStaffNotif, Data: message})
}

// BroadcastDashboardUpdate -> statistik dashboard berubah
func BroadcastDashboardUpdate(data interface{}) {
	broadcast(Message{Event: EventDashboardUpdate, Data: data})
}

// BroadcastMessage -> broadcast pesan umum
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client: %v", err)
			continue
		}
	}
}
