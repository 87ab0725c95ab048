package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-foh/models"
)

func TestEnqueueAssignsSequentialPriority(t *testing.T) {
	eng, _ := newTestEngine(t)
	restaurant := seedRestaurant(t, eng.DB)
	dina := seedCustomer(t, eng.DB, "Dina")
	rudi := seedCustomer(t, eng.DB, "Rudi")

	first, err := eng.EnqueueWaitingList(restaurant.ID, dina.ID, testDate, testSlot, 2, "")
	assert.NoError(t, err)
	assert.Equal(t, 1, first.PriorityOrder)
	assert.Equal(t, models.WaitlistWaiting, first.Status)

	second, err := eng.EnqueueWaitingList(restaurant.ID, rudi.ID, testDate, testSlot, 4, "")
	assert.NoError(t, err)
	assert.Equal(t, 2, second.PriorityOrder)

	// Slot lain punya deret prioritasnya sendiri
	other, err := eng.EnqueueWaitingList(restaurant.ID, rudi.ID, testDate, "20:00", 2, "")
	assert.NoError(t, err)
	assert.Equal(t, 1, other.PriorityOrder)
}

func TestPromoteNextRespectsPriorityOrder(t *testing.T) {
	eng, _ := newTestEngine(t)
	restaurant := seedRestaurant(t, eng.DB)
	dina := seedCustomer(t, eng.DB, "Dina")
	rudi := seedCustomer(t, eng.DB, "Rudi")

	low := seedEntry(t, eng.DB, restaurant.ID, rudi.ID, 2, 2, models.WaitlistWaiting)
	high := seedEntry(t, eng.DB, restaurant.ID, dina.ID, 1, 2, models.WaitlistWaiting)
	table := seedTable(t, eng.DB, restaurant.ID, "A1", 2, models.TableAvailable)

	booking, err := eng.PromoteNext(restaurant.ID, testDate, testSlot)
	assert.NoError(t, err)
	assert.NotNil(t, booking)
	assert.Equal(t, dina.ID, booking.CustomerID)
	assert.Equal(t, table.ID, *booking.TableID)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.True(t, booking.WasOnWaitlist)

	var reloadedHigh, reloadedLow models.WaitingListEntry
	assert.NoError(t, eng.DB.First(&reloadedHigh, high.ID).Error)
	assert.NoError(t, eng.DB.First(&reloadedLow, low.ID).Error)
	assert.Equal(t, models.WaitlistNotified, reloadedHigh.Status)
	assert.Equal(t, models.WaitlistWaiting, reloadedLow.Status)
	assert.Equal(t, models.TableReserved, reloadTable(t, eng.DB, table.ID).Status)
}

func TestPromoteNextSingleShot(t *testing.T) {
	eng, _ := newTestEngine(t)
	restaurant := seedRestaurant(t, eng.DB)
	dina := seedCustomer(t, eng.DB, "Dina")
	rudi := seedCustomer(t, eng.DB, "Rudi")

	seedEntry(t, eng.DB, restaurant.ID, dina.ID, 1, 2, models.WaitlistWaiting)
	seedEntry(t, eng.DB, restaurant.ID, rudi.ID, 2, 2, models.WaitlistWaiting)
	seedTable(t, eng.DB, restaurant.ID, "A1", 2, models.TableAvailable)
	seedTable(t, eng.DB, restaurant.ID, "A2", 2, models.TableAvailable)

	// Satu sweep, satu promosi -- meskipun meja cukup untuk dua entri
	_, err := eng.PromoteNext(restaurant.ID, testDate, testSlot)
	assert.NoError(t, err)

	var waiting int64
	eng.DB.Model(&models.WaitingListEntry{}).
		Where("status = ?", models.WaitlistWaiting).Count(&waiting)
	assert.Equal(t, int64(1), waiting)
}

func TestPromoteNextBlockedByHeadOfQueue(t *testing.T) {
	eng, _ := newTestEngine(t)
	restaurant := seedRestaurant(t, eng.DB)
	dina := seedCustomer(t, eng.DB, "Dina")
	rudi := seedCustomer(t, eng.DB, "Rudi")

	// Kepala antrean butuh 6 kursi; meja yang bebas cuma 2. Disiplin FIFO:
	// entri di belakangnya ikut menunggu, tidak ada yang dilangkahi.
	seedEntry(t, eng.DB, restaurant.ID, dina.ID, 1, 6, models.WaitlistWaiting)
	small := seedEntry(t, eng.DB, restaurant.ID, rudi.ID, 2, 2, models.WaitlistWaiting)
	seedTable(t, eng.DB, restaurant.ID, "A1", 2, models.TableAvailable)

	booking, err := eng.PromoteNext(restaurant.ID, testDate, testSlot)
	assert.NoError(t, err)
	assert.Nil(t, booking)

	var reloaded models.WaitingListEntry
	assert.NoError(t, eng.DB.First(&reloaded, small.ID).Error)
	assert.Equal(t, models.WaitlistWaiting, reloaded.Status)
}

func TestSequentialReleasesPromoteInPriorityOrder(t *testing.T) {
	eng, _ := newTestEngine(t)
	restaurant := seedRestaurant(t, eng.DB)
	dina := seedCustomer(t, eng.DB, "Dina")
	rudi := seedCustomer(t, eng.DB, "Rudi")
	sari := seedCustomer(t, eng.DB, "Sari")

	first := seedEntry(t, eng.DB, restaurant.ID, dina.ID, 1, 2, models.WaitlistWaiting)
	second := seedEntry(t, eng.DB, restaurant.ID, rudi.ID, 2, 2, models.WaitlistWaiting)

	tableA := seedTable(t, eng.DB, restaurant.ID, "A1", 2, models.TableOccupied)
	tableB := seedTable(t, eng.DB, restaurant.ID, "A2", 2, models.TableOccupied)
	bookingA := seedBooking(t, eng.DB, restaurant.ID, sari.ID, &tableA.ID, models.BookingSeated, 2)
	bookingB := seedBooking(t, eng.DB, restaurant.ID, sari.ID, &tableB.ID, models.BookingSeated, 2)

	// Pembebasan pertama melayani prioritas 1
	_, err := eng.TransitionBooking(bookingA.ID, models.BookingCompleted)
	assert.NoError(t, err)

	var reloadedFirst, reloadedSecond models.WaitingListEntry
	assert.NoError(t, eng.DB.First(&reloadedFirst, first.ID).Error)
	assert.NoError(t, eng.DB.First(&reloadedSecond, second.ID).Error)
	assert.Equal(t, models.WaitlistNotified, reloadedFirst.Status)
	assert.Equal(t, models.WaitlistWaiting, reloadedSecond.Status)
	assert.Equal(t, tableA.ID, *mustHoldBooking(t, eng.DB, reloadedFirst).TableID)

	// Pembebasan kedua melayani prioritas 2
	_, err = eng.TransitionBooking(bookingB.ID, models.BookingCompleted)
	assert.NoError(t, err)

	assert.NoError(t, eng.DB.First(&reloadedSecond, second.ID).Error)
	assert.Equal(t, models.WaitlistNotified, reloadedSecond.Status)
	assert.Equal(t, tableB.ID, *mustHoldBooking(t, eng.DB, reloadedSecond).TableID)
}

func mustHoldBooking(t *testing.T, db *gorm.DB, entry models.WaitingListEntry) models.Booking {
	if entry.BookingID == nil {
		t.Fatalf("entry %d has no hold booking", entry.ID)
	}
	var booking models.Booking
	if err := db.First(&booking, *entry.BookingID).Error; err != nil {
		t.Fatalf("load hold booking: %v", err)
	}
	return booking
}

func TestPromoteNextNoEntries(t *testing.T) {
	eng, _ := newTestEngine(t)
	restaurant := seedRestaurant(t, eng.DB)
	seedTable(t, eng.DB, restaurant.ID, "A1", 4, models.TableAvailable)

	booking, err := eng.PromoteNext(restaurant.ID, testDate, testSlot)
	assert.NoError(t, err)
	assert.Nil(t, booking)
}

func TestPromoteNextSkipsNonWaiting(t *testing.T) {
	eng, _ := newTestEngine(t)
	restaurant := seedRestaurant(t, eng.DB)
	dina := seedCustomer(t, eng.DB, "Dina")
	rudi := seedCustomer(t, eng.DB, "Rudi")

	seedEntry(t, eng.DB, restaurant.ID, dina.ID, 1, 2, models.WaitlistNotified)
	seedEntry(t, eng.DB, restaurant.ID, dina.ID, 2, 2, models.WaitlistCancelled)
	target := seedEntry(t, eng.DB, restaurant.ID, rudi.ID, 3, 2, models.WaitlistWaiting)
	seedTable(t, eng.DB, restaurant.ID, "A1", 2, models.TableAvailable)

	booking, err := eng.PromoteNext(restaurant.ID, testDate, testSlot)
	assert.NoError(t, err)
	assert.NotNil(t, booking)

	var reloaded models.WaitingListEntry
	assert.NoError(t, eng.DB.First(&reloaded, target.ID).Error)
	assert.Equal(t, models.WaitlistNotified, reloaded.Status)
}

func TestPromoteFromWaitingList(t *testing.T) {
	eng, _ := newTestEngine(t)
	restaurant := seedRestaurant(t, eng.DB)
	dina := seedCustomer(t, eng.DB, "Dina")
	entry := seedEntry(t, eng.DB, restaurant.ID, dina.ID, 1, 2, models.WaitlistWaiting)
	table := seedTable(t, eng.DB, restaurant.ID, "A1", 2, models.TableAvailable)

	booking, err := eng.PromoteFromWaitingList(entry.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, models.AssignWaitlist, booking.AssignmentMethod)

	// Promosi eksplisit langsung confirmed, bukan notified
	var reloaded models.WaitingListEntry
	assert.NoError(t, eng.DB.First(&reloaded, entry.ID).Error)
	assert.Equal(t, models.WaitlistConfirmed, reloaded.Status)
	assert.Equal(t, booking.ID, *reloaded.BookingID)
	assert.Equal(t, models.TableReserved, reloadTable(t, eng.DB, table.ID).Status)
}

func TestPromoteFromWaitingListFailures(t *testing.T) {
	eng, _ := newTestEngine(t)
	restaurant := seedRestaurant(t, eng.DB)
	dina := seedCustomer(t, eng.DB, "Dina")

	_, err := eng.PromoteFromWaitingList(99999)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	// Tanpa meja: kegagalan eksplisit, entri tetap waiting
	entry := seedEntry(t, eng.DB, restaurant.ID, dina.ID, 1, 2, models.WaitlistWaiting)
	_, err = eng.PromoteFromWaitingList(entry.ID)
	assert.ErrorIs(t, err, ErrNoAvailableTable)

	var reloaded models.WaitingListEntry
	assert.NoError(t, eng.DB.First(&reloaded, entry.ID).Error)
	assert.Equal(t, models.WaitlistWaiting, reloaded.Status)

	// Hanya entri waiting yang bisa dipromosikan manual
	notified := seedEntry(t, eng.DB, restaurant.ID, dina.ID, 2, 2, models.WaitlistNotified)
	_, err = eng.PromoteFromWaitingList(notified.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelWaitingListEntry(t *testing.T) {
	eng, _ := newTestEngine(t)
	restaurant := seedRestaurant(t, eng.DB)
	dina := seedCustomer(t, eng.DB, "Dina")
	entry := seedEntry(t, eng.DB, restaurant.ID, dina.ID, 1, 2, models.WaitlistWaiting)

	cancelled, err := eng.CancelWaitingListEntry(entry.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.WaitlistCancelled, cancelled.Status)

	// Pembatalan kedua gagal: entri sudah terminal
	_, err = eng.CancelWaitingListEntry(entry.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = eng.CancelWaitingListEntry(99999)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestCancelNotifiedEntryReleasesHoldBooking(t *testing.T) {
	eng, _ := newTestEngine(t)
	restaurant := seedRestaurant(t, eng.DB)
	dina := seedCustomer(t, eng.DB, "Dina")
	seedEntry(t, eng.DB, restaurant.ID, dina.ID, 1, 2, models.WaitlistWaiting)
	table := seedTable(t, eng.DB, restaurant.ID, "A1", 2, models.TableAvailable)

	// Sweep membuat hold booking dan menandai entri notified
	booking, err := eng.PromoteNext(restaurant.ID, testDate, testSlot)
	assert.NoError(t, err)
	assert.Equal(t, models.TableReserved, reloadTable(t, eng.DB, table.ID).Status)

	var entry models.WaitingListEntry
	assert.NoError(t, eng.DB.Where("booking_id = ?", booking.ID).First(&entry).Error)

	_, err = eng.CancelWaitingListEntry(entry.ID)
	assert.NoError(t, err)

	// Hold booking ikut batal dan mejanya kembali bebas
	var reloadedBooking models.Booking
	assert.NoError(t, eng.DB.First(&reloadedBooking, booking.ID).Error)
	assert.Equal(t, models.BookingCancelled, reloadedBooking.Status)
	assert.Equal(t, models.TableAvailable, reloadTable(t, eng.DB, table.ID).Status)
}

func TestExpireWaitingListEntry(t *testing.T) {
	eng, _ := newTestEngine(t)
	restaurant := seedRestaurant(t, eng.DB)
	dina := seedCustomer(t, eng.DB, "Dina")
	seedEntry(t, eng.DB, restaurant.ID, dina.ID, 1, 2, models.WaitlistWaiting)
	table := seedTable(t, eng.DB, restaurant.ID, "A1", 2, models.TableAvailable)

	_, err := eng.PromoteNext(restaurant.ID, testDate, testSlot)
	assert.NoError(t, err)

	var entry models.WaitingListEntry
	assert.NoError(t, eng.DB.Where("status = ?", models.WaitlistNotified).First(&entry).Error)

	expired, err := eng.ExpireWaitingListEntry(entry.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.WaitlistExpired, expired.Status)
	assert.Equal(t, models.TableAvailable, reloadTable(t, eng.DB, table.ID).Status)

	// Expire hanya berlaku untuk entri notified
	waiting := seedEntry(t, eng.DB, restaurant.ID, dina.ID, 5, 2, models.WaitlistWaiting)
	_, err = eng.ExpireWaitingListEntry(waiting.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
