package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-foh/controllers"
	"github.com/yeremiapane/restaurant-foh/engine"
	"github.com/yeremiapane/restaurant-foh/middlewares"
	"github.com/yeremiapane/restaurant-foh/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Engine dengan hook sesi order
	eng := engine.New(db, services.NewSessionService(db))

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(db)
	tableCtrl := controllers.NewTableController(db, eng)
	bookingCtrl := controllers.NewBookingController(db, eng)
	waitlistCtrl := controllers.NewWaitlistController(db, eng)
	customerCtrl := controllers.NewCustomerController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Halaman booking publik: cek ketersediaan, buat booking, cek status
	r.GET("/availability", bookingCtrl.FindAvailability)
	r.POST("/bookings", bookingCtrl.CreateBooking)
	r.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
	r.POST("/customers", customerCtrl.CreateCustomer)
	r.GET("/restaurants", restaurantCtrl.GetAllRestaurants)

	// Sesi aktif meja (dipakai halaman order)
	r.GET("/tables/:table_id/session", customerCtrl.GetActiveSession)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", userCtrl.GetAllUsers)

	// RESTAURANTS (admin)
	auth.POST("/restaurants", restaurantCtrl.CreateRestaurant)
	auth.GET("/restaurants", restaurantCtrl.GetAllRestaurants)

	// TABLES (staff/host/admin)
	staff := auth.Group("/")
	staff.Use(middlewares.RequireRoles("staff", "host"))
	{
		staff.GET("/tables", tableCtrl.GetAllTables)
		staff.POST("/tables", tableCtrl.CreateTable)
		staff.GET("/tables/:table_id", tableCtrl.GetTableByID)
		staff.PATCH("/tables/:table_id/release", tableCtrl.ReleaseTable)
		staff.PATCH("/tables/:table_id/maintenance", tableCtrl.SetMaintenance)
		staff.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

		// BOOKINGS
		staff.GET("/bookings", bookingCtrl.GetAllBookings)
		staff.POST("/bookings", bookingCtrl.CreateBooking)
		staff.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
		staff.PATCH("/bookings/:booking_id/status", bookingCtrl.UpdateBookingStatus)
		staff.POST("/bookings/:booking_id/assign-table", bookingCtrl.AssignTable)
		staff.POST("/walkins", bookingCtrl.CreateWalkIn)
		staff.GET("/availability", bookingCtrl.FindAvailability)

		// WAITING LIST
		staff.GET("/waitlist", waitlistCtrl.GetWaitingList)
		staff.GET("/waitlist/:entry_id", waitlistCtrl.GetEntryByID)
		staff.POST("/waitlist/:entry_id/promote", waitlistCtrl.PromoteEntry)
		staff.PATCH("/waitlist/:entry_id/cancel", waitlistCtrl.CancelEntry)

		// CUSTOMERS
		staff.GET("/customers", customerCtrl.GetAllCustomers)
		staff.GET("/customers/:customer_id", customerCtrl.GetCustomerByID)
		staff.POST("/customers", customerCtrl.CreateCustomer)

		// DASHBOARD
		staff.GET("/dashboard/stats", tableCtrl.GetDashboardStats)
	}

	// WebSocket endpoint dengan auth lewat query token
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/dashboard", controllers.DashboardWSHandler)
	}

	return r
}
