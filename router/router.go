package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/thanwa/qr-table-order/config"
	"github.com/thanwa/qr-table-order/controllers"
	"github.com/thanwa/qr-table-order/middlewares"
	"github.com/thanwa/qr-table-order/session"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// 50 requests per second per IP across the whole API. Must be attached
	// before any route is registered; gin snapshots each route's handler
	// chain at registration time.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	sessions := session.NewService(db, config.BaseURL())

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db, sessions)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db, sessions)
	billingCtrl := controllers.NewBillingController(db)
	adminCtrl := controllers.NewAdminController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------

	// Login/register behind the strict limiter.
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Customer-facing: menu browsing.
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/menus/:menu_id", menuCtrl.GetMenuByID)

	// Session validity is re-checked on every customer page load.
	r.GET("/tables/:table_id/validate-session", tableCtrl.ValidateSession)

	// Ordering: the cart is submitted as one order; customers can cancel
	// only while the order is still pending and only with a live session.
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)
	r.GET("/tables/:table_id/orders", orderCtrl.GetOrdersByTable)

	// Bill splitting over the table's served orders.
	r.GET("/tables/:table_id/bill", billingCtrl.GetBill)
	r.POST("/tables/:table_id/bill", billingCtrl.PreviewBill)

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)

	// TABLES
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.POST("/tables", tableCtrl.CreateTable)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	auth.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
	auth.POST("/tables/:table_id/reset", tableCtrl.ResetTable)
	auth.POST("/qr/generate", tableCtrl.GenerateQR)

	// MENU CATEGORIES
	auth.POST("/categories", categoryCtrl.CreateCategory)
	auth.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
	auth.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

	// MENUS
	auth.GET("/menus", menuCtrl.GetAllMenus)
	auth.POST("/menus", menuCtrl.CreateMenu)
	auth.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
	auth.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
	auth.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

	// ORDERS
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)

	// DASHBOARD
	auth.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
	auth.GET("/order-statuses", adminCtrl.GetStatusDescriptors)

	// Realtime admin feed.
	auth.GET("/events", controllers.AdminEventsHandler)

	return r
}
