package routers

import (
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"marketplace-backend/config"
	"marketplace-backend/handlers"
	"marketplace-backend/middleware"
)

// SetupRouter builds the full route table. Dependencies are injected
// through closures so handlers never reach for globals.
func SetupRouter(db *mongo.Database, cfg config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Static("/uploads", "./"+filepath.ToSlash(cfg.UploadDir))

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "backend server is running"})
	})

	authRequired := middleware.AuthRequired(db, cfg)
	sellerRequired := middleware.SellerRequired()
	adminRequired := middleware.AdminRequired()

	api := router.Group("/api")

	// Auth
	api.POST("/auth/signup", func(c *gin.Context) { handlers.SignupHandler(c, db, cfg) })
	api.POST("/auth/login", func(c *gin.Context) { handlers.LoginHandler(c, db, cfg) })

	// Products
	products := api.Group("/products")
	{
		products.GET("", func(c *gin.Context) { handlers.ListProductsHandler(c, db) })
		products.GET("/myproducts", authRequired, sellerRequired, func(c *gin.Context) { handlers.MyProductsHandler(c, db) })
		products.GET("/:id", func(c *gin.Context) { handlers.GetProductHandler(c, db) })
		products.POST("", authRequired, sellerRequired, func(c *gin.Context) { handlers.CreateProductHandler(c, db, cfg) })
		products.PUT("/:id", authRequired, sellerRequired, func(c *gin.Context) { handlers.UpdateProductHandler(c, db, cfg) })
		products.DELETE("/:id", authRequired, sellerRequired, func(c *gin.Context) { handlers.DeleteProductHandler(c, db) })
		products.POST("/:id/reviews", authRequired, func(c *gin.Context) { handlers.AddReviewHandler(c, db) })
	}

	// Orders
	orders := api.Group("/orders", authRequired)
	{
		orders.POST("", func(c *gin.Context) { handlers.CreateOrderHandler(c, db) })
		orders.GET("/myorders", func(c *gin.Context) { handlers.MyOrdersHandler(c, db) })
		orders.GET("/my-sales", sellerRequired, func(c *gin.Context) { handlers.MySalesHandler(c, db) })
		orders.GET("/:id", func(c *gin.Context) { handlers.GetOrderHandler(c, db) })
		orders.PUT("/:id/cancel", func(c *gin.Context) { handlers.CancelOrderHandler(c, db) })
		orders.PUT("/:id/ship", sellerRequired, func(c *gin.Context) { handlers.ShipOrderHandler(c, db) })
	}

	// Profile self-service
	users := api.Group("/users", authRequired)
	{
		users.PUT("/profile/avatar", func(c *gin.Context) { handlers.UpdateAvatarHandler(c, db, cfg) })
		users.PUT("/profile/details", func(c *gin.Context) { handlers.UpdateDetailsHandler(c, db) })
		users.PUT("/profile/password", func(c *gin.Context) { handlers.UpdatePasswordHandler(c, db) })
	}

	// Admin console
	admin := api.Group("/admin", authRequired, adminRequired)
	{
		admin.GET("/orders", func(c *gin.Context) { handlers.AdminListOrdersHandler(c, db) })
		admin.PUT("/orders/:id/pay", func(c *gin.Context) { handlers.AdminPayOrderHandler(c, db) })
		admin.PUT("/orders/:id/deliver", func(c *gin.Context) { handlers.AdminDeliverOrderHandler(c, db) })
		admin.GET("/users", func(c *gin.Context) { handlers.AdminListUsersHandler(c, db) })
		admin.PUT("/users/:id/ban", func(c *gin.Context) { handlers.AdminBanUserHandler(c, db, cfg) })
		admin.PUT("/users/:id/unban", func(c *gin.Context) { handlers.AdminUnbanUserHandler(c, db) })
		admin.PUT("/users/:id/set-role", func(c *gin.Context) { handlers.AdminSetRoleHandler(c, db, cfg) })
	}

	return router
}
