package router

import (
	"github.com/bazaarhq/bazaar-backend/config"
	"github.com/bazaarhq/bazaar-backend/internal/app/controller"
	"github.com/bazaarhq/bazaar-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController      *controller.AuthController
	itemController      *controller.ItemController
	cartController      *controller.CartController
	orderController     *controller.OrderController
	reviewController    *controller.ReviewController
	profileController   *controller.ProfileController
	homepageController  *controller.HomepageController
	promotionController *controller.PromotionController
	uploadController    *controller.UploadController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	itemController *controller.ItemController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	reviewController *controller.ReviewController,
	profileController *controller.ProfileController,
	homepageController *controller.HomepageController,
	promotionController *controller.PromotionController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		itemController:      itemController,
		cartController:      cartController,
		orderController:     orderController,
		reviewController:    reviewController,
		profileController:   profileController,
		homepageController:  homepageController,
		promotionController: promotionController,
		uploadController:    uploadController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SessionMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Bazaar API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		v1.GET("/homepage", r.homepageController.GetHomepage)
		v1.GET("/homepage/recommendations", r.homepageController.GetRecommendations)
		v1.GET("/categories", r.homepageController.GetCategories)

		items := v1.Group("/items")
		{
			items.GET("", r.itemController.SearchItems)
			items.GET("/:id", r.itemController.GetItemByID)
			items.GET("/:id/reviews", r.reviewController.GetItemReviews)

			items.POST("", r.authMiddleware.Authenticate(), r.itemController.CreateItem)
			items.PUT("/:id", r.authMiddleware.Authenticate(), r.itemController.UpdateItem)
			items.DELETE("/:id", r.authMiddleware.Authenticate(), r.itemController.DeleteItem)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
			cart.DELETE("", r.cartController.Clear)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.GetOrders)
			orders.GET("/:id", r.orderController.GetOrderByID)
			orders.POST("/checkout", r.orderController.Checkout)
			orders.POST("/:id/cancel", r.orderController.CancelOrder)

			orders.PUT("/:id/status",
				r.authMiddleware.RequireRole("admin"),
				r.orderController.UpdateOrderStatus,
			)
		}

		reviews := v1.Group("/reviews")
		reviews.Use(r.authMiddleware.Authenticate())
		{
			reviews.POST("", r.reviewController.CreateReview)
			reviews.GET("/me", r.reviewController.GetMyReviews)
			reviews.PUT("/:id", r.reviewController.UpdateReview)
			reviews.DELETE("/:id", r.reviewController.DeleteReview)
			reviews.POST("/:id/upvote", r.reviewController.ToggleUpvote)
			reviews.POST("/:id/response", r.reviewController.RespondToReview)
		}

		profiles := v1.Group("/profiles")
		{
			profiles.GET("/:username", r.authMiddleware.OptionalAuthenticate(), r.profileController.GetProfile)
			profiles.PATCH("/me", r.authMiddleware.Authenticate(), r.profileController.UpdateMyProfile)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.POST("/promotions", r.promotionController.CreatePromotion)
			admin.GET("/promotions", r.promotionController.ListPromotions)
			admin.GET("/promotions/:id", r.promotionController.GetPromotion)
			admin.PUT("/promotions/:id", r.promotionController.UpdatePromotion)
			admin.DELETE("/promotions/:id", r.promotionController.DeletePromotion)
		}

		uploads := v1.Group("/uploads")
		uploads.Use(r.authMiddleware.Authenticate())
		{
			uploads.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
