package routes

import (
	"net/http"

	"grocery-store/controllers"
	"grocery-store/middleware"
	"grocery-store/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Controllers struct {
	Auth    *controllers.AuthController
	User    *controllers.UserController
	Product *controllers.ProductController
	Cart    *controllers.CartController
	Order   *controllers.OrderController
	Coupon  *controllers.CouponController
	Loyalty *controllers.LoyaltyController
	Message *controllers.MessageController
	Report  *controllers.ReportController
}

func SetupRoutes(router *gin.Engine, ctrl Controllers, tokens middleware.TokenValidator, uploadDir string) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/register", ctrl.Auth.Register)
	router.POST("/auth/login", ctrl.Auth.Login)
	router.GET("/products", ctrl.Product.GetAllProducts)
	router.GET("/products/:id", ctrl.Product.GetProductByID)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware(tokens))
	{
		auth.GET("/auth/profile", ctrl.Auth.GetProfile)
		auth.PATCH("/auth/profile", ctrl.Auth.UpdateProfile)
		auth.POST("/auth/change-password", ctrl.Auth.ChangePassword)

		auth.GET("/messages/inbox", ctrl.Message.GetInbox)
		auth.GET("/messages/sent", ctrl.Message.GetSent)
		auth.GET("/messages/unread-count", ctrl.Message.GetUnreadCount)
		auth.GET("/messages/contacts", ctrl.Message.GetContacts)
		auth.GET("/messages/:id", ctrl.Message.GetMessage)
		auth.POST("/messages", ctrl.Message.SendMessage)
		auth.POST("/messages/:id/reply", ctrl.Message.ReplyMessage)
		auth.DELETE("/messages/:id", ctrl.Message.DeleteMessage)

		auth.GET("/orders/:id", ctrl.Order.GetOrderByID)
		auth.GET("/loyalty/settings", ctrl.Loyalty.GetSettings)
	}

	customer := router.Group("/")
	customer.Use(middleware.AuthMiddleware(tokens), middleware.RequireRoles(models.RoleCustomer))
	{
		customer.GET("/cart", ctrl.Cart.GetCart)
		customer.POST("/cart/items", ctrl.Cart.AddItem)
		customer.PATCH("/cart/items/:productId", ctrl.Cart.UpdateItem)
		customer.DELETE("/cart/items/:productId", ctrl.Cart.RemoveItem)
		customer.DELETE("/cart", ctrl.Cart.Clear)

		customer.POST("/orders/checkout", ctrl.Order.Checkout)
		customer.GET("/orders", ctrl.Order.GetMyOrders)
		customer.POST("/orders/:id/cancel", ctrl.Order.CancelOrder)
		customer.POST("/orders/:id/rate", ctrl.Order.RateCarrier)

		customer.GET("/loyalty/status", ctrl.Loyalty.GetStatus)
		customer.GET("/coupons", ctrl.Coupon.GetCoupons)
		customer.POST("/coupons/validate", ctrl.Coupon.ValidateCoupon)
	}

	carrier := router.Group("/carrier")
	carrier.Use(middleware.AuthMiddleware(tokens), middleware.RequireRoles(models.RoleCarrier))
	{
		carrier.GET("/orders/available", ctrl.Order.GetAvailableOrders)
		carrier.GET("/orders", ctrl.Order.GetCarrierOrders)
		carrier.POST("/orders/:id/claim", ctrl.Order.ClaimOrder)
		carrier.POST("/orders/:id/deliver", ctrl.Order.DeliverOrder)
	}

	owner := router.Group("/owner")
	owner.Use(middleware.AuthMiddleware(tokens), middleware.RequireRoles(models.RoleOwner))
	{
		owner.GET("/users", ctrl.User.GetAllUsers)
		owner.GET("/users/:id", ctrl.User.GetUserByID)
		owner.POST("/users", ctrl.User.CreateUser)
		owner.PATCH("/users/:id", ctrl.User.UpdateUser)
		owner.DELETE("/users/:id", ctrl.User.DeleteUser)

		owner.GET("/products/:id", ctrl.Product.GetAnyProduct)
		owner.POST("/products", ctrl.Product.CreateProduct)
		owner.PATCH("/products/:id", ctrl.Product.UpdateProduct)
		owner.DELETE("/products/:id", ctrl.Product.DeleteProduct)
		owner.POST("/products/:id/image", ctrl.Product.UploadProductImage)

		owner.GET("/orders", ctrl.Order.GetAllOrders)

		owner.PUT("/loyalty/settings", ctrl.Loyalty.UpdateSettings)

		owner.GET("/coupons", ctrl.Coupon.GetCoupons)
		owner.POST("/coupons", ctrl.Coupon.CreateCoupon)
		owner.DELETE("/coupons/:id", ctrl.Coupon.DeleteCoupon)

		owner.GET("/reports/sales", ctrl.Report.GetSalesReport)
		owner.GET("/reports/dashboard", ctrl.Report.GetDashboard)
	}

	router.Static("/uploads", uploadDir)
	router.Static("/static", "./static")
}
