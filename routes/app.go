package routes

import (
	"fmt"
	"os"

	"grocery-store/config"
	"grocery-store/controllers"
	"grocery-store/libs"
	"grocery-store/middleware"
	"grocery-store/repositories"
	"grocery-store/services"
	"grocery-store/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const productImageFolder = "grocery/products"

// Build connects the backing services and wires the HTTP engine. The
// returned cleanup closes every connection Build opened.
func Build(cfg *config.Config) (*gin.Engine, func(), error) {
	pool, err := config.ConnectDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(cfg.UploadDir, os.ModePerm); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("create upload directory: %w", err)
	}

	cache := libs.NewCache(cfg.RedisURL, cfg.RedisAddr, cfg.RedisPassword)

	var imageStore services.ImageStore
	if cld, err := libs.NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryName, cfg.CloudinaryKey, cfg.CloudinarySec, productImageFolder); err == nil {
		imageStore = cld
		log.Info().Msg("product images stored in cloudinary")
	} else {
		imageStore = utils.NewLocalImageStore(cfg.UploadDir, "products")
		log.Info().Str("dir", cfg.UploadDir).Msg("product images stored on local disk")
	}

	var publisher libs.Publisher = libs.NoopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPub, err := libs.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unavailable, order events disabled")
		} else {
			publisher = amqpPub
		}
	}

	cleanup := func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("closing event publisher")
		}
		cache.Close()
		config.CloseDB()
	}

	userRepo := repositories.NewUserRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	cartRepo := repositories.NewCartRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	couponRepo := repositories.NewCouponRepository(pool)
	loyaltyRepo := repositories.NewLoyaltyRepository(pool)
	messageRepo := repositories.NewMessageRepository(pool)
	reportRepo := repositories.NewReportRepository(pool)

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)

	imageService := services.NewImageService(imageStore, productRepo, cache, cfg.MaxUploadSize, "")
	productService := services.NewProductService(productRepo, cache, imageService)
	loyaltyService := services.NewLoyaltyService(loyaltyRepo, orderRepo, cache)
	couponService := services.NewCouponService(couponRepo, userRepo)
	orderService := services.NewOrderService(orderRepo, cartRepo, userRepo, loyaltyService, couponService, productService, publisher, services.OrderConfig{
		VATRate:       cfg.VATRate,
		MinOrderTotal: cfg.MinOrderTotal,
	})

	ctrl := Controllers{
		Auth:    controllers.NewAuthController(services.NewAuthService(userRepo, tokens)),
		User:    controllers.NewUserController(services.NewUserService(userRepo)),
		Product: controllers.NewProductController(productService, imageService),
		Cart:    controllers.NewCartController(services.NewCartService(cartRepo, productRepo, imageService)),
		Order:   controllers.NewOrderController(orderService),
		Coupon:  controllers.NewCouponController(couponService),
		Loyalty: controllers.NewLoyaltyController(loyaltyService),
		Message: controllers.NewMessageController(services.NewMessageService(messageRepo, userRepo)),
		Report:  controllers.NewReportController(services.NewReportService(reportRepo, productService, messageRepo, userRepo)),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORSMiddleware(cfg.OriginURL))
	router.MaxMultipartMemory = cfg.MaxUploadSize

	SetupRoutes(router, ctrl, tokens, cfg.UploadDir)
	return router, cleanup, nil
}
