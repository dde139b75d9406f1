package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppEnv         string
	Port           string
	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	MigrationsPath string
	JWTSecret      string
	JWTExpiry      string
	UploadDir      string
	MaxUploadSize  int64
	RedisURL       string
	RedisAddr      string
	RedisPassword  string
	CloudinaryURL  string
	CloudinaryName string
	CloudinaryKey  string
	CloudinarySec  string
	AMQPURL        string
	AMQPExchange   string
	OriginURL      string
	VATRate        decimal.Decimal
	MinOrderTotal  decimal.Decimal
}

var AppConfig *Config

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using system environment variables")
	}

	maxUploadSize, _ := strconv.ParseInt(os.Getenv("MAX_UPLOAD_SIZE"), 10, 64)
	if maxUploadSize == 0 {
		maxUploadSize = 5242880
	}

	AppConfig = &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("APP_PORT", getEnv("PORT", "8082")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "grocery_store"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "database/migration"),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		JWTExpiry:      getEnv("JWT_EXPIRY", "24h"),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize:  maxUploadSize,
		RedisURL:       os.Getenv("REDIS_URL"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		CloudinaryURL:  os.Getenv("CLOUDINARY_URL"),
		CloudinaryName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryKey:  os.Getenv("CLOUDINARY_API_KEY"),
		CloudinarySec:  os.Getenv("CLOUDINARY_API_SECRET"),
		AMQPURL:        os.Getenv("AMQP_URL"),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "grocery.orders"),
		OriginURL:      os.Getenv("ORIGIN_URL"),
		VATRate:        getDecimal("VAT_RATE", "0.18"),
		MinOrderTotal:  getDecimal("MIN_ORDER_TOTAL", "0"),
	}

	log.Info().
		Str("env", AppConfig.AppEnv).
		Str("port", AppConfig.Port).
		Msg("configuration loaded")

	return AppConfig
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDecimal(key, defaultValue string) decimal.Decimal {
	raw := getEnv(key, defaultValue)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid decimal, using default")
		return decimal.RequireFromString(defaultValue)
	}
	return d
}
