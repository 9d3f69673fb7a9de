package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port        string
	CorsOrigins string

	DBDriver       string // mysql, postgres or sqlite
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTKey         string
	JWTExpiryHours int
	SaltRound      int

	LogLevel  string
	LogPretty bool

	RedisURL        string
	CacheTTLSeconds int

	AMQPURL      string
	AMQPExchange string

	SendGridAPIKey  string
	EmailSender     string
	EmailSenderName string

	GeocoderURL       string
	GeocoderUserAgent string

	SchedulerSpec string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = FromEnv()

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.DBDriver == "sqlite" {
		log.Println("Warning: Using sqlite driver. Use mysql or postgres in production.")
	}
}

// FromEnv builds a Config from the current process environment
func FromEnv() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		CorsOrigins: getEnv("CORS_ORIGINS", "*"),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBHost:         getEnv("DB_HOST", "127.0.0.1"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "root"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "cityguide"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTKey:         getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),
		SaltRound:      getEnvInt("SALT_ROUND", 10),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),

		RedisURL:        getEnv("REDIS_URL", ""),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 60),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "cityguide.events"),

		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@cityguide.local"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "City Guide"),

		GeocoderURL:       getEnv("GEOCODER_URL", ""),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "cityguide-api"),

		SchedulerSpec: getEnv("SCHEDULER_SPEC", "@hourly"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}
