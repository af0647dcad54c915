package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	S3       S3Config
	Admin    AdminConfig
	Pincode  PincodeConfig
	Proposal ProposalConfig
	Portal   PortalConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	// MaxUploadSize bounds a whole createApplication request body
	MaxUploadSize int64
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

// AdminConfig seeds the first admin account on start-up
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

type PincodeConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// ProposalConfig controls agent invite links
type ProposalConfig struct {
	TTL time.Duration
	// FormURL is the public application form the invite link points at
	FormURL string
	// ExpirySchedule is the cron spec of the expiry job
	ExpirySchedule string
}

// PortalConfig is used by callers of pkg/portalclient
type PortalConfig struct {
	BaseURL string
	Timeout time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:          getEnv("SERVER_PORT", "8080"),
			GinMode:       getEnv("GIN_MODE", "debug"),
			Environment:   getEnv("ENVIRONMENT", "development"),
			MaxUploadSize: parseInt64(getEnv("MAX_UPLOAD_SIZE", "52428800"), 50<<20),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "franchise_portal"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       int(parseInt64(getEnv("REDIS_DB", "0"), 0)),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "franchise-applications"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@example.com"),
			Password: getEnv("ADMIN_PASSWORD", ""),
			Name:     getEnv("ADMIN_NAME", "Administrator"),
		},
		Pincode: PincodeConfig{
			BaseURL:  getEnv("PINCODE_API_URL", "https://api.postalpincode.in"),
			Timeout:  parseDuration(getEnv("PINCODE_API_TIMEOUT", "5s"), 5*time.Second),
			CacheTTL: parseDuration(getEnv("PINCODE_CACHE_TTL", "720h"), 720*time.Hour),
		},
		Proposal: ProposalConfig{
			TTL:            parseDuration(getEnv("PROPOSAL_TTL", "720h"), 720*time.Hour),
			FormURL:        getEnv("APPLICATION_FORM_URL", "http://localhost:3000/apply"),
			ExpirySchedule: getEnv("PROPOSAL_EXPIRY_SCHEDULE", "0 2 * * *"),
		},
		Portal: PortalConfig{
			BaseURL: getEnv("PORTAL_API_URL", "http://localhost:8080"),
			Timeout: parseDuration(getEnv("PORTAL_API_TIMEOUT", "60s"), 60*time.Second),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt64(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Printf("Invalid number %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
