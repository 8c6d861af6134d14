package config

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

type S3Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	BucketName      string
	Region          string
}

type Config struct {
	DB_URL             string
	Port               string
	JWTSecret          string
	DownloadSecret     string // signs ephemeral download/bundle URLs
	PublicBaseURL      string // origin used when building share links
	WebOrigin          string // browser client origin, for CORS and auth redirects
	Environment        string
	MaxUploadBytes     int64
	GoogleClientID     string
	GoogleClientSecret string
	CorsConfig         cors.Options
	S3                 S3Config
}

var Envs = initConfig()

func initConfig() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	return Config{
		DB_URL:             getEnv("DB_URL", ""),
		Port:               getEnv("PORT", "8080"),
		JWTSecret:          getEnv("JWT_SECRET", "not-so-secret-now-is-it?"),
		DownloadSecret:     getEnv("DOWNLOAD_SECRET", "dev-only-download-secret"),
		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		WebOrigin:          getEnv("WEB_ORIGIN", "http://localhost:5173"),
		Environment:        getEnv("ENV", "development"),
		MaxUploadBytes:     getEnvInt64("MAX_UPLOAD_MB", 100) << 20,
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		CorsConfig:         CorsConfig(),
		S3: S3Config{
			AccountID:       getEnv("S3_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			BucketName:      getEnv("S3_BUCKET_NAME", ""),
			Region:          getEnv("S3_REGION", "auto"),
		},
	}
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
		log.Printf("Invalid value for %s, using default %d", key, fallback)
	}
	return fallback
}

func CorsConfig() cors.Options {
	return cors.Options{
		AllowedOrigins:   []string{getEnv("WEB_ORIGIN", "http://localhost:5173")},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
