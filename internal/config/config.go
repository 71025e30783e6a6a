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
	JWT      JWTConfig
	OAuth    OAuthConfig
	Email    EmailConfig
	Storage  StorageConfig
	Admin    AdminConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port           string
	BaseURL        string
	FrontendOrigin string
}

type DatabaseConfig struct {
	Primary  DBConnection
	Fallback DBConnection
}

type DBConnection struct {
	Driver string
	DSN    string
	Enable bool
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type EmailConfig struct {
	SMTPHost string
	SMTPPort string
	User     string
	Password string
	FromName string
	// OrgEmail receives contact-form submissions.
	OrgEmail string
}

type StorageConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// AdminConfig is the allowlist that grants the admin role at login.
type AdminConfig struct {
	Domains []string
	Emails  []string
}

type CORSConfig struct {
	Origins []string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded:", err)
	}

	frontend := getEnvOrDefault("FRONTEND_ORIGIN", "http://localhost:3000")
	baseURL := getEnvOrDefault("BASE_URL", "http://localhost:8080")

	return &Config{
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", "8080"),
			BaseURL:        baseURL,
			FrontendOrigin: frontend,
		},
		Database: DatabaseConfig{
			Primary:  loadPrimaryDB(),
			Fallback: loadFallbackDB(),
		},
		JWT: JWTConfig{
			Secret: getEnvOrDefault("JWT_SECRET", "dev-secret-key"),
			TTL:    loadJWTTTL(),
		},
		OAuth: OAuthConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  baseURL + "/api/auth/login/callback",
		},
		Email: EmailConfig{
			SMTPHost: getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort: getEnvOrDefault("SMTP_PORT", "587"),
			User:     os.Getenv("EMAIL_USER"),
			Password: os.Getenv("APP_PASS"),
			FromName: getEnvOrDefault("FROM_NAME", "120 East State"),
			OrgEmail: getEnvOrDefault("ORG_EMAIL_USER", os.Getenv("EMAIL_USER")),
		},
		Storage: StorageConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:    getEnvOrDefault("CLOUDINARY_FOLDER", "120EastState3"),
		},
		Admin: AdminConfig{
			Domains: splitList(getEnvOrDefault("ADMIN_DOMAINS", "@princeton.edu,@120eaststate.org")),
			Emails:  splitList(getEnvOrDefault("ADMIN_EMAILS", "120eaststate@gmail.com")),
		},
		CORS: CORSConfig{
			Origins: dedupe(append(splitList(os.Getenv("CORS_ORIGINS")), frontend, "http://localhost:3000")),
		},
	}
}

func loadJWTTTL() time.Duration {
	raw := getEnvOrDefault("JWT_EXP_DELTA_SECONDS", "604800") // 7 days
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		log.Printf("invalid JWT_EXP_DELTA_SECONDS %q, using 7 days", raw)
		secs = 604800
	}
	return time.Duration(secs) * time.Second
}

func loadPrimaryDB() DBConnection {
	driver := getEnvOrDefault("PRIMARY_DB_DRIVER", "postgres")
	enable := getEnvOrDefault("PRIMARY_DB_ENABLE", "true") == "true"

	var dsn string
	switch driver {
	case "postgres":
		dsn = buildPostgresDSN()
	case "sqlite":
		dsn = getEnvOrDefault("PRIMARY_SQLITE_PATH", "./data/primary.db")
	default:
		log.Printf("unsupported primary database driver: %s", driver)
		enable = false
	}
	if dsn == "" {
		enable = false
	}

	return DBConnection{Driver: driver, DSN: dsn, Enable: enable}
}

func loadFallbackDB() DBConnection {
	driver := getEnvOrDefault("FALLBACK_DB_DRIVER", "sqlite")
	enable := getEnvOrDefault("FALLBACK_DB_ENABLE", "true") == "true"

	var dsn string
	switch driver {
	case "postgres":
		dsn = buildPostgresDSN()
	case "sqlite":
		dsn = getEnvOrDefault("FALLBACK_SQLITE_PATH", "./data/fallback.db")
	default:
		driver = "sqlite"
		dsn = "./data/fallback.db"
	}

	return DBConnection{Driver: driver, DSN: dsn, Enable: enable}
}

func buildPostgresDSN() string {
	// Heroku-style DATABASE_URL wins when present.
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	host := getEnvOrDefault("PG_HOST", "localhost")
	port := getEnvOrDefault("PG_PORT", "5432")
	user := os.Getenv("PG_USER")
	password := os.Getenv("PG_PASSWORD")
	database := os.Getenv("PG_DATABASE")
	sslmode := getEnvOrDefault("PG_SSLMODE", "disable")

	if user == "" || database == "" {
		return ""
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
