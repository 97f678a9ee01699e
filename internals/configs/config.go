package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
	GoogleClientID   string
	Debug            bool
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using system ENV")
	} else {
		log.Println("✅ .env file loaded")
	}

	JWTSecret = GetEnv("SECRET_KEY", GetEnv("JWT_SECRET"))
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET", JWTSecret)
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")
	Debug = GetBool("DEBUG", false)

	if JWTSecret == "" {
		log.Println("❌ SECRET_KEY is not set!")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func GetBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// =======================
// Derived settings
// =======================

// AccessTokenTTL reads JWT_ACCESS_TOKEN_LIFETIME_HOURS (default 1h).
func AccessTokenTTL() time.Duration {
	return time.Duration(GetInt("JWT_ACCESS_TOKEN_LIFETIME_HOURS", 1)) * time.Hour
}

// RefreshTokenTTL reads JWT_REFRESH_TOKEN_LIFETIME_DAYS (default 7d).
func RefreshTokenTTL() time.Duration {
	return time.Duration(GetInt("JWT_REFRESH_TOKEN_LIFETIME_DAYS", 7)) * 24 * time.Hour
}

// AttendanceStatsCacheTTL reads ATTENDANCE_STATISTICS_CACHE_MINUTES (default 5m).
func AttendanceStatsCacheTTL() time.Duration {
	return time.Duration(GetInt("ATTENDANCE_STATISTICS_CACHE_MINUTES", 5)) * time.Minute
}

// CORSAllowedOrigins reads the comma-separated CORS_ALLOWED_ORIGINS whitelist.
func CORSAllowedOrigins() []string {
	raw := GetEnv("CORS_ALLOWED_ORIGINS")
	if raw == "" {
		if Debug {
			return []string{"http://localhost:5173", "http://127.0.0.1:5500"}
		}
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
