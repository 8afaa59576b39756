package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	JWTSecret         string
	JWTAccessTTLHours int

	CORSAllowedOrigins []string

	OtelExporterEndpoint string

	// Optional bootstrap employer account; skipped when unset.
	SeedEmployerEmail    string
	SeedEmployerPassword string
	SeedEmployerName     string
}

func Load() Config {
	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 3000),
		DBURL: buildDBURL(),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTAccessTTLHours: getEnvInt("JWT_ACCESS_TTL_HOURS", 24),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),

		OtelExporterEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", ""),

		SeedEmployerEmail:    getEnv("SEED_EMPLOYER_EMAIL", ""),
		SeedEmployerPassword: getEnv("SEED_EMPLOYER_PASSWORD", ""),
		SeedEmployerName:     getEnv("SEED_EMPLOYER_NAME", "Seed Employer"),
	}
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLHours) * time.Hour
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "jobboard")
	pass := getEnv("DB_PASSWORD", "jobboard")
	name := getEnv("DB_NAME", "jobboard")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
