package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	DBDSN      string
	UploadDir  string
	LogFile    string
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func Load() Config {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "givetzy.db"
	} // sqlite file in project root
	uploads := os.Getenv("UPLOAD_DIR")
	if uploads == "" {
		uploads = "./uploads"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./givetzy.log"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "givetzy-dev-secret"
		log.Println("[config] JWT_SECRET not set, using insecure dev default")
	}

	cfg := Config{
		Port:       port,
		DBDSN:      dsn,
		UploadDir:  uploads,
		LogFile:    logFile,
		JWTSecret:  secret,
		AccessTTL:  durEnv("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL: durEnv("REFRESH_TOKEN_TTL", 7*24*time.Hour),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s UPLOAD_DIR=%s LOG_FILE=%s ACCESS_TTL=%s REFRESH_TTL=%s",
		cfg.Port, cfg.DBDSN, cfg.UploadDir, cfg.LogFile, cfg.AccessTTL, cfg.RefreshTTL)
	return cfg
}

func durEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
