package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv     string
	Port       string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string
	JWTTTL     time.Duration
	LogLevel   string
	Timezone   string

	// QueuePrefix dipakai untuk kode antrian bila poliklinik tidak punya kode_antrian sendiri.
	QueuePrefix     string
	DefaultMaxQuota int
	CacheSize       int

	// AMQPURL opsional; jika kosong event antrian hanya dikirim lewat websocket.
	AMQPURL      string
	AMQPExchange string

	CORSOrigins []string
}

var (
	loadOnce  sync.Once
	loaded    *Config
	loadedErr error
)

// LoadConfig memuat konfigurasi sekali per proses.
func LoadConfig() (*Config, error) {
	loadOnce.Do(func() {
		loaded, loadedErr = Load()
	})
	return loaded, loadedErr
}

// Load membaca .env (jika ada) lalu environment variable melalui viper.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Relying on environment variables.")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "poliklinik")
	v.SetDefault("JWT_TTL", "12h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "Asia/Jakarta")
	v.SetDefault("QUEUE_PREFIX", "A")
	v.SetDefault("DEFAULT_MAX_QUOTA", 50)
	v.SetDefault("CACHE_SIZE", 256)
	v.SetDefault("AMQP_EXCHANGE", "poliklinik.antrian")
	v.SetDefault("CORS_ORIGINS", "*")

	cfg := &Config{
		AppEnv:          v.GetString("APP_ENV"),
		Port:            v.GetString("PORT"),
		DBUser:          v.GetString("DB_USER"),
		DBPassword:      v.GetString("DB_PASSWORD"),
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetString("DB_PORT"),
		DBName:          v.GetString("DB_NAME"),
		JWTSecret:       v.GetString("JWT_SECRET_KEY"),
		JWTTTL:          v.GetDuration("JWT_TTL"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		Timezone:        v.GetString("TIMEZONE"),
		QueuePrefix:     strings.ToUpper(strings.TrimSpace(v.GetString("QUEUE_PREFIX"))),
		DefaultMaxQuota: v.GetInt("DEFAULT_MAX_QUOTA"),
		CacheSize:       v.GetInt("CACHE_SIZE"),
		AMQPURL:         v.GetString("AMQP_URL"),
		AMQPExchange:    v.GetString("AMQP_EXCHANGE"),
	}
	for _, origin := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBHost == "" || c.DBName == "" {
		return errors.New("config: DB_HOST dan DB_NAME wajib diisi")
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET_KEY wajib diisi")
	}
	if c.IsProduction() && c.DBPassword == "" {
		return errors.New("config: DB_PASSWORD wajib diisi di production")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("config: JWT_TTL tidak valid: %s", c.JWTTTL)
	}
	if c.QueuePrefix == "" {
		return errors.New("config: QUEUE_PREFIX tidak boleh kosong")
	}
	if c.DefaultMaxQuota <= 0 {
		return fmt.Errorf("config: DEFAULT_MAX_QUOTA harus > 0, didapat %d", c.DefaultMaxQuota)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location mengembalikan zona waktu yang menentukan "hari ini" untuk kuota harian.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: TIMEZONE %q tidak dikenal: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
