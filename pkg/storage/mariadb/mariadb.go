package mariadb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/c14220110/poliklinik-antrian/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Connect membuka koneksi ke database MariaDB.
// Semua kredensial diambil dari config (yang membaca .env).
func Connect(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	dsn := DSN(cfg, loc)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("gagal membuka koneksi ke database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("gagal melakukan ping ke database: %w", err)
	}

	logger.Info().Str("host", cfg.DBHost).Str("database", cfg.DBName).Msg("Berhasil terhubung ke MariaDB.")
	return db, nil
}

// DSN menyusun DSN dengan parseTime aktif dan lokasi sesuai TIMEZONE.
func DSN(cfg *config.Config, loc *time.Location) string {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.Net = "tcp"
	mc.Addr = cfg.DBHost + ":" + cfg.DBPort
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = loc
	return mc.FormatDSN()
}

// IsDuplicateKey melaporkan apakah err berasal dari pelanggaran UNIQUE KEY.
func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}

type gooseLogger struct {
	logger zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info().Msgf(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatal().Msgf(format, v...)
}

func prepareGoose(logger zerolog.Logger) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger: logger.With().Str("component", "migrate").Logger()})
	return goose.SetDialect("mysql")
}

// MigrateUp menjalankan seluruh migrasi yang belum diterapkan.
func MigrateUp(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	if err := prepareGoose(logger); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// MigrateDown membatalkan satu migrasi terakhir.
func MigrateDown(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	if err := prepareGoose(logger); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

func MigrateStatus(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	if err := prepareGoose(logger); err != nil {
		return err
	}
	return goose.StatusContext(ctx, db, migrationsDir)
}
