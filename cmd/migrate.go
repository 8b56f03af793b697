package cmd

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/c14220110/poliklinik-antrian/config"
	"github.com/c14220110/poliklinik-antrian/pkg/storage/mariadb"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrasi skema database",
}

func init() {
	migrateCmd.AddCommand(
		migrateStep("up", "Terapkan semua migrasi yang belum jalan", mariadb.MigrateUp),
		migrateStep("down", "Batalkan migrasi terakhir", mariadb.MigrateDown),
		migrateStep("status", "Tampilkan status migrasi", mariadb.MigrateStatus),
	)
}

func migrateStep(use, short string, fn func(context.Context, *sql.DB, zerolog.Logger) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.AppEnv, cfg.LogLevel)
			db, err := mariadb.Connect(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()
			return fn(cmd.Context(), db, logger)
		},
	}
}
