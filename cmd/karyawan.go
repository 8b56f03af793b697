package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c14220110/poliklinik-antrian/config"
	"github.com/c14220110/poliklinik-antrian/internal/administrasi/models"
	"github.com/c14220110/poliklinik-antrian/internal/administrasi/services"
	"github.com/c14220110/poliklinik-antrian/internal/common/middlewares"
	"github.com/c14220110/poliklinik-antrian/pkg/storage/mariadb"
)

var karyawanCmd = &cobra.Command{
	Use:   "karyawan",
	Short: "Kelola akun karyawan",
}

var karyawanReq models.CreateKaryawanRequest

// karyawan add dipakai untuk membuat akun admin pertama.
var karyawanAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Tambah akun karyawan langsung ke database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := middlewares.NewValidator().Validate(karyawanReq); err != nil {
			return err
		}
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

		svc := services.NewAdministrasiService(db, cfg.JWTSecret, cfg.JWTTTL)
		id, err := svc.CreateKaryawan(cmd.Context(), karyawanReq)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Karyawan %s (%s) dibuat dengan id %d\n", karyawanReq.Username, karyawanReq.Role, id)
		return nil
	},
}

func init() {
	f := karyawanAddCmd.Flags()
	f.StringVar(&karyawanReq.Nama, "nama", "", "nama lengkap")
	f.StringVar(&karyawanReq.Username, "username", "", "username login")
	f.StringVar(&karyawanReq.Password, "password", "", "password (min. 6 karakter)")
	f.StringVar(&karyawanReq.Role, "role", "admin", "admin, pendaftaran, loket atau farmasi")
	karyawanCmd.AddCommand(karyawanAddCmd)
}
