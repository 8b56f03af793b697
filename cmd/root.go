package cmd

import (
	"github.com/spf13/cobra"

	"github.com/c14220110/poliklinik-antrian/pkg/session"
)

var (
	sessionPath string
	serverURL   string
)

var rootCmd = &cobra.Command{
	Use:           "poliklinik-antrian",
	Short:         "Antrian poliklinik: server API, aplikasi loket dan papan antrian",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "lokasi file sesi (default di direktori config pengguna)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "alamat server API, disimpan ke sesi")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(karyawanCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(loketCmd)
	rootCmd.AddCommand(papanCmd)
}

// loadSession membuka sesi klien dan menerapkan --server bila diisi.
func loadSession() (*session.Session, error) {
	path := sessionPath
	if path == "" {
		p, err := session.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	sess, err := session.Load(path)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		if err := sess.SetBaseURL(serverURL); err != nil {
			return nil, err
		}
	}
	return sess, nil
}
