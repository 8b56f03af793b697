package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c14220110/poliklinik-antrian/pkg/client"
)

var loginUser, loginPass string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login ke server dan simpan token ke sesi",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if loginUser == "" || loginPass == "" {
			return fmt.Errorf("--username dan --password wajib diisi")
		}
		sess, err := loadSession()
		if err != nil {
			return err
		}
		res, err := client.New(sess.BaseURL(), sess).Login(cmd.Context(), loginUser, loginPass)
		if err != nil {
			return err
		}
		if err := sess.SetToken(res.Token); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Login sebagai %s (%s), berlaku sampai %s\n",
			res.Karyawan.Username, res.Karyawan.Role, res.ExpiresAt.Local().Format("02 Jan 15:04"))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Hapus token dari sesi",
	RunE: func(cmd *cobra.Command, _ []string) error {
		sess, err := loadSession()
		if err != nil {
			return err
		}
		return sess.ClearToken()
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPass, "password", "p", "", "password")
}
