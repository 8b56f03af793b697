package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/c14220110/poliklinik-antrian/internal/loket"
	"github.com/c14220110/poliklinik-antrian/pkg/client"
)

var (
	loketNama  string
	loketPoli  int64
	loketSuara string
)

var loketCmd = &cobra.Command{
	Use:   "loket",
	Short: "Aplikasi petugas loket: panggil, selesaikan dan lewati antrian",
	RunE:  runLoket,
}

func init() {
	f := loketCmd.Flags()
	f.StringVar(&loketNama, "counter", "", "nama loket, disimpan ke sesi")
	f.Int64Var(&loketPoli, "poli", 0, "batasi panggilan ke satu poliklinik (0 = semua)")
	f.StringVar(&loketSuara, "voice", "", "nama suara pengumuman, disimpan ke sesi")
}

func runLoket(cmd *cobra.Command, _ []string) error {
	sess, err := loadSession()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("counter") || cmd.Flags().Changed("poli") {
		nama := loketNama
		if nama == "" {
			nama = sess.CounterName()
		}
		if err := sess.SetLoket(nama, loketPoli); err != nil {
			return err
		}
	}
	if loketSuara != "" {
		if err := sess.SetVoice(loketSuara); err != nil {
			return err
		}
	}
	if sess.Token() == "" {
		return client.ErrUnauthorized
	}
	if sess.CounterName() == "" {
		return errors.New("nama loket belum diatur, jalankan dengan --counter")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	api := client.New(sess.BaseURL(), sess)
	ctrl := loket.NewController(
		loket.Config{CounterName: sess.CounterName(), PoliID: sess.PoliID()},
		api,
		loket.TextAnnouncer{W: out, Voice: sess.VoiceName()},
		loket.TextNotifier{W: out},
		cliLogger(),
	)

	// lanjutkan tiket yang masih dipanggil di loket ini
	if t, err := ctrl.Resume(ctx); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return err
		}
		fmt.Fprintln(out, "ERROR: gagal memuat antrian aktif:", err)
	} else if t != nil {
		fmt.Fprintf(out, "Antrian aktif: %s\n", t.QueueCode)
	}

	sh := &loket.Shell{
		Controller: ctrl,
		Lister:     api,
		PoliID:     sess.PoliID(),
		Fatal:      func(err error) bool { return errors.Is(err, client.ErrUnauthorized) },
	}
	return sh.Run(ctx, cmd.InOrStdin(), out)
}
