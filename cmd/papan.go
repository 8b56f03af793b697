package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
	"github.com/c14220110/poliklinik-antrian/internal/papan"
	"github.com/c14220110/poliklinik-antrian/pkg/client"
	"github.com/c14220110/poliklinik-antrian/pkg/events"
)

var (
	papanPoli     int64
	papanInterval time.Duration
)

var papanCmd = &cobra.Command{
	Use:   "papan",
	Short: "Tampilkan papan antrian yang diperbarui otomatis",
	RunE:  runPapan,
}

func init() {
	papanCmd.Flags().Int64Var(&papanPoli, "poli", 0, "filter poliklinik (0 = semua)")
	papanCmd.Flags().DurationVar(&papanInterval, "interval", papan.IntervalPapanAntrian, "interval polling")
}

func runPapan(cmd *cobra.Command, _ []string) error {
	sess, err := loadSession()
	if err != nil {
		return err
	}
	if sess.Token() == "" {
		return client.ErrUnauthorized
	}

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancelCause(sigCtx)
	defer cancel(nil)

	logger := cliLogger()
	api := client.New(sess.BaseURL(), sess)
	out := cmd.OutOrStdout()

	poller := papan.NewPoller("papan-antrian", papanInterval, func(ctx context.Context) (models.PapanAntrian, error) {
		b, err := api.Board(ctx, papanPoli)
		if err != nil {
			if errors.Is(err, client.ErrUnauthorized) {
				cancel(err)
			}
			return models.PapanAntrian{}, err
		}
		return *b, nil
	}, logger)
	poller.OnUpdate(func(b models.PapanAntrian) {
		if err := papan.Render(out, b); err != nil {
			logger.Warn().Err(err).Msg("Gagal menampilkan papan")
		}
	})

	stopPoll := poller.Start(ctx)
	defer stopPoll()

	go func() {
		// event hanya sinyal untuk mengambil ulang
		_ = papan.WatchEvents(ctx, api.WebsocketURL(events.TypeAntrianUpdate), []string{events.TypeAntrianUpdate},
			func(events.Event) { poller.Invalidate() }, logger)
	}()

	<-ctx.Done()
	if cause := context.Cause(ctx); errors.Is(cause, client.ErrUnauthorized) {
		return cause
	}
	return nil
}
