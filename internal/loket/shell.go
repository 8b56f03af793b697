package loket

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
)

// SkippedLister dipakai perintah "skipped" untuk menampilkan daftar terlewat.
type SkippedLister interface {
	Skipped(ctx context.Context, poliID int64) ([]models.Antrian, error)
}

const bantuan = `Perintah:
  call                 panggil antrian berikutnya
  recall               umumkan ulang antrian aktif
  finish               selesaikan antrian aktif
  skip                 lewati antrian aktif
  skipped              tampilkan antrian terlewat
  recall-skipped <id>  panggil ulang antrian terlewat
  help                 tampilkan bantuan
  quit                 keluar`

// Shell membaca perintah petugas baris per baris dari in sampai "quit" atau
// EOF. fatal menentukan error mana yang menghentikan shell (misal sesi habis).
type Shell struct {
	Controller *Controller
	Lister     SkippedLister
	PoliID     int64
	Fatal      func(error) bool
}

func (s *Shell) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Loket %s siap. Ketik 'help' untuk bantuan.\n", s.Controller.cfg.CounterName)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}

		err := s.exec(ctx, fields, out)
		if err == nil {
			continue
		}
		if s.Fatal != nil && s.Fatal(err) {
			return err
		}
		// error API sudah ditampilkan lewat Notifier
		if errors.Is(err, ErrTransisiTidakValid) || errors.Is(err, errPerintah) {
			fmt.Fprintln(out, "ERROR:", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

var errPerintah = errors.New("perintah tidak dikenal")

func (s *Shell) exec(ctx context.Context, fields []string, out io.Writer) error {
	c := s.Controller
	var err error
	switch fields[0] {
	case "call":
		_, err = c.CallNext(ctx)
	case "recall":
		_, err = c.Recall(ctx)
	case "finish":
		_, err = c.Finish(ctx)
	case "skip":
		_, err = c.Skip(ctx)
	case "skipped":
		err = s.tampilkanTerlewat(ctx, out)
	case "recall-skipped":
		if len(fields) != 2 {
			return fmt.Errorf("%w: pakai recall-skipped <id>", errPerintah)
		}
		id, convErr := strconv.ParseInt(fields[1], 10, 64)
		if convErr != nil || id <= 0 {
			return fmt.Errorf("%w: id %q tidak valid", errPerintah, fields[1])
		}
		_, err = c.RecallSkipped(ctx, id)
	case "help":
		fmt.Fprintln(out, bantuan)
	default:
		return fmt.Errorf("%w: %s", errPerintah, fields[0])
	}
	return err
}

func (s *Shell) tampilkanTerlewat(ctx context.Context, out io.Writer) error {
	list, err := s.Lister.Skipped(ctx, s.PoliID)
	if err != nil {
		s.Controller.notifier.Error("Gagal memuat antrian terlewat: " + err.Error())
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "Tidak ada antrian terlewat")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKODE\tPASIEN\tDILEWATI")
	for _, a := range list {
		waktu := "-"
		if a.SkippedAt != nil {
			waktu = a.SkippedAt.Format("15:04")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", a.ID, a.QueueCode, a.NamaPasien, waktu)
	}
	return tw.Flush()
}
