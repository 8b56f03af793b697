package loket

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
)

func (f *fakeAPI) Skipped(context.Context, int64) ([]models.Antrian, error) {
	var list []models.Antrian
	for _, a := range f.skipped {
		a := a
		at := time.Date(2026, 1, 2, 9, 30, 0, 0, time.UTC)
		a.SkippedAt = &at
		list = append(list, a)
	}
	return list, nil
}

func TestShell_Run(t *testing.T) {
	api := &fakeAPI{
		next:    []models.Antrian{{ID: 2, QueueCode: "A-2"}},
		skipped: map[int64]models.Antrian{1: {ID: 1, QueueCode: "A-1", NamaPasien: "Ani"}},
	}
	ctrl, rec := newTestController(api)
	sh := &Shell{Controller: ctrl, Lister: api}

	in := strings.NewReader("call\nrecall\nfinish\nskipped\nrecall-skipped x\nbogus\nrecall-skipped 1\nfinish\nquit\ncall\n")
	var out bytes.Buffer
	if err := sh.Run(context.Background(), in, &out); err != nil {
		t.Fatal(err)
	}

	want := "call,complete,recall-skipped,complete"
	if got := strings.Join(api.calls, ","); got != want {
		t.Errorf("expected calls %s, got %s", want, got)
	}
	if len(rec.announced) != 3 {
		t.Errorf("expected 3 announcements, got %v", rec.announced)
	}
	for _, s := range []string{"A-1", "Ani", "09:30", "id \"x\" tidak valid", "perintah tidak dikenal: bogus"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("output missing %q:\n%s", s, out.String())
		}
	}
}

func TestShell_FatalStops(t *testing.T) {
	expired := errors.New("sesi berakhir")
	ctrl, _ := newTestController(&fakeAPI{failNext: expired})
	sh := &Shell{Controller: ctrl, Fatal: func(err error) bool { return errors.Is(err, expired) }}

	err := sh.Run(context.Background(), strings.NewReader("call\ncall\n"), &bytes.Buffer{})
	if !errors.Is(err, expired) {
		t.Fatalf("expected fatal error, got %v", err)
	}
}
