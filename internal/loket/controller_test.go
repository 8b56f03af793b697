package loket

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
)

type fakeAPI struct {
	next      []models.Antrian
	skipped   map[int64]models.Antrian
	active     *models.Antrian
	failNext   error
	failClose  error
	failActive error
	calls      []string
}

func (f *fakeAPI) CallNext(_ context.Context, counter string, _ int64) (*models.HasilPanggilan, error) {
	f.calls = append(f.calls, "call")
	if f.failNext != nil {
		return nil, f.failNext
	}
	if len(f.next) == 0 {
		return nil, nil
	}
	t := f.next[0]
	f.next = f.next[1:]
	t.Status = models.StatusDipanggil
	t.CounterName = counter
	return &models.HasilPanggilan{Ticket: t}, nil
}

func (f *fakeAPI) close(id int64, status models.StatusAntrian) (*models.Antrian, error) {
	if f.failClose != nil {
		return nil, f.failClose
	}
	return &models.Antrian{ID: id, QueueCode: "A-1", Status: status}, nil
}

func (f *fakeAPI) Complete(_ context.Context, id int64) (*models.Antrian, error) {
	f.calls = append(f.calls, "complete")
	return f.close(id, models.StatusSelesai)
}

func (f *fakeAPI) Skip(_ context.Context, id int64) (*models.Antrian, error) {
	f.calls = append(f.calls, "skip")
	return f.close(id, models.StatusTerlewat)
}

func (f *fakeAPI) RecallSkipped(_ context.Context, id int64, counter string) (*models.HasilPanggilan, error) {
	f.calls = append(f.calls, "recall-skipped")
	t, ok := f.skipped[id]
	if !ok {
		return nil, errors.New("409: status antrian tidak valid")
	}
	t.Status = models.StatusDipanggil
	t.CounterName = counter
	return &models.HasilPanggilan{Ticket: t}, nil
}

func (f *fakeAPI) Active(context.Context, string) (*models.Antrian, error) {
	f.calls = append(f.calls, "active")
	if f.failActive != nil {
		return nil, f.failActive
	}
	return f.active, nil
}

type recorder struct {
	announced []string
	infos     []string
	errors    []string
}

func (r *recorder) Announce(_ context.Context, p Pengumuman) error {
	r.announced = append(r.announced, p.Teks)
	return nil
}

func (r *recorder) Info(msg string)  { r.infos = append(r.infos, msg) }
func (r *recorder) Error(msg string) { r.errors = append(r.errors, msg) }

func newTestController(api *fakeAPI) (*Controller, *recorder) {
	rec := &recorder{}
	return NewController(Config{CounterName: "Loket 1"}, api, rec, rec, zerolog.Nop()), rec
}

func TestController_CallFinish(t *testing.T) {
	api := &fakeAPI{next: []models.Antrian{{ID: 1, QueueCode: "A-1"}, {ID: 2, QueueCode: "A-2"}}}
	c, rec := newTestController(api)
	ctx := context.Background()

	got, err := c.CallNext(ctx)
	if err != nil || got == nil || got.ID != 1 {
		t.Fatalf("call: %+v %v", got, err)
	}
	if c.State() != StateActive {
		t.Errorf("expected ACTIVE, got %s", c.State())
	}
	if len(rec.announced) != 1 || rec.announced[0] != "Nomor antrian A satu, silakan menuju Loket 1" {
		t.Errorf("unexpected announcement %v", rec.announced)
	}

	// tidak boleh memanggil lagi sebelum tiket aktif ditutup
	if _, err := c.CallNext(ctx); !errors.Is(err, ErrTransisiTidakValid) {
		t.Errorf("expected ErrTransisiTidakValid, got %v", err)
	}

	if _, err := c.Recall(ctx); err != nil {
		t.Fatal(err)
	}
	if len(rec.announced) != 2 {
		t.Errorf("recall must re-announce, got %v", rec.announced)
	}

	if _, err := c.Finish(ctx); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateIdle || c.Current() != nil {
		t.Errorf("expected IDLE without ticket, got %s %+v", c.State(), c.Current())
	}

	want := []string{"call", "complete"}
	if strings.Join(api.calls, ",") != strings.Join(want, ",") {
		t.Errorf("expected API calls %v, got %v", want, api.calls)
	}
}

func TestController_EmptyQueue(t *testing.T) {
	c, rec := newTestController(&fakeAPI{})

	got, err := c.CallNext(context.Background())
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil; got %+v %v", got, err)
	}
	if c.State() != StateIdle {
		t.Errorf("expected IDLE, got %s", c.State())
	}
	if len(rec.infos) != 1 || rec.infos[0] != "Tidak ada antrian" {
		t.Errorf("expected info message, got %v", rec.infos)
	}
	if len(rec.announced) != 0 {
		t.Errorf("nothing must be announced, got %v", rec.announced)
	}
}

func TestController_CallError(t *testing.T) {
	boom := errors.New("connection refused")
	c, rec := newTestController(&fakeAPI{failNext: boom})

	if _, err := c.CallNext(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if c.State() != StateIdle {
		t.Errorf("expected IDLE after failure, got %s", c.State())
	}
	if len(rec.errors) != 1 {
		t.Errorf("expected one error message, got %v", rec.errors)
	}
}

func TestController_CloseErrorKeepsTicket(t *testing.T) {
	api := &fakeAPI{next: []models.Antrian{{ID: 1, QueueCode: "A-1"}}}
	c, rec := newTestController(api)
	ctx := context.Background()
	if _, err := c.CallNext(ctx); err != nil {
		t.Fatal(err)
	}

	// server masih memegang tiket yang sama
	api.active = &models.Antrian{ID: 1, QueueCode: "A-1", Status: models.StatusDipanggil}
	api.failClose = errors.New("timeout")
	if _, err := c.Skip(ctx); err == nil {
		t.Fatal("expected error")
	}
	if c.State() != StateActive || c.Current() == nil || c.Current().ID != 1 {
		t.Errorf("ticket must stay active, got %s %+v", c.State(), c.Current())
	}
	if len(rec.errors) != 1 {
		t.Errorf("expected one error message, got %v", rec.errors)
	}

	// server tidak bisa dihubungi sama sekali
	api.failActive = errors.New("connection refused")
	if _, err := c.Finish(ctx); err == nil {
		t.Fatal("expected error")
	}
	if c.State() != StateActive || c.Current().ID != 1 {
		t.Errorf("ticket must stay active while server is unreachable, got %s %+v", c.State(), c.Current())
	}
	api.failActive = nil

	api.failClose = nil
	skipped, err := c.Skip(ctx)
	if err != nil || skipped.Status != models.StatusTerlewat {
		t.Fatalf("skip: %+v %v", skipped, err)
	}
	if c.State() != StateIdle {
		t.Errorf("expected IDLE, got %s", c.State())
	}
}

func TestController_CloseRejectedResyncs(t *testing.T) {
	rejected := errors.New("api error 409: status antrian tidak valid")
	tests := []struct {
		name      string
		active    *models.Antrian
		wantState State
		wantID    int64
	}{
		{name: "closed elsewhere", active: nil, wantState: StateIdle},
		{
			name:      "server holds another ticket",
			active:    &models.Antrian{ID: 7, QueueCode: "A-7", Status: models.StatusDipanggil},
			wantState: StateActive,
			wantID:    7,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{next: []models.Antrian{{ID: 1, QueueCode: "A-1"}, {ID: 2, QueueCode: "A-2"}}}
			c, rec := newTestController(api)
			ctx := context.Background()
			if _, err := c.CallNext(ctx); err != nil {
				t.Fatal(err)
			}

			api.failClose = rejected
			api.active = tc.active
			if _, err := c.Finish(ctx); !errors.Is(err, rejected) {
				t.Fatalf("expected rejection, got %v", err)
			}
			if c.State() != tc.wantState {
				t.Fatalf("expected %s after resync, got %s", tc.wantState, c.State())
			}
			if tc.wantID == 0 {
				if c.Current() != nil {
					t.Errorf("expected no ticket, got %+v", c.Current())
				}
			} else if c.Current() == nil || c.Current().ID != tc.wantID {
				t.Errorf("expected ticket %d, got %+v", tc.wantID, c.Current())
			}
			if len(rec.infos) == 0 {
				t.Error("expected user-visible resync message")
			}

			// loket tidak macet: aksi berikutnya tetap bisa dijalankan
			api.failClose = nil
			if tc.wantState == StateIdle {
				got, err := c.CallNext(ctx)
				if err != nil || got == nil || got.ID != 2 {
					t.Fatalf("call after resync: %+v %v", got, err)
				}
			} else if _, err := c.Finish(ctx); err != nil {
				t.Fatalf("finish after resync: %v", err)
			}
		})
	}
}

func TestController_IdleMisuse(t *testing.T) {
	api := &fakeAPI{}
	c, _ := newTestController(api)
	ctx := context.Background()

	if _, err := c.Recall(ctx); !errors.Is(err, ErrTransisiTidakValid) {
		t.Errorf("recall: expected ErrTransisiTidakValid, got %v", err)
	}
	if _, err := c.Finish(ctx); !errors.Is(err, ErrTransisiTidakValid) {
		t.Errorf("finish: expected ErrTransisiTidakValid, got %v", err)
	}
	if _, err := c.Skip(ctx); !errors.Is(err, ErrTransisiTidakValid) {
		t.Errorf("skip: expected ErrTransisiTidakValid, got %v", err)
	}
	if len(api.calls) != 0 {
		t.Errorf("no API call expected, got %v", api.calls)
	}
}

func TestController_RecallSkipped(t *testing.T) {
	api := &fakeAPI{
		next:    []models.Antrian{{ID: 2, QueueCode: "A-2"}},
		skipped: map[int64]models.Antrian{1: {ID: 1, QueueCode: "A-1"}},
	}
	c, rec := newTestController(api)
	ctx := context.Background()

	if _, err := c.CallNext(ctx); err != nil {
		t.Fatal(err)
	}
	api.calls = nil

	// loket masih aktif: ditolak tanpa memanggil server
	if _, err := c.RecallSkipped(ctx, 1); !errors.Is(err, ErrLoketAktif) {
		t.Fatalf("expected ErrLoketAktif, got %v", err)
	}
	if len(api.calls) != 0 {
		t.Errorf("no API call expected, got %v", api.calls)
	}
	if len(rec.errors) != 1 {
		t.Errorf("expected user-visible error, got %v", rec.errors)
	}

	if _, err := c.Finish(ctx); err != nil {
		t.Fatal(err)
	}
	got, err := c.RecallSkipped(ctx, 1)
	if err != nil || got.ID != 1 || got.CounterName != "Loket 1" {
		t.Fatalf("recall skipped: %+v %v", got, err)
	}
	if c.State() != StateActive {
		t.Errorf("expected ACTIVE, got %s", c.State())
	}
	if last := rec.announced[len(rec.announced)-1]; last != "Nomor antrian A satu, silakan menuju Loket 1" {
		t.Errorf("unexpected announcement %q", last)
	}

	if _, err := c.Finish(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := c.RecallSkipped(ctx, 42); err == nil {
		t.Error("expected server rejection for unknown ticket")
	}
	if c.State() != StateIdle {
		t.Errorf("expected IDLE after rejected recall, got %s", c.State())
	}
}

func TestController_Resume(t *testing.T) {
	api := &fakeAPI{active: &models.Antrian{ID: 9, QueueCode: "A-9", Status: models.StatusDipanggil}}
	c, rec := newTestController(api)

	got, err := c.Resume(context.Background())
	if err != nil || got == nil || got.ID != 9 {
		t.Fatalf("resume: %+v %v", got, err)
	}
	if c.State() != StateActive {
		t.Errorf("expected ACTIVE, got %s", c.State())
	}
	if len(rec.announced) != 0 {
		t.Errorf("resume must not announce, got %v", rec.announced)
	}
}

func TestTextAnnouncer(t *testing.T) {
	var buf bytes.Buffer
	p, _ := FormatPengumuman("A-3", "Loket 2")
	if err := (TextAnnouncer{W: &buf, Voice: "id-ID"}).Announce(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "[pengumuman:id-ID] Nomor antrian A tiga, silakan menuju Loket 2\n" {
		t.Errorf("unexpected output %q", got)
	}
}
