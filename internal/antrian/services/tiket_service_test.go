package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/antriantest"
	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
	"github.com/c14220110/poliklinik-antrian/internal/antrian/services"
)

func seededStore() *antriantest.Store {
	st := antriantest.NewStore()
	st.AddPoli(1, "Poli Umum", "A")
	st.AddPoli(2, "Poli Gigi", "")
	st.AddDokter(10, 1, "dr. Sari", "SIP-001")
	st.AddDokter(20, 2, "drg. Budi", "SIP-002")
	for id := int64(100); id < 110; id++ {
		st.AddPasien(id, "Pasien")
	}
	return st
}

func newTiketService(st services.Store, maxQuota int) *services.TiketService {
	return services.NewTiketService(st, services.TiketConfig{
		Prefix:          "Q",
		DefaultMaxQuota: maxQuota,
		Location:        time.UTC,
	}, zerolog.Nop())
}

func TestFormatKodeAntrian(t *testing.T) {
	if got := services.FormatKodeAntrian("A", 7); got != "A-7" {
		t.Errorf("got %q", got)
	}
	if got := services.FormatKodeAntrian("VIP", 22); got != "VIP-22" {
		t.Errorf("got %q", got)
	}
}

func TestTerbitkanTiket_Berurutan(t *testing.T) {
	svc := newTiketService(seededStore(), 50)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := svc.TerbitkanTiket(ctx, 10, 100+int64(i))
		if err != nil {
			t.Fatalf("ticket %d: %v", i, err)
		}
		if res.Ticket.QueueNumber != i {
			t.Errorf("expected number %d, got %d", i, res.Ticket.QueueNumber)
		}
		if res.Ticket.Status != models.StatusMenunggu {
			t.Errorf("expected WAITING, got %s", res.Ticket.Status)
		}
		if res.Poliklinik.Name != "Poli Umum" || res.Dokter.NamaDokter != "dr. Sari" {
			t.Errorf("unexpected receipt data: %+v", res)
		}
		if res.Ticket.Tanggal != svc.HariIni() {
			t.Errorf("expected today's date, got %s", res.Ticket.Tanggal)
		}
	}
}

func TestTerbitkanTiket_Prefix(t *testing.T) {
	svc := newTiketService(seededStore(), 50)
	ctx := context.Background()

	umum, err := svc.TerbitkanTiket(ctx, 10, 100)
	if err != nil {
		t.Fatal(err)
	}
	if umum.Ticket.QueueCode != "A-1" {
		t.Errorf("poli prefix expected A-1, got %s", umum.Ticket.QueueCode)
	}

	gigi, err := svc.TerbitkanTiket(ctx, 20, 101)
	if err != nil {
		t.Fatal(err)
	}
	if gigi.Ticket.QueueCode != "Q-1" {
		t.Errorf("config prefix expected Q-1, got %s", gigi.Ticket.QueueCode)
	}
}

func TestTerbitkanTiket_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		dokter   int64
		pasien   int64
		maxQuota int
		prepare  func(*testing.T, *services.TiketService)
		want     error
	}{
		{name: "unknown doctor", dokter: 99, pasien: 100, maxQuota: 5, want: services.ErrDokterTidakDitemukan},
		{name: "unknown patient", dokter: 10, pasien: 999, maxQuota: 5, want: services.ErrPasienTidakDitemukan},
		{name: "zero quota", dokter: 10, pasien: 100, maxQuota: 0, want: services.ErrKuotaPenuh},
		{
			name: "closed quota", dokter: 10, pasien: 100, maxQuota: 5,
			prepare: func(t *testing.T, s *services.TiketService) {
				if _, err := s.AturKuota(ctx, models.KuotaRequest{DoctorID: 10, Status: models.KuotaTutup}); err != nil {
					t.Fatal(err)
				}
			},
			want: services.ErrKuotaDitutup,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTiketService(seededStore(), tc.maxQuota)
			if tc.prepare != nil {
				tc.prepare(t, svc)
			}
			_, err := svc.TerbitkanTiket(ctx, tc.dokter, tc.pasien)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTerbitkanTiket_KuotaPenuh(t *testing.T) {
	svc := newTiketService(seededStore(), 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.TerbitkanTiket(ctx, 10, 100); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.TerbitkanTiket(ctx, 10, 100); !errors.Is(err, services.ErrKuotaPenuh) {
		t.Fatalf("expected ErrKuotaPenuh, got %v", err)
	}

	kuota, err := svc.DaftarKuota(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(kuota) != 1 || kuota[0].CurrentCount != 2 {
		t.Errorf("rejected ticket must not consume a number: %+v", kuota)
	}
}

func TestTerbitkanTiket_Concurrent(t *testing.T) {
	const n = 20
	st := seededStore()
	svc := newTiketService(st, n)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.TerbitkanTiket(ctx, 10, 100)
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			numbers = append(numbers, res.Ticket.QueueNumber)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Ints(numbers)
	for i, got := range numbers {
		if got != i+1 {
			t.Fatalf("numbers must be 1..%d without gaps, got %v", n, numbers)
		}
	}
}

func TestAturKuota(t *testing.T) {
	svc := newTiketService(seededStore(), 5)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.TerbitkanTiket(ctx, 10, 100); err != nil {
			t.Fatal(err)
		}
	}

	two := 2
	if _, err := svc.AturKuota(ctx, models.KuotaRequest{DoctorID: 10, MaxQuota: &two}); !errors.Is(err, services.ErrKuotaTidakValid) {
		t.Errorf("expected ErrKuotaTidakValid, got %v", err)
	}

	ten := 10
	k, err := svc.AturKuota(ctx, models.KuotaRequest{DoctorID: 10, MaxQuota: &ten})
	if err != nil {
		t.Fatal(err)
	}
	if k.MaxQuota != 10 || k.CurrentCount != 3 || k.Status != models.KuotaBuka {
		t.Errorf("unexpected quota %+v", k)
	}
	if k.NamaDokter != "dr. Sari" {
		t.Errorf("expected doctor name, got %q", k.NamaDokter)
	}

	if _, err := svc.AturKuota(ctx, models.KuotaRequest{DoctorID: 99}); !errors.Is(err, services.ErrDokterTidakDitemukan) {
		t.Errorf("expected ErrDokterTidakDitemukan, got %v", err)
	}
}

func TestResetCacheDokter(t *testing.T) {
	st := seededStore()
	svc := newTiketService(st, 5)
	ctx := context.Background()

	if _, err := svc.TerbitkanTiket(ctx, 20, 100); err != nil {
		t.Fatal(err)
	}
	st.AddPoli(2, "Poli Gigi", "G")
	st.AddDokter(20, 2, "drg. Budi", "SIP-002")

	res, err := svc.TerbitkanTiket(ctx, 20, 101)
	if err != nil {
		t.Fatal(err)
	}
	if res.Ticket.QueueCode != "Q-2" {
		t.Errorf("cached prefix expected Q-2, got %s", res.Ticket.QueueCode)
	}

	svc.ResetCacheDokter()
	res, err = svc.TerbitkanTiket(ctx, 20, 102)
	if err != nil {
		t.Fatal(err)
	}
	if res.Ticket.QueueCode != "G-3" {
		t.Errorf("new prefix expected G-3, got %s", res.Ticket.QueueCode)
	}
}
