package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
)

// LoketService menangani pemanggilan antrian dari loket.
type LoketService struct {
	store  Store
	loc    *time.Location
	logger zerolog.Logger
	now    func() time.Time
}

func NewLoketService(store Store, loc *time.Location, logger zerolog.Logger) *LoketService {
	if loc == nil {
		loc = time.Local
	}
	return &LoketService{
		store:  store,
		loc:    loc,
		logger: logger.With().Str("service", "loket").Logger(),
		now:    time.Now,
	}
}

func (s *LoketService) hariIni() string {
	return tanggal(s.now(), s.loc)
}

// PanggilBerikutnya mengambil tiket WAITING tertua (opsional per poli) untuk loket.
func (s *LoketService) PanggilBerikutnya(ctx context.Context, namaLoket string, idPoli int64) (*models.HasilPanggilan, error) {
	now := s.now()
	t, err := s.store.ClaimNextWaiting(ctx, ClaimParams{
		Tanggal:     tanggal(now, s.loc),
		IDPoli:      idPoli,
		CounterName: namaLoket,
		Now:         now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("loket", namaLoket).Str("queue_code", t.QueueCode).Msg("Antrian dipanggil")
	return &models.HasilPanggilan{
		Ticket:     *t,
		Poliklinik: models.PoliRingkas{ID: t.IDPoli, Name: t.NamaPoli},
	}, nil
}

// Selesaikan menandai tiket CALLED sebagai SERVED.
func (s *LoketService) Selesaikan(ctx context.Context, id int64) (*models.Antrian, error) {
	return s.transisi(ctx, id, models.StatusDipanggil, models.StatusSelesai)
}

// Lewati memindahkan tiket CALLED ke kolam SKIPPED.
func (s *LoketService) Lewati(ctx context.Context, id int64) (*models.Antrian, error) {
	return s.transisi(ctx, id, models.StatusDipanggil, models.StatusTerlewat)
}

func (s *LoketService) transisi(ctx context.Context, id int64, from, to models.StatusAntrian) (*models.Antrian, error) {
	t, err := s.store.TransitionStatus(ctx, TransitionParams{ID: id, From: from, To: to, Now: s.now()})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("id_antrian", id).Str("status", string(to)).Msg("Status antrian diperbarui")
	return t, nil
}

// PanggilUlangTerlewat memanggil kembali tiket SKIPPED ke loket yang sedang kosong.
func (s *LoketService) PanggilUlangTerlewat(ctx context.Context, id int64, namaLoket string) (*models.HasilPanggilan, error) {
	now := s.now()
	t, err := s.store.RecallSkipped(ctx, RecallParams{
		ID:          id,
		CounterName: namaLoket,
		Tanggal:     tanggal(now, s.loc),
		Now:         now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("loket", namaLoket).Str("queue_code", t.QueueCode).Msg("Antrian terlewat dipanggil ulang")
	return &models.HasilPanggilan{
		Ticket:     *t,
		Poliklinik: models.PoliRingkas{ID: t.IDPoli, Name: t.NamaPoli},
	}, nil
}

// TiketAktif mengembalikan tiket CALLED milik loket, atau nil jika loket kosong.
func (s *LoketService) TiketAktif(ctx context.Context, namaLoket string) (*models.Antrian, error) {
	list, err := s.store.ListAntrian(ctx, ListFilter{
		Tanggal:     s.hariIni(),
		Status:      models.StatusDipanggil,
		CounterName: namaLoket,
	})
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

func (s *LoketService) DaftarMenunggu(ctx context.Context, idPoli int64) ([]models.Antrian, error) {
	return s.store.ListAntrian(ctx, ListFilter{Tanggal: s.hariIni(), Status: models.StatusMenunggu, IDPoli: idPoli})
}

func (s *LoketService) DaftarTerlewat(ctx context.Context, idPoli int64) ([]models.Antrian, error) {
	return s.store.ListAntrian(ctx, ListFilter{Tanggal: s.hariIni(), Status: models.StatusTerlewat, IDPoli: idPoli})
}

// Papan menyusun snapshot layar display: tiket aktif per loket, menunggu, dan terlewat.
func (s *LoketService) Papan(ctx context.Context, idPoli int64) (*models.PapanAntrian, error) {
	hari := s.hariIni()
	dipanggil, err := s.store.ListAntrian(ctx, ListFilter{Tanggal: hari, Status: models.StatusDipanggil, IDPoli: idPoli})
	if err != nil {
		return nil, err
	}
	menunggu, err := s.DaftarMenunggu(ctx, idPoli)
	if err != nil {
		return nil, err
	}
	terlewat, err := s.DaftarTerlewat(ctx, idPoli)
	if err != nil {
		return nil, err
	}

	loket := make([]models.LoketAktif, 0, len(dipanggil))
	for _, t := range dipanggil {
		loket = append(loket, models.LoketAktif{CounterName: t.CounterName, Ticket: t})
	}
	return &models.PapanAntrian{
		Loket:          loket,
		Menunggu:       menunggu,
		Terlewat:       terlewat,
		JumlahMenunggu: len(menunggu),
		JumlahTerlewat: len(terlewat),
		DiperbaruiPada: s.now(),
	}, nil
}
