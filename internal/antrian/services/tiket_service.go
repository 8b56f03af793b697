package services

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
)

const dokterCacheTTL = 10 * time.Minute

type TiketConfig struct {
	Prefix          string
	DefaultMaxQuota int
	CacheSize       int
	Location        *time.Location
}

// TiketService menerbitkan nomor antrian dan mengelola kuota harian dokter.
type TiketService struct {
	store  Store
	cfg    TiketConfig
	dokter *expirable.LRU[int64, models.InfoDokter]
	logger zerolog.Logger
	now    func() time.Time
}

func NewTiketService(store Store, cfg TiketConfig, logger zerolog.Logger) *TiketService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "A"
	}
	return &TiketService{
		store:  store,
		cfg:    cfg,
		dokter: expirable.NewLRU[int64, models.InfoDokter](cfg.CacheSize, nil, dokterCacheTTL),
		logger: logger.With().Str("service", "tiket").Logger(),
		now:    time.Now,
	}
}

// HariIni mengembalikan tanggal operasional (YYYY-MM-DD) pada zona waktu klinik.
func (s *TiketService) HariIni() string {
	return tanggal(s.now(), s.cfg.Location)
}

// InfoDokter mengambil data dokter beserta poliklinik, memakai cache LRU.
func (s *TiketService) InfoDokter(ctx context.Context, idDokter int64) (models.InfoDokter, error) {
	if info, ok := s.dokter.Get(idDokter); ok {
		return info, nil
	}
	info, err := s.store.InfoDokter(ctx, idDokter)
	if err != nil {
		return models.InfoDokter{}, err
	}
	s.dokter.Add(idDokter, *info)
	return *info, nil
}

// ResetCacheDokter membuang cache InfoDokter, dipanggil setelah data
// poliklinik atau dokter diubah supaya prefix baru langsung berlaku.
func (s *TiketService) ResetCacheDokter() {
	s.dokter.Purge()
}

// TerbitkanTiket mengambil nomor berikutnya dari kuota harian dokter.
// Nomor bersifat unik dan berurutan per dokter per hari walaupun dipanggil bersamaan.
func (s *TiketService) TerbitkanTiket(ctx context.Context, idDokter, idPasien int64) (*models.TiketTerbit, error) {
	info, err := s.InfoDokter(ctx, idDokter)
	if err != nil {
		return nil, err
	}
	ada, err := s.store.PasienAda(ctx, idPasien)
	if err != nil {
		return nil, err
	}
	if !ada {
		return nil, ErrPasienTidakDitemukan
	}

	prefix := info.KodeAntrian
	if prefix == "" {
		prefix = s.cfg.Prefix
	}
	now := s.now()
	ticket, err := s.store.ReserveTicket(ctx, ReserveParams{
		IDDokter:        idDokter,
		IDPasien:        idPasien,
		IDPoli:          info.IDPoli,
		Tanggal:         tanggal(now, s.cfg.Location),
		Prefix:          prefix,
		DefaultMaxQuota: s.cfg.DefaultMaxQuota,
		Now:             now,
	})
	if err != nil {
		return nil, err
	}
	ticket.NamaPoli = info.NamaPoli

	s.logger.Info().
		Int64("id_dokter", idDokter).
		Int64("id_pasien", idPasien).
		Str("queue_code", ticket.QueueCode).
		Msg("Tiket antrian diterbitkan")

	return &models.TiketTerbit{
		Ticket:     *ticket,
		Dokter:     info,
		Poliklinik: models.PoliRingkas{ID: info.IDPoli, Name: info.NamaPoli},
	}, nil
}

func (s *TiketService) DaftarKuota(ctx context.Context, tgl string) ([]models.KuotaHarian, error) {
	if tgl == "" {
		tgl = s.HariIni()
	}
	return s.store.ListKuota(ctx, tgl)
}

// AturKuota mengubah max_quota dan/atau status kuota hari ini.
func (s *TiketService) AturKuota(ctx context.Context, req models.KuotaRequest) (*models.KuotaHarian, error) {
	info, err := s.InfoDokter(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	k, err := s.store.SetKuota(ctx, KuotaParams{
		IDDokter:        req.DoctorID,
		Tanggal:         s.HariIni(),
		MaxQuota:        req.MaxQuota,
		Status:          req.Status,
		DefaultMaxQuota: s.cfg.DefaultMaxQuota,
	})
	if err != nil {
		return nil, err
	}
	k.NamaDokter = info.NamaDokter
	s.logger.Info().Int64("id_dokter", req.DoctorID).Int("max_quota", k.MaxQuota).Str("status", k.Status).Msg("Kuota harian diperbarui")
	return k, nil
}
