package services

import (
	"context"
	"fmt"
	"time"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
)

// Store adalah penyimpanan antrian. Implementasi wajib menjamin ReserveTicket,
// ClaimNextWaiting dan RecallSkipped atomik terhadap pemanggil lain yang
// berjalan bersamaan (satu transaksi atau kunci baris).
type Store interface {
	InfoDokter(ctx context.Context, idDokter int64) (*models.InfoDokter, error)
	PasienAda(ctx context.Context, idPasien int64) (bool, error)

	ReserveTicket(ctx context.Context, p ReserveParams) (*models.Antrian, error)
	ClaimNextWaiting(ctx context.Context, p ClaimParams) (*models.Antrian, error)
	TransitionStatus(ctx context.Context, p TransitionParams) (*models.Antrian, error)
	RecallSkipped(ctx context.Context, p RecallParams) (*models.Antrian, error)
	ListAntrian(ctx context.Context, f ListFilter) ([]models.Antrian, error)

	ListKuota(ctx context.Context, tanggal string) ([]models.KuotaHarian, error)
	SetKuota(ctx context.Context, p KuotaParams) (*models.KuotaHarian, error)
}

type ReserveParams struct {
	IDDokter        int64
	IDPasien        int64
	IDPoli          int64
	Tanggal         string
	Prefix          string
	DefaultMaxQuota int
	Now             time.Time
}

type ClaimParams struct {
	Tanggal     string
	IDPoli      int64 // 0 = semua poli
	CounterName string
	Now         time.Time
}

type TransitionParams struct {
	ID   int64
	From models.StatusAntrian
	To   models.StatusAntrian
	Now  time.Time
}

type RecallParams struct {
	ID          int64
	CounterName string
	Tanggal     string
	Now         time.Time
}

type ListFilter struct {
	Tanggal     string
	Status      models.StatusAntrian
	IDPoli      int64
	CounterName string
}

type KuotaParams struct {
	IDDokter        int64
	Tanggal         string
	MaxQuota        *int
	Status          string
	DefaultMaxQuota int
}

// FormatKodeAntrian menghasilkan kode tampilan, misalnya "A-7".
func FormatKodeAntrian(prefix string, nomor int) string {
	return fmt.Sprintf("%s-%d", prefix, nomor)
}

func tanggal(now time.Time, loc *time.Location) string {
	return now.In(loc).Format("2006-01-02")
}
