package services

import (
	"context"
	"database/sql"

	"github.com/c14220110/poliklinik-antrian/internal/administrasi/models"
)

type PoliklinikService struct {
	DB *sql.DB
}

func NewPoliklinikService(db *sql.DB) *PoliklinikService {
	return &PoliklinikService{DB: db}
}

// GetPoliklinikList mengembalikan poliklinik aktif.
func (ps *PoliklinikService) GetPoliklinikList(ctx context.Context) ([]models.Poliklinik, error) {
	query := "SELECT id_poli, nama_poli, kode_antrian FROM Poliklinik WHERE id_status = 1 ORDER BY nama_poli ASC"
	rows, err := ps.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.Poliklinik{}
	for rows.Next() {
		var p models.Poliklinik
		if err := rows.Scan(&p.ID, &p.Nama, &p.KodeAntrian); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// GetDokterList mengembalikan dokter, opsional difilter per poli (idPoli > 0).
func (ps *PoliklinikService) GetDokterList(ctx context.Context, idPoli int64) ([]models.Dokter, error) {
	query := `
		SELECT d.id_dokter, d.id_poli, d.nama, d.no_sip, p.nama_poli
		FROM Dokter d
		JOIN Poliklinik p ON p.id_poli = d.id_poli AND p.id_status = 1
	`
	var args []interface{}
	if idPoli > 0 {
		query += " WHERE d.id_poli = ?"
		args = append(args, idPoli)
	}
	query += " ORDER BY d.nama ASC"

	rows, err := ps.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.Dokter{}
	for rows.Next() {
		var d models.Dokter
		if err := rows.Scan(&d.ID, &d.IDPoli, &d.Nama, &d.NoSIP, &d.NamaPoli); err != nil {
			return nil, err
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

// GetLoketList mengembalikan konfigurasi loket yang aktif.
func (ps *PoliklinikService) GetLoketList(ctx context.Context) ([]models.Loket, error) {
	rows, err := ps.DB.QueryContext(ctx, "SELECT id_loket, nama_loket, id_poli, is_active FROM Loket WHERE is_active = 1 ORDER BY nama_loket ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.Loket{}
	for rows.Next() {
		var l models.Loket
		var idPoli sql.NullInt64
		if err := rows.Scan(&l.ID, &l.Nama, &idPoli, &l.Aktif); err != nil {
			return nil, err
		}
		if idPoli.Valid {
			l.IDPoli = &idPoli.Int64
		}
		results = append(results, l)
	}
	return results, rows.Err()
}
