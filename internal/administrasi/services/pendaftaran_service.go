package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/c14220110/poliklinik-antrian/internal/administrasi/models"
	"github.com/c14220110/poliklinik-antrian/pkg/storage/mariadb"
)

type PendaftaranService struct {
	DB  *sql.DB
	loc *time.Location
}

func NewPendaftaranService(db *sql.DB, loc *time.Location) *PendaftaranService {
	if loc == nil {
		loc = time.Local
	}
	return &PendaftaranService{DB: db, loc: loc}
}

// FormatNoRM menyusun nomor rekam medis RM-YYYYMMDD-<id 5 digit>.
func FormatNoRM(tanggal time.Time, idPasien int64) string {
	return fmt.Sprintf("RM-%s-%05d", tanggal.Format("20060102"), idPasien)
}

func nullable(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

// CreatePasien menyimpan pasien baru. NIK yang sudah ada menghasilkan ErrNIKTerdaftar.
func (s *PendaftaranService) CreatePasien(ctx context.Context, req models.PasienRequest) (*models.Pasien, error) {
	// Cek apakah NIK sudah ada di database
	var existingID int64
	err := s.DB.QueryRowContext(ctx, "SELECT id_pasien FROM Pasien WHERE nik = ?", req.NIK).Scan(&existingID)
	if err == nil {
		return nil, ErrNIKTerdaftar
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().In(s.loc)
	result, err := tx.ExecContext(ctx, `
		INSERT INTO Pasien (nama, nik, tanggal_lahir, jenis_kelamin, alamat, no_telp, alergi, no_bpjs, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, req.Nama, req.NIK, req.TanggalLahir, req.JenisKelamin, req.Alamat,
		nullable(req.NoTelp), nullable(req.Alergi), nullable(req.NoBPJS), now)
	// UNIQUE KEY menangkap pendaftaran NIK yang sama secara bersamaan.
	if mariadb.IsDuplicateKey(err) {
		return nil, ErrNIKTerdaftar
	}
	if err != nil {
		return nil, fmt.Errorf("gagal menyimpan pasien: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	noRM := FormatNoRM(now, id)
	if _, err := tx.ExecContext(ctx, "UPDATE Pasien SET no_rm = ? WHERE id_pasien = ?", noRM, id); err != nil {
		return nil, fmt.Errorf("gagal menyimpan no_rm: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.Pasien{
		ID:           id,
		Nama:         req.Nama,
		NIK:          req.NIK,
		NoRM:         noRM,
		TanggalLahir: req.TanggalLahir,
		JenisKelamin: req.JenisKelamin,
		Alamat:       req.Alamat,
		NoTelp:       req.NoTelp,
		Alergi:       req.Alergi,
		NoBPJS:       req.NoBPJS,
		CreatedAt:    now,
	}, nil
}

const selectPasien = `
	SELECT id_pasien, nama, nik, IFNULL(no_rm, ''), DATE_FORMAT(tanggal_lahir, '%Y-%m-%d'), jenis_kelamin,
	       alamat, IFNULL(no_telp, ''), IFNULL(alergi, ''), IFNULL(no_bpjs, ''), created_at
	FROM Pasien
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPasien(row rowScanner) (*models.Pasien, error) {
	var p models.Pasien
	err := row.Scan(&p.ID, &p.Nama, &p.NIK, &p.NoRM, &p.TanggalLahir, &p.JenisKelamin,
		&p.Alamat, &p.NoTelp, &p.Alergi, &p.NoBPJS, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPasienByNIK dipakai petugas pendaftaran untuk pasien lama.
func (s *PendaftaranService) GetPasienByNIK(ctx context.Context, nik string) (*models.Pasien, error) {
	p, err := scanPasien(s.DB.QueryRowContext(ctx, selectPasien+" WHERE nik = ?", nik))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPasienTidakDitemukan
	}
	return p, err
}

// ListPasien mencari pasien berdasarkan nama atau no_rm, terbaru lebih dulu.
func (s *PendaftaranService) ListPasien(ctx context.Context, cari string, limit int) ([]models.Pasien, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := selectPasien
	var args []interface{}
	if cari = strings.TrimSpace(cari); cari != "" {
		query += " WHERE nama LIKE ? OR no_rm = ?"
		args = append(args, "%"+cari+"%", cari)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Pasien{}
	for rows.Next() {
		p, err := scanPasien(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}
