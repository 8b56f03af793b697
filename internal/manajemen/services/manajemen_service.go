package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/c14220110/poliklinik-antrian/internal/manajemen/models"
	"github.com/c14220110/poliklinik-antrian/pkg/storage/mariadb"
)

var (
	ErrPoliTidakDitemukan  = errors.New("poliklinik tidak ditemukan")
	ErrLoketTidakDitemukan = errors.New("loket tidak ditemukan")
	ErrLoketTerdaftar      = errors.New("nama loket sudah terdaftar")
	ErrKodeAntrian         = errors.New("kode antrian hanya boleh huruf")
)

// ManajemenService mengelola data master yang dipakai antrian: poliklinik
// (beserta kode antriannya), dokter dan loket.
type ManajemenService struct {
	DB *sql.DB
}

func NewManajemenService(db *sql.DB) *ManajemenService {
	return &ManajemenService{DB: db}
}

// normalisasiKode membuat kode antrian huruf besar tanpa spasi.
func normalisasiKode(kode string) (string, error) {
	kode = strings.ToUpper(strings.TrimSpace(kode))
	for _, r := range kode {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return "", fmt.Errorf("%w: %q", ErrKodeAntrian, kode)
		}
	}
	return kode, nil
}

// AddPoliklinik menambahkan Poliklinik aktif baru.
func (s *ManajemenService) AddPoliklinik(ctx context.Context, req models.PoliklinikRequest) (int64, error) {
	kode, err := normalisasiKode(req.KodeAntrian)
	if err != nil {
		return 0, err
	}
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO Poliklinik (nama_poli, kode_antrian, id_status) VALUES (?, ?, 1)",
		strings.TrimSpace(req.NamaPoli), kode)
	if err != nil {
		return 0, fmt.Errorf("gagal menambah poliklinik: %w", err)
	}
	return res.LastInsertId()
}

// UpdatePoliklinik mengubah nama dan/atau kode antrian. Tiket yang sudah
// terbit tidak ikut berubah.
func (s *ManajemenService) UpdatePoliklinik(ctx context.Context, idPoli int64, req models.UpdatePoliRequest) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = lockRow(ctx, tx, "SELECT id_poli FROM Poliklinik WHERE id_poli = ? FOR UPDATE", idPoli, ErrPoliTidakDitemukan); err != nil {
		return err
	}

	sets := []string{}
	params := []interface{}{}
	if req.NamaPoli != nil {
		sets = append(sets, "nama_poli = ?")
		params = append(params, strings.TrimSpace(*req.NamaPoli))
	}
	if req.KodeAntrian != nil {
		var kode string
		if kode, err = normalisasiKode(*req.KodeAntrian); err != nil {
			return err
		}
		sets = append(sets, "kode_antrian = ?")
		params = append(params, kode)
	}
	if len(sets) > 0 {
		params = append(params, idPoli)
		if _, err = tx.ExecContext(ctx, "UPDATE Poliklinik SET "+strings.Join(sets, ", ")+" WHERE id_poli = ?", params...); err != nil {
			return fmt.Errorf("gagal mengupdate Poliklinik: %w", err)
		}
	}
	return tx.Commit()
}

// SetPoliklinikAktif melakukan soft delete (id_status = 0) atau mengaktifkan kembali.
func (s *ManajemenService) SetPoliklinikAktif(ctx context.Context, idPoli int64, aktif bool) error {
	return s.setStatus(ctx, "UPDATE Poliklinik SET id_status = ? WHERE id_poli = ?",
		"SELECT id_poli FROM Poliklinik WHERE id_poli = ?", idPoli, aktif, ErrPoliTidakDitemukan)
}

// AddDokter menambahkan dokter ke poliklinik yang aktif.
func (s *ManajemenService) AddDokter(ctx context.Context, req models.DokterRequest) (int64, error) {
	var aktif int
	err := s.DB.QueryRowContext(ctx, "SELECT id_status FROM Poliklinik WHERE id_poli = ?", req.IDPoli).Scan(&aktif)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && aktif != 1) {
		return 0, ErrPoliTidakDitemukan
	}
	if err != nil {
		return 0, err
	}

	res, err := s.DB.ExecContext(ctx, "INSERT INTO Dokter (id_poli, nama, no_sip) VALUES (?, ?, ?)",
		req.IDPoli, strings.TrimSpace(req.Nama), strings.TrimSpace(req.NoSIP))
	if err != nil {
		return 0, fmt.Errorf("gagal menambah dokter: %w", err)
	}
	return res.LastInsertId()
}

// AddLoket mendaftarkan loket pemanggil baru.
func (s *ManajemenService) AddLoket(ctx context.Context, req models.LoketRequest) (int64, error) {
	var idPoli sql.NullInt64
	if req.IDPoli != nil {
		idPoli = sql.NullInt64{Int64: *req.IDPoli, Valid: true}
	}
	res, err := s.DB.ExecContext(ctx, "INSERT INTO Loket (nama_loket, id_poli, is_active) VALUES (?, ?, 1)",
		strings.TrimSpace(req.NamaLoket), idPoli)
	if err != nil {
		if mariadb.IsDuplicateKey(err) {
			return 0, ErrLoketTerdaftar
		}
		return 0, fmt.Errorf("gagal menambah loket: %w", err)
	}
	return res.LastInsertId()
}

func (s *ManajemenService) SetLoketAktif(ctx context.Context, idLoket int64, aktif bool) error {
	return s.setStatus(ctx, "UPDATE Loket SET is_active = ? WHERE id_loket = ?",
		"SELECT id_loket FROM Loket WHERE id_loket = ?", idLoket, aktif, ErrLoketTidakDitemukan)
}

// setStatus tidak memakai RowsAffected karena MySQL mengembalikan 0 bila
// nilainya tidak berubah; keberadaan baris dicek terpisah.
func (s *ManajemenService) setStatus(ctx context.Context, update, exists string, id int64, aktif bool, notFound error) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = lockRow(ctx, tx, exists+" FOR UPDATE", id, notFound); err != nil {
		return err
	}
	status := 0
	if aktif {
		status = 1
	}
	if _, err = tx.ExecContext(ctx, update, status, id); err != nil {
		return err
	}
	return tx.Commit()
}

func lockRow(ctx context.Context, tx *sql.Tx, query string, id int64, notFound error) error {
	var got int64
	err := tx.QueryRowContext(ctx, query, id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}
