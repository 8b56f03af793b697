package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
)

// MySQLStore menyimpan antrian di MariaDB. Penomoran dan pemanggilan
// dikunci pada level baris (SELECT ... FOR UPDATE).
type MySQLStore struct {
	DB *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{DB: db}
}

const selectAntrian = `
	SELECT a.id_antrian, a.id_kuota, a.id_pasien, a.id_dokter, a.id_poli,
	       DATE_FORMAT(a.tanggal, '%Y-%m-%d'), a.queue_number, a.queue_code, a.status,
	       IFNULL(a.counter_name, ''), IFNULL(p.nama, ''), IFNULL(pl.nama_poli, ''),
	       a.created_at, a.called_at, a.skipped_at, a.finished_at
	FROM Antrian a
	LEFT JOIN Pasien p ON p.id_pasien = a.id_pasien
	LEFT JOIN Poliklinik pl ON pl.id_poli = a.id_poli
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAntrian(row rowScanner) (*models.Antrian, error) {
	var a models.Antrian
	var status string
	var calledAt, skippedAt, finishedAt sql.NullTime
	err := row.Scan(
		&a.ID, &a.IDKuota, &a.IDPasien, &a.IDDokter, &a.IDPoli,
		&a.Tanggal, &a.QueueNumber, &a.QueueCode, &status,
		&a.CounterName, &a.NamaPasien, &a.NamaPoli,
		&a.CreatedAt, &calledAt, &skippedAt, &finishedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = models.StatusAntrian(status)
	if calledAt.Valid {
		a.CalledAt = &calledAt.Time
	}
	if skippedAt.Valid {
		a.SkippedAt = &skippedAt.Time
	}
	if finishedAt.Valid {
		a.FinishedAt = &finishedAt.Time
	}
	return &a, nil
}

func (s *MySQLStore) getByID(ctx context.Context, id int64) (*models.Antrian, error) {
	a, err := scanAntrian(s.DB.QueryRowContext(ctx, selectAntrian+" WHERE a.id_antrian = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAntrianTidakDitemukan
	}
	if err != nil {
		return nil, fmt.Errorf("gagal mengambil antrian %d: %w", id, err)
	}
	return a, nil
}

func (s *MySQLStore) InfoDokter(ctx context.Context, idDokter int64) (*models.InfoDokter, error) {
	query := `
		SELECT d.id_dokter, d.nama, d.no_sip, d.id_poli, p.nama_poli, p.kode_antrian
		FROM Dokter d
		JOIN Poliklinik p ON p.id_poli = d.id_poli AND p.id_status = 1
		WHERE d.id_dokter = ?
	`
	var info models.InfoDokter
	err := s.DB.QueryRowContext(ctx, query, idDokter).Scan(
		&info.IDDokter, &info.NamaDokter, &info.NoSIP, &info.IDPoli, &info.NamaPoli, &info.KodeAntrian,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDokterTidakDitemukan
	}
	if err != nil {
		return nil, fmt.Errorf("gagal mengambil data dokter: %w", err)
	}
	return &info, nil
}

func (s *MySQLStore) PasienAda(ctx context.Context, idPasien int64) (bool, error) {
	var one int
	err := s.DB.QueryRowContext(ctx, "SELECT 1 FROM Pasien WHERE id_pasien = ?", idPasien).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// lockKuota memastikan baris kuota hari ini ada lalu menguncinya untuk transaksi tx.
func lockKuota(ctx context.Context, tx *sql.Tx, idDokter int64, tanggal string, defaultMax int) (*models.KuotaHarian, error) {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO Kuota_Harian (id_dokter, tanggal, max_quota, current_count, status)
		VALUES (?, ?, ?, 0, ?)
		ON DUPLICATE KEY UPDATE id_kuota = id_kuota
	`, idDokter, tanggal, defaultMax, models.KuotaBuka)
	if err != nil {
		return nil, fmt.Errorf("gagal menyiapkan kuota harian: %w", err)
	}

	var k models.KuotaHarian
	err = tx.QueryRowContext(ctx, `
		SELECT id_kuota, id_dokter, DATE_FORMAT(tanggal, '%Y-%m-%d'), max_quota, current_count, status
		FROM Kuota_Harian
		WHERE id_dokter = ? AND tanggal = ?
		FOR UPDATE
	`, idDokter, tanggal).Scan(&k.ID, &k.IDDokter, &k.Tanggal, &k.MaxQuota, &k.CurrentCount, &k.Status)
	if err != nil {
		return nil, fmt.Errorf("gagal mengunci kuota harian: %w", err)
	}
	return &k, nil
}

func (s *MySQLStore) ReserveTicket(ctx context.Context, p ReserveParams) (*models.Antrian, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	k, err := lockKuota(ctx, tx, p.IDDokter, p.Tanggal, p.DefaultMaxQuota)
	if err != nil {
		return nil, err
	}
	if k.Status != models.KuotaBuka {
		return nil, ErrKuotaDitutup
	}
	next := k.CurrentCount + 1
	if next > k.MaxQuota {
		return nil, ErrKuotaPenuh
	}

	a := models.Antrian{
		IDKuota:     k.ID,
		IDPasien:    p.IDPasien,
		IDDokter:    p.IDDokter,
		IDPoli:      p.IDPoli,
		Tanggal:     p.Tanggal,
		QueueNumber: next,
		QueueCode:   FormatKodeAntrian(p.Prefix, next),
		Status:      models.StatusMenunggu,
		CreatedAt:   p.Now,
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO Antrian (id_kuota, id_pasien, id_dokter, id_poli, tanggal, queue_number, queue_code, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.IDKuota, a.IDPasien, a.IDDokter, a.IDPoli, a.Tanggal, a.QueueNumber, a.QueueCode, string(a.Status), a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("gagal menyimpan antrian: %w", err)
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, "UPDATE Kuota_Harian SET current_count = ? WHERE id_kuota = ?", next, k.ID); err != nil {
		return nil, fmt.Errorf("gagal memperbarui kuota harian: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &a, nil
}

// cekLoketSibuk mengunci tiket CALLED milik loket (bila ada) dan menolak
// pemanggilan baru selama tiket itu belum ditutup.
func cekLoketSibuk(ctx context.Context, tx *sql.Tx, tanggal, loket string) error {
	var busy int64
	err := tx.QueryRowContext(ctx,
		"SELECT id_antrian FROM Antrian WHERE tanggal = ? AND counter_name = ? AND status = ? LIMIT 1 FOR UPDATE",
		tanggal, loket, string(models.StatusDipanggil),
	).Scan(&busy)
	switch {
	case err == nil:
		return ErrLoketSibuk
	case errors.Is(err, sql.ErrNoRows):
		return nil
	default:
		return fmt.Errorf("gagal memeriksa loket: %w", err)
	}
}

func (s *MySQLStore) ClaimNextWaiting(ctx context.Context, p ClaimParams) (*models.Antrian, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := cekLoketSibuk(ctx, tx, p.Tanggal, p.CounterName); err != nil {
		return nil, err
	}

	query := "SELECT id_antrian FROM Antrian WHERE tanggal = ? AND status = ?"
	args := []interface{}{p.Tanggal, string(models.StatusMenunggu)}
	if p.IDPoli > 0 {
		query += " AND id_poli = ?"
		args = append(args, p.IDPoli)
	}
	// SKIP LOCKED: dua loket yang memanggil bersamaan tidak akan mendapat tiket yang sama.
	query += " ORDER BY created_at, id_antrian LIMIT 1 FOR UPDATE SKIP LOCKED"

	var id int64
	err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAntrianKosong
	}
	if err != nil {
		return nil, fmt.Errorf("gagal mencari antrian berikutnya: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE Antrian SET status = ?, counter_name = ?, called_at = ? WHERE id_antrian = ?",
		string(models.StatusDipanggil), p.CounterName, p.Now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("gagal memanggil antrian: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.getByID(ctx, id)
}

func kolomWaktu(status models.StatusAntrian) string {
	switch status {
	case models.StatusDipanggil:
		return "called_at"
	case models.StatusTerlewat:
		return "skipped_at"
	default:
		return "finished_at"
	}
}

// explainMissing membedakan tiket yang tidak ada dengan tiket yang statusnya salah.
func (s *MySQLStore) explainMissing(ctx context.Context, id int64) error {
	if _, err := s.getByID(ctx, id); err != nil {
		return err
	}
	return ErrStatusTidakValid
}

func (s *MySQLStore) TransitionStatus(ctx context.Context, p TransitionParams) (*models.Antrian, error) {
	query := "UPDATE Antrian SET status = ?, " + kolomWaktu(p.To) + " = ? WHERE id_antrian = ? AND status = ?"
	res, err := s.DB.ExecContext(ctx, query, string(p.To), p.Now, p.ID, string(p.From))
	if err != nil {
		return nil, fmt.Errorf("gagal mengubah status antrian: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, s.explainMissing(ctx, p.ID)
	}
	return s.getByID(ctx, p.ID)
}

func (s *MySQLStore) RecallSkipped(ctx context.Context, p RecallParams) (*models.Antrian, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := cekLoketSibuk(ctx, tx, p.Tanggal, p.CounterName); err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE Antrian SET status = ?, counter_name = ?, called_at = ? WHERE id_antrian = ? AND status = ?",
		string(models.StatusDipanggil), p.CounterName, p.Now, p.ID, string(models.StatusTerlewat),
	)
	if err != nil {
		return nil, fmt.Errorf("gagal memanggil ulang antrian: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, s.explainMissing(ctx, p.ID)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.getByID(ctx, p.ID)
}

func (s *MySQLStore) ListAntrian(ctx context.Context, f ListFilter) ([]models.Antrian, error) {
	conds := []string{"a.tanggal = ?", "a.status = ?"}
	args := []interface{}{f.Tanggal, string(f.Status)}
	if f.IDPoli > 0 {
		conds = append(conds, "a.id_poli = ?")
		args = append(args, f.IDPoli)
	}
	if f.CounterName != "" {
		conds = append(conds, "a.counter_name = ?")
		args = append(args, f.CounterName)
	}

	order := "a.created_at, a.id_antrian"
	switch f.Status {
	case models.StatusTerlewat:
		order = "a.skipped_at, a.id_antrian"
	case models.StatusDipanggil:
		order = "a.counter_name, a.called_at"
	}

	query := selectAntrian + " WHERE " + strings.Join(conds, " AND ") + " ORDER BY " + order
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("gagal mengambil daftar antrian: %w", err)
	}
	defer rows.Close()

	list := []models.Antrian{}
	for rows.Next() {
		a, err := scanAntrian(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

func (s *MySQLStore) ListKuota(ctx context.Context, tanggal string) ([]models.KuotaHarian, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT k.id_kuota, k.id_dokter, d.nama, DATE_FORMAT(k.tanggal, '%Y-%m-%d'), k.max_quota, k.current_count, k.status
		FROM Kuota_Harian k
		JOIN Dokter d ON d.id_dokter = k.id_dokter
		WHERE k.tanggal = ?
		ORDER BY d.nama
	`, tanggal)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.KuotaHarian{}
	for rows.Next() {
		var k models.KuotaHarian
		if err := rows.Scan(&k.ID, &k.IDDokter, &k.NamaDokter, &k.Tanggal, &k.MaxQuota, &k.CurrentCount, &k.Status); err != nil {
			return nil, err
		}
		list = append(list, k)
	}
	return list, rows.Err()
}

func (s *MySQLStore) SetKuota(ctx context.Context, p KuotaParams) (*models.KuotaHarian, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	k, err := lockKuota(ctx, tx, p.IDDokter, p.Tanggal, p.DefaultMaxQuota)
	if err != nil {
		return nil, err
	}
	if p.MaxQuota != nil {
		if *p.MaxQuota < k.CurrentCount {
			return nil, ErrKuotaTidakValid
		}
		k.MaxQuota = *p.MaxQuota
	}
	if p.Status != "" {
		k.Status = p.Status
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE Kuota_Harian SET max_quota = ?, status = ? WHERE id_kuota = ?",
		k.MaxQuota, k.Status, k.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("gagal memperbarui kuota: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return k, nil
}
