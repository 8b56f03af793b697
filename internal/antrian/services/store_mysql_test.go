package services_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
	"github.com/c14220110/poliklinik-antrian/internal/antrian/services"
)

const hari = "2026-10-19"

var jamBuka = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

func newMockStore(t *testing.T) (*services.MySQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return services.NewMySQLStore(db), mock
}

func q(sql string) string { return regexp.QuoteMeta(sql) }

func kuotaRows(current, maxQuota int, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id_kuota", "id_dokter", "tanggal", "max_quota", "current_count", "status"}).
		AddRow(int64(3), int64(10), hari, maxQuota, current, status)
}

func antrianRows(id int64, status models.StatusAntrian, counter string, calledAt interface{}) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id_antrian", "id_kuota", "id_pasien", "id_dokter", "id_poli", "tanggal", "queue_number", "queue_code",
		"status", "counter_name", "nama", "nama_poli", "created_at", "called_at", "skipped_at", "finished_at",
	}).AddRow(id, int64(3), int64(100), int64(10), int64(1), hari, 5, "A-5",
		string(status), counter, "Ani", "Poli Umum", jamBuka, calledAt, nil, nil)
}

func expectLockKuota(mock sqlmock.Sqlmock, rows *sqlmock.Rows) {
	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO Kuota_Harian") + ".*" + q("ON DUPLICATE KEY UPDATE")).
		WithArgs(int64(10), hari, 50, models.KuotaBuka).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(q("FROM Kuota_Harian WHERE id_dokter = ? AND tanggal = ? FOR UPDATE")).
		WithArgs(int64(10), hari).
		WillReturnRows(rows)
}

func reserveParams() services.ReserveParams {
	return services.ReserveParams{
		IDDokter: 10, IDPasien: 100, IDPoli: 1, Tanggal: hari,
		Prefix: "A", DefaultMaxQuota: 50, Now: jamBuka,
	}
}

func TestMySQLStore_ReserveTicket(t *testing.T) {
	st, mock := newMockStore(t)
	expectLockKuota(mock, kuotaRows(4, 50, models.KuotaBuka))
	mock.ExpectExec(q("INSERT INTO Antrian (id_kuota, id_pasien, id_dokter, id_poli, tanggal, queue_number, queue_code, status, created_at)")).
		WithArgs(int64(3), int64(100), int64(10), int64(1), hari, 5, "A-5", "WAITING", jamBuka).
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectExec(q("UPDATE Kuota_Harian SET current_count = ? WHERE id_kuota = ?")).
		WithArgs(5, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	a, err := st.ReserveTicket(context.Background(), reserveParams())
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != 77 || a.QueueNumber != 5 || a.QueueCode != "A-5" || a.Status != models.StatusMenunggu {
		t.Errorf("unexpected ticket %+v", a)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestMySQLStore_ReserveTicketDitolak(t *testing.T) {
	tests := []struct {
		name string
		rows *sqlmock.Rows
		want error
	}{
		{name: "quota full", rows: kuotaRows(50, 50, models.KuotaBuka), want: services.ErrKuotaPenuh},
		{name: "quota closed", rows: kuotaRows(2, 50, models.KuotaTutup), want: services.ErrKuotaDitutup},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st, mock := newMockStore(t)
			expectLockKuota(mock, tc.rows)
			// tidak ada INSERT Antrian maupun UPDATE Kuota_Harian setelah penolakan
			mock.ExpectRollback()

			if _, err := st.ReserveTicket(context.Background(), reserveParams()); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

const cekSibuk = "SELECT id_antrian FROM Antrian WHERE tanggal = ? AND counter_name = ? AND status = ? LIMIT 1 FOR UPDATE"

func TestMySQLStore_ClaimNextWaiting(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q(cekSibuk)).
		WithArgs(hari, "Loket 1", "CALLED").
		WillReturnRows(sqlmock.NewRows([]string{"id_antrian"}))
	mock.ExpectQuery(q("WHERE tanggal = ? AND status = ? AND id_poli = ? ORDER BY created_at, id_antrian LIMIT 1 FOR UPDATE SKIP LOCKED")).
		WithArgs(hari, "WAITING", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id_antrian"}).AddRow(int64(9)))
	mock.ExpectExec(q("UPDATE Antrian SET status = ?, counter_name = ?, called_at = ? WHERE id_antrian = ?")).
		WithArgs("CALLED", "Loket 1", jamBuka, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(q("WHERE a.id_antrian = ?")).
		WithArgs(int64(9)).
		WillReturnRows(antrianRows(9, models.StatusDipanggil, "Loket 1", jamBuka))

	a, err := st.ClaimNextWaiting(context.Background(), services.ClaimParams{
		Tanggal: hari, IDPoli: 1, CounterName: "Loket 1", Now: jamBuka,
	})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != 9 || a.Status != models.StatusDipanggil || a.CounterName != "Loket 1" {
		t.Errorf("unexpected ticket %+v", a)
	}
	if a.CalledAt == nil || !a.CalledAt.Equal(jamBuka) || a.SkippedAt != nil || a.FinishedAt != nil {
		t.Errorf("unexpected timestamps %+v", a)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestMySQLStore_ClaimNextWaitingDitolak(t *testing.T) {
	t.Run("counter busy", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectQuery(q(cekSibuk)).
			WithArgs(hari, "Loket 1", "CALLED").
			WillReturnRows(sqlmock.NewRows([]string{"id_antrian"}).AddRow(int64(4)))
		mock.ExpectRollback()

		_, err := st.ClaimNextWaiting(context.Background(), services.ClaimParams{Tanggal: hari, CounterName: "Loket 1", Now: jamBuka})
		if !errors.Is(err, services.ErrLoketSibuk) {
			t.Fatalf("expected ErrLoketSibuk, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("empty queue", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectQuery(q(cekSibuk)).
			WithArgs(hari, "Loket 1", "CALLED").
			WillReturnRows(sqlmock.NewRows([]string{"id_antrian"}))
		mock.ExpectQuery(q("WHERE tanggal = ? AND status = ? ORDER BY created_at, id_antrian LIMIT 1 FOR UPDATE SKIP LOCKED")).
			WithArgs(hari, "WAITING").
			WillReturnRows(sqlmock.NewRows([]string{"id_antrian"}))
		mock.ExpectRollback()

		_, err := st.ClaimNextWaiting(context.Background(), services.ClaimParams{Tanggal: hari, CounterName: "Loket 1", Now: jamBuka})
		if !errors.Is(err, services.ErrAntrianKosong) {
			t.Fatalf("expected ErrAntrianKosong, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestMySQLStore_TransitionStatusGagal(t *testing.T) {
	tests := []struct {
		name string
		rows *sqlmock.Rows
		want error
	}{
		{name: "wrong status", rows: antrianRows(9, models.StatusMenunggu, "", nil), want: services.ErrStatusTidakValid},
		{name: "unknown ticket", rows: sqlmock.NewRows([]string{"id_antrian"}), want: services.ErrAntrianTidakDitemukan},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st, mock := newMockStore(t)
			mock.ExpectExec(q("UPDATE Antrian SET status = ?, finished_at = ? WHERE id_antrian = ? AND status = ?")).
				WithArgs("SERVED", jamBuka, int64(9), "CALLED").
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery(q("WHERE a.id_antrian = ?")).
				WithArgs(int64(9)).
				WillReturnRows(tc.rows)

			_, err := st.TransitionStatus(context.Background(), services.TransitionParams{
				ID: 9, From: models.StatusDipanggil, To: models.StatusSelesai, Now: jamBuka,
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestMySQLStore_RecallSkippedLoketSibuk(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q(cekSibuk)).
		WithArgs(hari, "Loket 1", "CALLED").
		WillReturnRows(sqlmock.NewRows([]string{"id_antrian"}).AddRow(int64(4)))
	mock.ExpectRollback()

	_, err := st.RecallSkipped(context.Background(), services.RecallParams{ID: 9, CounterName: "Loket 1", Tanggal: hari, Now: jamBuka})
	if !errors.Is(err, services.ErrLoketSibuk) {
		t.Fatalf("expected ErrLoketSibuk, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
