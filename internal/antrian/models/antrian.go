package models

import "time"

// StatusAntrian adalah siklus hidup satu tiket: WAITING -> CALLED -> SERVED,
// atau CALLED -> SKIPPED -> CALLED (panggil ulang) -> SERVED.
type StatusAntrian string

const (
	StatusMenunggu  StatusAntrian = "WAITING"
	StatusDipanggil StatusAntrian = "CALLED"
	StatusTerlewat  StatusAntrian = "SKIPPED"
	StatusSelesai   StatusAntrian = "SERVED"
)

// PesanAntrianKosong adalah message 404 dari POST /api/queues/call saat
// tidak ada tiket WAITING. Klien memakainya untuk membedakan 404 lain.
const PesanAntrianKosong = "Tidak ada antrian"

func (s StatusAntrian) Valid() bool {
	switch s {
	case StatusMenunggu, StatusDipanggil, StatusTerlewat, StatusSelesai:
		return true
	}
	return false
}

// Antrian mewakili satu tiket antrian pasien pada kuota harian seorang dokter.
type Antrian struct {
	ID          int64         `json:"id"`
	IDKuota     int64         `json:"id_kuota"`
	IDPasien    int64         `json:"patient_id"`
	IDDokter    int64         `json:"doctor_id"`
	IDPoli      int64         `json:"poli_id"`
	Tanggal     string        `json:"tanggal"` // Format: "2006-01-02"
	QueueNumber int           `json:"queue_number"`
	QueueCode   string        `json:"queue_code"`
	Status      StatusAntrian `json:"status"`
	CounterName string        `json:"counter_name,omitempty"`
	NamaPasien  string        `json:"nama_pasien,omitempty"`
	NamaPoli    string        `json:"nama_poli,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	CalledAt    *time.Time    `json:"called_at,omitempty"`
	SkippedAt   *time.Time    `json:"skipped_at,omitempty"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty"`
}

const (
	KuotaBuka  = "OPEN"
	KuotaTutup = "CLOSED"
)

// KuotaHarian adalah "buku besar" nomor antrian satu dokter pada satu tanggal.
type KuotaHarian struct {
	ID           int64  `json:"id"`
	IDDokter     int64  `json:"doctor_id"`
	NamaDokter   string `json:"nama_dokter,omitempty"`
	Tanggal      string `json:"tanggal"`
	MaxQuota     int    `json:"max_quota"`
	CurrentCount int    `json:"current_count"`
	Status       string `json:"status"`
}

// InfoDokter berisi data dokter dan poliklinik yang dicetak di struk antrian.
type InfoDokter struct {
	IDDokter    int64  `json:"id"`
	NamaDokter  string `json:"nama"`
	NoSIP       string `json:"no_sip"`
	IDPoli      int64  `json:"-"`
	NamaPoli    string `json:"-"`
	KodeAntrian string `json:"-"`
}

type PoliRingkas struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TiketTerbit adalah hasil penerbitan tiket, cukup untuk mencetak struk.
type TiketTerbit struct {
	Ticket     Antrian     `json:"ticket"`
	Dokter     InfoDokter  `json:"dokter"`
	Poliklinik PoliRingkas `json:"poliklinik"`
}

// HasilPanggilan dikembalikan saat loket memanggil antrian berikutnya.
type HasilPanggilan struct {
	Ticket     Antrian     `json:"ticket"`
	Poliklinik PoliRingkas `json:"poliklinik"`
}

// LoketAktif adalah tiket yang sedang dilayani di satu loket.
type LoketAktif struct {
	CounterName string  `json:"counter_name"`
	Ticket      Antrian `json:"ticket"`
}

// PapanAntrian adalah snapshot untuk layar display / dashboard.
type PapanAntrian struct {
	Loket          []LoketAktif `json:"loket"`
	Menunggu       []Antrian    `json:"menunggu"`
	Terlewat       []Antrian    `json:"terlewat"`
	JumlahMenunggu int          `json:"jumlah_menunggu"`
	JumlahTerlewat int          `json:"jumlah_terlewat"`
	DiperbaruiPada time.Time    `json:"diperbarui_pada"`
}

// AntrianUpdate adalah payload event "antrian_update" untuk websocket dan AMQP.
type AntrianUpdate struct {
	IDAntrian   int64         `json:"id_antrian"`
	QueueCode   string        `json:"queue_code"`
	Status      StatusAntrian `json:"status"`
	CounterName string        `json:"counter_name,omitempty"`
	IDPoli      int64         `json:"id_poli"`
}

func (a Antrian) Update() AntrianUpdate {
	return AntrianUpdate{
		IDAntrian:   a.ID,
		QueueCode:   a.QueueCode,
		Status:      a.Status,
		CounterName: a.CounterName,
		IDPoli:      a.IDPoli,
	}
}
