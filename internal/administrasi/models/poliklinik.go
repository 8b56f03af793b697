package models

type Poliklinik struct {
	ID          int64  `json:"id_poli"`
	Nama        string `json:"nama_poli"`
	KodeAntrian string `json:"kode_antrian"`
}

type Dokter struct {
	ID       int64  `json:"id_dokter"`
	IDPoli   int64  `json:"id_poli"`
	Nama     string `json:"nama"`
	NoSIP    string `json:"no_sip"`
	NamaPoli string `json:"nama_poli"`
}

// Loket adalah konfigurasi loket pemanggil. IDPoli nil berarti melayani semua poli.
type Loket struct {
	ID     int64  `json:"id_loket"`
	Nama   string `json:"nama_loket"`
	IDPoli *int64 `json:"id_poli"`
	Aktif  bool   `json:"is_active"`
}
