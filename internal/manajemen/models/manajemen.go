package models

// PoliklinikRequest dipakai untuk menambah poliklinik baru. KodeAntrian menjadi
// prefix nomor antrian, kosong berarti memakai QUEUE_PREFIX.
type PoliklinikRequest struct {
	NamaPoli    string `json:"nama_poli" validate:"required,max=100"`
	KodeAntrian string `json:"kode_antrian" validate:"omitempty,alpha,max=5"`
}

// UpdatePoliRequest: field nil tidak diubah.
type UpdatePoliRequest struct {
	NamaPoli    *string `json:"nama_poli" validate:"omitempty,max=100"`
	KodeAntrian *string `json:"kode_antrian" validate:"omitempty,max=5"`
}

type DokterRequest struct {
	IDPoli int64  `json:"id_poli" validate:"required,gt=0"`
	Nama   string `json:"nama" validate:"required,max=150"`
	NoSIP  string `json:"no_sip" validate:"max=50"`
}

// LoketRequest mendaftarkan loket pemanggil. IDPoli nil = semua poli.
type LoketRequest struct {
	NamaLoket string `json:"nama_loket" validate:"required,max=50"`
	IDPoli    *int64 `json:"id_poli" validate:"omitempty,gt=0"`
}

type StatusRequest struct {
	Aktif *bool `json:"is_active" validate:"required"`
}
