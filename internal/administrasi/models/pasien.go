package models

import "time"

// Pasien mewakili data pasien.
type Pasien struct {
	ID           int64     `json:"id"`
	Nama         string    `json:"nama"`
	NIK          string    `json:"nik"`
	NoRM         string    `json:"no_rm"`
	TanggalLahir string    `json:"tanggal_lahir"` // Format: "2006-01-02"
	JenisKelamin string    `json:"jenis_kelamin"`
	Alamat       string    `json:"alamat,omitempty"`
	NoTelp       string    `json:"no_telp,omitempty"`
	Alergi       string    `json:"alergi,omitempty"`
	NoBPJS       string    `json:"no_bpjs,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PasienRequest defines payload untuk pendaftaran pasien baru.
type PasienRequest struct {
	Nama         string `json:"nama" validate:"required,max=150"`
	NIK          string `json:"nik" validate:"required,len=16,numeric"`
	TanggalLahir string `json:"tanggal_lahir" validate:"required,datetime=2006-01-02"`
	JenisKelamin string `json:"jenis_kelamin" validate:"required,oneof=L P"`
	Alamat       string `json:"alamat" validate:"max=255"`
	NoTelp       string `json:"no_telp" validate:"omitempty,max=20"`
	Alergi       string `json:"alergi" validate:"max=255"`
	NoBPJS       string `json:"no_bpjs" validate:"omitempty,numeric,max=20"`
}

// RegisterPasienRequest mendaftarkan pasien sekaligus mengambil nomor antrian dokter.
type RegisterPasienRequest struct {
	PasienRequest
	DoctorID int64 `json:"doctor_id" validate:"required,gt=0"`
}
