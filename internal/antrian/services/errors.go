package services

import "errors"

var (
	ErrKuotaPenuh            = errors.New("kuota antrian dokter hari ini sudah penuh")
	ErrKuotaDitutup          = errors.New("kuota antrian dokter hari ini ditutup")
	ErrKuotaTidakValid       = errors.New("max_quota tidak boleh lebih kecil dari jumlah tiket yang sudah terbit")
	ErrAntrianKosong         = errors.New("tidak ada antrian yang menunggu")
	ErrAntrianTidakDitemukan = errors.New("antrian tidak ditemukan")
	ErrStatusTidakValid      = errors.New("status antrian tidak sesuai untuk aksi ini")
	ErrLoketSibuk            = errors.New("loket masih melayani antrian lain")
	ErrDokterTidakDitemukan  = errors.New("dokter tidak ditemukan")
	ErrPasienTidakDitemukan  = errors.New("pasien tidak ditemukan")
)
