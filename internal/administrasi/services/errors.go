package services

import "errors"

var (
	ErrLoginGagal           = errors.New("username atau password salah")
	ErrUsernameTerdaftar    = errors.New("username sudah terdaftar")
	ErrNIKTerdaftar         = errors.New("NIK sudah terdaftar")
	ErrPasienTidakDitemukan = errors.New("pasien tidak ditemukan")
)
