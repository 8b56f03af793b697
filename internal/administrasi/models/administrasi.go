package models

import "time"

// Karyawan adalah petugas yang boleh login: admin, pendaftaran, loket, farmasi.
type Karyawan struct {
	ID        int64     `json:"id_karyawan"`
	Nama      string    `json:"nama"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Karyawan  Karyawan  `json:"karyawan"`
}

// CreateKaryawanRequest merupakan struktur request untuk pembuatan karyawan baru.
type CreateKaryawanRequest struct {
	Nama     string `json:"nama" validate:"required,max=150"`
	Username string `json:"username" validate:"required,alphanum,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin pendaftaran loket farmasi"`
}
