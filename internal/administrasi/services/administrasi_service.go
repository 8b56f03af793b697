package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/c14220110/poliklinik-antrian/internal/administrasi/models"
	"github.com/c14220110/poliklinik-antrian/pkg/storage/mariadb"
	"github.com/c14220110/poliklinik-antrian/pkg/utils"
)

type AdministrasiService struct {
	DB        *sql.DB
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAdministrasiService(db *sql.DB, jwtSecret string, jwtTTL time.Duration) *AdministrasiService {
	return &AdministrasiService{DB: db, jwtSecret: jwtSecret, jwtTTL: jwtTTL}
}

// Login memverifikasi password karyawan lalu menerbitkan token JWT.
func (s *AdministrasiService) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	var k models.Karyawan
	query := `
		SELECT id_karyawan, nama, username, password, role, created_at
		FROM Karyawan
		WHERE username = ?
	`
	err := s.DB.QueryRowContext(ctx, query, username).Scan(&k.ID, &k.Nama, &k.Username, &k.Password, &k.Role, &k.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLoginGagal
	}
	if err != nil {
		return nil, err
	}
	return IssueLogin(k, password, s.jwtSecret, time.Now().Add(s.jwtTTL))
}

// IssueLogin membandingkan password dengan hash bcrypt milik k dan membuat token.
func IssueLogin(k models.Karyawan, password, secret string, exp time.Time) (*models.LoginResponse, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(k.Password), []byte(password)); err != nil {
		return nil, ErrLoginGagal
	}
	token, err := utils.GenerateJWTToken(secret, k.ID, k.Username, k.Role, exp)
	if err != nil {
		return nil, fmt.Errorf("gagal membuat token: %w", err)
	}
	k.Password = ""
	return &models.LoginResponse{Token: token, ExpiresAt: exp, Karyawan: k}, nil
}

// HashPassword meng-hash password dengan bcrypt cost default.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CreateKaryawan membuat akun karyawan baru dengan password ter-hash.
func (s *AdministrasiService) CreateKaryawan(ctx context.Context, req models.CreateKaryawanRequest) (int64, error) {
	hashed, err := HashPassword(req.Password)
	if err != nil {
		return 0, err
	}
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO Karyawan (nama, username, password, role) VALUES (?, ?, ?, ?)",
		req.Nama, req.Username, hashed, req.Role,
	)
	if mariadb.IsDuplicateKey(err) {
		return 0, ErrUsernameTerdaftar
	}
	if err != nil {
		return 0, fmt.Errorf("gagal membuat karyawan: %w", err)
	}
	return res.LastInsertId()
}
