package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/poliklinik-antrian/internal/administrasi/models"
	"github.com/c14220110/poliklinik-antrian/internal/administrasi/services"
)

type AdministrasiController struct {
	Service *services.AdministrasiService
}

func NewAdministrasiController(service *services.AdministrasiService) *AdministrasiController {
	return &AdministrasiController{Service: service}
}

// Login menangani POST /api/auth/login untuk semua karyawan.
func (ac *AdministrasiController) Login(c echo.Context) error {
	var req models.LoginRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	result, err := ac.Service.Login(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, services.ErrLoginGagal) {
		return respond(c, http.StatusUnauthorized, "Invalid username or password", nil)
	}
	if err != nil {
		c.Logger().Error(err)
		return respond(c, http.StatusInternalServerError, "Gagal login", nil)
	}
	return respond(c, http.StatusOK, "Login successful", result)
}

// CreateKaryawan menangani POST /api/karyawan (khusus admin).
func (ac *AdministrasiController) CreateKaryawan(c echo.Context) error {
	var req models.CreateKaryawanRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	id, err := ac.Service.CreateKaryawan(c.Request().Context(), req)
	if errors.Is(err, services.ErrUsernameTerdaftar) {
		return respond(c, http.StatusConflict, err.Error(), nil)
	}
	if err != nil {
		c.Logger().Error(err)
		return respond(c, http.StatusInternalServerError, "Failed to create karyawan", nil)
	}
	return respond(c, http.StatusCreated, "Karyawan created successfully", map[string]interface{}{
		"id_karyawan": id,
		"username":    req.Username,
		"role":        req.Role,
	})
}
