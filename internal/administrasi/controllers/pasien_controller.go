package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/c14220110/poliklinik-antrian/internal/administrasi/models"
	"github.com/c14220110/poliklinik-antrian/internal/administrasi/services"
	antrianServices "github.com/c14220110/poliklinik-antrian/internal/antrian/services"
	"github.com/c14220110/poliklinik-antrian/pkg/events"
)

type PasienController struct {
	Service      *services.PendaftaranService
	TiketService *antrianServices.TiketService
	publisher    events.Publisher
	logger       zerolog.Logger
}

func NewPasienController(service *services.PendaftaranService, tiket *antrianServices.TiketService, publisher events.Publisher, logger zerolog.Logger) *PasienController {
	return &PasienController{Service: service, TiketService: tiket, publisher: publisher, logger: logger}
}

// CreatePasien menangani POST /api/pasien.
func (pc *PasienController) CreatePasien(c echo.Context) error {
	var req models.PasienRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	pasien, err := pc.Service.CreatePasien(c.Request().Context(), req)
	if errors.Is(err, services.ErrNIKTerdaftar) {
		return respond(c, http.StatusConflict, "NIK sudah terdaftar", nil)
	}
	if err != nil {
		c.Logger().Error(err)
		return respond(c, http.StatusInternalServerError, "Gagal mendaftarkan pasien", nil)
	}
	return respond(c, http.StatusCreated, "Pasien berhasil didaftarkan", pasien)
}

// RegisterPasien mendaftarkan pasien baru lalu langsung menerbitkan tiket
// antrian dokter. Jika tiket ditolak (kuota penuh/ditutup) data pasien tetap
// tersimpan dan dikembalikan di field data.
func (pc *PasienController) RegisterPasien(c echo.Context) error {
	var req models.RegisterPasienRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ctx := c.Request().Context()

	pasien, err := pc.Service.CreatePasien(ctx, req.PasienRequest)
	if errors.Is(err, services.ErrNIKTerdaftar) {
		return respond(c, http.StatusConflict, "NIK sudah terdaftar", nil)
	}
	if err != nil {
		c.Logger().Error(err)
		return respond(c, http.StatusInternalServerError, "Gagal mendaftarkan pasien", nil)
	}

	tiket, err := pc.TiketService.TerbitkanTiket(ctx, req.DoctorID, pasien.ID)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, antrianServices.ErrKuotaPenuh), errors.Is(err, antrianServices.ErrKuotaDitutup):
			status = http.StatusConflict
		case errors.Is(err, antrianServices.ErrDokterTidakDitemukan):
			status = http.StatusNotFound
		}
		return respond(c, status, "Pasien terdaftar, tetapi tiket gagal diterbitkan: "+err.Error(), map[string]interface{}{
			"pasien": pasien,
		})
	}

	if pc.publisher != nil {
		ev, err := events.New(events.TypeAntrianUpdate, tiket.Ticket.Update())
		if err == nil {
			err = pc.publisher.Publish(ctx, ev)
		}
		if err != nil {
			pc.logger.Warn().Err(err).Msg("Gagal menyiarkan antrian baru")
		}
	}

	return respond(c, http.StatusCreated, "Pasien berhasil didaftarkan", map[string]interface{}{
		"pasien": pasien,
		"tiket":  tiket,
	})
}

// GetPasien menangani GET /api/pasien?nik= atau ?cari=&limit=.
func (pc *PasienController) GetPasien(c echo.Context) error {
	ctx := c.Request().Context()
	if nik := c.QueryParam("nik"); nik != "" {
		pasien, err := pc.Service.GetPasienByNIK(ctx, nik)
		if errors.Is(err, services.ErrPasienTidakDitemukan) {
			return respond(c, http.StatusNotFound, "Pasien tidak ditemukan", nil)
		}
		if err != nil {
			c.Logger().Error(err)
			return respond(c, http.StatusInternalServerError, "Gagal mengambil data pasien", nil)
		}
		return respond(c, http.StatusOK, "Data pasien ditemukan", pasien)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	list, err := pc.Service.ListPasien(ctx, c.QueryParam("cari"), limit)
	if err != nil {
		c.Logger().Error(err)
		return respond(c, http.StatusInternalServerError, "Gagal mengambil data pasien", nil)
	}
	return respond(c, http.StatusOK, "Data pasien berhasil diambil", list)
}
