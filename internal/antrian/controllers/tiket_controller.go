package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
	"github.com/c14220110/poliklinik-antrian/internal/antrian/services"
	"github.com/c14220110/poliklinik-antrian/pkg/events"
)

type TiketController struct {
	TiketService *services.TiketService
	notifier     notifier
}

func NewTiketController(service *services.TiketService, publisher events.Publisher, logger zerolog.Logger) *TiketController {
	return &TiketController{
		TiketService: service,
		notifier:     notifier{publisher: publisher, logger: logger},
	}
}

// TerbitkanTiket menangani POST /api/queue/ticket.
func (tc *TiketController) TerbitkanTiket(c echo.Context) error {
	var req models.TiketRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	result, err := tc.TiketService.TerbitkanTiket(c.Request().Context(), req.DoctorID, req.PatientID)
	if err != nil {
		return respondError(c, err)
	}
	tc.notifier.antrianBerubah(c.Request().Context(), result.Ticket)

	return respond(c, http.StatusCreated, "Tiket antrian berhasil diterbitkan", result)
}

// DaftarKuota menangani GET /api/kuota?tanggal=YYYY-MM-DD.
func (tc *TiketController) DaftarKuota(c echo.Context) error {
	list, err := tc.TiketService.DaftarKuota(c.Request().Context(), c.QueryParam("tanggal"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Kuota harian berhasil diambil", list)
}

// AturKuota menangani PUT /api/kuota.
func (tc *TiketController) AturKuota(c echo.Context) error {
	var req models.KuotaRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if req.MaxQuota == nil && req.Status == "" {
		return respond(c, http.StatusBadRequest, "max_quota atau status harus diisi", nil)
	}

	k, err := tc.TiketService.AturKuota(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Kuota harian berhasil diperbarui", k)
}
