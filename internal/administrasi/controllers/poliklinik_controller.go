package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/poliklinik-antrian/internal/administrasi/services"
)

type PoliklinikController struct {
	Service *services.PoliklinikService
}

func NewPoliklinikController(service *services.PoliklinikService) *PoliklinikController {
	return &PoliklinikController{Service: service}
}

func (pc *PoliklinikController) GetPoliklinikList(c echo.Context) error {
	results, err := pc.Service.GetPoliklinikList(c.Request().Context())
	if err != nil {
		c.Logger().Error(err)
		return respond(c, http.StatusInternalServerError, "Failed to retrieve poliklinik list", nil)
	}
	return respond(c, http.StatusOK, "Poliklinik list retrieved successfully", results)
}

// GetDokterList menangani GET /api/dokter?poli_id=.
func (pc *PoliklinikController) GetDokterList(c echo.Context) error {
	var idPoli int64
	if raw := c.QueryParam("poli_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return respond(c, http.StatusBadRequest, "poli_id harus berupa angka", nil)
		}
		idPoli = id
	}
	results, err := pc.Service.GetDokterList(c.Request().Context(), idPoli)
	if err != nil {
		c.Logger().Error(err)
		return respond(c, http.StatusInternalServerError, "Failed to retrieve dokter list", nil)
	}
	return respond(c, http.StatusOK, "Dokter list retrieved successfully", results)
}

// GetLoketList menangani GET /api/counters.
func (pc *PoliklinikController) GetLoketList(c echo.Context) error {
	results, err := pc.Service.GetLoketList(c.Request().Context())
	if err != nil {
		c.Logger().Error(err)
		return respond(c, http.StatusInternalServerError, "Failed to retrieve counters", nil)
	}
	return respond(c, http.StatusOK, "Counter list retrieved successfully", results)
}
