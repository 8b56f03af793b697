package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	common "github.com/c14220110/poliklinik-antrian/internal/common/models"
	"github.com/c14220110/poliklinik-antrian/internal/manajemen/models"
	"github.com/c14220110/poliklinik-antrian/internal/manajemen/services"
)

// CacheDokter dikosongkan setiap data poliklinik atau dokter berubah.
type CacheDokter interface {
	ResetCacheDokter()
}

type ManajemenController struct {
	Service *services.ManajemenService
	cache   CacheDokter
	logger  zerolog.Logger
}

func NewManajemenController(service *services.ManajemenService, cache CacheDokter, logger zerolog.Logger) *ManajemenController {
	return &ManajemenController{Service: service, cache: cache, logger: logger}
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, common.Response{Status: status, Message: message, Data: data})
}

func (mc *ManajemenController) fail(c echo.Context, err error, aksi string) error {
	switch {
	case errors.Is(err, services.ErrPoliTidakDitemukan), errors.Is(err, services.ErrLoketTidakDitemukan):
		return respond(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrLoketTerdaftar):
		return respond(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, services.ErrKodeAntrian):
		return respond(c, http.StatusBadRequest, err.Error(), nil)
	}
	mc.logger.Error().Err(err).Str("aksi", aksi).Msg("Gagal memproses data manajemen")
	return respond(c, http.StatusInternalServerError, "Gagal "+aksi, nil)
}

func bindValid(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	if err := c.Validate(req); err != nil {
		return false, respond(c, http.StatusBadRequest, err.Error(), nil)
	}
	return true, nil
}

func paramID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func (mc *ManajemenController) resetCache() {
	if mc.cache != nil {
		mc.cache.ResetCacheDokter()
	}
}

// AddPoliklinik menangani POST /api/poliklinik.
func (mc *ManajemenController) AddPoliklinik(c echo.Context) error {
	var req models.PoliklinikRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	id, err := mc.Service.AddPoliklinik(c.Request().Context(), req)
	if err != nil {
		return mc.fail(c, err, "menambah poliklinik")
	}
	return respond(c, http.StatusCreated, "Poliklinik berhasil ditambahkan", map[string]int64{"id_poli": id})
}

// UpdatePoliklinik menangani PUT /api/poliklinik/:id.
func (mc *ManajemenController) UpdatePoliklinik(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return respond(c, http.StatusBadRequest, "id_poli tidak valid", nil)
	}
	var req models.UpdatePoliRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if req.NamaPoli == nil && req.KodeAntrian == nil {
		return respond(c, http.StatusBadRequest, "Tidak ada data yang diubah", nil)
	}
	if err := mc.Service.UpdatePoliklinik(c.Request().Context(), id, req); err != nil {
		return mc.fail(c, err, "mengupdate poliklinik")
	}
	mc.resetCache()
	return respond(c, http.StatusOK, "Poliklinik berhasil diupdate", nil)
}

// SetPoliklinikStatus menangani PUT /api/poliklinik/:id/status.
func (mc *ManajemenController) SetPoliklinikStatus(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return respond(c, http.StatusBadRequest, "id_poli tidak valid", nil)
	}
	var req models.StatusRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if err := mc.Service.SetPoliklinikAktif(c.Request().Context(), id, *req.Aktif); err != nil {
		return mc.fail(c, err, "mengubah status poliklinik")
	}
	mc.resetCache()
	return respond(c, http.StatusOK, "Status poliklinik berhasil diubah", nil)
}

// AddDokter menangani POST /api/dokter.
func (mc *ManajemenController) AddDokter(c echo.Context) error {
	var req models.DokterRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	id, err := mc.Service.AddDokter(c.Request().Context(), req)
	if err != nil {
		return mc.fail(c, err, "menambah dokter")
	}
	return respond(c, http.StatusCreated, "Dokter berhasil ditambahkan", map[string]int64{"id_dokter": id})
}

// AddLoket menangani POST /api/counters.
func (mc *ManajemenController) AddLoket(c echo.Context) error {
	var req models.LoketRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	id, err := mc.Service.AddLoket(c.Request().Context(), req)
	if err != nil {
		return mc.fail(c, err, "menambah loket")
	}
	return respond(c, http.StatusCreated, "Loket berhasil ditambahkan", map[string]int64{"id_loket": id})
}

// SetLoketStatus menangani PUT /api/counters/:id/status.
func (mc *ManajemenController) SetLoketStatus(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return respond(c, http.StatusBadRequest, "id_loket tidak valid", nil)
	}
	var req models.StatusRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if err := mc.Service.SetLoketAktif(c.Request().Context(), id, *req.Aktif); err != nil {
		return mc.fail(c, err, "mengubah status loket")
	}
	return respond(c, http.StatusOK, "Status loket berhasil diubah", nil)
}
