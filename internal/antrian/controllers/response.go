package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
	"github.com/c14220110/poliklinik-antrian/internal/antrian/services"
	common "github.com/c14220110/poliklinik-antrian/internal/common/models"
	"github.com/c14220110/poliklinik-antrian/pkg/events"
)

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, common.Response{Status: status, Message: message, Data: data})
}

// statusFor memetakan error service ke status HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrAntrianKosong),
		errors.Is(err, services.ErrAntrianTidakDitemukan),
		errors.Is(err, services.ErrDokterTidakDitemukan),
		errors.Is(err, services.ErrPasienTidakDitemukan):
		return http.StatusNotFound
	case errors.Is(err, services.ErrKuotaPenuh),
		errors.Is(err, services.ErrKuotaDitutup),
		errors.Is(err, services.ErrKuotaTidakValid),
		errors.Is(err, services.ErrStatusTidakValid),
		errors.Is(err, services.ErrLoketSibuk):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondError(c echo.Context, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		message = "Terjadi kesalahan pada server"
	}
	return respond(c, status, message, nil)
}

// bindValid mengisi req dari body lalu menjalankan validator echo. Jika ok
// bernilai false, respons 400 sudah ditulis dan err harus dikembalikan handler.
func bindValid(c echo.Context, req interface{}) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, respond(c, http.StatusBadRequest, "Invalid request body", nil)
	}
	if err := c.Validate(req); err != nil {
		return false, respond(c, http.StatusBadRequest, err.Error(), nil)
	}
	return true, nil
}

// queryPoliID membaca ?poli_id=; kosong berarti semua poli.
func queryPoliID(c echo.Context) (int64, bool) {
	raw := c.QueryParam("poli_id")
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// notifier menyiarkan perubahan antrian. Kegagalan hanya dicatat; perubahan
// di database sudah final.
type notifier struct {
	publisher events.Publisher
	logger    zerolog.Logger
}

func (n notifier) antrianBerubah(ctx context.Context, a models.Antrian) {
	if n.publisher == nil {
		return
	}
	ev, err := events.New(events.TypeAntrianUpdate, a.Update())
	if err == nil {
		err = n.publisher.Publish(ctx, ev)
	}
	if err != nil {
		n.logger.Warn().Err(err).Int64("id_antrian", a.ID).Msg("Gagal menyiarkan perubahan antrian")
	}
}
