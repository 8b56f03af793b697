package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/poliklinik-antrian/internal/administrasi/models"
	"github.com/c14220110/poliklinik-antrian/pkg/events"
)

// NotifikasiController meneruskan notifikasi resep dari backend farmasi ke hub.
type NotifikasiController struct {
	Publisher events.Publisher
}

func NewNotifikasiController(publisher events.Publisher) *NotifikasiController {
	return &NotifikasiController{Publisher: publisher}
}

// NotifikasiResep menangani POST /api/notifikasi/resep.
func (nc *NotifikasiController) NotifikasiResep(c echo.Context) error {
	var req models.NotifikasiResepRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	ev := events.Event{Type: req.Type, Data: req.Data, Timestamp: time.Now()}
	if err := nc.Publisher.Publish(c.Request().Context(), ev); err != nil {
		c.Logger().Error(err)
		return respond(c, http.StatusServiceUnavailable, "Gagal meneruskan notifikasi", nil)
	}
	return respond(c, http.StatusAccepted, "Notifikasi diteruskan", nil)
}
