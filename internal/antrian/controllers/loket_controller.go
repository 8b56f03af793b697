package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
	"github.com/c14220110/poliklinik-antrian/internal/antrian/services"
	"github.com/c14220110/poliklinik-antrian/pkg/events"
)

type LoketController struct {
	LoketService *services.LoketService
	notifier     notifier
}

func NewLoketController(service *services.LoketService, publisher events.Publisher, logger zerolog.Logger) *LoketController {
	return &LoketController{
		LoketService: service,
		notifier:     notifier{publisher: publisher, logger: logger},
	}
}

// PanggilBerikutnya menangani POST /api/queues/call.
func (lc *LoketController) PanggilBerikutnya(c echo.Context) error {
	var req models.PanggilRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	result, err := lc.LoketService.PanggilBerikutnya(c.Request().Context(), req.CounterName, req.PoliID)
	if errors.Is(err, services.ErrAntrianKosong) {
		return respond(c, http.StatusNotFound, models.PesanAntrianKosong, nil)
	}
	if err != nil {
		return respondError(c, err)
	}
	lc.notifier.antrianBerubah(c.Request().Context(), result.Ticket)

	return respond(c, http.StatusOK, "Antrian berhasil dipanggil", result)
}

// Selesaikan menangani POST /api/queues/complete.
func (lc *LoketController) Selesaikan(c echo.Context) error {
	var req models.TiketIDRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	ticket, err := lc.LoketService.Selesaikan(c.Request().Context(), req.TicketID)
	if err != nil {
		return respondError(c, err)
	}
	lc.notifier.antrianBerubah(c.Request().Context(), *ticket)

	return respond(c, http.StatusOK, "Antrian selesai dilayani", ticket)
}

// Lewati menangani POST /api/queues/skip.
func (lc *LoketController) Lewati(c echo.Context) error {
	var req models.TiketIDRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	ticket, err := lc.LoketService.Lewati(c.Request().Context(), req.TicketID)
	if err != nil {
		return respondError(c, err)
	}
	lc.notifier.antrianBerubah(c.Request().Context(), *ticket)

	return respond(c, http.StatusOK, "Antrian dilewati", ticket)
}

// PanggilUlangTerlewat menangani POST /api/queues/recall-skipped.
func (lc *LoketController) PanggilUlangTerlewat(c echo.Context) error {
	var req models.RecallSkippedRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	result, err := lc.LoketService.PanggilUlangTerlewat(c.Request().Context(), req.TicketID, req.CounterName)
	if err != nil {
		return respondError(c, err)
	}
	lc.notifier.antrianBerubah(c.Request().Context(), result.Ticket)

	return respond(c, http.StatusOK, "Antrian terlewat berhasil dipanggil ulang", result)
}

func (lc *LoketController) DaftarMenunggu(c echo.Context) error {
	idPoli, ok := queryPoliID(c)
	if !ok {
		return respond(c, http.StatusBadRequest, "poli_id harus berupa angka", nil)
	}
	list, err := lc.LoketService.DaftarMenunggu(c.Request().Context(), idPoli)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Daftar antrian menunggu", list)
}

func (lc *LoketController) DaftarTerlewat(c echo.Context) error {
	idPoli, ok := queryPoliID(c)
	if !ok {
		return respond(c, http.StatusBadRequest, "poli_id harus berupa angka", nil)
	}
	list, err := lc.LoketService.DaftarTerlewat(c.Request().Context(), idPoli)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Daftar antrian terlewat", list)
}

// TiketAktif menangani GET /api/queues/active?counter_name=. data bernilai
// null bila loket sedang kosong.
func (lc *LoketController) TiketAktif(c echo.Context) error {
	counter := c.QueryParam("counter_name")
	if counter == "" {
		return respond(c, http.StatusBadRequest, "counter_name harus diberikan", nil)
	}
	ticket, err := lc.LoketService.TiketAktif(c.Request().Context(), counter)
	if err != nil {
		return respondError(c, err)
	}
	if ticket == nil {
		return respond(c, http.StatusOK, "Loket tidak sedang melayani", nil)
	}
	return respond(c, http.StatusOK, "Antrian aktif ditemukan", ticket)
}

// Papan menangani GET /api/queues/board?poli_id=.
func (lc *LoketController) Papan(c echo.Context) error {
	idPoli, ok := queryPoliID(c)
	if !ok {
		return respond(c, http.StatusBadRequest, "poli_id harus berupa angka", nil)
	}
	papan, err := lc.LoketService.Papan(c.Request().Context(), idPoli)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Papan antrian", papan)
}
