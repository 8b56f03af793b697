// Package loket adalah pengendali sisi petugas loket: memanggil, memanggil
// ulang, menyelesaikan dan melewati tiket, lalu mengumumkannya.
package loket

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/c14220110/poliklinik-antrian/internal/antrian/models"
)

type State string

const (
	StateIdle    State = "IDLE"
	StateCalling State = "CALLING"
	StateActive  State = "ACTIVE"
)

var (
	ErrTransisiTidakValid = errors.New("aksi tidak dapat dilakukan pada status loket saat ini")
	ErrLoketAktif         = errors.New("masih ada antrian aktif di loket ini")
)

// QueueAPI adalah bagian dari klien REST yang dipakai loket.
type QueueAPI interface {
	CallNext(ctx context.Context, counterName string, poliID int64) (*models.HasilPanggilan, error)
	Complete(ctx context.Context, ticketID int64) (*models.Antrian, error)
	Skip(ctx context.Context, ticketID int64) (*models.Antrian, error)
	RecallSkipped(ctx context.Context, ticketID int64, counterName string) (*models.HasilPanggilan, error)
	Active(ctx context.Context, counterName string) (*models.Antrian, error)
}

type Announcer interface {
	Announce(ctx context.Context, p Pengumuman) error
}

// Notifier menampilkan pesan ke petugas.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

type Config struct {
	CounterName string
	PoliID      int64 // 0 = semua poli
}

type Controller struct {
	cfg       Config
	api       QueueAPI
	announcer Announcer
	notifier  Notifier
	logger    zerolog.Logger

	op sync.Mutex // satu aksi petugas dalam satu waktu

	mu      sync.RWMutex
	state   State
	current *models.Antrian
}

func NewController(cfg Config, api QueueAPI, announcer Announcer, notifier Notifier, logger zerolog.Logger) *Controller {
	return &Controller{
		cfg:       cfg,
		api:       api,
		announcer: announcer,
		notifier:  notifier,
		logger:    logger.With().Str("component", "loket").Str("counter", cfg.CounterName).Logger(),
		state:     StateIdle,
	}
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Current mengembalikan salinan tiket aktif, nil bila loket kosong.
func (c *Controller) Current() *models.Antrian {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil
	}
	t := *c.current
	return &t
}

func (c *Controller) set(state State, current *models.Antrian) {
	c.mu.Lock()
	c.state = state
	c.current = current
	c.mu.Unlock()
}

func (c *Controller) expect(want State, aksi string) error {
	if got := c.State(); got != want {
		return fmt.Errorf("%s saat %s: %w", aksi, got, ErrTransisiTidakValid)
	}
	return nil
}

// Resume memulihkan tiket aktif dari server, misalnya setelah aplikasi loket
// dibuka ulang. Tiket tidak diumumkan ulang.
func (c *Controller) Resume(ctx context.Context) (*models.Antrian, error) {
	c.op.Lock()
	defer c.op.Unlock()
	if err := c.expect(StateIdle, "resume"); err != nil {
		return nil, err
	}

	t, err := c.api.Active(ctx, c.cfg.CounterName)
	if err != nil {
		return nil, err
	}
	if t != nil {
		c.set(StateActive, t)
		c.notifier.Info(fmt.Sprintf("Melanjutkan antrian %s", t.QueueCode))
	}
	return c.Current(), nil
}

// CallNext memanggil tiket menunggu berikutnya. Antrian kosong bukan error:
// petugas diberi tahu dan hasilnya nil, nil.
func (c *Controller) CallNext(ctx context.Context) (*models.Antrian, error) {
	c.op.Lock()
	defer c.op.Unlock()
	if err := c.expect(StateIdle, "panggil"); err != nil {
		return nil, err
	}

	c.set(StateCalling, nil)
	res, err := c.api.CallNext(ctx, c.cfg.CounterName, c.cfg.PoliID)
	if err != nil {
		c.set(StateIdle, nil)
		c.notifier.Error("Gagal memanggil antrian: " + err.Error())
		return nil, err
	}
	if res == nil {
		c.set(StateIdle, nil)
		c.notifier.Info(models.PesanAntrianKosong)
		return nil, nil
	}

	t := res.Ticket
	c.set(StateActive, &t)
	c.logger.Info().Int64("id_antrian", t.ID).Str("queue_code", t.QueueCode).Msg("Antrian dipanggil")
	c.announce(ctx, t)
	return c.Current(), nil
}

// Recall mengumumkan ulang tiket aktif tanpa memanggil server.
func (c *Controller) Recall(ctx context.Context) (*models.Antrian, error) {
	c.op.Lock()
	defer c.op.Unlock()
	if err := c.expect(StateActive, "panggil ulang"); err != nil {
		return nil, err
	}
	t := c.Current()
	c.announce(ctx, *t)
	return t, nil
}

func (c *Controller) Finish(ctx context.Context) (*models.Antrian, error) {
	return c.tutup(ctx, "selesai", c.api.Complete)
}

func (c *Controller) Skip(ctx context.Context) (*models.Antrian, error) {
	return c.tutup(ctx, "lewati", c.api.Skip)
}

// tutup mengakhiri tiket aktif. Bila server menolak, status loket
// disamakan dengan server lewat sinkron.
func (c *Controller) tutup(ctx context.Context, aksi string, call func(context.Context, int64) (*models.Antrian, error)) (*models.Antrian, error) {
	c.op.Lock()
	defer c.op.Unlock()
	if err := c.expect(StateActive, aksi); err != nil {
		return nil, err
	}

	cur := c.Current()
	t, err := call(ctx, cur.ID)
	if err != nil {
		c.notifier.Error(fmt.Sprintf("Gagal %s antrian %s: %v", aksi, cur.QueueCode, err))
		c.sinkron(ctx, cur)
		return nil, err
	}
	c.set(StateIdle, nil)
	c.notifier.Info(fmt.Sprintf("Antrian %s %s", t.QueueCode, t.Status))
	return t, nil
}

// sinkron menanyakan tiket aktif loket ke server setelah aksi gagal.
// Tiket lokal hanya dipertahankan bila server masih memegangnya atau tidak
// bisa dihubungi; selain itu loket mengikuti server.
func (c *Controller) sinkron(ctx context.Context, cur *models.Antrian) {
	t, err := c.api.Active(ctx, c.cfg.CounterName)
	if err != nil {
		c.logger.Warn().Err(err).Int64("id_antrian", cur.ID).Msg("Gagal sinkron tiket aktif")
		return
	}
	switch {
	case t == nil:
		c.set(StateIdle, nil)
		c.logger.Info().Int64("id_antrian", cur.ID).Msg("Tiket sudah tidak aktif di server")
		c.notifier.Info(fmt.Sprintf("Antrian %s sudah tidak aktif, loket kosong", cur.QueueCode))
	case t.ID != cur.ID:
		c.set(StateActive, t)
		c.notifier.Info(fmt.Sprintf("Loket sekarang melayani antrian %s", t.QueueCode))
	}
}

// RecallSkipped memanggil kembali tiket dari daftar terlewat. Ditolak bila
// loket masih melayani tiket lain.
func (c *Controller) RecallSkipped(ctx context.Context, ticketID int64) (*models.Antrian, error) {
	c.op.Lock()
	defer c.op.Unlock()
	switch c.State() {
	case StateActive:
		c.notifier.Error("Selesaikan atau lewati antrian aktif sebelum memanggil ulang")
		return nil, ErrLoketAktif
	case StateCalling:
		return nil, fmt.Errorf("panggil ulang terlewat saat %s: %w", StateCalling, ErrTransisiTidakValid)
	}

	res, err := c.api.RecallSkipped(ctx, ticketID, c.cfg.CounterName)
	if err != nil {
		c.notifier.Error(fmt.Sprintf("Gagal memanggil ulang antrian %d: %v", ticketID, err))
		return nil, err
	}
	t := res.Ticket
	c.set(StateActive, &t)
	c.logger.Info().Int64("id_antrian", t.ID).Str("queue_code", t.QueueCode).Msg("Antrian terlewat dipanggil ulang")
	c.announce(ctx, t)
	return c.Current(), nil
}

// announce gagal tidak membatalkan panggilan; tiket sudah tercatat di server.
func (c *Controller) announce(ctx context.Context, t models.Antrian) {
	p, err := FormatPengumuman(t.QueueCode, c.cfg.CounterName)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Kode antrian tidak bisa diumumkan")
		c.notifier.Error(err.Error())
		return
	}
	if err := c.announcer.Announce(ctx, p); err != nil {
		c.logger.Warn().Err(err).Msg("Pengumuman gagal")
		c.notifier.Error("Pengumuman gagal: " + err.Error())
	}
}
