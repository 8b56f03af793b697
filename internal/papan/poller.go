// Package papan menjaga snapshot data layar (papan antrian, dashboard) tetap
// segar dengan polling berkala. Setiap pengambilan mengganti seluruh state.
package papan

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Interval bawaan per jenis layar.
const (
	IntervalNurseCall = 3 * time.Second
	IntervalBed       = 5 * time.Second
	IntervalKitchen   = 10 * time.Second
	IntervalInventory = 30 * time.Second

	IntervalPapanAntrian = IntervalBed
)

// Poller mengambil data setiap interval. Gagal ambil hanya dicatat; snapshot
// terakhir tetap dipakai.
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    func(ctx context.Context) (T, error)
	logger   zerolog.Logger
	refresh  chan struct{}

	mu        sync.RWMutex
	data      T
	loaded    bool
	lastErr   error
	updatedAt time.Time
	pending   func(T) T
	onUpdate  func(T)
}

func NewPoller[T any](name string, interval time.Duration, fetch func(ctx context.Context) (T, error), logger zerolog.Logger) *Poller[T] {
	return &Poller[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
		logger:   logger.With().Str("poller", name).Logger(),
		refresh:  make(chan struct{}, 1),
	}
}

// OnUpdate dipanggil dengan view baru setiap pengambilan berhasil.
func (p *Poller[T]) OnUpdate(fn func(T)) {
	p.mu.Lock()
	p.onUpdate = fn
	p.mu.Unlock()
}

// Start langsung mengambil data sekali lalu berulang tiap interval. Fungsi
// yang dikembalikan menghentikan polling dan menunggu goroutine selesai.
func (p *Poller[T]) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.loop(ctx)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

func (p *Poller[T]) loop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		case <-p.refresh:
			p.poll(ctx)
			ticker.Reset(p.interval)
		}
	}
}

// Invalidate meminta pengambilan segera. Beberapa permintaan yang datang
// sebelum pengambilan berikutnya digabung menjadi satu.
func (p *Poller[T]) Invalidate() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

func (p *Poller[T]) poll(ctx context.Context) {
	data, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
		p.logger.Warn().Err(err).Msg("Gagal memperbarui data, memakai snapshot sebelumnya")
		return
	}

	p.mu.Lock()
	p.data = data
	p.loaded = true
	p.lastErr = nil
	p.pending = nil
	p.updatedAt = time.Now()
	view := p.data
	cb := p.onUpdate
	p.mu.Unlock()

	if cb != nil {
		cb(view)
	}
}

// View mengembalikan snapshot dengan overlay pending. ok false bila belum
// pernah ada pengambilan yang berhasil.
func (p *Poller[T]) View() (view T, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.loaded {
		return view, false
	}
	if p.pending != nil {
		return p.pending(p.data), true
	}
	return p.data, true
}

// SetPending memasang perubahan optimistis di atas snapshot sampai
// pengambilan berikutnya berhasil. fn tidak boleh mengubah argumennya.
func (p *Poller[T]) SetPending(fn func(T) T) {
	p.mu.Lock()
	p.pending = fn
	p.mu.Unlock()
}

// Err adalah error pengambilan terakhir, nil setelah pengambilan berhasil.
func (p *Poller[T]) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

func (p *Poller[T]) UpdatedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updatedAt
}
