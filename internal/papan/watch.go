package papan

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/c14220110/poliklinik-antrian/pkg/events"
)

// ReconnectDelay adalah jeda sebelum menyambung ulang ke /ws.
var ReconnectDelay = 3 * time.Second

// WatchEvents mendengarkan event dari hub dan memanggil onEvent untuk tipe
// yang diminta (kosong = semua). Koneksi yang putus disambung ulang sampai ctx
// selesai. Event hanya sinyal; pemanggil biasanya meneruskannya ke Invalidate.
func WatchEvents(ctx context.Context, url string, types []string, onEvent func(events.Event), logger zerolog.Logger) error {
	wanted := make(map[string]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}
	logger = logger.With().Str("component", "watch").Str("url", url).Logger()

	for {
		err := watchOnce(ctx, url, wanted, onEvent)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn().Err(err).Dur("retry_in", ReconnectDelay).Msg("Koneksi event terputus")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ReconnectDelay):
		}
	}
}

func watchOnce(ctx context.Context, url string, wanted map[string]struct{}, onEvent func(events.Event)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var ev events.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[ev.Type]; !ok {
				continue
			}
		}
		onEvent(ev)
	}
}
