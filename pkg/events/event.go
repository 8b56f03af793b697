// Package events mendefinisikan notifikasi yang dikirim ke layar dan dashboard
// setiap kali data antrian atau resep berubah. Penerima memperlakukannya sebagai
// sinyal untuk mengambil ulang data, bukan sebagai stream perubahan.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	TypeAntrianUpdate = "antrian_update"
	TypeResepBaru     = "prescription_new"
	TypeResepUpdate   = "prescription_update"
)

type Event struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func New(eventType string, data interface{}) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("marshal event %s: %w", eventType, err)
	}
	return Event{Type: eventType, Data: raw, Timestamp: time.Now()}, nil
}

// Publisher mengirim event ke pelanggan. Implementasi bersifat best-effort.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Multi meneruskan event ke semua publisher dan menggabungkan error-nya.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop membuang semua event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
