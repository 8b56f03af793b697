package ws

// Hub bertanggung jawab untuk:
// menyimpan koneksi client, menerima event dari controller,
// dan melakukan broadcast ke client yang berlangganan tipe event tersebut.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/c14220110/poliklinik-antrian/pkg/events"
)

var ErrHubStopped = errors.New("ws: hub sudah berhenti")

// Client mewakili koneksi WebSocket. Types kosong berarti menerima semua event.
type Client struct {
	ID    string
	Conn  *websocket.Conn
	Send  chan []byte
	Types map[string]struct{}
}

func (c *Client) wants(eventType string) bool {
	if len(c.Types) == 0 {
		return true
	}
	_, ok := c.Types[eventType]
	return ok
}

type message struct {
	eventType string
	payload   []byte
}

// Hub mengelola semua koneksi client
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "ws").Logger(),
	}
}

// Run memproses register/unregister/broadcast sampai ctx selesai.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.logger.Info().Msg("hub berhenti")
			return
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug().Str("client", client.ID).Int("total", len(h.clients)).Msg("client registered")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Debug().Str("client", client.ID).Int("total", len(h.clients)).Msg("client unregistered")
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				if !client.wants(msg.eventType) {
					continue
				}
				select {
				case client.Send <- msg.payload:
				default:
					// client lambat, putuskan supaya hub tidak tertahan
					close(client.Send)
					delete(h.clients, client)
					h.logger.Warn().Str("client", client.ID).Msg("client terlalu lambat, diputus")
				}
			}
		}
	}
}

// Publish mengantrekan event untuk di-broadcast.
func (h *Hub) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ws: marshal event: %w", err)
	}
	select {
	case h.broadcast <- message{eventType: event.Type, payload: payload}:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Register mendaftarkan client; gagal jika hub sudah berhenti.
func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
