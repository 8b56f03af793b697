package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// JedaSambungUlang membatasi seberapa sering Publish mencoba dial ulang
// saat broker mati, supaya request HTTP tidak tertahan di setiap event.
const JedaSambungUlang = 2 * time.Second

var ErrPublisherDitutup = errors.New("rabbitmq publisher sudah ditutup")

// sesiAMQP adalah satu koneksi beserta channel publikasinya.
type sesiAMQP interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type sesiKoneksi struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func (s *sesiKoneksi) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return s.ch.PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

func (s *sesiKoneksi) IsClosed() bool {
	return s.conn.IsClosed() || s.ch.IsClosed()
}

func (s *sesiKoneksi) Close() error {
	chErr := s.ch.Close()
	if s.conn.IsClosed() {
		return nil
	}
	return errors.Join(chErr, s.conn.Close())
}

// dialAMQP membuka koneksi, channel, dan mendeklarasikan exchange. Putusnya
// koneksi dicatat lewat NotifyClose; Publish berikutnya yang menyambung ulang.
func dialAMQP(url, exchange string, logger zerolog.Logger) (sesiAMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq connect: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange %s: %w", exchange, err)
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if amqpErr, ok := <-closed; ok && amqpErr != nil {
			logger.Warn().Str("reason", amqpErr.Reason).Int("code", amqpErr.Code).Msg("koneksi rabbitmq terputus")
		}
	}()
	return &sesiKoneksi{conn: conn, ch: ch}, nil
}

// AMQPPublisher menyebarkan event ke topic exchange RabbitMQ dengan routing key
// sama dengan Event.Type, supaya layanan lain (farmasi, display TV) bisa ikut mendengar.
type AMQPPublisher struct {
	mu           sync.Mutex
	dial         func() (sesiAMQP, error)
	sesi         sesiAMQP
	exchange     string
	jeda         time.Duration
	dialTerakhir time.Time
	ditutup      bool
	logger       zerolog.Logger
}

func NewAMQPPublisher(url, exchange string, logger zerolog.Logger) (*AMQPPublisher, error) {
	logger = logger.With().Str("component", "amqp").Logger()
	dial := func() (sesiAMQP, error) { return dialAMQP(url, exchange, logger) }
	p, err := newAMQPPublisher(dial, exchange, JedaSambungUlang, logger)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("exchange", exchange).Msg("rabbitmq publisher siap")
	return p, nil
}

func newAMQPPublisher(dial func() (sesiAMQP, error), exchange string, jeda time.Duration, logger zerolog.Logger) (*AMQPPublisher, error) {
	sesi, err := dial()
	if err != nil {
		return nil, err
	}
	return &AMQPPublisher{
		dial:         dial,
		sesi:         sesi,
		exchange:     exchange,
		jeda:         jeda,
		dialTerakhir: time.Now(),
		logger:       logger,
	}, nil
}

// sambungUlang dipanggil dengan p.mu terkunci.
func (p *AMQPPublisher) sambungUlang() error {
	if p.sesi != nil {
		p.sesi.Close()
		p.sesi = nil
	}
	if since := time.Since(p.dialTerakhir); since < p.jeda {
		return fmt.Errorf("rabbitmq tidak tersambung, coba lagi dalam %s", (p.jeda - since).Round(time.Millisecond))
	}
	p.dialTerakhir = time.Now()
	sesi, err := p.dial()
	if err != nil {
		p.logger.Warn().Err(err).Msg("gagal menyambung ulang rabbitmq")
		return err
	}
	p.sesi = sesi
	p.logger.Info().Str("exchange", p.exchange).Msg("rabbitmq tersambung kembali")
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ditutup {
		return ErrPublisherDitutup
	}
	if p.sesi == nil || p.sesi.IsClosed() {
		if err := p.sambungUlang(); err != nil {
			return fmt.Errorf("rabbitmq publish %s: %w", event.Type, err)
		}
	}
	err = p.sesi.PublishWithContext(ctx, p.exchange, event.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		Timestamp:    event.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", event.Type, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ditutup = true
	if p.sesi == nil {
		return nil
	}
	err := p.sesi.Close()
	p.sesi = nil
	return err
}
