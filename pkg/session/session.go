// Package session menyimpan konfigurasi klien loket/papan di disk: alamat
// server, nama loket, poli, suara pengumuman, dan token login.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

const DefaultBaseURL = "http://localhost:8080"

const (
	keyBaseURL     = "base_url"
	keyCounterName = "counter_name"
	keyPoliID      = "poli_id"
	keyVoiceName   = "voice_name"
	keyToken       = "token"
)

type Session struct {
	mu   sync.RWMutex
	v    *viper.Viper
	path string
}

// DefaultPath mengembalikan <UserConfigDir>/poliklinik-antrian/session.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "poliklinik-antrian", "session.json"), nil
}

// Load membaca file sesi. File yang belum ada bukan error; sesi kosong dikembalikan.
func Load(path string) (*Session, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetConfigPermissions(0o600)
	v.SetDefault(keyBaseURL, DefaultBaseURL)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("session: gagal membaca %s: %w", path, err)
	}
	return &Session{v: v, path: path}, nil
}

func (s *Session) Path() string { return s.path }

// Save menulis sesi ke disk.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *Session) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	// default tidak ikut tertulis oleh WriteConfigAs, jadi diset eksplisit
	s.v.Set(keyBaseURL, s.v.GetString(keyBaseURL))
	return s.v.WriteConfigAs(s.path)
}

func (s *Session) set(key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(key, value)
	return s.save()
}

func (s *Session) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetString(keyBaseURL)
}

func (s *Session) CounterName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetString(keyCounterName)
}

func (s *Session) PoliID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetInt64(keyPoliID)
}

func (s *Session) VoiceName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetString(keyVoiceName)
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetString(keyToken)
}

func (s *Session) SetBaseURL(url string) error { return s.set(keyBaseURL, url) }

func (s *Session) SetToken(token string) error { return s.set(keyToken, token) }

// ClearToken menghapus token (logout atau 401 dari server) lalu menyimpan sesi.
func (s *Session) ClearToken() error { return s.set(keyToken, "") }

func (s *Session) SetVoice(name string) error { return s.set(keyVoiceName, name) }

// SetLoket menyimpan identitas loket; poliID 0 berarti loket melayani semua poli.
func (s *Session) SetLoket(counterName string, poliID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(keyCounterName, counterName)
	s.v.Set(keyPoliID, poliID)
	return s.save()
}
