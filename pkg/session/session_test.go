package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nested", "session.json"))
	if err != nil {
		t.Fatal(err)
	}
	if s.BaseURL() != DefaultBaseURL {
		t.Errorf("expected default base url, got %q", s.BaseURL())
	}
	if s.Token() != "" || s.CounterName() != "" || s.PoliID() != 0 {
		t.Error("expected empty session")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "session.json")
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetLoket("Loket 2", 3); err != nil {
		t.Fatal(err)
	}
	if err := s.SetToken("tok-123"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetVoice("id-ID-Standard-A"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Errorf("session file holds a token and must not be world readable, got %v", perm)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.CounterName() != "Loket 2" || again.PoliID() != 3 || again.Token() != "tok-123" || again.VoiceName() != "id-ID-Standard-A" {
		t.Errorf("unexpected reloaded session: %q %d %q %q", again.CounterName(), again.PoliID(), again.Token(), again.VoiceName())
	}
	if again.BaseURL() != DefaultBaseURL {
		t.Errorf("expected base url persisted, got %q", again.BaseURL())
	}

	if err := again.ClearToken(); err != nil {
		t.Fatal(err)
	}
	third, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if third.Token() != "" {
		t.Errorf("expected cleared token, got %q", third.Token())
	}
	if third.CounterName() != "Loket 2" {
		t.Error("clearing the token must keep counter config")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for corrupt session file")
	}
}
