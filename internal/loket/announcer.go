package loket

import (
	"context"
	"fmt"
	"io"
)

// TextAnnouncer menulis pengumuman ke terminal. Voice hanya label; sintesis
// suara tidak dilakukan di sini.
type TextAnnouncer struct {
	W     io.Writer
	Voice string
}

func (a TextAnnouncer) Announce(_ context.Context, p Pengumuman) error {
	voice := a.Voice
	if voice == "" {
		voice = "default"
	}
	_, err := fmt.Fprintf(a.W, "[pengumuman:%s] %s\n", voice, p.Teks)
	return err
}

type TextNotifier struct {
	W io.Writer
}

func (n TextNotifier) Info(msg string)  { fmt.Fprintln(n.W, "INFO:", msg) }
func (n TextNotifier) Error(msg string) { fmt.Fprintln(n.W, "ERROR:", msg) }
