package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// newLogger: console berwarna untuk development, JSON untuk lainnya.
func newLogger(env, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout)
	if env == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
	return logger.Level(lvl).With().Timestamp().Logger()
}

// cliLogger dipakai aplikasi loket dan papan; hanya peringatan ke stderr
// supaya tidak bercampur dengan tampilan.
func cliLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.WarnLevel).With().Timestamp().Logger()
}
