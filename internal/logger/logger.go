package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New cria o logger do serviço: JSON em produção, console legível em desenvolvimento.
func New(service string, dev bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if dev {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}).
			With().
			Timestamp().
			Str("service", service).
			Logger()
	}

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

// Nop é usado em testes e onde nenhum logger foi configurado.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
