// Package scheduler dispara la corrida mensual de facturación en el día
// configurado del mes. El motor en sí es idempotente por corrida; la guarda
// "ya corrió hoy" (un archivo con la fecha de la última corrida) es lo único
// que evita invocarlo dos veces el mismo día si el proceso se reinicia.
package scheduler

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/tu-usuario/pos-billing/pkg/logger"
)

const dateLayout = "2006-01-02"

// RunFunc la corrida a ejecutar (normalmente RunUseCase.Run sobre el
// snapshot configurado).
type RunFunc func(ctx context.Context) error

// Scheduler chequea periódicamente si toca correr la facturación.
type Scheduler struct {
	day       int    // día del mes en que corre
	hour      int    // hora local a partir de la cual puede correr
	guardFile string // persiste la fecha de la última corrida
	run       RunFunc
	log       *logger.Logger
}

// New construye el scheduler. hour 9 reproduce la corrida histórica de las
// 09:00.
func New(day, hour int, guardFile string, run RunFunc, log *logger.Logger) *Scheduler {
	return &Scheduler{day: day, hour: hour, guardFile: guardFile, run: run, log: log}
}

// Start entra al loop de chequeo (cada minuto) hasta que el contexto se
// cancele.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info().Int("day", s.day).Int("hour", s.hour).Msg("scheduler iniciado")
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduler detenido")
			return
		case now := <-ticker.C:
			s.CheckAndRun(ctx, now)
		}
	}
}

// CheckAndRun ejecuta la corrida si hoy es el día programado, ya pasó la
// hora y no se corrió aún hoy. Exportado para poder probarlo con fechas
// sintéticas.
func (s *Scheduler) CheckAndRun(ctx context.Context, now time.Time) {
	if now.Day() != s.day || now.Hour() < s.hour {
		return
	}
	today := now.Format(dateLayout)
	if s.lastRun() == today {
		return
	}

	s.log.Info().Str("date", today).Msg("corrida programada de facturación")
	if err := s.run(ctx); err != nil {
		// No se marca la guarda: el siguiente chequeo del día reintenta.
		s.log.Error().Err(err).Msg("corrida programada fallida")
		return
	}
	if err := os.WriteFile(s.guardFile, []byte(today), 0o644); err != nil {
		s.log.Error().Err(err).Msg("no se pudo escribir la guarda de corrida")
	}
}

func (s *Scheduler) lastRun() string {
	b, err := os.ReadFile(s.guardFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
