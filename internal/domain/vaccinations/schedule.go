package vaccinations

import (
	"sort"
	"time"
)

// Funciones puras de agenda sobre el ledger completo y un instante de
// referencia. No tocan el store: el caller carga el ledger y pasa now.
//
// Los rangos son disyuntos y exhaustivos alrededor de now: un registro
// pendiente está vencido (due < now) o no (due >= now); jamás aparece en
// Overdue y Upcoming a la vez.

const DefaultUpcomingWindowDays = 30

// Overdue: registros pendientes con fecha de vencimiento estrictamente
// anterior a now, ordenados ascendente (el más vencido primero).
func Overdue(ledger []Record, now time.Time) []Record {
	out := make([]Record, 0)
	for _, rec := range ledger {
		if rec.IsCompleted {
			continue
		}
		if rec.NextDueDate.Before(now) {
			out = append(out, rec)
		}
	}
	sortByDueAsc(out)
	return out
}

// Upcoming: registros pendientes con vencimiento en [now, now+windowDays]
// (ventana en días calendario), ordenados ascendente. windowDays <= 0 usa
// la ventana default de 30 días.
func Upcoming(ledger []Record, now time.Time, windowDays int) []Record {
	if windowDays <= 0 {
		windowDays = DefaultUpcomingWindowDays
	}
	limit := now.AddDate(0, 0, windowDays)

	out := make([]Record, 0)
	for _, rec := range ledger {
		if rec.IsCompleted {
			continue
		}
		if !rec.NextDueDate.Before(now) && !rec.NextDueDate.After(limit) {
			out = append(out, rec)
		}
	}
	sortByDueAsc(out)
	return out
}

// DaysUntilDue devuelve días hasta el vencimiento (negativo si está
// vencido). Normaliza ambos instantes a la medianoche UTC de su día
// calendario antes de restar: dos eventos del mismo día dan 0, sin
// off-by-one por diferencias de hora ni drift de DST.
func DaysUntilDue(rec Record, now time.Time) int {
	due := midnightUTC(rec.NextDueDate)
	ref := midnightUTC(now)
	return int(due.Sub(ref) / (24 * time.Hour))
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sortByDueAsc(recs []Record) {
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].NextDueDate.Before(recs[j].NextDueDate)
	})
}
