package postgres

import (
	"database/sql"
	"time"
)

// registration_date es DATE, lo pasamos como NullTime para simplificar
func toNullDate(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func timeInLocal(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
}

// TIMESTAMP (sin zona) llega como UTC: se conserva la hora de pared en zona local.
func wallClockLocal(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, time.Local)
}
