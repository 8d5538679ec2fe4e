package timezone

import (
	"strings"
	"time"
)

const DefaultTimezone = "America/Sao_Paulo"

// LocalInputLayout é o formato de um campo datetime-local ("2025-03-10T14:00").
const LocalInputLayout = "2006-01-02T15:04"

// WireLayout é o formato ISO com milissegundos em UTC enviado à API.
const WireLayout = "2006-01-02T15:04:05.000Z"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolve o fuso informado, caindo para America/Sao_Paulo e,
// se nem esse existir na máquina, para UTC.
func Location(tz string) *time.Location {
	if loc, err := time.LoadLocation(tz); tz != "" && err == nil {
		return loc
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseLocalInput interpreta o valor de um campo datetime-local no fuso loc.
// Aceita também segundos e valores RFC3339 completos.
func ParseLocalInput(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)

	if t, err := time.ParseInLocation(LocalInputLayout, value, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", value, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func FormatLocalInput(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(LocalInputLayout)
}

func FormatWire(t time.Time) string {
	return t.UTC().Format(WireLayout)
}
