package booking

import (
	"strings"

	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/models"
)

// ===============================
// Booking Status
// ===============================

const CodeInvalidTransition = httperr.CodeInvalidState

func ParseStatus(s string) (models.BookingStatus, bool) {
	st := models.BookingStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case models.BookingPending, models.BookingConfirmed, models.BookingCanceled:
		return st, true
	}
	return "", false
}

func StatusLabel(s models.BookingStatus) string {
	switch s {
	case models.BookingPending:
		return "Pendente"
	case models.BookingConfirmed:
		return "Confirmado"
	case models.BookingCanceled:
		return "Cancelado"
	}
	return string(s)
}

// ===============================
// Validations
// ===============================

// CanRequest diz se faz sentido pedir a transição ao servidor.
// O servidor continua sendo a autoridade; isto só evita requisições inúteis.
func CanRequest(current, next models.BookingStatus) error {
	switch {
	case current == next:
		return httperr.ErrBusiness(CodeInvalidTransition)
	case current == models.BookingCanceled:
		return httperr.ErrBusiness(CodeInvalidTransition)
	case next == models.BookingPending:
		return httperr.ErrBusiness(CodeInvalidTransition)
	}
	return nil
}

func InitialStatus() models.BookingStatus {
	return models.BookingPending
}
