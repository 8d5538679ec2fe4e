package validators

import (
	"strings"

	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/models"
)

const MinPasswordLength = 6

type RegistrationForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Role            models.Role
	BarberShopID    string
}

// ValidateRegistration roda antes de qualquer chamada de rede.
func ValidateRegistration(f RegistrationForm) error {
	if strings.TrimSpace(f.Name) == "" {
		return httperr.ErrBusiness(httperr.CodeMissingName)
	}
	if !IsEmailFormatValid(f.Email) {
		return httperr.ErrBusiness(httperr.CodeInvalidEmail)
	}
	if len(f.Password) < MinPasswordLength {
		return httperr.ErrBusiness(httperr.CodePasswordTooShort)
	}
	if f.Password != f.ConfirmPassword {
		return httperr.ErrBusiness(httperr.CodePasswordMismatch)
	}
	if !f.Role.Valid() {
		return httperr.ErrBusiness(httperr.CodeInvalidRole)
	}
	return nil
}

func ValidateBarbershop(name, address string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(address) == "" {
		return httperr.ErrBusiness(httperr.CodeMissingShopFields)
	}
	return nil
}

func ValidateService(name string) error {
	if strings.TrimSpace(name) == "" {
		return httperr.ErrBusiness(httperr.CodeMissingServiceName)
	}
	return nil
}
