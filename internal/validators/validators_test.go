package validators

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/models"
)

func validForm() RegistrationForm {
	return RegistrationForm{
		Name:            "Ana",
		Email:           "ana@findcut.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            models.RoleClient,
	}
}

func TestValidateRegistration(t *testing.T) {
	assert.NoError(t, ValidateRegistration(validForm()))

	cases := map[string]struct {
		mutate func(*RegistrationForm)
		code   string
	}{
		"missing name":   {func(f *RegistrationForm) { f.Name = "  " }, httperr.CodeMissingName},
		"bad email":      {func(f *RegistrationForm) { f.Email = "ana@" }, httperr.CodeInvalidEmail},
		"short password": {func(f *RegistrationForm) { f.Password, f.ConfirmPassword = "123", "123" }, httperr.CodePasswordTooShort},
		"mismatch":       {func(f *RegistrationForm) { f.ConfirmPassword = "other12" }, httperr.CodePasswordMismatch},
		"bad role":       {func(f *RegistrationForm) { f.Role = "ADMIN" }, httperr.CodeInvalidRole},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := validForm()
			tc.mutate(&f)
			err := ValidateRegistration(f)
			assert.True(t, httperr.IsBusiness(err, tc.code), "got %v", err)
		})
	}
}

func TestValidateForms(t *testing.T) {
	assert.NoError(t, ValidateBarbershop("Central", "Rua A, 10"))
	assert.True(t, httperr.IsBusiness(ValidateBarbershop("Central", ""), httperr.CodeMissingShopFields))
	assert.NoError(t, ValidateService("Barba"))
	assert.True(t, httperr.IsBusiness(ValidateService(" "), httperr.CodeMissingServiceName))
}

func TestIsEmailFormatValid(t *testing.T) {
	assert.True(t, IsEmailFormatValid("joao@barbearia.com.br"))
	assert.False(t, IsEmailFormatValid("João <joao@barbearia.com>"))
	assert.False(t, IsEmailFormatValid("joao@localhost"))
	assert.False(t, IsEmailFormatValid(""))
}

type fakeResolver struct {
	mx  map[string]bool
	ips map[string]bool
}

func (f fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if f.mx[name] {
		return []*net.MX{{Host: "mx." + name}}, nil
	}
	return nil, errors.New("no mx")
}

func (f fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	if f.ips[host] {
		return []net.IPAddr{{IP: net.IPv4(127, 0, 0, 1)}}, nil
	}
	return nil, errors.New("no ip")
}

func TestIsEmailDomainValid(t *testing.T) {
	r := fakeResolver{
		mx:  map[string]bool{"mail.com": true},
		ips: map[string]bool{"site.com": true},
	}
	ctx := context.Background()

	assert.True(t, IsEmailDomainValid(ctx, r, "a@mail.com"))
	assert.True(t, IsEmailDomainValid(ctx, r, "a@site.com"))
	assert.False(t, IsEmailDomainValid(ctx, r, "a@nada.com"))
	assert.False(t, IsEmailDomainValid(ctx, r, "a@"))
}
