package httperr

import "errors"

// Códigos de validação local (nunca enviados ao servidor).
const (
	CodeAuthRequired     = "auth_required"
	CodeMissingDateTime  = "missing_datetime"
	CodeInvalidDateTime  = "invalid_datetime"
	CodePastDateTime     = "past_datetime"
	CodeNoBarberSelected = "no_barber_selected"
	CodeSlotUnavailable  = "slot_unavailable"
	CodeWorkflowClosed   = "workflow_closed"
	CodeInvalidState     = "invalid_state"

	CodeMissingName        = "missing_name"
	CodeInvalidEmail       = "invalid_email"
	CodePasswordTooShort   = "password_too_short"
	CodePasswordMismatch   = "password_mismatch"
	CodeInvalidRole        = "invalid_role"
	CodeMissingShopFields  = "missing_shop_fields"
	CodeMissingServiceName = "missing_service_name"
)

var messages = map[string]string{
	CodeAuthRequired:     "Entre na sua conta para agendar.",
	CodeMissingDateTime:  "Informe a data e horário desejados.",
	CodeInvalidDateTime:  "Data e horário inválidos.",
	CodePastDateTime:     "Escolha um horário no futuro.",
	CodeNoBarberSelected: "Selecione um barbeiro.",
	CodeSlotUnavailable:  "Horário indisponível para este barbeiro.",
	CodeWorkflowClosed:   "O agendamento não está aberto.",
	CodeInvalidState:     "Este agendamento não pode mudar para esse status.",

	CodeMissingName:        "Informe seu nome.",
	CodeInvalidEmail:       "Informe um e-mail válido.",
	CodePasswordTooShort:   "A senha precisa ter pelo menos 6 caracteres.",
	CodePasswordMismatch:   "As senhas precisam ser iguais.",
	CodeInvalidRole:        "Perfil inválido.",
	CodeMissingShopFields:  "Informe pelo menos nome e endereço.",
	CodeMissingServiceName: "Informe o nome do serviço.",
}

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

// Message devolve o texto exibido ao usuário para o código.
func (e BusinessError) Message() string {
	return Message(e.Code)
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func Message(code string) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return code
}
