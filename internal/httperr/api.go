package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// GenericMessage é usado quando a falha não veio de uma resposta HTTP
// (rede fora, timeout, JSON quebrado).
const GenericMessage = "Algo deu errado. Tente novamente."

// APIError representa uma resposta não-2xx da API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Detail  string
	Body    string
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	case e.Detail != "":
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Detail)
	case e.Body != "":
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Body)
	default:
		return fmt.Sprintf("api: status %d", e.Status)
	}
}

// Unauthorized indica falha com cara de sessão inválida.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"error_code"`
}

// FromResponse monta o APIError a partir do corpo da resposta.
// Aceita {message}, {error} e {error_code, message}.
func FromResponse(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		apiErr.Message = strings.TrimSpace(eb.Message)
		apiErr.Detail = strings.TrimSpace(eb.Error)
		apiErr.Code = eb.Code
		if apiErr.Code == "" {
			apiErr.Code = apiErr.Detail
		}
		return apiErr
	}

	raw := strings.TrimSpace(string(body))
	if len(raw) > 300 {
		raw = raw[:300]
	}
	apiErr.Body = raw
	return apiErr
}

// MessageOf traduz um erro em texto para o usuário: message, depois error,
// depois o fallback do container. Erros de validação local usam o próprio texto.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var be BusinessError
	if errors.As(err, &be) {
		return be.Message()
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return fallback
	}

	return GenericMessage
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Unauthorized()
	}
	return false
}
