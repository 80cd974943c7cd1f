package generator

import (
	"errors"

	"postgen/internal/llm"
)

// GenericFailureMessage показывается пользователю вместо технических деталей.
const GenericFailureMessage = "Please check your API key and try again."

var (
	// ErrMissingCredential — ключа нет; это не сбой, а переход к вводу ключа.
	ErrMissingCredential = errors.New("missing credential")
	// ErrSuperseded: после запроса был выдан более новый, результат устарел.
	ErrSuperseded = errors.New("generation superseded")
	// ErrGenerationFailed совпадает с llm.ErrGenerationFailed для errors.Is.
	ErrGenerationFailed = llm.ErrGenerationFailed
)

// UserError несёт безопасное для показа сообщение; причина доступна только через errors.As/Is.
type UserError struct {
	Message string
	cause   error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() []error {
	return []error{ErrGenerationFailed, e.cause}
}
