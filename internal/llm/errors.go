package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidModel     = errors.New("model is required")
	ErrMissingAPIKey    = errors.New("api key is required")
	ErrEmptyResponse    = errors.New("empty response from model")
	ErrGenerationFailed = errors.New("generation failed")

	errNoTransport = errors.New("transport is not configured")
)

// APIError — ответ провайдера с не-2xx статусом.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider status %d", e.Status)
	}
	return fmt.Sprintf("provider status %d: %s", e.Status, e.Message)
}

// TransportError оборачивает сбой одной попытки.
type TransportError struct {
	Transport string
	Model     string
	Cause     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport (%s): %v", e.Transport, e.Model, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// GenerationFailedError — обе попытки завершились ошибкой.
type GenerationFailedError struct {
	Primary  error
	Fallback error
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("generation failed: primary: %v; fallback: %v", e.Primary, e.Fallback)
}

func (e *GenerationFailedError) Unwrap() []error {
	return []error{ErrGenerationFailed, e.Primary, e.Fallback}
}

// apiErrorFromBody строит APIError, беря текст из поля message тела ответа.
// Поддерживаются формы {"message": "..."} и {"error": {"message": "..."}}.
func apiErrorFromBody(status int, body []byte) *APIError {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Message
		if msg == "" && len(payload.Error) > 0 {
			var nested struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(payload.Error, &nested); err == nil {
				msg = nested.Message
			} else {
				var plain string
				if err := json.Unmarshal(payload.Error, &plain); err == nil {
					msg = plain
				}
			}
		}
	}
	if msg == "" {
		msg = "failed to generate post"
	}
	return &APIError{Status: status, Message: strings.TrimSpace(msg)}
}
