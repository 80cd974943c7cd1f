package llm

import (
	"context"
	"time"
)

// Transport доставляет запрос до провайдера одним способом.
type Transport interface {
	Name() string
	Complete(ctx context.Context, call Call) (string, error)
}

// Call — всё, что нужно транспорту для одного запроса к chat/completions.
type Call struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
	Credential   string
}

// Tier обозначает ступень в последовательности попыток.
type Tier string

const (
	TierPrimary  Tier = "primary"
	TierFallback Tier = "fallback"
)

// Attempt описывает одну попытку: либо Text, либо Err.
type Attempt struct {
	Tier     Tier
	Model    string
	Text     string
	Err      error
	Duration time.Duration
}

func (a Attempt) OK() bool {
	return a.Err == nil
}

// Observer получает каждую завершённую попытку (метрики, логи).
type Observer interface {
	ObserveAttempt(attempt Attempt)
}

// Result — успешный ответ модели.
type Result struct {
	Text         string
	Model        string
	UsedFallback bool
}
