package llm

import (
	"context"
	"log/slog"
	"time"

	"postgen/internal/post"
)

// Client выполняет запрос в две ступени: основной транспорт, затем
// ровно одна резервная попытка. Других повторов нет.
type Client struct {
	primary  Transport
	fallback Transport
	observer Observer
	logger   *slog.Logger
}

type ClientConfig struct {
	Primary  Transport
	Fallback Transport
	Observer Observer
	Logger   *slog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	return &Client{
		primary:  cfg.Primary,
		fallback: cfg.Fallback,
		observer: cfg.Observer,
		logger:   cfg.Logger,
	}
}

// Complete возвращает текст модели или *GenerationFailedError.
func (c *Client) Complete(ctx context.Context, req post.ModelRequest, credential string) (Result, error) {
	call := Call{
		Model:        req.Model,
		SystemPrompt: req.SystemPrompt,
		UserPrompt:   req.UserPrompt,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		Credential:   credential,
	}

	first := c.attempt(ctx, TierPrimary, c.primary, call)
	if first.OK() {
		return Result{Text: first.Text, Model: first.Model}, nil
	}

	primaryErr := &TransportError{Transport: transportName(c.primary), Model: call.Model, Cause: first.Err}
	if c.logger != nil {
		c.logger.Warn("primary transport failed, using fallback",
			slog.String("transport", primaryErr.Transport),
			slog.String("model", call.Model),
			slog.String("error", first.Err.Error()))
	}

	if err := ctx.Err(); err != nil {
		return Result{}, &GenerationFailedError{Primary: primaryErr, Fallback: err}
	}

	if req.FallbackModel != "" {
		call.Model = req.FallbackModel
	}
	second := c.attempt(ctx, TierFallback, c.fallback, call)
	if second.OK() {
		return Result{Text: second.Text, Model: second.Model, UsedFallback: true}, nil
	}

	return Result{}, &GenerationFailedError{
		Primary:  primaryErr,
		Fallback: &TransportError{Transport: transportName(c.fallback), Model: call.Model, Cause: second.Err},
	}
}

func (c *Client) attempt(ctx context.Context, tier Tier, t Transport, call Call) Attempt {
	a := Attempt{Tier: tier, Model: call.Model}
	if t == nil {
		a.Err = errNoTransport
		return a
	}

	start := time.Now()
	a.Text, a.Err = t.Complete(ctx, call)
	a.Duration = time.Since(start)
	if a.Err == nil && a.Text == "" {
		a.Err = ErrEmptyResponse
	}

	if c.observer != nil {
		c.observer.ObserveAttempt(a)
	}
	return a
}

func transportName(t Transport) string {
	if t == nil {
		return "none"
	}
	return t.Name()
}
