package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"postgen/internal/config"
	"postgen/internal/post"
)

// DefaultSystemPromptTemplate воспроизводит исходный промпт автора LinkedIn-постов.
const DefaultSystemPromptTemplate = `You are a professional LinkedIn post writer.
Create a high-quality, engaging LinkedIn post{{if .Topic}} about {{.Topic}}{{end}}
with a {{.Tone}} tone that is {{.Length}} in length.
The post should be well-structured with appropriate line breaks,
include hashtags if relevant, and be ready to copy-paste into LinkedIn.
Only return the post content, nothing else.`

// Builder собирает ModelRequest из пользовательского запроса.
type Builder struct {
	tmpl          *template.Template
	model         string
	fallbackModel string
	temperature   float64
	maxTokens     int
}

type templateData struct {
	Topic  string
	Tone   string
	Length string
}

// New разбирает шаблон системного промпта. Пустой шаблон заменяется DefaultSystemPromptTemplate.
func New(cfg config.GenerationConfig) (*Builder, error) {
	text := cfg.SystemPromptTemplate
	if strings.TrimSpace(text) == "" {
		text = DefaultSystemPromptTemplate
	}
	tmpl, err := template.New("system").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse system prompt template: %w", err)
	}
	// Пробный рендер ловит ссылки на несуществующие поля ещё при старте.
	if err := tmpl.Execute(&strings.Builder{}, templateData{Topic: "t", Tone: "t", Length: "t"}); err != nil {
		return nil, fmt.Errorf("render system prompt template: %w", err)
	}
	return &Builder{
		tmpl:          tmpl,
		model:         cfg.ModelID,
		fallbackModel: cfg.FallbackModelID,
		temperature:   cfg.Temperature,
		maxTokens:     cfg.MaxTokens,
	}, nil
}

// Build не имеет побочных эффектов; пользовательский промпт передаётся без изменений.
func (b *Builder) Build(req post.GenerationRequest) post.ModelRequest {
	return post.ModelRequest{
		SystemPrompt:  b.System(req),
		UserPrompt:    req.RawPrompt,
		Model:         b.model,
		FallbackModel: b.fallbackModel,
		Temperature:   b.temperature,
		MaxTokens:     b.maxTokens,
	}
}

// System рендерит системный промпт для запроса.
func (b *Builder) System(req post.GenerationRequest) string {
	var sb strings.Builder
	data := templateData{
		Topic:  strings.TrimSpace(req.Topic),
		Tone:   string(req.Tone),
		Length: string(req.Length),
	}
	// Шаблон проверен в New, данные всегда одной формы.
	if err := b.tmpl.Execute(&sb, data); err != nil {
		return ""
	}
	return sb.String()
}
