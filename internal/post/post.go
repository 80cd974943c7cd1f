package post

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyPrompt   = errors.New("prompt is required")
	ErrUnknownTone   = errors.New("unknown tone")
	ErrUnknownLength = errors.New("unknown length")
)

// Tone задаёт интонацию поста.
type Tone string

const (
	ToneProfessional      Tone = "professional"
	ToneCasual            Tone = "casual"
	ToneEnthusiastic      Tone = "enthusiastic"
	ToneFormal            Tone = "formal"
	ToneThoughtLeadership Tone = "thought-leadership"
)

// Tones перечисляет поддерживаемые интонации в порядке отображения.
var Tones = []Tone{ToneProfessional, ToneCasual, ToneEnthusiastic, ToneFormal, ToneThoughtLeadership}

// Length задаёт желаемый объём поста.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

var Lengths = []Length{LengthShort, LengthMedium, LengthLong}

const (
	DefaultTone   = ToneProfessional
	DefaultLength = LengthMedium
)

// ParseTone разбирает строку в Tone. Пустая строка даёт значение по умолчанию.
func ParseTone(value string) (Tone, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DefaultTone, nil
	}
	for _, t := range Tones {
		if string(t) == value {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTone, value)
}

// ParseLength разбирает строку в Length. Пустая строка даёт значение по умолчанию.
func ParseLength(value string) (Length, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DefaultLength, nil
	}
	for _, l := range Lengths {
		if string(l) == value {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLength, value)
}

// Label возвращает человекочитаемое название интонации.
func (t Tone) Label() string {
	switch t {
	case ToneThoughtLeadership:
		return "Thought Leadership"
	case "":
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

func (l Length) Label() string {
	if l == "" {
		return ""
	}
	s := string(l)
	return strings.ToUpper(s[:1]) + s[1:]
}

// GenerationRequest описывает одну отправку формы пользователем.
// Создаётся заново на каждую отправку и после создания не меняется.
type GenerationRequest struct {
	RawPrompt string
	Topic     string
	Tone      Tone
	Length    Length
}

// NewRequest валидирует ввод и применяет значения по умолчанию для tone и length.
func NewRequest(prompt, topic, tone, length string) (GenerationRequest, error) {
	if strings.TrimSpace(prompt) == "" {
		return GenerationRequest{}, ErrEmptyPrompt
	}
	parsedTone, err := ParseTone(tone)
	if err != nil {
		return GenerationRequest{}, err
	}
	parsedLength, err := ParseLength(length)
	if err != nil {
		return GenerationRequest{}, err
	}
	return GenerationRequest{
		RawPrompt: prompt,
		Topic:     strings.TrimSpace(topic),
		Tone:      parsedTone,
		Length:    parsedLength,
	}, nil
}

// ModelRequest полностью выводится из GenerationRequest.
type ModelRequest struct {
	SystemPrompt  string
	UserPrompt    string
	Model         string
	FallbackModel string
	Temperature   float64
	MaxTokens     int
}

// DisplayPost хранит очищенный текст, готовый к показу.
type DisplayPost struct {
	Text         string
	Sequence     uint64
	Model        string
	UsedFallback bool
}
