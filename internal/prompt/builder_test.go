package prompt

import (
	"testing"

	"postgen/internal/config"
	"postgen/internal/post"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(t *testing.T, tmpl string) *Builder {
	t.Helper()
	cfg := config.DefaultGeneration()
	cfg.FallbackModelID = "mistralai/Mistral-7B-Instruct-v0.2"
	cfg.SystemPromptTemplate = tmpl
	b, err := New(cfg)
	require.NoError(t, err)
	return b
}

func TestBuildPassesUserPromptUnchanged(t *testing.T) {
	b := newBuilder(t, "")
	for _, raw := range []string{"AI in hiring", "  spaced  ", "multi\nline **md** #tag 😀"} {
		req := post.GenerationRequest{RawPrompt: raw, Tone: post.ToneCasual, Length: post.LengthShort}
		assert.Equal(t, raw, b.Build(req).UserPrompt)
	}
}

func TestBuildEmbedsToneLengthAndTopic(t *testing.T) {
	b := newBuilder(t, "")
	req := post.GenerationRequest{
		RawPrompt: "AI in hiring",
		Topic:     "recruiting",
		Tone:      post.ToneEnthusiastic,
		Length:    post.LengthLong,
	}

	mr := b.Build(req)

	assert.Contains(t, mr.SystemPrompt, "LinkedIn post about recruiting")
	assert.Contains(t, mr.SystemPrompt, "with a enthusiastic tone that is long in length")
	assert.Equal(t, config.DefaultModelID, mr.Model)
	assert.Equal(t, "mistralai/Mistral-7B-Instruct-v0.2", mr.FallbackModel)
	assert.Equal(t, 500, mr.MaxTokens)
	assert.InDelta(t, 0.7, mr.Temperature, 1e-9)
}

func TestBuildOmitsTopicClauseWhenEmpty(t *testing.T) {
	b := newBuilder(t, "")
	mr := b.Build(post.GenerationRequest{RawPrompt: "x", Topic: "   ", Tone: post.ToneFormal, Length: post.LengthMedium})

	assert.NotContains(t, mr.SystemPrompt, " about ")
	assert.Contains(t, mr.SystemPrompt, "engaging LinkedIn post\nwith a formal tone")
}

func TestBuildRendersToneOutsideEnum(t *testing.T) {
	b := newBuilder(t, "")
	mr := b.Build(post.GenerationRequest{RawPrompt: "AI in hiring", Tone: post.Tone("bold"), Length: post.LengthShort})
	assert.Contains(t, mr.SystemPrompt, "with a bold tone")
}

func TestCustomTemplate(t *testing.T) {
	b := newBuilder(t, "Write a {{.Length}} {{.Tone}} tweet{{if .Topic}} on {{.Topic}}{{end}}.")
	mr := b.Build(post.GenerationRequest{RawPrompt: "x", Topic: "Go", Tone: post.ToneCasual, Length: post.LengthShort})
	assert.Equal(t, "Write a short casual tweet on Go.", mr.SystemPrompt)
}

func TestNewRejectsBrokenTemplate(t *testing.T) {
	cfg := config.DefaultGeneration()

	cfg.SystemPromptTemplate = "{{if .Topic}}"
	_, err := New(cfg)
	assert.Error(t, err)

	cfg.SystemPromptTemplate = "{{.Audience}}"
	_, err = New(cfg)
	assert.Error(t, err)
}
