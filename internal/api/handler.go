package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"postgen/internal/credential"
	"postgen/internal/generator"
	"postgen/internal/httpserver"
	"postgen/internal/post"
	"postgen/internal/share"
)

const maxBodyBytes = 64 << 10

type Generator interface {
	Generate(ctx context.Context, req post.GenerationRequest) (post.DisplayPost, error)
	Busy() bool
	Snapshot() generator.Snapshot
}

type Credentials interface {
	Save(value string) error
	Clear() error
	Present() bool
}

type Deps struct {
	Generator   Generator
	Credentials Credentials
	Logger      *slog.Logger
}

// Handler — JSON API, через которое веб-страница управляет генерацией.
type Handler struct {
	gen    Generator
	creds  Credentials
	logger *slog.Logger
}

func NewHandler(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		gen:    deps.Generator,
		creds:  deps.Credentials,
		logger: logger,
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Topic  string `json:"topic"`
	Tone   string `json:"tone"`
	Length string `json:"length"`
}

type generateResponse struct {
	Post         string `json:"post"`
	Sequence     uint64 `json:"sequence"`
	Model        string `json:"model"`
	UsedFallback bool   `json:"used_fallback"`
	ShareURL     string `json:"share_url,omitempty"`
}

// Generate обрабатывает POST /api/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	if err := decodeJSON(w, r, &body); err != nil {
		httpserver.WriteJSONError(w, http.StatusBadRequest, "bad_request", "cannot parse request body")
		return
	}

	req, err := post.NewRequest(body.Prompt, body.Topic, body.Tone, body.Length)
	if err != nil {
		httpserver.WriteJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if h.gen.Busy() {
		httpserver.WriteJSONError(w, http.StatusConflict, "busy", "a post is already being generated")
		return
	}

	display, err := h.gen.Generate(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, generator.ErrMissingCredential):
		httpserver.WriteJSONError(w, http.StatusUnauthorized, "missing_credential", "API key is required")
		return
	case errors.Is(err, generator.ErrSuperseded):
		httpserver.WriteJSONError(w, http.StatusConflict, "superseded", "request was superseded by a newer one")
		return
	default:
		httpserver.WriteJSONError(w, http.StatusBadGateway, "generation_failed", generator.GenericFailureMessage)
		return
	}

	httpserver.WriteJSON(w, http.StatusOK, generateResponse{
		Post:         display.Text,
		Sequence:     display.Sequence,
		Model:        display.Model,
		UsedFallback: display.UsedFallback,
		ShareURL:     share.LinkedInURL(display.Text),
	})
}

type credentialRequest struct {
	APIKey string `json:"api_key"`
}

type credentialStatus struct {
	Present bool `json:"present"`
}

// GetCredential сообщает только факт наличия ключа.
func (h *Handler) GetCredential(w http.ResponseWriter, r *http.Request) {
	httpserver.WriteJSON(w, http.StatusOK, credentialStatus{Present: h.creds.Present()})
}

func (h *Handler) PutCredential(w http.ResponseWriter, r *http.Request) {
	var body credentialRequest
	if err := decodeJSON(w, r, &body); err != nil {
		httpserver.WriteJSONError(w, http.StatusBadRequest, "bad_request", "cannot parse request body")
		return
	}
	if err := h.creds.Save(body.APIKey); err != nil {
		if errors.Is(err, credential.ErrEmptyCredential) {
			httpserver.WriteJSONError(w, http.StatusBadRequest, "invalid_request", "api_key is required")
			return
		}
		h.logger.Error("save credential failed", slog.String("error", err.Error()))
		httpserver.WriteJSONError(w, http.StatusInternalServerError, "internal", "cannot save API key")
		return
	}
	h.logger.Info("credential saved")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	if err := h.creds.Clear(); err != nil {
		h.logger.Error("clear credential failed", slog.String("error", err.Error()))
		httpserver.WriteJSONError(w, http.StatusInternalServerError, "internal", "cannot clear API key")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type stateResponse struct {
	generator.Snapshot
	Post     string `json:"post,omitempty"`
	ShareURL string `json:"share_url,omitempty"`
}

// State отдаёт снимок оркестратора, чтобы страница могла блокировать кнопку.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	snap := h.gen.Snapshot()
	resp := stateResponse{Snapshot: snap}
	if snap.LastPost != nil {
		resp.Post = snap.LastPost.Text
		resp.ShareURL = share.LinkedInURL(snap.LastPost.Text)
	}
	httpserver.WriteJSON(w, http.StatusOK, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
