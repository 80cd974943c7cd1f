package generator

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"postgen/internal/llm"
	"postgen/internal/metrics"
	"postgen/internal/post"
	"postgen/internal/sanitize"
)

// PromptBuilder собирает запрос к модели.
type PromptBuilder interface {
	Build(req post.GenerationRequest) post.ModelRequest
}

// Completer выполняет запрос к модели с резервной попыткой.
type Completer interface {
	Complete(ctx context.Context, req post.ModelRequest, credential string) (llm.Result, error)
}

// CredentialSource отдаёт текущий ключ по значению.
type CredentialSource interface {
	Current() (string, bool)
}

// CredentialPrompter просит пользователя ввести ключ.
type CredentialPrompter interface {
	RequestCredential(ctx context.Context)
}

// Recorder принимает итоги генераций (метрики).
type Recorder interface {
	ObserveGeneration(outcome string, d time.Duration)
}

// Snapshot — наблюдаемое состояние для фронтенда.
type Snapshot struct {
	State       State            `json:"state"`
	Busy        bool             `json:"busy"`
	Sequence    uint64           `json:"sequence"`
	LastOutcome State            `json:"last_outcome"`
	LastPost    *post.DisplayPost `json:"-"`
}

// Generator создаётся один на процесс. Владеет флагом занятости и номером
// последнего выданного запроса. Параллельные вызовы Generate не блокируются:
// не допускать повторной отправки во время генерации должен фронтенд по Busy().
type Generator struct {
	prompts   PromptBuilder
	completer Completer
	creds     CredentialSource
	prompter  CredentialPrompter
	recorder  Recorder
	logger    *slog.Logger
	onState   func(State)

	state       atomic.Int32
	lastOutcome atomic.Int32
	busy        atomic.Bool
	latest      atomic.Uint64

	mu       sync.RWMutex
	lastPost *post.DisplayPost
}

type Deps struct {
	Prompts     PromptBuilder
	Completer   Completer
	Credentials CredentialSource
	Prompter    CredentialPrompter
	Recorder    Recorder
	Logger      *slog.Logger
	// OnState вызывается синхронно при каждом переходе.
	OnState func(State)
}

func New(deps Deps) *Generator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		prompts:   deps.Prompts,
		completer: deps.Completer,
		creds:     deps.Credentials,
		prompter:  deps.Prompter,
		recorder:  deps.Recorder,
		logger:    logger,
		onState:   deps.OnState,
	}
}

// Generate проводит один запрос через все состояния и возвращает готовый пост.
// Ошибки: ErrMissingCredential, ErrSuperseded или *UserError с общим текстом.
func (g *Generator) Generate(ctx context.Context, req post.GenerationRequest) (post.DisplayPost, error) {
	started := time.Now()
	g.transition(StateValidating)

	credential, ok := g.creds.Current()
	if !ok {
		g.transition(StateAwaitingCredential)
		if g.prompter != nil {
			g.prompter.RequestCredential(ctx)
		}
		g.transition(StateIdle)
		g.record(metrics.OutcomeMissingCredential, time.Since(started))
		return post.DisplayPost{}, ErrMissingCredential
	}

	seq := g.latest.Add(1)
	g.busy.Store(true)
	g.transition(StateGenerating)

	modelReq := g.prompts.Build(req)
	res, err := g.completer.Complete(ctx, modelReq, credential)

	if g.latest.Load() != seq {
		g.logger.Info("discarding superseded generation", slog.Uint64("sequence", seq))
		g.record(metrics.OutcomeSuperseded, time.Since(started))
		return post.DisplayPost{}, ErrSuperseded
	}

	if err != nil {
		g.logger.Error("generation failed",
			slog.Uint64("sequence", seq),
			slog.String("model", modelReq.Model),
			slog.String("error", err.Error()))
		g.finish(StateFailed)
		g.record(metrics.OutcomeFailed, time.Since(started))
		return post.DisplayPost{}, &UserError{Message: GenericFailureMessage, cause: err}
	}

	display := post.DisplayPost{
		Text:         sanitize.Text(res.Text),
		Sequence:     seq,
		Model:        res.Model,
		UsedFallback: res.UsedFallback,
	}

	g.mu.Lock()
	g.lastPost = &display
	g.mu.Unlock()

	g.logger.Info("post generated",
		slog.Uint64("sequence", seq),
		slog.String("model", res.Model),
		slog.Bool("fallback", res.UsedFallback),
		slog.Int("chars", len(display.Text)))
	g.finish(StateSucceeded)
	g.record(metrics.OutcomeSucceeded, time.Since(started))
	return display, nil
}

// Abandon помечает текущий запрос устаревшим: его поздний результат будет
// отброшен, флаг занятости снимается сразу.
func (g *Generator) Abandon() {
	if !g.busy.Load() {
		return
	}
	g.latest.Add(1)
	g.busy.Store(false)
	g.transition(StateIdle)
}

// Busy сообщает, идёт ли генерация.
func (g *Generator) Busy() bool {
	return g.busy.Load()
}

func (g *Generator) State() State {
	return State(g.state.Load())
}

func (g *Generator) Snapshot() Snapshot {
	g.mu.RLock()
	last := g.lastPost
	g.mu.RUnlock()

	return Snapshot{
		State:       g.State(),
		Busy:        g.busy.Load(),
		Sequence:    g.latest.Load(),
		LastOutcome: State(g.lastOutcome.Load()),
		LastPost:    last,
	}
}

// finish фиксирует исход, снимает флаг занятости и возвращает автомат в Idle.
func (g *Generator) finish(outcome State) {
	g.lastOutcome.Store(int32(outcome))
	g.transition(outcome)
	g.busy.Store(false)
	g.transition(StateIdle)
}

func (g *Generator) transition(s State) {
	g.state.Store(int32(s))
	if g.onState != nil {
		g.onState(s)
	}
}

func (g *Generator) record(outcome string, d time.Duration) {
	if g.recorder != nil {
		g.recorder.ObserveGeneration(outcome, d)
	}
}
