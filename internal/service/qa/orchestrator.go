package qa

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/climaqa/internal/core"
	"github.com/sandevgo/climaqa/internal/observability/metrics"
	"github.com/sandevgo/climaqa/internal/service/memory"
	"github.com/sandevgo/climaqa/pkg/log"
)

type Config struct {
	TopK      int
	Threshold float64
	// Timeout bounds a whole ask, 0 disables it.
	Timeout time.Duration
}

// Orchestrator runs the ask state machine.
type Orchestrator struct {
	cfg        Config
	classifier *Classifier
	retriever  *Retriever
	roles      *RoleAdapter
	generator  *Generator
	history    *memory.Store
	locker     core.SessionLocker
	metrics    *metrics.PipelineMetrics

	now          func() time.Time
	onTransition func(from, to State)
}

func NewOrchestrator(
	cfg Config,
	classifier *Classifier,
	retriever *Retriever,
	roles *RoleAdapter,
	generator *Generator,
	history *memory.Store,
	locker core.SessionLocker,
	pm *metrics.PipelineMetrics,
) *Orchestrator {
	if locker == nil {
		locker = memory.NewKeyedLocker()
	}
	return &Orchestrator{
		cfg:        cfg,
		classifier: classifier,
		retriever:  retriever,
		roles:      roles,
		generator:  generator,
		history:    history,
		locker:     locker,
		metrics:    pm,
		now:        time.Now,
	}
}

// run is the state carried between steps of one ask.
type run struct {
	sessionID   string
	role        string
	question    string
	instruction string
	history     memory.History
	label       core.Label
	passages    []core.Passage
	answer      string
	metadata    []core.AnswerMetadata
	err         error
}

func (r *run) fail(stage State, kind, err error) State {
	r.err = core.NewPipelineError(stage.String(), kind, err)
	return StateFailed
}

// Ask answers question within sessionID. Any failure is a *core.PipelineError
// matching core.ErrServiceUnavailable, and leaves the history untouched.
func (o *Orchestrator) Ask(ctx context.Context, sessionID, role, question string) (core.Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return core.Result{}, core.ErrInvalidQuestion
	}

	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	ctx = log.WithStr(ctx, "session", sessionID)
	logger := log.FromCtx(ctx)

	unlock, err := o.locker.Lock(ctx, sessionID)
	if err != nil {
		o.metrics.ObserveAsk("", "failed")
		return core.Result{}, core.NewPipelineError(StateStart.String(), core.ErrHistory, fmt.Errorf("lock session: %w", err))
	}
	defer unlock()

	r := &run{sessionID: sessionID, role: role, question: question}

	state := StateStart
	for !state.Terminal() {
		started := time.Now()
		next := o.step(ctx, r, state)
		o.metrics.ObserveStage(state.String(), time.Since(started).Seconds())

		logger.Debug().
			Str("state", state.String()).
			Str("next", next.String()).
			Str("label", string(r.label)).
			Int("passages", len(r.passages)).
			Msg("pipeline transition")

		if o.onTransition != nil {
			o.onTransition(state, next)
		}
		state = next
	}

	if state == StateFailed {
		logger.Error().Err(r.err).Msg("ask failed")
		o.metrics.ObserveAsk(string(r.label), "failed")
		return core.Result{}, r.err
	}

	outcome := "answered"
	if r.label == core.LabelSpecific && len(r.passages) == 0 {
		outcome = "fallback"
	}
	o.metrics.ObserveAsk(string(r.label), outcome)

	return core.Result{
		Answer:   r.answer,
		Metadata: r.metadata,
		Label:    r.label,
	}, nil
}

func (o *Orchestrator) step(ctx context.Context, r *run, s State) State {
	switch s {
	case StateStart:
		h, err := o.history.Load(ctx, r.sessionID)
		if err != nil {
			return r.fail(s, core.ErrHistory, err)
		}
		r.history = h
		r.instruction = o.roles.InstructionFor(r.role)
		return StateClassifying

	case StateClassifying:
		label, err := o.classifier.Classify(ctx, r.question)
		if err != nil {
			return r.fail(s, core.ErrClassification, err)
		}
		r.label = label
		if label == core.LabelGeneral {
			return StateGeneratingDirect
		}
		return StateRetrieving

	case StateGeneratingDirect:
		answer, err := o.generator.Generate(ctx, GenerateRequest{
			Question:    r.question,
			Instruction: r.instruction,
			History:     r.history,
		})
		if err != nil {
			return r.fail(s, core.ErrGeneration, err)
		}
		r.answer = answer
		r.metadata = []core.AnswerMetadata{}
		return StateFinalizing

	case StateRetrieving:
		passages, err := o.retriever.Retrieve(ctx, r.question, o.cfg.TopK, o.cfg.Threshold)
		if err != nil {
			return r.fail(s, core.ErrRetrieval, err)
		}
		o.metrics.ObserveRetrieved(len(passages))
		r.passages = passages
		if len(passages) == 0 {
			return StateFallbackReady
		}
		return StateGeneratingGrounded

	case StateFallbackReady:
		r.answer = core.FallbackAnswer
		r.metadata = []core.AnswerMetadata{}
		return StateFinalizing

	case StateGeneratingGrounded:
		answer, err := o.generator.Generate(ctx, GenerateRequest{
			Question:    r.question,
			Instruction: r.instruction,
			Context:     r.passages,
			History:     r.history,
		})
		if err != nil {
			return r.fail(s, core.ErrGeneration, err)
		}
		r.answer = answer
		// Every retrieved passage is cited, not only the one quoted in the prompt.
		r.metadata = metadataFor(r.passages)
		return StateFinalizing

	case StateFinalizing:
		// Committing is the point of no return; a cancelled ask stops here.
		if err := ctx.Err(); err != nil {
			return r.fail(s, core.ErrHistory, err)
		}
		turn := core.Turn{
			Question:  r.question,
			Answer:    r.answer,
			Metadata:  r.metadata,
			CreatedAt: o.now().UTC(),
		}
		if err := o.history.Commit(ctx, r.sessionID, turn); err != nil {
			return r.fail(s, core.ErrHistory, err)
		}
		r.history = r.history.Append(turn)
		return StateDone
	}

	return r.fail(s, core.ErrServiceUnavailable, fmt.Errorf("no transition from state %s", s))
}

func metadataFor(passages []core.Passage) []core.AnswerMetadata {
	out := make([]core.AnswerMetadata, 0, len(passages))
	for _, p := range passages {
		m := core.AnswerMetadata{SourceFile: p.SourceFile}
		if p.PageNumber > 0 {
			m.PageNumber = strconv.Itoa(p.PageNumber)
		}
		out = append(out, m)
	}
	return out
}
