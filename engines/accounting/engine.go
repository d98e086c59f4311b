package accounting

import (
	"context"
	"fmt"

	"github.com/Majorsoln/BOS-sub001/pkg/clock"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/engine"
	"github.com/Majorsoln/BOS-sub001/pkg/events"
	"github.com/Majorsoln/BOS-sub001/pkg/projection"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
	"github.com/Majorsoln/BOS-sub001/pkg/store"
)

const (
	CommandPostEntry = "accounting.journal.post.request"

	EventEntryPosted = "accounting.journal.posted.v1"
)

// Engine is the double-entry journal business engine.
type Engine struct {
	sink     store.Sink
	registry *events.TypeRegistry
	clock    clock.Clock
	trial    *TrialBalance
}

func New(sink store.Sink, registry *events.TypeRegistry, c clock.Clock) *Engine {
	if c == nil {
		c = clock.Real()
	}
	return &Engine{sink: sink, registry: registry, clock: c, trial: NewTrialBalance()}
}

func (e *Engine) Name() string { return "accounting" }

func (e *Engine) CommandTypes() []string { return []string{CommandPostEntry} }

func (e *Engine) EventTypes() []string { return []string{EventEntryPosted} }

func (e *Engine) Projection() projection.Store { return e.trial }

func (e *Engine) Subscriptions() []engine.Subscription { return nil }

func (e *Engine) Handle(ctx context.Context, cmd command.Command) (engine.ExecutionResult, error) {
	switch cmd.Intent() {
	case CommandPostEntry:
		return e.handlePostEntry(ctx, cmd)
	default:
		return engine.ExecutionResult{}, fmt.Errorf("accounting: unrecognised command intent %q", cmd.Intent())
	}
}

func (e *Engine) handlePostEntry(ctx context.Context, cmd command.Command) (engine.ExecutionResult, error) {
	p := cmd.Payload()
	lines := linesFromCommandPayload(p)
	if len(lines) < 2 {
		return reject(rejection.New(rejection.CodeInvalidCommandStructure, "a journal entry requires at least two lines", "accounting.post_entry")), nil
	}

	totalDebit, totalCredit, ok := balanced(lines)
	if !ok {
		return reject(rejection.New(rejection.CodeUnbalancedEntry, "debits and credits do not balance", "accounting.post_entry")), nil
	}

	linesOut := make([]interface{}, len(lines))
	for i, l := range lines {
		linesOut[i] = map[string]interface{}{
			"account": l.Account,
			"debit":   l.Debit,
			"credit":  l.Credit,
		}
	}

	payload := engine.BasePayload(cmd)
	payload["lines"] = linesOut
	payload["total_debit"] = totalDebit
	payload["total_credit"] = totalCredit
	payload["memo"] = str(p, "memo")

	return e.emit(ctx, cmd, EventEntryPosted, payload)
}

func (e *Engine) emit(ctx context.Context, cmd command.Command, eventType string, payload map[string]interface{}) (engine.ExecutionResult, error) {
	envelope := events.Build(cmd, eventType, payload, e.clock())

	result, err := e.sink.Persist(ctx, envelope, cmd.ScopeRequirement(), e.registry)
	if err != nil {
		return engine.ExecutionResult{}, fmt.Errorf("accounting: persist: %w", err)
	}
	if !result.Accepted {
		return reject(rejection.New(rejection.CodeDuplicateRequest, result.Reason, "accounting.persist")), nil
	}

	e.trial.Apply(eventType, payload)

	return engine.ExecutionResult{
		Accepted:          true,
		EventType:         eventType,
		Envelope:          envelope,
		PersistResult:     result,
		ProjectionApplied: true,
	}, nil
}

func reject(r rejection.Rejection) engine.ExecutionResult {
	return engine.ExecutionResult{Accepted: false, Rejection: r}
}

func linesFromCommandPayload(p map[string]interface{}) []Line {
	raw, _ := p["lines"].([]interface{})
	out := make([]Line, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, Line{
			Account: str(m, "account"),
			Debit:   i64(m, "debit"),
			Credit:  i64(m, "credit"),
		})
	}
	return out
}

func str(p map[string]interface{}, key string) string {
	v, _ := p[key].(string)
	return v
}

func i64(p map[string]interface{}, key string) int64 {
	switch v := p[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
