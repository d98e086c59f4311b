package cash

import (
	"context"
	"fmt"

	"github.com/Majorsoln/BOS-sub001/pkg/clock"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/engine"
	"github.com/Majorsoln/BOS-sub001/pkg/events"
	"github.com/Majorsoln/BOS-sub001/pkg/finance"
	"github.com/Majorsoln/BOS-sub001/pkg/ledger"
	"github.com/Majorsoln/BOS-sub001/pkg/projection"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
	"github.com/Majorsoln/BOS-sub001/pkg/store"
)

const (
	CommandOpen    = "cash.session.open.request"
	CommandPayment = "cash.session.payment.request"
	CommandClose   = "cash.session.close.request"

	EventSessionOpened   = "cash.session.opened.v1"
	EventPaymentRecorded = "cash.payment.recorded.v1"
	EventSessionClosed   = "cash.session.closed.v1"
)

// Engine is the cash-session business engine.
type Engine struct {
	sink     store.Sink
	registry *events.TypeRegistry
	clock    clock.Clock
	proj     *Projection
	chain    *ledger.Ledger
	floats   finance.Tracker // optional per-drawer float cap; nil means unconstrained
}

// New builds a cash Engine. sink persists accepted events; registry is the
// shared event type registry the dispatcher also holds.
func New(sink store.Sink, registry *events.TypeRegistry, c clock.Clock) *Engine {
	if c == nil {
		c = clock.Real()
	}
	return &Engine{
		sink:     sink,
		registry: registry,
		clock:    c,
		proj:     NewProjection(),
		chain:    ledger.NewLedger(ledger.LedgerTypeCashSession),
	}
}

// WithFloatTracker attaches a per-drawer float cap tracker. Payments
// against a drawer with no budget configured remain unconstrained.
func (e *Engine) WithFloatTracker(t finance.Tracker) *Engine {
	e.floats = t
	return e
}

// Chain exposes the hash-chained append-only log backing this engine's
// accepted events, independent of the projection store.
func (e *Engine) Chain() *ledger.Ledger { return e.chain }

func (e *Engine) Name() string { return "cash" }

func (e *Engine) CommandTypes() []string {
	return []string{CommandOpen, CommandPayment, CommandClose}
}

func (e *Engine) EventTypes() []string {
	return []string{EventSessionOpened, EventPaymentRecorded, EventSessionClosed}
}

func (e *Engine) Projection() projection.Store { return e.proj }

func (e *Engine) Subscriptions() []engine.Subscription { return nil }

func (e *Engine) Handle(ctx context.Context, cmd command.Command) (engine.ExecutionResult, error) {
	switch cmd.Intent() {
	case CommandOpen:
		return e.handleOpen(ctx, cmd)
	case CommandPayment:
		return e.handlePayment(ctx, cmd)
	case CommandClose:
		return e.handleClose(ctx, cmd)
	default:
		return engine.ExecutionResult{}, fmt.Errorf("cash: unrecognised command intent %q", cmd.Intent())
	}
}

func (e *Engine) handleOpen(ctx context.Context, cmd command.Command) (engine.ExecutionResult, error) {
	p := cmd.Payload()
	sessionID := str(p, "session_id")
	if sessionID == "" {
		return reject(rejection.New(rejection.CodeInvalidCommandStructure, "session_id is required", "cash.session_open")), nil
	}
	if _, exists := e.proj.Get(sessionID); exists {
		return reject(rejection.New(rejection.CodeDuplicateRequest, "session already open", "cash.session_open")), nil
	}

	payload := engine.BasePayload(cmd)
	payload["session_id"] = sessionID
	payload["drawer_id"] = str(p, "drawer_id")
	payload["currency"] = str(p, "currency")
	payload["opening_balance"] = i64(p, "opening_balance")

	return e.emit(ctx, cmd, EventSessionOpened, payload)
}

func (e *Engine) handlePayment(ctx context.Context, cmd command.Command) (engine.ExecutionResult, error) {
	p := cmd.Payload()
	sessionID := str(p, "session_id")
	session, exists := e.proj.Get(sessionID)
	if !exists || session.Status != "OPEN" {
		return reject(rejection.New(rejection.CodeSessionNotOpen, "cash session is not open", "cash.session_payment")), nil
	}

	amount := i64(p, "amount")
	if e.floats != nil {
		ok, err := e.floats.Check(session.DrawerID, finance.Money{Currency: session.Currency, AmountMinor: amount})
		if err == nil && !ok {
			return reject(rejection.New(rejection.CodeFloatLimitExceeded, "payment would exceed drawer float limit", "cash.float_cap")), nil
		}
	}

	payload := engine.BasePayload(cmd)
	payload["session_id"] = sessionID
	payload["amount"] = i64(p, "amount")
	payload["method"] = str(p, "method")

	return e.emit(ctx, cmd, EventPaymentRecorded, payload)
}

func (e *Engine) handleClose(ctx context.Context, cmd command.Command) (engine.ExecutionResult, error) {
	p := cmd.Payload()
	sessionID := str(p, "session_id")
	session, exists := e.proj.Get(sessionID)
	if !exists || session.Status != "OPEN" {
		return reject(rejection.New(rejection.CodeSessionNotOpen, "cash session is not open", "cash.session_close")), nil
	}

	payload := engine.BasePayload(cmd)
	payload["session_id"] = sessionID
	payload["closing_balance"] = i64(p, "closing_balance")
	payload["expected_balance"] = i64(p, "expected_balance")

	return e.emit(ctx, cmd, EventSessionClosed, payload)
}

func (e *Engine) emit(ctx context.Context, cmd command.Command, eventType string, payload map[string]interface{}) (engine.ExecutionResult, error) {
	envelope := events.Build(cmd, eventType, payload, e.clock())

	result, err := e.sink.Persist(ctx, envelope, cmd.ScopeRequirement(), e.registry)
	if err != nil {
		return engine.ExecutionResult{}, fmt.Errorf("cash: persist: %w", err)
	}
	if !result.Accepted {
		return reject(rejection.New(rejection.CodeDuplicateRequest, result.Reason, "cash.persist")), nil
	}

	e.proj.Apply(eventType, payload)
	if _, err := e.chain.Append(eventType, cmd.ActorID(), payload); err != nil {
		return engine.ExecutionResult{}, fmt.Errorf("cash: chain append: %w", err)
	}
	if eventType == EventPaymentRecorded && e.floats != nil {
		if s, ok := e.proj.Get(str(payload, "session_id")); ok {
			_ = e.floats.Consume(s.DrawerID, finance.Money{Currency: s.Currency, AmountMinor: i64(payload, "amount")})
		}
	}

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
