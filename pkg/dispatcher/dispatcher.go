// Package dispatcher implements the sole entry point for state change:
// structural/context validation, the guard stack, handler dispatch, and
// outcome recording.
package dispatcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/Majorsoln/BOS-sub001/pkg/audit"
	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/clock"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/engine"
	"github.com/Majorsoln/BOS-sub001/pkg/events"
	"github.com/Majorsoln/BOS-sub001/pkg/guard"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
	"github.com/Majorsoln/BOS-sub001/pkg/security"
)

// Outcome is the terminal result of a dispatch call.
type Outcome struct {
	Accepted        bool
	Event           events.Envelope
	HandlerResult   engine.ExecutionResult
	Rejection       rejection.Rejection
	AnomalySeverity security.Severity
}

// Dispatcher binds a guard configuration and an engine registry. It holds
// no business rules of its own — pure orchestration.
type Dispatcher struct {
	mu          sync.Mutex // guards the engines map
	clock       clock.Clock
	deps        guard.Deps
	providers   guard.Providers
	engines     map[string]engine.Engine // keyed by command type (intent)
	registry    *events.TypeRegistry
	auditLogger audit.Logger
}

// New builds a Dispatcher. registry must be shared with every registered
// engine's event type declarations.
func New(c clock.Clock, deps guard.Deps, p guard.Providers, registry *events.TypeRegistry, auditLogger audit.Logger) *Dispatcher {
	if c == nil {
		c = clock.Real()
	}
	if auditLogger == nil {
		auditLogger = audit.NewLogger()
	}
	return &Dispatcher{
		clock:       c,
		deps:        deps,
		providers:   p,
		engines:     make(map[string]engine.Engine),
		registry:    registry,
		auditLogger: auditLogger,
	}
}

// RegisterEngine wires e's owned command types to e itself and registers
// all of e's declared event types on the shared registry.
func (d *Dispatcher) RegisterEngine(e engine.Engine) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, ct := range e.CommandTypes() {
		d.engines[ct] = e
	}
	for _, et := range e.EventTypes() {
		if err := d.registry.Register(et); err != nil {
			return fmt.Errorf("dispatcher: register event type: %w", err)
		}
	}
	return nil
}

// Dispatch runs the full pipeline for cmd within bizCtx.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd command.Command, bizCtx *bizcontext.BusinessContext) Outcome {
	if r, denied := validateContext(cmd, bizCtx); denied {
		d.recordAudit(ctx, cmd, audit.StatusRejected, r)
		d.recordRejectionAnomaly(cmd)
		return Outcome{Accepted: false, Rejection: r}
	}

	var anomalySeverity security.Severity
	deps := d.deps
	deps.AnomalyOut = &anomalySeverity

	if r, denied := guard.Run(ctx, cmd, bizCtx, deps, d.providers); denied {
		d.recordAudit(ctx, cmd, audit.StatusRejected, r)
		d.recordRejectionAnomaly(cmd)
		return Outcome{Accepted: false, Rejection: r, AnomalySeverity: anomalySeverity}
	}

	e, ok := d.lookupEngine(cmd.Intent())
	if !ok {
		panic(fmt.Sprintf("dispatcher: no handler registered for intent %q", cmd.Intent()))
	}

	result, err := e.Handle(ctx, cmd)
	if err != nil {
		d.recordAudit(ctx, cmd, audit.StatusError, rejection.Rejection{})
		return Outcome{Accepted: false, AnomalySeverity: anomalySeverity}
	}

	if !result.Accepted {
		d.recordAudit(ctx, cmd, audit.StatusRejected, result.Rejection)
		d.recordRejectionAnomaly(cmd)
		return Outcome{Accepted: false, Rejection: result.Rejection, HandlerResult: result, AnomalySeverity: anomalySeverity}
	}

	d.recordAuditAccepted(ctx, cmd, result.Envelope)
	return Outcome{Accepted: true, Event: result.Envelope, HandlerResult: result, AnomalySeverity: anomalySeverity}
}

// recordRejectionAnomaly feeds a rejected command back into the security
// layer as its own activity sample, independent of the Anomaly guard's own
// pre-rejection Record call, so the repeated-rejections rule can see it on
// the actor's next command.
func (d *Dispatcher) recordRejectionAnomaly(cmd command.Command) {
	if d.deps.AnomalyDetector == nil {
		return
	}
	d.deps.AnomalyDetector.Record(cmd.ActorID(), cmd.TenantID(), cmd.BranchID(), cmd.Intent(), true)
}

func (d *Dispatcher) lookupEngine(intent string) (engine.Engine, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.engines[intent]
	return e, ok
}

func validateContext(cmd command.Command, bizCtx *bizcontext.BusinessContext) (rejection.Rejection, bool) {
	if bizCtx == nil || !bizCtx.HasActiveContext() {
		return rejection.New(rejection.CodeNoActiveContext, "no active business context", "context_validation"), true
	}
	switch bizCtx.LifecycleState() {
	case bizcontext.LifecycleSuspended:
		return rejection.New(rejection.CodeBusinessSuspended, "business is suspended", "context_validation"), true
	case bizcontext.LifecycleClosed:
		return rejection.New(rejection.CodeBusinessClosed, "business is closed", "context_validation"), true
	case bizcontext.LifecycleLegalHold:
		return rejection.New(rejection.CodeBusinessLegalHold, "business is under legal hold", "context_validation"), true
	}
	if bizCtx.ActiveBusinessID() != cmd.TenantID() {
		return rejection.New(rejection.CodeBusinessIDMismatch, "command tenant does not match active business", "context_validation"), true
	}
	if cmd.ScopeRequirement() == bizcontext.ScopeBranchRequired && !cmd.HasBranch() {
		return rejection.New(rejection.CodeBranchRequiredMissing, "this command requires an active branch", "context_validation"), true
	}
	if cmd.HasBranch() && !bizCtx.IsBranchInBusiness(cmd.BranchID()) {
		return rejection.New(rejection.CodeBranchNotInBusiness, "branch does not belong to the active business", "context_validation"), true
	}
	return rejection.Rejection{}, false
}

func (d *Dispatcher) recordAudit(ctx context.Context, cmd command.Command, status audit.Status, r rejection.Rejection) {
	_ = d.auditLogger.Record(ctx, audit.Entry{
		ActorID:      cmd.ActorID(),
		ActorType:    string(cmd.ActorKind()),
		Action:       cmd.Intent(),
		ResourceType: cmd.SourceEngine(),
		ResourceID:   cmd.ID(),
		BusinessID:   cmd.TenantID(),
		BranchID:     cmd.BranchID(),
		Status:       status,
		OccurredAt:   d.clock(),
		Metadata: map[string]interface{}{
			"rejection_code":   string(r.Code()),
			"policy_name":      r.PolicyName(),
		},
	})
}

func (d *Dispatcher) recordAuditAccepted(ctx context.Context, cmd command.Command, envelope events.Envelope) {
	_ = d.auditLogger.Record(ctx, audit.Entry{
		EventID:      envelope.EventID,
		ActorID:      cmd.ActorID(),
		ActorType:    string(cmd.ActorKind()),
		Action:       cmd.Intent(),
		ResourceType: cmd.SourceEngine(),
		ResourceID:   cmd.ID(),
		BusinessID:   cmd.TenantID(),
		BranchID:     cmd.BranchID(),
		Status:       audit.StatusExecuted,
		OccurredAt:   d.clock(),
	})
}
