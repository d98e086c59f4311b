// Package command defines the frozen Command value: the sole unit of
// business intent accepted by the dispatcher. Commands are validated
// exhaustively at construction and are immutable afterward.
package command

import (
	"strings"
	"time"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/ids"
)

// Command is an immutable declaration of business intent. Build one with
// New; there are no exported setters.
type Command struct {
	id               string
	intent           string
	sourceEngine     string
	tenantID         string
	branchID         string
	actorKind        bizcontext.ActorKind
	actorID          string
	payload          map[string]interface{}
	issuedAt         time.Time
	correlationID    string
	scopeRequirement bizcontext.ScopeRequirement
	actorRequirement bizcontext.ActorRequirement
}

// Params collects the constructor arguments for New.
type Params struct {
	Intent           string
	TenantID         string
	BranchID         string // optional; "" means absent
	ActorKind        bizcontext.ActorKind
	ActorID          string
	Payload          map[string]interface{}
	IssuedAt         time.Time
	CorrelationID    string // optional; generated if empty
	ScopeRequirement bizcontext.ScopeRequirement
	ActorRequirement bizcontext.ActorRequirement
}

// New validates p exhaustively and returns a frozen Command, or a
// structured error describing the first violation found. Validation order
// mirrors the dispatcher's own structural-validation step so error
// messages stay consistent between construction-time and dispatch-time
// checks.
func New(p Params) (Command, error) {
	segments := strings.Split(p.Intent, ".")
	if len(segments) < 4 {
		return Command{}, newValidationError("invalid_namespace", "intent must have at least four dot-separated segments")
	}
	if segments[len(segments)-1] != "request" {
		return Command{}, newValidationError("invalid_command_type", "intent must end in .request")
	}
	for _, seg := range segments {
		if seg == "" || seg != strings.ToLower(seg) {
			return Command{}, newValidationError("invalid_namespace", "intent segments must be lowercase and non-empty")
		}
	}
	sourceEngine := segments[0]

	if !ids.Valid(p.TenantID) {
		return Command{}, newValidationError("invalid_command_structure", "tenant_id must be a UUID")
	}

	switch p.ScopeRequirement {
	case bizcontext.ScopeBusinessAllowed, bizcontext.ScopeBranchRequired:
	default:
		return Command{}, newValidationError("invalid_command_structure", "scope_requirement must be BUSINESS_ALLOWED or BRANCH_REQUIRED")
	}
	if p.ScopeRequirement == bizcontext.ScopeBranchRequired && p.BranchID == "" {
		return Command{}, newValidationError("invalid_command_structure", "branch_id is required when scope_requirement is BRANCH_REQUIRED")
	}

	switch p.ActorRequirement {
	case bizcontext.ActorRequired, bizcontext.SystemAllowed:
	default:
		return Command{}, newValidationError("invalid_command_structure", "actor_requirement must be ACTOR_REQUIRED or SYSTEM_ALLOWED")
	}

	switch p.ActorKind {
	case bizcontext.ActorHuman, bizcontext.ActorSystem, bizcontext.ActorDevice, bizcontext.ActorAI:
	default:
		return Command{}, newValidationError("invalid_command_structure", "actor_kind is not a recognised kind")
	}
	if p.ActorID == "" {
		return Command{}, newValidationError("invalid_command_structure", "actor_id must not be empty")
	}

	if p.Payload == nil {
		p.Payload = map[string]interface{}{}
	}

	if p.IssuedAt.IsZero() {
		return Command{}, newValidationError("invalid_command_structure", "issued_at must be set")
	}

	correlationID := p.CorrelationID
	if correlationID == "" {
		correlationID = ids.New()
	}

	return Command{
		id:               ids.New(),
		intent:           p.Intent,
		sourceEngine:     sourceEngine,
		tenantID:         p.TenantID,
		branchID:         p.BranchID,
		actorKind:        p.ActorKind,
		actorID:          p.ActorID,
		payload:          p.Payload,
		issuedAt:         p.IssuedAt,
		correlationID:    correlationID,
		scopeRequirement: p.ScopeRequirement,
		actorRequirement: p.ActorRequirement,
	}, nil
}

func (c Command) ID() string                                    { return c.id }
func (c Command) Intent() string                                 { return c.intent }
func (c Command) SourceEngine() string                            { return c.sourceEngine }
func (c Command) TenantID() string                                { return c.tenantID }
func (c Command) BranchID() string                                { return c.branchID }
func (c Command) HasBranch() bool                                 { return c.branchID != "" }
func (c Command) ActorKind() bizcontext.ActorKind                 { return c.actorKind }
func (c Command) ActorID() string                                 { return c.actorID }
func (c Command) IssuedAt() time.Time                             { return c.issuedAt }
func (c Command) CorrelationID() string                           { return c.correlationID }
func (c Command) ScopeRequirement() bizcontext.ScopeRequirement   { return c.scopeRequirement }
func (c Command) ActorRequirement() bizcontext.ActorRequirement   { return c.actorRequirement }

// Payload returns a shallow copy so callers cannot mutate the command's
// internal map through the returned reference.
func (c Command) Payload() map[string]interface{} {
	out := make(map[string]interface{}, len(c.payload))
	for k, v := range c.payload {
		out[k] = v
	}
	return out
}

// IntentSegments splits Intent on "." — callers use this to look up
// domain/action without re-parsing.
func (c Command) IntentSegments() []string {
	return strings.Split(c.intent, ".")
}
