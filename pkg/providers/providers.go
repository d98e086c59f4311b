// Package providers declares the pure, read-only interfaces the guard
// stack consults. Every provider is side-effect free; implementations live
// in-memory (for tests and reference wiring) or backed by a real store.
package providers

import (
	"context"
	"time"

	"github.com/Majorsoln/BOS-sub001/pkg/command"
)

// Role is an opaque grant name held by an actor.
type Role string

// ScopeGrant authorizes an actor for a permission within a business, and
// optionally restricts it to one branch.
type ScopeGrant struct {
	Permission string
	BusinessID string
	BranchID   string // "" means business-scoped, not branch-restricted
}

// PermissionProvider answers role and grant lookups plus the
// intent-to-permission mapping table.
type PermissionProvider interface {
	RolesForActor(ctx context.Context, actorID, tenantID string) ([]Role, error)
	GrantsForActor(ctx context.Context, actorID, tenantID string) ([]ScopeGrant, error)
	PermissionForIntent(ctx context.Context, intent string) (string, bool, error)
}

// FlagStatus is the closed set of feature-flag states.
type FlagStatus string

const (
	FlagEnabled  FlagStatus = "ENABLED"
	FlagDisabled FlagStatus = "DISABLED"
)

// Flag is one feature-flag state row for a tenant, optionally scoped to a
// branch.
type Flag struct {
	FlagKey    string
	TenantID   string
	BranchID   string // "" means business-wide
	Status     FlagStatus
	CreatedAt  time.Time
}

// FeatureFlagProvider returns all flag rows known for a tenant. Duplicate
// (flag_key, branch_id) rows are resolved by the guard, not the provider:
// DISABLED dominates ENABLED; later CreatedAt then lexicographic FlagKey
// breaks remaining ties.
type FeatureFlagProvider interface {
	FlagsForTenant(ctx context.Context, tenantID string) ([]Flag, error)
}

// DocumentTemplate is one candidate template row.
type DocumentTemplate struct {
	TemplateID     string
	TenantID       string
	BranchID       string // "" means business-scoped
	DocType        string
	Version        int
	Active         bool
	CreatedAt      time.Time
	RequiredFields []string
	SchemaJSON     string // JSON Schema text validating the command payload's layout fields
}

// DocumentProvider returns the candidate templates for a tenant; the
// document guard applies the precedence rule itself.
type DocumentProvider interface {
	TemplatesForTenant(ctx context.Context, tenantID string) ([]DocumentTemplate, error)
}

// ComplianceViolation is one rule failure surfaced by ComplianceProvider.
type ComplianceViolation struct {
	Message string
	RuleID  string
}

// ComplianceResult is the outcome of evaluating a command against a
// tenant's compliance rules.
type ComplianceResult struct {
	Allowed    bool
	Violations []ComplianceViolation
}

// ComplianceProvider evaluates a command against a tenant's active
// compliance rule bundle.
type ComplianceProvider interface {
	Evaluate(ctx context.Context, cmd command.Command, tenantID, branchID string) (ComplianceResult, error)
}

// AuthPrincipal is what an AuthProvider resolves an API key to.
type AuthPrincipal struct {
	ActorID                    string
	ActorType                  string // raw value from the provider; normalised by httpctx
	AllowedBusinessIDs         []string
	AllowedBranchIDsByBusiness map[string][]string // absent/nil entry means "all branches"
}

// AuthProvider resolves an opaque API key to a principal.
type AuthProvider interface {
	ResolveAPIKey(ctx context.Context, apiKey string) (*AuthPrincipal, error)
}
