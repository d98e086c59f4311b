// Package bizcontext holds the context primitives every dispatch runs
// against: the active tenant/branch (BusinessContext), the caller
// (ActorContext), and an actor's authorization snapshot (TenantScope).
package bizcontext

// ActorKind is the closed set of caller kinds.
type ActorKind string

const (
	ActorHuman  ActorKind = "HUMAN"
	ActorSystem ActorKind = "SYSTEM"
	ActorDevice ActorKind = "DEVICE"
	ActorAI     ActorKind = "AI"
)

// ScopeRequirement is carried on a Command to say whether a branch must be
// present.
type ScopeRequirement string

const (
	ScopeBusinessAllowed ScopeRequirement = "BUSINESS_ALLOWED"
	ScopeBranchRequired  ScopeRequirement = "BRANCH_REQUIRED"
)

// ActorRequirement says whether SYSTEM may stand in for a concrete actor.
type ActorRequirement string

const (
	ActorRequired  ActorRequirement = "ACTOR_REQUIRED"
	SystemAllowed  ActorRequirement = "SYSTEM_ALLOWED"
)

// Lifecycle is the closed set of business lifecycle states.
type Lifecycle string

const (
	LifecycleActive     Lifecycle = "ACTIVE"
	LifecycleSuspended  Lifecycle = "SUSPENDED"
	LifecycleClosed     Lifecycle = "CLOSED"
	LifecycleLegalHold  Lifecycle = "LEGAL_HOLD"
)

// ActorContext identifies the caller. Immutable once constructed.
type ActorContext struct {
	kind ActorKind
	id   string
}

// NewActorContext validates kind and id are well-formed.
func NewActorContext(kind ActorKind, id string) (ActorContext, error) {
	switch kind {
	case ActorHuman, ActorSystem, ActorDevice, ActorAI:
	default:
		return ActorContext{}, errInvalidActorKind(kind)
	}
	if id == "" {
		return ActorContext{}, errEmptyActorID
	}
	return ActorContext{kind: kind, id: id}, nil
}

func (a ActorContext) Kind() ActorKind { return a.kind }
func (a ActorContext) ID() string      { return a.id }

// ActorAuthChecker answers whether an actor may act within a business;
// branch-level checks use BranchAuthChecker. Absence of a checker on
// BusinessContext is permissive.
type ActorAuthChecker func(actorID, businessID string) bool

// BranchAuthChecker answers whether an actor may act within a specific
// branch of a business.
type BranchAuthChecker func(actorID, businessID, branchID string) bool

// BusinessContext is the active tenant + branch plus the hooks the guard
// stack consults for lifecycle and authorization. It is read-only from the
// pipeline's point of view; construction happens once per request.
type BusinessContext struct {
	active           bool
	businessID       string
	branchID         string
	lifecycle        Lifecycle
	branchesOf       map[string]bool // branch IDs known to belong to businessID
	actorAuthBiz     ActorAuthChecker
	actorAuthBranch  BranchAuthChecker
}

// NewBusinessContext constructs an active context for businessID.
// branchesOf lists the branch IDs that belong to the business (used by
// IsBranchInBusiness); it may be nil if the context never handles
// branch-scoped commands.
func NewBusinessContext(businessID string, lifecycle Lifecycle, branchesOf []string) *BusinessContext {
	set := make(map[string]bool, len(branchesOf))
	for _, b := range branchesOf {
		set[b] = true
	}
	return &BusinessContext{
		active:     true,
		businessID: businessID,
		lifecycle:  lifecycle,
		branchesOf: set,
	}
}

// WithActorAuth attaches actor-authorization checkers. Either may be nil,
// in which case that dimension is permissive.
func (c *BusinessContext) WithActorAuth(biz ActorAuthChecker, branch BranchAuthChecker) *BusinessContext {
	c.actorAuthBiz = biz
	c.actorAuthBranch = branch
	return c
}

// SetBranch marks branchID as the active branch for this request. It does
// not validate membership; callers validate via IsBranchInBusiness.
func (c *BusinessContext) SetBranch(branchID string) *BusinessContext {
	c.branchID = branchID
	return c
}

func (c *BusinessContext) HasActiveContext() bool  { return c.active }
func (c *BusinessContext) ActiveBusinessID() string { return c.businessID }
func (c *BusinessContext) ActiveBranchID() string   { return c.branchID }
func (c *BusinessContext) LifecycleState() Lifecycle { return c.lifecycle }

// IsBranchInBusiness reports whether branchID is a known branch of the
// active business. An empty branchesOf set (never populated) is permissive
// by construction — callers that never pass branchesOf accept any branch.
func (c *BusinessContext) IsBranchInBusiness(branchID string) bool {
	if len(c.branchesOf) == 0 {
		return true
	}
	return c.branchesOf[branchID]
}

// AuthorizedForBusiness delegates to the actor-business checker, defaulting
// to permissive when absent.
func (c *BusinessContext) AuthorizedForBusiness(actorID string) bool {
	if c.actorAuthBiz == nil {
		return true
	}
	return c.actorAuthBiz(actorID, c.businessID)
}

// AuthorizedForBranch delegates to the actor-branch checker, defaulting to
// permissive when absent.
func (c *BusinessContext) AuthorizedForBranch(actorID, branchID string) bool {
	if c.actorAuthBranch == nil {
		return true
	}
	return c.actorAuthBranch(actorID, c.businessID, branchID)
}

// TenantScope is an actor's authorization snapshot used by the tenant
// isolation guard: which tenants the actor may touch, and for each tenant
// whether all branches are allowed or only a concrete set.
type TenantScope struct {
	// AllBranches, when true for a tenant, means any branch is allowed.
	tenants     map[string]bool
	allBranches map[string]bool
	branches    map[string]map[string]bool
}

// NewTenantScope builds an empty scope; use Grant/GrantAllBranches to
// populate it.
func NewTenantScope() *TenantScope {
	return &TenantScope{
		tenants:     make(map[string]bool),
		allBranches: make(map[string]bool),
		branches:    make(map[string]map[string]bool),
	}
}

// GrantAllBranches authorizes the actor for tenantID with no branch
// restriction.
func (s *TenantScope) GrantAllBranches(tenantID string) *TenantScope {
	s.tenants[tenantID] = true
	s.allBranches[tenantID] = true
	return s
}

// GrantBranches authorizes the actor for tenantID restricted to the given
// concrete branch set.
func (s *TenantScope) GrantBranches(tenantID string, branchIDs ...string) *TenantScope {
	s.tenants[tenantID] = true
	set, ok := s.branches[tenantID]
	if !ok {
		set = make(map[string]bool)
		s.branches[tenantID] = set
	}
	for _, b := range branchIDs {
		set[b] = true
	}
	return s
}

// HasTenant reports whether tenantID is within scope.
func (s *TenantScope) HasTenant(tenantID string) bool {
	return s.tenants[tenantID]
}

// HasBranch reports whether branchID is within scope for tenantID. Callers
// must check HasTenant first; HasBranch on an un-granted tenant is false.
func (s *TenantScope) HasBranch(tenantID, branchID string) bool {
	if !s.tenants[tenantID] {
		return false
	}
	if s.allBranches[tenantID] {
		return true
	}
	set, ok := s.branches[tenantID]
	if !ok {
		return false
	}
	return set[branchID]
}
