package authz

import (
	"context"
	"fmt"
	"strings"

	"github.com/Majorsoln/BOS-sub001/pkg/providers"
)

// Provider adapts Engine's relationship graph into a PermissionProvider:
// a grant is a tuple of the form business:<id>[/branch:<id>]#<permission>@actor:<id>,
// and a role is a tuple of the form role:<name>#member@actor:<id>.
type Provider struct {
	engine *Engine
	intent map[string]string
}

// NewProvider builds a Provider over engine. intentPermissions maps command
// intents to the permission string that must be granted to execute them.
func NewProvider(engine *Engine, intentPermissions map[string]string) *Provider {
	return &Provider{engine: engine, intent: intentPermissions}
}

// ScopeObject encodes a (businessID, branchID) pair as a ReBAC object name.
// branchID == "" yields a business-scoped object.
func ScopeObject(businessID, branchID string) string {
	if branchID == "" {
		return "business:" + businessID
	}
	return "business:" + businessID + "/branch:" + branchID
}

func parseScopeObject(object string) (businessID, branchID string, ok bool) {
	if !strings.HasPrefix(object, "business:") {
		return "", "", false
	}
	rest := strings.TrimPrefix(object, "business:")
	parts := strings.SplitN(rest, "/branch:", 2)
	businessID = parts[0]
	if len(parts) == 2 {
		branchID = parts[1]
	}
	return businessID, branchID, true
}

// ActorSubject encodes actorID as a ReBAC subject.
func ActorSubject(actorID string) string { return "actor:" + actorID }

// GrantScope writes the tuple granting permission to actorID over
// (businessID, branchID).
func (p *Provider) GrantScope(ctx context.Context, actorID, permission, businessID, branchID string) error {
	return p.engine.WriteTuple(ctx, RelationTuple{
		Object:   ScopeObject(businessID, branchID),
		Relation: permission,
		Subject:  ActorSubject(actorID),
	})
}

// GrantRole writes the tuple making actorID a member of role.
func (p *Provider) GrantRole(ctx context.Context, actorID, role string) error {
	return p.engine.WriteTuple(ctx, RelationTuple{
		Object:   "role:" + role,
		Relation: "member",
		Subject:  ActorSubject(actorID),
	})
}

// RolesForActor implements providers.PermissionProvider.
func (p *Provider) RolesForActor(_ context.Context, actorID, _ string) ([]providers.Role, error) {
	subject := ActorSubject(actorID)
	var roles []providers.Role
	for _, t := range p.engine.Tuples() {
		if t.Subject == subject && t.Relation == "member" && strings.HasPrefix(t.Object, "role:") {
			roles = append(roles, providers.Role(strings.TrimPrefix(t.Object, "role:")))
		}
	}
	return roles, nil
}

// GrantsForActor implements providers.PermissionProvider, translating the
// ReBAC graph's tuples for actorID within tenantID into scope grants. A
// role membership also expands into every grant the same role name holds
// directly (role:<name> treated as if it were also an actor subject).
func (p *Provider) GrantsForActor(ctx context.Context, actorID, tenantID string) ([]providers.ScopeGrant, error) {
	subjects := map[string]bool{ActorSubject(actorID): true}
	for _, t := range p.engine.Tuples() {
		if t.Subject == ActorSubject(actorID) && t.Relation == "member" && strings.HasPrefix(t.Object, "role:") {
			subjects[t.Object] = true
		}
	}

	var grants []providers.ScopeGrant
	for _, t := range p.engine.Tuples() {
		if !subjects[t.Subject] {
			continue
		}
		biz, branch, ok := parseScopeObject(t.Object)
		if !ok || biz != tenantID {
			continue
		}
		grants = append(grants, providers.ScopeGrant{Permission: t.Relation, BusinessID: biz, BranchID: branch})
	}
	return grants, nil
}

// PermissionForIntent implements providers.PermissionProvider from the
// static intent table supplied at construction; the ReBAC graph itself
// holds grants, not the intent-to-permission mapping.
func (p *Provider) PermissionForIntent(_ context.Context, intent string) (string, bool, error) {
	perm, ok := p.intent[intent]
	if !ok {
		return "", false, fmt.Errorf("authz: no permission mapped for intent %q", intent)
	}
	return perm, true, nil
}
