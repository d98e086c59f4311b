package providers

import (
	"context"
	"sync"

	"github.com/Majorsoln/BOS-sub001/pkg/command"
)

// InMemoryPermissionProvider is a test/reference PermissionProvider backed
// by plain maps, guarded by a mutex for concurrent dispatch.
type InMemoryPermissionProvider struct {
	mu           sync.RWMutex
	roles        map[string][]Role       // key: actorID+"/"+tenantID
	grants       map[string][]ScopeGrant // key: actorID+"/"+tenantID
	intentToPerm map[string]string
}

func NewInMemoryPermissionProvider() *InMemoryPermissionProvider {
	return &InMemoryPermissionProvider{
		roles:        make(map[string][]Role),
		grants:       make(map[string][]ScopeGrant),
		intentToPerm: make(map[string]string),
	}
}

func actorTenantKey(actorID, tenantID string) string { return actorID + "/" + tenantID }

func (p *InMemoryPermissionProvider) SetRoles(actorID, tenantID string, roles ...Role) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.roles[actorTenantKey(actorID, tenantID)] = roles
}

func (p *InMemoryPermissionProvider) SetGrants(actorID, tenantID string, grants ...ScopeGrant) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grants[actorTenantKey(actorID, tenantID)] = grants
}

func (p *InMemoryPermissionProvider) MapIntent(intent, permission string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intentToPerm[intent] = permission
}

func (p *InMemoryPermissionProvider) RolesForActor(_ context.Context, actorID, tenantID string) ([]Role, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.roles[actorTenantKey(actorID, tenantID)], nil
}

func (p *InMemoryPermissionProvider) GrantsForActor(_ context.Context, actorID, tenantID string) ([]ScopeGrant, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.grants[actorTenantKey(actorID, tenantID)], nil
}

func (p *InMemoryPermissionProvider) PermissionForIntent(_ context.Context, intent string) (string, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	perm, ok := p.intentToPerm[intent]
	return perm, ok, nil
}

// InMemoryFeatureFlagProvider serves a fixed set of flag rows per tenant.
type InMemoryFeatureFlagProvider struct {
	mu    sync.RWMutex
	flags map[string][]Flag
}

func NewInMemoryFeatureFlagProvider() *InMemoryFeatureFlagProvider {
	return &InMemoryFeatureFlagProvider{flags: make(map[string][]Flag)}
}

func (p *InMemoryFeatureFlagProvider) SetFlags(tenantID string, flags ...Flag) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flags[tenantID] = flags
}

func (p *InMemoryFeatureFlagProvider) FlagsForTenant(_ context.Context, tenantID string) ([]Flag, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.flags[tenantID], nil
}

// InMemoryDocumentProvider serves a fixed set of template rows per tenant.
type InMemoryDocumentProvider struct {
	mu        sync.RWMutex
	templates map[string][]DocumentTemplate
}

func NewInMemoryDocumentProvider() *InMemoryDocumentProvider {
	return &InMemoryDocumentProvider{templates: make(map[string][]DocumentTemplate)}
}

func (p *InMemoryDocumentProvider) SetTemplates(tenantID string, templates ...DocumentTemplate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.templates[tenantID] = templates
}

func (p *InMemoryDocumentProvider) TemplatesForTenant(_ context.Context, tenantID string) ([]DocumentTemplate, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.templates[tenantID], nil
}

// NoopComplianceProvider always allows; used when compliance is not
// configured for a deployment.
type NoopComplianceProvider struct{}

func (NoopComplianceProvider) Evaluate(context.Context, command.Command, string, string) (ComplianceResult, error) {
	return ComplianceResult{Allowed: true}, nil
}

// InMemoryAuthProvider resolves API keys from a static map; used by tests
// and local/dev deployments.
type InMemoryAuthProvider struct {
	mu   sync.RWMutex
	keys map[string]*AuthPrincipal
}

func NewInMemoryAuthProvider() *InMemoryAuthProvider {
	return &InMemoryAuthProvider{keys: make(map[string]*AuthPrincipal)}
}

func (p *InMemoryAuthProvider) SetKey(apiKey string, principal *AuthPrincipal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys[apiKey] = principal
}

func (p *InMemoryAuthProvider) ResolveAPIKey(_ context.Context, apiKey string) (*AuthPrincipal, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	principal, ok := p.keys[apiKey]
	if !ok {
		return nil, nil
	}
	return principal, nil
}
