// Package cash implements the illustrative cash-session engine (open,
// record payment, close) — the S1 scenario from the engine contract's
// reference implementations.
package cash

import "sync"

// Payment is one recorded movement against an open session.
type Payment struct {
	Amount   int64
	Method   string
	ActorID  string
	Recorded bool
}

// Session is the cash-drawer session read model, keyed by SessionID.
type Session struct {
	SessionID       string
	DrawerID        string
	TenantID        string
	BranchID        string
	Currency        string
	Status          string // OPEN | CLOSED
	OpeningBalance  int64
	Balance         int64 // opening balance plus recorded payments
	Payments        []Payment
	ClosingBalance  int64
	ExpectedBalance int64
	Difference      int64
	Closed          bool
}

// Projection is the cash engine's read model: sessions keyed by session id.
type Projection struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewProjection() *Projection {
	return &Projection{sessions: make(map[string]*Session)}
}

// Get returns a copy of the session state, for business-rule checks and
// external queries alike.
func (p *Projection) Get(sessionID string) (Session, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.sessions[sessionID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Apply implements projection.Store. Unknown event types are a no-op.
func (p *Projection) Apply(eventType string, payload map[string]interface{}) {
	switch eventType {
	case EventSessionOpened:
		p.applyOpened(payload)
	case EventPaymentRecorded:
		p.applyPayment(payload)
	case EventSessionClosed:
		p.applyClosed(payload)
	}
}

func (p *Projection) applyOpened(payload map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sessionID := str(payload, "session_id")
	p.sessions[sessionID] = &Session{
		SessionID:      sessionID,
		DrawerID:       str(payload, "drawer_id"),
		TenantID:       str(payload, "tenant_id"),
		BranchID:       str(payload, "branch_id"),
		Currency:       str(payload, "currency"),
		Status:         "OPEN",
		OpeningBalance: i64(payload, "opening_balance"),
		Balance:        i64(payload, "opening_balance"),
	}
}

func (p *Projection) applyPayment(payload map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sessionID := str(payload, "session_id")
	s, ok := p.sessions[sessionID]
	if !ok {
		return
	}
	amount := i64(payload, "amount")
	s.Payments = append(s.Payments, Payment{
		Amount:   amount,
		Method:   str(payload, "method"),
		ActorID:  str(payload, "actor_id"),
		Recorded: true,
	})
	s.Balance += amount
}

func (p *Projection) applyClosed(payload map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sessionID := str(payload, "session_id")
	s, ok := p.sessions[sessionID]
	if !ok {
		return
	}
	s.Status = "CLOSED"
	s.Closed = true
	s.ClosingBalance = i64(payload, "closing_balance")
	s.ExpectedBalance = i64(payload, "expected_balance")
	s.Difference = s.ClosingBalance - s.ExpectedBalance
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
