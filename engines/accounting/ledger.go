// Package accounting implements the illustrative double-entry journal
// engine: balanced postings fold into per-account balances, driving the
// S3 scenario from the engine contract's reference implementations.
package accounting

import "sync"

// Line is one leg of a journal entry.
type Line struct {
	Account string
	Debit   int64 // minor units; exactly one of Debit/Credit is non-zero
	Credit  int64
}

// TrialBalance is the accounting engine's projection: running debit and
// credit totals per account code.
type TrialBalance struct {
	mu       sync.RWMutex
	balances map[string]*accountBalance
}

type accountBalance struct {
	Debit  int64
	Credit int64
}

func NewTrialBalance() *TrialBalance {
	return &TrialBalance{balances: make(map[string]*accountBalance)}
}

// Balance returns (debit, credit) totals for account, zero if untouched.
func (t *TrialBalance) Balance(account string) (int64, int64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	b, ok := t.balances[account]
	if !ok {
		return 0, 0
	}
	return b.Debit, b.Credit
}

// Apply implements projection.Store: folds an accepted journal entry's
// lines into the per-account running totals.
func (t *TrialBalance) Apply(eventType string, payload map[string]interface{}) {
	if eventType != EventEntryPosted {
		return
	}
	lines := linesFromPayload(payload)
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, l := range lines {
		b, ok := t.balances[l.Account]
		if !ok {
			b = &accountBalance{}
			t.balances[l.Account] = b
		}
		b.Debit += l.Debit
		b.Credit += l.Credit
	}
}

func linesFromPayload(payload map[string]interface{}) []Line {
	raw, _ := payload["lines"].([]interface{})
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

// balanced reports whether the sum of debits equals the sum of credits
// across lines — the double-entry invariant the engine's UNBALANCED_ENTRY
// rejection protects.
func balanced(lines []Line) (totalDebit, totalCredit int64, ok bool) {
	for _, l := range lines {
		totalDebit += l.Debit
		totalCredit += l.Credit
	}
	return totalDebit, totalCredit, totalDebit == totalCredit
}
