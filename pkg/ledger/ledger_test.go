package ledger

import (
	"testing"
)

func TestLedgerAppend(t *testing.T) {
	l := NewLedger(LedgerTypeJournal)
	seq, err := l.Append("posting", "system", map[string]interface{}{"event": "journal.posted"})
	if err != nil {
		t.Fatal(err)
	}
	if seq != 1 {
		t.Fatalf("expected seq 1, got %d", seq)
	}
	if l.Length() != 1 {
		t.Fatalf("expected length 1, got %d", l.Length())
	}
}

func TestLedgerChainIntegrity(t *testing.T) {
	l := NewLedger(LedgerTypeInventoryLot)
	l.Append("lot_received", "admin", map[string]interface{}{"sku": "sku-1"})
	l.Append("lot_consumed", "admin", map[string]interface{}{"sku": "sku-1", "qty": 2})
	l.Append("lot_consumed", "admin", map[string]interface{}{"sku": "sku-1", "qty": 3})

	ok, reason := l.Verify()
	if !ok {
		t.Fatalf("expected valid chain, got: %s", reason)
	}
}

func TestLedgerGet(t *testing.T) {
	l := NewLedger(LedgerTypeCashSession)
	l.Append("session_opened", "cashier", map[string]interface{}{"float": "abc"})

	entry, err := l.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if entry.EntryType != "session_opened" {
		t.Fatalf("expected session_opened, got %s", entry.EntryType)
	}
}

func TestLedgerGetNotFound(t *testing.T) {
	l := NewLedger(LedgerTypeJournal)
	_, err := l.Get(99)
	if err == nil {
		t.Fatal("expected error for missing entry")
	}
}

func TestLedgerHead(t *testing.T) {
	l := NewLedger(LedgerTypeJournal)
	if l.Head() != "genesis" {
		t.Fatal("expected genesis head")
	}
	l.Append("posting", "ci", map[string]interface{}{"v": "1.0"})
	if l.Head() == "genesis" {
		t.Fatal("head should change after append")
	}
}

func TestLedgerHashChaining(t *testing.T) {
	l := NewLedger(LedgerTypeJournal)
	l.Append("a", "sys", map[string]interface{}{"x": 1})
	l.Append("b", "sys", map[string]interface{}{"x": 2})

	e1, _ := l.Get(1)
	e2, _ := l.Get(2)
	if e2.PrevHash != e1.ContentHash {
		t.Fatal("second entry prev_hash should match first content_hash")
	}
}

func TestLedgerType(t *testing.T) {
	l := NewLedger(LedgerTypeCashSession)
	if l.Type() != LedgerTypeCashSession {
		t.Fatalf("expected CASH_SESSION, got %s", l.Type())
	}
}

func TestLedgerDeterministicHash(t *testing.T) {
	l1 := NewLedger(LedgerTypeJournal)
	l1.Append("a", "sys", map[string]interface{}{"x": 1})
	l2 := NewLedger(LedgerTypeJournal)
	l2.Append("a", "sys", map[string]interface{}{"x": 1})

	e1, _ := l1.Get(1)
	e2, _ := l2.Get(1)
	if e1.ContentHash != e2.ContentHash {
		t.Fatal("same input should produce same hash")
	}
}
