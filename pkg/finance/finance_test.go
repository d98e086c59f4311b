package finance

import (
	"testing"
)

func TestMoney_Add(t *testing.T) {
	m1 := NewMoney(100, "USD")
	m2 := NewMoney(50, "USD")

	sum, err := m1.Add(m2)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if sum.AmountMinor != 150 {
		t.Errorf("Expected 150, got %d", sum.AmountMinor)
	}
}

func TestMoney_Add_Mismatch(t *testing.T) {
	m1 := NewMoney(100, "USD")
	m2 := NewMoney(50, "EUR")

	_, err := m1.Add(m2)
	if err == nil {
		t.Error("Expected currency mismatch error")
	}
}

func TestBudget_Enforcement(t *testing.T) {
	tracker := NewInMemoryTracker()
	b := Budget{
		ID:       "test-budget",
		Currency: "USD",
		Limit:    1000, // $10.00
		Consumed: 0,
	}
	tracker.budgets[b.ID] = &b

	if err := tracker.Consume(b.ID, NewMoney(500, "USD")); err != nil { // $5.00
		t.Errorf("First consume failed: %v", err)
	}

	if err := tracker.Consume(b.ID, NewMoney(600, "USD")); err == nil { // would total $11.00
		t.Error("Expected budget exceeded error")
	}

	if err := tracker.Consume(b.ID, NewMoney(100, "USD")); err != nil { // $1.00, total $6.00
		t.Errorf("Third consume failed: %v", err)
	}

	if tracker.budgets[b.ID].Consumed != 600 {
		t.Errorf("Expected consumed 600, got %d", tracker.budgets[b.ID].Consumed)
	}
}
