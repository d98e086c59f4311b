package finance_test

import (
	"testing"

	"github.com/Majorsoln/BOS-sub001/pkg/finance"
)

func TestBudget_MoneyEnforcement(t *testing.T) {
	tracker := finance.NewInMemoryTracker()
	budgetID := "budget-usd-monthly"

	tracker.SetBudget(finance.Budget{
		ID:       budgetID,
		Currency: "USD",
		Limit:    1000, // $10.00
		Window:   finance.WindowMonthly,
	})

	if err := tracker.Consume(budgetID, finance.NewMoney(250, "USD")); err != nil {
		t.Fatalf("failed to consume $2.50: %v", err)
	}

	if err := tracker.Consume(budgetID, finance.NewMoney(800, "USD")); err == nil {
		t.Error("allowed spending $10.50 on $10.00 budget")
	}

	if err := tracker.Consume(budgetID, finance.NewMoney(100, "EUR")); err == nil {
		t.Error("allowed EUR spending on USD budget")
	}

	ok, err := tracker.Check(budgetID, finance.NewMoney(800, "USD"))
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if ok {
		t.Error("expected $8.00 on top of $2.50 to exceed the $10.00 budget")
	}
}
