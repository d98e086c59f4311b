// Package inventory implements the illustrative stock engine: per-item,
// per-location lot ledgers valued under FIFO, LIFO, or weighted-average
// cost, driving the S2 scenario from the engine contract's reference
// implementations.
package inventory

import "sync"

// ValuationMethod is the closed set of lot-consumption orderings.
type ValuationMethod string

const (
	MethodFIFO ValuationMethod = "FIFO"
	MethodLIFO ValuationMethod = "LIFO"
	MethodWAC  ValuationMethod = "WAC"
)

// Lot is one received batch into an (item, location) ledger. Exhausted
// lots (RemainingQty == 0) are retained for audit, never deleted.
type Lot struct {
	LotID         string
	OriginalQty   int64
	RemainingQty  int64
	UnitCost      int64 // minor units
	ReceivedAt    int64 // unix nanos, as recorded; FIFO/LIFO order is receive (append) order
	Reference     string
}

// DrawnLot is one lot's contribution to a consumption.
type DrawnLot struct {
	LotID     string
	Quantity  int64
	UnitCost  int64
}

// ConsumptionResult is the outcome of drawing qty units from a ledger.
// Partial fulfilment is reported, never silently clipped.
type ConsumptionResult struct {
	LotsDrawn      []DrawnLot
	QtyFulfilled   int64
	QtyUnfulfilled int64
	TotalCost      int64
	Method         ValuationMethod
}

// ledgerKey identifies one (item, location) lot ledger.
type ledgerKey struct {
	Item     string
	Location string
}

// Ledger holds the ordered lot sequence for one (item, location) pair
// under a fixed valuation method.
type Ledger struct {
	Method ValuationMethod
	Lots   []*Lot
}

// StockLedgers is the inventory engine's projection: one Ledger per
// (item, location).
type StockLedgers struct {
	mu      sync.RWMutex
	ledgers map[ledgerKey]*Ledger
}

func NewStockLedgers() *StockLedgers {
	return &StockLedgers{ledgers: make(map[ledgerKey]*Ledger)}
}

func (s *StockLedgers) ledgerFor(item, location string, method ValuationMethod) *Ledger {
	key := ledgerKey{Item: item, Location: location}
	l, ok := s.ledgers[key]
	if !ok {
		l = &Ledger{Method: method}
		s.ledgers[key] = l
	}
	return l
}

// Receive appends a new lot to the (item, location) ledger, creating it
// with method if absent.
func (s *StockLedgers) Receive(item, location string, method ValuationMethod, lot Lot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.ledgerFor(item, location, method)
	lot.RemainingQty = lot.OriginalQty
	l.Lots = append(l.Lots, &lot)
}

// PlanConsumption computes how drawing qty units from the (item, location)
// ledger would resolve per its valuation method, without mutating any lot.
// The engine persists the resulting event before the draw is committed
// via ApplyDraw, so the ledger is never mutated ahead of an accepted event.
// Returns false if no ledger exists for the pair.
func (s *StockLedgers) PlanConsumption(item, location string, qty int64) (ConsumptionResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := ledgerKey{Item: item, Location: location}
	l, ok := s.ledgers[key]
	if !ok {
		return ConsumptionResult{}, false
	}

	order := consumptionOrder(l)
	result := ConsumptionResult{Method: l.Method}
	remaining := qty
	avg := weightedAverageCost(l.Lots)

	// available tracks each candidate lot's remaining quantity as a local
	// copy so the scan never mutates the live ledger.
	available := make(map[string]int64, len(order))
	for _, lot := range order {
		available[lot.LotID] = lot.RemainingQty
	}

	for _, lot := range order {
		if remaining <= 0 {
			break
		}
		rem := available[lot.LotID]
		if rem <= 0 {
			continue
		}
		drawn := min64(remaining, rem)
		remaining -= drawn
		available[lot.LotID] = rem - drawn
		unitCost := lot.UnitCost
		if l.Method == MethodWAC {
			unitCost = avg
		}
		result.LotsDrawn = append(result.LotsDrawn, DrawnLot{LotID: lot.LotID, Quantity: drawn, UnitCost: unitCost})
		result.TotalCost += drawn * unitCost
	}

	result.QtyFulfilled = qty - remaining
	result.QtyUnfulfilled = remaining
	return result, true
}

// ApplyDraw commits a previously planned consumption by decrementing each
// drawn lot's remaining quantity. Called only from Apply, after the
// corresponding event has been accepted and persisted.
func (s *StockLedgers) ApplyDraw(item, location string, drawn []DrawnLot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[ledgerKey{Item: item, Location: location}]
	if !ok {
		return
	}
	byID := make(map[string]*Lot, len(l.Lots))
	for _, lot := range l.Lots {
		byID[lot.LotID] = lot
	}
	for _, d := range drawn {
		if lot, ok := byID[d.LotID]; ok {
			lot.RemainingQty -= d.Quantity
		}
	}
}

// RemainingStock returns (quantity, value) summed across all lots for
// (item, location): Σ remaining_qty and Σ remaining_qty · unit_cost.
func (s *StockLedgers) RemainingStock(item, location string) (int64, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.ledgers[ledgerKey{Item: item, Location: location}]
	if !ok {
		return 0, 0
	}
	var qty, value int64
	for _, lot := range l.Lots {
		qty += lot.RemainingQty
		value += lot.RemainingQty * lot.UnitCost
	}
	return qty, value
}

// consumptionOrder returns l.Lots ordered for draw: received-order for
// FIFO and WAC, reverse-received-order for LIFO. WAC applies the current
// weighted-average unit cost to a FIFO-ordered draw per the ledger's
// definition.
func consumptionOrder(l *Ledger) []*Lot {
	out := make([]*Lot, len(l.Lots))
	copy(out, l.Lots)
	if l.Method == MethodLIFO {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func weightedAverageCost(lots []*Lot) int64 {
	var qty, value int64
	for _, lot := range lots {
		qty += lot.RemainingQty
		value += lot.RemainingQty * lot.UnitCost
	}
	if qty == 0 {
		return 0
	}
	return value / qty
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
