package inventory

import (
	"context"
	"fmt"

	"github.com/Majorsoln/BOS-sub001/pkg/clock"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/engine"
	"github.com/Majorsoln/BOS-sub001/pkg/events"
	"github.com/Majorsoln/BOS-sub001/pkg/projection"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
	"github.com/Majorsoln/BOS-sub001/pkg/store"
)

const (
	CommandReceive = "inventory.stock.receive.request"
	CommandIssue   = "inventory.stock.issue.request"

	EventStockReceived = "inventory.stock.received.v1"
	EventStockIssued   = "inventory.stock.issued.v1"
)

// Engine is the inventory/lot-ledger business engine.
type Engine struct {
	sink     store.Sink
	registry *events.TypeRegistry
	clock    clock.Clock
	ledgers  *StockLedgers
}

// New builds an inventory Engine.
func New(sink store.Sink, registry *events.TypeRegistry, c clock.Clock) *Engine {
	if c == nil {
		c = clock.Real()
	}
	return &Engine{sink: sink, registry: registry, clock: c, ledgers: NewStockLedgers()}
}

func (e *Engine) Name() string { return "inventory" }

func (e *Engine) CommandTypes() []string {
	return []string{CommandReceive, CommandIssue}
}

func (e *Engine) EventTypes() []string {
	return []string{EventStockReceived, EventStockIssued}
}

func (e *Engine) Projection() projection.Store { return e.ledgers }

func (e *Engine) Subscriptions() []engine.Subscription { return nil }

func (e *Engine) Handle(ctx context.Context, cmd command.Command) (engine.ExecutionResult, error) {
	switch cmd.Intent() {
	case CommandReceive:
		return e.handleReceive(ctx, cmd)
	case CommandIssue:
		return e.handleIssue(ctx, cmd)
	default:
		return engine.ExecutionResult{}, fmt.Errorf("inventory: unrecognised command intent %q", cmd.Intent())
	}
}

func (e *Engine) handleReceive(ctx context.Context, cmd command.Command) (engine.ExecutionResult, error) {
	p := cmd.Payload()
	item := str(p, "item")
	location := str(p, "location")
	lotID := str(p, "lot_id")
	qty := i64(p, "quantity")
	unitCost := i64(p, "unit_cost")

	if item == "" || location == "" || lotID == "" || qty <= 0 {
		return reject(rejection.New(rejection.CodeInvalidCommandStructure, "item, location, lot_id and a positive quantity are required", "inventory.stock_receive")), nil
	}

	method := ValuationMethod(str(p, "method"))
	switch method {
	case MethodFIFO, MethodLIFO, MethodWAC:
	default:
		method = MethodFIFO
	}

	payload := engine.BasePayload(cmd)
	payload["item"] = item
	payload["location"] = location
	payload["lot_id"] = lotID
	payload["quantity"] = qty
	payload["unit_cost"] = unitCost
	payload["method"] = string(method)
	payload["reference"] = str(p, "reference")
	payload["received_at"] = cmd.IssuedAt().UnixNano()

	return e.emit(ctx, cmd, EventStockReceived, payload)
}

func (e *Engine) handleIssue(ctx context.Context, cmd command.Command) (engine.ExecutionResult, error) {
	p := cmd.Payload()
	item := str(p, "item")
	location := str(p, "location")
	qty := i64(p, "quantity")

	if item == "" || location == "" || qty <= 0 {
		return reject(rejection.New(rejection.CodeInvalidCommandStructure, "item, location and a positive quantity are required", "inventory.stock_issue")), nil
	}

	result, exists := e.ledgers.PlanConsumption(item, location, qty)
	if !exists || result.QtyFulfilled == 0 {
		return reject(rejection.New(rejection.CodeInsufficientStock, "no stock available to fulfil this issue", "inventory.stock_issue")), nil
	}

	drawn := make([]interface{}, len(result.LotsDrawn))
	for i, d := range result.LotsDrawn {
		drawn[i] = map[string]interface{}{
			"lot_id":   d.LotID,
			"quantity": d.Quantity,
			"unit_cost": d.UnitCost,
		}
	}

	payload := engine.BasePayload(cmd)
	payload["item"] = item
	payload["location"] = location
	payload["quantity_requested"] = qty
	payload["qty_fulfilled"] = result.QtyFulfilled
	payload["qty_unfulfilled"] = result.QtyUnfulfilled
	payload["total_cost"] = result.TotalCost
	payload["method"] = string(result.Method)
	payload["lots_drawn"] = drawn

	return e.emit(ctx, cmd, EventStockIssued, payload)
}

func (e *Engine) emit(ctx context.Context, cmd command.Command, eventType string, payload map[string]interface{}) (engine.ExecutionResult, error) {
	envelope := events.Build(cmd, eventType, payload, e.clock())

	result, err := e.sink.Persist(ctx, envelope, cmd.ScopeRequirement(), e.registry)
	if err != nil {
		return engine.ExecutionResult{}, fmt.Errorf("inventory: persist: %w", err)
	}
	if !result.Accepted {
		return reject(rejection.New(rejection.CodeDuplicateRequest, result.Reason, "inventory.persist")), nil
	}

	e.ledgers.Apply(eventType, payload)

	return engine.ExecutionResult{
		Accepted:          true,
		EventType:         eventType,
		Envelope:          envelope,
		PersistResult:     result,
		ProjectionApplied: true,
	}, nil
}

func reject(r rejection.Rejection) engine.ExecutionResult {
	return engine.ExecutionResult{Accepted: false, Rejection: r}
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
