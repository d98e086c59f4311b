package inventory

// Apply implements projection.Store. It folds accepted inventory events
// into the lot ledgers; unknown event types are a no-op.
func (s *StockLedgers) Apply(eventType string, payload map[string]interface{}) {
	switch eventType {
	case EventStockReceived:
		s.applyReceived(payload)
	case EventStockIssued:
		s.applyIssued(payload)
	}
}

func (s *StockLedgers) applyReceived(payload map[string]interface{}) {
	item := str(payload, "item")
	location := str(payload, "location")
	method := ValuationMethod(str(payload, "method"))
	s.Receive(item, location, method, Lot{
		LotID:       str(payload, "lot_id"),
		OriginalQty: i64(payload, "quantity"),
		UnitCost:    i64(payload, "unit_cost"),
		ReceivedAt:  i64(payload, "received_at"),
		Reference:   str(payload, "reference"),
	})
}

func (s *StockLedgers) applyIssued(payload map[string]interface{}) {
	item := str(payload, "item")
	location := str(payload, "location")
	drawnRaw, _ := payload["lots_drawn"].([]interface{})
	drawn := make([]DrawnLot, 0, len(drawnRaw))
	for _, raw := range drawnRaw {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		drawn = append(drawn, DrawnLot{
			LotID:    str(m, "lot_id"),
			Quantity: i64(m, "quantity"),
			UnitCost: i64(m, "unit_cost"),
		})
	}
	s.ApplyDraw(item, location, drawn)
}
