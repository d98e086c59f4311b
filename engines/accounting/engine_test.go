package accounting_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Majorsoln/BOS-sub001/engines/accounting"
	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/clock"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/dispatcher"
	"github.com/Majorsoln/BOS-sub001/pkg/events"
	"github.com/Majorsoln/BOS-sub001/pkg/guard"
	"github.com/Majorsoln/BOS-sub001/pkg/store"
)

const tenantT1 = "33333333-3333-3333-3333-333333333333"

func newCommand(t *testing.T, lines []map[string]interface{}, now time.Time) command.Command {
	t.Helper()
	cmd, err := command.New(command.Params{
		Intent:           accounting.CommandPostEntry,
		TenantID:         tenantT1,
		ActorKind:        bizcontext.ActorSystem,
		ActorID:          "system",
		Payload:          map[string]interface{}{"lines": toInterfaceSlice(lines)},
		IssuedAt:         now,
		ScopeRequirement: bizcontext.ScopeBusinessAllowed,
		ActorRequirement: bizcontext.SystemAllowed,
	})
	require.NoError(t, err)
	return cmd
}

func toInterfaceSlice(lines []map[string]interface{}) []interface{} {
	out := make([]interface{}, len(lines))
	for i, l := range lines {
		out[i] = l
	}
	return out
}

func TestAccountingPostEntry_RejectsUnbalanced_S3(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	c := clock.Fixed(now)
	registry := events.NewTypeRegistry()
	sink := store.NewMemorySink()
	engine := accounting.New(sink, registry, c)

	d := dispatcher.New(c, guard.Deps{}, guard.Providers{}, registry, nil)
	require.NoError(t, d.RegisterEngine(engine))

	bizCtx := bizcontext.NewBusinessContext(tenantT1, bizcontext.LifecycleActive, nil)

	cmd := newCommand(t, []map[string]interface{}{
		{"account": "A", "debit": int64(1000), "credit": int64(0)},
		{"account": "B", "debit": int64(0), "credit": int64(800)},
	}, now)

	outcome := d.Dispatch(context.Background(), cmd, bizCtx)
	require.False(t, outcome.Accepted)
	require.Equal(t, "UNBALANCED_ENTRY", string(outcome.Rejection.Code()))

	require.Empty(t, sink.Events(tenantT1))

	debit, credit := engine.Projection().(*accounting.TrialBalance).Balance("A")
	require.Equal(t, int64(0), debit)
	require.Equal(t, int64(0), credit)
	debit, credit = engine.Projection().(*accounting.TrialBalance).Balance("B")
	require.Equal(t, int64(0), debit)
	require.Equal(t, int64(0), credit)
}

func TestAccountingPostEntry_AcceptsBalanced(t *testing.T) {
	now := time.Now()
	c := clock.Fixed(now)
	registry := events.NewTypeRegistry()
	sink := store.NewMemorySink()
	engine := accounting.New(sink, registry, c)

	d := dispatcher.New(c, guard.Deps{}, guard.Providers{}, registry, nil)
	require.NoError(t, d.RegisterEngine(engine))

	bizCtx := bizcontext.NewBusinessContext(tenantT1, bizcontext.LifecycleActive, nil)

	cmd := newCommand(t, []map[string]interface{}{
		{"account": "A", "debit": int64(1000), "credit": int64(0)},
		{"account": "B", "debit": int64(0), "credit": int64(1000)},
	}, now)

	outcome := d.Dispatch(context.Background(), cmd, bizCtx)
	require.True(t, outcome.Accepted)
	require.Equal(t, accounting.EventEntryPosted, outcome.Event.EventType)

	trial := engine.Projection().(*accounting.TrialBalance)
	debit, credit := trial.Balance("A")
	require.Equal(t, int64(1000), debit)
	require.Equal(t, int64(0), credit)
	debit, credit = trial.Balance("B")
	require.Equal(t, int64(0), debit)
	require.Equal(t, int64(1000), credit)
}
