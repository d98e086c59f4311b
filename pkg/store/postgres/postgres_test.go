package postgres_test

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/events"
	"github.com/Majorsoln/BOS-sub001/pkg/store/postgres"
)

func TestSink_Persist_InsertsEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO events").WillReturnResult(sqlmock.NewResult(0, 1))

	sink := postgres.New(db)
	envelope := events.Envelope{
		EventID:       "evt-1",
		EventType:     "cash.session.opened.v1",
		Payload:       map[string]interface{}{"amount": 50000},
		TenantID:      "tenant-1",
		CorrelationID: "corr-1",
		CommandID:     "cmd-1",
		ActorID:       "actor-1",
		ActorKind:     bizcontext.ActorHuman,
		Timestamp:     time.Unix(0, 0),
	}

	registry := events.NewTypeRegistry()
	require.NoError(t, registry.Register("cash.session.opened.v1"))

	result, err := sink.Persist(context.Background(), envelope, bizcontext.ScopeBranchRequired, registry)
	require.NoError(t, err)
	require.True(t, result.Accepted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSink_Persist_RejectsUnregisteredType(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sink := postgres.New(db)
	envelope := events.Envelope{EventID: "evt-2", EventType: "cash.session.opened.v1", TenantID: "tenant-1"}
	registry := events.NewTypeRegistry()

	result, err := sink.Persist(context.Background(), envelope, bizcontext.ScopeBranchRequired, registry)
	require.NoError(t, err)
	require.False(t, result.Accepted)
}
