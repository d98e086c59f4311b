package auth

import (
	"context"
	"errors"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
)

type contextKey string

const (
	actorKey contextKey = "actor"
)

// WithActor attaches a resolved ActorContext to the request context.
func WithActor(ctx context.Context, a bizcontext.ActorContext) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// GetActor retrieves the ActorContext stashed by WithActor.
func GetActor(ctx context.Context) (bizcontext.ActorContext, error) {
	a, ok := ctx.Value(actorKey).(bizcontext.ActorContext)
	if !ok {
		return bizcontext.ActorContext{}, errors.New("auth: no actor in context")
	}
	return a, nil
}

// MustGetActor panics if no actor is present; use only where middleware
// guarantees WithActor already ran.
func MustGetActor(ctx context.Context) bizcontext.ActorContext {
	a, err := GetActor(ctx)
	if err != nil {
		panic(err)
	}
	return a
}
