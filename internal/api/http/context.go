package http

import (
	"context"

	"muontra/internal/service"
)

type contextKey int

const (
	actorKey contextKey = iota
	requestIDKey
)

func withActor(ctx context.Context, actor service.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the authenticated caller, or the zero Actor when auth is off.
func ActorFromContext(ctx context.Context) service.Actor {
	actor, _ := ctx.Value(actorKey).(service.Actor)
	return actor
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
