package auth

import (
	"context"

	"shopsifu-discount/internal/model"
)

type contextKey struct{}

// WithActor returns a context carrying the authenticated actor.
func WithActor(ctx context.Context, actor model.Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

// ActorFrom extracts the authenticated actor from the context.
func ActorFrom(ctx context.Context) (model.Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(model.Actor)
	return actor, ok
}
