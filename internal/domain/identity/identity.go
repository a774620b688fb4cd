package identity

import (
	"context"
	"errors"
)

var ErrNoActor = errors.New("no actor identity in context")

// Actor is the opaque identity stamped onto every mutating operation. It is
// supplied by the external auth collaborator and never validated here.
type Actor struct {
	ID    string
	Email string
}

type contextKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

func FromContext(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(contextKey{}).(Actor)
	if !ok || actor.ID == "" {
		return Actor{}, ErrNoActor
	}
	return actor, nil
}
