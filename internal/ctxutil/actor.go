// Package ctxutil carries request-scoped values that any layer may read.
// It imports nothing from the module so it never causes a cycle.
package ctxutil

import "context"

type actorKey struct{}

// Actor prefixes identify where a change came from.
const (
	ActorCLIPrefix  = "cli:"
	ActorHTTPPrefix = "http:"
)

// WithActorID returns a context recording who is making changes, such as
// "cli:maria" or "http:10.0.0.7".
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFromContext returns the actor ID, or "" when none was set.
func ActorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}
