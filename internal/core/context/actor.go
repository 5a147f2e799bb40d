// Package context carries request-scoped values: tracing info and the
// calling actor (buyer or manager) identified by request headers.
package context

import (
	"context"

	"freshstock/internal/core/id"
)

// ActorKind distinguishes the two caller roles the API recognizes.
type ActorKind string

const (
	ActorBuyer   ActorKind = "buyer"
	ActorManager ActorKind = "manager"
)

// ActorContext identifies the caller of the current request.
// Identity arrives as a Buyer-Id or Manager-Id header; existence is
// verified by the domain services, not here.
type ActorContext struct {
	Kind ActorKind
	ID   id.ID
}

type actorContextKey struct{}

// WithActor adds ActorContext to context.
func WithActor(ctx context.Context, actor *ActorContext) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns ActorContext from context, or nil for anonymous calls.
func GetActor(ctx context.Context) *ActorContext {
	if v, ok := ctx.Value(actorContextKey{}).(*ActorContext); ok {
		return v
	}
	return nil
}

// GetBuyerID returns the calling buyer's ID, or Nil if the caller is
// not a buyer.
func GetBuyerID(ctx context.Context) id.ID {
	if a := GetActor(ctx); a != nil && a.Kind == ActorBuyer {
		return a.ID
	}
	return id.Nil()
}

// GetManagerID returns the calling manager's ID, or Nil if the caller is
// not a manager.
func GetManagerID(ctx context.Context) id.ID {
	if a := GetActor(ctx); a != nil && a.Kind == ActorManager {
		return a.ID
	}
	return id.Nil()
}
