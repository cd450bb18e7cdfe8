package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey struct{}

// Context carries the verified identity of the caller. IsAdmin comes
// from the members row re-read on every request, never from anything
// the client asserted.
type Context struct {
	MemberID uuid.UUID
	Username string
	IsAdmin  bool
}

func WithContext(ctx context.Context, ac Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (Context, bool) {
	ac, ok := ctx.Value(contextKey{}).(Context)
	return ac, ok
}

func MemberID(ctx context.Context) uuid.UUID {
	ac, ok := FromContext(ctx)
	if !ok {
		return uuid.Nil
	}
	return ac.MemberID
}

func IsAdmin(ctx context.Context) bool {
	ac, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return ac.IsAdmin
}
