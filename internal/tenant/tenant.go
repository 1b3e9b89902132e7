// Package tenant carries the pre-resolved organization scope for
// authenticated calls. An external authorization layer proves
// {orgId, role} before a request reaches this engine; the engine trusts
// this context and never re-derives tenancy on its own.
package tenant

import "context"

// Roles recognized by the engine. Only manager may mutate bookings.
const (
	RoleManager = "manager"
	RoleStaff   = "staff"
	RoleViewer  = "viewer"
)

// Context is the resolved caller identity for authenticated operations.
type Context struct {
	OrgID string
	Role  string
}

// IsManager reports whether the caller may perform mutating operations.
func (c Context) IsManager() bool {
	return c.Role == RoleManager
}

type ctxKey struct{}

// WithContext attaches a tenant Context to a request context.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, tc)
}

// FromContext extracts the tenant Context, if one was attached.
func FromContext(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(ctxKey{}).(Context)
	return tc, ok
}
