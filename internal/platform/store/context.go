package store

import "context"

type (
	orgKey   struct{}
	reqIDKey struct{}
	adminKey struct{}
)

// WithOrg attaches an organization id to the context
func WithOrg(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, orgKey{}, orgID)
}

// OrgID retrieves an organization id from context if present
func OrgID(ctx context.Context) (string, bool) {
	v := ctx.Value(orgKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// WithAdmin marks the context as operating with admin privileges
func WithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, adminKey{}, true)
}

// IsAdmin reports if the context has admin privileges
func IsAdmin(ctx context.Context) bool {
	v := ctx.Value(adminKey{})
	b, _ := v.(bool)
	return b
}

// WithRequestID attaches a request id to the context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

// RequestID retrieves a request id from context if present
func RequestID(ctx context.Context) (string, bool) {
	v := ctx.Value(reqIDKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}
