package audit

import "context"

// RequestMeta is the HTTP request information attached to audit entries.
type RequestMeta struct {
	RequestID string
	ClientIP  string
	UserAgent string
}

type requestMetaKey struct{}

func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext returns the stored metadata, or the zero value
// outside of an HTTP request.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}
