package obs

import "context"

type routeCtxKey struct{}

// WithRoutePattern stores the matched chi route pattern on the context so
// downstream middlewares can label metrics and spans with it.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, routeCtxKey{}, pattern)
}

// RoutePatternFromContext returns the stored route pattern, or "".
func RoutePatternFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	pattern, _ := ctx.Value(routeCtxKey{}).(string)
	return pattern
}
