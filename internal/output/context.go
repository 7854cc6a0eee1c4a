package output

import "context"

type formatKey struct{}

type queryKey struct{}

// WithFormat returns a new context with the output format attached.
func WithFormat(ctx context.Context, format Format) context.Context {
	return context.WithValue(ctx, formatKey{}, format)
}

// FormatFromContext retrieves the output format from the context.
// If no format is set in the context, it returns FormatText as the default.
func FormatFromContext(ctx context.Context) Format {
	if v, ok := ctx.Value(formatKey{}).(Format); ok {
		return v
	}
	return FormatText
}

// WithQuery adds a jq query string to context.
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// QueryFromContext retrieves the jq query from context.
func QueryFromContext(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey{}).(string); ok {
		return q
	}
	return ""
}

// Result shaping and verbosity context keys
type limitKey struct{}
type sortFieldKey struct{}
type sortDescKey struct{}
type quietKey struct{}

// WithLimit sets the --result-limit value in context.
func WithLimit(ctx context.Context, limit int) context.Context {
	return context.WithValue(ctx, limitKey{}, limit)
}

// LimitFromContext returns the --result-limit value (0 = unlimited).
func LimitFromContext(ctx context.Context) int {
	if l, ok := ctx.Value(limitKey{}).(int); ok {
		return l
	}
	return 0
}

// WithSort sets sort field and direction in context.
func WithSort(ctx context.Context, field string, desc bool) context.Context {
	ctx = context.WithValue(ctx, sortFieldKey{}, field)
	ctx = context.WithValue(ctx, sortDescKey{}, desc)
	return ctx
}

// SortFromContext returns sort field and direction.
func SortFromContext(ctx context.Context) (field string, desc bool) {
	if f, ok := ctx.Value(sortFieldKey{}).(string); ok {
		field = f
	}
	if d, ok := ctx.Value(sortDescKey{}).(bool); ok {
		desc = d
	}
	return
}

// WithQuiet sets the --quiet flag in context.
func WithQuiet(ctx context.Context, quiet bool) context.Context {
	return context.WithValue(ctx, quietKey{}, quiet)
}

// QuietFromContext returns true if --quiet flag is set.
func QuietFromContext(ctx context.Context) bool {
	if q, ok := ctx.Value(quietKey{}).(bool); ok {
		return q
	}
	return false
}
