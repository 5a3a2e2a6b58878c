package trace

import "context"

type tracerKey struct{}

// WithTracer returns a context carrying t. A nil tracer stores Nop so
// FromContext never hands out nil.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer carried by ctx, or Nop when there is none.
// The result is always usable without a nil check.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	t, ok := ctx.Value(tracerKey{}).(Tracer)
	if !ok {
		return Nop
	}
	return t
}
