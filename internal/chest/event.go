package chest

import "context"

// Event is a render instruction for the presentation layer.
type Event struct {
	State   State
	Message string // empty while locked
	Day     string
}

// Renderer is implemented by the presentation layer.
type Renderer interface {
	Render(ctx context.Context, ev Event) error
}

// RendererFunc adapts a func to Renderer.
type RendererFunc func(ctx context.Context, ev Event) error

func (f RendererFunc) Render(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Outcome is the result of one chest operation.
type Outcome struct {
	Event Event
	// Fresh is set when this call selected a new message.
	Fresh bool
	// Persisted reports whether the visible state survives a reload.
	Persisted bool
	// Notices holds non-blocking fault errors raised during the call.
	Notices []error
}
