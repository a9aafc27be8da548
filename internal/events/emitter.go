package events

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Emit publishes a session event on the named channel. It is a no-op until
// EnableRuntimeEmitter wires it to the Wails runtime; tests install their own
// sink via SetCustomEmitter.
var Emit = func(ctx context.Context, name string, evt StreamEvent) {}

// EmitDone publishes the terminal outcome of a session.
var EmitDone = func(ctx context.Context, evt DoneEvent) {}

func EnableRuntimeEmitter() {
	Emit = func(ctx context.Context, name string, evt StreamEvent) {
		if evt.SessionKey == "" {
			if session := SessionFromContext(ctx); session != "" {
				evt.SessionKey = session
			}
		}
		runtime.EventsEmit(ctx, name, evt)
		logRuntimeEvent(ctx, evt)
	}
	EmitDone = func(ctx context.Context, evt DoneEvent) {
		runtime.EventsEmit(ctx, ReportDone, evt)
	}
}

func SetCustomEmitter(f func(ctx context.Context, name string, evt StreamEvent), done func(ctx context.Context, evt DoneEvent)) {
	if f == nil {
		Emit = func(context.Context, string, StreamEvent) {}
	} else {
		Emit = func(ctx context.Context, name string, evt StreamEvent) {
			if evt.SessionKey == "" {
				if session := SessionFromContext(ctx); session != "" {
					evt.SessionKey = session
				}
			}
			f(ctx, name, evt)
		}
	}
	if done == nil {
		EmitDone = func(context.Context, DoneEvent) {}
	} else {
		EmitDone = done
	}
}
