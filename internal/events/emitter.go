package events

import (
	"context"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var (
	mu      sync.RWMutex
	notify  = func(ctx context.Context, n Notice) {}
	publish = func(ctx context.Context, name string, payload any) {}
)

// Notify delivers a notice through the active emitter.
func Notify(ctx context.Context, n Notice) {
	if n.ConversationID == "" {
		n.ConversationID = ConversationFromContext(ctx)
	}
	mu.RLock()
	f := notify
	mu.RUnlock()
	f(ctx, n)
}

// Publish sends a state-change payload to the frontend.
func Publish(ctx context.Context, name string, payload any) {
	mu.RLock()
	f := publish
	mu.RUnlock()
	f(ctx, name, payload)
}

// EnableRuntimeEmitter routes notices and payloads to the Wails runtime.
// ctx must be the context received in OnStartup.
func EnableRuntimeEmitter() {
	mu.Lock()
	defer mu.Unlock()
	notify = func(ctx context.Context, n Notice) {
		runtime.EventsEmit(ctx, NoticeChannel, n)
		logRuntimeNotice(ctx, n)
	}
	publish = func(ctx context.Context, name string, payload any) {
		runtime.EventsEmit(ctx, name, payload)
	}
}

// SetCustomEmitter replaces the notice emitter; nil disables it.
func SetCustomEmitter(f func(ctx context.Context, n Notice)) {
	mu.Lock()
	defer mu.Unlock()
	if f == nil {
		notify = func(context.Context, Notice) {}
		return
	}
	notify = f
}

// SetCustomPublisher replaces the payload publisher; nil disables it.
func SetCustomPublisher(f func(ctx context.Context, name string, payload any)) {
	mu.Lock()
	defer mu.Unlock()
	if f == nil {
		publish = func(context.Context, string, any) {}
		return
	}
	publish = f
}
