package diffview

import (
	"context"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// RenderTopic is the runtime event the frontend listens on for diff
// documents.
const RenderTopic = "diff:render"

// EventSurface delivers rendered documents to the webview as runtime
// events. EventsEmit is safe to call from any goroutine; the frontend
// applies the document on its own thread.
type EventSurface struct {
	ctxFn func() context.Context
}

func NewEventSurface(ctxProvider func() context.Context) *EventSurface {
	return &EventSurface{ctxFn: ctxProvider}
}

type renderPayload struct {
	Document string `json:"document"`
	Base     string `json:"base"`
}

func (s *EventSurface) Load(document, base string) {
	if s.ctxFn == nil {
		return
	}
	ctx := s.ctxFn()
	if ctx == nil {
		return
	}
	wailsruntime.EventsEmit(ctx, RenderTopic, renderPayload{Document: document, Base: base})
}
