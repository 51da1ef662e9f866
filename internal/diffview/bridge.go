package diffview

// Bridge is the callback namespace exposed to content rendered inside the
// diff surface. It is bound to the webview separately from API so that
// rendered markup can reach exactly these three integer-indexed operations
// and nothing else of the host application.
type Bridge struct {
	renderer *Renderer
}

func NewBridge(renderer *Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

func (b *Bridge) StageHunk(index int) { b.renderer.Dispatch(ActionStage, index) }

func (b *Bridge) UnstageHunk(index int) { b.renderer.Dispatch(ActionUnstage, index) }

func (b *Bridge) DiscardHunk(index int) { b.renderer.Dispatch(ActionDiscard, index) }
