package preview

import (
	"fmt"
	"sync"
)

// Source supplies the committed content of a file in the open repository.
type Source interface {
	HeadBlob(path string) ([]byte, error)
}

// API exposes file previews to the frontend via Wails binding. The source
// follows the open repository and is swapped by the repos service.
type API struct {
	renderer *Renderer

	mu     sync.Mutex
	source Source
}

func NewAPI(renderer *Renderer) *API {
	return &API{renderer: renderer}
}

func (a *API) SetSource(source Source) {
	a.mu.Lock()
	a.source = source
	a.mu.Unlock()
}

// PreviewFile returns a highlighted HTML document for the file at HEAD.
func (a *API) PreviewFile(path string, tabWidth int) (string, error) {
	a.mu.Lock()
	source := a.source
	a.mu.Unlock()
	if source == nil {
		return "", fmt.Errorf("no repository open")
	}
	content, err := source.HeadBlob(path)
	if err != nil {
		return "", err
	}
	if content == nil {
		return "", fmt.Errorf("%s does not exist at HEAD", path)
	}
	return a.renderer.Document(path, content, tabWidth)
}
