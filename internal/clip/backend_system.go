//go:build windows || darwin || (linux && cgo)

package clip

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

// NewBackend returns the system clipboard backend. Initialization happens
// once per process; an unfocusable or display-less environment fails here
// rather than on every write.
func NewBackend() (Backend, error) {
	initOnce.Do(func() {
		initErr = clipboard.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("system clipboard unavailable: %w", initErr)
	}
	return systemBackend{}, nil
}

type systemBackend struct{}

func (systemBackend) Name() string { return "system" }

func (systemBackend) WriteImage(png []byte) error {
	clipboard.Write(clipboard.FmtImage, png)
	return nil
}
