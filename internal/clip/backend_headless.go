//go:build !windows && !darwin && !(linux && cgo)

package clip

import "errors"

// NewBackend returns a stub backend for platforms without clipboard access.
// Writes fail with a clear reason instead of failing to build.
func NewBackend() (Backend, error) {
	return headlessBackend{}, nil
}

type headlessBackend struct{}

func (headlessBackend) Name() string { return "headless" }

func (headlessBackend) WriteImage([]byte) error {
	return errors.New("no clipboard available on this platform")
}
