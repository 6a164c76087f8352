package clip

// Backend is the platform clipboard implementation. Build constraints select
// the real backend (golang.design/x/clipboard) where a clipboard exists and
// a headless stub elsewhere.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// WriteImage places PNG-encoded image data on the clipboard.
	WriteImage(png []byte) error
}
