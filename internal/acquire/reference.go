package acquire

import (
	"crypto/sha256"
	"encoding/hex"
)

// ImageReference identifies the image a user interaction targets: a snapshot
// of the page element, a resolvable URL, or both. It is captured once per
// interaction and not mutated afterwards.
type ImageReference struct {
	// URL is the source image URL, if one could be resolved from the page.
	URL string

	// Snapshot holds the encoded raster the extension captured from the
	// loaded page element, when capture was possible.
	Snapshot []byte

	// SnapshotTainted marks a capture whose pixel data the page was not
	// allowed to read (cross-origin content without permission). The
	// snapshot strategy treats this as an expected, non-fatal failure.
	SnapshotTainted bool
}

// HasSource reports whether the reference carries at least one usable input.
func (r ImageReference) HasSource() bool {
	return r.URL != "" || len(r.Snapshot) > 0
}

// Key returns the cache identity of the reference: the URL when present,
// otherwise a digest of the snapshot bytes.
func (r ImageReference) Key() string {
	if r.URL != "" {
		return r.URL
	}
	if len(r.Snapshot) > 0 {
		sum := sha256.Sum256(r.Snapshot)
		return "snapshot:" + hex.EncodeToString(sum[:8])
	}
	return ""
}
