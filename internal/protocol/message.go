package protocol

// Actions understood by the host, plus the one it emits.
const (
	ActionCopy    = "copy"
	ActionPrewarm = "prewarm"
	ActionPing    = "ping"
	ActionStatus  = "status"
)

// Request is a trigger message from the extension. SourceURL and Snapshot
// are both optional but at least one must be present for copy and prewarm.
type Request struct {
	ID     int64  `json:"id,omitempty"`
	Action string `json:"action"`

	// SourceURL is the resolved image URL, when the page exposed one.
	SourceURL string `json:"sourceUrl,omitempty"`

	// Snapshot is the base64-encoded raster captured from the page element,
	// when capture was possible.
	Snapshot string `json:"snapshot,omitempty"`

	// Tainted marks a snapshot whose pixels the page could not export.
	Tainted bool `json:"tainted,omitempty"`

	// FromMenu marks triggers routed through a context menu, which steals
	// focus and releases it asynchronously; the host must reacquire focus
	// before delivering.
	FromMenu bool `json:"fromMenu,omitempty"`
}

// Response answers a Request.
type Response struct {
	ID    int64  `json:"id,omitempty"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Status is an unsolicited notification carrying a transient human-readable
// message for the extension's toast, with an optional accent color sampled
// from the copied image.
type Status struct {
	Action  string `json:"action"`
	Message string `json:"message"`
	Accent  string `json:"accent,omitempty"`
}
