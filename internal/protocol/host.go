package protocol

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/imageclip/imageclip-host/internal/acquire"
	"github.com/imageclip/imageclip-host/internal/cache"
	"github.com/imageclip/imageclip-host/internal/clip"
	"github.com/imageclip/imageclip-host/internal/raster"
)

// Options wires the host's collaborators.
type Options struct {
	Pipeline *acquire.Pipeline
	Delivery *clip.Delivery

	// FocusPoller, when set, gates context-menu deliveries on focus
	// reacquisition.
	FocusPoller  *clip.FocusPoller
	FocusTimeout time.Duration

	// MaxEdge bounds re-encoded image dimensions.
	MaxEdge int

	Debug bool
}

// Host runs the native-messaging loop: it reads trigger requests, routes
// them through the raster cache, acquisition pipeline and clipboard
// delivery, and emits responses and status notifications.
type Host struct {
	in  io.Reader
	out io.Writer
	mu  sync.Mutex // serializes frames on out

	slot         *cache.Slot
	pipeline     *acquire.Pipeline
	delivery     *clip.Delivery
	poller       *clip.FocusPoller
	focusTimeout time.Duration
	maxEdge      int
	debug        bool
}

// New creates a host reading requests from in and writing frames to out.
func New(in io.Reader, out io.Writer, opts Options) *Host {
	timeout := opts.FocusTimeout
	if timeout <= 0 {
		timeout = clip.DefaultFocusTimeout
	}
	return &Host{
		in:           in,
		out:          out,
		slot:         &cache.Slot{},
		pipeline:     opts.Pipeline,
		delivery:     opts.Delivery,
		poller:       opts.FocusPoller,
		focusTimeout: timeout,
		maxEdge:      opts.MaxEdge,
		debug:        opts.Debug,
	}
}

// Run processes requests until the input closes. Malformed frames that can
// still be skipped are logged and dropped; a broken stream ends the loop.
func (h *Host) Run() error {
	for {
		raw, err := ReadMessage(h.in)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("message stream broken: %w", err)
		}

		var req Request
		if err := json.Unmarshal(raw, &req); err != nil {
			log.Printf("host: dropping malformed request: %v", err)
			continue
		}

		switch req.Action {
		case ActionPing:
			h.respond(Response{ID: req.ID, OK: true})
		case ActionPrewarm:
			h.respond(h.startPrewarm(&req))
		case ActionCopy:
			h.respond(h.handleCopy(&req))
		default:
			h.respond(Response{ID: req.ID, Error: fmt.Sprintf("unknown action: %s", req.Action)})
		}
	}
}

// startPrewarm validates the request, retargets the cache, and kicks off the
// background fetch. The reply does not wait for the fetch.
func (h *Host) startPrewarm(req *Request) Response {
	ref, err := reference(req)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	if !ref.HasSource() {
		return Response{ID: req.ID, Error: acquire.ErrNoSource.Error()}
	}

	// Eager invalidation: the slot is cleared for the new target before the
	// fetch starts, so an older in-flight fetch can no longer land.
	h.slot.SetTarget(ref.Key())
	go h.prewarm(ref)
	return Response{ID: req.ID, OK: true}
}

// prewarm acquires and normalizes in the background and commits the result
// only if the target has not moved on since the fetch began.
func (h *Host) prewarm(ref acquire.ImageReference) {
	key := ref.Key()
	data, attempt, err := h.pipeline.Acquire(context.Background(), ref)
	if err != nil {
		log.Printf("prewarm %s: %v", key, err)
		return
	}
	png, err := raster.Normalize(data, h.maxEdge)
	if err != nil {
		log.Printf("prewarm %s: %v", key, err)
		return
	}
	if !h.slot.Commit(key, png, raster.FormatPNG) {
		log.Printf("prewarm %s: target changed, result discarded", key)
		return
	}
	if h.debug {
		log.Printf("prewarm %s: cached %d bytes (%s)", key, len(png), attempt.Summary())
	}
}

// handleCopy delivers the referenced image to the clipboard: eagerly from
// the cache when pre-warm already landed, lazily through the pipeline
// otherwise.
func (h *Host) handleCopy(req *Request) Response {
	ref, err := reference(req)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	if !ref.HasSource() {
		return Response{ID: req.ID, Error: acquire.ErrNoSource.Error()}
	}
	key := ref.Key()

	// Context-menu triggers arrive while the menu still owns focus; wait
	// for it to come back before any write. Timing out here is a
	// precondition failure, not a delivery attempt.
	if req.FromMenu && h.poller != nil {
		if !h.poller.Wait(h.focusTimeout) {
			detail := clip.ErrFocusTimeout.Error()
			h.notify("copy failed: "+detail, "")
			return Response{ID: req.ID, Error: detail}
		}
	}

	ctx := context.Background()
	var png []byte
	var res clip.Result
	if entry, ok := h.slot.Get(key); ok {
		png = entry.Data
		res = h.delivery.DeliverEager(ctx, entry.Data)
	} else {
		h.slot.SetTarget(key)
		res = h.delivery.DeliverLazy(ctx, func(ctx context.Context) ([]byte, error) {
			data, _, err := h.pipeline.Acquire(ctx, ref)
			if err != nil {
				return nil, err
			}
			out, err := raster.Normalize(data, h.maxEdge)
			if err != nil {
				return nil, err
			}
			h.slot.Commit(key, out, raster.FormatPNG)
			png = out
			return out, nil
		})
	}

	if !res.OK {
		h.notify("copy failed: "+res.ErrorDetail, "")
		return Response{ID: req.ID, Error: res.ErrorDetail}
	}

	accent, err := raster.AccentColor(png)
	if err != nil {
		accent = ""
	}
	h.notify("copied", accent)
	return Response{ID: req.ID, OK: true}
}

// reference captures the immutable image reference for one interaction.
func reference(req *Request) (acquire.ImageReference, error) {
	ref := acquire.ImageReference{URL: req.SourceURL, SnapshotTainted: req.Tainted}
	if req.Snapshot != "" {
		data, err := base64.StdEncoding.DecodeString(req.Snapshot)
		if err != nil {
			return ref, fmt.Errorf("invalid snapshot encoding: %w", err)
		}
		ref.Snapshot = data
	}
	return ref, nil
}

func (h *Host) respond(resp Response) {
	if err := h.write(resp); err != nil {
		log.Printf("host: failed to write response: %v", err)
	}
}

// notify emits a status notification for the extension's toast.
func (h *Host) notify(message, accent string) {
	if err := h.write(Status{Action: ActionStatus, Message: message, Accent: accent}); err != nil {
		log.Printf("host: failed to write status: %v", err)
	}
}

func (h *Host) write(v interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return WriteMessage(h.out, v)
}
