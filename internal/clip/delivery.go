package clip

import (
	"context"
	"fmt"
	"time"
)

// defaultSettleDelay is the fixed wait after raising focus before an eager
// write, long enough for focus to propagate to the clipboard owner.
const defaultSettleDelay = 300 * time.Millisecond

// Result is the terminal outcome of one delivery attempt. It is surfaced to
// the UI collaborator and never persisted.
type Result struct {
	OK          bool
	ErrorDetail string
}

func failure(category string, err error) Result {
	return Result{ErrorDetail: fmt.Sprintf("%s: %v", category, err)}
}

// Producer is a pending payload computation: acquisition plus normalization,
// deferred until the write itself needs the bytes.
type Producer func(ctx context.Context) ([]byte, error)

// Delivery writes PNG payloads to a clipboard backend.
//
// Focused and Raise model the host environment's focus state: clipboard
// writes are rejected while unfocused, so the eager path raises focus and
// waits a fixed settle delay before writing. Both may be nil, meaning focus
// is not a concern on this platform.
type Delivery struct {
	Backend Backend
	Focused func() bool
	Raise   func()
	Settle  time.Duration

	sleep func(time.Duration)
}

// NewDelivery builds a Delivery with the default settle delay.
func NewDelivery(backend Backend) *Delivery {
	return &Delivery{Backend: backend, Settle: defaultSettleDelay, sleep: time.Sleep}
}

// DeliverEager writes bytes that are already in hand (a cache hit). If the
// environment reports no focus, it raises focus and waits the settle delay
// first, since an unfocused write is rejected outright.
func (d *Delivery) DeliverEager(ctx context.Context, png []byte) Result {
	if d.Focused != nil && !d.Focused() {
		if d.Raise != nil {
			d.Raise()
		}
		d.settleSleep()
	}
	if err := ctx.Err(); err != nil {
		return failure("delivery canceled", err)
	}
	if err := d.Backend.WriteImage(png); err != nil {
		return failure("clipboard write rejected", err)
	}
	return Result{OK: true}
}

// DeliverLazy runs the pending payload computation and writes its result,
// all within this call, so the write finishes in the same trigger turn that
// authorized it. An acquisition failure is reported without touching the
// clipboard.
func (d *Delivery) DeliverLazy(ctx context.Context, produce Producer) Result {
	png, err := produce(ctx)
	if err != nil {
		return failure("image acquisition failed", err)
	}
	if err := d.Backend.WriteImage(png); err != nil {
		return failure("clipboard write rejected", err)
	}
	return Result{OK: true}
}

func (d *Delivery) settleSleep() {
	sleep := d.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	if d.Settle > 0 {
		sleep(d.Settle)
	}
}
