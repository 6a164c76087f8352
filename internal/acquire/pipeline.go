package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/imageclip/imageclip-host/internal/imageurl"
	"github.com/imageclip/imageclip-host/internal/raster"
)

var (
	// ErrNoSource means the reference carries neither a snapshot nor a URL,
	// so no strategy applies.
	ErrNoSource = errors.New("image reference has no snapshot and no URL")

	// ErrTaintedSnapshot marks a snapshot whose pixels the page could not
	// legally export. Expected and non-fatal: the pipeline moves on.
	ErrTaintedSnapshot = errors.New("snapshot export blocked by cross-origin taint")
)

// StrategyResult records one strategy's outcome within an attempt. A nil Err
// means the strategy produced the bytes.
type StrategyResult struct {
	Strategy string
	Err      error
}

// Attempt is the per-acquisition diagnostic record: which strategies ran, in
// order, and how each ended. It lives only as long as the acquisition call.
type Attempt struct {
	Results []StrategyResult
}

func (a *Attempt) record(strategy string, err error) {
	a.Results = append(a.Results, StrategyResult{Strategy: strategy, Err: err})
}

// Summary renders the attempt as "name: outcome; name: outcome" for logs and
// the exhaustion error.
func (a *Attempt) Summary() string {
	parts := make([]string, 0, len(a.Results))
	for _, r := range a.Results {
		if r.Err == nil {
			parts = append(parts, r.Strategy+": ok")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", r.Strategy, r.Err))
	}
	return strings.Join(parts, "; ")
}

// ExhaustedError is the single aggregate failure returned when every
// applicable strategy failed.
type ExhaustedError struct {
	Attempt *Attempt
}

func (e *ExhaustedError) Error() string {
	return "all acquisition methods failed: " + e.Attempt.Summary()
}

// Pipeline runs the ordered acquisition strategies. The zero value is not
// usable; construct with New.
type Pipeline struct {
	fetcher PrivilegedFetcher
	client  *http.Client
	maxEdge int
}

// New builds a pipeline. fetcher may be nil, in which case the privileged
// strategy reports the collaborator unreachable and the pipeline falls
// through to the direct strategy. client is used for the anonymous direct
// fetch; nil means http.DefaultClient. maxEdge bounds exported surfaces.
func New(fetcher PrivilegedFetcher, client *http.Client, maxEdge int) *Pipeline {
	if client == nil {
		client = http.DefaultClient
	}
	if maxEdge <= 0 {
		maxEdge = imageurl.MaxEdge
	}
	return &Pipeline{fetcher: fetcher, client: client, maxEdge: maxEdge}
}

type strategy struct {
	name    string
	applies bool
	run     func(ctx context.Context) ([]byte, error)
}

// Acquire obtains raw encoded image bytes for ref, trying each applicable
// strategy in priority order and short-circuiting on the first success. The
// returned Attempt records every strategy that ran; on exhaustion the error
// is a single *ExhaustedError, never one error per strategy.
func (p *Pipeline) Acquire(ctx context.Context, ref ImageReference) ([]byte, *Attempt, error) {
	attempt := &Attempt{}
	if !ref.HasSource() {
		return nil, attempt, ErrNoSource
	}

	for _, s := range p.strategies(ref) {
		if !s.applies {
			continue
		}
		data, err := s.run(ctx)
		attempt.record(s.name, err)
		if err == nil {
			return data, attempt, nil
		}
		log.Printf("acquire: strategy %s failed: %v", s.name, err)
	}

	return nil, attempt, &ExhaustedError{Attempt: attempt}
}

func (p *Pipeline) strategies(ref ImageReference) []strategy {
	return []strategy{
		{
			name:    "snapshot",
			applies: len(ref.Snapshot) > 0 || ref.SnapshotTainted,
			run:     func(ctx context.Context) ([]byte, error) { return p.readSnapshot(ref) },
		},
		{
			name:    "privileged",
			applies: ref.URL != "",
			run:     func(ctx context.Context) ([]byte, error) { return p.privilegedFetch(ctx, ref.URL) },
		},
		{
			name:    "direct",
			applies: ref.URL != "",
			run:     func(ctx context.Context) ([]byte, error) { return p.directFetch(ctx, ref.URL) },
		},
	}
}

// readSnapshot renders the captured page-element raster onto a surface and
// exports it.
func (p *Pipeline) readSnapshot(ref ImageReference) ([]byte, error) {
	if ref.SnapshotTainted {
		return nil, ErrTaintedSnapshot
	}
	surface, err := raster.Render(ref.Snapshot)
	if err != nil {
		return nil, err
	}
	return surface.Export(p.maxEdge)
}

// privilegedFetch delegates the normalized URL to the collaborator. On an
// authorization-denied status it retries once with the alternate size-suffix
// form of the URL; that convention is undocumented server behavior, so the
// retry is best effort.
func (p *Pipeline) privilegedFetch(ctx context.Context, rawURL string) ([]byte, error) {
	if p.fetcher == nil {
		return nil, errors.New("privileged fetch collaborator unreachable")
	}

	url := imageurl.Normalize(rawURL)
	res, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if res.Denied() {
		variant := imageurl.AuthVariant(url)
		res, err = p.fetcher.Fetch(ctx, variant)
		if err != nil {
			return nil, err
		}
	}
	if !res.OK() {
		return nil, fmt.Errorf("privileged fetch returned status %d", res.Status)
	}
	return res.Data, nil
}

// directFetch loads the URL anonymously and runs the same render-and-export
// as the snapshot strategy. Last resort: no credentials, no retries.
func (p *Pipeline) directFetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageurl.Normalize(rawURL), nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("direct fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("direct fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read direct fetch body: %w", err)
	}

	surface, err := raster.Render(data)
	if err != nil {
		return nil, err
	}
	return surface.Export(p.maxEdge)
}
