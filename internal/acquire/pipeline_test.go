package acquire

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// pngBytes encodes a solid-color PNG for use as snapshot or server payload.
func pngBytes(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

// fakeFetcher records every URL it is asked for and answers via respond.
type fakeFetcher struct {
	calls   []string
	respond func(url string) (*FetchResult, error)
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*FetchResult, error) {
	f.calls = append(f.calls, url)
	return f.respond(url)
}

func strategyNames(a *Attempt) []string {
	names := make([]string, len(a.Results))
	for i, r := range a.Results {
		names[i] = r.Strategy
	}
	return names
}

func TestAcquire_SnapshotOnly_NeverCallsFetcher(t *testing.T) {
	fetcher := &fakeFetcher{respond: func(string) (*FetchResult, error) {
		return &FetchResult{}, nil
	}}
	p := New(fetcher, nil, 2048)

	ref := ImageReference{Snapshot: pngBytes(t, 10, 10, color.White)}
	data, attempt, err := p.Acquire(context.Background(), ref)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("privileged fetcher was called %d times for an element-only reference", len(fetcher.calls))
	}
	if got := strategyNames(attempt); len(got) != 1 || got[0] != "snapshot" {
		t.Errorf("strategies run = %v, want [snapshot]", got)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("snapshot result does not decode as PNG: %v", err)
	}
}

func TestAcquire_URLOnly_SkipsSnapshotStrategy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	fetcher := &fakeFetcher{respond: func(string) (*FetchResult, error) {
		return &FetchResult{Status: http.StatusInternalServerError}, nil
	}}
	p := New(fetcher, srv.Client(), 2048)

	_, attempt, err := p.Acquire(context.Background(), ImageReference{URL: srv.URL + "/img"})
	if err == nil {
		t.Fatal("Acquire should fail when both URL strategies fail")
	}
	got := strategyNames(attempt)
	if len(got) != 2 || got[0] != "privileged" || got[1] != "direct" {
		t.Errorf("strategies run = %v, want [privileged direct]", got)
	}
}

func TestAcquire_PrivilegedSuccess(t *testing.T) {
	payload := pngBytes(t, 20, 20, color.RGBA{1, 2, 3, 255})
	fetcher := &fakeFetcher{respond: func(string) (*FetchResult, error) {
		return &FetchResult{Data: payload, Status: http.StatusOK}, nil
	}}
	p := New(fetcher, nil, 2048)

	data, _, err := p.Acquire(context.Background(), ImageReference{URL: "https://lh3.example.com/photo=w64-h64"})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("privileged fetch result should be returned unmodified")
	}
	if len(fetcher.calls) != 1 {
		t.Fatalf("fetcher called %d times, want 1", len(fetcher.calls))
	}
	if !strings.Contains(fetcher.calls[0], "=w2048-h2048-no") {
		t.Errorf("fetcher was given %q, want normalized URL", fetcher.calls[0])
	}
}

func TestAcquire_DeniedRetriesVariantSuffix(t *testing.T) {
	payload := pngBytes(t, 20, 20, color.RGBA{9, 9, 9, 255})
	fetcher := &fakeFetcher{respond: func(url string) (*FetchResult, error) {
		if strings.Contains(url, "=s2048") {
			return &FetchResult{Data: payload, Status: http.StatusOK}, nil
		}
		return &FetchResult{Status: http.StatusForbidden}, nil
	}}
	p := New(fetcher, nil, 2048)

	data, attempt, err := p.Acquire(context.Background(), ImageReference{URL: "https://lh3.example.com/photo=w64-h64"})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("variant retry result should be returned unmodified")
	}
	if len(fetcher.calls) != 2 {
		t.Fatalf("fetcher called %d times, want 2 (denied, then variant)", len(fetcher.calls))
	}
	// Strategy 2 succeeded; strategy 3 must not have run.
	got := strategyNames(attempt)
	if len(got) != 1 || got[0] != "privileged" {
		t.Errorf("strategies run = %v, want [privileged]", got)
	}
}

func TestAcquire_FallsThroughToDirectFetch(t *testing.T) {
	payload := pngBytes(t, 15, 15, color.RGBA{200, 100, 50, 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	}))
	defer srv.Close()

	// No collaborator at all: strategy 2 fails, strategy 3 carries it.
	p := New(nil, srv.Client(), 2048)

	data, attempt, err := p.Acquire(context.Background(), ImageReference{URL: srv.URL + "/photo"})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("direct fetch result does not decode as PNG: %v", err)
	}
	got := strategyNames(attempt)
	if len(got) != 2 || got[1] != "direct" {
		t.Errorf("strategies run = %v, want privileged failure then direct success", got)
	}
}

func TestAcquire_AllStrategiesFail_SingleAggregateError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	fetcher := &fakeFetcher{respond: func(string) (*FetchResult, error) {
		return nil, errors.New("collaborator offline")
	}}
	p := New(fetcher, srv.Client(), 2048)

	ref := ImageReference{
		URL:             srv.URL + "/photo",
		SnapshotTainted: true,
	}
	_, attempt, err := p.Acquire(context.Background(), ref)
	if err == nil {
		t.Fatal("Acquire should fail when every strategy fails")
	}

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("err = %T, want *ExhaustedError", err)
	}
	if len(attempt.Results) != 3 {
		t.Errorf("attempt recorded %d strategies, want 3", len(attempt.Results))
	}
	if !strings.Contains(err.Error(), "all acquisition methods failed") {
		t.Errorf("aggregate error message = %q", err.Error())
	}
}

func TestAcquire_TaintedSnapshotIsNonFatal(t *testing.T) {
	payload := pngBytes(t, 12, 12, color.RGBA{0, 128, 0, 255})
	fetcher := &fakeFetcher{respond: func(string) (*FetchResult, error) {
		return &FetchResult{Data: payload, Status: http.StatusOK}, nil
	}}
	p := New(fetcher, nil, 2048)

	ref := ImageReference{
		URL:             "https://lh3.example.com/photo",
		Snapshot:        pngBytes(t, 12, 12, color.Black),
		SnapshotTainted: true,
	}
	data, attempt, err := p.Acquire(context.Background(), ref)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("pipeline should have fallen through to the privileged fetch")
	}
	if !errors.Is(attempt.Results[0].Err, ErrTaintedSnapshot) {
		t.Errorf("first strategy error = %v, want ErrTaintedSnapshot", attempt.Results[0].Err)
	}
}

func TestAcquire_NoSource(t *testing.T) {
	p := New(nil, nil, 2048)
	_, _, err := p.Acquire(context.Background(), ImageReference{})
	if !errors.Is(err, ErrNoSource) {
		t.Errorf("err = %v, want ErrNoSource", err)
	}
}

func TestImageReference_Key(t *testing.T) {
	withURL := ImageReference{URL: "https://example.com/a", Snapshot: []byte("x")}
	if withURL.Key() != "https://example.com/a" {
		t.Errorf("URL should win as cache key, got %q", withURL.Key())
	}

	snapOnly := ImageReference{Snapshot: []byte("pixels")}
	if snapOnly.Key() == "" || snapOnly.Key() == snapOnly.URL {
		t.Errorf("snapshot-only key = %q, want digest-based key", snapOnly.Key())
	}
	if snapOnly.Key() != (ImageReference{Snapshot: []byte("pixels")}).Key() {
		t.Error("identical snapshots should produce identical keys")
	}

	if (ImageReference{}).Key() != "" {
		t.Error("empty reference should have empty key")
	}
}
