package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxFetchBytes caps how much of a response body a fetch will read. Photo
// originals run tens of megabytes at most; anything larger is not an image.
const maxFetchBytes = 64 << 20

// FetchResult is the outcome of a single privileged-fetch request. Status
// carries the upstream HTTP status so the pipeline can distinguish an
// authorization-denied response (which has a known URL-variant fallback)
// from other failures.
type FetchResult struct {
	Data   []byte
	Status int
}

// OK reports whether the fetch produced usable image bytes.
func (r *FetchResult) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300 && len(r.Data) > 0
}

// Denied reports whether the upstream refused the request for authorization
// reasons.
func (r *FetchResult) Denied() bool {
	return r != nil && (r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden)
}

// PrivilegedFetcher retrieves a URL outside the page's origin restrictions.
// In a browser deployment this is backed by the extension's background
// worker; HTTPFetcher is the host-process implementation. A transport-level
// error returns err != nil; an upstream non-success status returns a result
// carrying that status with no error.
type PrivilegedFetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// HTTPFetcher implements PrivilegedFetcher over net/http. The first attempt
// sends the configured credential headers; if that attempt fails at the
// transport level, one unauthenticated retry is made.
type HTTPFetcher struct {
	Client *http.Client

	// Credentials are headers (typically Cookie) attached to the first,
	// credentialed attempt only.
	Credentials http.Header
}

// Fetch retrieves url, credentialed first, anonymously on transport failure.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*FetchResult, error) {
	res, err := f.do(ctx, url, true)
	if err != nil && len(f.Credentials) > 0 {
		res, err = f.do(ctx, url, false)
	}
	return res, err
}

func (f *HTTPFetcher) do(ctx context.Context, url string, credentialed bool) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid fetch URL: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	if credentialed {
		for name, values := range f.Credentials {
			for _, v := range values {
				req.Header.Add(name, v)
			}
		}
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &FetchResult{Status: resp.StatusCode}, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read fetch body: %w", err)
	}
	return &FetchResult{Data: data, Status: resp.StatusCode}, nil
}
