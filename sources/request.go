package sources

import (
	"context"
	"fmt"
	"net/http"
)

const UserAgent = "helixlauncher-meta"

// StatusError is returned for responses outside the 2xx range
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d (%s)", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func newRequest(ctx context.Context, method, url, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	if contentType != "" {
		req.Header.Set("Accept", contentType)
	}
	return req, nil
}

func do(req *http.Request) (*http.Response, error) {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &StatusError{URL: req.URL.String(), StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// GetWithUA performs a GET request carrying the helixmeta User-Agent.
// Non-2xx responses are returned as *StatusError with the body already closed.
func GetWithUA(ctx context.Context, url string, contentType string) (*http.Response, error) {
	req, err := newRequest(ctx, http.MethodGet, url, contentType)
	if err != nil {
		return nil, err
	}
	return do(req)
}

func HeadWithUA(ctx context.Context, url string) (*http.Response, error) {
	req, err := newRequest(ctx, http.MethodHead, url, "")
	if err != nil {
		return nil, err
	}
	return do(req)
}
