package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"snapex/internal/infra/logx"
)

// ErrNoSnapshot is returned when an operation is invoked without a snapshot id.
var ErrNoSnapshot = errors.New("no snapshot selected")

// FetchError reports a failed request against the snapshot backend.
type FetchError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%s: status %s: %v", e.Op, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s status %s", e.Op, e.Status)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client talks to a snapshot backend over HTTP. It is safe for concurrent
// use; every request goes through a LimiterTransport.
type Client struct {
	http    *http.Client
	base    *url.URL
	metrics *Metrics
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	Timeout   time.Duration
	Transport TransportOptions
}

// New builds a client for the backend rooted at baseURL.
func New(baseURL string, opt Options) (*Client, error) {
	base, err := parseBase(baseURL)
	if err != nil {
		return nil, err
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 10 * time.Second
	}
	tr := NewLimiterTransport(opt.Transport)
	return &Client{
		http:    &http.Client{Timeout: opt.Timeout, Transport: tr},
		base:    base,
		metrics: tr.Opts.Metrics,
	}, nil
}

func parseBase(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("backend url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q: scheme must be http or https", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// MetricsSnapshot returns the request counters collected by the transport.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c.metrics == nil {
		return MetricsSnapshot{}
	}
	return c.metrics.Snapshot()
}

// endpoint returns base+"/"+name with snapshot and path query parameters.
// url.Values percent-encodes both, so separators, spaces and reserved
// characters in directory names survive the round trip.
func (c *Client) endpoint(name, snapshotID, path string) string {
	u := *c.base
	u.Path = c.base.Path + "/" + name
	q := url.Values{}
	q.Set("snapshot", snapshotID)
	q.Set("path", path)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, u string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

// ---------- Listing ----------

// FetchListing returns the entries of path inside snapshotID, in the order
// the backend sent them. An empty path denotes the snapshot root.
func (c *Client) FetchListing(ctx context.Context, snapshotID, path string) ([]Entry, error) {
	if snapshotID == "" {
		return nil, ErrNoSnapshot
	}
	req, err := c.newRequest(ctx, c.endpoint("list", snapshotID, path))
	if err != nil {
		return nil, &FetchError{Op: "list", Err: err}
	}
	logx.Debugf("list snapshot=%q path=%q id=%s", snapshotID, path, req.Header.Get("X-Request-Id"))

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Op: "list", Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &FetchError{Op: "list", StatusCode: res.StatusCode, Status: res.Status, Err: backendMessage(res.Body)}
	}

	entries, dropped, err := DecodeListing(res.Body)
	if err != nil {
		return nil, &FetchError{Op: "list", StatusCode: res.StatusCode, Status: res.Status, Err: err}
	}
	if dropped > 0 {
		logx.Warnf("list snapshot=%q path=%q: dropped %d malformed entries", snapshotID, path, dropped)
	}
	return entries, nil
}

// backendMessage extracts a short error text from a failed response body.
func backendMessage(r io.Reader) error {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	msg := strings.TrimSpace(string(b))
	if msg == "" {
		return nil
	}
	return errors.New(msg)
}

// ---------- Download ----------

// DownloadURL returns the reference at which the backend serves fullPath of
// snapshotID. It performs no request.
func (c *Client) DownloadURL(snapshotID, fullPath string) string {
	return c.endpoint("download", snapshotID, fullPath)
}

// Download streams fullPath of snapshotID into w. When progress is non-nil
// it is called once with the announced content length (-1 if unknown) and
// the returned writer receives a copy of every chunk.
func (c *Client) Download(ctx context.Context, snapshotID, fullPath string, w io.Writer, progress func(total int64) io.Writer) (int64, error) {
	if snapshotID == "" {
		return 0, ErrNoSnapshot
	}
	if fullPath == "" {
		return 0, errors.New("download path is empty")
	}
	req, err := c.newRequest(ctx, c.DownloadURL(snapshotID, fullPath))
	if err != nil {
		return 0, &FetchError{Op: "download", Err: err}
	}
	req.Header.Set("Accept", "*/*")

	// Downloads may run far longer than a listing; rely on ctx instead of the
	// client-wide timeout.
	hc := *c.http
	hc.Timeout = 0
	res, err := hc.Do(req)
	if err != nil {
		return 0, &FetchError{Op: "download", Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return 0, &FetchError{Op: "download", StatusCode: res.StatusCode, Status: res.Status, Err: backendMessage(res.Body)}
	}

	dst := w
	if progress != nil {
		if pw := progress(res.ContentLength); pw != nil {
			dst = io.MultiWriter(w, pw)
		}
	}
	n, err := io.Copy(dst, res.Body)
	if c.metrics != nil {
		c.metrics.AddBytes(n)
	}
	if err != nil {
		return n, fmt.Errorf("download %s: %w", fullPath, err)
	}
	logx.Infof("downloaded snapshot=%q path=%q bytes=%d", snapshotID, fullPath, n)
	return n, nil
}
