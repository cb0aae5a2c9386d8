package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"setup-cpp/internal/logger"
)

// ErrBadStatus classifies a response outside the 2xx range.
var ErrBadStatus = errors.New("unexpected HTTP status")

// Task is one URL-to-file transfer. It is owned by the Downloader until the
// Result is delivered.
type Task struct {
	URL  string
	Dest string
	// SHA256, when set, is the expected hex digest of the payload.
	SHA256 string
}

// Result is delivered exactly once per Fetch call.
type Result struct {
	Task Task
	Size int64
	Err  error
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: bad status %s", e.URL, e.Status)
}

func (e *StatusError) Unwrap() error { return ErrBadStatus }

// FileError reports a local filesystem failure while persisting the payload,
// as opposed to a transport failure.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to persist download to %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Downloader fetches resources over HTTP(S). It never retries.
type Downloader struct {
	Client *http.Client
	// Timeout bounds a whole transfer when positive.
	Timeout time.Duration
}

// New creates a Downloader. A nil client means http.DefaultClient.
func New(client *http.Client, timeout time.Duration) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Downloader{Client: client, Timeout: timeout}
}

// Fetch starts the transfer in the background and returns a channel that
// receives exactly one Result and is then closed.
func (d *Downloader) Fetch(ctx context.Context, task Task) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		defer close(done)
		size, err := d.fetch(ctx, task)
		done <- Result{Task: task, Size: size, Err: err}
	}()
	return done
}

func (d *Downloader) fetch(ctx context.Context, task Task) (int64, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request for %s: %w", task.URL, err)
	}

	logger.Debug("[DEBUG] GET %s\n", task.URL)
	resp, err := d.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to GET %s: %w", task.URL, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &StatusError{URL: task.URL, Status: resp.Status, Code: resp.StatusCode}
	}

	if err := os.MkdirAll(filepath.Dir(task.Dest), 0755); err != nil {
		return 0, &FileError{Path: task.Dest, Err: err}
	}

	// Write to a sibling .part file and rename once complete, so a failed
	// transfer never leaves something that looks like a finished installer.
	part := task.Dest + ".part"
	n, err := writePart(part, resp.Body, task.SHA256)
	if err != nil {
		_ = os.Remove(part)
		return n, err
	}
	if err := os.Rename(part, task.Dest); err != nil {
		_ = os.Remove(part)
		return n, &FileError{Path: task.Dest, Err: err}
	}

	logger.Debug("[DEBUG] Downloaded %d bytes to: %s\n", n, task.Dest)
	return n, nil
}

// writePart streams body into path, hashing on the fly when a digest is expected.
func writePart(path string, body io.Reader, expected string) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, &FileError{Path: path, Err: err}
	}
	defer out.Close()

	var h hash.Hash
	var w io.Writer = out
	if expected != "" {
		h = sha256.New()
		w = io.MultiWriter(out, h)
	}

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("failed to read response body: %w", err)
	}
	if err := out.Sync(); err != nil {
		return n, &FileError{Path: path, Err: err}
	}
	if err := out.Close(); err != nil {
		return n, &FileError{Path: path, Err: err}
	}

	if h != nil {
		got := hex.EncodeToString(h.Sum(nil))
		if !strings.EqualFold(got, expected) {
			return n, &ChecksumError{File: path, Expected: strings.ToLower(expected), Got: got}
		}
	}
	return n, nil
}
