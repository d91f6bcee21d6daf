// Package source reads datasets from a local file or an http(s) URL.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"covidmap/internal/logger"
)

// MaxBytes caps a single download.
var MaxBytes int64 = 512 << 20

// ErrTooLarge is returned for downloads over MaxBytes.
var ErrTooLarge = errors.New("source: download exceeds limit")

// IsURL reports whether loc names an http(s) resource.
func IsURL(loc string) bool {
	l := strings.ToLower(loc)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Read returns the contents of loc. client may be nil.
func Read(ctx context.Context, client *http.Client, loc string) ([]byte, error) {
	if loc == "" {
		return nil, fmt.Errorf("source: empty location")
	}
	if !IsURL(loc) {
		b, err := os.ReadFile(loc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", loc, err)
		}
		return b, nil
	}
	return fetch(ctx, client, loc)
}

func fetch(ctx context.Context, client *http.Client, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	t0 := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		logger.L().Error("source_http_error", "url", u, "err", err)
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %s", u, resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	if int64(len(b)) > MaxBytes {
		return nil, fmt.Errorf("fetch %s: %w (%d bytes)", u, ErrTooLarge, MaxBytes)
	}
	logger.L().Debug("source_fetched", "url", u, "bytes", len(b), "duration_ms", time.Since(t0).Milliseconds())
	return b, nil
}
