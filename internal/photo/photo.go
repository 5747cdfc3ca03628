// Package photo resolves product photographs: a bounded HTTP fetch with a
// solid-color placeholder fallback. Failures never cross this boundary.
package photo

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"net/http"
	"strings"
	"time"

	// Register the decoders product CDNs serve.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// FitPolicy selects how a fetched photo is resized into the target box.
type FitPolicy string

const (
	// FitContain preserves aspect ratio and pads with the background color.
	FitContain FitPolicy = "contain"
	// FitCover preserves aspect ratio and crops to fill the box.
	FitCover FitPolicy = "cover"
)

// ParseFitPolicy normalises a config value into a policy, defaulting to contain.
func ParseFitPolicy(v string) FitPolicy {
	if FitPolicy(v) == FitCover {
		return FitCover
	}
	return FitContain
}

var (
	// placeholderGray matches the catalog's stand-in tile (#e8e8e8).
	placeholderGray = color.NRGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff}
	white           = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// CDN hosts reject requests without a browser user agent.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// DefaultTimeout bounds a single fetch attempt.
const DefaultTimeout = 5 * time.Second

// Fetcher acquires product photos over HTTP with graceful degradation.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewFetcher creates a fetcher. timeout falls back to DefaultTimeout when
// not positive.
func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		logger:  logger,
	}
}

// Acquire returns an image of exactly width times height. An empty URL skips
// the network and yields the placeholder immediately. Any fetch or decode
// failure yields the same placeholder: acquisition is always recoverable by
// substitution and a single attempt is made per call.
func (f *Fetcher) Acquire(ctx context.Context, url string, width, height int, fit FitPolicy) image.Image {
	url = strings.TrimSpace(url)
	if url == "" {
		return Placeholder(width, height)
	}

	img, err := f.fetch(ctx, url)
	if err != nil {
		if f.logger != nil {
			f.logger.WarnContext(ctx, "photo fetch failed, using placeholder",
				slog.String("url", url),
				slog.String("error", err.Error()),
			)
		}
		return Placeholder(width, height)
	}

	if fit == FitCover {
		return imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
	}

	fitted := imaging.Fit(img, width, height, imaging.Lanczos)
	canvas := imaging.New(width, height, white)
	return imaging.PasteCenter(canvas, fitted)
}

func (f *Fetcher) fetch(ctx context.Context, url string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{status: resp.StatusCode}
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Placeholder returns the solid stand-in tile at the requested dimensions.
func Placeholder(width, height int) image.Image {
	return imaging.New(width, height, placeholderGray)
}

type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.status)
}
