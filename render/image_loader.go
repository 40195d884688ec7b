package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/tilepuzzle/assets"
	"github.com/milk9111/tilepuzzle/puzzle"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// maxRemoteImage caps how much of a remote response is read.
const maxRemoteImage = 32 << 20

var errEmptyLocator = errors.New("empty image locator")

// Loader resolves image locators against the embedded assets, the filesystem
// and http(s) URLs. Decoded images are cached by locator.
type Loader struct {
	Client *http.Client
	// NoCache forces every Load to read the source again.
	NoCache bool
}

// NewLoader returns a Loader using http.DefaultClient for remote images.
func NewLoader() *Loader {
	return &Loader{Client: http.DefaultClient}
}

var _ puzzle.Loader = (*Loader)(nil)

// Load returns the image for locator. Failures are reported as *puzzle.ImageLoadError.
func (l *Loader) Load(ctx context.Context, locator string) (image.Image, error) {
	if locator == "" {
		return nil, &puzzle.ImageLoadError{Locator: locator, Err: errEmptyLocator}
	}
	if !l.NoCache {
		if img := GetImage(locator); img != nil {
			return img, nil
		}
	}

	var (
		img image.Image
		err error
	)
	if isRemote(locator) {
		img, err = l.fetch(ctx, locator)
	} else {
		img, err = loadImageFromAssetsOrFS(locator)
	}
	if err != nil {
		return nil, &puzzle.ImageLoadError{Locator: locator, Err: err}
	}

	if !l.NoCache {
		RegisterImage(locator, img)
	}
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteImage))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	return decode(b)
}

func loadImageFromAssetsOrFS(path string) (image.Image, error) {
	if img, err := assets.LoadImage(path); err == nil {
		return img, nil
	}

	var lastErr error
	tried := []string{path, filepath.Join("assets", path), filepath.Base(path)}
	for _, p := range tried {
		b, err := os.ReadFile(p)
		if err != nil {
			if lastErr == nil {
				lastErr = err
			}
			continue
		}
		img, err := decode(b)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", p, err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("failed to load image %s: %w", path, lastErr)
}

func decode(b []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(b))
	return img, err
}

func isRemote(locator string) bool {
	l := strings.ToLower(locator)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
