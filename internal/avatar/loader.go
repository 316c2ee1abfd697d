package avatar

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/AnyUserName/tweetshot/internal/hasher"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// maxCached bounds the decoded-image cache; it is dropped wholesale when full.
const maxCached = 64

// Loader resolves avatar sources into images. Safe for concurrent use.
type Loader struct {
	client *http.Client
	log    *zap.Logger

	mu    sync.Mutex
	cache map[uint64]image.Image
}

// NewLoader creates a loader whose remote fetches give up after timeout.
func NewLoader(timeout time.Duration, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		client: &http.Client{Timeout: timeout},
		log:    log,
		cache:  make(map[uint64]image.Image),
	}
}

// Load returns the decoded image for a data URI or an http(s) URL.
// Successful results are cached per source.
func (l *Loader) Load(ctx context.Context, source string) (image.Image, error) {
	if source == "" {
		return nil, fmt.Errorf("avatar: empty source")
	}
	key := hasher.Key(source)

	l.mu.Lock()
	img, ok := l.cache[key]
	l.mu.Unlock()
	if ok {
		return img, nil
	}

	var data []byte
	var err error
	if IsDataURI(source) {
		_, data, err = DecodeDataURI(source)
	} else {
		data, err = l.fetch(ctx, source)
	}
	if err != nil {
		return nil, err
	}

	img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode avatar: %w", err)
	}

	l.mu.Lock()
	if len(l.cache) >= maxCached {
		clear(l.cache)
	}
	l.cache[key] = img
	l.mu.Unlock()
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("avatar request: %w", err)
	}
	req.Header.Set("Accept", "image/png,image/jpeg,image/gif,image/webp,image/*;q=0.8")

	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch avatar: %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read avatar body: %w", err)
	}
	l.log.Debug("avatar fetched",
		zap.String("url", url),
		zap.Int("bytes", len(data)),
		zap.Duration("took", time.Since(start)))
	return data, nil
}
