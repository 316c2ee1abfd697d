// Package export captures a rendered preview, encodes it and hands the
// result to a download sink.
package export

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/AnyUserName/tweetshot/internal/encoder"
	"github.com/AnyUserName/tweetshot/internal/hasher"
	"github.com/AnyUserName/tweetshot/internal/profile"
	"github.com/AnyUserName/tweetshot/internal/render"
	"github.com/AnyUserName/tweetshot/internal/state"
	"go.uber.org/zap"
)

// BaseName is the fixed download name, without extension.
const BaseName = "tweet-screenshot"

// Artifact is one exported image.
type Artifact struct {
	Filename  string
	Format    string
	MediaType string
	Width     int
	Height    int
	Data      []byte
	Hash      string // first 16 hex chars of xxhash64 over Data
}

// AvatarLoader resolves the avatar field to an image.
type AvatarLoader interface {
	Load(ctx context.Context, source string) (image.Image, error)
}

// Config holds the collaborators of an Exporter.
type Config struct {
	Renderer *render.Renderer
	Avatars  AvatarLoader
	Registry *encoder.Registry
	Profile  profile.Profile
	Logger   *zap.Logger
}

// Exporter turns a post snapshot into a downloadable image. It keeps no
// per-export state: calls are independent and may overlap.
type Exporter struct {
	cfg Config
	log *zap.Logger
}

// New creates an exporter. A nil Registry gets the default one.
func New(cfg Config) *Exporter {
	if cfg.Registry == nil {
		cfg.Registry = encoder.NewRegistry()
	}
	if cfg.Profile.Name == "" {
		cfg.Profile = profile.Get(profile.DefaultName)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{cfg: cfg, log: log}
}

// Profile returns the capture profile in use.
func (e *Exporter) Profile() profile.Profile {
	return e.cfg.Profile
}

// Capture renders p at the profile scale. An avatar that cannot be loaded
// is replaced by the fallback initial and is not an error.
func (e *Exporter) Capture(ctx context.Context, p state.Post) (image.Image, error) {
	var avatar image.Image
	if e.cfg.Avatars != nil && p.Avatar != "" {
		img, err := e.cfg.Avatars.Load(ctx, p.Avatar)
		if err != nil {
			e.log.Debug("avatar unavailable, drawing fallback", zap.Error(err))
		} else {
			avatar = img
		}
	}
	return e.cfg.Renderer.Render(ctx, p, avatar, e.cfg.Profile.Scale)
}

// Export captures p and encodes it with the profile's format.
func (e *Exporter) Export(ctx context.Context, p state.Post) (*Artifact, error) {
	enc, err := e.cfg.Registry.Get(e.cfg.Profile.Format)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	img, err := e.Capture(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	data, err := enc.Encode(img, e.cfg.Profile.Quality)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", enc.Format(), err)
	}

	b := img.Bounds()
	a := &Artifact{
		Filename:  BaseName + "." + enc.Extension(),
		Format:    enc.Format(),
		MediaType: enc.MediaType(),
		Width:     b.Dx(),
		Height:    b.Dy(),
		Data:      data,
		Hash:      hasher.Digest(data, 16),
	}
	e.log.Debug("preview exported",
		zap.String("file", a.Filename),
		zap.Int("width", a.Width),
		zap.Int("height", a.Height),
		zap.Int("bytes", len(a.Data)),
		zap.String("hash", a.Hash),
		zap.Duration("took", time.Since(start)))
	return a, nil
}

// Trigger is the download button: export p and deliver it to sink. Failures
// are logged and swallowed, so the caller sees only a missing artifact.
func (e *Exporter) Trigger(ctx context.Context, p state.Post, sink Downloader) *Artifact {
	a, err := e.Export(ctx, p)
	if err != nil {
		e.log.Warn("export failed", zap.Error(err))
		return nil
	}
	where, err := sink.Deliver(ctx, a)
	if err != nil {
		e.log.Warn("download failed", zap.String("file", a.Filename), zap.Error(err))
		return nil
	}
	e.log.Info("download saved", zap.String("path", where), zap.String("hash", a.Hash))
	return a
}
