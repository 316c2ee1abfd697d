package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxDuplicates bounds the " (n)" suffix search in a download directory.
const maxDuplicates = 10000

// Downloader receives finished artifacts. Deliver returns where the
// artifact ended up.
type Downloader interface {
	Deliver(ctx context.Context, a *Artifact) (string, error)
}

// DirDownloader saves artifacts into a directory the way a browser does:
// an existing file is never replaced, later copies get " (1)", " (2)", ...
type DirDownloader struct {
	Dir string
}

// Deliver writes a under Dir and returns the path written.
func (d DirDownloader) Deliver(ctx context.Context, a *Artifact) (string, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	ext := filepath.Ext(a.Filename)
	stem := strings.TrimSuffix(a.Filename, ext)

	for n := 0; n < maxDuplicates; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		name := a.Filename
		if n > 0 {
			name = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		path := filepath.Join(d.Dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", name, err)
		}
		if _, err := f.Write(a.Data); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("write %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", name, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("no free name for %s in %s", a.Filename, d.Dir)
}

// DownloaderFunc adapts a function to Downloader.
type DownloaderFunc func(ctx context.Context, a *Artifact) (string, error)

func (f DownloaderFunc) Deliver(ctx context.Context, a *Artifact) (string, error) {
	return f(ctx, a)
}
