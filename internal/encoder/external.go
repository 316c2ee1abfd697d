package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"sync"
)

// externalEncoder shells out to a command-line encoder that reads a PNG
// file and writes the target format. Avoids cgo.
type externalEncoder struct {
	format    string
	mediaType string
	tool      string
	install   string
	args      func(quality int, src, dst string) []string

	once sync.Once
	path string
}

// NewWebPEncoder uses cwebp (apt install webp / brew install webp).
func NewWebPEncoder() Encoder {
	return &externalEncoder{
		format:    "webp",
		mediaType: "image/webp",
		tool:      "cwebp",
		install:   "brew install webp",
		args: func(q int, src, dst string) []string {
			return []string{"-q", strconv.Itoa(q), "-m", "6", "-quiet", src, "-o", dst}
		},
	}
}

// NewAVIFEncoder uses avifenc (apt install libavif-bin / brew install libavif).
func NewAVIFEncoder() Encoder {
	return &externalEncoder{
		format:    "avif",
		mediaType: "image/avif",
		tool:      "avifenc",
		install:   "brew install libavif",
		args: func(q int, src, dst string) []string {
			// avifenc quantizer: 0 best .. 63 worst.
			aq := strconv.Itoa(63 - q*63/100)
			return []string{"--min", aq, "--max", aq, "--speed", "6", src, dst}
		},
	}
}

func (e *externalEncoder) Format() string    { return e.format }
func (e *externalEncoder) Extension() string { return e.format }
func (e *externalEncoder) MediaType() string { return e.mediaType }

func (e *externalEncoder) Available() bool {
	e.once.Do(func() {
		if p, err := exec.LookPath(e.tool); err == nil {
			e.path = p
		}
	})
	return e.path != ""
}

func (e *externalEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("%s: %w (install with: %s)", e.tool, ErrUnavailable, e.install)
	}
	if quality <= 0 || quality > 100 {
		quality = 90
	}

	src, err := os.CreateTemp("", "tweetshot_src_*.png")
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(src.Name())
	if err := png.Encode(src, img); err != nil {
		src.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	if err := src.Close(); err != nil {
		return nil, fmt.Errorf("close temp png: %w", err)
	}

	dst, err := os.CreateTemp("", "tweetshot_dst_*."+e.format)
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	dst.Close()
	defer os.Remove(dst.Name())

	cmd := exec.Command(e.path, e.args(quality, src.Name(), dst.Name())...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", e.tool, err, out)
	}
	return os.ReadFile(dst.Name())
}
