package encoder

import (
	"errors"
	"image"
)

// ErrUnavailable is returned when a format has no usable encoder.
var ErrUnavailable = errors.New("encoder unavailable")

// Encoder serializes a captured preview to one raster format.
type Encoder interface {
	// Format returns the format name ("png", "jpeg", "webp", "avif").
	Format() string

	// Encode converts the image to bytes. Lossless encoders ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available reports whether the encoder can run here.
	// External encoders need their binary on PATH.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string

	// MediaType returns the Content-Type of the encoded bytes.
	MediaType() string
}
