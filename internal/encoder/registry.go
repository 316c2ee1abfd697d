package encoder

import (
	"fmt"
	"strings"
)

// order is the listing order of formats, default first.
var order = []string{"png", "jpeg", "webp", "avif"}

// Registry holds the encoders that can run on this machine.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry probes every known encoder and keeps the available ones.
func NewRegistry() *Registry {
	return newRegistry(&PNGEncoder{}, &JPEGEncoder{}, NewWebPEncoder(), NewAVIFEncoder())
}

func newRegistry(all ...Encoder) *Registry {
	r := &Registry{encoders: make(map[string]Encoder)}
	for _, enc := range all {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}
	return r
}

// Get returns the encoder for a format. "jpg" is accepted for "jpeg".
func (r *Registry) Get(format string) (Encoder, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "jpg" {
		format = "jpeg"
	}
	if format == "" {
		format = "png"
	}
	enc, ok := r.encoders[format]
	if !ok {
		return nil, fmt.Errorf("format %q: %w", format, ErrUnavailable)
	}
	return enc, nil
}

// Available returns the usable format names, default first.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range order {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}
