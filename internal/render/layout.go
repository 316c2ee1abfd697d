package render

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/AnyUserName/tweetshot/internal/palette"
	"github.com/AnyUserName/tweetshot/internal/state"
	"github.com/gogpu/gg/text"
)

// Geometry of the card in CSS pixels, multiplied by the capture scale.
const (
	padding      = 16 // p-4
	radius       = 8  // rounded-lg
	avatarSize   = 48 // w-12 h-12
	avatarGap    = 16 // space-x-4
	handleGap    = 4  // space-x-1
	stackGap     = 8  // space-y-2
	countersTop  = 16 // pt-4
	baseFontSize = 16
	baseLine     = 24
	smallSize    = 14
	smallLine    = 20
)

// Colours that do not depend on the palette.
const (
	fallbackFill = "#f4f4f5"
	fallbackText = "#09090b"
)

// Role says which part of the post a text run belongs to.
type Role int

const (
	RoleName Role = iota
	RoleHandle
	RoleBody
	RoleCounter
	RoleInitial
)

// Run is one piece of text placed on the canvas. Baseline is the y of the
// text baseline; X is the left edge.
type Run struct {
	Role     Role
	Text     string
	X        float64
	Baseline float64
	Color    string
	Bold     bool
	Size     float64
}

// Box is an axis-aligned rectangle.
type Box struct {
	X, Y, W, H float64
}

// Layout is the resolved geometry of a post at a given scale.
type Layout struct {
	Width, Height int
	Scale         float64
	Radius        float64
	Background    string
	Avatar        Box
	Runs          []Run
}

// RunsFor returns the runs of one role, in drawing order.
func (l Layout) RunsFor(role Role) []Run {
	var out []Run
	for _, r := range l.Runs {
		if r.Role == role {
			out = append(out, r)
		}
	}
	return out
}

// MaxPixels bounds the area of a captured region, scale included. The
// largest editor size at 3x is about 13 million pixels.
const MaxPixels = 64 << 20

// ErrTooLarge is returned when a region exceeds MaxPixels.
var ErrTooLarge = errors.New("render: region too large")

// Size returns the pixel size of the captured region. Sizes below the
// 200px minimum are raised to it; larger sizes are kept as given. Call
// CheckSize first: Size does not guard against overflow.
func Size(p state.Post, scale float64) (int, int) {
	w, h := scaledSize(p, scale)
	return int(w), int(h)
}

// CheckSize reports ErrTooLarge when the region of p at scale would not fit
// in MaxPixels.
func CheckSize(p state.Post, scale float64) error {
	w, h := scaledSize(p, scale)
	if w*h > MaxPixels {
		return fmt.Errorf("%.0fx%.0f px: %w", w, h, ErrTooLarge)
	}
	return nil
}

func scaledSize(p state.Post, scale float64) (float64, float64) {
	if scale <= 0 {
		scale = 1
	}
	w := max(p.Width, state.MinDimension)
	h := max(p.Height, state.MinDimension)
	return math.Round(float64(w) * scale), math.Round(float64(h) * scale)
}

// Layout places every element of p. It is pure: the same post and scale
// always give the same layout.
func (r *Renderer) Layout(p state.Post, scale float64) Layout {
	if scale <= 0 {
		scale = 1
	}
	entry := p.Palette()
	w, h := Size(p, scale)
	s := func(v float64) float64 { return v * scale }

	l := Layout{
		Width:      w,
		Height:     h,
		Scale:      scale,
		Radius:     s(radius),
		Background: entry.Background,
		Avatar:     Box{X: s(padding), Y: s(padding), W: s(avatarSize), H: s(avatarSize)},
	}

	regular := r.regular.Face(s(baseFontSize))
	bold := r.bold.Face(s(baseFontSize))
	small := r.regular.Face(s(smallSize))

	contentX := s(padding + avatarSize + avatarGap)
	contentW := math.Max(float64(w)-contentX-s(padding), 0)

	// Name and handle share the first line.
	top := s(padding)
	nameBase := baseline(bold, top, s(baseLine))
	l.Runs = append(l.Runs, Run{
		Role: RoleName, Text: p.DisplayName, X: contentX, Baseline: nameBase,
		Color: entry.Foreground, Bold: true, Size: s(baseFontSize),
	})
	handleX := contentX + bold.Advance(p.DisplayName) + s(handleGap)
	l.Runs = append(l.Runs, Run{
		Role: RoleHandle, Text: "@" + p.Handle, X: handleX, Baseline: baseline(regular, top, s(baseLine)),
		Color: palette.Muted, Size: s(baseFontSize),
	})
	top += s(baseLine) + s(stackGap)

	// Body keeps hard line breaks and wraps at the content width.
	if p.Body != "" {
		for _, line := range text.WrapText(p.Body, regular, contentW, text.WrapWordChar) {
			l.Runs = append(l.Runs, Run{
				Role: RoleBody, Text: line.Text, X: contentX, Baseline: baseline(regular, top, s(baseLine)),
				Color: entry.Foreground, Size: s(baseFontSize),
			})
			top += s(baseLine)
		}
	}
	top += s(stackGap) + s(countersTop)

	// Counters are spread across the content width (justify-between).
	counters := []string{
		p.Replies + " replies",
		p.Retweets + " retweets",
		p.Likes + " likes",
		p.Views + " views",
	}
	var used float64
	widths := make([]float64, len(counters))
	for i, c := range counters {
		widths[i] = small.Advance(c)
		used += widths[i]
	}
	gap := math.Max((contentW-used)/float64(len(counters)-1), 0)
	x := contentX
	counterBase := baseline(small, top, s(smallLine))
	for i, c := range counters {
		l.Runs = append(l.Runs, Run{
			Role: RoleCounter, Text: c, X: x, Baseline: counterBase,
			Color: palette.Muted, Size: s(smallSize),
		})
		x += widths[i] + gap
	}

	// The fallback initial is only drawn when the avatar image is missing.
	if first, _ := utf8.DecodeRuneInString(p.DisplayName); first != utf8.RuneError {
		initial := string(first)
		cx := l.Avatar.X + l.Avatar.W/2
		m := regular.Metrics()
		l.Runs = append(l.Runs, Run{
			Role: RoleInitial, Text: initial,
			X:        cx - regular.Advance(initial)/2,
			Baseline: l.Avatar.Y + l.Avatar.H/2 + (m.Ascent-m.Descent)/2,
			Color:    fallbackText, Size: s(baseFontSize),
		})
	}
	return l
}

// baseline centres a face's glyph box inside a CSS line box starting at top.
func baseline(face text.Face, top, lineHeight float64) float64 {
	m := face.Metrics()
	return top + (lineHeight-(m.Ascent+m.Descent))/2 + m.Ascent
}
