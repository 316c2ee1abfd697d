// Package render lays out a post preview and rasterizes it off-screen.
//
// Rasterization is delegated to gogpu/gg. The region is always painted at
// its nominal size times the capture scale, so the output does not depend
// on any on-screen zoom or clipping.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/AnyUserName/tweetshot/internal/state"
	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Renderer paints posts. Font sources are shared, so one Renderer can serve
// concurrent requests.
type Renderer struct {
	regular *text.FontSource
	bold    *text.FontSource
}

// New loads the Go fonts used for every preview.
func New() (*Renderer, error) {
	regular, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	return &Renderer{regular: regular, bold: bold}, nil
}

// Render paints p at the given scale. A nil avatar draws the fallback
// initial instead, the same as a broken image on the page.
func (r *Renderer) Render(ctx context.Context, p state.Post, avatar image.Image, scale float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := CheckSize(p, scale); err != nil {
		return nil, err
	}
	l := r.Layout(p, scale)

	dc := gg.NewContext(l.Width, l.Height)
	defer dc.Close()

	dc.SetHexColor(l.Background)
	dc.DrawRoundedRectangle(0, 0, float64(l.Width), float64(l.Height), l.Radius)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("fill background: %w", err)
	}

	drawInitial := avatar == nil
	if avatar != nil {
		size := int(math.Round(l.Avatar.W))
		dc.DrawImage(gg.ImageBufFromImage(circle(avatar, size)), math.Round(l.Avatar.X), math.Round(l.Avatar.Y))
	} else {
		dc.SetHexColor(fallbackFill)
		dc.DrawCircle(l.Avatar.X+l.Avatar.W/2, l.Avatar.Y+l.Avatar.H/2, l.Avatar.W/2)
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("fill avatar fallback: %w", err)
		}
	}

	for _, run := range l.Runs {
		if run.Role == RoleInitial && !drawInitial {
			continue
		}
		if run.Text == "" {
			continue
		}
		src := r.regular
		if run.Bold {
			src = r.bold
		}
		dc.SetFont(src.Face(run.Size))
		dc.SetHexColor(run.Color)
		dc.DrawString(run.Text, run.X, run.Baseline)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// circle scales img to cover a size×size square and cuts it to a circle
// with an anti-aliased edge (rounded-full).
func circle(img image.Image, size int) *image.NRGBA {
	if size <= 0 {
		size = 1
	}
	square := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)
	out := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.DrawMask(out, out.Bounds(), square, image.Point{}, circleMask(size), image.Point{}, draw.Src)
	return out
}

// circleMask is an alpha image covering a centred disc of diameter d.
type circleMask int

func (m circleMask) ColorModel() color.Model { return color.AlphaModel }
func (m circleMask) Bounds() image.Rectangle { return image.Rect(0, 0, int(m), int(m)) }

func (m circleMask) At(x, y int) color.Color {
	r := float64(m) / 2
	dx := float64(x) + 0.5 - r
	dy := float64(y) + 0.5 - r
	cov := r - math.Hypot(dx, dy) + 0.5
	switch {
	case cov >= 1:
		return color.Alpha{A: 0xff}
	case cov <= 0:
		return color.Alpha{}
	}
	return color.Alpha{A: uint8(cov * 0xff)}
}
