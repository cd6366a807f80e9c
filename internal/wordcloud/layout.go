package wordcloud

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

const (
	placeAttempts = 250
	shrinkFactor  = 0.85
	wordMargin    = 2
	// Box height relative to the font line height, leaving room for descenders.
	boxHeightRatio = 1.25
)

// Placement is a word positioned on the canvas. X, Y, W and H describe the
// occupied box after rotation.
type Placement struct {
	Text     string
	FontSize float64
	Vertical bool
	X, Y     float64
	W, H     float64
	Color    color.RGBA
}

func (p Placement) overlaps(o Placement) bool {
	return p.X < o.X+o.W+wordMargin && o.X < p.X+p.W+wordMargin &&
		p.Y < o.Y+o.H+wordMargin && o.Y < p.Y+p.H+wordMargin
}

// occupancy tracks blocked canvas pixels with a summed-area table so any
// rectangle can be tested in constant time.
type occupancy struct {
	w, h int
	sum  []int32
}

func newOccupancy(w, h int, mask image.Image) *occupancy {
	o := &occupancy{w: w, h: h, sum: make([]int32, (w+1)*(h+1))}
	if mask == nil {
		return o
	}

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), mask, mask.Bounds(), draw.Src, nil)

	for y := 0; y < h; y++ {
		var row int32
		for x := 0; x < w; x++ {
			i := scaled.PixOffset(x, y)
			if scaled.Pix[i] == 0xff && scaled.Pix[i+1] == 0xff && scaled.Pix[i+2] == 0xff {
				row++
			}
			o.sum[(y+1)*(w+1)+x+1] = o.sum[y*(w+1)+x+1] + row
		}
	}
	return o
}

func (o *occupancy) blocked(x0, y0, x1, y1 int) bool {
	if x0 < 0 || y0 < 0 || x1 > o.w || y1 > o.h {
		return true
	}
	stride := o.w + 1
	n := o.sum[y1*stride+x1] - o.sum[y0*stride+x1] - o.sum[y1*stride+x0] + o.sum[y0*stride+x0]
	return n > 0
}

// layout places words largest first. Each word starts at a size scaled by
// its relative frequency and shrinks until it fits or drops below the
// minimum font size. Every random draw comes from rng, so the result only
// depends on the inputs and the seed.
func (r *Renderer) layout(dc *gg.Context, faces *faceCache, words []Word, rng *rand.Rand) []Placement {
	if len(words) > r.opts.MaxWords && r.opts.MaxWords > 0 {
		words = words[:r.opts.MaxWords]
	}

	occ := newOccupancy(r.opts.Width, r.opts.Height, r.opts.Mask)
	maxCount := float64(words[0].Count)
	placed := make([]Placement, 0, len(words))

	for _, word := range words {
		rel := float64(word.Count) / maxCount
		size := r.opts.MinFontSize + (r.opts.MaxFontSize-r.opts.MinFontSize)*math.Sqrt(rel)
		vertical := rng.Float64() >= r.opts.PreferHorizontal

		for size >= r.opts.MinFontSize {
			size = math.Round(size)
			dc.SetFontFace(faces.face(size))
			tw, th := dc.MeasureString(word.Text)
			bw, bh := math.Ceil(tw), math.Ceil(th*boxHeightRatio)
			if vertical {
				bw, bh = bh, bw
			}

			if p, ok := r.tryPlace(word.Text, size, vertical, bw, bh, occ, placed, rng); ok {
				p.Color = r.palette.At(rng.Float64())
				placed = append(placed, p)
				break
			}
			size *= shrinkFactor
		}
	}
	return placed
}

func (r *Renderer) tryPlace(text string, size float64, vertical bool, bw, bh float64, occ *occupancy, placed []Placement, rng *rand.Rand) (Placement, bool) {
	maxX := r.opts.Width - int(bw)
	maxY := r.opts.Height - int(bh)
	if maxX < 0 || maxY < 0 {
		return Placement{}, false
	}

	for attempt := 0; attempt < placeAttempts; attempt++ {
		x := rng.Intn(maxX + 1)
		y := rng.Intn(maxY + 1)
		p := Placement{
			Text:     text,
			FontSize: size,
			Vertical: vertical,
			X:        float64(x),
			Y:        float64(y),
			W:        bw,
			H:        bh,
		}
		if occ.blocked(x, y, x+int(bw), y+int(bh)) {
			continue
		}
		free := true
		for _, other := range placed {
			if p.overlaps(other) {
				free = false
				break
			}
		}
		if free {
			return p, true
		}
	}
	return Placement{}, false
}
