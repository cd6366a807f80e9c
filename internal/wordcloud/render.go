package wordcloud

import (
	"bytes"
	"fmt"
	"image/color"
	"math/rand"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce   sync.Once
	parsedFont *truetype.Font
	fontErr    error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		parsedFont, fontErr = truetype.Parse(goregular.TTF)
		if fontErr != nil {
			fontErr = fmt.Errorf("failed to parse TTF: %w", fontErr)
		}
	})
	return parsedFont, fontErr
}

// faceCache holds font faces for one render call. Faces are not safe for
// concurrent use, so they are never shared between calls.
type faceCache struct {
	font  *truetype.Font
	faces map[float64]font.Face
}

func (c *faceCache) face(size float64) font.Face {
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(c.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	c.faces[size] = f
	return f
}

// Renderer draws word clouds with fixed options. It is safe for concurrent
// use; all drawing state is scoped to a single Render call.
type Renderer struct {
	opts       Options
	stopwords  map[string]struct{}
	background color.Color
	palette    colormap
	font       *truetype.Font
}

// NewRenderer validates opts and prepares the font and palette.
func NewRenderer(opts Options) (*Renderer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	f, err := loadFont()
	if err != nil {
		return nil, err
	}

	bg, _ := parseColor(opts.Background)
	palette, _ := lookupColormap(opts.Colormap)

	stopwords := opts.Stopwords
	if stopwords == nil {
		stopwords = DefaultStopwords()
	}

	return &Renderer{
		opts:       opts,
		stopwords:  stopwords,
		background: bg,
		palette:    palette,
		font:       f,
	}, nil
}

// Options returns the renderer's options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Layout computes word placements without rasterizing the final image.
func (r *Renderer) Layout(text string) ([]Placement, error) {
	words := CountWords(text, r.stopwords)
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	dc := gg.NewContext(r.opts.Width, r.opts.Height)
	faces := &faceCache{font: r.font, faces: make(map[float64]font.Face)}
	return r.layout(dc, faces, words, rand.New(rand.NewSource(r.opts.Seed))), nil
}

// Render returns the PNG encoding of the word cloud for text.
func (r *Renderer) Render(text string) ([]byte, error) {
	words := CountWords(text, r.stopwords)
	if len(words) == 0 {
		return nil, ErrNoWords
	}

	dc := gg.NewContext(r.opts.Width, r.opts.Height)
	dc.SetColor(r.background)
	dc.Clear()

	faces := &faceCache{font: r.font, faces: make(map[float64]font.Face)}
	placements := r.layout(dc, faces, words, rand.New(rand.NewSource(r.opts.Seed)))

	for _, p := range placements {
		dc.SetFontFace(faces.face(p.FontSize))
		dc.SetColor(p.Color)
		tw, th := dc.MeasureString(p.Text)
		boxH := th * boxHeightRatio

		if !p.Vertical {
			dc.DrawString(p.Text, p.X+(p.W-tw)/2, p.Y+th)
			continue
		}

		// Draw as if horizontal around the box center, rotated a quarter
		// turn counter-clockwise.
		cx, cy := p.X+p.W/2, p.Y+p.H/2
		dc.Push()
		dc.RotateAbout(gg.Radians(-90), cx, cy)
		dc.DrawString(p.Text, cx-tw/2, cy-boxH/2+th)
		dc.Pop()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
