// Package wordcloud renders word-frequency weighted PNG images.
package wordcloud

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // mask formats
	_ "image/png"
	"os"
	"strings"

	"github.com/summarizetube/summarizetube-backend/internal/config"
	"golang.org/x/image/colornames"
)

// ErrNoWords is returned when the input text has nothing left to draw after
// tokenizing and removing stopwords.
var ErrNoWords = errors.New("no words to render")

// Options controls the canvas, palette and layout. The same text rendered
// with the same Options always produces identical PNG bytes.
type Options struct {
	Width            int
	Height           int
	Background       string
	Colormap         string
	Seed             int64
	MaxWords         int
	MinFontSize      float64
	MaxFontSize      float64
	PreferHorizontal float64

	// Stopwords are matched case-insensitively. Nil means DefaultStopwords.
	Stopwords map[string]struct{}

	// Mask blocks every canvas pixel whose mask pixel is pure white. It is
	// scaled to the canvas size.
	Mask image.Image
}

// DefaultOptions returns a 1200x800 white canvas with the viridis palette
// and seed 42.
func DefaultOptions() Options {
	return Options{
		Width:            1200,
		Height:           800,
		Background:       "white",
		Colormap:         "viridis",
		Seed:             42,
		MaxWords:         200,
		MinFontSize:      10,
		MaxFontSize:      160,
		PreferHorizontal: 0.9,
	}
}

// OptionsFromConfig builds Options from configuration, loading the mask
// image and extra stopwords when paths are set.
func OptionsFromConfig(cfg config.WordCloudConfig) (Options, error) {
	opts := DefaultOptions()
	if cfg.Width > 0 {
		opts.Width = cfg.Width
	}
	if cfg.Height > 0 {
		opts.Height = cfg.Height
	}
	if cfg.Background != "" {
		opts.Background = cfg.Background
	}
	if cfg.Colormap != "" {
		opts.Colormap = cfg.Colormap
	}
	opts.Seed = cfg.Seed
	if cfg.MaxWords > 0 {
		opts.MaxWords = cfg.MaxWords
	}
	if cfg.MinFontSize > 0 {
		opts.MinFontSize = cfg.MinFontSize
	}
	if cfg.MaxFontSize > 0 {
		opts.MaxFontSize = cfg.MaxFontSize
	}

	if cfg.StopwordsPath != "" {
		extra, err := LoadStopwords(cfg.StopwordsPath)
		if err != nil {
			return Options{}, err
		}
		opts.Stopwords = MergeStopwords(DefaultStopwords(), extra)
	}

	if cfg.MaskPath != "" {
		mask, err := LoadMask(cfg.MaskPath)
		if err != nil {
			return Options{}, err
		}
		opts.Mask = mask
	}

	return opts, nil
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", o.Width, o.Height)
	}
	if o.MinFontSize <= 0 || o.MaxFontSize < o.MinFontSize {
		return fmt.Errorf("invalid font size range %.1f-%.1f", o.MinFontSize, o.MaxFontSize)
	}
	if _, err := parseColor(o.Background); err != nil {
		return err
	}
	if _, err := lookupColormap(o.Colormap); err != nil {
		return err
	}
	return nil
}

// LoadMask decodes a PNG or JPEG mask image.
func LoadMask(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mask: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode mask %s: %w", path, err)
	}
	return img, nil
}

// parseColor accepts an SVG color name or #rgb / #rrggbb.
func parseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(s, "#")
	var r, g, b uint8
	switch len(hex) {
	case 6:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
			return nil, fmt.Errorf("invalid color %q", s)
		}
	case 3:
		if _, err := fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b); err != nil {
			return nil, fmt.Errorf("invalid color %q", s)
		}
		r, g, b = r*17, g*17, b*17
	default:
		return nil, fmt.Errorf("invalid color %q", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
