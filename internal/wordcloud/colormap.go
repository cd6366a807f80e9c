package wordcloud

import (
	"fmt"
	"image/color"
	"strings"
)

// Colormaps are sampled at nine evenly spaced stops and interpolated
// linearly in between.
var colormaps = map[string][]color.RGBA{
	"viridis": {
		{0x44, 0x01, 0x54, 0xff}, {0x47, 0x2c, 0x7a, 0xff}, {0x3b, 0x51, 0x8b, 0xff},
		{0x2c, 0x71, 0x8e, 0xff}, {0x21, 0x90, 0x8d, 0xff}, {0x27, 0xad, 0x81, 0xff},
		{0x5c, 0xc8, 0x63, 0xff}, {0xaa, 0xdc, 0x32, 0xff}, {0xfd, 0xe7, 0x25, 0xff},
	},
	"plasma": {
		{0x0d, 0x08, 0x87, 0xff}, {0x4c, 0x02, 0xa1, 0xff}, {0x7e, 0x03, 0xa8, 0xff},
		{0xa9, 0x23, 0x95, 0xff}, {0xcc, 0x47, 0x78, 0xff}, {0xe5, 0x6b, 0x5d, 0xff},
		{0xf8, 0x94, 0x41, 0xff}, {0xfd, 0xc3, 0x28, 0xff}, {0xf0, 0xf9, 0x21, 0xff},
	},
	"magma": {
		{0x00, 0x00, 0x04, 0xff}, {0x1c, 0x10, 0x44, 0xff}, {0x4f, 0x12, 0x7b, 0xff},
		{0x81, 0x25, 0x81, 0xff}, {0xb5, 0x36, 0x7a, 0xff}, {0xe5, 0x59, 0x64, 0xff},
		{0xfb, 0x87, 0x61, 0xff}, {0xfe, 0xc2, 0x87, 0xff}, {0xfc, 0xfd, 0xbf, 0xff},
	},
}

type colormap []color.RGBA

func lookupColormap(name string) (colormap, error) {
	stops, ok := colormaps[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown colormap %q", name)
	}
	return stops, nil
}

// At returns the color at t in [0, 1].
func (m colormap) At(t float64) color.RGBA {
	if t <= 0 {
		return m[0]
	}
	if t >= 1 {
		return m[len(m)-1]
	}
	pos := t * float64(len(m)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := m[i], m[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*frac + 0.5)
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 0xff}
}
