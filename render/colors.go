package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tripsafe/go-tripsafe/hazard"
)

var (
	// categoryHex are the box colors for each detection category
	categoryHex = map[hazard.Category]string{
		hazard.Hazard:   "#ff0000",
		hazard.SafeZone: "#00ff00",
		hazard.Neutral:  "#ffa500",
	}

	// categoryColors are categoryHex converted for drawing
	categoryColors = func() map[hazard.Category]color.RGBA {
		m := make(map[hazard.Category]color.RGBA, len(categoryHex))
		for c, hex := range categoryHex {
			clr, err := colorful.Hex(hex)
			if err != nil {
				panic(err)
			}
			m[c] = toRGBA(clr)
		}
		return m
	}()

	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// CategoryColor returns the box color used for the category
func CategoryColor(c hazard.Category) color.RGBA {
	if clr, ok := categoryColors[c]; ok {
		return clr
	}
	return categoryColors[hazard.Neutral]
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
