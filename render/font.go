package render

import (
	"image/color"

	"gocv.io/x/gocv"
)

// Font defines the parameters for rendering label text on an image using GoCV
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	// Padding to place around text
	LeftPad   int
	RightPad  int
	TopPad    int
	BottomPad int
}

// DefaultFont returns default font settings, white text on the box colored
// label plate
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.6,
		Color:     White,
		Thickness: 1,
		LineType:  gocv.LineAA,
		LeftPad:   5,
		RightPad:  5,
		TopPad:    5,
		BottomPad: 5,
	}
}
