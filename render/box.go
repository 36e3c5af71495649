// Package render draws classified detections onto images for display.
package render

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/tripsafe/go-tripsafe/advisory"
	"github.com/tripsafe/go-tripsafe/hazard"
)

// boxLabel holds a label plate computed while drawing boxes
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// HazardBoxes renders the bounding box of each detection colored by its
// category, with the title cased label on a plate above the box
func HazardBoxes(img *gocv.Mat, dets []hazard.ClassifiedDetection, font Font,
	lineThickness int) {

	// keep a record of all box labels for later rendering
	boxLabels := make([]boxLabel, 0, len(dets))

	for _, det := range dets {

		useClr := CategoryColor(det.Category)

		rect := image.Rect(det.Box.X, det.Box.Y, det.Box.Right(), det.Box.Bottom())
		gocv.Rectangle(img, rect, useClr, lineThickness)

		text := advisory.TitleLabel(det.Label)

		if text == "" {
			continue
		}

		textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

		bRect := image.Rect(det.Box.X, det.Box.Y-textSize.Y-font.TopPad-font.BottomPad,
			det.Box.X+textSize.X+font.LeftPad+font.RightPad, det.Box.Y)

		boxLabels = append(boxLabels, boxLabel{
			rect:    bRect,
			clr:     useClr,
			text:    text,
			textPos: image.Pt(det.Box.X+font.LeftPad, det.Box.Y-font.BottomPad),
		})
	}

	// draw all label plates last so they are the top most layer and are not
	// crossed by the lines of neighbouring boxes
	for _, box := range boxLabels {
		gocv.Rectangle(img, box.rect, box.clr, -1)

		gocv.PutTextWithParams(img, box.text, box.textPos,
			font.Face, font.Scale, font.Color, font.Thickness,
			font.LineType, false)
	}
}

// Annotate returns a copy of the image as a Mat with the detections drawn
// on it.  The caller must Close the returned Mat
func Annotate(img image.Image, dets []hazard.ClassifiedDetection) (gocv.Mat, error) {

	mat, err := gocv.ImageToMatRGB(img)

	if err != nil {
		return gocv.NewMat(), errors.Wrap(err, "error converting image")
	}

	HazardBoxes(&mat, dets, DefaultFont(), 2)

	return mat, nil
}

// EncodeJPEG encodes the Mat as a JPEG image
func EncodeJPEG(mat gocv.Mat) ([]byte, error) {

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)

	if err != nil {
		return nil, errors.Wrap(err, "error encoding jpeg")
	}

	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}
