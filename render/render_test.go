package render

import (
	"image"
	"image/color"
	"testing"

	"go.viam.com/test"
	"gocv.io/x/gocv"

	"github.com/tripsafe/go-tripsafe/hazard"
	"github.com/tripsafe/go-tripsafe/postprocess"
)

func TestCategoryColor(t *testing.T) {
	test.That(t, CategoryColor(hazard.Hazard), test.ShouldResemble, color.RGBA{R: 255, A: 255})
	test.That(t, CategoryColor(hazard.SafeZone), test.ShouldResemble, color.RGBA{G: 255, A: 255})
	test.That(t, CategoryColor(hazard.Neutral), test.ShouldResemble, color.RGBA{R: 255, G: 165, A: 255})
	test.That(t, CategoryColor(hazard.Category(42)), test.ShouldResemble, CategoryColor(hazard.Neutral))
}

func TestAnnotate(t *testing.T) {

	img := image.NewRGBA(image.Rect(0, 0, 200, 120))

	dets := []hazard.ClassifiedDetection{
		{Box: postprocess.Box{X: 20, Y: 40, Width: 60, Height: 50}, Label: "cell phone", Category: hazard.Hazard},
		{Box: postprocess.Box{X: 100, Y: 30, Width: 80, Height: 80}, Label: "", Category: hazard.Neutral},
	}

	mat, err := Annotate(img, dets)
	test.That(t, err, test.ShouldBeNil)
	defer mat.Close()

	test.That(t, mat.Cols(), test.ShouldEqual, 200)
	test.That(t, mat.Rows(), test.ShouldEqual, 120)

	// left edge of the hazard box is drawn red, stored as BGR
	px := mat.GetVecbAt(70, 20)
	test.That(t, px[2], test.ShouldEqual, uint8(255))
	test.That(t, px[1], test.ShouldEqual, uint8(0))

	data, err := EncodeJPEG(mat)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(data), test.ShouldBeGreaterThan, 0)

	decoded, err := gocv.IMDecode(data, gocv.IMReadColor)
	test.That(t, err, test.ShouldBeNil)
	defer decoded.Close()
	test.That(t, decoded.Cols(), test.ShouldEqual, 200)
}
