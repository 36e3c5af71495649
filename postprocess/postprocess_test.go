package postprocess

import (
	"testing"

	"go.viam.com/test"
)

func TestFilterByConfidence(t *testing.T) {

	dets := []RawDetection{
		{ClassIndex: 0, Confidence: 0.10},
		{ClassIndex: 1, Confidence: 0.25},
		{ClassIndex: 2, Confidence: 0.90},
		{ClassIndex: 3, Confidence: 1.00},
	}

	tests := []struct {
		threshold float32
		expected  []int
	}{
		{0, []int{0, 1, 2, 3}},
		{0.25, []int{1, 2, 3}},
		{0.95, []int{3}},
		{1, []int{3}},
	}

	for _, tc := range tests {
		got := FilterByConfidence(dets, tc.threshold)
		classes := make([]int, 0, len(got))
		for _, d := range got {
			classes = append(classes, d.ClassIndex)
		}
		test.That(t, classes, test.ShouldResemble, tc.expected)
	}

	test.That(t, FilterByConfidence(nil, 0.5), test.ShouldBeEmpty)
}

func TestFilterMonotonic(t *testing.T) {

	dets := []RawDetection{
		{Confidence: 0.3}, {Confidence: 0.5}, {Confidence: 0.51}, {Confidence: 0.8}, {Confidence: 0.99},
	}

	last := len(dets) + 1

	for th := float32(0); th <= 1; th += 0.05 {
		n := len(FilterByConfidence(dets, th))
		test.That(t, n, test.ShouldBeLessThanOrEqualTo, last)
		last = n
	}
}

func TestIoU(t *testing.T) {

	tests := []struct {
		a, b     Box
		expected float32
	}{
		{Box{0, 0, 10, 10}, Box{0, 0, 10, 10}, 1},
		{Box{0, 0, 10, 10}, Box{20, 20, 10, 10}, 0},
		{Box{0, 0, 10, 10}, Box{5, 0, 10, 10}, 50.0 / 150.0},
		{Box{0, 0, 10, 10}, Box{10, 0, 10, 10}, 0},
		{Box{0, 0, 0, 0}, Box{0, 0, 0, 0}, 0},
	}

	for _, tc := range tests {
		test.That(t, IoU(tc.a, tc.b), test.ShouldAlmostEqual, tc.expected, 1e-6)
		test.That(t, IoU(tc.b, tc.a), test.ShouldAlmostEqual, tc.expected, 1e-6)
	}
}

func TestSuppressOverlapping(t *testing.T) {

	// IoU of the two boxes is 0.6
	b1 := Box{X: 0, Y: 0, Width: 100, Height: 100}
	b2 := Box{X: 25, Y: 0, Width: 100, Height: 100}
	test.That(t, IoU(b1, b2), test.ShouldAlmostEqual, 0.6, 1e-6)

	dets := []RawDetection{
		{Box: b2, ClassIndex: 39, Confidence: 0.3},
		{Box: b1, ClassIndex: 39, Confidence: 0.8},
	}

	kept := Suppress(dets, 0.4)
	test.That(t, kept, test.ShouldHaveLength, 1)
	test.That(t, kept[0].Confidence, test.ShouldEqual, float32(0.8))
	test.That(t, kept[0].Box, test.ShouldResemble, b1)

	// above the overlap both survive
	test.That(t, Suppress(dets, 0.6), test.ShouldHaveLength, 2)
}

func TestSuppressAcrossClasses(t *testing.T) {

	dets := []RawDetection{
		{Box: Box{0, 0, 50, 50}, ClassIndex: 63, Confidence: 0.9},
		{Box: Box{2, 2, 50, 50}, ClassIndex: 60, Confidence: 0.7},
	}

	kept := Suppress(dets, 0.4)
	test.That(t, kept, test.ShouldHaveLength, 1)
	test.That(t, kept[0].ClassIndex, test.ShouldEqual, 63)
}

func TestSuppressStableTieBreak(t *testing.T) {

	dets := []RawDetection{
		{Box: Box{0, 0, 50, 50}, ClassIndex: 1, Confidence: 0.5},
		{Box: Box{1, 1, 50, 50}, ClassIndex: 2, Confidence: 0.5},
		{Box: Box{200, 200, 10, 10}, ClassIndex: 3, Confidence: 0.5},
	}

	for i := 0; i < 5; i++ {
		kept := Suppress(dets, 0.4)
		test.That(t, kept, test.ShouldHaveLength, 2)
		test.That(t, kept[0].ClassIndex, test.ShouldEqual, 1)
		test.That(t, kept[1].ClassIndex, test.ShouldEqual, 3)
	}
}

func TestSuppressInvariant(t *testing.T) {

	dets := []RawDetection{
		{Box: Box{0, 0, 40, 40}, Confidence: 0.9},
		{Box: Box{10, 10, 40, 40}, Confidence: 0.85},
		{Box: Box{20, 20, 40, 40}, Confidence: 0.8},
		{Box: Box{30, 30, 40, 40}, Confidence: 0.75},
		{Box: Box{100, 0, 30, 30}, Confidence: 0.7},
		{Box: Box{105, 5, 30, 30}, Confidence: 0.6},
		{Box: Box{300, 300, 5, 5}, Confidence: 0.2},
	}

	threshold := float32(0.3)
	kept := Suppress(dets, threshold)

	for i := range kept {
		for j := i + 1; j < len(kept); j++ {
			test.That(t, IoU(kept[i].Box, kept[j].Box), test.ShouldBeLessThanOrEqualTo, threshold)
		}
	}

	// output is in descending confidence order
	for i := 1; i < len(kept); i++ {
		test.That(t, kept[i].Confidence, test.ShouldBeLessThanOrEqualTo, kept[i-1].Confidence)
	}

	test.That(t, Suppress(nil, 0.4), test.ShouldBeEmpty)
}

func TestDarknetDetectObjects(t *testing.T) {

	params := DarknetParams{ObjectClassNum: 3, ProbBoxSize: 8}
	dn := NewDarknet(params)

	out := DarknetOutput{
		Rows: 2,
		Data: []float32{
			// center (0.5,0.5) size (0.2,0.4) class 2
			0.5, 0.5, 0.2, 0.4, 0.9, 0.1, 0.0, 0.7,
			// all scores zero, dropped
			0.1, 0.1, 0.1, 0.1, 0.1, 0.0, 0.0, 0.0,
		},
	}

	dets, err := dn.DetectObjects([]DarknetOutput{out}, 640, 480)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dets, test.ShouldHaveLength, 1)
	test.That(t, dets[0].ClassIndex, test.ShouldEqual, 2)
	test.That(t, dets[0].Confidence, test.ShouldAlmostEqual, 0.7, 1e-6)
	test.That(t, dets[0].Box, test.ShouldResemble, Box{X: 256, Y: 144, Width: 128, Height: 192})

	_, err = dn.DetectObjects([]DarknetOutput{{Rows: 3, Data: out.Data}}, 640, 480)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewDarknet(DarknetParams{}).DetectObjects(nil, 640, 480)
	test.That(t, err, test.ShouldNotBeNil)
}
