package postprocess

// Box is the bounding box of a detected object in pixel coordinates of the
// source image, expressed as top left corner plus width and height
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the x coordinate of the right edge of the box
func (b Box) Right() int {
	return b.X + b.Width
}

// Bottom returns the y coordinate of the bottom edge of the box
func (b Box) Bottom() int {
	return b.Y + b.Height
}

// Area returns the pixel area of the box, zero for degenerate boxes
func (b Box) Area() int {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// RawDetection is a single unfiltered candidate produced by the object
// detector.  A true object usually yields several overlapping candidates
type RawDetection struct {
	// Box is the bounding box of the candidate
	Box Box `json:"box"`
	// ClassIndex is the line number in the labels file the Model was trained
	// on defining the Class of the candidate
	ClassIndex int `json:"class_index"`
	// Confidence is the score of the candidate in the range [0,1]
	Confidence float32 `json:"confidence"`
}
