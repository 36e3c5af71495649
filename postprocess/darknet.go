package postprocess

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// DarknetParams defines the struct containing the Darknet YOLO parameters to
// use for decoding the network output
type DarknetParams struct {
	// ObjectClassNum is the number of different object classes the Model has
	// been trained with
	ObjectClassNum int
	// ProbBoxSize is the length of array elements representing each bounding
	// box's attributes.  Which represents the 5 box attributes (center x,
	// center y, width, height, objectness) plus ObjectClassNum class scores
	ProbBoxSize int
	// MinScore drops candidates whose best class score is not above this
	// value before they reach the candidate filter.  Zero keeps every
	// candidate the network scored at all
	MinScore float32
}

// DarknetCOCOParams returns an instance of DarknetParams configured for a
// YOLOv3 Model trained on the COCO dataset featuring 80 object classes
func DarknetCOCOParams() DarknetParams {
	return DarknetParams{
		ObjectClassNum: 80,
		ProbBoxSize:    85,
		MinScore:       0,
	}
}

// DarknetOutput is the flattened float32 data of a single YOLO output layer,
// one row of ProbBoxSize values per candidate
type DarknetOutput struct {
	Data []float32
	Rows int
}

// Darknet decodes the output layers of a Darknet YOLO network
type Darknet struct {
	// Params are the Model configuration parameters
	Params DarknetParams
}

// NewDarknet returns an instance of the Darknet output decoder
func NewDarknet(p DarknetParams) *Darknet {
	return &Darknet{
		Params: p,
	}
}

// DetectObjects converts the output layers into RawDetections with boxes in
// pixel coordinates of an image of size width x height.  Box coordinates
// in the network output are relative to the image and describe the box
// center and size
func (d *Darknet) DetectObjects(outputs []DarknetOutput, width, height int) ([]RawDetection, error) {

	if d.Params.ObjectClassNum <= 0 || d.Params.ProbBoxSize < 5+d.Params.ObjectClassNum {
		return nil, errors.Errorf("invalid darknet params: %d classes in box size %d",
			d.Params.ObjectClassNum, d.Params.ProbBoxSize)
	}

	dets := make([]RawDetection, 0)
	scores := make([]float64, d.Params.ObjectClassNum)

	for l, out := range outputs {

		if len(out.Data) != out.Rows*d.Params.ProbBoxSize {
			return nil, errors.Errorf("output layer %d has %d values, expected %d rows of %d",
				l, len(out.Data), out.Rows, d.Params.ProbBoxSize)
		}

		for r := 0; r < out.Rows; r++ {
			row := out.Data[r*d.Params.ProbBoxSize : (r+1)*d.Params.ProbBoxSize]

			for k := 0; k < d.Params.ObjectClassNum; k++ {
				scores[k] = float64(row[5+k])
			}

			classID := floats.MaxIdx(scores)
			confidence := float32(scores[classID])

			if confidence <= d.Params.MinScore {
				continue
			}

			centerX := int(row[0] * float32(width))
			centerY := int(row[1] * float32(height))
			boxW := int(row[2] * float32(width))
			boxH := int(row[3] * float32(height))

			dets = append(dets, RawDetection{
				Box: Box{
					X:      int(float32(centerX) - float32(boxW)/2),
					Y:      int(float32(centerY) - float32(boxH)/2),
					Width:  boxW,
					Height: boxH,
				},
				ClassIndex: classID,
				Confidence: confidence,
			})
		}
	}

	return dets, nil
}
