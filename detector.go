package tripsafe

import (
	"context"
	"image"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/tripsafe/go-tripsafe/postprocess"
)

// Detector is the object detection capability the assessment consumes.  It
// returns every raw candidate found in the image, thresholding and
// suppression are applied afterwards
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]postprocess.RawDetection, error)
}

// DarknetInputSize is the network input resolution of YOLOv3-tiny
var DarknetInputSize = image.Pt(416, 416)

// Darknet runs a Darknet YOLO Model, such as YOLOv3-tiny, with the OpenCV
// DNN module
type Darknet struct {
	net gocv.Net
	// outputNames are the names of the unconnected output layers
	outputNames []string
	decoder     *postprocess.Darknet
	// net is not safe for concurrent forward passes
	mu sync.Mutex
}

// NewDarknet loads the network from its cfg and weights files
func NewDarknet(cfgFile, weightsFile string, params postprocess.DarknetParams) (*Darknet, error) {

	net := gocv.ReadNetFromDarknet(cfgFile, weightsFile)

	if net.Empty() {
		return nil, errors.Wrapf(ErrDetectorUnavailable, "error reading network from %s", weightsFile)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendOpenCV); err != nil {
		net.Close()
		return nil, errors.Wrap(err, "error setting network backend")
	}

	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, errors.Wrap(err, "error setting network target")
	}

	layerNames := net.GetLayerNames()
	var outputNames []string

	for _, id := range net.GetUnconnectedOutLayers() {
		outputNames = append(outputNames, layerNames[id-1])
	}

	return &Darknet{
		net:         net,
		outputNames: outputNames,
		decoder:     postprocess.NewDarknet(params),
	}, nil
}

// Detect runs a forward pass over the image and decodes every candidate box
func (d *Darknet) Detect(ctx context.Context, img image.Image) ([]postprocess.RawDetection, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := gocv.ImageToMatRGB(img)

	if err != nil {
		return nil, errors.Wrap(err, "error converting image")
	}

	defer src.Close()

	// src is in BGR order, swap to the RGB order the network was trained on
	blob := gocv.BlobFromImage(src, 1.0/255.0, DarknetInputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	blobs := d.net.ForwardLayers(d.outputNames)
	d.mu.Unlock()

	outputs := make([]postprocess.DarknetOutput, 0, len(blobs))

	for _, b := range blobs {
		data, err := b.DataPtrFloat32()

		if err != nil {
			closeMats(blobs)
			return nil, errors.Wrap(err, "error reading output layer")
		}

		outputs = append(outputs, postprocess.DarknetOutput{
			Data: append([]float32(nil), data...),
			Rows: b.Rows(),
		})
	}

	closeMats(blobs)

	return d.decoder.DetectObjects(outputs, src.Cols(), src.Rows())
}

// Close releases the network
func (d *Darknet) Close() error {
	return d.net.Close()
}

func closeMats(mats []gocv.Mat) {
	for _, m := range mats {
		m.Close()
	}
}
