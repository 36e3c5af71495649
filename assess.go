package tripsafe

import (
	"context"
	"image"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tripsafe/go-tripsafe/advisory"
	"github.com/tripsafe/go-tripsafe/hazard"
	"github.com/tripsafe/go-tripsafe/postprocess"
	"github.com/tripsafe/go-tripsafe/report"
)

// Result is the outcome of assessing one image
type Result struct {
	// Detections are the classified detections that survived filtering and
	// suppression, in descending confidence order
	Detections []hazard.ClassifiedDetection `json:"detections"`
	// Scene is the risk verdict
	Scene hazard.SceneAssessment `json:"scene"`
	// Suggestions hold one placement advice per distinct hazard label
	Suggestions []advisory.Suggestion `json:"suggestions"`
	// Status is the localised name of the risk level
	Status string `json:"status"`
	// Message is the localised alert sentence
	Message string `json:"message"`
	// Report is the plain text report
	Report string `json:"report"`
	// CapturedAt is the time the image was taken
	CapturedAt time.Time `json:"captured_at"`
	// DetectorFailed is set when the detector failed and the result was
	// degraded to an image with no detections
	DetectorFailed bool `json:"detector_failed"`
}

// Assessor turns raw detector output into a risk assessment.  Its class
// names and label table are read only, so one Assessor can serve concurrent
// requests
type Assessor struct {
	classNames []string
	table      *hazard.LabelTable
	logger     *zap.SugaredLogger
}

// NewAssessor returns an Assessor resolving class indices with classNames and
// categories with table.  A nil table uses hazard.DefaultLabelTable and a nil
// logger discards log output
func NewAssessor(classNames []string, table *hazard.LabelTable, logger *zap.SugaredLogger) *Assessor {

	if table == nil {
		table = hazard.DefaultLabelTable()
	}

	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Assessor{
		classNames: append([]string(nil), classNames...),
		table:      table,
		logger:     logger,
	}
}

// ClassNames returns a copy of the class names used by the Assessor
func (a *Assessor) ClassNames() []string {
	return append([]string(nil), a.classNames...)
}

// Assess runs the candidate filter, box suppression, classification, risk
// assessment, advisory and report steps over the raw detections.  An empty
// raw list is valid and assesses as Safe
func (a *Assessor) Assess(raw []postprocess.RawDetection, opts Options,
	capturedAt time.Time) (*Result, error) {

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	filtered := postprocess.FilterByConfidence(raw, opts.BoxThreshold)
	kept := postprocess.Suppress(filtered, opts.NMSThreshold)
	classified := hazard.Classify(kept, a.classNames, a.table)
	scene := hazard.Assess(classified)
	suggestions := advisory.Suggest(scene.HazardLabels, scene.SafeZoneLabels, opts.Locale)

	a.logger.Debugw("assessed scene",
		"raw", len(raw),
		"filtered", len(filtered),
		"kept", len(kept),
		"risk", scene.RiskLevel.String(),
		"hazards", scene.HazardCount,
		"safe_zones", scene.SafeZoneCount,
	)

	return &Result{
		Detections:  classified,
		Scene:       scene,
		Suggestions: suggestions,
		Status:      advisory.StatusLabel(scene.RiskLevel, opts.Locale),
		Message:     advisory.StatusMessage(scene.RiskLevel, scene.HazardCount, opts.Locale),
		Report:      report.Generate(scene, suggestions, capturedAt, opts.Locale),
		CapturedAt:  capturedAt,
	}, nil
}

// Scan runs the detector over the image and assesses its output.  When the
// detector is nil or fails, ErrDetectorUnavailable is returned unless
// opts.DegradeOnDetectorError is set, in which case the image is assessed as
// having no detections.  Detector errors stay matchable with errors.Is and
// errors.As alongside ErrDetectorUnavailable
func (a *Assessor) Scan(ctx context.Context, det Detector, img image.Image,
	opts Options, capturedAt time.Time) (*Result, error) {

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var (
		raw      []postprocess.RawDetection
		detErr   error
		degraded bool
	)

	if det == nil {
		detErr = ErrDetectorUnavailable
	} else {
		raw, detErr = det.Detect(ctx, img)
	}

	if detErr != nil {

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if !opts.DegradeOnDetectorError {
			if errors.Is(detErr, ErrDetectorUnavailable) {
				return nil, detErr
			}
			return nil, &detectorError{cause: detErr}
		}

		a.logger.Warnw("detector failed, assessing without detections", "error", detErr)
		raw = nil
		degraded = true
	}

	res, err := a.Assess(raw, opts, capturedAt)

	if err != nil {
		return nil, err
	}

	res.DetectorFailed = degraded

	return res, nil
}
