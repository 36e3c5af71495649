package server

import (
	"encoding/json"
	"image"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"

	"github.com/tripsafe/go-tripsafe"
	"github.com/tripsafe/go-tripsafe/advisory"
	"github.com/tripsafe/go-tripsafe/hazard"
	"github.com/tripsafe/go-tripsafe/render"
)

// assessResponse is the JSON body returned by /assess
type assessResponse struct {
	Risk           hazard.RiskLevel             `json:"risk"`
	Status         string                       `json:"status"`
	Message        string                       `json:"message"`
	HazardCount    int                          `json:"hazard_count"`
	SafeZoneCount  int                          `json:"safe_zone_count"`
	Hazards        []string                     `json:"hazards"`
	SafeZones      []string                     `json:"safe_zones"`
	Suggestions    []advisory.Suggestion        `json:"suggestions"`
	Detections     []hazard.ClassifiedDetection `json:"detections"`
	Report         string                       `json:"report"`
	AudioEnabled   bool                         `json:"audio_enabled"`
	DetectorFailed bool                         `json:"detector_failed"`
}

// AssessHandler handles POST /assess with a multipart "file" image
func (s *Server) AssessHandler(w http.ResponseWriter, r *http.Request) {

	res, opts, _, ok := s.scan(w, r)

	if !ok {
		return
	}

	respondJSON(w, assessResponse{
		Risk:           res.Scene.RiskLevel,
		Status:         res.Status,
		Message:        res.Message,
		HazardCount:    res.Scene.HazardCount,
		SafeZoneCount:  res.Scene.SafeZoneCount,
		Hazards:        res.Scene.HazardLabels,
		SafeZones:      res.Scene.SafeZoneLabels,
		Suggestions:    res.Suggestions,
		Detections:     res.Detections,
		Report:         res.Report,
		AudioEnabled:   opts.AudioEnabled,
		DetectorFailed: res.DetectorFailed,
	}, http.StatusOK)
}

// ReportHandler handles POST /report and returns the text report as a file
func (s *Server) ReportHandler(w http.ResponseWriter, r *http.Request) {

	res, _, _, ok := s.scan(w, r)

	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="report.txt"`)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(res.Report)); err != nil {
		s.logger.Warnw("error writing report", "error", err)
	}
}

// AnnotateHandler handles POST /annotate and returns the image with the
// detections drawn on it
func (s *Server) AnnotateHandler(w http.ResponseWriter, r *http.Request) {

	res, _, img, ok := s.scan(w, r)

	if !ok {
		return
	}

	mat, err := render.Annotate(img, res.Detections)

	if err != nil {
		respondError(w, "Failed to render image", http.StatusInternalServerError)
		return
	}

	defer mat.Close()

	data, err := render.EncodeJPEG(mat)

	if err != nil {
		respondError(w, "Failed to encode image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		s.logger.Warnw("error writing image", "error", err)
	}
}

// HealthHandler reports the service is up
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// scan decodes the uploaded image and request options and runs the
// assessment.  On failure the error response has been written and ok is
// false
func (s *Server) scan(w http.ResponseWriter, r *http.Request) (*tripsafe.Result,
	tripsafe.Options, image.Image, bool) {

	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, tripsafe.Options{}, nil, false
	}

	if r.ContentLength > s.maxUpload {
		respondError(w, "Upload too large", http.StatusRequestEntityTooLarge)
		return nil, tripsafe.Options{}, nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, "Upload too large", http.StatusRequestEntityTooLarge)
			return nil, tripsafe.Options{}, nil, false
		}
		respondError(w, "Failed to parse form", http.StatusBadRequest)
		return nil, tripsafe.Options{}, nil, false
	}

	opts, err := s.options(r)

	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return nil, tripsafe.Options{}, nil, false
	}

	file, _, err := r.FormFile("file")

	if err != nil {
		respondError(w, "No file uploaded", http.StatusBadRequest)
		return nil, tripsafe.Options{}, nil, false
	}

	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))

	if err != nil {
		respondError(w, "Failed to decode image", http.StatusBadRequest)
		return nil, tripsafe.Options{}, nil, false
	}

	res, err := s.assessor.Scan(r.Context(), s.detector, img, opts, s.now())

	switch {
	case err == nil:
	case errors.Is(err, tripsafe.ErrInvalidThreshold):
		respondError(w, err.Error(), http.StatusBadRequest)
		return nil, tripsafe.Options{}, nil, false
	case errors.Is(err, tripsafe.ErrDetectorUnavailable):
		s.logger.Errorw("detector unavailable", "error", err)
		respondError(w, "Detector unavailable", http.StatusServiceUnavailable)
		return nil, tripsafe.Options{}, nil, false
	default:
		s.logger.Errorw("assessment failed", "error", err)
		respondError(w, "Assessment failed", http.StatusInternalServerError)
		return nil, tripsafe.Options{}, nil, false
	}

	s.logger.Infow("assessed image",
		"path", r.URL.Path,
		"risk", res.Scene.RiskLevel.String(),
		"hazards", res.Scene.HazardCount,
		"detector_failed", res.DetectorFailed,
	)

	return res, opts, img, true
}

// options reads the optional confidence, nms, locale and audio form values
// over the server defaults
func (s *Server) options(r *http.Request) (tripsafe.Options, error) {

	opts := s.defaults

	if v := r.FormValue("confidence"); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return opts, errors.Wrap(err, "invalid confidence")
		}
		opts.BoxThreshold = float32(f)
	}

	if v := r.FormValue("nms"); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return opts, errors.Wrap(err, "invalid nms")
		}
		opts.NMSThreshold = float32(f)
	}

	if v := r.FormValue("locale"); v != "" {
		opts.Locale = v
	}

	if v := r.FormValue("audio"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.Wrap(err, "invalid audio")
		}
		opts.AudioEnabled = b
	}

	return opts, opts.Validate()
}

func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}
