// Package server exposes hazard assessments over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/tripsafe/go-tripsafe"
)

// maxUploadSize is the largest accepted request body
const maxUploadSize = 50 << 20

// Server handles assessment requests.  The Assessor and Detector are shared
// by all requests
type Server struct {
	assessor *tripsafe.Assessor
	detector tripsafe.Detector
	defaults tripsafe.Options
	logger   *zap.SugaredLogger
	// now returns the capture time stamped on reports
	now func() time.Time
	// maxUpload caps the request body in bytes
	maxUpload int64
}

// New returns a Server using defaults for any option a request leaves unset
func New(assessor *tripsafe.Assessor, detector tripsafe.Detector,
	defaults tripsafe.Options, logger *zap.SugaredLogger) *Server {

	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Server{
		assessor:  assessor,
		detector:  detector,
		defaults:  defaults,
		logger:    logger,
		now:       time.Now,
		maxUpload: maxUploadSize,
	}
}

// Handler returns the routes of the server wrapped in CORS handling
func (s *Server) Handler() http.Handler {

	mux := http.NewServeMux()
	mux.HandleFunc("/assess", s.AssessHandler)
	mux.HandleFunc("/report", s.ReportHandler)
	mux.HandleFunc("/annotate", s.AnnotateHandler)
	mux.HandleFunc("/health", s.HealthHandler)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)
}
