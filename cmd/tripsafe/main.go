package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/tripsafe/go-tripsafe"
	"github.com/tripsafe/go-tripsafe/hazard"
	"github.com/tripsafe/go-tripsafe/postprocess"
	"github.com/tripsafe/go-tripsafe/render"
	"github.com/tripsafe/go-tripsafe/server"
)

func main() {

	app := &cli.App{
		Name:  "tripsafe",
		Usage: "assess indoor trip hazards in still images",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "model-cfg",
				Value:   "yolov3-tiny.cfg",
				Usage:   "Darknet network cfg file",
				EnvVars: []string{"TRIPSAFE_MODEL_CFG"},
			},
			&cli.StringFlag{
				Name:    "model-weights",
				Value:   "yolov3-tiny.weights",
				Usage:   "Darknet network weights file",
				EnvVars: []string{"TRIPSAFE_MODEL_WEIGHTS"},
			},
			&cli.StringFlag{
				Name:    "labels",
				Value:   "coco.names",
				Usage:   "class names file, one label per line",
				EnvVars: []string{"TRIPSAFE_LABELS"},
			},
			&cli.StringFlag{
				Name:    "label-table",
				Usage:   "JSON file overriding the hazard and safe zone label lists",
				EnvVars: []string{"TRIPSAFE_LABEL_TABLE"},
			},
			&cli.Float64Flag{
				Name:    "confidence",
				Value:   tripsafe.DefaultBoxThreshold,
				Usage:   "minimum detection confidence in [0,1]",
				EnvVars: []string{"TRIPSAFE_CONFIDENCE"},
			},
			&cli.Float64Flag{
				Name:    "nms",
				Value:   tripsafe.DefaultNMSThreshold,
				Usage:   "non-maximum suppression IoU threshold in [0,1]",
				EnvVars: []string{"TRIPSAFE_NMS"},
			},
			&cli.StringFlag{
				Name:    "locale",
				Value:   tripsafe.DefaultLocale,
				Usage:   "language of advice and reports (en, hi)",
				EnvVars: []string{"TRIPSAFE_LOCALE"},
			},
			&cli.BoolFlag{
				Name:    "audio",
				Value:   true,
				Usage:   "enable voice alerts in clients",
				EnvVars: []string{"TRIPSAFE_AUDIO"},
			},
			&cli.BoolFlag{
				Name:    "degrade",
				Usage:   "assess images as empty when the detector fails instead of erroring",
				EnvVars: []string{"TRIPSAFE_DEGRADE"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				EnvVars: []string{"TRIPSAFE_DEBUG"},
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "also write JSON logs to this rotated file",
				EnvVars: []string{"TRIPSAFE_LOG_FILE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "scan",
				Usage:     "assess image files and write a report next to each",
				ArgsUsage: "IMAGE...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "annotate",
						Usage: "directory to write annotated images to",
					},
					&cli.IntFlag{
						Name:  "workers",
						Value: runtime.NumCPU(),
						Usage: "number of images processed concurrently",
					},
				},
				Action: scanAction,
			},
			{
				Name:  "serve",
				Usage: "serve assessments over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Value:   ":8080",
						Usage:   "listen address",
						EnvVars: []string{"TRIPSAFE_ADDR"},
					},
					&cli.IntFlag{
						Name:    "pool",
						Value:   2,
						Usage:   "number of detector instances",
						EnvVars: []string{"TRIPSAFE_POOL"},
					},
				},
				Action: serveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup holds the process wide state shared by every request
type setup struct {
	logger   *zap.SugaredLogger
	assessor *tripsafe.Assessor
	opts     tripsafe.Options
}

// newSetup loads the class names and label table and validates the options
func newSetup(c *cli.Context) (*setup, error) {

	logger := newLogger(c.Bool("debug"), c.String("log-file"))

	opts := tripsafe.Options{
		BoxThreshold:           float32(c.Float64("confidence")),
		NMSThreshold:           float32(c.Float64("nms")),
		Locale:                 c.String("locale"),
		AudioEnabled:           c.Bool("audio"),
		DegradeOnDetectorError: c.Bool("degrade"),
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	classNames, err := tripsafe.LoadLabels(c.String("labels"))

	if err != nil {
		return nil, err
	}

	table := hazard.DefaultLabelTable()

	if file := c.String("label-table"); file != "" {
		if table, err = hazard.LoadLabelTable(file); err != nil {
			return nil, err
		}
	}

	return &setup{
		logger:   logger,
		assessor: tripsafe.NewAssessor(classNames, table, logger),
		opts:     opts,
	}, nil
}

// openPool loads size detectors, or returns a nil pool when degrading is
// allowed and the model could not be loaded
func (s *setup) openPool(c *cli.Context, size int) (*tripsafe.Pool, error) {

	pool, err := tripsafe.NewPool(size, c.String("model-cfg"), c.String("model-weights"),
		postprocess.DarknetCOCOParams(), s.logger)

	if err != nil {
		if s.opts.DegradeOnDetectorError {
			s.logger.Warnw("detector not loaded, continuing without detections", "error", err)
			return nil, nil
		}
		return nil, err
	}

	return pool, nil
}

func scanAction(c *cli.Context) error {

	images := c.Args().Slice()

	if len(images) == 0 {
		return errors.New("no image files given")
	}

	s, err := newSetup(c)

	if err != nil {
		return err
	}

	defer s.logger.Sync()

	workers := c.Int("workers")

	if workers < 1 {
		workers = 1
	}

	if workers > len(images) {
		workers = len(images)
	}

	pool, err := s.openPool(c, workers)

	if err != nil {
		return err
	}

	var det tripsafe.Detector

	if pool != nil {
		defer pool.Close()
		det = pool
	}

	annotateDir := c.String("annotate")

	if annotateDir != "" {
		if err := os.MkdirAll(annotateDir, 0o755); err != nil {
			return errors.Wrap(err, "error creating annotate directory")
		}
	}

	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(workers)

	results := make([]*tripsafe.Result, len(images))

	for i, file := range images {
		i, file := i, file

		g.Go(func() error {
			res, err := s.scanFile(ctx, det, file, annotateDir)
			if err != nil {
				return errors.Wrapf(err, "error scanning %s", file)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, res := range results {
		printResult(images[i], res)
	}

	return nil
}

// scanFile assesses one image file, writes its report and optionally the
// annotated image
func (s *setup) scanFile(ctx context.Context, det tripsafe.Detector, file,
	annotateDir string) (*tripsafe.Result, error) {

	img, err := imaging.Open(file, imaging.AutoOrientation(true))

	if err != nil {
		return nil, errors.Wrap(err, "error reading image")
	}

	res, err := s.assessor.Scan(ctx, det, img, s.opts, time.Now())

	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(file, filepath.Ext(file))

	if err := os.WriteFile(base+".report.txt", []byte(res.Report), 0o644); err != nil {
		return nil, errors.Wrap(err, "error writing report")
	}

	if annotateDir != "" {
		mat, err := render.Annotate(img, res.Detections)

		if err != nil {
			return nil, err
		}

		out := filepath.Join(annotateDir, filepath.Base(base)+".jpg")
		ok := gocv.IMWrite(out, mat)
		mat.Close()

		if !ok {
			return nil, errors.Errorf("error writing annotated image %s", out)
		}
	}

	s.logger.Debugw("scanned image", "file", file, "risk", res.Scene.RiskLevel.String())

	return res, nil
}

func printResult(file string, res *tripsafe.Result) {

	fmt.Printf("%s: %s\n", file, res.Status)
	fmt.Printf("  %s\n", res.Message)
	fmt.Printf("  hazards: %d, safe zones: %d\n", res.Scene.HazardCount, res.Scene.SafeZoneCount)

	for _, sug := range res.Suggestions {
		fmt.Printf("  %s\n", sug.String())
	}
}

func serveAction(c *cli.Context) error {

	s, err := newSetup(c)

	if err != nil {
		return err
	}

	defer s.logger.Sync()

	pool, err := s.openPool(c, c.Int("pool"))

	if err != nil {
		return err
	}

	var det tripsafe.Detector

	if pool != nil {
		defer pool.Close()
		det = pool
	}

	srv := &http.Server{
		Addr:              c.String("addr"),
		Handler:           server.New(s.assessor, det, s.opts, s.logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Infow("server starting", "addr", srv.Addr, "locale", s.opts.Locale)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
