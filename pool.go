package tripsafe

import (
	"context"
	"image"
	"sync"

	"go.uber.org/zap"

	"github.com/tripsafe/go-tripsafe/postprocess"
)

// PooledDetector is a Detector holding resources that Close releases
type PooledDetector interface {
	Detector
	Close() error
}

// Pool is a simple detector pool holding several instances of the same
// Model so concurrent requests each get their own network
type Pool struct {
	// pool of detectors
	detectors chan PooledDetector
	// size of pool
	size   int
	mu     sync.Mutex
	closed bool
	logger *zap.SugaredLogger
}

// NewPool creates a new pool of size Darknet detectors
func NewPool(size int, cfgFile, weightsFile string, params postprocess.DarknetParams,
	logger *zap.SugaredLogger) (*Pool, error) {

	p, err := newPool(size, func() (PooledDetector, error) {
		d, err := NewDarknet(cfgFile, weightsFile, params)
		if err != nil {
			return nil, err
		}
		return d, nil
	}, logger)

	if err != nil {
		return nil, err
	}

	p.logger.Infow("detector pool ready", "size", p.size, "weights", weightsFile)

	return p, nil
}

// newPool fills a pool of size detectors made by create
func newPool(size int, create func() (PooledDetector, error),
	logger *zap.SugaredLogger) (*Pool, error) {

	if size < 1 {
		size = 1
	}

	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	p := &Pool{
		detectors: make(chan PooledDetector, size),
		size:      size,
		logger:    logger,
	}

	for i := 0; i < size; i++ {
		d, err := create()

		if err != nil {
			// close any instances that may have been created before receiving
			// the error
			p.Close()
			return nil, err
		}

		// attach to pool
		p.Return(d)
	}

	return p, nil
}

// Get a detector from the pool, waiting until one is free or ctx is done
func (p *Pool) Get(ctx context.Context) (PooledDetector, error) {
	select {
	case d, ok := <-p.detectors:
		if !ok {
			return nil, ErrDetectorUnavailable
		}
		return d, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Return a detector to the pool.  Detectors returned after Close, or to a
// full pool, are closed
func (p *Pool) Return(d PooledDetector) {

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		select {
		case p.detectors <- d:
			return
		default:
			// pool is full
		}
	}

	p.closeDetector(d)
}

// Size returns the number of detectors in the pool
func (p *Pool) Size() int {
	return p.size
}

// Detect runs detection on a pooled detector
func (p *Pool) Detect(ctx context.Context, img image.Image) ([]postprocess.RawDetection, error) {

	d, err := p.Get(ctx)

	if err != nil {
		return nil, err
	}

	defer p.Return(d)

	return d.Detect(ctx, img)
}

// Close the pool and all idle detectors in it.  Detectors in use are closed
// when they are returned
func (p *Pool) Close() {

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.closed = true
	close(p.detectors)

	for next := range p.detectors {
		p.closeDetector(next)
	}
}

func (p *Pool) closeDetector(d PooledDetector) {
	if err := d.Close(); err != nil {
		p.logger.Warnw("error closing detector", "error", err)
	}
}
