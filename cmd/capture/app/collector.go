package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roman-kulish/imu-gestures/internal/gesture"
	"github.com/roman-kulish/imu-gestures/internal/imu"
	"github.com/roman-kulish/imu-gestures/internal/storage"
)

const (
	maxBatchSize     = 100
	sampleChanBuffer = 256
)

// WithMaxBatchSize sets the maximum batch size of collected samples to
// store within a single database transaction.
func WithMaxBatchSize(size int) func(*Collector) {
	return func(c *Collector) {
		if size > 0 {
			c.maxBatchSize = size
		}
	}
}

// WithDetector attaches the streaming gesture detector. Detections are
// persisted alongside the raw trace.
func WithDetector(d *gesture.Detector) func(*Collector) {
	return func(c *Collector) {
		c.detector = d
	}
}

// WithRollingDetector attaches the velocity-integrating online detector.
func WithRollingDetector(d *gesture.RollingDetector) func(*Collector) {
	return func(c *Collector) {
		c.rolling = d
	}
}

// Collector runs one capture session: it streams samples from the IMU
// reader into the store in batches, and feeds any attached detectors,
// persisting what they emit.
type Collector struct {
	device *imu.Device
	config any

	logger *slog.Logger
	store  storage.Store

	detector *gesture.Detector
	rolling  *gesture.RollingDetector

	maxBatchSize int
	sessionID    int64
	batch        []imu.Sample
}

// NewCollector creates a new Collector. config is the device
// configuration recorded with the session.
func NewCollector(device *imu.Device, config any, store storage.Store, logger *slog.Logger, options ...func(*Collector)) *Collector {
	c := Collector{
		device:       device,
		config:       config,
		logger:       logger,
		store:        store,
		maxBatchSize: maxBatchSize,
	}

	for _, option := range options {
		option(&c)
	}

	return &c
}

// Run begins data collection and blocks until the context is cancelled
// or the device stops.
func (c *Collector) Run(ctx context.Context) error {
	sessionID, err := c.store.CreateSession(ctx, c.device.Device(), c.device.DeviceID(), c.config)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	c.sessionID = sessionID
	c.batch = make([]imu.Sample, 0, c.maxBatchSize)

	samples := make(chan imu.Sample, sampleChanBuffer)

	done, err := c.device.BeginSampling(ctx, samples)
	if err != nil {
		return fmt.Errorf("starting device: %w", err)
	}

	c.logger.Info("capture started",
		slog.Int64("session", sessionID),
		slog.String("device", c.device.DeviceID()))

	var sampleErr error
loop:
	for {
		select {
		case s := <-samples:
			c.handleSample(ctx, s)

		case err, ok := <-done:
			if ok && err != nil {
				sampleErr = err
			}
			break loop

		case <-ctx.Done():
			c.device.Stop()
		}
	}

	// Drain samples parsed before the device stopped.
	for {
		select {
		case s := <-samples:
			c.handleSample(context.Background(), s)
			continue
		default:
		}
		break
	}

	if err = c.flush(context.Background()); err != nil {
		c.logger.Error(err.Error())
	}

	c.logger.Info("capture stopped", slog.Int64("session", sessionID))
	return sampleErr
}

func (c *Collector) handleSample(ctx context.Context, s imu.Sample) {
	c.batch = append(c.batch, s)
	if len(c.batch) >= c.maxBatchSize {
		if err := c.flush(ctx); err != nil {
			c.logger.Error(err.Error())
		}
	}

	if c.detector != nil {
		if det, ok := c.detector.Update(s); ok {
			c.storeDetection(ctx, &storage.Detection{
				T:         det.T,
				Source:    "stream",
				Label:     string(det.Label),
				Magnitude: det.A.Norm(),
			})
		}
	}

	if c.rolling != nil {
		c.rolling.Add(s)
		if res, ok := c.rolling.Poll(); ok {
			c.storeDetection(ctx, &storage.Detection{
				T:         res.TCenter,
				Source:    "rolling",
				Label:     string(res.Label),
				Axis:      res.Axis.String(),
				Sign:      res.Sign.String(),
				Magnitude: res.Magnitude,
				DvX:       res.DeltaV.X,
				DvY:       res.DeltaV.Y,
				DvZ:       res.DeltaV.Z,
				Duration:  res.Duration,
			})
		}
	}
}

func (c *Collector) storeDetection(ctx context.Context, d *storage.Detection) {
	if _, err := c.store.StoreDetection(ctx, c.sessionID, d); err != nil {
		c.logger.Error(fmt.Sprintf("storing detection: %s", err.Error()))
		return
	}
	c.logger.Info("gesture detected",
		slog.String("label", d.Label),
		slog.String("source", d.Source),
		slog.Float64("t", d.T))
}

func (c *Collector) flush(ctx context.Context) error {
	if len(c.batch) == 0 {
		return nil
	}
	if err := c.store.StoreSamples(ctx, c.sessionID, c.batch); err != nil {
		return fmt.Errorf("storing samples: %w", err)
	}
	c.batch = c.batch[:0]
	return nil
}
