package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"math"
	"os"

	"github.com/roman-kulish/imu-gestures/internal/imu"
	"github.com/roman-kulish/imu-gestures/internal/render"
	"github.com/roman-kulish/imu-gestures/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	var trace []imu.Sample
	var marks []render.Mark
	var err error

	if config.TracePath != "" {
		if trace, err = imu.ReadTraceFile(config.TracePath); err != nil {
			return err
		}
		trace = clipTrace(trace, config.MinT, config.MaxT)
	} else {
		if trace, marks, err = loadSession(ctx, config, logger); err != nil {
			return err
		}
	}

	if len(trace) == 0 {
		return fmt.Errorf("nothing to plot")
	}

	renderer, err := render.NewTimelineRenderer(render.Config{})
	if err != nil {
		return fmt.Errorf("creating timeline renderer: %w", err)
	}
	defer renderer.Close()

	logger.Info("rendering trace",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
		),
		slog.Int("samples", len(trace)),
		slog.Int("detections", len(marks)))

	img, err := renderer.Render(trace, marks)
	if err != nil {
		return fmt.Errorf("rendering trace: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}

func loadSession(ctx context.Context, config *Config, logger *slog.Logger) ([]imu.Sample, []render.Mark, error) {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	var opts []storage.ReaderOption
	if config.MinT != nil || config.MaxT != nil {
		minT, maxT := math.Inf(-1), math.Inf(1)
		if config.MinT != nil {
			minT = *config.MinT
		}
		if config.MaxT != nil {
			maxT = *config.MaxT
		}
		opts = append(opts, storage.WithTimeRange(minT, maxT))
	}

	iter, err := store.ReadSamples(ctx, config.SessionID, opts...)
	if err != nil {
		return nil, nil, err
	}
	defer iter.Close()

	var trace []imu.Sample
	for iter.Next(ctx) {
		trace = append(trace, iter.Current())
	}
	if err = iter.Error(); err != nil {
		return nil, nil, err
	}

	detections, err := store.Detections(ctx, config.SessionID)
	if err != nil {
		return nil, nil, err
	}

	marks := make([]render.Mark, 0, len(detections))
	for _, d := range detections {
		marks = append(marks, render.Mark{T: d.T, Label: d.Label})
	}

	logger.Info("session loaded",
		slog.Int64("session", config.SessionID),
		slog.Int("samples", len(trace)),
		slog.Int("detections", len(marks)))

	return trace, marks, nil
}

func clipTrace(trace []imu.Sample, minT, maxT *float64) []imu.Sample {
	if minT == nil && maxT == nil {
		return trace
	}
	clipped := trace[:0]
	for _, s := range trace {
		if minT != nil && s.T < *minT {
			continue
		}
		if maxT != nil && s.T > *maxT {
			continue
		}
		clipped = append(clipped, s)
	}
	return clipped
}
