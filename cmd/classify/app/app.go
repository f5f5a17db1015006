package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roman-kulish/imu-gestures/internal/gesture"
	"github.com/roman-kulish/imu-gestures/internal/imu"
	"github.com/roman-kulish/imu-gestures/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if config.DBPath != "" {
		return analyzeSession(ctx, config, logger)
	}
	if config.Stream {
		return streamTraces(ctx, config, logger)
	}
	return analyzeTraces(ctx, config, logger)
}

// streamTraces replays recorded traces through the streaming detector,
// sample by sample in arrival order, and prints every emission. This is
// the offline counterpart of the live detector in the capture daemon.
func streamTraces(ctx context.Context, config *Config, logger *slog.Logger) error {
	cfg := config.StreamConfig()

	var failed int
	for _, path := range config.Traces {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		trace, err := imu.ReadTraceFile(path)
		if err != nil {
			logger.Error(fmt.Sprintf("reading trace: %s", err.Error()), slog.String("path", path))
			failed++
			continue
		}

		printEmissions(path, replayTrace(trace, cfg))
	}

	if failed == len(config.Traces) {
		return fmt.Errorf("all %d traces failed", failed)
	}
	return nil
}

// replayTrace feeds one trace through a fresh streaming detector and
// collects its emissions.
func replayTrace(trace []imu.Sample, cfg gesture.StreamConfig) []gesture.Detection {
	d := gesture.NewDetector(cfg)

	var emissions []gesture.Detection
	for _, s := range trace {
		if det, ok := d.Update(s); ok {
			emissions = append(emissions, det)
		}
	}
	return emissions
}

func printEmissions(name string, emissions []gesture.Detection) {
	for _, det := range emissions {
		fmt.Printf("%s: t=%.3fs label=%s a=(%.2f, %.2f, %.2f)\n",
			name, det.T, det.Label, det.A.X, det.A.Y, det.A.Z)
	}
	fmt.Printf("%s: %d gestures\n", name, len(emissions))
}

func analyzeTraces(ctx context.Context, config *Config, logger *slog.Logger) error {
	var ok, mismatched, failed int

	for _, path := range config.Traces {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		trace, err := imu.ReadTraceFile(path)
		if err != nil {
			logger.Error(fmt.Sprintf("reading trace: %s", err.Error()), slog.String("path", path))
			failed++
			continue
		}

		result, err := gesture.Analyze(trace, config.Pipeline)
		if err != nil {
			logger.Error(fmt.Sprintf("analyzing trace: %s", err.Error()), slog.String("path", path))
			failed++
			continue
		}

		printResult(path, trace, result, config.ExpectHz)

		if expected, known := expectedLabel(path); known {
			if expected == result.Label {
				fmt.Printf("  expected=%s OK\n", expected)
				ok++
			} else {
				fmt.Printf("  expected=%s MISMATCH\n", expected)
				mismatched++
			}
		}
	}

	fmt.Printf("\n%d traces: %d OK, %d mismatched, %d failed\n",
		len(config.Traces), ok, mismatched, failed)

	if failed == len(config.Traces) {
		return fmt.Errorf("all %d traces failed", failed)
	}
	return nil
}

func analyzeSession(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	iter, err := store.ReadSamples(ctx, config.SessionID)
	if err != nil {
		return err
	}
	defer iter.Close()

	var trace []imu.Sample
	for iter.Next(ctx) {
		trace = append(trace, iter.Current())
	}
	if err = iter.Error(); err != nil {
		return err
	}

	logger.Info("session loaded",
		slog.Int64("session", config.SessionID),
		slog.Int("samples", len(trace)))

	if config.Stream {
		printEmissions(fmt.Sprintf("session %d", config.SessionID), replayTrace(trace, config.StreamConfig()))
		return nil
	}

	result, err := gesture.Analyze(trace, config.Pipeline)
	if err != nil {
		return fmt.Errorf("analyzing session %d: %w", config.SessionID, err)
	}

	printResult(fmt.Sprintf("session %d", config.SessionID), trace, result, config.ExpectHz)
	return nil
}

func printResult(name string, trace []imu.Sample, r gesture.Result, expectHz float64) {
	st := gesture.Stats(trace, expectHz)

	fmt.Printf("%s: label=%s axis=%s sign=%s |dv|=%.3f m/s dv=(%.3f, %.3f, %.3f) window=[%d,%d) t=%.3fs dur=%.3fs\n",
		name, r.Label, r.Axis, r.Sign, r.Magnitude,
		r.DeltaV.X, r.DeltaV.Y, r.DeltaV.Z,
		r.Start, r.End, r.TCenter, r.Duration)
	fmt.Printf("  samples=%d span=%.2fs rate=%.1fHz jitter=%.2fms drops=%.1f%%\n",
		st.Samples, st.Duration, st.EffectiveRate, st.Jitter*1000, st.DropPercent)
}

// expectedLabel infers the direction a trace file claims to record from
// its name, e.g. swipe_left_03.csv. Compound names check the longer
// tokens first so "backward" is not read as "forward".
func expectedLabel(path string) (gesture.Label, bool) {
	name := strings.ToLower(filepath.Base(path))

	for _, e := range []struct {
		token string
		label gesture.Label
	}{
		{"backward", gesture.Backward},
		{"back", gesture.Backward},
		{"forward", gesture.Forward},
		{"down", gesture.Down},
		{"up", gesture.Up},
		{"left", gesture.Left},
		{"right", gesture.Right},
	} {
		if strings.Contains(name, e.token) {
			return e.label, true
		}
	}
	return "", false
}
