package storage

import (
	"context"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roman-kulish/imu-gestures/internal/imu"
)

// ErrNoData indicates either that no samples exist for the given
// parameters, or that all available data has been read from a reader.
var ErrNoData = fmt.Errorf("no data available")

// Session describes one capture run.
type Session struct {
	ID         int64
	StartTime  time.Time
	DeviceType string
	DeviceID   string
	Config     *string // device configuration as JSON, if recorded
}

// Detection is one gesture classification persisted alongside a session.
// Source distinguishes the detector that produced it ("stream" or
// "rolling"). The velocity fields are zero for stream detections, which
// classify a raw acceleration peak instead.
type Detection struct {
	ID        int64
	T         float64 // trace time of the classified peak, seconds
	Source    string
	Label     string
	Axis      string
	Sign      string
	Magnitude float64
	DvX       float64
	DvY       float64
	DvZ       float64
	Duration  float64
}

// Store manages capture persistence: sessions, their raw IMU sample
// traces and any detections produced while recording. Writes are atomic;
// sample inserts are batched per call.
type Store interface {
	// CreateSession initializes a new capture session and returns its
	// identifier. config may be a string, []byte or any JSON-serializable
	// value, or nil.
	CreateSession(ctx context.Context, deviceType, deviceID string, config any) (sessionID int64, err error)

	// Session retrieves a capture session by ID.
	Session(ctx context.Context, id int64) (*Session, error)

	// Sessions returns all capture sessions ordered by start time.
	Sessions(ctx context.Context) ([]*Session, error)

	// StoreSamples saves a batch of raw samples for a session in a
	// single transaction.
	StoreSamples(ctx context.Context, sessionID int64, samples []imu.Sample) error

	// StoreDetection saves one detection for a session.
	StoreDetection(ctx context.Context, sessionID int64, d *Detection) (detectionID int64, err error)

	// Detections returns a session's detections ordered by trace time.
	Detections(ctx context.Context, sessionID int64) ([]*Detection, error)

	// ReadSamples returns an iterator over a session's samples ordered
	// by trace time. The reader pages through the table in batches and
	// must be closed after use.
	ReadSamples(ctx context.Context, sessionID int64, opts ...ReaderOption) (*SampleReader, error)

	// Close releases all database connections. It is safe to call
	// multiple times.
	Close() error
}
