package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/roman-kulish/imu-gestures/internal/imu"
)

const defaultReaderBatchSize = 1000

// ReaderOption configures a SampleReader with filtering or paging
// criteria.
type ReaderOption func(*SampleReader)

// WithTimeRange restricts the reader to samples whose trace time falls
// within [minT, maxT].
func WithTimeRange(minT, maxT float64) ReaderOption {
	return func(r *SampleReader) {
		r.minT, r.maxT = &minT, &maxT
	}
}

// WithBatchSize overrides how many samples are fetched per page.
func WithBatchSize(n int) ReaderOption {
	return func(r *SampleReader) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// SampleReader iterates over a session's samples in trace-time order,
// ties broken by insertion order, fetching one page at a time so long
// captures never load whole into memory.
type SampleReader struct {
	db        *sql.DB
	sessionID int64

	minT, maxT *float64
	batchSize  int

	buf     []imu.Sample
	pos     int
	lastT   float64 // keyset cursor, (t, id) of the last fetched row
	lastID  int64
	drained bool
	current imu.Sample
	err     error
	closed  bool
}

func newSampleReader(ctx context.Context, db *sql.DB, sessionID int64, opts ...ReaderOption) (*SampleReader, error) {
	r := &SampleReader{
		db:        db,
		sessionID: sessionID,
		batchSize: defaultReaderBatchSize,
		lastT:     math.Inf(-1),
	}
	for _, opt := range opts {
		opt(r)
	}

	var exists int
	err := db.QueryRowContext(ctx, "SELECT COUNT(1) FROM sessions WHERE id = ?", sessionID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking session: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("session %d: %w", sessionID, ErrNoData)
	}
	return r, nil
}

// Next advances the iterator. It returns false when the data is
// exhausted or an error occurred; check Error to tell the two apart.
func (r *SampleReader) Next(ctx context.Context) bool {
	if r.err != nil || r.closed {
		return false
	}

	if r.pos >= len(r.buf) {
		if r.drained {
			return false
		}
		if r.err = r.fetch(ctx); r.err != nil {
			return false
		}
		if len(r.buf) == 0 {
			return false
		}
	}

	r.current = r.buf[r.pos]
	r.pos++
	return true
}

// Current returns the sample the iterator is positioned on. Undefined
// before the first Next or after Next returned false.
func (r *SampleReader) Current() imu.Sample { return r.current }

// Error returns the first error encountered during iteration, if any.
func (r *SampleReader) Error() error {
	if errors.Is(r.err, ErrNoData) {
		return nil
	}
	return r.err
}

// Close releases the reader. The underlying connection is owned by the
// store and stays open.
func (r *SampleReader) Close() error {
	r.closed = true
	r.buf = nil
	return nil
}

func (r *SampleReader) fetch(ctx context.Context) (err error) {
	var sb strings.Builder
	sb.WriteString(`
SELECT
    id,
    t,
    accel_x, accel_y, accel_z,
    gyro_x, gyro_y, gyro_z,
    quat_w, quat_i, quat_j, quat_k
FROM samples
WHERE
    session_id = ? AND (t > ? OR (t = ? AND id > ?))`)

	args := []any{r.sessionID, r.lastT, r.lastT, r.lastID}
	if r.minT != nil {
		sb.WriteString(" AND t >= ?")
		args = append(args, *r.minT)
	}
	if r.maxT != nil {
		sb.WriteString(" AND t <= ?")
		args = append(args, *r.maxT)
	}
	sb.WriteString(" ORDER BY t, id LIMIT ?")
	args = append(args, r.batchSize)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return fmt.Errorf("querying samples: %w", err)
	}
	defer closeWithError(rows, &err)

	r.buf = r.buf[:0]
	r.pos = 0

	for rows.Next() {
		var id int64
		var s imu.Sample
		if err = rows.Scan(&id, &s.T,
			&s.Accel.X, &s.Accel.Y, &s.Accel.Z,
			&s.Gyro.X, &s.Gyro.Y, &s.Gyro.Z,
			&s.Quat.W, &s.Quat.I, &s.Quat.J, &s.Quat.K); err != nil {
			return fmt.Errorf("scanning sample: %w", err)
		}
		r.lastT, r.lastID = s.T, id
		r.buf = append(r.buf, s)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("iterating samples: %w", err)
	}

	if len(r.buf) < r.batchSize {
		r.drained = true
	}
	return nil
}
