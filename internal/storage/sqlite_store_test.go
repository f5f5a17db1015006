package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/imu-gestures/internal/imu"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()

	store := NewSqliteStore(filepath.Join(t.TempDir(), "test.sqlite"))
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func testTrace(n int) []imu.Sample {
	trace := make([]imu.Sample, n)
	for i := range trace {
		trace[i] = imu.Sample{
			T:     float64(i) / 100,
			Accel: imu.Vec3{X: float64(i), Z: 9.81},
			Gyro:  imu.Vec3{Y: 0.1},
			Quat:  imu.Identity(),
		}
	}
	return trace
}

func TestSqliteStore_SessionRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateSession(ctx, "BNO08x", "bno08x-1-0x4a", map[string]int{"hz": 100})
	require.NoError(t, err)
	require.Positive(t, id)

	sess, err := store.Session(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, sess.ID)
	assert.Equal(t, "BNO08x", sess.DeviceType)
	assert.Equal(t, "bno08x-1-0x4a", sess.DeviceID)
	require.NotNil(t, sess.Config)
	assert.JSONEq(t, `{"hz":100}`, *sess.Config)

	sessions, err := store.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, id, sessions[0].ID)
}

func TestSqliteStore_SampleRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateSession(ctx, "BNO08x", "test", nil)
	require.NoError(t, err)

	trace := testTrace(25)
	require.NoError(t, store.StoreSamples(ctx, id, trace))

	iter, err := store.ReadSamples(ctx, id, WithBatchSize(10))
	require.NoError(t, err)
	defer iter.Close()

	var got []imu.Sample
	for iter.Next(ctx) {
		got = append(got, iter.Current())
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, trace, got)
}

func TestSqliteStore_SampleTimeRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateSession(ctx, "BNO08x", "test", nil)
	require.NoError(t, err)
	require.NoError(t, store.StoreSamples(ctx, id, testTrace(100)))

	iter, err := store.ReadSamples(ctx, id, WithTimeRange(0.25, 0.50))
	require.NoError(t, err)
	defer iter.Close()

	var got []imu.Sample
	for iter.Next(ctx) {
		got = append(got, iter.Current())
	}
	require.NoError(t, iter.Error())

	require.NotEmpty(t, got)
	for _, s := range got {
		assert.GreaterOrEqual(t, s.T, 0.25)
		assert.LessOrEqual(t, s.T, 0.50)
	}
	assert.Len(t, got, 26)
}

func TestSqliteStore_ReadOrdersByTraceTime(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateSession(ctx, "BNO08x", "test", nil)
	require.NoError(t, err)

	// Two interleaved halves inserted out of trace-time order, read
	// back with a page size that forces the cursor across batches.
	trace := testTrace(20)
	var shuffled []imu.Sample
	for i := 10; i < 20; i++ {
		shuffled = append(shuffled, trace[i])
	}
	for i := 0; i < 10; i++ {
		shuffled = append(shuffled, trace[i])
	}
	require.NoError(t, store.StoreSamples(ctx, id, shuffled))

	iter, err := store.ReadSamples(ctx, id, WithBatchSize(7))
	require.NoError(t, err)
	defer iter.Close()

	var got []imu.Sample
	for iter.Next(ctx) {
		got = append(got, iter.Current())
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, trace, got)
}

func TestSqliteStore_ReadUnknownSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Schema only exists once a write connection has been opened.
	_, err := store.CreateSession(ctx, "BNO08x", "test", nil)
	require.NoError(t, err)

	_, err = store.ReadSamples(ctx, 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestSqliteStore_DetectionRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateSession(ctx, "BNO08x", "test", nil)
	require.NoError(t, err)

	want := &Detection{
		T:         1.25,
		Source:    "rolling",
		Label:     "UP",
		Axis:      "X",
		Sign:      "+",
		Magnitude: 0.93,
		DvX:       0.93,
		DvY:       0.02,
		DvZ:       -0.05,
		Duration:  0.61,
	}
	detID, err := store.StoreDetection(ctx, id, want)
	require.NoError(t, err)
	require.Positive(t, detID)

	_, err = store.StoreDetection(ctx, id, &Detection{T: 0.5, Source: "stream", Label: "LEFT"})
	require.NoError(t, err)

	got, err := store.Detections(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by trace time, not insertion.
	assert.Equal(t, "LEFT", got[0].Label)
	assert.Equal(t, "UP", got[1].Label)

	want.ID = detID
	assert.Equal(t, want, got[1])
}

func TestSqliteStore_CloseIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CreateSession(context.Background(), "BNO08x", "test", nil)
	require.NoError(t, err)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
