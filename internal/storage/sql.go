package storage

const initSchemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    start_time  DATETIME NOT NULL,
    device_type TEXT NOT NULL,
    device_id   TEXT NOT NULL,
    config      TEXT
);

CREATE TABLE IF NOT EXISTS samples (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL REFERENCES sessions(id),
    t          REAL NOT NULL,
    accel_x    REAL NOT NULL,
    accel_y    REAL NOT NULL,
    accel_z    REAL NOT NULL,
    gyro_x     REAL NOT NULL,
    gyro_y     REAL NOT NULL,
    gyro_z     REAL NOT NULL,
    quat_w     REAL NOT NULL,
    quat_i     REAL NOT NULL,
    quat_j     REAL NOT NULL,
    quat_k     REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS detections (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL REFERENCES sessions(id),
    t          REAL NOT NULL,
    source     TEXT NOT NULL,
    label      TEXT NOT NULL,
    axis       TEXT NOT NULL,
    sign       TEXT NOT NULL,
    magnitude  REAL NOT NULL,
    dv_x       REAL NOT NULL,
    dv_y       REAL NOT NULL,
    dv_z       REAL NOT NULL,
    duration   REAL NOT NULL
);`

// Indexes are created on Close, after the bulk of inserts is done.
const initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_samples_session_t ON samples(session_id, t);
CREATE INDEX IF NOT EXISTS idx_detections_session_t ON detections(session_id, t);`

const (
	insertSessionSQL = `
INSERT INTO sessions (
                      start_time,
                      device_type,
                      device_id,
                      config)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?)`

	selectSessionSQL = `
SELECT
    id,
    start_time,
    device_type,
    device_id,
    config
FROM sessions
WHERE
    id = ?`

	selectSessionsSQL = `
SELECT
    id,
    start_time,
    device_type,
    device_id,
    config
FROM sessions
ORDER BY start_time`

	insertSamplesSQL = `
INSERT INTO samples (session_id,
                     t,
                     accel_x, accel_y, accel_z,
                     gyro_x, gyro_y, gyro_z,
                     quat_w, quat_i, quat_j, quat_k)
VALUES `

	insertDetectionSQL = `
INSERT INTO detections (session_id,
                        t,
                        source,
                        label,
                        axis,
                        sign,
                        magnitude,
                        dv_x, dv_y, dv_z,
                        duration)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectDetectionsSQL = `
SELECT
    id,
    t,
    source,
    label,
    axis,
    sign,
    magnitude,
    dv_x, dv_y, dv_z,
    duration
FROM detections
WHERE
    session_id = ?
ORDER BY t`
)
