package pms

import "errors"

var (
	// ErrNoDialer is returned when a Session is constructed without a
	// Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order
	// to establish a connection to the sensor.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrAlreadyClosed is returned when Close is called on a Session that
	// has already been closed, or when any operation is attempted after
	// Close.
	ErrAlreadyClosed = errors.New("session already closed")

	// ErrTransitionPending is returned by RequestMode while a previous
	// mode change is still awaiting its acknowledgement. The session state
	// is left unchanged; poll the pending transition to completion first.
	ErrTransitionPending = errors.New("mode transition already in progress")

	// ErrAckTimeout is returned by PollMode when the sensor did not
	// acknowledge a mode change before the deadline. The session has
	// reverted to the mode it held before the request; the caller may
	// re-issue it.
	ErrAckTimeout = errors.New("mode change not acknowledged in time")

	// ErrLinkDegraded is returned by PollMeasurement when too many
	// consecutive frames have failed their checksum, indicating a noisy or
	// misconfigured line rather than one-off corruption.
	ErrLinkDegraded = errors.New("persistent checksum failures on link")

	// ErrUnknownFrame is surfaced once when the sensor emits a frame with
	// an unrecognized discriminant. This may indicate a firmware or sensor
	// variant mismatch. Subsequent unknown frames are dropped silently.
	ErrUnknownFrame = errors.New("sensor sent unknown frame type")

	// ErrNotIdle is returned by RequestReading when the session is not in
	// passive (Idle) mode. Active-mode sensors stream measurements
	// unprompted.
	ErrNotIdle = errors.New("passive read request outside idle mode")

	// ErrShortWrite is returned when the transport accepted fewer bytes
	// than a command frame holds.
	ErrShortWrite = errors.New("short write to transport")
)
