package pms

//go:generate go tool mockgen -source=transport.go -destination=mock_transport.go -package=pms

// Transport represents an established byte stream to a PMS700x sensor.
//
// Both directions are non-blocking: the sensor emits frames on its own
// schedule and the driver polls for them, so a Transport never waits for
// data to appear. Typical implementations are a UART serial port or an
// in-memory fake used for testing.
type Transport interface {
	// TryReadByte returns the next byte from the sensor, or ok=false when
	// no byte is ready yet. An error indicates a transport fault, not the
	// absence of data.
	TryReadByte() (b byte, ok bool, err error)

	// TryWrite sends p to the sensor without blocking. Implementations
	// may rely on the tiny fixed size of command frames to complete the
	// write immediately.
	TryWrite(p []byte) error

	// Close releases the underlying connection.
	Close() error
}

// Dialer opens a Transport to a sensor.
//
// Dialer abstracts how the connection is created (a serial port or a test
// double) and is used during session construction only. Once a Transport
// is obtained, the Dialer is no longer needed.
type Dialer interface {
	Dial() (Transport, error)
}
