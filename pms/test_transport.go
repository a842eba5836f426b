package pms

// TestTransport is an in-memory Transport fake with the same would-block
// semantics as a real serial port: TryReadByte returns ok=false once the
// queued bytes run out. Exported so that consumers of the library can
// drive a Session in their own tests without hardware.
type TestTransport struct {
	queue   []byte
	written []byte
	readErr error
	wrErr   error
	closed  bool
}

// NewTestTransport creates an empty test transport.
func NewTestTransport() *TestTransport {
	return &TestTransport{}
}

// QueueBytes appends data to be returned by subsequent TryReadByte calls.
// This simulates bytes arriving from the sensor.
func (t *TestTransport) QueueBytes(data []byte) {
	t.queue = append(t.queue, data...)
}

// FailNextRead makes the next TryReadByte return err.
func (t *TestTransport) FailNextRead(err error) { t.readErr = err }

// FailNextWrite makes the next TryWrite return err.
func (t *TestTransport) FailNextWrite(err error) { t.wrErr = err }

// Written returns everything the session has sent to the sensor.
func (t *TestTransport) Written() []byte { return t.written }

// Closed reports whether Close was called.
func (t *TestTransport) Closed() bool { return t.closed }

func (t *TestTransport) TryReadByte() (byte, bool, error) {
	if t.readErr != nil {
		err := t.readErr
		t.readErr = nil
		return 0, false, err
	}
	if len(t.queue) == 0 {
		return 0, false, nil
	}
	b := t.queue[0]
	t.queue = t.queue[1:]
	return b, true, nil
}

func (t *TestTransport) TryWrite(p []byte) error {
	if t.wrErr != nil {
		err := t.wrErr
		t.wrErr = nil
		return err
	}
	t.written = append(t.written, p...)
	return nil
}

func (t *TestTransport) Close() error {
	t.closed = true
	return nil
}

// Dial implements Dialer, returning the transport itself, so a
// TestTransport can be passed directly as a Session's dialer.
func (t *TestTransport) Dial() (Transport, error) {
	return t, nil
}
