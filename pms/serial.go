package pms

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// SerialDialer opens a PMS700x sensor over a serial port using
// go.bug.st/serial. The PMS700x family talks 9600 8N1 only; BaudRate
// exists for bench setups with protocol converters in between.
type SerialDialer struct {
	PortName string
	BaudRate int
}

// Dial opens the serial port and wraps it in a non-blocking Transport.
func (d SerialDialer) Dial() (Transport, error) {
	baud := d.BaudRate
	if baud == 0 {
		baud = 9600
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %q: %w", d.PortName, err)
	}

	// A zero read timeout makes Read return immediately with whatever is
	// buffered, which is exactly the would-block contract TryReadByte
	// needs.
	if err := port.SetReadTimeout(time.Duration(0)); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	return &serialTransport{port: port}, nil
}

// serialTransport adapts a serial.Port to the Transport contract. Reads
// are batched into a small buffer so TryReadByte does not issue one
// syscall per byte.
type serialTransport struct {
	port serial.Port
	rbuf [64]byte
	r, w int
}

func (t *serialTransport) TryReadByte() (byte, bool, error) {
	if t.r == t.w {
		n, err := t.port.Read(t.rbuf[:])
		if err != nil {
			return 0, false, fmt.Errorf("serial read: %w", err)
		}
		if n == 0 {
			return 0, false, nil
		}
		t.r, t.w = 0, n
	}
	b := t.rbuf[t.r]
	t.r++
	return b, true, nil
}

func (t *serialTransport) TryWrite(p []byte) error {
	n, err := t.port.Write(p)
	if err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	if n != len(p) {
		return ErrShortWrite
	}
	return nil
}

func (t *serialTransport) Close() error {
	return t.port.Close()
}
