// Package pms drives Plantower PMS700x particulate-matter sensors over a
// byte-oriented transport. It exposes non-blocking polling operations so a
// single caller can interleave sensor work with everything else on one
// execution context, the deployment model these sensors are used in.
package pms

import (
	"fmt"
	"log/slog"
	"time"

	"i4.energy/across/pms700x/frame"
)

// Mode is the sensor's reporting mode.
type Mode int

const (
	// ModeIdle is the sensor's passive mode: it only answers explicit
	// read requests. The mode a Session assumes at construction.
	ModeIdle Mode = iota

	// ModeActive streams a measurement frame roughly once a second
	// without being asked.
	ModeActive
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeActive:
		return "active"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// commandData maps a target mode to the data word of the mode command.
func (m Mode) commandData() uint16 {
	if m == ModeActive {
		return frame.ModeDataActive
	}
	return frame.ModeDataPassive
}

// Session owns the connection to one sensor: the frame assembler, the
// confirmed reporting mode, and any in-flight mode transition. All state
// is mutated only through its methods and no method blocks; a Session must
// be used from a single goroutine.
type Session struct {
	transport Transport
	config    Config
	logger    *slog.Logger
	asm       frame.Assembler
	closed    bool

	// mode is the last confirmed reporting mode.
	mode Mode

	// pending mode transition, valid while awaitingAck is true. On
	// timeout the session falls back to mode, which still holds the
	// pre-request value.
	awaitingAck   bool
	pendingTarget Mode
	ackDeadline   time.Time

	// passiveReadPending marks that a requested passive reading is due,
	// allowing the next measurement frame through while idle.
	passiveReadPending bool

	// unknownReported ensures ErrUnknownFrame is surfaced only once per
	// session; subsequent unknown frames are dropped quietly.
	unknownReported bool
}

// New dials the transport and returns a Session in idle mode. The sensor
// is assumed powered but not necessarily streaming; call IntoActive to
// start continuous reporting.
func New(config Config) (*Session, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()

	transport, err := config.Dialer.Dial()
	if err != nil {
		return nil, fmt.Errorf("dial sensor: %w", err)
	}

	return &Session{
		transport: transport,
		config:    config,
		logger:    config.Logger,
		mode:      ModeIdle,
	}, nil
}

// Close shuts down the session and closes the transport. The Session
// cannot be reused afterwards.
func (s *Session) Close() error {
	if s.closed {
		return ErrAlreadyClosed
	}
	s.closed = true
	return s.transport.Close()
}

// Mode returns the last confirmed reporting mode.
func (s *Session) Mode() Mode { return s.mode }

// TransitionPending reports whether a mode change is awaiting its
// acknowledgement.
func (s *Session) TransitionPending() bool { return s.awaitingAck }

// PollMeasurement drains available transport bytes through the frame
// assembler and returns (m, true, nil) when a measurement is ready.
// (zero, false, nil) means not ready yet: no data on the line or no
// complete frame, poll again later. Errors are recoverable by retrying;
// none of them end the session.
//
// Measurement frames that arrive while the sensor is not actively
// reporting (and no passive read was requested) are residue from a recent
// mode change and are discarded.
func (s *Session) PollMeasurement() (frame.Measurement, bool, error) {
	var zero frame.Measurement
	if s.closed {
		return zero, false, ErrAlreadyClosed
	}

	m, err := s.pump()
	if err != nil {
		return zero, false, err
	}
	if m != nil {
		return *m, true, nil
	}
	return zero, false, nil
}

// RequestMode writes a mode-change command and starts the acknowledgement
// clock. It fails with ErrTransitionPending, leaving all state untouched,
// if a previous change has not resolved yet. Completion is observed via
// PollMode.
func (s *Session) RequestMode(target Mode) error {
	if s.closed {
		return ErrAlreadyClosed
	}
	if s.awaitingAck {
		return ErrTransitionPending
	}

	cmd := frame.EncodeCommand(frame.OpSetMode, target.commandData())
	if err := s.transport.TryWrite(cmd[:]); err != nil {
		return fmt.Errorf("write mode command: %w", err)
	}

	s.awaitingAck = true
	s.pendingTarget = target
	s.ackDeadline = s.config.Now().Add(s.config.AckTimeout)
	s.logger.Debug("mode change requested", "target", target.String())
	return nil
}

// PollMode advances a pending mode transition. It returns (true, nil) once
// the sensor has acknowledged the change (or when no transition is
// pending), and (false, nil) while the acknowledgement is still on its
// way. If the deadline passes first the session reverts to the mode it
// held before the request and PollMode returns ErrAckTimeout; the session
// never stays in the transitioning state indefinitely.
func (s *Session) PollMode() (bool, error) {
	if s.closed {
		return false, ErrAlreadyClosed
	}
	if !s.awaitingAck {
		return true, nil
	}

	if _, err := s.pump(); err != nil {
		return false, err
	}
	if !s.awaitingAck {
		// pump consumed the acknowledgement.
		return true, nil
	}

	if !s.config.Now().Before(s.ackDeadline) {
		s.awaitingAck = false
		s.logger.Debug("mode change timed out", "target", s.pendingTarget.String(), "reverted_to", s.mode.String())
		return false, ErrAckTimeout
	}
	return false, nil
}

// IntoActive requests continuous reporting mode.
func (s *Session) IntoActive() error { return s.RequestMode(ModeActive) }

// IntoIdle requests passive mode.
//
// After the change is acknowledged, wait 30-50ms before requesting a
// passive reading or the sensor will not respond.
func (s *Session) IntoIdle() error { return s.RequestMode(ModeIdle) }

// RequestReading asks an idle sensor for a single measurement. The reading
// arrives like any other: poll for it with PollMeasurement.
func (s *Session) RequestReading() error {
	if s.closed {
		return ErrAlreadyClosed
	}
	if s.awaitingAck {
		return ErrTransitionPending
	}
	if s.mode != ModeIdle {
		return ErrNotIdle
	}

	cmd := frame.EncodeCommand(frame.OpRequestRead, 0)
	if err := s.transport.TryWrite(cmd[:]); err != nil {
		return fmt.Errorf("write read request: %w", err)
	}
	s.passiveReadPending = true
	return nil
}

// Sleep powers down the sensor's fan and laser. A sleeping sensor does not
// answer, so no acknowledgement is tracked.
func (s *Session) Sleep() error { return s.writeSleep(frame.SleepDataSleep) }

// Wake powers the sensor back up.
//
// Allow roughly 30 seconds after waking for the readings to stabilize.
func (s *Session) Wake() error { return s.writeSleep(frame.SleepDataWake) }

func (s *Session) writeSleep(data uint16) error {
	if s.closed {
		return ErrAlreadyClosed
	}
	cmd := frame.EncodeCommand(frame.OpSetSleep, data)
	if err := s.transport.TryWrite(cmd[:]); err != nil {
		return fmt.Errorf("write sleep command: %w", err)
	}
	return nil
}

// pump feeds available transport bytes into the assembler, applies frame
// effects to the session state, and returns the first deliverable
// measurement. Work per call is bounded by MaxBytesPerPoll; leftover bytes
// stay in the transport for the next poll.
func (s *Session) pump() (*frame.Measurement, error) {
	for i := 0; i < s.config.MaxBytesPerPoll; i++ {
		b, ok, err := s.transport.TryReadByte()
		if err != nil {
			return nil, fmt.Errorf("transport: %w", err)
		}
		if !ok {
			break
		}

		prevUnknown := s.asm.UnknownFrames()
		f, ready := s.asm.Feed(b)

		if s.asm.UnknownFrames() > prevUnknown && !s.unknownReported {
			s.unknownReported = true
			return nil, ErrUnknownFrame
		}
		if s.asm.ChecksumStreak() >= s.config.ChecksumFaultLimit {
			// Re-arm so a recovered link does not keep reporting.
			s.asm.Reset()
			return nil, ErrLinkDegraded
		}

		if !ready {
			continue
		}

		switch fr := f.(type) {
		case frame.Ack:
			if s.handleAck(fr) {
				// The pending transition resolved; leave any further
				// bytes for the next poll.
				return nil, nil
			}
		case frame.Measurement:
			if s.deliverable() {
				s.passiveReadPending = false
				return &fr, nil
			}
			s.logger.Debug("discarding residual measurement", "mode", s.mode.String(), "transitioning", s.awaitingAck)
		}
	}
	return nil, nil
}

// deliverable reports whether a decoded measurement should reach the
// caller: the sensor is confirmed active, or an idle-mode reading was
// explicitly requested.
func (s *Session) deliverable() bool {
	if s.awaitingAck {
		return false
	}
	if s.mode == ModeActive {
		return true
	}
	return s.mode == ModeIdle && s.passiveReadPending
}

// handleAck applies an acknowledgement to the pending transition and
// reports whether it resolved one.
func (s *Session) handleAck(a frame.Ack) bool {
	if !s.awaitingAck || a.Opcode != frame.OpSetMode {
		s.logger.Debug("ignoring unexpected ack", "opcode", fmt.Sprintf("%#x", uint8(a.Opcode)))
		return false
	}
	s.mode = s.pendingTarget
	s.awaitingAck = false
	s.logger.Debug("mode change acknowledged", "mode", s.mode.String())
	return true
}
