package pms

import (
	"io"
	"log/slog"
	"time"
)

// Config carries the settings for a Session. Only Dialer is required;
// every other field has a working default applied by New.
type Config struct {
	// Dialer opens the transport to the sensor.
	Dialer Dialer

	// AckTimeout bounds how long a mode change may stay unacknowledged
	// before PollMode reverts it and reports ErrAckTimeout.
	AckTimeout time.Duration

	// ChecksumFaultLimit is the number of consecutive checksum failures
	// after which PollMeasurement reports ErrLinkDegraded.
	ChecksumFaultLimit int

	// MaxBytesPerPoll bounds how many transport bytes a single poll will
	// consume, keeping every call prompt on a firehosing line.
	MaxBytesPerPoll int

	// Logger receives debug-level framing diagnostics. Defaults to a
	// logger that discards everything.
	Logger *slog.Logger

	// Now supplies the current time for transition deadlines. Overridden
	// in tests; defaults to time.Now.
	Now func() time.Time
}

func (c *Config) validate() error {
	if c.Dialer == nil {
		return ErrNoDialer
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.AckTimeout == 0 {
		c.AckTimeout = time.Second
	}
	if c.ChecksumFaultLimit == 0 {
		c.ChecksumFaultLimit = 8
	}
	if c.MaxBytesPerPoll == 0 {
		c.MaxBytesPerPoll = 256
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}
