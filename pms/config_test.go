package pms

import (
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("ErrNoDialer when no dialer provided", func(t *testing.T) {
		c := Config{}
		if err := c.validate(); err != ErrNoDialer {
			t.Errorf("expected ErrNoDialer, got: %v", err)
		}
	})

	t.Run("Defaults fill every optional field", func(t *testing.T) {
		c := Config{Dialer: NewTestTransport()}
		c.setDefaults()

		if c.AckTimeout != time.Second {
			t.Errorf("unexpected AckTimeout default: %v", c.AckTimeout)
		}
		if c.ChecksumFaultLimit != 8 {
			t.Errorf("unexpected ChecksumFaultLimit default: %d", c.ChecksumFaultLimit)
		}
		if c.MaxBytesPerPoll != 256 {
			t.Errorf("unexpected MaxBytesPerPoll default: %d", c.MaxBytesPerPoll)
		}
		if c.Logger == nil {
			t.Error("expected a default logger")
		}
		if c.Now == nil {
			t.Error("expected a default clock")
		}
	})

	t.Run("Explicit values are preserved", func(t *testing.T) {
		c := Config{
			Dialer:     NewTestTransport(),
			AckTimeout: 5 * time.Second,
		}
		c.setDefaults()

		if c.AckTimeout != 5*time.Second {
			t.Errorf("setDefaults overwrote AckTimeout: %v", c.AckTimeout)
		}
	})
}
