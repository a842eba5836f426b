package frame

// Assembler reassembles a byte stream into decoded frames. Bytes arrive
// one at a time in whatever timing the line delivers them; the assembler
// buffers them, discards garbage until it finds a start marker, and hands
// complete candidates to the codec.
//
// An Assembler is not safe for concurrent use. The zero value is ready.
type Assembler struct {
	buf []byte

	// checksumStreak counts checksum failures since the last successful
	// decode. A long streak indicates a degraded link rather than a
	// one-off corruption.
	checksumStreak int

	// unknownFrames counts discarded frames with an unrecognized length
	// discriminant.
	unknownFrames int
}

// Feed appends one byte to the internal buffer and attempts to extract a
// frame. It returns (frame, true) when the byte completes a valid frame,
// and (nil, false) while more bytes are needed.
//
// Framing noise is absorbed here: a misplaced start marker drops the
// oldest buffered byte and rescans, a checksum or unknown-type failure
// drops the whole candidate since the assumed boundary was wrong. Either
// way the assembler stays ready to match the next valid frame.
func (a *Assembler) Feed(b byte) (Frame, bool) {
	a.buf = append(a.buf, b)

	for len(a.buf) > 0 {
		_, err := Validate(a.buf)
		switch err {
		case nil:
			// Full candidate present.
		case ErrIncomplete:
			// Validate caps announced lengths at MaxFrameSize, so an
			// incomplete candidate never fills the buffer. The clear
			// keeps that bound unconditional.
			if len(a.buf) >= MaxFrameSize {
				a.buf = a.buf[:0]
			}
			return nil, false
		default:
			// ErrBadHeader or ErrLengthOutOfRange: slide one byte and
			// rescan from the next position.
			a.buf = a.buf[1:]
			continue
		}

		if err := VerifyChecksum(a.buf); err != nil {
			a.checksumStreak++
			a.buf = a.buf[:0]
			return nil, false
		}

		f, err := Decode(a.buf)
		a.buf = a.buf[:0]
		if err != nil {
			a.unknownFrames++
			return nil, false
		}
		a.checksumStreak = 0
		return f, true
	}
	return nil, false
}

// Reset discards all buffered bytes and fault counters.
func (a *Assembler) Reset() {
	a.buf = a.buf[:0]
	a.checksumStreak = 0
	a.unknownFrames = 0
}

// ChecksumStreak reports the number of consecutive checksum failures since
// the last successfully decoded frame.
func (a *Assembler) ChecksumStreak() int { return a.checksumStreak }

// UnknownFrames reports how many frames have been discarded for carrying
// an unrecognized discriminant.
func (a *Assembler) UnknownFrames() int { return a.unknownFrames }

// Buffered reports how many bytes are currently held while waiting for a
// frame to complete. Never exceeds MaxFrameSize.
func (a *Assembler) Buffered() int { return len(a.buf) }
