package frame

import (
	"encoding/binary"
	"errors"
)

var (
	// ErrIncomplete reports that the buffer does not yet hold a full frame.
	// Not a fault: the caller should supply more bytes and retry.
	ErrIncomplete = errors.New("incomplete frame")

	// ErrBadHeader reports that the buffer does not begin with the start
	// marker. The stream is misaligned and must be resynchronized.
	ErrBadHeader = errors.New("bad start marker")

	// ErrLengthOutOfRange reports a frame length field that no valid frame
	// can carry. Treated like a bad header for resynchronization.
	ErrLengthOutOfRange = errors.New("frame length out of range")

	// ErrChecksum reports a check word mismatch. The candidate frame is
	// corrupt or the assumed frame boundary was wrong.
	ErrChecksum = errors.New("checksum mismatch")

	// ErrUnknownFrame reports a frame whose length discriminant matches no
	// known frame kind. May indicate a protocol or firmware mismatch.
	ErrUnknownFrame = errors.New("unknown frame type")
)

// Validate inspects the start marker and length field of buf and returns
// the total size in bytes of the frame it announces. It returns
// ErrIncomplete while buf is shorter than needed to decide, ErrBadHeader
// if buf does not open with the start marker, and ErrLengthOutOfRange if
// the announced length cannot belong to a valid frame.
func Validate(buf []byte) (int, error) {
	if len(buf) >= 1 && buf[0] != StartByte1 {
		return 0, ErrBadHeader
	}
	if len(buf) >= 2 && buf[1] != StartByte2 {
		return 0, ErrBadHeader
	}
	if len(buf) < HeaderSize {
		return 0, ErrIncomplete
	}

	dataLen := int(binary.BigEndian.Uint16(buf[2:4]))
	total := HeaderSize + dataLen
	if dataLen < ChecksumSize+1 || total > MaxFrameSize {
		return 0, ErrLengthOutOfRange
	}
	if len(buf) < total {
		return total, ErrIncomplete
	}
	return total, nil
}

// VerifyChecksum recomputes the modular sum over all bytes of buf except
// the trailing check word and compares it against that word. buf must be a
// complete frame as reported by Validate.
func VerifyChecksum(buf []byte) error {
	if len(buf) < HeaderSize+ChecksumSize {
		return ErrIncomplete
	}
	want := binary.BigEndian.Uint16(buf[len(buf)-ChecksumSize:])
	if checksum(buf[:len(buf)-ChecksumSize]) != want {
		return ErrChecksum
	}
	return nil
}

// checksum is the protocol's integrity sum: the low 16 bits of the byte
// sum of b.
func checksum(b []byte) uint16 {
	var sum uint16
	for _, c := range b {
		sum += uint16(c)
	}
	return sum
}

// Decode interprets a checksum-verified frame by its length discriminant:
// a 28-byte data section is a Measurement, a 4-byte one an Ack. Any other
// length is ErrUnknownFrame.
func Decode(buf []byte) (Frame, error) {
	total, err := Validate(buf)
	if err != nil {
		return nil, err
	}

	switch total - HeaderSize {
	case MeasurementDataLen:
		return decodeMeasurement(buf), nil
	case AckDataLen:
		return Ack{Opcode: Opcode(buf[4]), Data: buf[5]}, nil
	default:
		return nil, ErrUnknownFrame
	}
}

func decodeMeasurement(buf []byte) Measurement {
	word := func(i int) uint16 {
		return binary.BigEndian.Uint16(buf[i : i+2])
	}
	return Measurement{
		PM1_0:      word(4),
		PM2_5:      word(6),
		PM10:       word(8),
		PM1_0Atmos: word(10),
		PM2_5Atmos: word(12),
		PM10Atmos:  word(14),
		Count0_3:   word(16),
		Count0_5:   word(18),
		Count1_0:   word(20),
		Count2_5:   word(22),
		Count5_0:   word(24),
		Count10:    word(26),
	}
}

// EncodeCommand builds the 7-byte outbound frame for a command: start
// marker, opcode, big-endian data word, big-endian check word over the
// first five bytes.
func EncodeCommand(op Opcode, data uint16) [CommandSize]byte {
	var cmd [CommandSize]byte
	cmd[0] = StartByte1
	cmd[1] = StartByte2
	cmd[2] = byte(op)
	binary.BigEndian.PutUint16(cmd[3:5], data)
	binary.BigEndian.PutUint16(cmd[5:7], checksum(cmd[:5]))
	return cmd
}
