// Package frame implements the PMS700x wire protocol: the frame codec
// (validation, checksum verification, decoding) and a byte-at-a-time
// stream assembler that recovers frame alignment on noisy lines.
package frame

const (
	// Start marker bytes ("BM") that open every frame in either direction.
	StartByte1 = 0x42
	StartByte2 = 0x4D

	// HeaderSize is the fixed prefix of every inbound frame: the two start
	// marker bytes plus the big-endian frame length word.
	HeaderSize = 4

	// ChecksumSize is the trailing big-endian check word.
	ChecksumSize = 2

	// MaxFrameSize is the largest valid frame the protocol defines: the
	// 32-byte measurement frame. The assembler's buffer bound.
	MaxFrameSize = 32

	// MeasurementDataLen is the frame length field of a measurement frame
	// (payload plus checksum).
	MeasurementDataLen = 28

	// AckDataLen is the frame length field of a command acknowledgement.
	AckDataLen = 4

	// CommandSize is the fixed size of an outbound command frame.
	CommandSize = 7
)

// Opcode identifies an outbound command.
type Opcode uint8

const (
	// OpSetMode switches between passive (data 0) and active (data 1)
	// reporting.
	OpSetMode Opcode = 0xE1

	// OpRequestRead asks for a single measurement while in passive mode.
	OpRequestRead Opcode = 0xE2

	// OpSetSleep puts the sensor to sleep (data 0) or wakes it (data 1).
	OpSetSleep Opcode = 0xE4
)

// Mode data words for OpSetMode.
const (
	ModeDataPassive uint16 = 0
	ModeDataActive  uint16 = 1
)

// Sleep data words for OpSetSleep.
const (
	SleepDataSleep uint16 = 0
	SleepDataWake  uint16 = 1
)

// Frame is a decoded inbound frame: either a Measurement or an Ack.
type Frame interface {
	isFrame()
}

// Measurement holds one set of decoded concentration readings. All values
// are straight big-endian assembly of the wire words, no unit conversion.
type Measurement struct {
	// Concentrations in µg/m³, corrected for standard atmosphere (CF=1).
	PM1_0 uint16
	PM2_5 uint16
	PM10  uint16

	// Concentrations in µg/m³ under ambient atmospheric conditions.
	PM1_0Atmos uint16
	PM2_5Atmos uint16
	PM10Atmos  uint16

	// Particle counts per 0.1 L of air, by minimum particle diameter.
	Count0_3 uint16
	Count0_5 uint16
	Count1_0 uint16
	Count2_5 uint16
	Count5_0 uint16
	Count10  uint16
}

func (Measurement) isFrame() {}

// Ack is the sensor's acknowledgement of a command. Opcode echoes the
// command being confirmed, Data its low data byte.
type Ack struct {
	Opcode Opcode
	Data   uint8
}

func (Ack) isFrame() {}
