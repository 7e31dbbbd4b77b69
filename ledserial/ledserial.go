// Package ledserial implements the LED serial protocol spoken between the
// host and a microcontroller that drives the strip.
//
// Every packet is a single type byte, a type-specific payload and a
// little-endian CRC-32 (IEEE) of the type byte and payload.
package ledserial

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Endianness defines the endianness of the protocol.
var Endianness = binary.LittleEndian

// ErrChecksum is returned when a packet's trailing checksum does not match
// its contents.
var ErrChecksum = errors.New("packet checksum mismatch")

// MaxMessageLength is the longest message an Error or Log packet may carry.
const MaxMessageLength = 1024

// IncomingPacketType is the type of a packet sent from the host to the
// device.
type IncomingPacketType uint8

const (
	TypeInitializePacket IncomingPacketType = iota
	TypeClearPacket
	TypeSetPacket
)

// String returns a string representation of the packet type.
func (t IncomingPacketType) String() string {
	switch t {
	case TypeInitializePacket:
		return "initialize"
	case TypeClearPacket:
		return "clear"
	case TypeSetPacket:
		return "set"
	default:
		return fmt.Sprintf("IncomingPacketType(%d)", t)
	}
}

// IncomingPacket is a packet sent from the host to the device.
type IncomingPacket interface {
	// Type returns the type of packet.
	Type() IncomingPacketType
}

// InitializePacket is a packet that initializes the LED strip.
type InitializePacket struct {
	NumLEDs uint16
}

// ClearPacket is a packet that clears the LED strip.
type ClearPacket struct{}

// SetPacket is a packet that sets the LED strip to the given colors. Pix holds
// three bytes per LED, already in the strip's native channel order.
type SetPacket struct {
	Pix []uint8
}

func (p InitializePacket) Type() IncomingPacketType { return TypeInitializePacket }
func (p ClearPacket) Type() IncomingPacketType      { return TypeClearPacket }
func (p SetPacket) Type() IncomingPacketType        { return TypeSetPacket }

// OutgoingPacketType is the type of a packet sent from the device to the
// host.
type OutgoingPacketType uint8

const (
	TypeErrorPacket OutgoingPacketType = iota
	TypePanicPacket
	TypeLogPacket
	TypeAckPacket
)

// String returns a string representation of the packet type.
func (t OutgoingPacketType) String() string {
	switch t {
	case TypeErrorPacket:
		return "error"
	case TypePanicPacket:
		return "panic"
	case TypeLogPacket:
		return "log"
	case TypeAckPacket:
		return "ack"
	default:
		return fmt.Sprintf("OutgoingPacketType(%d)", t)
	}
}

// OutgoingPacket is a packet sent from the device to the host.
type OutgoingPacket interface {
	// Type returns the type of packet.
	Type() OutgoingPacketType
}

// ErrorPacket is a packet that indicates an error occurred.
type ErrorPacket struct {
	Message string
}

// PanicPacket is a packet that indicates the program cannot recover.
type PanicPacket struct{}

// LogPacket is a packet that contains a log message.
type LogPacket struct {
	Message string
}

// AckPacket acknowledges that the device has handled an incoming packet.
type AckPacket struct {
	IncomingPacketType IncomingPacketType
}

func (p ErrorPacket) Type() OutgoingPacketType { return TypeErrorPacket }
func (p PanicPacket) Type() OutgoingPacketType { return TypePanicPacket }
func (p LogPacket) Type() OutgoingPacketType   { return TypeLogPacket }
func (p AckPacket) Type() OutgoingPacketType   { return TypeAckPacket }

// ReadContext is the state of the LED strip. Data in this structure are
// required for the device to read incoming packets.
type ReadContext struct {
	// NumLEDs is the number of LEDs in the strip.
	NumLEDs uint16
	// LEDBuffer, if large enough, is reused for the pixels of a SetPacket
	// instead of allocating.
	LEDBuffer []byte
}

func (c ReadContext) pixelBuffer() []byte {
	n := 3 * int(c.NumLEDs)
	if cap(c.LEDBuffer) >= n {
		return c.LEDBuffer[:n]
	}
	return make([]byte, n)
}

// checksumReader tees everything read into a running CRC-32.
type checksumReader struct {
	r    io.Reader
	hash hash.Hash32
}

func newChecksumReader(r io.Reader) *checksumReader {
	h := crc32.NewIEEE()
	return &checksumReader{r: io.TeeReader(r, h), hash: h}
}

func (r *checksumReader) Read(b []byte) (int, error) {
	return r.r.Read(b)
}

func (r *checksumReader) readType() (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// verify reads the trailing checksum straight from the underlying reader and
// compares it with the running sum.
func (r *checksumReader) verify(src io.Reader) error {
	want := r.hash.Sum32()

	var got uint32
	if err := binary.Read(src, Endianness, &got); err != nil {
		return errors.Wrap(err, "failed to read packet checksum")
	}
	if got != want {
		return ErrChecksum
	}
	return nil
}

func (r *checksumReader) readMessage() (string, error) {
	var length uint16
	if err := binary.Read(r, Endianness, &length); err != nil {
		return "", errors.Wrap(err, "failed to read message length")
	}
	if length > MaxMessageLength {
		return "", fmt.Errorf("message length %d exceeds %d", length, MaxMessageLength)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", errors.Wrap(err, "failed to read message")
	}
	return string(buf), nil
}

// checksumWriter buffers a whole packet so it can be written out in one
// call together with its checksum.
type checksumWriter struct {
	buf []byte
}

func (w *checksumWriter) writeType(t uint8) {
	w.buf = append(w.buf, t)
}

func (w *checksumWriter) writeUint16(v uint16) {
	w.buf = Endianness.AppendUint16(w.buf, v)
}

func (w *checksumWriter) writeBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *checksumWriter) writeMessage(msg string) {
	msg = truncateMessage(msg)
	w.writeUint16(uint16(len(msg)))
	w.buf = append(w.buf, msg...)
}

// truncateMessage cuts msg to at most MaxMessageLength bytes without
// splitting a UTF-8 sequence.
func truncateMessage(msg string) string {
	if len(msg) <= MaxMessageLength {
		return msg
	}
	n := MaxMessageLength
	for n > 0 && !utf8.RuneStart(msg[n]) {
		n--
	}
	return msg[:n]
}

func (w *checksumWriter) flush(dst io.Writer) error {
	w.buf = Endianness.AppendUint32(w.buf, crc32.ChecksumIEEE(w.buf))
	if _, err := dst.Write(w.buf); err != nil {
		return errors.Wrap(err, "failed to write packet")
	}
	return nil
}

// ReadIncomingPacket reads an incoming packet from the given reader.
func ReadIncomingPacket(r io.Reader, context ReadContext) (IncomingPacket, error) {
	cr := newChecksumReader(r)

	ptype, err := cr.readType()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read incoming packet type")
	}

	var packet IncomingPacket

	switch ptype := IncomingPacketType(ptype); ptype {
	case TypeInitializePacket:
		var p InitializePacket
		if err := binary.Read(cr, Endianness, &p.NumLEDs); err != nil {
			return nil, errors.Wrap(err, "failed to read number of LEDs")
		}
		packet = p

	case TypeClearPacket:
		packet = ClearPacket{}

	case TypeSetPacket:
		p := SetPacket{Pix: context.pixelBuffer()}
		if _, err := io.ReadFull(cr, p.Pix); err != nil {
			return nil, errors.Wrap(err, "failed to read pixel data")
		}
		packet = p

	default:
		return nil, fmt.Errorf("unknown packet type: %s", ptype)
	}

	if err := cr.verify(r); err != nil {
		return nil, err
	}

	return packet, nil
}

// WriteIncomingPacket writes an incoming packet to the given writer.
func WriteIncomingPacket(w io.Writer, p IncomingPacket) error {
	var cw checksumWriter

	switch p := p.(type) {
	case InitializePacket:
		cw.writeType(uint8(TypeInitializePacket))
		cw.writeUint16(p.NumLEDs)
	case ClearPacket:
		cw.writeType(uint8(TypeClearPacket))
	case SetPacket:
		cw.writeType(uint8(TypeSetPacket))
		cw.writeBytes(p.Pix)
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	return cw.flush(w)
}

// ReadOutgoingPacket reads an outgoing packet from the given reader.
func ReadOutgoingPacket(r io.Reader) (OutgoingPacket, error) {
	cr := newChecksumReader(r)

	ptype, err := cr.readType()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read outgoing packet type")
	}

	var packet OutgoingPacket

	switch ptype := OutgoingPacketType(ptype); ptype {
	case TypeErrorPacket:
		msg, err := cr.readMessage()
		if err != nil {
			return nil, errors.Wrap(err, "error packet")
		}
		packet = ErrorPacket{Message: msg}

	case TypePanicPacket:
		packet = PanicPacket{}

	case TypeLogPacket:
		msg, err := cr.readMessage()
		if err != nil {
			return nil, errors.Wrap(err, "log packet")
		}
		packet = LogPacket{Message: msg}

	case TypeAckPacket:
		acked, err := cr.readType()
		if err != nil {
			return nil, errors.Wrap(err, "failed to read acked packet type")
		}
		packet = AckPacket{IncomingPacketType: IncomingPacketType(acked)}

	default:
		return nil, fmt.Errorf("unknown packet type: %s", ptype)
	}

	if err := cr.verify(r); err != nil {
		return nil, err
	}

	return packet, nil
}

// WriteOutgoingPacket writes an outgoing packet to the given writer.
func WriteOutgoingPacket(w io.Writer, p OutgoingPacket) error {
	var cw checksumWriter

	switch p := p.(type) {
	case ErrorPacket:
		cw.writeType(uint8(TypeErrorPacket))
		cw.writeMessage(p.Message)
	case PanicPacket:
		cw.writeType(uint8(TypePanicPacket))
	case LogPacket:
		cw.writeType(uint8(TypeLogPacket))
		cw.writeMessage(p.Message)
	case AckPacket:
		cw.writeType(uint8(TypeAckPacket))
		cw.writeType(uint8(p.IncomingPacketType))
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	return cw.flush(w)
}
