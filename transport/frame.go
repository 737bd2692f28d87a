// Package transport implements the coordinator's binary wire protocol: a
// fixed 12-byte little-endian header followed by a variable-length payload,
// matching the original C reference implementation's frame layout bit-for-bit.
package transport

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Geekthedev/korra/domain"
)

// Magic identifies a korra wire frame. Its hex digits spell "KRRA"; written
// little-endian, the bytes on the wire are "ARRK".
const Magic uint32 = 0x4B525241

// ProtocolVersion is the only wire version this implementation understands.
const ProtocolVersion uint8 = 1

// HeaderSize is the fixed size, in bytes, of a frame header.
const HeaderSize = 12

// MessageType identifies the kind of payload a frame carries.
type MessageType uint8

const (
	MessageHeartbeat     MessageType = 0
	MessageAgentRegister MessageType = 1
	MessageAgentUpdate   MessageType = 2
	MessageJobSubmit     MessageType = 3
	MessageJobResult     MessageType = 4
	MessageStateSync     MessageType = 5
	MessageNodeInfo      MessageType = 6
	MessageError         MessageType = 255
)

// Header is the fixed-size preamble of every frame.
type Header struct {
	Magic       uint32
	Version     uint8
	MessageType MessageType
	Reserved    uint16
	PayloadSize uint32
}

// Frame is a fully decoded wire message.
type Frame struct {
	Header  Header
	Payload []byte
}

// Encode writes header fields and payload in the wire's little-endian byte
// order.
func (f Frame) Encode(w io.Writer) error {
	buf := make([]byte, HeaderSize+len(f.Payload))
	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	buf[4] = ProtocolVersion
	buf[5] = byte(f.Header.MessageType)
	binary.LittleEndian.PutUint16(buf[6:8], f.Header.Reserved)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(f.Payload)))
	copy(buf[HeaderSize:], f.Payload)
	_, err := w.Write(buf)
	return err
}

// NewFrame builds a frame with the header fields derived from msgType and
// payload.
func NewFrame(msgType MessageType, payload []byte) Frame {
	return Frame{
		Header: Header{
			Magic:       Magic,
			Version:     ProtocolVersion,
			MessageType: msgType,
			PayloadSize: uint32(len(payload)),
		},
		Payload: payload,
	}
}

// ReadFrame reads one frame from r. It returns domain.ErrInvalidInput if the
// header's magic or version does not match, dropping the frame as specified.
func ReadFrame(r io.Reader) (Frame, error) {
	hdr := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return Frame{}, fmt.Errorf("read frame header: %w", err)
	}

	magic := binary.LittleEndian.Uint32(hdr[0:4])
	version := hdr[4]
	msgType := MessageType(hdr[5])
	reserved := binary.LittleEndian.Uint16(hdr[6:8])
	payloadSize := binary.LittleEndian.Uint32(hdr[8:12])

	if magic != Magic {
		return Frame{}, fmt.Errorf("%w: bad magic %#x", domain.ErrInvalidInput, magic)
	}
	if version != ProtocolVersion {
		return Frame{}, fmt.Errorf("%w: unsupported version %d", domain.ErrInvalidInput, version)
	}

	payload := make([]byte, payloadSize)
	if payloadSize > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, fmt.Errorf("read frame payload: %w", err)
		}
	}

	return Frame{
		Header: Header{
			Magic:       magic,
			Version:     version,
			MessageType: msgType,
			Reserved:    reserved,
			PayloadSize: payloadSize,
		},
		Payload: payload,
	}, nil
}
