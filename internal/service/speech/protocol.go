package speech

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Binary framing for the volcengine speech WebSocket API. Each frame is a
// 4-byte header, optional sequence/event metadata, a payload size, and the
// payload itself. Only the pieces the TTS path needs are implemented.

const protocolVersion = 0b0001

// MessageType identifies the frame kind.
type MessageType uint8

const (
	FullClientRequest       MessageType = 0b0001
	FullServerResponse      MessageType = 0b1001
	AudioOnlyServerResponse MessageType = 0b1011
	ErrorMessage            MessageType = 0b1111
)

// MessageFlags modify how the bytes after the header are interpreted.
type MessageFlags uint8

const (
	NoSequenceNumber       MessageFlags = 0b0000
	PositiveSequenceNumber MessageFlags = 0b0001
	LastPacketNoSequence   MessageFlags = 0b0010
	NegativeSequenceNumber MessageFlags = 0b0011
	WithEvent              MessageFlags = 0b0100
)

// EventType is server-side lifecycle metadata carried when WithEvent is set.
type EventType int32

const (
	EventNone               EventType = 0
	EventConnectionStarted  EventType = 50
	EventConnectionFailed   EventType = 51
	EventConnectionFinished EventType = 52
	EventSessionStarted     EventType = 150
	EventSessionFinished    EventType = 152
	EventSessionFailed      EventType = 153
)

// SerializationMethod describes the payload encoding.
type SerializationMethod uint8

const (
	NoSerialization   SerializationMethod = 0b0000
	JSONSerialization SerializationMethod = 0b0001
)

// CompressionMethod describes the payload compression.
type CompressionMethod uint8

const (
	NoCompression   CompressionMethod = 0b0000
	GzipCompression CompressionMethod = 0b0001
)

// Header is the fixed 4-byte frame header.
type Header struct {
	ProtocolVersion     uint8
	HeaderSize          uint8
	MessageType         MessageType
	MessageFlags        MessageFlags
	SerializationMethod SerializationMethod
	CompressionMethod   CompressionMethod
	Reserved            uint8
}

// Frame is a decoded protocol frame.
type Frame struct {
	Header      Header
	Sequence    int32
	EventType   EventType
	SessionID   string
	ConnectID   string
	ErrorCode   uint32
	PayloadSize uint32
	Payload     []byte
}

// newHeader builds a 4-byte header for an outgoing frame.
func newHeader(msgType MessageType, flags MessageFlags, serialization SerializationMethod, compression CompressionMethod) Header {
	return Header{
		ProtocolVersion:     protocolVersion,
		HeaderSize:          0b0001, // one 4-byte unit
		MessageType:         msgType,
		MessageFlags:        flags,
		SerializationMethod: serialization,
		CompressionMethod:   compression,
	}
}

func (h Header) encode() []byte {
	return []byte{
		(h.ProtocolVersion << 4) | h.HeaderSize,
		(uint8(h.MessageType) << 4) | uint8(h.MessageFlags),
		(uint8(h.SerializationMethod) << 4) | uint8(h.CompressionMethod),
		h.Reserved,
	}
}

func decodeHeader(data []byte) (Header, error) {
	if len(data) < 4 {
		return Header{}, fmt.Errorf("header too short: got %d bytes, need 4", len(data))
	}

	h := Header{
		ProtocolVersion:     (data[0] >> 4) & 0x0F,
		HeaderSize:          data[0] & 0x0F,
		MessageType:         MessageType((data[1] >> 4) & 0x0F),
		MessageFlags:        MessageFlags(data[1] & 0x0F),
		SerializationMethod: SerializationMethod((data[2] >> 4) & 0x0F),
		CompressionMethod:   CompressionMethod(data[2] & 0x0F),
		Reserved:            data[3],
	}

	if h.ProtocolVersion != protocolVersion {
		return Header{}, fmt.Errorf("unsupported protocol version: %d", h.ProtocolVersion)
	}

	return h, nil
}

// NewFullClientRequest wraps a serialized request payload in a frame.
func NewFullClientRequest(payload []byte, compression CompressionMethod) *Frame {
	return &Frame{
		Header:      newHeader(FullClientRequest, NoSequenceNumber, JSONSerialization, compression),
		PayloadSize: uint32(len(payload)),
		Payload:     payload,
	}
}

// Encode serializes the frame for the wire.
func (f *Frame) Encode() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	buf.Write(f.Header.encode())

	switch f.Header.MessageFlags & 0b0011 {
	case PositiveSequenceNumber, NegativeSequenceNumber:
		if err := binary.Write(buf, binary.BigEndian, uint32(f.Sequence)); err != nil {
			return nil, err
		}
	}

	if err := binary.Write(buf, binary.BigEndian, f.PayloadSize); err != nil {
		return nil, err
	}
	buf.Write(f.Payload)

	return buf.Bytes(), nil
}

// DecodeFrame reads one frame from the reader.
func DecodeFrame(reader io.Reader) (*Frame, error) {
	headerBytes := make([]byte, 4)
	if _, err := io.ReadFull(reader, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	header, err := decodeHeader(headerBytes)
	if err != nil {
		return nil, err
	}

	frame := &Frame{Header: header}

	// Skip optional extended header units.
	if extra := int(header.HeaderSize)*4 - 4; extra > 0 {
		if _, err := io.CopyN(io.Discard, reader, int64(extra)); err != nil {
			return nil, fmt.Errorf("failed to read extended header: %w", err)
		}
	}

	switch header.MessageFlags & 0b0011 {
	case PositiveSequenceNumber, NegativeSequenceNumber:
		var seq uint32
		if err := binary.Read(reader, binary.BigEndian, &seq); err != nil {
			return nil, fmt.Errorf("failed to read sequence: %w", err)
		}
		frame.Sequence = int32(seq)
	}

	if header.MessageFlags&WithEvent == WithEvent {
		if err := frame.readEventMeta(reader); err != nil {
			return nil, err
		}
	}

	if header.MessageType == ErrorMessage {
		if err := binary.Read(reader, binary.BigEndian, &frame.ErrorCode); err != nil {
			return nil, fmt.Errorf("failed to read error code: %w", err)
		}
	}

	if err := binary.Read(reader, binary.BigEndian, &frame.PayloadSize); err != nil {
		return nil, fmt.Errorf("failed to read payload size: %w", err)
	}

	if frame.PayloadSize > 0 {
		frame.Payload = make([]byte, frame.PayloadSize)
		if _, err := io.ReadFull(reader, frame.Payload); err != nil {
			return nil, fmt.Errorf("failed to read payload (%d bytes): %w", frame.PayloadSize, err)
		}
	}

	return frame, nil
}

func (f *Frame) readEventMeta(reader io.Reader) error {
	var eventRaw int32
	if err := binary.Read(reader, binary.BigEndian, &eventRaw); err != nil {
		return fmt.Errorf("failed to read event type: %w", err)
	}
	f.EventType = EventType(eventRaw)

	if !eventSkipsSessionID(f.EventType) {
		session, err := readSizedString(reader)
		if err != nil {
			return fmt.Errorf("failed to read session id: %w", err)
		}
		f.SessionID = session
	}

	if eventHasConnectID(f.EventType) {
		connect, err := readSizedString(reader)
		if err != nil {
			return fmt.Errorf("failed to read connect id: %w", err)
		}
		f.ConnectID = connect
	}

	return nil
}

func readSizedString(reader io.Reader) (string, error) {
	var size uint32
	if err := binary.Read(reader, binary.BigEndian, &size); err != nil {
		return "", err
	}
	if size == 0 {
		return "", nil
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(reader, data); err != nil {
		return "", err
	}
	return string(data), nil
}

func eventSkipsSessionID(event EventType) bool {
	switch event {
	case EventConnectionStarted, EventConnectionFailed, EventConnectionFinished:
		return true
	default:
		return false
	}
}

func eventHasConnectID(event EventType) bool {
	switch event {
	case EventConnectionStarted, EventConnectionFailed, EventConnectionFinished:
		return true
	default:
		return false
	}
}

// IsLastPacket reports whether the flags mark this frame as final.
func (f *Frame) IsLastPacket() bool {
	switch f.Header.MessageFlags & 0b0011 {
	case LastPacketNoSequence, NegativeSequenceNumber:
		return true
	default:
		return false
	}
}
