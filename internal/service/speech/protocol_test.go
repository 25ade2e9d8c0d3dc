package speech

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestFullClientRequestRoundTrip(t *testing.T) {
	payload := []byte(`{"req_params":{"text":"こんにちは"}}`)
	frame := NewFullClientRequest(payload, NoCompression)

	encoded, err := frame.Encode()
	if err != nil {
		t.Fatalf("Encode err: %v", err)
	}

	decoded, err := DecodeFrame(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("DecodeFrame err: %v", err)
	}

	if decoded.Header.MessageType != FullClientRequest {
		t.Fatalf("unexpected message type: %d", decoded.Header.MessageType)
	}
	if decoded.Header.SerializationMethod != JSONSerialization {
		t.Fatalf("unexpected serialization: %d", decoded.Header.SerializationMethod)
	}
	if !bytes.Equal(decoded.Payload, payload) {
		t.Fatalf("payload mismatch: got %q", decoded.Payload)
	}
}

func TestDecodeErrorFrame(t *testing.T) {
	payload := []byte(`{"error":"quota exceeded"}`)

	buf := bytes.NewBuffer(nil)
	buf.Write(Header{
		ProtocolVersion:   protocolVersion,
		HeaderSize:        0b0001,
		MessageType:       ErrorMessage,
		CompressionMethod: NoCompression,
	}.encode())
	binary.Write(buf, binary.BigEndian, uint32(45000000))
	binary.Write(buf, binary.BigEndian, uint32(len(payload)))
	buf.Write(payload)

	frame, err := DecodeFrame(buf)
	if err != nil {
		t.Fatalf("DecodeFrame err: %v", err)
	}
	if frame.Header.MessageType != ErrorMessage {
		t.Fatalf("unexpected message type: %d", frame.Header.MessageType)
	}
	if frame.ErrorCode != 45000000 {
		t.Fatalf("unexpected error code: %d", frame.ErrorCode)
	}
	if !bytes.Equal(frame.Payload, payload) {
		t.Fatalf("payload mismatch: got %q", frame.Payload)
	}
}

func TestDecodeAudioFrameWithLastPacketFlag(t *testing.T) {
	audio := []byte{0x01, 0x02, 0x03}

	buf := bytes.NewBuffer(nil)
	buf.Write(Header{
		ProtocolVersion:   protocolVersion,
		HeaderSize:        0b0001,
		MessageType:       AudioOnlyServerResponse,
		MessageFlags:      LastPacketNoSequence,
		CompressionMethod: NoCompression,
	}.encode())
	binary.Write(buf, binary.BigEndian, uint32(len(audio)))
	buf.Write(audio)

	frame, err := DecodeFrame(buf)
	if err != nil {
		t.Fatalf("DecodeFrame err: %v", err)
	}
	if !frame.IsLastPacket() {
		t.Fatal("expected last-packet flag")
	}
	if !bytes.Equal(frame.Payload, audio) {
		t.Fatalf("audio mismatch: got %v", frame.Payload)
	}
}

func TestDecodeRejectsWrongProtocolVersion(t *testing.T) {
	data := []byte{0x21, 0x11, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00}
	if _, err := DecodeFrame(bytes.NewReader(data)); err == nil {
		t.Fatal("expected error for protocol version 2")
	}
}

func TestGzipPayloadRoundTrip(t *testing.T) {
	original := []byte("audio chunk payload")

	compressed, err := CompressPayload(original, GzipCompression)
	if err != nil {
		t.Fatalf("CompressPayload err: %v", err)
	}

	restored, err := DecompressPayload(compressed, GzipCompression)
	if err != nil {
		t.Fatalf("DecompressPayload err: %v", err)
	}
	if !bytes.Equal(restored, original) {
		t.Fatalf("roundtrip mismatch: got %q", restored)
	}
}

func TestDecompressUnknownMethod(t *testing.T) {
	if _, err := DecompressPayload([]byte("x"), CompressionMethod(0b1111)); err == nil {
		t.Fatal("expected error for unsupported compression method")
	}
}
