package transport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Geekthedev/korra/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	frame := NewFrame(MessageJobSubmit, []byte("payload-bytes"))

	var buf bytes.Buffer
	assert.NoError(t, frame.Encode(&buf))

	decoded, err := ReadFrame(&buf)
	assert.NoError(t, err)
	assert.Equal(t, Magic, decoded.Header.Magic)
	assert.Equal(t, ProtocolVersion, decoded.Header.Version)
	assert.Equal(t, MessageJobSubmit, decoded.Header.MessageType)
	assert.Equal(t, []byte("payload-bytes"), decoded.Payload)
}

func TestReadFrameRejectsBadMagic(t *testing.T) {
	buf := make([]byte, HeaderSize)
	buf[0] = 0xDE
	buf[4] = ProtocolVersion

	_, err := ReadFrame(bytes.NewReader(buf))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReadFrameRejectsBadVersion(t *testing.T) {
	frame := NewFrame(MessageHeartbeat, nil)
	var buf bytes.Buffer
	frame.Encode(&buf)

	raw := buf.Bytes()
	raw[4] = 99 // corrupt the version byte

	_, err := ReadFrame(bytes.NewReader(raw))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEmptyPayloadRoundTrips(t *testing.T) {
	frame := NewFrame(MessageHeartbeat, nil)
	var buf bytes.Buffer
	assert.NoError(t, frame.Encode(&buf))

	decoded, err := ReadFrame(&buf)
	assert.NoError(t, err)
	assert.Empty(t, decoded.Payload)
}
