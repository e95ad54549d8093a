package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rocketscienceinc/gridrunner-client/internal/apperror"
)

const (
	headerSize = 8
	bodyAlign  = 8
)

// Frame is one complete header+body unit on the wire.
//
// Header layout (8 bytes, little-endian): main_type u16 | sub_type u16 |
// body_len u32. The body is the UTF-8 JSON payload padded with zero bytes
// to the next multiple of 8.
type Frame struct {
	MainType uint16
	SubType  uint16
	Payload  json.RawMessage
}

// Encode - serializes the payload as compact JSON and frames it with the
// 8-byte header and zero padding.
func Encode(mainType, subType uint16, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	bodyLen := len(body)

	buf := make([]byte, headerSize+paddedLength(bodyLen))
	binary.LittleEndian.PutUint16(buf[0:2], mainType)
	binary.LittleEndian.PutUint16(buf[2:4], subType)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(bodyLen))
	copy(buf[headerSize:], body)

	return buf, nil
}

// Decode - reads exactly one frame from the reader.
//
// An EOF before the first header byte is a clean close and maps to
// apperror.ErrTransportClosed; any other short read is a transport failure.
// A body that is not valid JSON does not fail the decode: it degrades to a
// {"raw": <lossy text>} payload so one malformed frame never kills the
// session.
func Decode(reader io.Reader) (*Frame, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperror.ErrTransportClosed
		}
		return nil, fmt.Errorf("failed to read frame header: %w", err)
	}

	mainType := binary.LittleEndian.Uint16(header[0:2])
	subType := binary.LittleEndian.Uint16(header[2:4])
	bodyLen := binary.LittleEndian.Uint32(header[4:8])

	padded := make([]byte, paddedLength(int(bodyLen)))
	if _, err := io.ReadFull(reader, padded); err != nil {
		return nil, fmt.Errorf("failed to read frame body: %w", err)
	}

	// Exact body_len cut: a payload may legitimately end in a NUL byte, so
	// trimming trailing zeros is not an option.
	body := padded[:bodyLen]

	return &Frame{
		MainType: mainType,
		SubType:  subType,
		Payload:  normalizePayload(body),
	}, nil
}

// normalizePayload - keeps valid JSON bodies as-is and wraps anything else
// into a RawPayload with invalid UTF-8 replaced.
func normalizePayload(body []byte) json.RawMessage {
	if len(body) == 0 {
		return json.RawMessage(`{}`)
	}

	if json.Valid(body) {
		return json.RawMessage(append([]byte(nil), body...))
	}

	text := strings.ToValidUTF8(string(body), "�")

	fallback, err := json.Marshal(RawPayload{Raw: text})
	if err != nil {
		return json.RawMessage(`{}`)
	}

	return fallback
}

func paddedLength(bodyLen int) int {
	return (bodyLen + bodyAlign - 1) / bodyAlign * bodyAlign
}
