package wire

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// DecodeRequest decodes UTF-8 JSON bytes into a Request.
//
// Returns ErrInvalidEncoding when the bytes are not valid UTF-8 and
// ErrMalformedRequest when the text does not parse into the Request shape.
func DecodeRequest(data []byte) (*Request, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	// An absent or empty function is left for ParseFunction to reject, so
	// that every name outside the closed variant fails the same way.
	return &req, nil
}

// EncodeRequest encodes a Request as UTF-8 JSON. Used by the host side when
// driving the boundary.
func EncodeRequest(req *Request) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return data, nil
}

// EncodeResponse encodes a Response as UTF-8 JSON. It never fails: a Response
// that cannot be marshaled (which would take a hand-corrupted RawMessage) is
// downgraded to an encodable failure Response, so the boundary always emits
// decodable bytes.
func EncodeResponse(resp *Response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		fallback := Response{
			Success: false,
			Error:   fmt.Sprintf("failed to encode response: %v", err),
		}
		data, _ = json.Marshal(&fallback)
	}
	return data
}

// DecodeResponse decodes UTF-8 JSON bytes into a Response. Used by the host
// side and by round-trip tests; the guest only encodes.
func DecodeResponse(data []byte) (*Response, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}
