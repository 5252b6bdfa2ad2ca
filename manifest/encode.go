package manifest

import (
	"encoding/json"
	"fmt"
)

// Encode serializes the manifest as canonical JSON. Marshaling only fails for
// unencodable schema values, which is a programming error in the plugin.
func Encode(m *Metadata) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return data, nil
}

// EncodeInto writes the encoded manifest into dst, silently truncating when
// dst is too small, and returns the TRUE encoded length. A caller seeing a
// return value larger than len(dst) knows to retry with a bigger buffer.
func EncodeInto(m *Metadata, dst []byte) (int, error) {
	data, err := Encode(m)
	if err != nil {
		return 0, err
	}
	copy(dst, data)
	return len(data), nil
}
