package netio

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses a YAML description. Unknown fields are rejected.
func DecodeYAML(data []byte) (*NetworkDescription, error) {
	var d NetworkDescription
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&d); err != nil {
		if err == io.EOF {
			return &d, nil
		}
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	return &d, nil
}

// EncodeYAML writes d as YAML.
func EncodeYAML(w io.Writer, d *NetworkDescription) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
