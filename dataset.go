package cefidata

import (
	"bytes"
	"context"
	"encoding/json"
)

// DatasetSource identifies where a dataset can be opened from. Exactly the
// fields that are set are considered, in the fixed priority order OPeNDAP,
// S3 kerchunk index, GCS kerchunk index: the first provided source is used
// and the others are ignored, even if it later fails.
type DatasetSource struct {
	OPeNDAPURL       string
	S3KerchunkIndex  string
	GCSKerchunkIndex string
}

// Validate returns EINVALID when no source is provided. This is the one
// failure that surfaces to tool callers as a hard error rather than a
// sentinel string.
func (s DatasetSource) Validate() error {
	if s.OPeNDAPURL == "" && s.S3KerchunkIndex == "" && s.GCSKerchunkIndex == "" {
		return Errorf(EINVALID, "At least one of the parameters must be provided: "+
			"opendap_url, s3_object_link_kerchunk_index, gcs_object_link_kerchunk_index")
	}
	return nil
}

// Attribute is a single named dataset attribute.
type Attribute struct {
	Name  string
	Value any
}

// Metadata is a dataset's global attributes in their source order.
type Metadata []Attribute

// Get returns the value of the named attribute.
func (m Metadata) Get(name string) (any, bool) {
	for _, attr := range m {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the metadata as a JSON object with attributes in
// source order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(attr.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(attr.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into metadata, preserving attribute
// order. Nested values decode with encoding/json defaults.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Errorf(EINVALID, "metadata is not a JSON object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return Errorf(EINVALID, "metadata key is not a string")
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		*m = append(*m, Attribute{Name: name, Value: value})
	}
	_, err = dec.Token()
	return err
}

// DatasetService reads dataset metadata.
type DatasetService interface {
	// Metadata returns the global attributes of the dataset identified
	// by the source. Returns EINVALID when no source is provided.
	Metadata(ctx context.Context, src DatasetSource) (Metadata, error)
}
