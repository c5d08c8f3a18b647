package netcdf

import (
	"context"
	"encoding/json"

	"github.com/noaa-psl/cefidata"
)

// kerchunkMetadata fetches a kerchunk reference index and extracts the root
// zarr attributes inlined in it.
func (s *Service) kerchunkMetadata(ctx context.Context, url string) (cefidata.Metadata, error) {
	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, cefidata.Errorf(cefidata.EUNAVAILABLE, "failed to access kerchunk index %s: %v", url, err)
	}
	return parseKerchunk(data)
}

// parseKerchunk reads the ".zattrs" reference from a kerchunk index. Both
// the bare version 0 mapping and the enveloped version 1 format are
// accepted. An index without a ".zattrs" entry yields empty metadata.
func parseKerchunk(data []byte) (cefidata.Metadata, error) {
	var index struct {
		Version int                        `json:"version"`
		Refs    map[string]json.RawMessage `json:"refs"`
	}
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, cefidata.Errorf(cefidata.EINVALID, "invalid kerchunk index: %v", err)
	}

	refs := index.Refs
	if refs == nil {
		if err := json.Unmarshal(data, &refs); err != nil {
			return nil, cefidata.Errorf(cefidata.EINVALID, "invalid kerchunk index: %v", err)
		}
	}

	raw, ok := refs[".zattrs"]
	if !ok {
		return cefidata.Metadata{}, nil
	}

	var doc string
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, cefidata.Errorf(cefidata.EINVALID, "invalid kerchunk .zattrs entry: %v", err)
	}

	var metadata cefidata.Metadata
	if err := metadata.UnmarshalJSON([]byte(doc)); err != nil {
		return nil, err
	}

	return metadata, nil
}
