// Package netcdf reads dataset metadata from the archive's NetCDF holdings,
// either remotely through OPeNDAP and kerchunk reference indexes or from
// local files.
package netcdf

import (
	"context"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/noaa-psl/cefidata"
)

// Ensure Service implements cefidata.DatasetService at compile time.
var _ cefidata.DatasetService = (*Service)(nil)

// Service reads dataset metadata from the first provided source, trying the
// OPeNDAP URL, then the S3 kerchunk index, then the GCS kerchunk index.
type Service struct {
	fetcher cefidata.Fetcher
}

// NewService creates a Service that retrieves remote documents with fetcher.
func NewService(fetcher cefidata.Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Metadata returns the global attributes of the dataset described by source,
// in the order the source document declares them.
func (s *Service) Metadata(ctx context.Context, source cefidata.DatasetSource) (cefidata.Metadata, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}

	switch {
	case source.OPeNDAPURL != "":
		if isLocal(source.OPeNDAPURL) {
			return localMetadata(source.OPeNDAPURL)
		}
		return s.opendapMetadata(ctx, source.OPeNDAPURL)
	case source.S3KerchunkIndex != "":
		return s.kerchunkMetadata(ctx, source.S3KerchunkIndex)
	default:
		return s.kerchunkMetadata(ctx, source.GCSKerchunkIndex)
	}
}

// isLocal reports whether the OPeNDAP field names a local file rather than
// a remote endpoint.
func isLocal(path string) bool {
	return !strings.Contains(path, "://")
}

// localMetadata opens a NetCDF file on disk and reads its root group
// attributes.
func localMetadata(path string) (cefidata.Metadata, error) {
	group, err := netcdf.Open(path)
	if err != nil {
		return nil, cefidata.Errorf(cefidata.EUNAVAILABLE, "failed to open NetCDF file %s: %v", path, err)
	}
	defer group.Close()

	attrs := group.Attributes()
	keys := attrs.Keys()
	metadata := make(cefidata.Metadata, 0, len(keys))
	for _, key := range keys {
		value, _ := attrs.Get(key)
		metadata = append(metadata, cefidata.Attribute{Name: key, Value: value})
	}

	return metadata, nil
}
