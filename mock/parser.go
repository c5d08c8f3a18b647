package mock

import "github.com/noaa-psl/cefidata"

var _ cefidata.CatalogParser = (*CatalogParser)(nil)

// CatalogParser is a mock implementation of cefidata.CatalogParser.
type CatalogParser struct {
	ParseCatalogFn func(data []byte) (*cefidata.Catalog, error)
}

func (p *CatalogParser) ParseCatalog(data []byte) (*cefidata.Catalog, error) {
	return p.ParseCatalogFn(data)
}
