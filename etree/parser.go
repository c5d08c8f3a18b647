// Package etree parses THREDDS catalog XML documents.
package etree

import (
	"github.com/beevik/etree"
	"github.com/noaa-psl/cefidata"
)

// Namespaces used by THREDDS catalog documents.
const (
	threddsNS = "http://www.unidata.ucar.edu/namespaces/thredds/InvCatalog/v1.0"
	xlinkNS   = "http://www.w3.org/1999/xlink"
)

// Ensure Parser implements cefidata.CatalogParser at compile time.
var _ cefidata.CatalogParser = (*Parser)(nil)

// Parser extracts dataset and child-catalog entries from THREDDS catalog XML.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseCatalog parses one THREDDS catalog document, collecting dataset
// urlPath attributes and catalogRef xlink:href attributes in document order.
func (p *Parser) ParseCatalog(data []byte) (*cefidata.Catalog, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, cefidata.Errorf(cefidata.EINVALID, "failed to parse catalog XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, cefidata.Errorf(cefidata.EINVALID, "empty catalog XML")
	}

	catalog := &cefidata.Catalog{}
	p.walk(root, catalog)

	return catalog, nil
}

// walk visits el and its descendants in document order, collecting THREDDS
// dataset and catalogRef entries.
func (p *Parser) walk(el *etree.Element, catalog *cefidata.Catalog) {
	if el.NamespaceURI() == threddsNS {
		switch el.Tag {
		case "dataset":
			if urlPath := el.SelectAttrValue("urlPath", ""); urlPath != "" {
				catalog.Datasets = append(catalog.Datasets, urlPath)
			}
		case "catalogRef":
			if href := xlinkHref(el); href != "" {
				catalog.Refs = append(catalog.Refs, href)
			}
		}
	}

	for _, child := range el.ChildElements() {
		p.walk(child, catalog)
	}
}

// xlinkHref returns the xlink:href attribute of el, matching the attribute
// by namespace URI rather than prefix.
func xlinkHref(el *etree.Element) string {
	for _, attr := range el.Attr {
		if attr.Key == "href" && attr.NamespaceURI() == xlinkNS {
			return attr.Value
		}
	}
	return ""
}
