package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/noaa-psl/cefidata"
)

// GetCatalogFiles answers from the catalog index recorded by the most
// recent THREDDS crawl: without an argument it lists the catalog pages,
// with one it lists the NetCDF access URLs of the matched page.
func GetCatalogFiles(catalogs IndexSource) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("get_catalog_files",
		mcp.WithDescription("List the THREDDS catalog pages recorded by the most recent crawl, "+
			"or, given a catalog, the OPeNDAP access URLs of the NetCDF files in that catalog. "+
			"Approximate and partial catalog matches are accepted."),
		mcp.WithString("catalog",
			mcp.Description("The catalog page URL to list files for.")),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, err := catalogs.LatestIndex(ctx)
		if err != nil || index == nil || index.Len() == 0 {
			return mcp.NewToolResultText("No THREDDS catalog index available currently."), nil
		}

		query := stringArg(req, "catalog")
		if query == nil {
			return mcp.NewToolResultText(strings.Join(index.Pages(), "\n")), nil
		}

		page, ok := cefidata.MatchOption(*query, index.Pages())
		if !ok {
			return mcp.NewToolResultText("No matching catalog found."), nil
		}
		files, _ := index.Files(page)
		return mcp.NewToolResultText(strings.Join(files, "\n")), nil
	}

	return tool, handler
}
