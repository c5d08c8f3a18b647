package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/noaa-psl/cefidata"
)

// GetFileMetadata reads the global attributes of a dataset and renders
// them as a JSON document.
func GetFileMetadata(datasets cefidata.DatasetService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("get_file_metadata",
		mcp.WithDescription("Get the metadata of the dataset from the OPeNDAP URL or cloud storage. "+
			"Sources are considered in the order opendap_url, s3_object_link_kerchunk_index, "+
			"gcs_object_link_kerchunk_index; the first one provided is used. At least one "+
			"source must be provided."),
		mcp.WithString("opendap_url",
			mcp.Description("The OPeNDAP URL to the dataset.")),
		mcp.WithString("s3_object_link_kerchunk_index",
			mcp.Description("The S3 object link to the kerchunk index file.")),
		mcp.WithString("gcs_object_link_kerchunk_index",
			mcp.Description("The GCS object link to the kerchunk index file.")),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		src := cefidata.DatasetSource{
			OPeNDAPURL:       req.GetString("opendap_url", ""),
			S3KerchunkIndex:  req.GetString("s3_object_link_kerchunk_index", ""),
			GCSKerchunkIndex: req.GetString("gcs_object_link_kerchunk_index", ""),
		}

		metadata, err := datasets.Metadata(ctx, src)
		if err != nil {
			return mcp.NewToolResultError(cefidata.ErrorMessage(err)), nil
		}

		doc, err := json.MarshalIndent(metadata, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(cefidata.ErrorMessage(err)), nil
		}
		return mcp.NewToolResultText(string(doc)), nil
	}

	return tool, handler
}
