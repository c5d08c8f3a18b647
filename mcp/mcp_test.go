package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/noaa-psl/cefidata"
	"github.com/noaa-psl/cefidata/mock"
	"github.com/stretchr/testify/require"
)

// treeDocument is a two-region slice of the portal's option tree, already
// unwrapped from the Projects/CEFI envelope.
const treeDocument = `{
	"northwest_atlantic": {
		"full_domain": {
			"hindcast": {
				"monthly": {
					"raw": {
						"r20230520": {
							"ocean_monthly": {
								"Sea Surface Temperature": {
									"tos": {
										"tos.nwa.full.hcast.monthly.raw.r20230520.199301-201912.nc": {
											"units": "degC"
										}
									}
								},
								"Sea Surface Salinity": {
									"sos": {
										"sos.nwa.full.hcast.monthly.raw.r20230520.199301-201912.nc": {
											"units": "psu"
										}
									}
								}
							}
						}
					}
				},
				"daily": {}
			},
			"seasonal_forecast": {}
		}
	},
	"northeast_pacific": {
		"full_domain": {}
	}
}`

// testNavigator returns a navigator over the fixture tree.
func testNavigator(t *testing.T) *cefidata.Navigator {
	t.Helper()
	root := &cefidata.Node{}
	require.NoError(t, json.Unmarshal([]byte(treeDocument), root))
	trees := &mock.TreeService{
		LoadFn: func(ctx context.Context) (*cefidata.Tree, error) {
			return cefidata.NewTree(root), nil
		},
	}
	return cefidata.NewNavigator(trees)
}

// unavailableNavigator returns a navigator whose tree never loads.
func unavailableNavigator(t *testing.T) *cefidata.Navigator {
	t.Helper()
	trees := &mock.TreeService{
		LoadFn: func(ctx context.Context) (*cefidata.Tree, error) {
			return nil, cefidata.Errorf(cefidata.EINTERNAL, "boom")
		},
	}
	return cefidata.NewNavigator(cefidata.NewTreeCache(trees))
}

// callRequest builds a tool call request with the given arguments.
func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// resultText extracts the single text content of a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is not text")
	return content.Text
}
