package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/noaa-psl/cefidata"
)

// GetLevelOptions lists the options at one level of the data tree. The
// deepest supplied selector decides the level: with no arguments the tool
// lists regions, with a region it lists subdomains, and so on down to the
// variable names beneath a variable category.
func GetLevelOptions(nav *cefidata.Navigator) (mcp.Tool, server.ToolHandlerFunc) {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Show the options available at one level of the CEFI data tree. " +
			"Levels are ordered region, subdomain, experiment_type, output_frequency, " +
			"grid_type, release_date, variable_category; every level above the deepest " +
			"one supplied must be supplied as well. With no arguments the available " +
			"regions are listed."),
	}
	for _, p := range levelParams {
		opts = append(opts, mcp.WithString(p.name, mcp.Description(p.desc)))
	}
	tool := mcp.NewTool("get_level_options", opts...)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sel := cefidata.Selection{
			Region:           stringArg(req, "region"),
			Subdomain:        stringArg(req, "subdomain"),
			ExperimentType:   stringArg(req, "experiment_type"),
			OutputFrequency:  stringArg(req, "output_frequency"),
			GridType:         stringArg(req, "grid_type"),
			ReleaseDate:      stringArg(req, "release_date"),
			VariableCategory: stringArg(req, "variable_category"),
		}
		return optionsResult(ctx, nav, sel)
	}

	return tool, handler
}

// GetLevelName lists the level category names from top to bottom.
func GetLevelName(nav *cefidata.Navigator) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("get_level_name",
		mcp.WithDescription("Show the level category names of the CEFI data tree from top to "+
			"bottom, in the order the get_level_options arguments follow."),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := nav.LevelNames(ctx)
		if err != nil {
			return mcp.NewToolResultText(cefidata.ErrorMessage(err)), nil
		}
		return mcp.NewToolResultText("All the level category name from top to bottom\n" + strings.Join(names, "\n")), nil
	}

	return tool, handler
}

// stringArg returns the named argument when it was supplied as a string.
// An absent selector stops the descent at its level, so absence and empty
// string are distinct: an empty query is still matched against the level's
// options.
func stringArg(req mcp.CallToolRequest, name string) *string {
	if raw, ok := req.GetArguments()[name]; ok {
		if s, ok := raw.(string); ok {
			return &s
		}
	}
	return nil
}

// optionsResult renders a navigator walk as a tool result, mapping
// lookup misses and an unavailable tree to their sentinel messages.
func optionsResult(ctx context.Context, nav *cefidata.Navigator, sel cefidata.Selection) (*mcp.CallToolResult, error) {
	options, err := nav.Options(ctx, sel)
	if err != nil {
		return mcp.NewToolResultText(cefidata.ErrorMessage(err)), nil
	}
	return mcp.NewToolResultText(strings.Join(options, "\n")), nil
}
