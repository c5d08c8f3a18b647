package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/noaa-psl/cefidata"
)

// levelParams describes the selectable tree levels in order. The per-level
// query tools require the parameters for every level above the one they
// list, so tool construction slices this table by depth.
var levelParams = [cefidata.NavigableLevels]struct {
	name string
	desc string
}{
	{"region", "The region selector. Approximate and partial matches are accepted."},
	{"subdomain", "The subdomain selector. Approximate and partial matches are accepted."},
	{"experiment_type", "The experiment type selector. Approximate and partial matches are accepted."},
	{"output_frequency", "The output frequency selector. Approximate and partial matches are accepted."},
	{"grid_type", "The grid type selector. Approximate and partial matches are accepted."},
	{"release_date", "The release date selector. Approximate and partial matches are accepted."},
	{"variable_category", "The variable category selector. Approximate and partial matches are accepted."},
}

// levelOptions returns required string parameters for the first depth levels.
func levelOptions(depth int) []mcp.ToolOption {
	opts := make([]mcp.ToolOption, 0, depth)
	for _, p := range levelParams[:depth] {
		opts = append(opts, mcp.WithString(p.name, mcp.Required(), mcp.Description(p.desc)))
	}
	return opts
}

// levelTool builds a query tool requiring the first depth level parameters.
func levelTool(name, desc string, depth int) mcp.Tool {
	opts := append([]mcp.ToolOption{mcp.WithDescription(desc)}, levelOptions(depth)...)
	return mcp.NewTool(name, opts...)
}

// requireSelection reads the required arguments for the first depth levels.
func requireSelection(req mcp.CallToolRequest, depth int) (cefidata.Selection, error) {
	values := make([]string, 0, depth)
	for _, p := range levelParams[:depth] {
		value, err := req.RequireString(p.name)
		if err != nil {
			return cefidata.Selection{}, err
		}
		values = append(values, value)
	}
	return cefidata.Prefix(values...), nil
}

// levelHandler resolves the required selectors for depth levels and lists
// the options beneath them.
func levelHandler(nav *cefidata.Navigator, depth int) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sel, err := requireSelection(req, depth)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return optionsResult(ctx, nav, sel)
	}
}

// GetRegionOptions lists the available regions.
func GetRegionOptions(nav *cefidata.Navigator) (mcp.Tool, server.ToolHandlerFunc) {
	tool := levelTool("get_region_options",
		"Get the available regions in the CEFI data tree.", 0)
	return tool, levelHandler(nav, 0)
}

// GetSubdomainOptions lists the subdomains beneath a region.
func GetSubdomainOptions(nav *cefidata.Navigator) (mcp.Tool, server.ToolHandlerFunc) {
	tool := levelTool("get_subdomain_options",
		"Get the available subdomains in the CEFI data tree for a given region.", 1)
	return tool, levelHandler(nav, 1)
}

// GetExperimentOptions lists the experiment types beneath a subdomain.
func GetExperimentOptions(nav *cefidata.Navigator) (mcp.Tool, server.ToolHandlerFunc) {
	tool := levelTool("get_experiment_options",
		"Get the available experiment types in the CEFI data tree for a given region and subdomain.", 2)
	return tool, levelHandler(nav, 2)
}

// GetOutputFrequencyOptions lists the output frequencies beneath an
// experiment type.
func GetOutputFrequencyOptions(nav *cefidata.Navigator) (mcp.Tool, server.ToolHandlerFunc) {
	tool := levelTool("get_output_frequency_options",
		"Get the available output frequencies in the CEFI data tree for a given region, subdomain, and experiment type.", 3)
	return tool, levelHandler(nav, 3)
}

// GetGridTypeOptions lists the grid types beneath an output frequency.
func GetGridTypeOptions(nav *cefidata.Navigator) (mcp.Tool, server.ToolHandlerFunc) {
	tool := levelTool("get_grid_type_options",
		"Get the available grid types in the CEFI data tree for the given levels down to output frequency.", 4)
	return tool, levelHandler(nav, 4)
}

// GetReleaseDateOptions lists the release dates beneath a grid type.
func GetReleaseDateOptions(nav *cefidata.Navigator) (mcp.Tool, server.ToolHandlerFunc) {
	tool := levelTool("get_release_date_options",
		"Get the available release dates in the CEFI data tree for the given levels down to grid type.", 5)
	return tool, levelHandler(nav, 5)
}

// GetVariableCategoryOptions lists the variable categories beneath a
// release date.
func GetVariableCategoryOptions(nav *cefidata.Navigator) (mcp.Tool, server.ToolHandlerFunc) {
	tool := levelTool("get_variable_category_options",
		"Get the available variable categories in the CEFI data tree for the given levels down to release date.", 6)
	return tool, levelHandler(nav, 6)
}

// GetVariableNameOptions lists the variable long names, short names, and
// file names beneath a variable category.
func GetVariableNameOptions(nav *cefidata.Navigator) (mcp.Tool, server.ToolHandlerFunc) {
	tool := levelTool("get_variable_name_options",
		"Get the available variable names in the CEFI data tree for a full selection down to variable category. "+
			"Lists the variable full names, short names, and data file names.", cefidata.NavigableLevels)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sel, err := requireSelection(req, cefidata.NavigableLevels)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		listing, err := nav.VariableNames(ctx, sel)
		if err != nil {
			return mcp.NewToolResultText(cefidata.ErrorMessage(err)), nil
		}
		sections := []string{
			"All available variable full name\n" + strings.Join(listing.LongNames, "\n"),
			"All available variable short name\n" + strings.Join(listing.ShortNames, "\n"),
			"All available variable filename\n" + strings.Join(listing.FileNames, "\n"),
		}
		return mcp.NewToolResultText(strings.Join(sections, "\n\n")), nil
	}

	return tool, handler
}

// GetOpendapURL formats the OPeNDAP access URL for a data file. Pure string
// formatting: the selectors are joined as path segments without consulting
// the tree, so they must be the exact names the option tools list.
func GetOpendapURL() (mcp.Tool, server.ToolHandlerFunc) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Get the OPeNDAP URL for the specified CEFI data file. The arguments " +
			"must be exact option names as listed by the option tools; no approximate matching " +
			"is applied here."),
	}, levelOptions(6)...)
	opts = append(opts, mcp.WithString("variable_name_ncfile", mcp.Required(),
		mcp.Description("The data file name as listed by get_variable_name_options.")))
	tool := mcp.NewTool("get_opendap_url", opts...)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names := [7]string{
			"region", "subdomain", "experiment_type", "output_frequency",
			"grid_type", "release_date", "variable_name_ncfile",
		}
		var values [7]string
		for i, name := range names {
			value, err := req.RequireString(name)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			values[i] = value
		}
		url := cefidata.OPeNDAPURL(values[0], values[1], values[2], values[3], values[4], values[5], values[6])
		return mcp.NewToolResultText("OPeNDAP URL : " + url), nil
	}

	return tool, handler
}
