package mcp_test

import (
	"context"
	"strings"
	"testing"

	cefimcp "github.com/noaa-psl/cefidata/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevelOptions(t *testing.T) {
	t.Parallel()

	t.Run("lists regions with no arguments", func(t *testing.T) {
		t.Parallel()

		tool, handler := cefimcp.GetLevelOptions(testNavigator(t))
		assert.Equal(t, "get_level_options", tool.Name)

		result, err := handler(context.Background(), callRequest("get_level_options", nil))

		require.NoError(t, err)
		assert.Equal(t, "northwest_atlantic\nnortheast_pacific", resultText(t, result))
	})

	t.Run("lists options below the deepest supplied level", func(t *testing.T) {
		t.Parallel()

		_, handler := cefimcp.GetLevelOptions(testNavigator(t))
		result, err := handler(context.Background(), callRequest("get_level_options", map[string]any{
			"region":    "northwest_atlantic",
			"subdomain": "full_domain",
		}))

		require.NoError(t, err)
		assert.Equal(t, "hindcast\nseasonal_forecast", resultText(t, result))
	})

	t.Run("accepts approximate selectors", func(t *testing.T) {
		t.Parallel()

		_, handler := cefimcp.GetLevelOptions(testNavigator(t))
		result, err := handler(context.Background(), callRequest("get_level_options", map[string]any{
			"region": "northwest atlantik",
		}))

		require.NoError(t, err)
		assert.Equal(t, "full_domain", resultText(t, result))
	})

	t.Run("full selection lists variable names", func(t *testing.T) {
		t.Parallel()

		_, handler := cefimcp.GetLevelOptions(testNavigator(t))
		result, err := handler(context.Background(), callRequest("get_level_options", map[string]any{
			"region":            "northwest_atlantic",
			"subdomain":         "full_domain",
			"experiment_type":   "hindcast",
			"output_frequency":  "monthly",
			"grid_type":         "raw",
			"release_date":      "r20230520",
			"variable_category": "ocean_monthly",
		}))

		require.NoError(t, err)
		assert.Equal(t, "Sea Surface Temperature\nSea Surface Salinity", resultText(t, result))
	})

	t.Run("empty string is still a query", func(t *testing.T) {
		t.Parallel()

		_, handler := cefimcp.GetLevelOptions(testNavigator(t))
		result, err := handler(context.Background(), callRequest("get_level_options", map[string]any{
			"region": "",
		}))

		require.NoError(t, err)
		assert.Equal(t, "full_domain", resultText(t, result))
	})

	t.Run("ignores selectors below an unsupplied level", func(t *testing.T) {
		t.Parallel()

		_, handler := cefimcp.GetLevelOptions(testNavigator(t))
		result, err := handler(context.Background(), callRequest("get_level_options", map[string]any{
			"subdomain": "full_domain",
		}))

		require.NoError(t, err)
		assert.Equal(t, "northwest_atlantic\nnortheast_pacific", resultText(t, result))
	})

	t.Run("reports an unmatched selector", func(t *testing.T) {
		t.Parallel()

		_, handler := cefimcp.GetLevelOptions(testNavigator(t))

		result, err := handler(context.Background(), callRequest("get_level_options", map[string]any{
			"region": "mediterranean",
		}))
		require.NoError(t, err)
		assert.Equal(t, "No matching region found.", resultText(t, result))

		result, err = handler(context.Background(), callRequest("get_level_options", map[string]any{
			"region":    "northwest_atlantic",
			"subdomain": "zzzz",
		}))
		require.NoError(t, err)
		assert.Equal(t, "No matching subdomain found.", resultText(t, result))
	})

	t.Run("reports an unavailable tree", func(t *testing.T) {
		t.Parallel()

		_, handler := cefimcp.GetLevelOptions(unavailableNavigator(t))
		result, err := handler(context.Background(), callRequest("get_level_options", nil))

		require.NoError(t, err)
		assert.Equal(t, "No CEFI data available currently.", resultText(t, result))
	})
}

func TestGetLevelName(t *testing.T) {
	t.Parallel()

	t.Run("lists level names top to bottom", func(t *testing.T) {
		t.Parallel()

		tool, handler := cefimcp.GetLevelName(testNavigator(t))
		assert.Equal(t, "get_level_name", tool.Name)

		result, err := handler(context.Background(), callRequest("get_level_name", nil))

		require.NoError(t, err)
		want := "All the level category name from top to bottom\n" + strings.Join([]string{
			"region",
			"subdomain",
			"experiment_type",
			"output_frequency",
			"grid_type",
			"release_date",
			"variable_category",
			"variable_name",
			"variable_short_name",
			"variable_file_name",
			"file_meta_data",
		}, "\n")
		assert.Equal(t, want, resultText(t, result))
	})

	t.Run("reports an unavailable tree", func(t *testing.T) {
		t.Parallel()

		_, handler := cefimcp.GetLevelName(unavailableNavigator(t))
		result, err := handler(context.Background(), callRequest("get_level_name", nil))

		require.NoError(t, err)
		assert.Equal(t, "No CEFI data available currently.", resultText(t, result))
	})
}
