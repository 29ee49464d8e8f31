package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_Metadata(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
	assert.NotNil(t, searchCmd.Flags().Lookup("json"))
	assert.NotNil(t, searchCmd.Flags().Lookup("select"))
	assert.NotNil(t, searchCmd.Flags().Lookup("all"))
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	setupTestServices(t)
	_, _, err := run(t, "search")
	assert.Error(t, err)
}

func TestSearchCmd_GroupsHeritageSites(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "search", "herostone")
	require.NoError(t, err)
	assert.Contains(t, out, "Herostones")
	assert.Contains(t, out, "[1] Begur herostone")
	assert.Contains(t, out, "[2] Atakur herostone")
	assert.NotContains(t, out, "Temples")
}

func TestSearchCmd_NoResults(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "search", "nowhere at all")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_CoordinateQuery(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "search", "13.5, 76.1")
	require.NoError(t, err)
	assert.Contains(t, out, "Coordinates")
	assert.Contains(t, out, "13.500000, 76.100000")
}

func TestSearchCmd_SelectFocusesMap(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "search", "halmidi", "--select", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "● Halmidi inscription")
	assert.Contains(t, out, "Map: 13.212500, 75.994500 at zoom 16")

	vp := services.View.Viewport()
	assert.Equal(t, 16, vp.Zoom)
}

func TestSearchCmd_SelectOutOfRange(t *testing.T) {
	setupTestServices(t)

	_, _, err := run(t, "search", "halmidi", "--select", "5")
	assert.Error(t, err)
}

func TestSearchCmd_SelectAll(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "search", "herostone", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "● Atakur herostone")
	assert.Contains(t, out, "● Begur herostone")
	assert.Len(t, services.View.Highlights(), 2)
}

func TestSearchCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "search", "temple", "--json")
	require.NoError(t, err)

	var got searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "temple", got.Query)
	require.Len(t, got.Groups, 1)
	assert.Equal(t, "Temples", got.Groups[0].Title)
	assert.Nil(t, got.Selection)
}
