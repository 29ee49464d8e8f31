package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
)

func TestImportCmd_ReportsEachCategory(t *testing.T) {
	env := setupTestServices(t)

	out, _, err := run(t, "import")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Inscriptions")
	assert.Contains(t, out, "2 added, 0 skipped")
	assert.Contains(t, out, "1 added, 1 skipped")
	assert.Contains(t, out, "row 2:")

	n, err := env.store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.True(t, loaded)
}

func TestImportCmd_RejectedCategory(t *testing.T) {
	env := setupTestServices(t)
	env.source.tables[domain.CategoryTemple] = driven.Table{Header: []string{"title", "where"}, Rows: [][]string{{"Hoysaleswara", "Halebidu"}}}

	out, _, err := run(t, "import")
	require.NoError(t, err)
	assert.Contains(t, out, "✗ Temples")

	entries, err := env.imports.Imports(context.Background(), 0)
	require.NoError(t, err)
	var rejected int
	for _, e := range entries {
		if e.Rejected != "" {
			rejected++
			assert.Equal(t, domain.CategoryTemple, e.Category)
		}
	}
	assert.Equal(t, 1, rejected)
}

func TestImportCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "import", "--json")
	require.NoError(t, err)
	var reports []domain.IngestReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	assert.Len(t, reports, 3)
}

func TestImportCmd_WatchUnavailable(t *testing.T) {
	setupTestServices(t)

	_, _, err := run(t, "import", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching is not available")
}

func TestImportCmd_WatchReimports(t *testing.T) {
	env := setupTestServices(t)
	services.Watch = func(_ context.Context, onChange func(domain.Category)) error {
		env.source.tables[domain.CategoryTemple].Rows[1][1] = "13.3"
		onChange(domain.CategoryTemple)
		return nil
	}

	out, _, err := run(t, "import", "--watch")
	require.NoError(t, err)
	assert.Contains(t, out, "Watching source files")
	assert.Equal(t, 2, env.app.Registry.Count(domain.CategoryTemple))
}

func TestImportHistoryCmd(t *testing.T) {
	setupTestServices(t)

	_, _, err := run(t, "import")
	require.NoError(t, err)

	out, _, err := run(t, "import", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "herostones.csv")
}

func TestImportHistoryCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "import", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No imports recorded.")
}

func TestImportHistoryCmd_NotConfigured(t *testing.T) {
	setupTestServices(t)
	services.Imports = nil

	_, _, err := run(t, "import", "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
