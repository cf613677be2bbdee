package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempora-labs/tempora-cli/internal/core/domain"
)

func TestQueryCmd_Use(t *testing.T) {
	assert.Equal(t, "query [text]", queryCmd.Use)
}

func TestQueryCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute("query")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestQueryCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("query", "revenue growth")

	assert.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestQueryCmd_PrintsCitations(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeTestFile(t, "q3_report_2024-08-27.txt", "Revenue reached $7M in the third quarter.")
	_, err := execute("ingest", path)
	require.NoError(t, err)

	out, err := execute("query", "revenue")

	assert.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "Relevance:")
	assert.Contains(t, out, "Source: q3_report_2024-08-27.txt")
}

func TestQueryCmd_YearFilterFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { queryYear = "" }()

	oldPath := writeTestFile(t, "report_2023-05-10.txt", "Old revenue figures.")
	newPath := writeTestFile(t, "report_2024-08-27.txt", "New revenue figures.")
	_, err := execute("ingest", oldPath)
	require.NoError(t, err)
	_, err = execute("ingest", newPath)
	require.NoError(t, err)

	out, err := execute("query", "revenue figures", "--year", "2024")

	assert.NoError(t, err)
	assert.Contains(t, out, "report_2024-08-27.txt")
	assert.NotContains(t, out, "report_2023-05-10.txt")
	assert.Contains(t, out, "Filtered by year: 2024")
}

func TestQueryCmd_DateFilterFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { queryDate = "" }()

	path := writeTestFile(t, "report_2024-08-27.txt", "August revenue figures.")
	_, err := execute("ingest", path)
	require.NoError(t, err)

	out, err := execute("query", "revenue figures", "--date", "2024-08")

	assert.NoError(t, err)
	assert.Contains(t, out, "report_2024-08-27.txt")
	assert.Contains(t, out, "Filtered by date: 2024-08")
}

func TestQueryCmd_DateAndYearFlagsConflict(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { queryDate, queryYear = "", "" }()

	_, err := execute("query", "revenue", "--date", "2024-06", "--year", "2024")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others can be")
}

func TestQueryCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { queryJSON = false }()

	path := writeTestFile(t, "notes.txt", "Some plain notes.")
	_, err := execute("ingest", path)
	require.NoError(t, err)

	out, err := execute("query", "notes", "--json")
	require.NoError(t, err)

	var resp domain.QueryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "notes", resp.Query)
	assert.NotEmpty(t, resp.Results)
}

func TestQueryCmd_RecencyNote(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeTestFile(t, "report_2024-08-27.txt", "Quarterly revenue figures.")
	_, err := execute("ingest", path)
	require.NoError(t, err)

	out, err := execute("query", "latest revenue")

	assert.NoError(t, err)
	assert.Contains(t, out, "Sorted by recency.")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet("short", 160))
	assert.Equal(t, "a b", snippet("a\nb", 160))

	assert.Equal(t, "aaaaa...", snippet("aaaaaaaaaa", 5))
}
