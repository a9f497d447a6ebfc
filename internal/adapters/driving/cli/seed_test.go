package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

const seedJSON = `[
  {"type": "contact", "fields": {"name": "Acme Corp", "email": "ap@acme.example"}},
  {"type": "billing_record", "createdAt": "2024-03-01T00:00:00Z", "fields": {"title": "Invoice ACM-001"}},
  {"type": "billing_record", "fields": {"title": "Invoice ACM-002"}}
]`

func TestSeedCmd_ImportsFile(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0600))

	out, err := executeCommand(t, "seed", "--owner", "u1", path)

	require.NoError(t, err)
	assert.Equal(t, "u1", ts.records.owner)
	require.Len(t, ts.records.records, 3)
	assert.Equal(t, domain.RecordTypeContact, ts.records.records[0].Type)
	assert.Equal(t, "Acme Corp", ts.records.records[0].Field("name"))
	assert.Equal(t, 2024, ts.records.records[1].CreatedAt.Year())
	assert.Contains(t, out, "Imported 3 records")
	assert.Contains(t, out, "Billing record")
}

func TestSeedCmd_ReadsStdin(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	rootCmd.SetIn(strings.NewReader(seedJSON))

	_, err := executeCommand(t, "seed", "--owner", "u2", "-")

	require.NoError(t, err)
	assert.Len(t, ts.records.records, 3)
}

func TestSeedCmd_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, cleanup := setupTestServices()
		defer cleanup()

		_, err := executeCommand(t, "seed", filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, cleanup := setupTestServices()
		defer cleanup()
		rootCmd.SetIn(strings.NewReader(`{"type":`))

		_, err := executeCommand(t, "seed", "-")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding records")
	})

	t.Run("import rejected", func(t *testing.T) {
		ts, cleanup := setupTestServices()
		defer cleanup()
		ts.records.err = errors.New("owner is required")
		rootCmd.SetIn(strings.NewReader(seedJSON))

		_, err := executeCommand(t, "seed", "-")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "import failed")
	})
}
