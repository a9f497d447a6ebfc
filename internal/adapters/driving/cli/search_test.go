package cli

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

func sampleResponse() *domain.SearchResponse {
	return &domain.SearchResponse{
		Query: "acme invoice",
		Results: []domain.SearchResult{
			{
				ID: "inv-1", Type: domain.RecordTypeBillingRecord, Title: "Invoice ACM-001",
				ConfidenceScore: 0.87, Highlights: []string{"...Invoice ACM-001 from Acme Corporation..."},
				CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			},
			{ID: "c-1", Type: domain.RecordTypeContact, Title: "", ConfidenceScore: 0.5},
		},
		TotalCount:   4,
		SearchTimeMs: 7,
		Suggestions:  []string{"corporation", "retainer"},
	}
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "search")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasFlags(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)

	for _, name := range []string{"owner", "offset", "lang", "type", "json"} {
		assert.NotNil(t, searchCmd.Flags().Lookup(name), name)
	}
}

func TestSearchCmd_BuildsRequest(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.resp = sampleResponse()

	_, err := executeCommand(t, "search", "--owner", "u1", "--limit", "25", "--offset", "5",
		"--lang", "FR", "--type", "contact", "--type", "work_item", "acme invoice")

	require.NoError(t, err)
	req := ts.search.lastReq
	assert.Equal(t, "acme invoice", req.Query)
	assert.Equal(t, "u1", req.OwnerID)
	assert.Equal(t, 25, req.Limit)
	assert.Equal(t, 5, req.Offset)
	assert.Equal(t, domain.LanguageFrench, req.Language)
	assert.Equal(t, []domain.RecordType{domain.RecordTypeContact, domain.RecordTypeWorkItem}, req.Filters.Types)
}

func TestSearchCmd_TableOutput(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.resp = sampleResponse()

	out, err := executeCommand(t, "search", "--owner", "u1", "acme invoice")

	require.NoError(t, err)
	assert.Contains(t, out, "Results (2 of 4, 7ms)")
	assert.Contains(t, out, "[1] (Billing record) Invoice ACM-001  87%")
	assert.Contains(t, out, "...Invoice ACM-001 from Acme Corporation...")
	assert.Contains(t, out, "[2] (Contact) c-1  50%")
	assert.Contains(t, out, "Related: corporation, retainer")
}

func TestSearchCmd_NoResults(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.resp = &domain.SearchResponse{Results: []domain.SearchResult{}}

	out, err := executeCommand(t, "search", "--owner", "u1", "nothing")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.resp = sampleResponse()

	out, err := executeCommand(t, "search", "--owner", "u1", "--json", "acme invoice")

	require.NoError(t, err)
	var resp domain.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 4, resp.TotalCount)
	assert.Len(t, resp.Results, 2)
}

func TestSearchCmd_UnknownType(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "search", "--owner", "u1", "--type", "spreadsheet", "x")

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Equal(t, 0, ts.search.calls)
}

func TestSearchCmd_ServiceError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.err = fmt.Errorf("%w: ownerId is required", domain.ErrInvalidInput)

	_, err := executeCommand(t, "search", "x")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "search failed")
}
