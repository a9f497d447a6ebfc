package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

func TestExtractRecordType(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid record type URI",
			uri:      "sercha://record-types/contact",
			expected: "contact",
		},
		{
			name:     "collection URI",
			uri:      "sercha://record-types",
			expected: "",
		},
		{
			name:     "invalid prefix",
			uri:      "file://record-types/contact",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractRecordType(tt.uri))
		})
	}
}

// makeReadResourceRequest creates a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleRecordTypesResource(t *testing.T) {
	server := newTestServer(t, &mockSearchService{types: testRecordTypes()}, "")

	result, err := server.handleRecordTypesResource(context.Background(), makeReadResourceRequest(recordTypesURI))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var infos []domain.RecordTypeInfo
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, domain.RecordTypeContact, infos[1].Type)
	assert.Equal(t, []string{"name", "company", "email"}, infos[1].SearchFields)
}

func TestServer_handleRecordTypeResource(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &mockSearchService{types: testRecordTypes()}, "")

	t.Run("known type", func(t *testing.T) {
		result, err := server.handleRecordTypeResource(ctx, makeReadResourceRequest("sercha://record-types/document"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"content"`)
	})

	t.Run("unknown type is not found", func(t *testing.T) {
		_, err := server.handleRecordTypeResource(ctx, makeReadResourceRequest("sercha://record-types/spreadsheet"))
		assert.Error(t, err)
	})

	t.Run("valid type missing from catalogue is not found", func(t *testing.T) {
		_, err := server.handleRecordTypeResource(ctx, makeReadResourceRequest("sercha://record-types/transcript"))
		assert.Error(t, err)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		_, err := server.handleRecordTypeResource(ctx, makeReadResourceRequest("sercha://other"))
		assert.Error(t, err)
	})
}
