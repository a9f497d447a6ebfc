package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	resp    *domain.SearchResponse
	err     error
	lastReq domain.SearchRequest
	types   []domain.RecordTypeInfo
}

func (m *mockSearchService) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	m.lastReq = req
	if m.resp == nil {
		return domain.DegradedResponse(req.Query, m.err), m.err
	}
	return m.resp, m.err
}

func (m *mockSearchService) Health(_ context.Context) domain.HealthStatus {
	return domain.HealthStatus{Status: "healthy", Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *mockSearchService) RecordTypes() []domain.RecordTypeInfo {
	return m.types
}

func testRecordTypes() []domain.RecordTypeInfo {
	return []domain.RecordTypeInfo{
		{Type: domain.RecordTypeDocument, Description: "Document", SearchFields: []string{"title", "content"}},
		{Type: domain.RecordTypeContact, Description: "Contact", SearchFields: []string{"name", "company", "email"}},
	}
}
