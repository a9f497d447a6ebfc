package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func seedStore(t *testing.T) *memory.RecordStore {
	t.Helper()
	store := memory.NewRecordStore()
	require.NoError(t, store.Save(context.Background(), []domain.Record{
		{
			Type: domain.RecordTypeDocument, ID: "d1", OwnerID: "u1", CreatedAt: baseTime,
			Fields: map[string]string{"title": "Quarterly report", "content": "Revenue grew at Acme", "file_name": "q1.pdf", "mime_type": "application/pdf"},
		},
		{
			Type: domain.RecordTypeMessage, ID: "m1", OwnerID: "u1", CreatedAt: baseTime.Add(time.Hour),
			Fields: map[string]string{"subject": "Lunch", "body": "See you at noon", "sender": "bob@acme.com", "recipients": "u1@example.com", "channel": "email"},
		},
		{
			Type: domain.RecordTypeBillingRecord, ID: "b1", OwnerID: "u1", CreatedAt: baseTime.Add(2 * time.Hour),
			Fields: map[string]string{"title": "Invoice ACM-001", "description": "Consulting services from Acme Corporation for March", "vendor": "Acme Corporation", "amount": "1200.00", "currency": "USD", "status": "open"},
		},
		{
			Type: domain.RecordTypeTranscript, ID: "t1", OwnerID: "u1", CreatedAt: baseTime.Add(3 * time.Hour),
			Fields: map[string]string{"title": "Standup", "transcript": "We discussed the acme rollout", "speakers": "Jane, Bob", "duration_seconds": "900"},
		},
		{
			Type: domain.RecordTypeWorkItem, ID: "w1", OwnerID: "u1", CreatedAt: baseTime.Add(4 * time.Hour),
			Fields: map[string]string{"title": "Ship acme integration", "description": "Finish the connector", "status": "todo", "priority": "high", "assignee": "jane"},
		},
		{
			Type: domain.RecordTypeContact, ID: "c1", OwnerID: "u1", CreatedAt: baseTime.Add(5 * time.Hour),
			Fields: map[string]string{"name": "Acme Corp", "company": "Acme Corporation", "email": "billing@acme.com", "phone": "555-0100"},
		},
		{
			Type: domain.RecordTypeContact, ID: "c2", OwnerID: "u2", CreatedAt: baseTime,
			Fields: map[string]string{"name": "Acme Other", "company": "Acme", "email": "x@acme.com"},
		},
	}))
	return store
}

func keywords(kws ...string) domain.QueryAnalysis {
	return domain.QueryAnalysis{Keywords: kws, Entities: map[string]any{}}
}

func TestSourceAdapter_MapsContact(t *testing.T) {
	store := seedStore(t)
	desc, ok := descriptorFor(domain.RecordTypeContact)
	require.True(t, ok)
	adapter := NewSourceAdapter(store, desc)

	results, err := adapter.Search(context.Background(), "u1", keywords("acme"), domain.SearchFilters{}, 10, 0)

	require.NoError(t, err)
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "c1", r.ID)
	assert.Equal(t, domain.RecordTypeContact, r.Type)
	assert.Equal(t, "Acme Corp", r.Title)
	assert.Equal(t, "Acme Corp | Acme Corporation | billing@acme.com | 555-0100", r.Content)
	assert.Equal(t, "billing@acme.com", r.Metadata["email"])
	assert.NotContains(t, r.Metadata, "notes")
	assert.NotNil(t, r.Highlights)
}

func TestSourceAdapter_MapsBillingMetadata(t *testing.T) {
	store := seedStore(t)
	desc, _ := descriptorFor(domain.RecordTypeBillingRecord)
	adapter := NewSourceAdapter(store, desc)

	results, err := adapter.Search(context.Background(), "u1", keywords("acm-001"), domain.SearchFilters{}, 10, 0)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Invoice ACM-001", results[0].Title)
	assert.Equal(t, "Acme Corporation", results[0].Metadata["vendor"])
	assert.Equal(t, "1200.00", results[0].Metadata["amount"])
	assert.NotContains(t, results[0].Metadata, "dueDate")
}

func TestSourceAdapter_OwnerScoped(t *testing.T) {
	store := seedStore(t)
	desc, _ := descriptorFor(domain.RecordTypeContact)
	adapter := NewSourceAdapter(store, desc)

	results, err := adapter.Search(context.Background(), "u2", keywords("acme"), domain.SearchFilters{}, 10, 0)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c2", results[0].ID)
}

func TestSourceAdapter_SearchesOnlyDescriptorFields(t *testing.T) {
	store := seedStore(t)
	desc, _ := descriptorFor(domain.RecordTypeWorkItem)
	adapter := NewSourceAdapter(store, desc)

	// "jane" is only in the assignee column, which is not searched.
	results, err := adapter.Search(context.Background(), "u1", keywords("jane"), domain.SearchFilters{}, 10, 0)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSourceAdapter_StoreErrorYieldsEmpty(t *testing.T) {
	store := &failingStore{RecordStore: seedStore(t), fail: map[string]bool{"documents": true}}
	desc, _ := descriptorFor(domain.RecordTypeDocument)
	adapter := NewSourceAdapter(store, desc)

	results, err := adapter.Search(context.Background(), "u1", keywords("acme"), domain.SearchFilters{}, 10, 0)

	require.ErrorIs(t, err, errStoreDown)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSourceAdapter_ExcludedTypeSkipsStore(t *testing.T) {
	store := &countingStore{RecordStore: seedStore(t)}
	desc, _ := descriptorFor(domain.RecordTypeDocument)
	adapter := NewSourceAdapter(store, desc)

	results, err := adapter.Search(context.Background(), "u1", keywords("acme"),
		domain.SearchFilters{Types: []domain.RecordType{domain.RecordTypeContact}}, 10, 0)

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, store.queries)
}

func TestSourceAdapter_PassesPagingAndDates(t *testing.T) {
	store := &countingStore{RecordStore: seedStore(t)}
	desc, _ := descriptorFor(domain.RecordTypeTranscript)
	adapter := NewSourceAdapter(store, desc)
	after := baseTime.Add(-time.Hour)

	_, err := adapter.Search(context.Background(), "u1", keywords("a", "b"),
		domain.SearchFilters{CreatedAfter: &after}, 7, 3)

	require.NoError(t, err)
	require.Len(t, store.queries, 1)
	q := store.queries[0]
	assert.Equal(t, "transcripts", q.Table)
	assert.Equal(t, []string{"title", "transcript"}, q.Fields)
	assert.Equal(t, []string{"a", "b"}, q.Terms)
	assert.Equal(t, 7, q.Limit)
	assert.Equal(t, 3, q.Offset)
	assert.Equal(t, &after, q.CreatedAfter)
}

func TestSourceAdapter_ShortKeywordsNotFiltered(t *testing.T) {
	store := seedStore(t)
	desc, _ := descriptorFor(domain.RecordTypeMessage)
	adapter := NewSourceAdapter(store, desc)

	results, err := adapter.Search(context.Background(), "u1", keywords("a"), domain.SearchFilters{}, 10, 0)

	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestDescriptors_CoverEveryType(t *testing.T) {
	var types []domain.RecordType
	for _, d := range Descriptors() {
		types = append(types, d.Type)
		assert.NotEmpty(t, d.SearchFields, d.Type)
		assert.NotNil(t, d.toResult, d.Type)
		for _, f := range d.SearchFields {
			assert.Contains(t, d.Columns, f, d.Type)
		}
	}
	assert.Equal(t, domain.AllRecordTypes(), types)
}
