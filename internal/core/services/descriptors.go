package services

import (
	"strings"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// SourceDescriptor describes how one record type is searched and mapped to
// the canonical result shape.
type SourceDescriptor struct {
	Type domain.RecordType

	// Table is the backing store table.
	Table string

	// SearchFields are matched against the analysis keywords.
	SearchFields []string

	// Columns are loaded for each matching row.
	Columns []string

	// NameFields are metadata keys the scorer adds to the haystack.
	NameFields []string

	toResult func(domain.Record) domain.SearchResult
}

// metadataField maps a store column to a camelCase metadata key.
type metadataField struct {
	column string
	key    string
}

var descriptors = []SourceDescriptor{
	{
		Type:         domain.RecordTypeDocument,
		Table:        "documents",
		SearchFields: []string{"title", "content"},
		Columns:      []string{"title", "content", "file_name", "mime_type", "url"},
		NameFields:   []string{"fileName"},
		toResult: simpleResult("title", "content",
			metadataField{"file_name", "fileName"},
			metadataField{"mime_type", "mimeType"},
		),
	},
	{
		Type:         domain.RecordTypeMessage,
		Table:        "messages",
		SearchFields: []string{"subject", "body", "sender"},
		Columns:      []string{"subject", "body", "sender", "recipients", "channel", "url"},
		NameFields:   []string{"sender", "recipients"},
		toResult: simpleResult("subject", "body",
			metadataField{"sender", "sender"},
			metadataField{"recipients", "recipients"},
			metadataField{"channel", "channel"},
		),
	},
	{
		Type:         domain.RecordTypeBillingRecord,
		Table:        "billing_records",
		SearchFields: []string{"title", "description", "vendor"},
		Columns:      []string{"title", "description", "vendor", "amount", "currency", "status", "due_date", "url"},
		NameFields:   []string{"vendor"},
		toResult: simpleResult("title", "description",
			metadataField{"vendor", "vendor"},
			metadataField{"amount", "amount"},
			metadataField{"currency", "currency"},
			metadataField{"status", "status"},
			metadataField{"due_date", "dueDate"},
		),
	},
	{
		Type:         domain.RecordTypeTranscript,
		Table:        "transcripts",
		SearchFields: []string{"title", "transcript"},
		Columns:      []string{"title", "transcript", "speakers", "duration_seconds", "url"},
		NameFields:   []string{"speakers"},
		toResult: simpleResult("title", "transcript",
			metadataField{"speakers", "speakers"},
			metadataField{"duration_seconds", "durationSeconds"},
		),
	},
	{
		Type:         domain.RecordTypeWorkItem,
		Table:        "work_items",
		SearchFields: []string{"title", "description"},
		Columns:      []string{"title", "description", "status", "priority", "assignee", "due_date", "url"},
		NameFields:   []string{"assignee"},
		toResult: simpleResult("title", "description",
			metadataField{"status", "status"},
			metadataField{"priority", "priority"},
			metadataField{"assignee", "assignee"},
			metadataField{"due_date", "dueDate"},
		),
	},
	{
		Type:         domain.RecordTypeContact,
		Table:        "contacts",
		SearchFields: []string{"name", "company", "email"},
		Columns:      []string{"name", "company", "email", "phone", "notes"},
		NameFields:   []string{"company", "email"},
		toResult:     contactResult,
	},
}

// Descriptors returns the source descriptors in fan-out order.
func Descriptors() []SourceDescriptor {
	return descriptors
}

// descriptorFor returns the descriptor for t.
func descriptorFor(t domain.RecordType) (SourceDescriptor, bool) {
	for _, d := range descriptors {
		if d.Type == t {
			return d, true
		}
	}
	return SourceDescriptor{}, false
}

// simpleResult maps a row whose title and content are single columns.
func simpleResult(titleCol, contentCol string, meta ...metadataField) func(domain.Record) domain.SearchResult {
	return func(r domain.Record) domain.SearchResult {
		return domain.SearchResult{
			ID:         r.ID,
			Type:       r.Type,
			Title:      r.Field(titleCol),
			Content:    r.Field(contentCol),
			URL:        r.Field("url"),
			Metadata:   buildMetadata(r, meta),
			Highlights: []string{},
			CreatedAt:  r.CreatedAt,
		}
	}
}

// contactResult joins the contact card fields into the searchable content.
func contactResult(r domain.Record) domain.SearchResult {
	parts := make([]string, 0, 5)
	for _, col := range []string{"name", "company", "email", "phone", "notes"} {
		if v := r.Field(col); v != "" {
			parts = append(parts, v)
		}
	}
	return domain.SearchResult{
		ID:      r.ID,
		Type:    r.Type,
		Title:   r.Field("name"),
		Content: strings.Join(parts, " | "),
		Metadata: buildMetadata(r, []metadataField{
			{"company", "company"},
			{"email", "email"},
			{"phone", "phone"},
		}),
		Highlights: []string{},
		CreatedAt:  r.CreatedAt,
	}
}

func buildMetadata(r domain.Record, fields []metadataField) map[string]any {
	meta := make(map[string]any, len(fields))
	for _, f := range fields {
		if v := r.Field(f.column); v != "" {
			meta[f.key] = v
		}
	}
	return meta
}
