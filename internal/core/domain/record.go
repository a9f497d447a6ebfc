package domain

import (
	"fmt"
	"strings"
	"time"
)

// RecordType identifies one of the searchable record kinds.
// The set is closed: every type has exactly one source adapter.
type RecordType string

// Available record types.
const (
	// RecordTypeDocument is an uploaded file with extracted text.
	RecordTypeDocument RecordType = "document"

	// RecordTypeMessage is an email or chat message.
	RecordTypeMessage RecordType = "message"

	// RecordTypeBillingRecord is an invoice, receipt or bill.
	RecordTypeBillingRecord RecordType = "billing_record"

	// RecordTypeTranscript is the text of an audio recording.
	RecordTypeTranscript RecordType = "transcript"

	// RecordTypeWorkItem is a task or ticket.
	RecordTypeWorkItem RecordType = "work_item"

	// RecordTypeContact is an address book entry.
	RecordTypeContact RecordType = "contact"
)

// AllRecordTypes returns every record type in adapter emission order.
func AllRecordTypes() []RecordType {
	return []RecordType{
		RecordTypeDocument,
		RecordTypeMessage,
		RecordTypeBillingRecord,
		RecordTypeTranscript,
		RecordTypeWorkItem,
		RecordTypeContact,
	}
}

// ParseRecordType converts a string into a RecordType.
func ParseRecordType(s string) (RecordType, error) {
	t := RecordType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: record type %q", ErrUnsupportedType, s)
	}
	return t, nil
}

// IsValid returns true if the record type is recognised.
func (t RecordType) IsValid() bool {
	switch t {
	case RecordTypeDocument, RecordTypeMessage, RecordTypeBillingRecord,
		RecordTypeTranscript, RecordTypeWorkItem, RecordTypeContact:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t RecordType) String() string {
	return string(t)
}

// Description returns a human-readable label for the record type.
func (t RecordType) Description() string {
	switch t {
	case RecordTypeDocument:
		return "Document"
	case RecordTypeMessage:
		return "Message"
	case RecordTypeBillingRecord:
		return "Billing record"
	case RecordTypeTranscript:
		return "Transcript"
	case RecordTypeWorkItem:
		return "Work item"
	case RecordTypeContact:
		return "Contact"
	default:
		return "Unknown"
	}
}

// Record is a raw row read from, or written to, a record store.
// Fields holds the type-specific columns keyed by column name.
type Record struct {
	// Type is the record kind, which selects the backing table.
	Type RecordType `json:"type"`

	// ID is unique within Type only.
	ID string `json:"id"`

	// OwnerID scopes the record to a single user.
	OwnerID string `json:"ownerId"`

	// CreatedAt orders records newest first inside a store query.
	CreatedAt time.Time `json:"createdAt"`

	// Fields holds the remaining columns.
	Fields map[string]string `json:"fields"`
}

// Field returns a column value, or the empty string when absent.
func (r Record) Field(name string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[name]
}

// RecordTypeInfo describes how a record type is searched.
type RecordTypeInfo struct {
	Type         RecordType `json:"type"`
	Description  string     `json:"description"`
	SearchFields []string   `json:"searchFields"`
	Columns      []string   `json:"columns"`
}
