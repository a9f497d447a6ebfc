package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

func contactQuery(owner string, terms ...string) driven.RecordQuery {
	return driven.RecordQuery{
		Table:   "contacts",
		Type:    domain.RecordTypeContact,
		OwnerID: owner,
		Fields:  []string{"name", "company", "email"},
		Columns: []string{"name", "company", "email", "phone", "notes"},
		Terms:   terms,
		Limit:   10,
	}
}

func seedContacts(t *testing.T, store *Store) time.Time {
	t.Helper()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	err := store.Save(context.Background(), []domain.Record{
		{Type: domain.RecordTypeContact, ID: "c1", OwnerID: "u1", CreatedAt: base,
			Fields: map[string]string{"name": "Jane Doe", "company": "Acme", "email": "jane@acme.com"}},
		{Type: domain.RecordTypeContact, ID: "c2", OwnerID: "u1", CreatedAt: base.Add(time.Hour),
			Fields: map[string]string{"name": "John Roe", "company": "ACME Labs", "phone": "555-0100"}},
		{Type: domain.RecordTypeContact, ID: "c3", OwnerID: "u2", CreatedAt: base,
			Fields: map[string]string{"name": "Acme Reseller", "company": "Other"}},
		{Type: domain.RecordTypeContact, ID: "c4", OwnerID: "u1", CreatedAt: base,
			Fields: map[string]string{"name": "100% Bob", "company": "under_score"}},
	})
	require.NoError(t, err)
	return base
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "records.db"), store.Path())
	assert.Equal(t, domain.StoreDriverSQLite, store.Driver())
	assert.NoError(t, store.Ping(context.Background()))

	version, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	seedContacts(t, store)
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	recs, err := reopened.Search(context.Background(), contactQuery("u1", "jane"))
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestOpen_InMemoryKeepsOneDatabase(t *testing.T) {
	store, err := Open(domain.StoreDriverSQLite, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	seedContacts(t, store)
	recs, err := store.Search(context.Background(), contactQuery("u1", "jane"))
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestOpen_InvalidDriver(t *testing.T) {
	_, err := Open("mysql", "dsn")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = Open(domain.StoreDriverSQLite, "")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestStore_Search_OwnerScopedNewestFirst(t *testing.T) {
	store := setupTestStore(t)
	base := seedContacts(t, store)

	recs, err := store.Search(context.Background(), contactQuery("u1", "acme"))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "c2", recs[0].ID)
	assert.Equal(t, "c1", recs[1].ID)
	assert.Equal(t, domain.RecordTypeContact, recs[0].Type)
	assert.Equal(t, "u1", recs[0].OwnerID)
	assert.True(t, recs[1].CreatedAt.Equal(base))

	assert.Equal(t, "555-0100", recs[0].Fields["phone"])
	_, hasEmail := recs[0].Fields["email"]
	assert.False(t, hasEmail, "NULL columns are omitted")
}

func TestStore_Search_MultipleTermsAreOred(t *testing.T) {
	store := setupTestStore(t)
	seedContacts(t, store)

	recs, err := store.Search(context.Background(), contactQuery("u1", "jane", "roe"))
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestStore_Search_WildcardsMatchLiterally(t *testing.T) {
	store := setupTestStore(t)
	seedContacts(t, store)

	recs, err := store.Search(context.Background(), contactQuery("u1", "100%"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "c4", recs[0].ID)

	recs, err = store.Search(context.Background(), contactQuery("u1", "e_d"))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestStore_Search_DateBounds(t *testing.T) {
	store := setupTestStore(t)
	base := seedContacts(t, store)

	after := base.Add(30 * time.Minute)
	q := contactQuery("u1", "acme")
	q.CreatedAfter = &after
	recs, err := store.Search(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "c2", recs[0].ID)

	q = contactQuery("u1", "acme")
	q.CreatedBefore = &after
	recs, err = store.Search(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "c1", recs[0].ID)
}

func TestStore_Search_LimitOffset(t *testing.T) {
	store := setupTestStore(t)
	seedContacts(t, store)

	q := contactQuery("u1", "acme")
	q.Limit = 1
	q.Offset = 1
	recs, err := store.Search(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "c1", recs[0].ID)

	q.Limit = 0
	q.Offset = 0
	recs, err = store.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestStore_Search_NoTerms(t *testing.T) {
	store := setupTestStore(t)
	seedContacts(t, store)

	recs, err := store.Search(context.Background(), contactQuery("u1"))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestStore_Search_RejectsBadIdentifiers(t *testing.T) {
	store := setupTestStore(t)

	q := contactQuery("u1", "x")
	q.Table = "contacts; DROP TABLE contacts"
	_, err := store.Search(context.Background(), q)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	q = contactQuery("u1", "x")
	q.Fields = []string{"name OR 1=1"}
	_, err = store.Search(context.Background(), q)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_Save_Upsert(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	rec := domain.Record{
		Type: domain.RecordTypeWorkItem, ID: "w1", OwnerID: "u1", CreatedAt: time.Now(),
		Fields: map[string]string{"title": "Fix login", "assignee": "sam", "unknown": "dropped"},
	}
	require.NoError(t, store.Save(ctx, []domain.Record{rec}))

	rec.Fields["title"] = "Fix signup"
	require.NoError(t, store.Save(ctx, []domain.Record{rec}))

	recs, err := store.Search(ctx, driven.RecordQuery{
		Table: "work_items", Type: domain.RecordTypeWorkItem, OwnerID: "u1",
		Fields: []string{"title"}, Columns: []string{"title", "assignee"}, Terms: []string{"fix"},
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Fix signup", recs[0].Fields["title"])
	assert.Equal(t, "sam", recs[0].Fields["assignee"])
}

func TestStore_Save_UnsupportedType(t *testing.T) {
	store := setupTestStore(t)
	err := store.Save(context.Background(), []domain.Record{{Type: "invoice", ID: "x"}})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestBuildSearchQuery(t *testing.T) {
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q, args, err := buildSearchQuery(driven.RecordQuery{
		Table:        "messages",
		OwnerID:      "u1",
		Fields:       []string{"subject", "body"},
		Columns:      []string{"subject"},
		Terms:        []string{"Q3_"},
		CreatedAfter: &after,
		Limit:        5,
		Offset:       10,
	}, "LOWER")
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT id, owner_id, created_at, subject FROM messages WHERE owner_id = ? `+
			`AND (LOWER(subject) LIKE ? ESCAPE '\' OR LOWER(body) LIKE ? ESCAPE '\') `+
			`AND created_at >= ? ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?`,
		q)
	assert.Equal(t, []any{"u1", `%q3\_%`, `%q3\_%`, after, 5, 10}, args)
}

func TestBuildSearchQuery_FoldFunction(t *testing.T) {
	q := contactQuery("u1", "Élodie")

	lite := &Store{driver: domain.StoreDriverSQLite}
	query, args, err := buildSearchQuery(q, lite.lowerFunc())
	require.NoError(t, err)
	assert.Contains(t, query, "unicode_lower(name) LIKE ?")
	assert.Equal(t, "%élodie%", args[1])

	pg := &Store{driver: domain.StoreDriverPostgres}
	query, _, err = buildSearchQuery(q, pg.lowerFunc())
	require.NoError(t, err)
	assert.Contains(t, query, "LOWER(name) LIKE ?")
}

func TestStore_Search_UnicodeCaseFolding(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, []domain.Record{
		{Type: domain.RecordTypeContact, ID: "c1", OwnerID: "u1", CreatedAt: time.Now(),
			Fields: map[string]string{"name": "ÉLODIE Martin", "company": "Société Générale"}},
	}))

	for _, term := range []string{"élodie", "ÉLODIE", "société", "GÉNÉRALE"} {
		recs, err := store.Search(ctx, contactQuery("u1", term))
		require.NoError(t, err, term)
		assert.Len(t, recs, 1, term)
	}

	recs, err := store.Search(ctx, contactQuery("u1", "elodie"))
	require.NoError(t, err)
	assert.Empty(t, recs, "accents are not stripped")
}

func TestStore_Save_KeepsIDWithItsOwner(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	seedContacts(t, store)

	err := store.Save(ctx, []domain.Record{
		{Type: domain.RecordTypeContact, ID: "c9", OwnerID: "u2", CreatedAt: time.Now(),
			Fields: map[string]string{"name": "Bob Newcomer"}},
		{Type: domain.RecordTypeContact, ID: "c1", OwnerID: "u2", CreatedAt: time.Now(),
			Fields: map[string]string{"name": "Bob Takeover"}},
	})
	require.ErrorIs(t, err, domain.ErrOwnerConflict)

	recs, err := store.Search(ctx, contactQuery("u1", "jane"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "c1", recs[0].ID)

	recs, err = store.Search(ctx, contactQuery("u2", "bob"))
	require.NoError(t, err)
	assert.Empty(t, recs, "the batch is rolled back")
}

func TestRebind_Postgres(t *testing.T) {
	pg := &Store{driver: domain.StoreDriverPostgres}
	lite := &Store{driver: domain.StoreDriverSQLite}

	query := "SELECT a FROM t WHERE x = ? AND y = ? LIMIT -1"
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2 LIMIT ALL", pg.rebind(query))
	assert.Equal(t, query, lite.rebind(query))
}
