package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver
	sqlitedrv "modernc.org/sqlite"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RecordStore = (*Store)(nil)

// databaseFile is the SQLite file name inside the data directory.
const databaseFile = "records.db"

// foldFunc is the SQL function SQLite searches use to lower-case text.
// The built-in LOWER only folds ASCII.
const foldFunc = "unicode_lower"

func init() {
	sqlitedrv.MustRegisterDeterministicScalarFunction(foldFunc, 1, foldValue)
}

// foldValue lower-cases text the way strings.ToLower does. NULL stays NULL.
func foldValue(_ *sqlitedrv.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return strings.ToLower(fmt.Sprint(v)), nil
	}
}

// identPattern restricts table and column names interpolated into SQL.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// tableColumns lists the writable columns of each record table besides
// id, owner_id and created_at. It mirrors migrations/001_records.up.sql.
var tableColumns = map[domain.RecordType]struct {
	table   string
	columns []string
}{
	domain.RecordTypeDocument:      {"documents", []string{"title", "content", "file_name", "mime_type", "url"}},
	domain.RecordTypeMessage:       {"messages", []string{"subject", "body", "sender", "recipients", "channel", "url"}},
	domain.RecordTypeBillingRecord: {"billing_records", []string{"title", "description", "vendor", "amount", "currency", "status", "due_date", "url"}},
	domain.RecordTypeTranscript:    {"transcripts", []string{"title", "transcript", "speakers", "duration_seconds", "url"}},
	domain.RecordTypeWorkItem:      {"work_items", []string{"title", "description", "status", "priority", "assignee", "due_date", "url"}},
	domain.RecordTypeContact:       {"contacts", []string{"name", "company", "email", "phone", "notes"}},
}

// Store is a SQL-backed record store. SQLite is the default; PostgreSQL is
// selected with domain.StoreDriverPostgres and shares the same schema.
type Store struct {
	db     *sql.DB
	driver domain.StoreDriver
	path   string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.sercha-federated/data/records.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sercha-federated", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, databaseFile)

	// WAL lets the parallel source adapters read while a seed import writes.
	return Open(domain.StoreDriverSQLite, dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
}

// Open opens a store for the given driver and DSN and runs pending migrations.
func Open(driver domain.StoreDriver, dsn string) (*Store, error) {
	if !driver.IsValid() {
		return nil, fmt.Errorf("%w: store driver %q", domain.ErrUnsupportedType, driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty DSN", domain.ErrStoreUnavailable)
	}

	db, err := sql.Open(driver.String(), dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", domain.ErrStoreUnavailable, err)
	}

	s := &Store{
		db:     db,
		driver: driver,
		path:   strings.SplitN(dsn, "?", 2)[0],
	}
	// Each connection to ":memory:" opens its own empty database.
	if driver == domain.StoreDriverSQLite && s.path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path, or the DSN without options for PostgreSQL.
func (s *Store) Path() string {
	return s.path
}

// Driver returns the SQL driver in use.
func (s *Store) Driver() domain.StoreDriver {
	return s.driver
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Search returns owner-scoped rows where any field contains any term,
// ignoring case, newest first.
func (s *Store) Search(ctx context.Context, q driven.RecordQuery) ([]domain.Record, error) {
	if len(q.Terms) == 0 || len(q.Fields) == 0 {
		return nil, nil
	}

	query, args, err := buildSearchQuery(q, s.lowerFunc())
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", q.Table, err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows, q)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", q.Table, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", q.Table, err)
	}

	return records, nil
}

// Save inserts or replaces records in a single transaction.
// Fields that are not columns of the record's table are dropped. A record
// whose ID is already held by another owner fails the whole batch with
// domain.ErrOwnerConflict.
func (s *Store) Save(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range records {
		schema, ok := tableColumns[rec.Type]
		if !ok {
			return fmt.Errorf("%w: record type %q", domain.ErrUnsupportedType, rec.Type)
		}

		cols := append([]string{"id", "owner_id", "created_at"}, schema.columns...)
		args := []any{rec.ID, rec.OwnerID, rec.CreatedAt.UTC()}
		updates := make([]string, 0, len(cols)-1)
		for _, c := range schema.columns {
			if v, ok := rec.Fields[c]; ok {
				args = append(args, v)
			} else {
				args = append(args, nil)
			}
		}
		for _, c := range cols[2:] {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
		}

		// The WHERE leaves another owner's row untouched and reports no change.
		stmt := fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s WHERE %s.owner_id = excluded.owner_id",
			schema.table,
			strings.Join(cols, ", "),
			strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
			strings.Join(updates, ", "),
			schema.table,
		)
		res, err := tx.ExecContext(ctx, s.rebind(stmt), args...)
		if err != nil {
			return fmt.Errorf("saving %s %s: %w", rec.Type, rec.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("saving %s %s: %w", rec.Type, rec.ID, domain.ErrOwnerConflict)
		}
	}

	return tx.Commit()
}

// lowerFunc names the SQL function that folds case before matching.
func (s *Store) lowerFunc() string {
	if s.driver == domain.StoreDriverPostgres {
		return "LOWER"
	}
	return foldFunc
}

// buildSearchQuery renders the owner-scoped OR-of-substrings query with '?'
// placeholders. lower folds each column before the LIKE.
func buildSearchQuery(q driven.RecordQuery, lower string) (string, []any, error) {
	if !identPattern.MatchString(q.Table) {
		return "", nil, fmt.Errorf("%w: table %q", domain.ErrInvalidInput, q.Table)
	}
	for _, c := range append(append([]string{}, q.Fields...), q.Columns...) {
		if !identPattern.MatchString(c) {
			return "", nil, fmt.Errorf("%w: column %q", domain.ErrInvalidInput, c)
		}
	}

	selectCols := append([]string{"id", "owner_id", "created_at"}, q.Columns...)

	var b strings.Builder
	args := []any{q.OwnerID}
	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE owner_id = ?", strings.Join(selectCols, ", "), q.Table)

	conds := make([]string, 0, len(q.Fields)*len(q.Terms))
	for _, f := range q.Fields {
		for _, term := range q.Terms {
			conds = append(conds, fmt.Sprintf(`%s(%s) LIKE ? ESCAPE '\'`, lower, f))
			args = append(args, "%"+escapeLike(strings.ToLower(term))+"%")
		}
	}
	fmt.Fprintf(&b, " AND (%s)", strings.Join(conds, " OR "))

	if q.CreatedAfter != nil {
		b.WriteString(" AND created_at >= ?")
		args = append(args, q.CreatedAfter.UTC())
	}
	if q.CreatedBefore != nil {
		b.WriteString(" AND created_at <= ?")
		args = append(args, q.CreatedBefore.UTC())
	}

	b.WriteString(" ORDER BY created_at DESC, id ASC")
	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	} else {
		b.WriteString(" LIMIT -1")
	}
	if q.Offset > 0 {
		b.WriteString(" OFFSET ?")
		args = append(args, q.Offset)
	}

	return b.String(), args, nil
}

// escapeLike escapes LIKE wildcards so terms match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// rebind rewrites '?' placeholders into the driver's native form.
func (s *Store) rebind(query string) string {
	if s.driver != domain.StoreDriverPostgres {
		return query
	}
	query = strings.Replace(query, "LIMIT -1", "LIMIT ALL", 1)

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func scanRecord(rows *sql.Rows, q driven.RecordQuery) (domain.Record, error) {
	var (
		id, owner string
		created   sql.NullTime
	)
	values := make([]sql.NullString, len(q.Columns))
	dest := make([]any, 0, len(q.Columns)+3)
	dest = append(dest, &id, &owner, &created)
	for i := range values {
		dest = append(dest, &values[i])
	}

	if err := rows.Scan(dest...); err != nil {
		return domain.Record{}, err
	}

	rec := domain.Record{
		Type:    q.Type,
		ID:      id,
		OwnerID: owner,
		Fields:  make(map[string]string, len(q.Columns)),
	}
	if created.Valid {
		rec.CreatedAt = created.Time
	}
	for i, c := range q.Columns {
		if values[i].Valid {
			rec.Fields[c] = values[i].String
		}
	}
	return rec, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: creating schema_migrations table: %w", domain.ErrStoreUnavailable, err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_records.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(s.rebind("INSERT INTO schema_migrations (version) VALUES (?)"), version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return v, err
}
