// Package store persists the skill hub catalogue in a single-file SQLite
// database: a cache of remote skill metadata, the local skill inventory,
// and the search history log. Writers are serialised by the
// single-connection pool; readers see a consistent WAL snapshot.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mindsymphony/skillhub/pkg/db"
	"github.com/mindsymphony/skillhub/pkg/types/skill"
)

// Error wraps a failed store operation with the operation name. Callers
// do not retry store errors.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Store is the catalogue store.
type Store struct {
	dbPath string
	db     *sqlx.DB
}

// Open opens or creates the catalogue database at dbPath and brings the
// schema up to date.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	d, err := db.Open(ctx, dbPath)
	if err != nil {
		return nil, storeErr("open", err)
	}

	s := &Store{dbPath: dbPath, db: d}
	if err := s.initializeSchema(ctx); err != nil {
		d.Close()
		return nil, storeErr("open", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initializeSchema(ctx context.Context) error {
	statements := []string{
		createSchemaVersionTable,
		createRemoteSkillsTable,
		createLocalSkillsTable,
		createSearchHistoryTable,
		createIndexRemoteName,
		createIndexRemoteSource,
		createIndexLocalName,
		createIndexSearchCreatedAt,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to initialize schema")
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO schema_version (version, applied_at, description) VALUES (?, ?, ?)`,
		CurrentSchemaVersion, time.Now().UTC().Format(time.RFC3339), "initial catalogue schema")
	return errors.Wrap(err, "failed to record schema version")
}

// remoteRow is the database shape of a cached remote skill.
type remoteRow struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Source       string `db:"source"`
	Description  string `db:"description"`
	Author       string `db:"author"`
	URL          string `db:"url"`
	RepoURL      string `db:"repo_url"`
	MetadataJSON string `db:"metadata_json"`
	CachedAt     string `db:"cached_at"`
	CreatedAt    string `db:"created_at"`
}

func (r *remoteRow) toMetadata() (*skill.Metadata, error) {
	md := &skill.Metadata{}
	if err := json.Unmarshal([]byte(r.MetadataJSON), md); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal cached metadata")
	}
	md.Name = r.Name
	md.Source = skill.ParseSourceType(r.Source)
	md.Description = r.Description
	md.Author = r.Author
	md.URL = r.URL
	md.RepoURL = r.RepoURL
	if ts, err := time.Parse(time.RFC3339, r.CachedAt); err == nil {
		md.CachedAt = ts
	}
	return md, nil
}

// UpsertRemote caches remote skill metadata, replacing any previous row
// for the same (source, name).
func (s *Store) UpsertRemote(ctx context.Context, md *skill.Metadata) error {
	detail, err := json.Marshal(md)
	if err != nil {
		return storeErr("upsert_remote", errors.Wrap(err, "failed to marshal metadata"))
	}

	now := time.Now().UTC().Format(time.RFC3339)
	cachedAt := now
	if !md.CachedAt.IsZero() {
		cachedAt = md.CachedAt.UTC().Format(time.RFC3339)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO remote_skills
		(id, name, source, description, author, url, repo_url, metadata_json, cached_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		md.ID(), md.Name, string(md.Source), md.Description, md.Author,
		md.URL, md.RepoURL, string(detail), cachedAt, now)
	return storeErr("upsert_remote", err)
}

// GetRemote returns the cached metadata for (source, name), or nil when
// the cache has no row.
func (s *Store) GetRemote(ctx context.Context, source skill.SourceType, name string) (*skill.Metadata, error) {
	id := string(source) + ":" + strings.ToLower(name)

	var row remoteRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM remote_skills WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get_remote", err)
	}

	md, err := row.toMetadata()
	if err != nil {
		return nil, storeErr("get_remote", err)
	}
	return md, nil
}

// ListRemote returns all cached remote skills, optionally restricted to a
// single source.
func (s *Store) ListRemote(ctx context.Context, source skill.SourceType) ([]*skill.Metadata, error) {
	query := `SELECT * FROM remote_skills ORDER BY source, name`
	args := []any{}
	if source != "" {
		query = `SELECT * FROM remote_skills WHERE source = ? ORDER BY name`
		args = append(args, string(source))
	}

	var rows []remoteRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, storeErr("list_remote", err)
	}
	return rowsToMetadata(rows)
}

// SearchRemote returns cached remote skills whose name or description
// contains the query, case-insensitively.
func (s *Store) SearchRemote(ctx context.Context, query string, source skill.SourceType) ([]*skill.Metadata, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	sqlQuery := `SELECT * FROM remote_skills WHERE (lower(name) LIKE ? OR lower(description) LIKE ?)`
	args := []any{pattern, pattern}
	if source != "" {
		sqlQuery += ` AND source = ?`
		args = append(args, string(source))
	}
	sqlQuery += ` ORDER BY source, name`

	var rows []remoteRow
	if err := s.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, storeErr("search_remote", err)
	}
	return rowsToMetadata(rows)
}

func rowsToMetadata(rows []remoteRow) ([]*skill.Metadata, error) {
	out := make([]*skill.Metadata, 0, len(rows))
	for i := range rows {
		md, err := rows[i].toMetadata()
		if err != nil {
			return nil, storeErr("decode_remote", err)
		}
		out = append(out, md)
	}
	return out, nil
}

// LocalSkill is one entry of the local catalogue inventory.
type LocalSkill struct {
	Name        string
	Path        string
	Description string
	Triggers    map[string][]string
	Tags        []string
	LastScanned time.Time
}

// ToMetadata renders the inventory entry as skill metadata for overlap
// detection.
func (l *LocalSkill) ToMetadata() *skill.Metadata {
	return &skill.Metadata{
		Name:        l.Name,
		Source:      skill.SourceLocal,
		Description: l.Description,
		URL:         l.Path,
		Triggers:    l.Triggers,
		Tags:        l.Tags,
	}
}

type localRow struct {
	Name         string `db:"name"`
	Path         string `db:"path"`
	Description  string `db:"description"`
	TriggersJSON string `db:"triggers_json"`
	TagsJSON     string `db:"tags_json"`
	LastScanned  string `db:"last_scanned"`
}

func (r *localRow) toLocalSkill() (*LocalSkill, error) {
	l := &LocalSkill{
		Name:        r.Name,
		Path:        r.Path,
		Description: r.Description,
	}
	if err := json.Unmarshal([]byte(r.TriggersJSON), &l.Triggers); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal triggers")
	}
	if err := json.Unmarshal([]byte(r.TagsJSON), &l.Tags); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal tags")
	}
	if ts, err := time.Parse(time.RFC3339, r.LastScanned); err == nil {
		l.LastScanned = ts
	}
	return l, nil
}

// UpsertLocal records a scanned local skill.
func (s *Store) UpsertLocal(ctx context.Context, l *LocalSkill) error {
	triggers, err := json.Marshal(orEmptyTriggers(l.Triggers))
	if err != nil {
		return storeErr("upsert_local", err)
	}
	tags, err := json.Marshal(orEmptyList(l.Tags))
	if err != nil {
		return storeErr("upsert_local", err)
	}

	scanned := l.LastScanned
	if scanned.IsZero() {
		scanned = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO local_skills
		(name, path, description, triggers_json, tags_json, last_scanned)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.Name, l.Path, l.Description, string(triggers), string(tags),
		scanned.UTC().Format(time.RFC3339))
	return storeErr("upsert_local", err)
}

func orEmptyTriggers(t map[string][]string) map[string][]string {
	if t == nil {
		return map[string][]string{}
	}
	return t
}

func orEmptyList(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}

// GetLocal returns a local inventory entry by canonical name, or nil when
// the inventory has no such skill.
func (s *Store) GetLocal(ctx context.Context, name string) (*LocalSkill, error) {
	var row localRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM local_skills WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get_local", err)
	}
	return decodeLocal(&row)
}

func decodeLocal(row *localRow) (*LocalSkill, error) {
	l, err := row.toLocalSkill()
	if err != nil {
		return nil, storeErr("decode_local", err)
	}
	return l, nil
}

// ListLocal returns the full local inventory in name order.
func (s *Store) ListLocal(ctx context.Context) ([]*LocalSkill, error) {
	var rows []localRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM local_skills ORDER BY name`); err != nil {
		return nil, storeErr("list_local", err)
	}
	out := make([]*LocalSkill, 0, len(rows))
	for i := range rows {
		l, err := decodeLocal(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// SearchLocal returns local skills whose name or description contains the
// query, case-insensitively.
func (s *Store) SearchLocal(ctx context.Context, query string) ([]*LocalSkill, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var rows []localRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM local_skills WHERE lower(name) LIKE ? OR lower(description) LIKE ? ORDER BY name`,
		pattern, pattern)
	if err != nil {
		return nil, storeErr("search_local", err)
	}
	out := make([]*LocalSkill, 0, len(rows))
	for i := range rows {
		l, err := decodeLocal(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// SearchRecord is one row of the append-only search history.
type SearchRecord struct {
	ID          string
	Query       string
	Sources     []string
	ResultCount int
	Timestamp   time.Time
}

type searchRow struct {
	ID          string `db:"id"`
	Query       string `db:"query"`
	SourcesJSON string `db:"sources_json"`
	ResultCount int    `db:"result_count"`
	CreatedAt   string `db:"created_at"`
}

// SaveSearch appends a search to the history log.
func (s *Store) SaveSearch(ctx context.Context, query string, sources []string, resultCount int) error {
	sourcesJSON, err := json.Marshal(orEmptyList(sources))
	if err != nil {
		return storeErr("save_search", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO search_history (id, query, sources_json, result_count, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), query, string(sourcesJSON), resultCount,
		time.Now().UTC().Format(time.RFC3339))
	return storeErr("save_search", err)
}

// RecentSearches returns the most recent history rows, newest first.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]*SearchRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []searchRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM search_history ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, storeErr("recent_searches", err)
	}

	out := make([]*SearchRecord, 0, len(rows))
	for _, row := range rows {
		rec := &SearchRecord{
			ID:          row.ID,
			Query:       row.Query,
			ResultCount: row.ResultCount,
		}
		if err := json.Unmarshal([]byte(row.SourcesJSON), &rec.Sources); err != nil {
			return nil, storeErr("recent_searches", err)
		}
		if ts, err := time.Parse(time.RFC3339, row.CreatedAt); err == nil {
			rec.Timestamp = ts
		}
		out = append(out, rec)
	}
	return out, nil
}

// CleanupOlderThan evicts remote cache rows whose cached_at is older than
// the retention window. Returns the number of evicted rows.
func (s *Store) CleanupOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention).Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `DELETE FROM remote_skills WHERE cached_at < ?`, cutoff)
	if err != nil {
		return 0, storeErr("cleanup", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("cleanup", err)
	}
	return n, nil
}

// Stats summarises the catalogue contents.
type Stats struct {
	RemoteSkills   int
	LocalSkills    int
	Searches       int
	RemoteBySource map[skill.SourceType]int
}

// Stats returns totals broken down by source.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{RemoteBySource: make(map[skill.SourceType]int)}

	if err := s.db.GetContext(ctx, &st.RemoteSkills, `SELECT COUNT(*) FROM remote_skills`); err != nil {
		return nil, storeErr("stats", err)
	}
	if err := s.db.GetContext(ctx, &st.LocalSkills, `SELECT COUNT(*) FROM local_skills`); err != nil {
		return nil, storeErr("stats", err)
	}
	if err := s.db.GetContext(ctx, &st.Searches, `SELECT COUNT(*) FROM search_history`); err != nil {
		return nil, storeErr("stats", err)
	}

	rows, err := s.db.QueryxContext(ctx, `SELECT source, COUNT(*) FROM remote_skills GROUP BY source`)
	if err != nil {
		return nil, storeErr("stats", err)
	}
	defer rows.Close()
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, storeErr("stats", err)
		}
		st.RemoteBySource[skill.ParseSourceType(source)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("stats", err)
	}

	return st, nil
}
