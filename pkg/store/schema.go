package store

// SQL schema for the catalogue store

const (
	// SchemaVersion1 is the initial schema: remote cache, local
	// inventory, and search history tables with their indices.
	SchemaVersion1 = 1
	// CurrentSchemaVersion is the latest schema version
	CurrentSchemaVersion = SchemaVersion1
)

const createSchemaVersionTable = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at DATETIME NOT NULL,
    description TEXT
);
`

// remote_skills caches metadata fetched from upstream sources. A row is
// keyed by "<source>:<lowercase name>".
const createRemoteSkillsTable = `
CREATE TABLE IF NOT EXISTS remote_skills (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    source TEXT NOT NULL,
    description TEXT,
    author TEXT,
    url TEXT,
    repo_url TEXT,
    metadata_json TEXT NOT NULL,
    cached_at DATETIME NOT NULL,
    created_at DATETIME NOT NULL
);
`

// local_skills is the scanned inventory of the local catalogue.
const createLocalSkillsTable = `
CREATE TABLE IF NOT EXISTS local_skills (
    name TEXT PRIMARY KEY,
    path TEXT NOT NULL,
    description TEXT,
    triggers_json TEXT NOT NULL,
    tags_json TEXT NOT NULL,
    last_scanned DATETIME NOT NULL
);
`

// search_history is an append-only log of fan-out searches.
const createSearchHistoryTable = `
CREATE TABLE IF NOT EXISTS search_history (
    id TEXT PRIMARY KEY,
    query TEXT NOT NULL,
    sources_json TEXT NOT NULL,
    result_count INTEGER NOT NULL,
    created_at DATETIME NOT NULL
);
`

const createIndexRemoteName = `
CREATE INDEX IF NOT EXISTS idx_remote_skills_name ON remote_skills(name);
`

const createIndexRemoteSource = `
CREATE INDEX IF NOT EXISTS idx_remote_skills_source ON remote_skills(source);
`

const createIndexLocalName = `
CREATE INDEX IF NOT EXISTS idx_local_skills_name ON local_skills(name);
`

const createIndexSearchCreatedAt = `
CREATE INDEX IF NOT EXISTS idx_search_history_created_at ON search_history(created_at DESC);
`
