package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// SQLiteStore persists enhancement results in a SQLite database. When the
// database cannot be opened it degrades to the JSONL store next to it, so
// history keeps working on platforms where SQLite misbehaves.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	fallback *FileStore
	mu       sync.Mutex
	log      ports.Logger
}

// NewSQLiteStore creates (or opens) the database at dbPath. fallbackPath
// names the JSONL file used when the database is unavailable.
func NewSQLiteStore(dbPath, fallbackPath string, log ports.Logger) *SQLiteStore {
	store := &SQLiteStore{
		path:     dbPath,
		fallback: NewFileStore(fallbackPath, log),
		log:      log,
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), domain.DirectoryPermissions); err != nil {
		if log != nil {
			log.Warn("history database unavailable, using jsonl", map[string]interface{}{"error": err.Error()})
		}
		return store
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		if log != nil {
			log.Warn("history database unavailable, using jsonl", map[string]interface{}{"error": err.Error()})
		}
		return store
	}
	store.db = db
	if err := store.init(); err != nil {
		if log != nil {
			log.Warn("history schema init failed, using jsonl", map[string]interface{}{"error": err.Error()})
		}
		db.Close()
		store.db = nil
	}
	return store
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS enhancements (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		original_prompt TEXT NOT NULL,
		enhanced_prompt TEXT NOT NULL,
		provider TEXT,
		model TEXT,
		settings TEXT,
		tokens_used INTEGER,
		duration_seconds REAL,
		project TEXT
	);`)
	return err
}

// Save inserts a new result, assigning ID and timestamp when absent.
func (s *SQLiteStore) Save(result domain.EnhanceResult) error {
	if s.db == nil {
		return s.fallback.Save(result)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.Timestamp == "" {
		result.Timestamp = time.Now().UTC().Format(domain.TimestampFormat)
	}
	settings, err := json.Marshal(result.Settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO enhancements
		(id, timestamp, original_prompt, enhanced_prompt, provider, model, settings, tokens_used, duration_seconds, project)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		result.Timestamp,
		result.OriginalPrompt,
		result.EnhancedPrompt,
		result.Provider,
		result.Model,
		string(settings),
		result.TokensUsed,
		result.DurationSeconds,
		result.Project,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// Records returns entries most recent first; limit <= 0 means all.
func (s *SQLiteStore) Records(limit int) ([]domain.EnhanceResult, error) {
	if s.db == nil {
		return s.fallback.Records(limit)
	}
	return s.query(ports.HistoryFilter{Limit: limit})
}

// Search filters entries; all supplied filter fields are ANDed.
func (s *SQLiteStore) Search(filter ports.HistoryFilter) ([]domain.EnhanceResult, error) {
	if s.db == nil {
		return s.fallback.Search(filter)
	}
	return s.query(filter)
}

// EntryByIndex returns the record at the given position, 0 being the most
// recent.
func (s *SQLiteStore) EntryByIndex(index int) (domain.EnhanceResult, bool, error) {
	if s.db == nil {
		return s.fallback.EntryByIndex(index)
	}
	if index < 0 {
		return domain.EnhanceResult{}, false, nil
	}
	results, err := s.query(ports.HistoryFilter{Limit: index + 1})
	if err != nil {
		return domain.EnhanceResult{}, false, err
	}
	if index >= len(results) {
		return domain.EnhanceResult{}, false, nil
	}
	return results[index], true, nil
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback.Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM enhancements")
	return err
}

// Export writes a full snapshot; format is "array" or "lines".
func (s *SQLiteStore) Export(path, format string) error {
	if s.db == nil {
		return s.fallback.Export(path, format)
	}
	results, err := s.Records(0)
	if err != nil {
		return err
	}
	if results == nil {
		results = []domain.EnhanceResult{}
	}
	switch format {
	case "array":
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("encode export: %w", err)
		}
		return os.WriteFile(path, data, domain.FilePermissions)
	case "lines":
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export: %w", err)
		}
		defer file.Close()
		for _, result := range results {
			data, err := json.Marshal(result)
			if err != nil {
				return fmt.Errorf("encode record: %w", err)
			}
			if _, err := file.Write(append(data, '\n')); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown export format: %q", format)
	}
}

// Path returns the database path, or the JSONL path when degraded.
func (s *SQLiteStore) Path() string {
	if s.db == nil {
		return s.fallback.Path()
	}
	return s.path
}

func (s *SQLiteStore) query(filter ports.HistoryFilter) ([]domain.EnhanceResult, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT id, timestamp, original_prompt, enhanced_prompt, provider, model, settings, tokens_used, duration_seconds, project FROM enhancements`)
	var clauses []string
	var args []interface{}
	if filter.Query != "" {
		clauses = append(clauses, "(original_prompt LIKE ? OR enhanced_prompt LIKE ?)")
		pattern := "%" + filter.Query + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Provider != "" {
		clauses = append(clauses, "provider = ?")
		args = append(args, domain.NormalizeProviderID(filter.Provider))
	}
	if filter.Model != "" {
		clauses = append(clauses, "model = ?")
		args = append(args, filter.Model)
	}
	if filter.Since != "" {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since)
	}
	if filter.Until != "" {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, filter.Until)
	}
	if len(clauses) > 0 {
		builder.WriteString(" WHERE " + strings.Join(clauses, " AND "))
	}
	builder.WriteString(" ORDER BY timestamp DESC")
	if filter.Limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var results []domain.EnhanceResult
	for rows.Next() {
		var result domain.EnhanceResult
		var settings sql.NullString
		var provider, model, project sql.NullString
		if err := rows.Scan(&result.ID, &result.Timestamp, &result.OriginalPrompt, &result.EnhancedPrompt,
			&provider, &model, &settings, &result.TokensUsed, &result.DurationSeconds, &project); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		result.Provider = provider.String
		result.Model = model.String
		result.Project = project.String
		if settings.Valid && settings.String != "" {
			_ = json.Unmarshal([]byte(settings.String), &result.Settings)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
