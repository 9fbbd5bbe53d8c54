// Package journal implements an append-only, newline-delimited JSON record
// store with timestamp-descending retrieval, predicate search and bulk
// export. It backs both the enhancement history and per-project prompt
// collections.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// Record is one opaque log entry. Every persisted record carries at least a
// "timestamp" field, injected at append time when absent.
type Record map[string]any

// Timestamp returns the record's timestamp string, empty when missing or not
// a string. Malformed timestamps sort as empty, i.e. oldest.
func (r Record) Timestamp() string {
	ts, _ := r["timestamp"].(string)
	return ts
}

// Export formats accepted by Store.Export.
const (
	FormatArray = "array"
	FormatLines = "lines"
)

// Store is a JSONL-backed append-only log. Appends are serialized by a
// process-local mutex; reads reparse the whole file every call. There is no
// cross-process locking: concurrent appends from other processes interleave
// at line granularity, which is safe for this record size.
type Store struct {
	path       string
	textFields []string
	mu         sync.Mutex
	log        ports.Logger
}

// New creates a store over the given JSONL file. textFields designates the
// record fields searched by free-text queries.
func New(path string, textFields []string, log ports.Logger) *Store {
	return &Store{path: path, textFields: textFields, log: log}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Append writes one record as one line, injecting a timestamp when the
// record has none. The file is opened in append mode and closed per call;
// there is no batching and no fsync (crash may truncate the last line).
func (s *Store) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Timestamp() == "" {
		rec["timestamp"] = time.Now().UTC().Format(domain.TimestampFormat)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}
	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.FilePermissions)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	data = append(data, '\n')
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// ReadAll returns records ordered by timestamp descending. limit <= 0 means
// all. Lines that fail to parse are skipped with a warning; partial
// corruption never blocks access to the remaining records.
func (s *Store) ReadAll(limit int) ([]Record, error) {
	records, err := s.load()
	if err != nil {
		return nil, err
	}
	sortByTimestampDesc(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Search returns the records matching the filter, most recent first. All
// supplied constraints are ANDed; a zero filter returns everything ReadAll
// returns, in the same order.
func (s *Store) Search(f Filter) ([]Record, error) {
	records, err := s.load()
	if err != nil {
		return nil, err
	}
	sortByTimestampDesc(records)

	var matched []Record
	for _, rec := range records {
		if !f.matches(rec, s.textFields) {
			continue
		}
		matched = append(matched, rec)
		if f.Limit > 0 && len(matched) >= f.Limit {
			break
		}
	}
	return matched, nil
}

// Clear deletes the backing file. A missing file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear journal: %w", err)
	}
	return nil
}

// Count returns the number of lines in the backing file without parsing
// them. Used for cheap prompt counts in project listings.
func (s *Store) Count() int {
	file, err := os.Open(s.path)
	if err != nil {
		return 0
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			count++
		}
	}
	return count
}

// Export writes a full snapshot of the log to path. FormatArray produces a
// single indented JSON array document; FormatLines produces JSONL.
func (s *Store) Export(path, format string) error {
	records, err := s.ReadAll(0)
	if err != nil {
		return err
	}
	if records == nil {
		records = []Record{}
	}

	switch format {
	case FormatArray:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("encode export: %w", err)
		}
		return os.WriteFile(path, data, domain.FilePermissions)
	case FormatLines:
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export: %w", err)
		}
		defer file.Close()
		for _, rec := range records {
			data, err := json.Marshal(rec)
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

func (s *Store) load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read journal: %w", err)
	}

	var records []Record
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			if s.log != nil {
				s.log.Warn("skipping malformed journal line", map[string]interface{}{
					"path": s.path,
					"line": truncate(line, 50),
				})
			}
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// sortByTimestampDesc orders records newest first by lexicographic
// comparison of their timestamp strings. This is correct because the
// timestamps are RFC 3339, UTC-normalized and zero-padded; missing or
// malformed timestamps compare as empty and land last.
func sortByTimestampDesc(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp() > records[j].Timestamp()
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
