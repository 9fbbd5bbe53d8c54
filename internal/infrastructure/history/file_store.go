// Package history persists enhancement results. Two backends implement
// ports.HistoryRepository: a JSONL journal (the default) and a SQLite
// database selected via the history.backend config key.
package history

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/infrastructure/journal"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// textFields are the record fields matched by free-text history search.
var textFields = []string{"original_prompt", "enhanced_prompt"}

// FileStore persists enhancement results to a JSONL journal.
type FileStore struct {
	journal *journal.Store
}

// NewFileStore creates a history store over the given JSONL file.
func NewFileStore(path string, log ports.Logger) *FileStore {
	return &FileStore{journal: journal.New(path, textFields, log)}
}

// Save appends one result, assigning an ID when the caller did not.
func (f *FileStore) Save(result domain.EnhanceResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	rec, err := toRecord(result)
	if err != nil {
		return err
	}
	return f.journal.Append(rec)
}

// Records returns entries most recent first; limit <= 0 means all.
func (f *FileStore) Records(limit int) ([]domain.EnhanceResult, error) {
	recs, err := f.journal.ReadAll(limit)
	if err != nil {
		return nil, err
	}
	return fromRecords(recs), nil
}

// Search filters entries; all supplied filter fields are ANDed.
func (f *FileStore) Search(filter ports.HistoryFilter) ([]domain.EnhanceResult, error) {
	equals := map[string]string{}
	if filter.Provider != "" {
		equals["provider"] = domain.NormalizeProviderID(filter.Provider)
	}
	if filter.Model != "" {
		equals["model"] = filter.Model
	}
	recs, err := f.journal.Search(journal.Filter{
		Query:  filter.Query,
		Equals: equals,
		Since:  filter.Since,
		Until:  filter.Until,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	return fromRecords(recs), nil
}

// EntryByIndex returns the record at the given position, 0 being the most
// recent.
func (f *FileStore) EntryByIndex(index int) (domain.EnhanceResult, bool, error) {
	if index < 0 {
		return domain.EnhanceResult{}, false, nil
	}
	results, err := f.Records(0)
	if err != nil {
		return domain.EnhanceResult{}, false, err
	}
	if index >= len(results) {
		return domain.EnhanceResult{}, false, nil
	}
	return results[index], true, nil
}

// Clear removes the history file. A missing file is not an error.
func (f *FileStore) Clear() error {
	return f.journal.Clear()
}

// Export writes a full snapshot; format is "array" or "lines".
func (f *FileStore) Export(path, format string) error {
	return f.journal.Export(path, format)
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.journal.Path()
}

// toRecord converts a result to an opaque journal record through its JSON
// form, so the persisted shape matches the one the journal searches.
func toRecord(result domain.EnhanceResult) (journal.Record, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	var rec journal.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return rec, nil
}

func fromRecord(rec journal.Record) domain.EnhanceResult {
	var result domain.EnhanceResult
	data, err := json.Marshal(rec)
	if err != nil {
		return result
	}
	_ = json.Unmarshal(data, &result)
	return result
}

func fromRecords(recs []journal.Record) []domain.EnhanceResult {
	if len(recs) == 0 {
		return nil
	}
	results := make([]domain.EnhanceResult, 0, len(recs))
	for _, rec := range recs {
		results = append(results, fromRecord(rec))
	}
	return results
}

var _ ports.HistoryRepository = (*FileStore)(nil)
