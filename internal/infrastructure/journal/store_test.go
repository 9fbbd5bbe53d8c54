package journal_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/promptalchemy/alchemy-go/internal/infrastructure/journal"
)

var textFields = []string{"original_prompt", "enhanced_prompt"}

func newStore(t *testing.T) *journal.Store {
	t.Helper()
	return journal.New(filepath.Join(t.TempDir(), "log.jsonl"), textFields, nil)
}

func TestStore_AppendInjectsTimestamp(t *testing.T) {
	store := newStore(t)

	if err := store.Append(journal.Record{"original_prompt": "a", "enhanced_prompt": "b"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := store.ReadAll(1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0]["original_prompt"] != "a" {
		t.Errorf("got original_prompt %v, want a", records[0]["original_prompt"])
	}
	ts := records[0].Timestamp()
	if ts == "" {
		t.Fatal("timestamp not injected")
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("timestamp %q not RFC3339: %v", ts, err)
	}
}

func TestStore_AppendKeepsExistingTimestamp(t *testing.T) {
	store := newStore(t)

	if err := store.Append(journal.Record{"timestamp": "2023-01-02T03:04:05Z"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := store.ReadAll(0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := records[0].Timestamp(); got != "2023-01-02T03:04:05Z" {
		t.Errorf("got timestamp %q, want original preserved", got)
	}
}

func TestStore_ReadAllOrdersByTimestampDescending(t *testing.T) {
	store := newStore(t)

	// Appended out of chronological order on purpose.
	for _, ts := range []string{"2024-05-01T00:00:00Z", "2024-06-01T00:00:00Z", "2024-04-01T00:00:00Z"} {
		if err := store.Append(journal.Record{"timestamp": ts}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	records, err := store.ReadAll(0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	want := []string{"2024-06-01T00:00:00Z", "2024-05-01T00:00:00Z", "2024-04-01T00:00:00Z"}
	for i, ts := range want {
		if records[i].Timestamp() != ts {
			t.Errorf("position %d: got %q, want %q", i, records[i].Timestamp(), ts)
		}
	}
}

func TestStore_ReadAllLimit(t *testing.T) {
	store := newStore(t)
	for i := 0; i < 5; i++ {
		if err := store.Append(journal.Record{"n": i}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	records, err := store.ReadAll(2)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestStore_ReadAllSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.jsonl")
	content := `{"timestamp":"2024-01-01T00:00:00Z","original_prompt":"first"}
not json at all {{{
{"timestamp":"2024-01-02T00:00:00Z","original_prompt":"second"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	store := journal.New(path, textFields, nil)
	records, err := store.ReadAll(0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (malformed line skipped)", len(records))
	}
	if records[0]["original_prompt"] != "second" {
		t.Errorf("got %v first, want most recent record", records[0]["original_prompt"])
	}
}

func TestStore_ReadAllMissingFile(t *testing.T) {
	store := newStore(t)
	records, err := store.ReadAll(0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if records != nil {
		t.Errorf("got %v, want nil for missing file", records)
	}
}

func TestStore_Search(t *testing.T) {
	store := newStore(t)
	seed := []journal.Record{
		{"timestamp": "2024-01-01T00:00:00Z", "original_prompt": "write a Foo parser", "provider": "openai", "model": "gpt-4o"},
		{"timestamp": "2024-02-01T00:00:00Z", "original_prompt": "summarize text", "enhanced_prompt": "please summarize the foo report", "provider": "anthropic", "model": "claude-3-5-sonnet"},
		{"timestamp": "2024-03-01T00:00:00Z", "original_prompt": "translate", "provider": "openai", "model": "gpt-4o-mini"},
	}
	for _, rec := range seed {
		if err := store.Append(rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter journal.Filter
		want   int
	}{
		{
			name:   "no filters returns everything",
			filter: journal.Filter{},
			want:   3,
		},
		{
			name:   "free text is case-insensitive over text fields",
			filter: journal.Filter{Query: "foo"},
			want:   2,
		},
		{
			name:   "query does not match categorical fields",
			filter: journal.Filter{Query: "openai"},
			want:   0,
		},
		{
			name:   "equality on provider",
			filter: journal.Filter{Equals: map[string]string{"provider": "openai"}},
			want:   2,
		},
		{
			name:   "equality on provider and model",
			filter: journal.Filter{Equals: map[string]string{"provider": "openai", "model": "gpt-4o"}},
			want:   1,
		},
		{
			name:   "inclusive timestamp range",
			filter: journal.Filter{Since: "2024-02-01T00:00:00Z", Until: "2024-03-01T00:00:00Z"},
			want:   2,
		},
		{
			name:   "filters are ANDed",
			filter: journal.Filter{Query: "foo", Equals: map[string]string{"provider": "openai"}},
			want:   1,
		},
		{
			name:   "limit caps matches",
			filter: journal.Filter{Limit: 1},
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Search(tt.filter)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d matches, want %d", len(got), tt.want)
			}
		})
	}
}

func TestStore_SearchOrderMatchesReadAll(t *testing.T) {
	store := newStore(t)
	for _, ts := range []string{"2024-05-01T00:00:00Z", "2024-06-01T00:00:00Z"} {
		if err := store.Append(journal.Record{"timestamp": ts}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := store.ReadAll(0)
	if err != nil {
		t.Fatal(err)
	}
	searched, err := store.Search(journal.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(searched) {
		t.Fatalf("length mismatch: %d vs %d", len(all), len(searched))
	}
	for i := range all {
		if all[i].Timestamp() != searched[i].Timestamp() {
			t.Errorf("position %d: %q vs %q", i, all[i].Timestamp(), searched[i].Timestamp())
		}
	}
}

func TestStore_Clear(t *testing.T) {
	store := newStore(t)
	if err := store.Append(journal.Record{"x": 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("backing file still exists after clear")
	}
	// Clearing an already-missing file is not an error.
	if err := store.Clear(); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestStore_ExportArray(t *testing.T) {
	store := newStore(t)
	for _, ts := range []string{"2024-01-01T00:00:00Z", "2024-02-01T00:00:00Z"} {
		if err := store.Append(journal.Record{"timestamp": ts}); err != nil {
			t.Fatal(err)
		}
	}

	dest := filepath.Join(t.TempDir(), "export.json")
	if err := store.Export(dest, journal.FormatArray); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("export is not a JSON array: %v", err)
	}
	if len(decoded) != 2 {
		t.Errorf("got %d exported records, want 2", len(decoded))
	}
}

func TestStore_ExportLines(t *testing.T) {
	store := newStore(t)
	for i := 0; i < 3; i++ {
		if err := store.Append(journal.Record{"n": i}); err != nil {
			t.Fatal(err)
		}
	}

	dest := filepath.Join(t.TempDir(), "export.jsonl")
	if err := store.Export(dest, journal.FormatLines); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for _, line := range lines {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Errorf("line %q is not valid JSON: %v", line, err)
		}
	}
}

func TestStore_ExportUnknownFormat(t *testing.T) {
	store := newStore(t)
	if err := store.Export(filepath.Join(t.TempDir(), "x"), "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestStore_Count(t *testing.T) {
	store := newStore(t)
	if got := store.Count(); got != 0 {
		t.Errorf("empty store count = %d, want 0", got)
	}
	for i := 0; i < 4; i++ {
		if err := store.Append(journal.Record{"n": i}); err != nil {
			t.Fatal(err)
		}
	}
	if got := store.Count(); got != 4 {
		t.Errorf("count = %d, want 4", got)
	}
}
