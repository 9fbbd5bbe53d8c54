package projects

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/infrastructure/journal"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

const (
	metadataFile = "project.json"
	promptsFile  = "prompts.jsonl"
)

// project is one collection on disk: a metadata document rewritten wholesale
// on every change, plus an append-only prompts journal.
type project struct {
	dir     string
	prompts *journal.Store
	log     ports.Logger
}

func newProject(dir string, log ports.Logger) *project {
	return &project{
		dir:     dir,
		prompts: journal.New(filepath.Join(dir, promptsFile), []string{"original_prompt", "enhanced_prompt"}, log),
		log:     log,
	}
}

// Name returns the project's display name, falling back to the directory
// name when the metadata document is missing or unreadable.
func (p *project) Name() string {
	if meta := p.Metadata(); meta.Name != "" {
		return meta.Name
	}
	return filepath.Base(p.dir)
}

// Metadata reads the metadata document. A missing or malformed document
// yields the zero value rather than an error.
func (p *project) Metadata() domain.ProjectMetadata {
	var meta domain.ProjectMetadata
	data, err := os.ReadFile(filepath.Join(p.dir, metadataFile))
	if err != nil {
		return meta
	}
	if err := json.Unmarshal(data, &meta); err != nil && p.log != nil {
		p.log.Warn("malformed project metadata", map[string]interface{}{"dir": p.dir, "error": err.Error()})
	}
	return meta
}

// SetDescription replaces the project description.
func (p *project) SetDescription(description string) error {
	meta := p.Metadata()
	meta.Description = description
	return p.writeMetadata(meta)
}

// AddTags appends tags, skipping ones already present.
func (p *project) AddTags(tags ...string) error {
	meta := p.Metadata()
	existing := make(map[string]bool, len(meta.Tags))
	for _, tag := range meta.Tags {
		existing[tag] = true
	}
	for _, tag := range tags {
		if tag == "" || existing[tag] {
			continue
		}
		meta.Tags = append(meta.Tags, tag)
		existing[tag] = true
	}
	return p.writeMetadata(meta)
}

// RemoveTags drops the named tags; unknown tags are ignored.
func (p *project) RemoveTags(tags ...string) error {
	meta := p.Metadata()
	drop := make(map[string]bool, len(tags))
	for _, tag := range tags {
		drop[tag] = true
	}
	kept := meta.Tags[:0]
	for _, tag := range meta.Tags {
		if !drop[tag] {
			kept = append(kept, tag)
		}
	}
	meta.Tags = kept
	return p.writeMetadata(meta)
}

// AddPrompt appends an enhancement result to the project journal, stamping
// it with the project's display name.
func (p *project) AddPrompt(result domain.EnhanceResult) error {
	result.Project = p.Name()
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode prompt: %w", err)
	}
	var rec journal.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decode prompt: %w", err)
	}
	return p.prompts.Append(rec)
}

// Prompts returns the project's enhancement results, most recent first.
func (p *project) Prompts() ([]domain.EnhanceResult, error) {
	recs, err := p.prompts.ReadAll(0)
	if err != nil {
		return nil, err
	}
	var results []domain.EnhanceResult
	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		var result domain.EnhanceResult
		if err := json.Unmarshal(data, &result); err != nil {
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

// Export writes a single JSON document combining metadata and prompts.
func (p *project) Export(path string) error {
	meta := p.Metadata()
	meta.PromptCount = p.prompts.Count()
	prompts, err := p.Prompts()
	if err != nil {
		return err
	}
	if prompts == nil {
		prompts = []domain.EnhanceResult{}
	}
	doc := export{Metadata: meta, Prompts: prompts}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return os.WriteFile(path, data, domain.FilePermissions)
}

func (p *project) writeMetadata(meta domain.ProjectMetadata) error {
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(p.dir, metadataFile), data, domain.FilePermissions); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

var _ ports.Project = (*project)(nil)
