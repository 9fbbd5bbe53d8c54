// Package projects manages named prompt collections. Each project is a
// directory under the config dir holding a small metadata document and an
// append-only prompts journal.
package projects

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// Manager implements ports.ProjectRepository over a projects root directory.
type Manager struct {
	root string
	log  ports.Logger
}

// NewManager creates a repository rooted at dir, typically
// <config>/projects.
func NewManager(dir string, log ports.Logger) *Manager {
	return &Manager{root: dir, log: log}
}

// Create makes a new project directory and writes its initial metadata.
// A project whose slug directory already exists is an error.
func (m *Manager) Create(name string) (ports.Project, error) {
	slug := domain.SlugifyProjectName(name)
	if slug == "" {
		return nil, fmt.Errorf("invalid project name %q", name)
	}
	dir := filepath.Join(m.root, slug)
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrProjectExists)
	}
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return nil, fmt.Errorf("create project dir: %w", err)
	}
	proj := newProject(dir, m.log)
	meta := domain.ProjectMetadata{
		Name:    name,
		Created: time.Now().UTC().Format(domain.TimestampFormat),
		Tags:    []string{},
	}
	if err := proj.writeMetadata(meta); err != nil {
		return nil, err
	}
	if m.log != nil {
		m.log.Info("project created", map[string]interface{}{"name": name, "dir": dir})
	}
	return proj, nil
}

// Get opens an existing project by name. The lookup is by slug, so any name
// that slugs to the same directory finds the project.
func (m *Manager) Get(name string) (ports.Project, bool) {
	dir := filepath.Join(m.root, domain.SlugifyProjectName(name))
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, false
	}
	return newProject(dir, m.log), true
}

// List returns metadata for every project, newest first, with prompt counts
// filled in.
func (m *Manager) List() ([]domain.ProjectMetadata, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var metas []domain.ProjectMetadata
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		proj := newProject(filepath.Join(m.root, entry.Name()), m.log)
		meta := proj.Metadata()
		if meta.Name == "" {
			meta.Name = entry.Name()
		}
		meta.PromptCount = proj.prompts.Count()
		metas = append(metas, meta)
	}
	sort.SliceStable(metas, func(i, j int) bool {
		return metas[i].Created > metas[j].Created
	})
	return metas, nil
}

// Delete removes a project directory and everything in it.
func (m *Manager) Delete(name string) error {
	dir := filepath.Join(m.root, domain.SlugifyProjectName(name))
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%q: %w", name, domain.ErrProjectNotFound)
		}
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if m.log != nil {
		m.log.Info("project deleted", map[string]interface{}{"name": name})
	}
	return nil
}

// export is the document shape written by Project.Export.
type export struct {
	Metadata domain.ProjectMetadata `json:"metadata"`
	Prompts  []domain.EnhanceResult `json:"prompts"`
}

var _ ports.ProjectRepository = (*Manager)(nil)
