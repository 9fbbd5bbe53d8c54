package domain

import "errors"

// ErrProjectExists is reported when creating a project whose slug directory
// already exists on disk.
var ErrProjectExists = errors.New("project already exists")

// ErrProjectNotFound is reported when a named project has no directory.
var ErrProjectNotFound = errors.New("project not found")

// ProjectMetadata is the small mutable document stored as project.json.
// It is rewritten wholesale on every change; last writer wins.
type ProjectMetadata struct {
	Name        string   `json:"name"`
	Created     string   `json:"created"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	PromptCount int      `json:"prompt_count,omitempty"`
}

// SlugifyProjectName derives the filesystem-safe directory name for a
// project. Alphanumerics, '-' and '_' are kept with case preserved; every
// other rune becomes '_'. Case is deliberately preserved, so "My Project"
// and "my project" slug to distinct directories.
func SlugifyProjectName(name string) string {
	slug := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			slug = append(slug, r)
		default:
			slug = append(slug, '_')
		}
	}
	return string(slug)
}
