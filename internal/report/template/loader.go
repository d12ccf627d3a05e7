// Package template holds the built-in report templates. The catalogue is
// embedded in the binary and decoded once on first use.
package template

import (
	"NYCU-SDC/survey-analytics-backend/internal"
	"NYCU-SDC/survey-analytics-backend/internal/report/shared"
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

type Template struct {
	ID          string                      `json:"id" yaml:"id"`
	Name        string                      `json:"name" yaml:"name"`
	Type        shared.ReportType           `json:"type" yaml:"type"`
	Description string                      `json:"description" yaml:"description"`
	Config      shared.ReportTemplateConfig `json:"config" yaml:"config"`
}

//go:embed templates.yaml
var templatesYAML []byte

var (
	once    sync.Once
	loadErr error
	cached  []Template
	byID    map[string]Template
)

func loadOnce() {
	templates, err := decode(templatesYAML)
	if err != nil {
		loadErr = fmt.Errorf("%w: %w", internal.ErrFailedToLoadTemplates, err)
		return
	}

	m := make(map[string]Template, len(templates))
	for _, t := range templates {
		m[t.ID] = t
	}

	cached = templates
	byID = m
}

func decode(data []byte) ([]Template, error) {
	var templates []Template

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&templates)
	if err != nil {
		return nil, fmt.Errorf("failed to decode templates.yaml: %w", err)
	}

	seen := make(map[string]struct{}, len(templates))
	for i, t := range templates {
		if t.ID == "" || t.Name == "" {
			return nil, fmt.Errorf("invalid template entry at index %d (empty id/name)", i)
		}
		if _, exists := seen[t.ID]; exists {
			return nil, fmt.Errorf("duplicated template id: %s", t.ID)
		}
		if t.Type != t.Config.Type {
			return nil, fmt.Errorf("template %s: type %q does not match config type %q", t.ID, t.Type, t.Config.Type)
		}
		seen[t.ID] = struct{}{}
	}

	return templates, nil
}

func List() ([]Template, error) {
	once.Do(loadOnce)
	if loadErr != nil {
		return nil, loadErr
	}
	return cached, nil
}

// Get returns the template with the given id, or ErrTemplateNotFound.
func Get(id string) (Template, error) {
	once.Do(loadOnce)
	if loadErr != nil {
		return Template{}, loadErr
	}

	t, ok := byID[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", internal.ErrTemplateNotFound, id)
	}
	return t, nil
}
