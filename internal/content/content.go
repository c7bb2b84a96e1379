// Package content loads the portfolio caption and sections.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/datafolio/internal/model"
	"github.com/verte-zerg/datafolio/internal/view"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalid reports a portfolio document that cannot be rendered.
var ErrInvalid = errors.New("invalid portfolio")

// Portfolio is the content of the page.
type Portfolio struct {
	Caption  string          `yaml:"caption"`
	Sections []model.Section `yaml:"sections"`
}

// Default returns the embedded portfolio.
func Default() Portfolio {
	p, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded portfolio: %v", err))
	}
	return p
}

// Load reads a portfolio from path. An empty path yields the embedded default.
func Load(path string) (Portfolio, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Portfolio{}, fmt.Errorf("failed to read portfolio: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML portfolio.
func Parse(data []byte) (Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Portfolio{}, fmt.Errorf("failed to decode portfolio: %w", err)
	}
	for i := range p.Sections {
		p.Sections[i].ID = strings.TrimSpace(p.Sections[i].ID)
		p.Sections[i].Body = strings.TrimRight(p.Sections[i].Body, "\n")
		if p.Sections[i].Title == "" {
			p.Sections[i].Title = p.Sections[i].ID
		}
	}
	if err := p.Validate(); err != nil {
		return Portfolio{}, err
	}
	return p, nil
}

// Validate checks section ids: non-empty, unique, not reserved by the page.
func (p Portfolio) Validate() error {
	reserved := map[string]struct{}{
		view.HomeTarget: {}, view.IntroWrap: {}, view.IntroPrompt: {}, view.LoadingProgress: {},
		view.MainContent: {}, view.DatastreamBG: {}, view.BioInput: {}, view.GenerateButton: {},
		view.LoadingSpinner: {}, view.GeneratedOutput: {},
	}
	seen := map[string]struct{}{}
	refiners := 0
	for i, s := range p.Sections {
		if s.ID == "" {
			return fmt.Errorf("%w: section %d has no id", ErrInvalid, i+1)
		}
		if _, ok := reserved[s.ID]; ok {
			return fmt.Errorf("%w: section id %q is reserved", ErrInvalid, s.ID)
		}
		if _, ok := seen[s.ID]; ok {
			return fmt.Errorf("%w: duplicate section id %q", ErrInvalid, s.ID)
		}
		seen[s.ID] = struct{}{}
		if s.Refiner {
			refiners++
		}
	}
	if refiners > 1 {
		return fmt.Errorf("%w: only one section may host the refiner", ErrInvalid)
	}
	return nil
}
