package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPortfolio(t *testing.T) {
	p := Default()
	if p.Caption == "" {
		t.Fatalf("expected default caption")
	}
	if len(p.Sections) == 0 {
		t.Fatalf("expected default sections")
	}
	if p.Sections[0].ID != "about" || !p.Sections[0].Refiner {
		t.Fatalf("expected about section to host the refiner: %+v", p.Sections[0])
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")
	data := "caption: hi\nsections:\n  - id: work\n    body: |\n      line one\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Caption != "hi" || len(p.Sections) != 1 {
		t.Fatalf("unexpected portfolio: %+v", p)
	}
	if p.Sections[0].Title != "work" {
		t.Fatalf("expected title to default to id, got %q", p.Sections[0].Title)
	}
	if p.Sections[0].Body != "line one" {
		t.Fatalf("expected trailing newline trimmed, got %q", p.Sections[0].Body)
	}
}

func TestParseRejectsBadSections(t *testing.T) {
	cases := map[string]string{
		"missing id": "sections:\n  - title: x\n",
		"duplicate":  "sections:\n  - id: a\n  - id: a\n",
		"reserved":   "sections:\n  - id: home\n",
		"refiners":   "sections:\n  - id: a\n    refiner: true\n  - id: b\n    refiner: true\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}
