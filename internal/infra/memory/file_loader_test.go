package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSampleCatalogShape(t *testing.T) {
	data := SampleCatalog()
	if len(data.Levels) != 3 || len(data.Scenarios) != 6 || len(data.Badges) != 3 {
		t.Fatalf("unexpected sample catalog: %d levels, %d scenarios, %d badges",
			len(data.Levels), len(data.Scenarios), len(data.Badges))
	}
	for _, st := range data.Steps {
		if st.CorrectOption == "" || len(st.Options) == 0 {
			t.Fatalf("step %d missing options or answer", st.ID)
		}
	}
}

func TestFileCatalogLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	raw := []byte(`levels:
  - {id: 7, position: 1, title: Only}
scenarios:
  - {id: 70, level_id: 7, title: Single}
steps:
  - {id: 700, scenario_id: 70, order: 1, question: "Pick A", correct_option: A, options: [{label: A, text: yes}]}
badges: []
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	data, err := NewFileCatalogLoader(path).LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(data.Steps) != 1 || data.Steps[0].CorrectOption != "A" {
		t.Fatalf("unexpected steps %+v", data.Steps)
	}
}

func TestParseCatalogRejectsUnknownFields(t *testing.T) {
	if _, err := ParseCatalog([]byte("levels:\n  - {id: 1, rank: 2}\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestFileCatalogLoaderMissingFile(t *testing.T) {
	_, err := NewFileCatalogLoader(filepath.Join(t.TempDir(), "nope.yaml")).LoadCatalog(context.Background())
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}
