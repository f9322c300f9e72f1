package memory

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"

	"firstaid-progress-service/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed sample_catalog.yaml
var sampleCatalogYAML []byte

// FileCatalogLoader reads the catalog from a YAML file on every load, so edits
// are picked up when the repository cache expires.
type FileCatalogLoader struct {
	path string
}

func NewFileCatalogLoader(path string) *FileCatalogLoader {
	return &FileCatalogLoader{path: path}
}

func (l *FileCatalogLoader) LoadCatalog(_ context.Context) (domain.CatalogData, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return domain.CatalogData{}, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseCatalog(raw)
}

// ParseCatalog decodes YAML catalog content. Unknown keys are rejected.
func ParseCatalog(raw []byte) (domain.CatalogData, error) {
	var data domain.CatalogData
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		return domain.CatalogData{}, fmt.Errorf("decode catalog: %w", err)
	}
	return data, nil
}

// SampleCatalog returns the built-in first-aid catalog used when no catalog
// source is configured.
func SampleCatalog() domain.CatalogData {
	data, err := ParseCatalog(sampleCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded sample catalog: %v", err))
	}
	return data
}
