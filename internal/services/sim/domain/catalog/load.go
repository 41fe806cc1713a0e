package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/louisbranch/shelfsim/internal/platform/errors"
)

//go:embed data/catalog.yaml
var defaultCatalogYAML []byte

// Decode reads a YAML catalog document and builds a Registry. Unknown keys
// are rejected so typos in definition files fail at startup.
func Decode(r io.Reader) (*Registry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.New(apperrors.CodeCatalogInvalid, "catalog document is empty")
		}
		return nil, apperrors.Wrap(apperrors.CodeCatalogInvalid, "decode catalog", err)
	}
	return New(doc)
}

// Default returns the catalog embedded in the binary.
func Default() (*Registry, error) {
	return Decode(bytes.NewReader(defaultCatalogYAML))
}

// Load reads the catalog at path, or the embedded default when path is blank.
func Load(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
