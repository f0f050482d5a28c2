package linelist

import (
	_ "embed"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

//go:embed default_catalog.toml
var defaultCatalog []byte

// catalogFile mirrors the TOML layout of a catalog file.
type catalogFile struct {
	Elements    []Element    `toml:"element"`
	Transitions []Transition `toml:"transition"`
}

// Parse builds a catalog from TOML with [[element]] and [[transition]] tables.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog TOML: %w", err)
	}
	if len(f.Transitions) == 0 {
		return nil, fmt.Errorf("parsing catalog TOML: %w", ErrNoTransitions)
	}
	return NewCatalog(f.Transitions, f.Elements)
}

// LoadFile reads a TOML catalog from disk. An empty path yields the built-in
// catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the built-in catalog of common UV/optical IGM transitions.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}
