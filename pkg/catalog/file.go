package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// catalogFile is the on-disk layout of a TOML catalog:
//
//	[[item]]
//	id = "chair_01"
//	name = "Modern Armchair"
//	image_url = "https://..."
//	model = "chair"
//	price = 299
type catalogFile struct {
	Items []Item `toml:"item"`
}

// Read decodes a TOML catalog from r and builds a registry.
func Read(r io.Reader) (*Registry, error) {
	var f catalogFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(f.Items)
}

// Load reads a TOML catalog file at path.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
